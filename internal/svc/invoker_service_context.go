package svc

import (
	"fmt"

	"helloworld-sol/internal/config"
	"helloworld-sol/internal/types"
	"helloworld-sol/pkg/logger"

	"github.com/blocto/solana-go-sdk/client"
	soltypes "github.com/blocto/solana-go-sdk/types"
)

// InvokerServiceContext 包含一次调用所需的全部资源
type InvokerServiceContext struct {
	Config    config.InvokerConfig
	RpcClient *client.Client   // Solana RPC客户端
	Payer     soltypes.Account // 本次运行新生成的付费签名账户
	ProgramID types.Pubkey     // 目标 hello 程序地址
}

// NewInvokerServiceContext 创建一个新的调用服务上下文。
// 每次运行都生成全新的 payer 密钥对，不落盘、不复用。
func NewInvokerServiceContext(c config.InvokerConfig) (*InvokerServiceContext, error) {
	programID, err := types.TryPubkeyFromBase58(c.ProgramID)
	if err != nil {
		return nil, fmt.Errorf("program_id 非法: %w", err)
	}

	payer := soltypes.NewAccount()

	ctx := &InvokerServiceContext{
		Config:    c,
		RpcClient: client.NewClient(c.RpcConf.Endpoint),
		Payer:     payer,
		ProgramID: programID,
	}

	logger.Infof("[Invoker] 服务上下文初始化完成, payer=%s, program=%s",
		payer.PublicKey.ToBase58(), programID)
	return ctx, nil
}
