package invoker

import (
	"context"
	"fmt"
	"time"

	"helloworld-sol/internal/config"
	"helloworld-sol/internal/consts"
	"helloworld-sol/internal/logic/hello"
	"helloworld-sol/internal/svc"
	"helloworld-sol/internal/types"
	"helloworld-sol/pkg/logger"

	"github.com/blocto/solana-go-sdk/client"
	"github.com/blocto/solana-go-sdk/common"
	soltypes "github.com/blocto/solana-go-sdk/types"
)

// Invoker 负责一次完整的 hello 程序调用：
// 领水 -> 程序预检 -> 构造并提交交易 -> 等待确认。
type Invoker struct {
	client    *client.Client
	payer     soltypes.Account
	programID types.Pubkey

	airdrop config.AirdropConfig
	confirm config.ConfirmConfig
	timeout time.Duration // 单次 RPC 请求超时
}

func New(sc *svc.InvokerServiceContext) *Invoker {
	iv := &Invoker{
		client:    sc.RpcClient,
		payer:     sc.Payer,
		programID: sc.ProgramID,
		airdrop:   sc.Config.AirdropConf,
		confirm:   sc.Config.ConfirmConf,
		timeout:   time.Duration(sc.Config.RpcConf.RequestTimeoutS) * time.Second,
	}

	// 未配置项取默认值
	if iv.airdrop.Lamports == 0 {
		iv.airdrop.Lamports = consts.DefaultAirdropLamports
	}
	if iv.airdrop.MinBalance == 0 {
		iv.airdrop.MinBalance = consts.DefaultMinBalanceLamports
	}
	if iv.confirm.IntervalMs <= 0 {
		iv.confirm.IntervalMs = 500
	}
	if iv.confirm.MaxAttempts <= 0 {
		iv.confirm.MaxAttempts = 30
	}
	if iv.timeout <= 0 {
		iv.timeout = 10 * time.Second
	}
	return iv
}

// Run 执行完整调用流程，成功时返回交易签名
func (iv *Invoker) Run(ctx context.Context) (string, error) {
	if err := iv.ensureFunded(ctx); err != nil {
		return "", fmt.Errorf("ensure funded: %w", err)
	}
	if err := iv.checkProgram(ctx); err != nil {
		return "", fmt.Errorf("check program: %w", err)
	}

	sig, err := iv.invokeHello(ctx)
	if err != nil {
		return "", fmt.Errorf("invoke hello: %w", err)
	}

	if err := iv.awaitConfirmation(ctx, sig); err != nil {
		return "", fmt.Errorf("confirm %s: %w", sig, err)
	}

	logger.Infof("[Invoker] 调用已确认, signature=%s", sig)
	return sig, nil
}

// ensureFunded 确保 payer 有足够余额付手续费。
// 余额已达标时跳过空投，否则申请空投并等待确认。
func (iv *Invoker) ensureFunded(ctx context.Context) error {
	cctx, cancel := context.WithTimeout(ctx, iv.timeout)
	balance, err := iv.client.GetBalance(cctx, iv.payer.PublicKey.ToBase58())
	cancel()
	if err != nil {
		return fmt.Errorf("GetBalance failed: %w", err)
	}

	if balance >= iv.airdrop.MinBalance {
		logger.Infof("[Invoker] 余额充足, balance=%d lamports, 跳过空投", balance)
		return nil
	}

	cctx, cancel = context.WithTimeout(ctx, iv.timeout)
	sig, err := iv.client.RequestAirdrop(cctx, iv.payer.PublicKey.ToBase58(), iv.airdrop.Lamports)
	cancel()
	if err != nil {
		return fmt.Errorf("RequestAirdrop failed: %w", err)
	}
	logger.Infof("[Invoker] 已申请空投 %d lamports, signature=%s", iv.airdrop.Lamports, sig)

	if err := iv.awaitConfirmation(ctx, sig); err != nil {
		return fmt.Errorf("airdrop %s: %w", sig, err)
	}
	return nil
}

// checkProgram 调用前预检：目标账户必须存在且为可执行程序
func (iv *Invoker) checkProgram(ctx context.Context) error {
	cctx, cancel := context.WithTimeout(ctx, iv.timeout)
	info, err := iv.client.GetAccountInfo(cctx, iv.programID.String())
	cancel()
	if err != nil {
		return fmt.Errorf("GetAccountInfo failed: %w", err)
	}

	if info.Owner == (common.PublicKey{}) && info.Lamports == 0 {
		return fmt.Errorf("program %s 不存在，请先部署", iv.programID)
	}
	if !info.Executable {
		return fmt.Errorf("program %s 不可执行，可能尚未完成部署", iv.programID)
	}
	return nil
}

// invokeHello 构造、签名并提交 hello 调用交易
func (iv *Invoker) invokeHello(ctx context.Context) (string, error) {
	instr, err := hello.NewHelloInstruction(common.PublicKeyFromBytes(iv.programID.Bytes()))
	if err != nil {
		return "", err
	}

	cctx, cancel := context.WithTimeout(ctx, iv.timeout)
	blockhash, err := iv.client.GetLatestBlockhash(cctx)
	cancel()
	if err != nil {
		return "", fmt.Errorf("GetLatestBlockhash failed: %w", err)
	}

	tx, err := soltypes.NewTransaction(soltypes.NewTransactionParam{
		Message: soltypes.NewMessage(soltypes.NewMessageParam{
			FeePayer:        iv.payer.PublicKey,
			RecentBlockhash: blockhash.Blockhash,
			Instructions:    []soltypes.Instruction{instr},
		}),
		Signers: []soltypes.Account{iv.payer},
	})
	if err != nil {
		return "", fmt.Errorf("build transaction failed: %w", err)
	}

	cctx, cancel = context.WithTimeout(ctx, iv.timeout)
	sig, err := iv.client.SendTransaction(cctx, tx)
	cancel()
	if err != nil {
		return "", fmt.Errorf("SendTransaction failed: %w", err)
	}

	logger.Infof("[Invoker] 交易已提交, signature=%s", sig)
	return sig, nil
}
