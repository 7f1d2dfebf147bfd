package program

import (
	"helloworld-sol/internal/types"
	"helloworld-sol/pkg/logger"
)

// HelloLogMessage 程序唯一的输出：一条固定日志。
// 修改这里只影响日志内容，不影响调用的成功/失败语义。
const HelloLogMessage = "Hello, Solana world!"

// AccountMeta 指令引用的账户及其读写/签名属性，顺序由调用方决定
type AccountMeta struct {
	Pubkey     types.Pubkey
	IsSigner   bool
	IsWritable bool
}

// Invocation 一次链上调用的完整入参。
// 由宿主执行环境组装后传入，本次调用返回后即失效，程序不得持有引用。
type Invocation struct {
	ProgramID types.Pubkey  // 被调用程序自身的地址
	Accounts  []AccountMeta // 账户引用列表，保持原始顺序
	Data      []byte        // 指令数据（不透明字节序列）
}

// LogSink 宿主提供的日志通道
type LogSink func(msg string)

// Handler hello 程序的入口处理器
type Handler struct {
	sink LogSink
}

// NewHandler 创建处理器；sink 为 nil 时写入进程日志
func NewHandler(sink LogSink) *Handler {
	if sink == nil {
		sink = func(msg string) {
			logger.Infof("[Program] %s", msg)
		}
	}
	return &Handler{sink: sink}
}

// Process 程序入口：不检查任何入参，记录固定消息后直接成功返回。
// 除日志外没有任何副作用，不读写账户数据。
func (h *Handler) Process(inv Invocation) error {
	h.sink(HelloLogMessage)
	return nil
}
