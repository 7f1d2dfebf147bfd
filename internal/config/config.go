package config

import (
	"helloworld-sol/pkg/logger"
)

type LogConfig struct {
	Format   string `yaml:"format"`   // 日志格式，支持 "console" 或 "json"
	LogDir   string `yaml:"log_dir"`  // 日志目录（可为相对路径或绝对路径）
	Level    string `yaml:"level"`    // 日志级别：debug / info / warn / error
	Compress bool   `yaml:"compress"` // 是否压缩旧日志文件
}

func (c *LogConfig) ToLogOption() logger.LogOption {
	return logger.LogOption{
		Format:   c.Format,
		LogDir:   c.LogDir,
		Level:    c.Level,
		Compress: c.Compress,
	}
}

// RpcConfig 表示 Solana RPC 节点相关配置
type RpcConfig struct {
	Endpoint        string `yaml:"endpoint"`          // RPC 节点地址，例如 https://api.devnet.solana.com
	RequestTimeoutS int    `yaml:"request_timeout_s"` // 单次 RPC 请求超时（秒）
}

// AirdropConfig 表示测试网空投（领水）相关配置
type AirdropConfig struct {
	Lamports   uint64 `yaml:"lamports"`    // 每次申请的空投数量（lamports）
	MinBalance uint64 `yaml:"min_balance"` // 余额低于该值才申请空投
}

// ConfirmConfig 表示交易确认轮询配置。
// 轮询是有界的：超过 MaxAttempts 次仍未确认即判定为确认超时并返回错误。
type ConfirmConfig struct {
	IntervalMs  int `yaml:"interval_ms"`  // 轮询间隔（毫秒）
	MaxAttempts int `yaml:"max_attempts"` // 最大轮询次数
}

// InvokerConfig 是主配置结构体，用于驱动 hello 程序调用客户端
type InvokerConfig struct {
	LogConf     LogConfig     `yaml:"logger"`  // 日志配置
	RpcConf     RpcConfig     `yaml:"rpc"`     // RPC 节点配置
	AirdropConf AirdropConfig `yaml:"airdrop"` // 空投配置
	ConfirmConf ConfirmConfig `yaml:"confirm"` // 确认轮询配置

	ProgramID string `yaml:"program_id"` // 已部署的 hello 程序地址（base58）
}
