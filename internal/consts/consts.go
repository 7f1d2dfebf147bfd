package consts

const (
	// LamportsPerSol 1 SOL = 10^9 lamports
	LamportsPerSol uint64 = 1_000_000_000

	// DefaultAirdropLamports 默认空投数量：1 SOL，足够覆盖多次调用的签名费
	DefaultAirdropLamports = LamportsPerSol

	// DefaultMinBalanceLamports 余额低于该值才触发空投（约两笔签名费）
	DefaultMinBalanceLamports uint64 = 10_000
)
