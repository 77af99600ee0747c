package executor

// 执行器配置默认值
const (
	// defaultMode 默认以子进程方式监督轻客户端
	// 原因：宿主单机使用时自带执行器最省事；已有节点的环境改用 attach
	defaultMode = ModeSubprocess

	// defaultBinaryPath 为空表示在 PATH 中查找 helios 二进制
	defaultBinaryPath = ""

	// defaultEndpoint attach 模式的默认执行器端点
	// 与子进程模式的默认 RPC 端口保持一致，便于两种模式互换
	defaultEndpoint = "http://127.0.0.1:8545"

	// defaultExecutionRPC 上游执行层 RPC（必须由用户按自己的提供商配置）
	defaultExecutionRPC = "https://eth-mainnet.g.alchemy.com/v2/"

	// defaultConsensusRPC 上游共识层 RPC
	defaultConsensusRPC = "https://www.lightclientdata.org"

	// defaultChainID 以太坊主网
	defaultChainID = 1

	// defaultDataDir 轻客户端检查点数据目录
	defaultDataDir = "./data/helios"

	// defaultRPCPort 子进程本地 RPC 端口
	defaultRPCPort = 8545

	// defaultSyncTimeoutSec 等待轻客户端同步完成的超时
	// 共识层首次同步通常在一两分钟内完成，5 分钟是宽裕的上界
	defaultSyncTimeoutSec = 300

	// defaultReqTimeoutSec 单次信封往返超时
	defaultReqTimeoutSec = 30
)
