// Package types provides configuration type definitions.
package types

// AppConfig 应用程序根配置
// 只包含JSON配置文件解析所需的结构，不包含任何内部字段
// 默认值和完整配置结构在 internal/config/*/defaults.go 和 internal/config/*/config.go 中定义
type AppConfig struct {
	// 应用程序基本信息
	AppName *string `json:"app_name,omitempty"` // 应用名称
	DataDir *string `json:"data_dir,omitempty"` // 数据目录路径
	Version *string `json:"version,omitempty"`  // 应用版本

	// Environment 运行环境：dev | test | prod
	// 只影响日志级别、默认端口等运维属性，不改变桥接语义
	Environment *string `json:"environment,omitempty"`

	// 原生执行器配置 - 对应配置文件中的 executor 字段
	Executor *UserExecutorConfig `json:"executor,omitempty"`

	// 轮询循环配置
	Poll *UserPollConfig `json:"poll,omitempty"`

	// 接口合成管线配置
	Synthesis *UserSynthesisConfig `json:"synthesis,omitempty"`

	// 沙箱宿主 HTTP 服务配置
	HTTP *UserHTTPConfig `json:"http,omitempty"`

	// 持久化存储配置
	Storage *UserStorageConfig `json:"storage,omitempty"`

	// 日志配置
	Log *UserLogConfig `json:"log,omitempty"`
}

// UserLogConfig 用户日志配置
//
// 🔧 零值陷阱处理说明：
// 为了区分"用户未设置"和"用户设置为零值"，字段一律使用指针类型：
// - nil: 表示用户未在配置文件中设置该字段，使用系统默认值
// - &value: 表示用户明确设置了该值，即使是零值也会被采用
type UserLogConfig struct {
	Level    *string `json:"level,omitempty"`     // 日志级别 (debug, info, warn, error, fatal)
	FilePath *string `json:"file_path,omitempty"` // 日志文件路径；指定后默认不再输出到控制台
}

// UserExecutorConfig 用户执行器配置
type UserExecutorConfig struct {
	Mode           *string `json:"mode,omitempty"`             // subprocess | attach
	BinaryPath     *string `json:"binary_path,omitempty"`      // 轻客户端二进制路径（subprocess 模式）
	Endpoint       *string `json:"endpoint,omitempty"`         // 执行器 JSON-RPC 端点（attach 模式）
	ExecutionRPC   *string `json:"execution_rpc,omitempty"`    // 上游执行层 RPC
	ConsensusRPC   *string `json:"consensus_rpc,omitempty"`    // 上游共识层 RPC
	ChainID        *uint64 `json:"chain_id,omitempty"`         // 目标链 ID
	DataDir        *string `json:"data_dir,omitempty"`         // 轻客户端数据目录
	RPCPort        *int    `json:"rpc_port,omitempty"`         // 子进程本地 RPC 端口
	SyncTimeoutSec *int    `json:"sync_timeout_sec,omitempty"` // 启动后等待同步完成的超时（秒）
	ReqTimeoutSec  *int    `json:"req_timeout_sec,omitempty"`  // 单次信封往返超时（秒）
}

// UserPollConfig 用户轮询配置
type UserPollConfig struct {
	IntervalSec *int `json:"interval_sec,omitempty"` // 周期间隔（秒）
}

// UserSynthesisConfig 用户接口合成配置
type UserSynthesisConfig struct {
	RegistryEndpoint *string `json:"registry_endpoint,omitempty"` // 验证源注册表端点（etherscan 兼容）
	FollowProxies    *bool   `json:"follow_proxies,omitempty"`    // 是否追踪代理链
	MaxProxyHops     *int    `json:"max_proxy_hops,omitempty"`    // 代理链跳数上限
	CacheSurfaces    *bool   `json:"cache_surfaces,omitempty"`    // 是否按 (地址, abi哈希, 名称) 缓存生成界面
	CacheTTLSec      *int    `json:"cache_ttl_sec,omitempty"`     // 界面缓存存活时间（秒）
	GenerationURL    *string `json:"generation_url,omitempty"`    // 生成服务端点
	GenerationModel  *string `json:"generation_model,omitempty"`  // 生成服务模型名
	GenerationTokens *int    `json:"generation_tokens,omitempty"` // 单次生成的 max_tokens
	GenTimeoutSec    *int    `json:"gen_timeout_sec,omitempty"`   // 生成请求超时（秒）
}

// UserHTTPConfig 用户 HTTP 配置
type UserHTTPConfig struct {
	Host *string `json:"host,omitempty"` // 监听地址
	Port *int    `json:"port,omitempty"` // 监听端口
}

// UserStorageConfig 用户存储配置
type UserStorageConfig struct {
	Path       *string `json:"path,omitempty"`        // BadgerDB 数据目录
	SyncWrites *bool   `json:"sync_writes,omitempty"` // 是否同步写盘
	InMemory   *bool   `json:"in_memory,omitempty"`   // 内存模式（测试用途）
}
