// Package executor 提供原生执行器的配置管理
package executor

import (
	"time"

	configtypes "github.com/weisyn/lens/pkg/types"
)

// Mode 执行器运行模式
type Mode string

const (
	// ModeSubprocess 宿主监督轻客户端子进程
	ModeSubprocess Mode = "subprocess"

	// ModeAttach 连接已在运行的执行器端点，不管理其生命周期
	ModeAttach Mode = "attach"
)

// ExecutorOptions 执行器配置选项
type ExecutorOptions struct {
	Mode         Mode   `json:"mode"`          // subprocess | attach
	BinaryPath   string `json:"binary_path"`   // 轻客户端二进制路径（空则在 PATH 中查找）
	Endpoint     string `json:"endpoint"`      // attach 模式的执行器端点
	ExecutionRPC string `json:"execution_rpc"` // 上游执行层 RPC
	ConsensusRPC string `json:"consensus_rpc"` // 上游共识层 RPC
	ChainID      uint64 `json:"chain_id"`      // 目标链 ID
	DataDir      string `json:"data_dir"`      // 轻客户端数据目录
	RPCPort      int    `json:"rpc_port"`      // 子进程本地 RPC 端口
	SyncTimeout  int    `json:"sync_timeout"`  // 等待同步完成的超时（秒）
	ReqTimeout   int    `json:"req_timeout"`   // 单次信封往返超时（秒）
}

// Config 执行器配置实现
type Config struct {
	options *ExecutorOptions
}

// New 创建执行器配置
// userConfig 为 nil 时使用完整默认配置
func New(userConfig *configtypes.UserExecutorConfig) *Config {
	options := &ExecutorOptions{
		Mode:         defaultMode,
		BinaryPath:   defaultBinaryPath,
		Endpoint:     defaultEndpoint,
		ExecutionRPC: defaultExecutionRPC,
		ConsensusRPC: defaultConsensusRPC,
		ChainID:      defaultChainID,
		DataDir:      defaultDataDir,
		RPCPort:      defaultRPCPort,
		SyncTimeout:  defaultSyncTimeoutSec,
		ReqTimeout:   defaultReqTimeoutSec,
	}

	if userConfig != nil {
		if userConfig.Mode != nil {
			options.Mode = Mode(*userConfig.Mode)
		}
		if userConfig.BinaryPath != nil {
			options.BinaryPath = *userConfig.BinaryPath
		}
		if userConfig.Endpoint != nil {
			options.Endpoint = *userConfig.Endpoint
		}
		if userConfig.ExecutionRPC != nil {
			options.ExecutionRPC = *userConfig.ExecutionRPC
		}
		if userConfig.ConsensusRPC != nil {
			options.ConsensusRPC = *userConfig.ConsensusRPC
		}
		if userConfig.ChainID != nil {
			options.ChainID = *userConfig.ChainID
		}
		if userConfig.DataDir != nil {
			options.DataDir = *userConfig.DataDir
		}
		if userConfig.RPCPort != nil {
			options.RPCPort = *userConfig.RPCPort
		}
		if userConfig.SyncTimeoutSec != nil {
			options.SyncTimeout = *userConfig.SyncTimeoutSec
		}
		if userConfig.ReqTimeoutSec != nil {
			options.ReqTimeout = *userConfig.ReqTimeoutSec
		}
	}

	return &Config{options: options}
}

// GetMode 获取执行器运行模式
func (c *Config) GetMode() Mode {
	return c.options.Mode
}

// GetBinaryPath 获取轻客户端二进制路径
func (c *Config) GetBinaryPath() string {
	return c.options.BinaryPath
}

// GetEndpoint 获取 attach 模式的执行器端点
func (c *Config) GetEndpoint() string {
	return c.options.Endpoint
}

// GetExecutionRPC 获取上游执行层 RPC
func (c *Config) GetExecutionRPC() string {
	return c.options.ExecutionRPC
}

// GetConsensusRPC 获取上游共识层 RPC
func (c *Config) GetConsensusRPC() string {
	return c.options.ConsensusRPC
}

// GetChainID 获取目标链 ID
func (c *Config) GetChainID() uint64 {
	return c.options.ChainID
}

// GetDataDir 获取轻客户端数据目录
func (c *Config) GetDataDir() string {
	return c.options.DataDir
}

// GetRPCPort 获取子进程本地 RPC 端口
func (c *Config) GetRPCPort() int {
	return c.options.RPCPort
}

// GetSyncTimeout 获取同步等待超时
func (c *Config) GetSyncTimeout() time.Duration {
	return time.Duration(c.options.SyncTimeout) * time.Second
}

// GetRequestTimeout 获取单次信封往返超时
func (c *Config) GetRequestTimeout() time.Duration {
	return time.Duration(c.options.ReqTimeout) * time.Second
}
