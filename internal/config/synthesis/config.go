// Package synthesis 提供接口合成管线的配置管理
package synthesis

import (
	"time"

	configtypes "github.com/weisyn/lens/pkg/types"
)

// SynthesisOptions 接口合成配置选项
type SynthesisOptions struct {
	RegistryEndpoint string `json:"registry_endpoint"` // 验证源注册表端点（etherscan 兼容）
	FollowProxies    bool   `json:"follow_proxies"`    // 是否追踪代理链
	MaxProxyHops     int    `json:"max_proxy_hops"`    // 代理链跳数上限
	CacheSurfaces    bool   `json:"cache_surfaces"`    // 是否缓存生成界面
	CacheTTLSec      int    `json:"cache_ttl_sec"`     // 界面缓存存活时间（秒）
	GenerationURL    string `json:"generation_url"`    // 生成服务端点
	GenerationModel  string `json:"generation_model"`  // 生成服务模型名
	GenerationTokens int    `json:"generation_tokens"` // 单次生成的 max_tokens
	GenTimeoutSec    int    `json:"gen_timeout_sec"`   // 生成请求超时（秒）
}

// Config 接口合成配置实现
type Config struct {
	options *SynthesisOptions
}

// New 创建接口合成配置
// userConfig 为 nil 时使用完整默认配置
func New(userConfig *configtypes.UserSynthesisConfig) *Config {
	options := &SynthesisOptions{
		RegistryEndpoint: defaultRegistryEndpoint,
		FollowProxies:    defaultFollowProxies,
		MaxProxyHops:     defaultMaxProxyHops,
		CacheSurfaces:    defaultCacheSurfaces,
		CacheTTLSec:      defaultCacheTTLSec,
		GenerationURL:    defaultGenerationURL,
		GenerationModel:  defaultGenerationModel,
		GenerationTokens: defaultGenerationTokens,
		GenTimeoutSec:    defaultGenTimeoutSec,
	}

	if userConfig != nil {
		if userConfig.RegistryEndpoint != nil {
			options.RegistryEndpoint = *userConfig.RegistryEndpoint
		}
		if userConfig.FollowProxies != nil {
			options.FollowProxies = *userConfig.FollowProxies
		}
		if userConfig.MaxProxyHops != nil && *userConfig.MaxProxyHops > 0 {
			options.MaxProxyHops = *userConfig.MaxProxyHops
		}
		if userConfig.CacheSurfaces != nil {
			options.CacheSurfaces = *userConfig.CacheSurfaces
		}
		if userConfig.CacheTTLSec != nil && *userConfig.CacheTTLSec > 0 {
			options.CacheTTLSec = *userConfig.CacheTTLSec
		}
		if userConfig.GenerationURL != nil {
			options.GenerationURL = *userConfig.GenerationURL
		}
		if userConfig.GenerationModel != nil {
			options.GenerationModel = *userConfig.GenerationModel
		}
		if userConfig.GenerationTokens != nil && *userConfig.GenerationTokens > 0 {
			options.GenerationTokens = *userConfig.GenerationTokens
		}
		if userConfig.GenTimeoutSec != nil && *userConfig.GenTimeoutSec > 0 {
			options.GenTimeoutSec = *userConfig.GenTimeoutSec
		}
	}

	return &Config{options: options}
}

// GetRegistryEndpoint 获取验证源注册表端点
func (c *Config) GetRegistryEndpoint() string {
	return c.options.RegistryEndpoint
}

// IsProxyFollowEnabled 是否追踪代理链
func (c *Config) IsProxyFollowEnabled() bool {
	return c.options.FollowProxies
}

// GetMaxProxyHops 获取代理链跳数上限
func (c *Config) GetMaxProxyHops() int {
	return c.options.MaxProxyHops
}

// IsSurfaceCacheEnabled 是否启用生成界面缓存
//
// 默认关闭：每个轮询周期整体重新生成界面是刻意保留的行为，
// 缓存是显式可配置的优化，不是默认假设。
func (c *Config) IsSurfaceCacheEnabled() bool {
	return c.options.CacheSurfaces
}

// GetCacheTTL 获取界面缓存存活时间
func (c *Config) GetCacheTTL() time.Duration {
	return time.Duration(c.options.CacheTTLSec) * time.Second
}

// GetGenerationURL 获取生成服务端点
func (c *Config) GetGenerationURL() string {
	return c.options.GenerationURL
}

// GetGenerationModel 获取生成服务模型名
func (c *Config) GetGenerationModel() string {
	return c.options.GenerationModel
}

// GetGenerationTokens 获取单次生成的 max_tokens
func (c *Config) GetGenerationTokens() int {
	return c.options.GenerationTokens
}

// GetGenerationTimeout 获取生成请求超时
func (c *Config) GetGenerationTimeout() time.Duration {
	return time.Duration(c.options.GenTimeoutSec) * time.Second
}
