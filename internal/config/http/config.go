// Package http 提供沙箱宿主 HTTP 服务的配置管理
package http

import (
	"fmt"

	configtypes "github.com/weisyn/lens/pkg/types"
)

// HTTPOptions HTTP 配置选项
type HTTPOptions struct {
	Host string `json:"host"` // 监听地址
	Port int    `json:"port"` // 监听端口
}

// Config HTTP 配置实现
type Config struct {
	options *HTTPOptions
}

// New 创建 HTTP 配置
// userConfig 为 nil 时使用完整默认配置
func New(userConfig *configtypes.UserHTTPConfig) *Config {
	options := &HTTPOptions{
		Host: defaultHost,
		Port: defaultPort,
	}

	if userConfig != nil {
		if userConfig.Host != nil {
			options.Host = *userConfig.Host
		}
		if userConfig.Port != nil && *userConfig.Port > 0 {
			options.Port = *userConfig.Port
		}
	}

	return &Config{options: options}
}

// GetHost 获取监听地址
func (c *Config) GetHost() string {
	return c.options.Host
}

// GetPort 获取监听端口
func (c *Config) GetPort() int {
	return c.options.Port
}

// GetListenAddr 获取 host:port 形式的监听地址
func (c *Config) GetListenAddr() string {
	return fmt.Sprintf("%s:%d", c.options.Host, c.options.Port)
}
