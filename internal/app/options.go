package app

import (
	"github.com/weisyn/lens/pkg/types"
)

// Option 应用程序选项函数类型
type Option func(*options)

// options 应用程序选项
type options struct {
	// 配置文件路径
	configFilePath string

	// 解析后的用户配置
	appConfig *types.AppConfig

	// API支持开关（默认启用）
	enableAPI bool
}

// WithConfigFile 设置配置文件路径
func WithConfigFile(configPath string) Option {
	return func(o *options) {
		o.configFilePath = configPath
	}
}

// WithAPI 启用API模块
func WithAPI() Option {
	return func(o *options) {
		o.enableAPI = true
	}
}

// WithoutAPI 禁用API模块
func WithoutAPI() Option {
	return func(o *options) {
		o.enableAPI = false
	}
}

// newOptions 创建选项
func newOptions(opts ...Option) *options {
	o := &options{
		enableAPI: true,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
