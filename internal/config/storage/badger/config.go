// Package badger 提供 BadgerDB 存储的配置管理
package badger

import (
	configtypes "github.com/weisyn/lens/pkg/types"
)

// BadgerOptions BadgerDB 配置选项
type BadgerOptions struct {
	Path       string `json:"path"`        // 数据目录
	SyncWrites bool   `json:"sync_writes"` // 是否同步写盘
	InMemory   bool   `json:"in_memory"`   // 内存模式（测试用途）
}

// Config BadgerDB 配置实现
type Config struct {
	options *BadgerOptions
}

// New 创建 BadgerDB 配置
// userConfig 为 nil 时使用完整默认配置
func New(userConfig *configtypes.UserStorageConfig) *Config {
	options := &BadgerOptions{
		Path:       defaultPath,
		SyncWrites: defaultSyncWrites,
		InMemory:   defaultInMemory,
	}

	if userConfig != nil {
		if userConfig.Path != nil {
			options.Path = *userConfig.Path
		}
		if userConfig.SyncWrites != nil {
			options.SyncWrites = *userConfig.SyncWrites
		}
		if userConfig.InMemory != nil {
			options.InMemory = *userConfig.InMemory
		}
	}

	return &Config{options: options}
}

// GetPath 获取数据目录
func (c *Config) GetPath() string {
	return c.options.Path
}

// IsSyncWritesEnabled 是否同步写盘
func (c *Config) IsSyncWritesEnabled() bool {
	return c.options.SyncWrites
}

// IsInMemory 是否为内存模式
func (c *Config) IsInMemory() bool {
	return c.options.InMemory
}
