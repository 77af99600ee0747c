// Package poll 提供轮询循环的配置管理
package poll

import (
	"time"

	configtypes "github.com/weisyn/lens/pkg/types"
)

// PollOptions 轮询配置选项
type PollOptions struct {
	IntervalSec int `json:"interval_sec"` // 周期间隔（秒）
}

// Config 轮询配置实现
type Config struct {
	options *PollOptions
}

// New 创建轮询配置
// userConfig 为 nil 时使用完整默认配置
func New(userConfig *configtypes.UserPollConfig) *Config {
	options := &PollOptions{
		IntervalSec: defaultIntervalSec,
	}

	if userConfig != nil {
		if userConfig.IntervalSec != nil && *userConfig.IntervalSec > 0 {
			options.IntervalSec = *userConfig.IntervalSec
		}
	}

	return &Config{options: options}
}

// GetInterval 获取周期间隔
//
// 间隔从上个周期完全落定后起算：不是 ticker 语义，
// 周期绝不重叠。
func (c *Config) GetInterval() time.Duration {
	return time.Duration(c.options.IntervalSec) * time.Second
}
