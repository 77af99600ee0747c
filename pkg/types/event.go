// Package types provides event type definitions.
package types

import "time"

// EventType 事件类型，命名遵循 domain.category.action
type EventType string

// SubscriptionID 订阅ID
type SubscriptionID string

// SubscriptionInfo 订阅信息
type SubscriptionInfo struct {
	ID            SubscriptionID `json:"id"`                       // 订阅ID
	EventType     EventType      `json:"event_type"`               // 事件类型
	Handler       interface{}    `json:"-"`                        // 处理函数（不序列化）
	CreatedAt     time.Time      `json:"created_at"`               // 创建时间
	LastTriggered *time.Time     `json:"last_triggered,omitempty"` // 最后触发时间
	TriggerCount  uint64         `json:"trigger_count"`            // 触发计数
	IsActive      bool           `json:"is_active"`                // 是否激活
}

// ============================================================================
//                        跨组件事件负载
// ============================================================================

// ModeChangeEvent 链状态模式切换事件负载
// 由 chainstate 的显式状态迁移函数发布
type ModeChangeEvent struct {
	From      ChainMode `json:"from"`
	To        ChainMode `json:"to"`
	BaseBlock uint64    `json:"base_block,omitempty"` // 进入 forked 时固定的基准区块
	At        time.Time `json:"at"`
}

// PollCycleEvent 轮询周期完成事件负载
type PollCycleEvent struct {
	SessionID string    `json:"session_id"`
	Cycle     uint64    `json:"cycle"`
	Block     uint64    `json:"block,omitempty"`
	Failed    bool      `json:"failed"` // 周期内有失败（已吞掉并继续）
	At        time.Time `json:"at"`
}

// AddressChangeEvent 目标合约地址变更事件负载
type AddressChangeEvent struct {
	Previous string    `json:"previous"`
	Current  string    `json:"current"`
	At       time.Time `json:"at"`
}

// SurfaceInjectedEvent 界面注入完成事件负载
// 每次注入都是整体替换，旧的提供者句柄同时被吊销
type SurfaceInjectedEvent struct {
	Address string    `json:"address"`
	Name    string    `json:"name"`
	At      time.Time `json:"at"`
}

// ExecutorStateEvent 原生执行器生命周期事件负载
type ExecutorStateEvent struct {
	Running  bool      `json:"running"`
	Endpoint string    `json:"endpoint,omitempty"`
	Message  string    `json:"message,omitempty"`
	At       time.Time `json:"at"`
}
