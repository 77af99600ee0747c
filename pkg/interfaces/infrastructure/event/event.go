// Package event 提供lens宿主的事件总线接口定义
//
// 🎯 **事件总线系统 (Event Bus System)**
//
// 本文件定义了lens宿主的事件总线接口，支持：
// - 标准事件订阅和发布
// - 事件过滤订阅
// - 异步事件处理
// - 事件历史（调试用途）
//
// 设计约束：状态迁移事件只由显式迁移函数发布（fork/unfork、
// 轮询启停、地址变更），不挂在字段赋值上触发。
package event

import (
	"github.com/weisyn/lens/pkg/types"
)

// 兼容别名
type EventType = types.EventType

// Event 事件接口
type Event interface {
	// Type 返回事件类型
	Type() EventType
	// Data 返回事件数据
	Data() interface{}
}

// EventHandler 事件处理器
type EventHandler func(event Event) error

// EventFilter 事件过滤器，返回 false 则跳过该订阅者
type EventFilter func(event Event) bool

// EventBus 事件总线接口
//
// 注意：事件总线由DI容器自动管理生命周期
type EventBus interface {
	// Subscribe 订阅事件
	Subscribe(eventType EventType, handler interface{}) error

	// SubscribeAsync 异步订阅事件
	SubscribeAsync(eventType EventType, handler interface{}, transactional bool) error

	// SubscribeOnce 一次性订阅事件
	SubscribeOnce(eventType EventType, handler interface{}) error

	// Publish 发布事件
	Publish(eventType EventType, args ...interface{})

	// PublishEvent 发布Event接口类型事件
	PublishEvent(event Event)

	// Unsubscribe 取消订阅
	Unsubscribe(eventType EventType, handler interface{}) error

	// WaitAsync 等待所有异步处理完成
	WaitAsync()

	// HasCallback 检查是否有回调函数
	HasCallback(eventType EventType) bool

	// SubscribeWithFilter 带过滤器的订阅
	SubscribeWithFilter(eventType EventType, filter EventFilter, handler EventHandler) (types.SubscriptionID, error)

	// UnsubscribeByID 通过订阅ID取消订阅
	UnsubscribeByID(id types.SubscriptionID) error

	// EnableEventHistory 启用事件历史记录
	EnableEventHistory(eventType EventType, maxSize int) error

	// DisableEventHistory 禁用事件历史记录
	DisableEventHistory(eventType EventType) error

	// GetEventHistory 获取指定事件类型的历史记录
	// 如果历史功能未启用或没有历史记录，返回nil
	GetEventHistory(eventType EventType) []interface{}

	// GetActiveSubscriptions 获取活跃订阅列表
	GetActiveSubscriptions() ([]*types.SubscriptionInfo, error)
}
