// 基于asaskevich/EventBus的事件总线实现
// 承载宿主内跨组件的状态迁移事件：模式切换、轮询生命周期、地址变更、界面注入

package event

import (
	"fmt"
	"sync"
	"time"

	evbus "github.com/asaskevich/EventBus"
	"github.com/google/uuid"
	"github.com/weisyn/lens/pkg/interfaces/infrastructure/event"
	"github.com/weisyn/lens/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/lens/pkg/types"
)

// 确保 EventBus 实现了 event.EventBus 接口
var _ event.EventBus = (*EventBus)(nil)

// EventBus 是基于asaskevich/EventBus的实现
//
// 设计约束：状态迁移事件只由显式迁移函数发布（fork/unfork、
// 轮询启停、地址变更），不挂在字段赋值上触发。
type EventBus struct {
	bus    evbus.Bus  // 底层事件总线
	logger log.Logger // 日志记录器（可为nil）

	// 过滤订阅管理
	filteredMu   sync.RWMutex
	filteredSubs map[types.SubscriptionID]*filteredSubscription

	// 历史记录
	historyMu      sync.RWMutex
	historyEnabled map[event.EventType]int               // 事件类型 -> 最大容量
	eventHistory   map[event.EventType][]interface{}     // 历史事件存储
}

// filteredSubscription 带过滤器的订阅信息
type filteredSubscription struct {
	id        types.SubscriptionID
	eventType event.EventType
	handler   interface{} // 注册进底层总线的包装函数，退订时需要原引用
	createdAt time.Time
	triggered uint64
	lastAt    *time.Time
}

// New 创建事件总线实例
// 所有事件总线实例必须通过此函数创建
func New(logger log.Logger) event.EventBus {
	return &EventBus{
		bus:            evbus.New(),
		logger:         logger,
		filteredSubs:   make(map[types.SubscriptionID]*filteredSubscription),
		historyEnabled: make(map[event.EventType]int),
		eventHistory:   make(map[event.EventType][]interface{}),
	}
}

// Subscribe 实现订阅
func (eb *EventBus) Subscribe(eventType event.EventType, handler interface{}) error {
	return eb.bus.Subscribe(string(eventType), handler)
}

// SubscribeAsync 实现异步订阅
func (eb *EventBus) SubscribeAsync(eventType event.EventType, handler interface{}, transactional bool) error {
	return eb.bus.SubscribeAsync(string(eventType), handler, transactional)
}

// SubscribeOnce 实现一次性订阅
func (eb *EventBus) SubscribeOnce(eventType event.EventType, handler interface{}) error {
	return eb.bus.SubscribeOnce(string(eventType), handler)
}

// Publish 发布事件
func (eb *EventBus) Publish(eventType event.EventType, args ...interface{}) {
	eb.recordHistory(eventType, args)
	eb.bus.Publish(string(eventType), args...)
}

// PublishEvent 发布Event接口类型事件
func (eb *EventBus) PublishEvent(evt event.Event) {
	if evt == nil {
		return
	}
	eb.Publish(evt.Type(), evt.Data())
}

// Unsubscribe 取消订阅
func (eb *EventBus) Unsubscribe(eventType event.EventType, handler interface{}) error {
	return eb.bus.Unsubscribe(string(eventType), handler)
}

// WaitAsync 等待所有异步处理完成
func (eb *EventBus) WaitAsync() {
	eb.bus.WaitAsync()
}

// HasCallback 检查是否有回调函数
func (eb *EventBus) HasCallback(eventType event.EventType) bool {
	return eb.bus.HasCallback(string(eventType))
}

// SubscribeWithFilter 带过滤器的订阅
// 过滤器返回 false 时该事件对此订阅者不可见
func (eb *EventBus) SubscribeWithFilter(eventType event.EventType, filter event.EventFilter, handler event.EventHandler) (types.SubscriptionID, error) {
	if handler == nil {
		return "", fmt.Errorf("事件处理器不能为空")
	}

	id := types.SubscriptionID(uuid.NewString())
	sub := &filteredSubscription{
		id:        id,
		eventType: eventType,
		createdAt: time.Now(),
	}

	// 包装：底层总线以 (data) 回调，这里还原成 Event 并过滤
	wrapped := func(data interface{}) {
		evt := &genericEvent{eventType: eventType, data: data}
		if filter != nil && !filter(evt) {
			return
		}

		eb.filteredMu.Lock()
		sub.triggered++
		now := time.Now()
		sub.lastAt = &now
		eb.filteredMu.Unlock()

		if err := handler(evt); err != nil && eb.logger != nil {
			eb.logger.Warnf("事件处理器执行失败: type=%s err=%v", eventType, err)
		}
	}
	sub.handler = wrapped

	if err := eb.bus.Subscribe(string(eventType), wrapped); err != nil {
		return "", fmt.Errorf("订阅事件失败: %w", err)
	}

	eb.filteredMu.Lock()
	eb.filteredSubs[id] = sub
	eb.filteredMu.Unlock()

	return id, nil
}

// UnsubscribeByID 通过订阅ID取消订阅
func (eb *EventBus) UnsubscribeByID(id types.SubscriptionID) error {
	eb.filteredMu.Lock()
	sub, ok := eb.filteredSubs[id]
	if ok {
		delete(eb.filteredSubs, id)
	}
	eb.filteredMu.Unlock()

	if !ok {
		return fmt.Errorf("订阅不存在: %s", id)
	}
	return eb.bus.Unsubscribe(string(sub.eventType), sub.handler)
}

// EnableEventHistory 启用事件历史记录
func (eb *EventBus) EnableEventHistory(eventType event.EventType, maxSize int) error {
	if maxSize <= 0 {
		return fmt.Errorf("历史容量必须为正数: %d", maxSize)
	}
	eb.historyMu.Lock()
	defer eb.historyMu.Unlock()
	eb.historyEnabled[eventType] = maxSize
	return nil
}

// DisableEventHistory 禁用事件历史记录
func (eb *EventBus) DisableEventHistory(eventType event.EventType) error {
	eb.historyMu.Lock()
	defer eb.historyMu.Unlock()
	delete(eb.historyEnabled, eventType)
	delete(eb.eventHistory, eventType)
	return nil
}

// GetEventHistory 获取指定事件类型的历史记录
// 如果历史功能未启用或没有历史记录，返回nil
func (eb *EventBus) GetEventHistory(eventType event.EventType) []interface{} {
	eb.historyMu.RLock()
	defer eb.historyMu.RUnlock()

	history, ok := eb.eventHistory[eventType]
	if !ok || len(history) == 0 {
		return nil
	}
	// 返回拷贝，避免调用方修改内部切片
	out := make([]interface{}, len(history))
	copy(out, history)
	return out
}

// GetActiveSubscriptions 获取活跃订阅列表
func (eb *EventBus) GetActiveSubscriptions() ([]*types.SubscriptionInfo, error) {
	eb.filteredMu.RLock()
	defer eb.filteredMu.RUnlock()

	infos := make([]*types.SubscriptionInfo, 0, len(eb.filteredSubs))
	for _, sub := range eb.filteredSubs {
		infos = append(infos, &types.SubscriptionInfo{
			ID:            sub.id,
			EventType:     sub.eventType,
			CreatedAt:     sub.createdAt,
			LastTriggered: sub.lastAt,
			TriggerCount:  sub.triggered,
			IsActive:      true,
		})
	}
	return infos, nil
}

// recordHistory 记录事件历史（仅对启用的事件类型）
func (eb *EventBus) recordHistory(eventType event.EventType, args []interface{}) {
	eb.historyMu.Lock()
	defer eb.historyMu.Unlock()

	maxSize, ok := eb.historyEnabled[eventType]
	if !ok {
		return
	}

	var payload interface{}
	if len(args) == 1 {
		payload = args[0]
	} else if len(args) > 1 {
		payload = args
	}

	history := append(eb.eventHistory[eventType], payload)
	if len(history) > maxSize {
		history = history[len(history)-maxSize:]
	}
	eb.eventHistory[eventType] = history
}

// genericEvent Event 接口的通用载体
type genericEvent struct {
	eventType event.EventType
	data      interface{}
}

// Type 实现 event.Event 接口
func (e *genericEvent) Type() event.EventType { return e.eventType }

// Data 实现 event.Event 接口
func (e *genericEvent) Data() interface{} { return e.data }
