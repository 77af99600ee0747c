// Package events 提供lens宿主核心事件类型常量定义
//
// 🎯 **核心事件常量归口管理**
//
// 本文件只定义跨组件通信所需的事件类型：
// - chainstate: 链状态模式切换（live/forked）
// - poll: 轮询会话生命周期与周期完成
// - session: 目标地址与凭据变更
// - sandbox: 界面注入
// - executor: 原生执行器生命周期
//
// 🔧 **设计原则**
// - 简单至上：只保留真正需要跨组件通信的事件
// - 命名规范：domain.category.action 格式
// - 状态迁移显式化：事件只在显式迁移函数中发布，不挂在字段赋值上
//
// 🏗️ **使用方式**
// ```go
// import "github.com/weisyn/lens/pkg/constants/events"
//
// eventBus.Subscribe(events.EventTypeModeForked, handler)
// eventBus.Publish(events.EventTypeModeForked, payload)
// ```
package events

import (
	"github.com/weisyn/lens/pkg/interfaces/infrastructure/event"
)

// EventType 全局事件类型别名，兼容标准事件接口
type EventType = event.EventType

// ============================================================================
//                           链状态事件
// ============================================================================

const (
	// EventTypeModeForked 进入分叉模式
	// 发布者：chainstate 显式迁移函数
	// 负载：types.ModeChangeEvent
	EventTypeModeForked EventType = "chainstate.mode.forked"

	// EventTypeModeLive 回到实时模式
	// 负载：types.ModeChangeEvent
	EventTypeModeLive EventType = "chainstate.mode.live"
)

// ============================================================================
//                           轮询事件
// ============================================================================

const (
	// EventTypePollStarted 轮询会话启动（新会话替换旧会话时同样发布）
	EventTypePollStarted EventType = "poll.session.started"

	// EventTypePollStopped 轮询会话停止
	EventTypePollStopped EventType = "poll.session.stopped"

	// EventTypePollCycle 单个轮询周期结束（成功与失败都发布）
	// 负载：types.PollCycleEvent
	EventTypePollCycle EventType = "poll.cycle.completed"
)

// ============================================================================
//                           会话与界面事件
// ============================================================================

const (
	// EventTypeAddressChanged 目标合约地址变更
	// 负载：types.AddressChangeEvent
	EventTypeAddressChanged EventType = "session.address.changed"

	// EventTypeSurfaceInjected 生成界面注入完成
	// 负载：types.SurfaceInjectedEvent
	EventTypeSurfaceInjected EventType = "sandbox.surface.injected"
)

// ============================================================================
//                           执行器事件
// ============================================================================

const (
	// EventTypeExecutorStarted 原生执行器启动并完成同步
	// 负载：types.ExecutorStateEvent
	EventTypeExecutorStarted EventType = "executor.lifecycle.started"

	// EventTypeExecutorStopped 原生执行器停止
	EventTypeExecutorStopped EventType = "executor.lifecycle.stopped"
)
