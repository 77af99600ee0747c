package chainstate

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/weisyn/lens/pkg/constants/events"
	chainstateiface "github.com/weisyn/lens/pkg/interfaces/chainstate"
	eventiface "github.com/weisyn/lens/pkg/interfaces/infrastructure/event"
	"github.com/weisyn/lens/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/lens/pkg/interfaces/transport"
	"github.com/weisyn/lens/pkg/types"
)

// 确保 Manager 实现了 ForkManager 接口
var _ chainstateiface.ForkManager = (*Manager)(nil)

// Manager 分叉管理器
//
// 模式互斥：live 或 forked，Current() 是外界感知模式的唯一途径。
// 模式切换事件只由显式迁移函数发布。
type Manager struct {
	bridge   transport.Bridge
	engine   chainstateiface.SimulationEngine
	eventBus eventiface.EventBus
	logger   log.Logger

	live *LiveBackend

	mu      sync.RWMutex
	mode    types.ChainMode
	session *Session
}

// NewManager 创建分叉管理器，初始模式为 live
func NewManager(bridge transport.Bridge, engine chainstateiface.SimulationEngine, eventBus eventiface.EventBus, logger log.Logger) *Manager {
	return &Manager{
		bridge:   bridge,
		engine:   engine,
		eventBus: eventBus,
		logger:   logger,
		live:     NewLiveBackend(bridge),
		mode:     types.ChainModeLive,
	}
}

// Fork 进入（或替换）分叉模式
//
// 幂等替换：已处于 forked 时丢弃旧会话、重新固定基准区块并
// 建立全新会话。任何时刻最多只有一个活跃会话。
func (m *Manager) Fork(ctx context.Context) (chainstateiface.ForkSession, error) {
	// 基准区块从实时链现取，不依赖可能过期的会话状态
	baseBlock, err := m.live.BlockNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("固定基准区块失败: %w", err)
	}

	session := newSession(m.bridge, m.engine, baseBlock)

	m.mu.Lock()
	previous := m.session
	fromMode := m.mode
	m.session = session
	m.mode = types.ChainModeForked
	m.mu.Unlock()

	if previous != nil {
		previous.deactivate()
	}
	m.transitionToForked(fromMode, baseBlock)
	return session, nil
}

// Unfork 回到实时模式
// 无分叉时是无害空操作，不发布事件也不报错
func (m *Manager) Unfork(ctx context.Context) error {
	m.mu.Lock()
	if m.mode == types.ChainModeLive {
		m.mu.Unlock()
		return nil
	}
	previous := m.session
	m.session = nil
	m.mode = types.ChainModeLive
	m.mu.Unlock()

	if previous != nil {
		previous.deactivate()
	}
	m.transitionToLive()
	return nil
}

// Current 返回当前模式对应的后端
// 调用方每次使用都必须现取，不得把返回值缓存跨过阻塞调用
func (m *Manager) Current() chainstateiface.StateReader {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.mode == types.ChainModeForked && m.session != nil {
		return m.session
	}
	return m.live
}

// Mode 返回当前模式
func (m *Manager) Mode() types.ChainMode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.mode
}

// Session 返回当前分叉会话；live 模式下返回 nil, false
func (m *Manager) Session() (chainstateiface.ForkSession, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.mode != types.ChainModeForked || m.session == nil {
		return nil, false
	}
	return m.session, true
}

// ===== 显式状态迁移 =====

// transitionToForked 发布进入分叉模式事件
func (m *Manager) transitionToForked(from types.ChainMode, baseBlock uint64) {
	if m.logger != nil {
		m.logger.Infof("进入分叉模式: base_block=%d (from=%s)", baseBlock, from)
	}
	if m.eventBus != nil {
		m.eventBus.Publish(events.EventTypeModeForked, types.ModeChangeEvent{
			From:      from,
			To:        types.ChainModeForked,
			BaseBlock: baseBlock,
			At:        time.Now(),
		})
	}
}

// transitionToLive 发布回到实时模式事件
func (m *Manager) transitionToLive() {
	if m.logger != nil {
		m.logger.Info("回到实时模式")
	}
	if m.eventBus != nil {
		m.eventBus.Publish(events.EventTypeModeLive, types.ModeChangeEvent{
			From: types.ChainModeForked,
			To:   types.ChainModeLive,
			At:   time.Now(),
		})
	}
}
