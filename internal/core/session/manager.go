// Package session 实现显式的宿主会话上下文
//
// 目标合约地址与外部服务凭据持久化在 BadgerDB：启动时读入，
// 变更时写回。值按不透明字符串处理，不做版本化。
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/weisyn/lens/pkg/constants/events"
	eventiface "github.com/weisyn/lens/pkg/interfaces/infrastructure/event"
	"github.com/weisyn/lens/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/lens/pkg/interfaces/infrastructure/storage"
	sessioniface "github.com/weisyn/lens/pkg/interfaces/session"
	"github.com/weisyn/lens/pkg/types"
)

// 确保 Manager 实现了 session.Manager 接口
var _ sessioniface.Manager = (*Manager)(nil)

// 持久化键
var (
	keyAddress       = []byte("session/address")
	keyRegistryKey   = []byte("session/registry_key")
	keyGenerationKey = []byte("session/generation_key")
)

// Manager 会话上下文管理器
type Manager struct {
	store    storage.BadgerStore
	eventBus eventiface.EventBus
	logger   log.Logger

	mu            sync.RWMutex
	address       string
	registryKey   string
	generationKey string
}

// NewManager 创建会话管理器并从存储恢复上次会话
func NewManager(ctx context.Context, store storage.BadgerStore, eventBus eventiface.EventBus, logger log.Logger) (*Manager, error) {
	m := &Manager{
		store:    store,
		eventBus: eventBus,
		logger:   logger,
	}
	if err := m.restore(ctx); err != nil {
		return nil, fmt.Errorf("恢复会话上下文失败: %w", err)
	}
	return m, nil
}

// restore 启动时一次性读入持久化的会话数据
func (m *Manager) restore(ctx context.Context) error {
	if m.store == nil {
		return nil
	}

	address, err := m.store.Get(ctx, keyAddress)
	if err != nil {
		return fmt.Errorf("读取目标地址失败: %w", err)
	}
	registryKey, err := m.store.Get(ctx, keyRegistryKey)
	if err != nil {
		return fmt.Errorf("读取注册表凭据失败: %w", err)
	}
	generationKey, err := m.store.Get(ctx, keyGenerationKey)
	if err != nil {
		return fmt.Errorf("读取生成服务凭据失败: %w", err)
	}

	m.mu.Lock()
	m.address = string(address)
	m.registryKey = string(registryKey)
	m.generationKey = string(generationKey)
	m.mu.Unlock()

	if m.logger != nil && len(address) > 0 {
		m.logger.Infof("恢复上次会话目标地址: %s", string(address))
	}
	return nil
}

// Address 当前目标合约地址（可能为空）
func (m *Manager) Address() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.address
}

// SetAddress 更新目标地址并持久化，发布变更事件
// 地址先归一化；与当前值相同时不落盘也不发事件
func (m *Manager) SetAddress(ctx context.Context, address string) error {
	normalized := types.NormalizeAddress(address)

	m.mu.Lock()
	previous := m.address
	if normalized == previous {
		m.mu.Unlock()
		return nil
	}
	m.address = normalized
	m.mu.Unlock()

	if m.store != nil {
		if err := m.store.Set(ctx, keyAddress, []byte(normalized)); err != nil {
			return fmt.Errorf("持久化目标地址失败: %w", err)
		}
	}

	if m.logger != nil {
		m.logger.Infof("目标地址变更: %s -> %s", previous, normalized)
	}
	if m.eventBus != nil {
		m.eventBus.Publish(events.EventTypeAddressChanged, types.AddressChangeEvent{
			Previous: previous,
			Current:  normalized,
			At:       time.Now(),
		})
	}
	return nil
}

// RegistryKey 验证源注册表凭据（空表示注册表停用）
func (m *Manager) RegistryKey() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.registryKey
}

// SetRegistryKey 更新注册表凭据并持久化
func (m *Manager) SetRegistryKey(ctx context.Context, key string) error {
	m.mu.Lock()
	m.registryKey = key
	m.mu.Unlock()

	if m.store != nil {
		if err := m.store.Set(ctx, keyRegistryKey, []byte(key)); err != nil {
			return fmt.Errorf("持久化注册表凭据失败: %w", err)
		}
	}
	return nil
}

// GenerationKey 生成服务凭据
func (m *Manager) GenerationKey() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.generationKey
}

// SetGenerationKey 更新生成服务凭据并持久化
func (m *Manager) SetGenerationKey(ctx context.Context, key string) error {
	m.mu.Lock()
	m.generationKey = key
	m.mu.Unlock()

	if m.store != nil {
		if err := m.store.Set(ctx, keyGenerationKey, []byte(key)); err != nil {
			return fmt.Errorf("持久化生成服务凭据失败: %w", err)
		}
	}
	return nil
}
