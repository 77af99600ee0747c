// Package session 提供宿主会话上下文的公共接口定义
//
// 🗂️ **会话上下文 (Session Context)**
//
// 本包定义显式的会话上下文：当前目标合约地址与外部服务凭据。
// 所有组件通过该接口取值，不做任何环境式全局查找。
//
// 💡 **设计理念**：
// - 持久化为不透明字符串：启动时读入，变更时写回，无版本化
// - 地址变更发布显式事件，由轮询侧决定是否立即重跑
package session

import "context"

// Manager 会话上下文管理接口
type Manager interface {
	// Address 当前目标合约地址（可能为空）
	Address() string

	// SetAddress 更新目标地址并持久化，发布变更事件
	SetAddress(ctx context.Context, address string) error

	// RegistryKey 验证源注册表凭据（可能为空，空表示注册表停用）
	RegistryKey() string

	// SetRegistryKey 更新注册表凭据并持久化
	SetRegistryKey(ctx context.Context, key string) error

	// GenerationKey 生成服务凭据
	GenerationKey() string

	// SetGenerationKey 更新生成服务凭据并持久化
	SetGenerationKey(ctx context.Context, key string) error
}
