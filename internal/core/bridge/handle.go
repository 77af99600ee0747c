package bridge

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/weisyn/lens/pkg/interfaces/transport"
	"github.com/weisyn/lens/pkg/types"
)

// 确保 Handle 实现了 ProviderHandle 接口
var _ transport.ProviderHandle = (*Handle)(nil)

// Handle 能力受限的提供者句柄
//
// 每次沙箱注入签发一个新句柄；吊销后所有后续调用以
// types.ErrProviderRevoked 拒绝，吊销不可逆。
type Handle struct {
	token  string
	bridge *Bridge

	mu      sync.Mutex
	revoked bool
}

// newHandle 签发新句柄，token 不可猜测
func newHandle(b *Bridge) *Handle {
	return &Handle{
		token:  uuid.NewString(),
		bridge: b,
	}
}

// Token 返回句柄标识
func (h *Handle) Token() string {
	return h.token
}

// Request 经桥中继一个信封
// 吊销检查在中继前后各做一次：中继期间被吊销的调用同样拒绝
func (h *Handle) Request(ctx context.Context, envelope *types.RequestEnvelope) (*types.BridgedResponse, error) {
	if h.Revoked() {
		return nil, types.ErrProviderRevoked
	}

	resp, err := h.bridge.Relay(ctx, envelope)

	if h.Revoked() {
		return nil, types.ErrProviderRevoked
	}
	return resp, err
}

// Revoke 吊销句柄，幂等
func (h *Handle) Revoke() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.revoked = true
}

// Revoked 返回句柄是否已吊销
func (h *Handle) Revoked() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.revoked
}
