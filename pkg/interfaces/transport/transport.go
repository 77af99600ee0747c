// Package transport 提供跨信任边界传输桥的公共接口定义
//
// 🌉 **传输桥 (Transport Bridge)**
//
// 本包定义 lens 宿主的请求/响应传输桥接口：把一次链 RPC 调用
// 包成关联信封，跨信任边界转发给原生执行器，再拆开响应或透传错误。
//
// 🎯 **核心职责**：
// - 按调用生成唯一关联 ID，多路在途调用互不干扰
// - 错误负载（code/message/data）原样上抛，不重试、不改写
// - 为沙箱签发能力受限的提供者句柄
//
// 💡 **设计理念**：
// - 桥本身无状态副作用：除原生往返外不做任何事
// - 句柄即能力：沙箱只拿到 RPC 中继这一件事，句柄吊销后立即失效
//
// 📞 **调用方**：
// - chainstate：实时后端的全部链上读
// - synthesis：身份探测与代理槽读取（经由当前后端）
// - sandbox：注入页面的 provider.request 中继
package transport

import (
	"context"
	"encoding/json"

	"github.com/weisyn/lens/pkg/types"
)

// Bridge 传输桥接口
type Bridge interface {
	// Send 发起一次关联链调用
	//
	// 构造带新 UUID 的信封转发给执行器；错误负载以
	// *types.RPCError 原样返回（包在 TransportError 里），
	// 结果字节原样返回，由调用方按方法语义解读。
	//
	// 并发安全：每个调用独立关联，多路在途互不干扰。
	Send(ctx context.Context, method string, params ...interface{}) (json.RawMessage, error)

	// Relay 中继一个外部构造的信封（沙箱路径）
	//
	// 中继前以新生成的 UUID 替换信封 ID 保证在途唯一，
	// 响应中回填调用方原始 ID。
	Relay(ctx context.Context, envelope *types.RequestEnvelope) (*types.BridgedResponse, error)

	// InFlight 返回当前在途调用数
	InFlight() int

	// NewProviderHandle 为一次沙箱注入签发全新的提供者句柄
	// 句柄与宿主自身的提供者互不共享，能力仅限 RPC 中继
	NewProviderHandle() ProviderHandle
}

// ProviderHandle 能力受限的提供者句柄
//
// 每次注入构造一个新句柄；重新注入时旧句柄被吊销，
// 陈旧沙箱的后续调用一律以 types.ErrProviderRevoked 拒绝。
type ProviderHandle interface {
	// Token 句柄的不可猜测标识（沙箱回call时用于寻址句柄）
	Token() string

	// Request 经桥中继一个信封
	Request(ctx context.Context, envelope *types.RequestEnvelope) (*types.BridgedResponse, error)

	// Revoke 吊销句柄，幂等
	Revoke()

	// Revoked 返回句柄是否已吊销
	Revoked() bool
}
