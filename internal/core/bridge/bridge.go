// Package bridge 实现跨信任边界的请求/响应传输桥
//
// 每次链调用包成一个带新 UUID 的关联信封交给原生执行器，
// 响应按 ID 关联后拆开：结果字节原样返回，错误负载原样上抛。
// 桥接层不重试、不改写、不缓存。
package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	executoriface "github.com/weisyn/lens/pkg/interfaces/executor"
	"github.com/weisyn/lens/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/lens/pkg/interfaces/transport"
	"github.com/weisyn/lens/pkg/types"
)

// 确保 Bridge 实现了 transport.Bridge 接口
var _ transport.Bridge = (*Bridge)(nil)

// Bridge 传输桥实现
//
// 在途表只用于观测与去重断言，响应关联由执行器按信封 ID 完成。
type Bridge struct {
	executor executoriface.NativeExecutor
	logger   log.Logger

	mu       sync.Mutex
	inFlight map[string]string // 信封 ID -> 方法名
}

// New 创建传输桥
func New(executor executoriface.NativeExecutor, logger log.Logger) *Bridge {
	return &Bridge{
		executor: executor,
		logger:   logger,
		inFlight: make(map[string]string),
	}
}

// Send 发起一次关联链调用
//
// 信封 ID 每次调用全新生成，多路在途互不干扰。
// 执行器返回错误负载时包成 TransportError 上抛，负载原样保留。
func (b *Bridge) Send(ctx context.Context, method string, params ...interface{}) (json.RawMessage, error) {
	var rawParams json.RawMessage
	if len(params) > 0 {
		encoded, err := json.Marshal(params)
		if err != nil {
			return nil, &types.TransportError{Method: method, Err: fmt.Errorf("序列化参数失败: %w", err)}
		}
		rawParams = encoded
	}

	envelope := &types.RequestEnvelope{
		JSONRPC: types.JSONRPCVersion,
		ID:      uuid.NewString(),
		Method:  method,
		Params:  rawParams,
	}

	resp, err := b.dispatch(ctx, envelope)
	if err != nil {
		return nil, &types.TransportError{Method: method, Err: err}
	}
	if resp.Error != nil {
		return nil, &types.TransportError{Method: method, RPC: resp.Error}
	}
	return resp.Result, nil
}

// Relay 中继一个外部构造的信封（沙箱路径）
//
// 在途期间以新 UUID 替换信封 ID 保证唯一性，响应回填调用方
// 原始 ID。错误负载不包装：沙箱侧需要完整的 JSON-RPC 应答。
func (b *Bridge) Relay(ctx context.Context, envelope *types.RequestEnvelope) (*types.BridgedResponse, error) {
	if envelope == nil {
		return nil, fmt.Errorf("信封为空")
	}
	if err := envelope.Validate(); err != nil {
		return nil, fmt.Errorf("信封校验失败: %w", err)
	}

	callerID := envelope.ID
	relayed := &types.RequestEnvelope{
		JSONRPC: types.JSONRPCVersion,
		ID:      uuid.NewString(),
		Method:  envelope.Method,
		Params:  envelope.Params,
	}

	resp, err := b.dispatch(ctx, relayed)
	if err != nil {
		return nil, &types.TransportError{Method: envelope.Method, Err: err}
	}

	// 回填调用方的原始 ID，在途替换对调用方不可见
	resp.ID = callerID
	if resp.JSONRPC == "" {
		resp.JSONRPC = types.JSONRPCVersion
	}
	return resp, nil
}

// InFlight 返回当前在途调用数
func (b *Bridge) InFlight() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.inFlight)
}

// NewProviderHandle 为一次沙箱注入签发全新的提供者句柄
func (b *Bridge) NewProviderHandle() transport.ProviderHandle {
	return newHandle(b)
}

// dispatch 登记在途、执行原生往返、注销在途
func (b *Bridge) dispatch(ctx context.Context, envelope *types.RequestEnvelope) (*types.BridgedResponse, error) {
	b.mu.Lock()
	if _, dup := b.inFlight[envelope.ID]; dup {
		b.mu.Unlock()
		return nil, fmt.Errorf("在途信封ID重复: %s", envelope.ID)
	}
	b.inFlight[envelope.ID] = envelope.Method
	b.mu.Unlock()
	metricInFlight.Inc()

	start := time.Now()
	resp, err := b.executor.Request(ctx, envelope)
	elapsed := time.Since(start)

	b.mu.Lock()
	delete(b.inFlight, envelope.ID)
	b.mu.Unlock()
	metricInFlight.Dec()
	metricRequestSeconds.WithLabelValues(envelope.Method).Observe(elapsed.Seconds())

	switch {
	case err != nil:
		metricRequests.WithLabelValues(envelope.Method, outcomeTransport).Inc()
		if b.logger != nil {
			b.logger.Debugf("原生往返失败: method=%s err=%v", envelope.Method, err)
		}
		return nil, err
	case resp.Error != nil:
		metricRequests.WithLabelValues(envelope.Method, outcomeRejected).Inc()
		if b.logger != nil {
			b.logger.Debugf("链调用被拒绝: method=%s code=%d msg=%s",
				envelope.Method, resp.Error.Code, resp.Error.Message)
		}
	default:
		metricRequests.WithLabelValues(envelope.Method, outcomeOK).Inc()
	}
	return resp, nil
}
