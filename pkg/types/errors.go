// Package types 定义桥接与合成相关的错误类型
package types

import (
	"errors"
	"fmt"
)

// TransportError 原生往返失败
//
// 覆盖两类情况：到执行器的传输本身失败，或执行器返回了错误负载。
// 错误只上抛给发起该次调用的调用方，桥接层从不自动重试。
type TransportError struct {
	Method string    // 发起调用的链方法
	Err    error     // 底层传输错误（与 RPC 互斥）
	RPC    *RPCError // 执行器返回的错误负载（原样保留）
}

// Error 实现 error 接口
func (e *TransportError) Error() string {
	if e.RPC != nil {
		return fmt.Sprintf("transport: %s: %s (code %d)", e.Method, e.RPC.Message, e.RPC.Code)
	}
	return fmt.Sprintf("transport: %s: %v", e.Method, e.Err)
}

// Unwrap 暴露底层错误供 errors.Is/As 判读
func (e *TransportError) Unwrap() error {
	if e.RPC != nil {
		return e.RPC
	}
	return e.Err
}

// SynthesisError 接口恢复某一阶段失败
//
// 按管线调用捕获：管线不向外抛出，而是产出降级结果
// （空 ABI、兜底名称或空代理链，取决于失败的阶段）。
type SynthesisError struct {
	Stage   string // 失败的阶段：registry | bytecode | proxy | probe
	Address string // 目标合约地址
	Err     error
}

// Error 实现 error 接口
func (e *SynthesisError) Error() string {
	return fmt.Sprintf("synthesis %s: %s: %v", e.Stage, e.Address, e.Err)
}

// Unwrap 暴露底层错误
func (e *SynthesisError) Unwrap() error { return e.Err }

// GenerationError 外部生成服务调用失败或未返回可用内容
//
// 只记日志，当个周期不产出界面，不自动重试。
type GenerationError struct {
	Address string
	Err     error
}

// Error 实现 error 接口
func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation: %s: %v", e.Address, e.Err)
}

// Unwrap 暴露底层错误
func (e *GenerationError) Unwrap() error { return e.Err }

// ErrIdentityProbeFailed 身份探测失败的哨兵错误
//
// 探测失败是预期内情况（revert、函数不存在），永远被捕获并
// 回退到 UnknownContractName，绝不中断管线。
var ErrIdentityProbeFailed = errors.New("identity probe failed")

// ErrProviderRevoked 提供者句柄已被吊销
// 旧注入持有的句柄在重新注入后即失效，后续调用一律拒绝。
var ErrProviderRevoked = errors.New("provider handle revoked")

// IsTransportError 检查错误是否为传输错误
func IsTransportError(err error) (*TransportError, bool) {
	var te *TransportError
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}

// IsRPCError 提取错误链上的原生 RPC 错误负载
func IsRPCError(err error) (*RPCError, bool) {
	var re *RPCError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}
