// Package types provides shared type definitions for the lens host.
package types

import (
	"encoding/json"
	"fmt"
)

// JSONRPCVersion 信封携带的协议版本标签
const JSONRPCVersion = "2.0"

// RequestEnvelope 跨信任边界的关联请求信封
//
// 每次外呼构造一个全新的信封：ID 在所有在途调用中必须唯一，
// 响应按 ID 关联，响应返回后信封即被丢弃，不得复用。
type RequestEnvelope struct {
	JSONRPC string          `json:"jsonrpc"`          // 必须是 "2.0"
	ID      string          `json:"id"`               // 每次调用新生成的 UUID
	Method  string          `json:"method"`           // 链方法名（如 eth_blockNumber）
	Params  json.RawMessage `json:"params,omitempty"` // 方法参数，原样转发
}

// Validate 校验信封的基本结构
// 只检查协议标签与必填字段，不解释 Method/Params 的语义
func (e *RequestEnvelope) Validate() error {
	if e.JSONRPC != JSONRPCVersion {
		return fmt.Errorf("unsupported jsonrpc version %q", e.JSONRPC)
	}
	if e.ID == "" {
		return fmt.Errorf("envelope id is empty")
	}
	if e.Method == "" {
		return fmt.Errorf("envelope method is empty")
	}
	return nil
}

// BridgedResponse 原生执行器对单个信封的应答
//
// Result 与 Error 恰好一个有值：Error 有值时对应调用以拒绝结束，
// 错误负载原样透传给调用方，桥接层不重试、不改写。
type BridgedResponse struct {
	JSONRPC string          `json:"jsonrpc,omitempty"`
	ID      string          `json:"id,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// RPCError 原生侧返回的错误负载
//
// code/message/data 三元组跨边界原样保留；实现 error 以及
// go-ethereum rpc.Error / rpc.DataError 的方法集，方便上层按标准方式判读。
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Error 实现 error 接口
func (e *RPCError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("json-rpc error %d", e.Code)
	}
	return e.Message
}

// ErrorCode 返回原生错误码
func (e *RPCError) ErrorCode() int {
	return e.Code
}

// ErrorData 返回原生错误的附加数据，无则为 nil
func (e *RPCError) ErrorData() interface{} {
	if len(e.Data) == 0 {
		return nil
	}
	return e.Data
}
