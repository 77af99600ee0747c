// Package executor 提供原生执行器的公共接口定义
//
// ⚙️ **原生执行器 (Native Executor)**
//
// 本包定义 lens 宿主与原生轻客户端执行器之间的边界。执行器持有
// 真正的链连接（执行层 RPC 与共识层 RPC），是系统外部协作方：
// lens 只调用它，绝不实现链逻辑本身。
//
// 🎯 **核心职责**：
// - start：以给定的执行层/共识层 RPC 与链 ID 启动并等待同步完成
// - request：对单个关联信封执行原生往返
//
// 💡 **设计理念**：
// - 执行器生命周期由宿主监督（子进程）或完全外置（attach 模式）
// - 信封转发一律原样：不重试、不改写错误负载
//
// ⚠️ **核心约束**：
// - Start 的成功返回意味着执行器已同步，期间的用户可见失败
//   文本直接透出到宿主界面
// - 重复 Start 是错误（"light client is already running"）
package executor

import (
	"context"

	"github.com/weisyn/lens/pkg/types"
)

// NativeExecutor 原生执行器接口
type NativeExecutor interface {
	// Start 启动执行器并等待其同步完成
	//
	// 参数：
	//   - ctx: 上下文对象（取消会中止等待，不保证进程退出）
	//   - executionRPC: 执行层 RPC 端点
	//   - consensusRPC: 共识层 RPC 端点
	//   - chainID: 目标链 ID
	//
	// 返回：
	//   - string: 用户可见的启动结果文本
	//   - error: 启动或同步失败；文本原样透出到宿主界面
	Start(ctx context.Context, executionRPC, consensusRPC string, chainID uint64) (string, error)

	// Request 对单个信封执行原生往返
	//
	// 响应原样返回：Result 与 Error 恰好一个有值，错误负载
	// 不做任何改写。传输本身失败时返回 error。
	Request(ctx context.Context, envelope *types.RequestEnvelope) (*types.BridgedResponse, error)

	// Running 返回执行器是否处于运行状态
	Running() bool

	// Stop 停止执行器并释放资源
	// attach 模式下只断开连接，不影响远端进程
	Stop(ctx context.Context) error
}
