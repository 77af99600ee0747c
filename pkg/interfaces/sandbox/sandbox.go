// Package sandbox 提供沙箱渲染上下文注入的公共接口定义
//
// 📦 **沙箱提供者注入 (Sandbox Provider Injector)**
//
// 本包定义生成界面进入隔离渲染上下文的方式：清空旧内容、写入
// 新标记、附着全新的桥接提供者——顺序敏感，提供者必须在注入
// 标记内的任何脚本运行之前可达。
//
// 🎯 **核心职责**：
// - 每次注入构造全新的提供者句柄，与宿主自身的提供者互不共享
// - 注入即整体替换：沙箱每次重新供给，不做增量修补
// - 旧句柄在新注入落地时吊销，陈旧沙箱无法继续中继
//
// 💡 **设计理念**：
// - 能力受限：沙箱全局只暴露单方法 provider.request(envelope)，
//   与传输桥自身的调用形状一致
// - 除这个一次性句柄外，宿主与沙箱之间不存在其他通道
package sandbox

import (
	"context"

	"github.com/weisyn/lens/pkg/interfaces/transport"
	"github.com/weisyn/lens/pkg/types"
)

// Injector 沙箱注入器接口
type Injector interface {
	// Inject 把生成界面注入沙箱渲染上下文
	//
	// 步骤（顺序即约束）：
	//   1. 构造全新提供者句柄
	//   2. 渲染沙箱文档：提供者引导脚本先于标记主体
	//   3. 原子替换托管文档，吊销上一个句柄，通知渲染端整体重载
	Inject(ctx context.Context, surface *types.GeneratedSurface) error

	// Clear 清空沙箱内容并吊销现有句柄
	Clear(ctx context.Context) error

	// Document 返回当前托管文档与版本号
	// 版本号单调递增，渲染端据此判断是否需要重载
	Document() (markup string, revision uint64)

	// HandleFor 按 token 取回提供者句柄
	// 已吊销或未知的 token 返回 nil, false
	HandleFor(token string) (transport.ProviderHandle, bool)
}
