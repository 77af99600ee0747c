package sandbox

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/weisyn/lens/pkg/constants/events"
	eventiface "github.com/weisyn/lens/pkg/interfaces/infrastructure/event"
	"github.com/weisyn/lens/pkg/interfaces/infrastructure/log"
	sandboxiface "github.com/weisyn/lens/pkg/interfaces/sandbox"
	"github.com/weisyn/lens/pkg/interfaces/transport"
	"github.com/weisyn/lens/pkg/types"
)

// 确保 Injector 实现了 sandbox.Injector 接口
var _ sandboxiface.Injector = (*Injector)(nil)

// bootstrapTemplate 提供者引导脚本
//
// 必须排在标记主体之前：沙箱全局只暴露单方法
// provider.request(envelope)，形状与传输桥一致。
const bootstrapTemplate = `<script>
window.provider = Object.freeze({
  request: async function (envelope) {
    const resp = await fetch("/sandbox/provider/%s", {
      method: "POST",
      headers: { "Content-Type": "application/json" },
      body: JSON.stringify(envelope),
    });
    if (!resp.ok) {
      throw new Error("provider relay failed: " + resp.status);
    }
    return resp.json();
  },
});
</script>
`

// Injector 沙箱注入器
//
// 每次注入构造全新的提供者句柄并吊销上一个；陈旧沙箱持有的
// 旧 token 无法再中继任何调用。
type Injector struct {
	bridge   transport.Bridge
	docs     *DocumentHost
	eventBus eventiface.EventBus
	logger   log.Logger

	mu     sync.Mutex
	handle transport.ProviderHandle
}

// NewInjector 创建沙箱注入器
func NewInjector(bridge transport.Bridge, docs *DocumentHost, eventBus eventiface.EventBus, logger log.Logger) *Injector {
	return &Injector{
		bridge:   bridge,
		docs:     docs,
		eventBus: eventBus,
		logger:   logger,
	}
}

// Inject 把生成界面注入沙箱渲染上下文
//
// 顺序即约束：先签发句柄并渲染文档（引导脚本在前），文档落地
// 后才吊销旧句柄——替换期间在途的旧调用要么完成要么被拒绝，
// 不存在没有任何有效句柄的窗口。
func (i *Injector) Inject(ctx context.Context, surface *types.GeneratedSurface) error {
	if surface == nil {
		return fmt.Errorf("界面为空")
	}

	handle := i.bridge.NewProviderHandle()
	document := fmt.Sprintf(bootstrapTemplate, handle.Token()) + surface.Markup

	i.mu.Lock()
	previous := i.handle
	i.handle = handle
	i.mu.Unlock()

	revision := i.docs.Swap(document)
	if previous != nil {
		previous.Revoke()
	}

	if i.logger != nil {
		i.logger.Infof("界面注入完成: addr=%s name=%s revision=%d", surface.Address, surface.Name, revision)
	}
	if i.eventBus != nil {
		i.eventBus.Publish(events.EventTypeSurfaceInjected, types.SurfaceInjectedEvent{
			Address: surface.Address,
			Name:    surface.Name,
			At:      time.Now(),
		})
	}
	return nil
}

// Clear 清空沙箱内容并吊销现有句柄
func (i *Injector) Clear(ctx context.Context) error {
	i.mu.Lock()
	previous := i.handle
	i.handle = nil
	i.mu.Unlock()

	i.docs.Swap("")
	if previous != nil {
		previous.Revoke()
	}

	if i.logger != nil {
		i.logger.Info("沙箱已清空")
	}
	return nil
}

// Document 返回当前托管文档与版本号
func (i *Injector) Document() (string, uint64) {
	return i.docs.Current()
}

// HandleFor 按 token 取回提供者句柄
// 只认当前句柄：已被替换或吊销的 token 返回 nil, false
func (i *Injector) HandleFor(token string) (transport.ProviderHandle, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.handle == nil || i.handle.Token() != token || i.handle.Revoked() {
		return nil, false
	}
	return i.handle, true
}
