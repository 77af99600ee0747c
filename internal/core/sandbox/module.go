package sandbox

import (
	"go.uber.org/fx"

	eventiface "github.com/weisyn/lens/pkg/interfaces/infrastructure/event"
	"github.com/weisyn/lens/pkg/interfaces/infrastructure/log"
	sandboxiface "github.com/weisyn/lens/pkg/interfaces/sandbox"
	"github.com/weisyn/lens/pkg/interfaces/transport"
)

// ModuleInput 沙箱模块输入依赖
type ModuleInput struct {
	fx.In

	Bridge   transport.Bridge
	EventBus eventiface.EventBus `optional:"true"` // 事件总线（可选）
	Logger   log.Logger          `optional:"true"` // 日志记录器（可选）
}

// ModuleOutput 沙箱模块输出服务
type ModuleOutput struct {
	fx.Out

	Injector sandboxiface.Injector
	Docs     *DocumentHost // 文档宿主（HTTP 层订阅重载通知）
}

// Module 返回沙箱模块
func Module() fx.Option {
	return fx.Module("sandbox",
		fx.Provide(
			func(input ModuleInput) ModuleOutput {
				docs := NewDocumentHost()
				return ModuleOutput{
					Injector: NewInjector(input.Bridge, docs, input.EventBus, input.Logger),
					Docs:     docs,
				}
			},
		),
	)
}
