package chainstate

import (
	"go.uber.org/fx"

	chainstateiface "github.com/weisyn/lens/pkg/interfaces/chainstate"
	eventiface "github.com/weisyn/lens/pkg/interfaces/infrastructure/event"
	"github.com/weisyn/lens/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/lens/pkg/interfaces/transport"
)

// ModuleInput 链状态模块输入依赖
type ModuleInput struct {
	fx.In

	Bridge   transport.Bridge
	EventBus eventiface.EventBus `optional:"true"` // 事件总线（可选）
	Logger   log.Logger          `optional:"true"` // 日志记录器（可选）
}

// ModuleOutput 链状态模块输出服务
type ModuleOutput struct {
	fx.Out

	ForkManager chainstateiface.ForkManager
	Engine      chainstateiface.SimulationEngine
}

// Module 返回链状态模块
func Module() fx.Option {
	return fx.Module("chainstate",
		fx.Provide(
			func(input ModuleInput) ModuleOutput {
				engine := NewRemoteEngine(input.Bridge)
				return ModuleOutput{
					ForkManager: NewManager(input.Bridge, engine, input.EventBus, input.Logger),
					Engine:      engine,
				}
			},
		),
	)
}
