package poll

import (
	"context"

	"go.uber.org/fx"

	pollconfig "github.com/weisyn/lens/internal/config/poll"
	chainstateiface "github.com/weisyn/lens/pkg/interfaces/chainstate"
	eventiface "github.com/weisyn/lens/pkg/interfaces/infrastructure/event"
	"github.com/weisyn/lens/pkg/interfaces/infrastructure/log"
	polliface "github.com/weisyn/lens/pkg/interfaces/poll"
	sandboxiface "github.com/weisyn/lens/pkg/interfaces/sandbox"
	sessioniface "github.com/weisyn/lens/pkg/interfaces/session"
	synthesisiface "github.com/weisyn/lens/pkg/interfaces/synthesis"
	configtypes "github.com/weisyn/lens/pkg/types"
)

// ModuleInput 轮询模块输入依赖
type ModuleInput struct {
	fx.In

	AppConfig   *configtypes.AppConfig
	ForkManager chainstateiface.ForkManager
	Synthesizer synthesisiface.Synthesizer
	Generator   synthesisiface.SurfaceGenerator
	Injector    sandboxiface.Injector
	Session     sessioniface.Manager
	EventBus    eventiface.EventBus `optional:"true"` // 事件总线（可选）
	Logger      log.Logger          `optional:"true"` // 日志记录器（可选）
}

// ModuleOutput 轮询模块输出服务
type ModuleOutput struct {
	fx.Out

	Controller polliface.Controller
}

// Module 返回轮询模块
func Module() fx.Option {
	return fx.Module("poll",
		fx.Provide(
			func(input ModuleInput) ModuleOutput {
				cfg := pollconfig.New(input.AppConfig.Poll)
				return ModuleOutput{
					Controller: NewController(
						cfg,
						input.ForkManager,
						input.Synthesizer,
						input.Generator,
						input.Injector,
						input.Session,
						input.EventBus,
						input.Logger,
					),
				}
			},
		),
		fx.Invoke(
			func(lc fx.Lifecycle, controller polliface.Controller) {
				lc.Append(fx.Hook{
					OnStop: func(ctx context.Context) error {
						controller.Stop()
						return nil
					},
				})
			},
		),
	)
}
