package bridge

import (
	"go.uber.org/fx"

	executoriface "github.com/weisyn/lens/pkg/interfaces/executor"
	"github.com/weisyn/lens/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/lens/pkg/interfaces/transport"
)

// ModuleInput 传输桥模块输入依赖
type ModuleInput struct {
	fx.In

	Executor executoriface.NativeExecutor
	Logger   log.Logger `optional:"true"` // 日志记录器（可选）
}

// ModuleOutput 传输桥模块输出服务
type ModuleOutput struct {
	fx.Out

	Bridge transport.Bridge
}

// Module 返回传输桥模块
func Module() fx.Option {
	return fx.Module("bridge",
		fx.Provide(
			func(input ModuleInput) ModuleOutput {
				return ModuleOutput{
					Bridge: New(input.Executor, input.Logger),
				}
			},
		),
	)
}
