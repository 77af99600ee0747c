package http

import (
	"context"

	"go.uber.org/fx"

	httpconfig "github.com/weisyn/lens/internal/config/http"
	"github.com/weisyn/lens/internal/core/sandbox"
	chainstateiface "github.com/weisyn/lens/pkg/interfaces/chainstate"
	executoriface "github.com/weisyn/lens/pkg/interfaces/executor"
	"github.com/weisyn/lens/pkg/interfaces/infrastructure/log"
	polliface "github.com/weisyn/lens/pkg/interfaces/poll"
	sandboxiface "github.com/weisyn/lens/pkg/interfaces/sandbox"
	sessioniface "github.com/weisyn/lens/pkg/interfaces/session"
	configtypes "github.com/weisyn/lens/pkg/types"
)

// ModuleInput HTTP模块输入依赖
type ModuleInput struct {
	fx.In

	AppConfig   *configtypes.AppConfig
	Injector    sandboxiface.Injector
	Docs        *sandbox.DocumentHost
	ForkManager chainstateiface.ForkManager
	Poll        polliface.Controller
	Session     sessioniface.Manager
	Executor    executoriface.NativeExecutor
	Logger      log.Logger `optional:"true"` // 日志记录器（可选）
}

// Module 返回HTTP模块
func Module() fx.Option {
	return fx.Module("http",
		fx.Provide(
			func(input ModuleInput) *Server {
				cfg := httpconfig.New(input.AppConfig.HTTP)
				return NewServer(
					cfg,
					input.Logger,
					input.Injector,
					input.Docs,
					input.ForkManager,
					input.Poll,
					input.Session,
					input.Executor,
				)
			},
		),
		fx.Invoke(
			func(lc fx.Lifecycle, server *Server) {
				lc.Append(fx.Hook{
					OnStart: func(ctx context.Context) error {
						return server.Start()
					},
					OnStop: func(ctx context.Context) error {
						return server.Stop(ctx)
					},
				})
			},
		),
	)
}
