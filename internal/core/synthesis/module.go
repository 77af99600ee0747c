package synthesis

import (
	"go.uber.org/fx"

	synthesisconfig "github.com/weisyn/lens/internal/config/synthesis"
	chainstateiface "github.com/weisyn/lens/pkg/interfaces/chainstate"
	"github.com/weisyn/lens/pkg/interfaces/infrastructure/log"
	sessioniface "github.com/weisyn/lens/pkg/interfaces/session"
	synthesisiface "github.com/weisyn/lens/pkg/interfaces/synthesis"
	configtypes "github.com/weisyn/lens/pkg/types"
)

// ModuleInput 合成模块输入依赖
type ModuleInput struct {
	fx.In

	AppConfig   *configtypes.AppConfig
	ForkManager chainstateiface.ForkManager
	Session     sessioniface.Manager
	Logger      log.Logger `optional:"true"` // 日志记录器（可选）
}

// ModuleOutput 合成模块输出服务
type ModuleOutput struct {
	fx.Out

	Synthesizer synthesisiface.Synthesizer
	Generator   synthesisiface.SurfaceGenerator
}

// Module 返回合成模块
func Module() fx.Option {
	return fx.Module("synthesis",
		fx.Provide(
			func(input ModuleInput) (ModuleOutput, error) {
				cfg := synthesisconfig.New(input.AppConfig.Synthesis)

				registry := NewRegistry(cfg, input.Session, input.Logger)
				analyzer := NewAnalyzer()
				resolver := NewResolver(input.ForkManager, input.Logger)
				prober := NewProber(input.ForkManager, input.Logger)

				pipeline := NewPipeline(cfg, input.ForkManager, registry, analyzer, resolver, prober, input.Logger)

				var generator synthesisiface.SurfaceGenerator = NewGenerator(cfg, input.Session, input.Logger)
				if cfg.IsSurfaceCacheEnabled() {
					cached, err := NewCachingGenerator(cfg, generator, input.Logger)
					if err != nil {
						return ModuleOutput{}, err
					}
					generator = cached
				}

				return ModuleOutput{
					Synthesizer: pipeline,
					Generator:   generator,
				}, nil
			},
		),
	)
}
