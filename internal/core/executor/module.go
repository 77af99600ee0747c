package executor

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/fx"

	executorconfig "github.com/weisyn/lens/internal/config/executor"
	"github.com/weisyn/lens/pkg/constants/events"
	executoriface "github.com/weisyn/lens/pkg/interfaces/executor"
	eventiface "github.com/weisyn/lens/pkg/interfaces/infrastructure/event"
	"github.com/weisyn/lens/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/lens/pkg/types"
)

// ModuleInput 执行器模块输入依赖
type ModuleInput struct {
	fx.In

	AppConfig *types.AppConfig
	Logger    log.Logger `optional:"true"` // 日志记录器（可选）
}

// ModuleOutput 执行器模块输出服务
type ModuleOutput struct {
	fx.Out

	Config   *executorconfig.Config
	Executor executoriface.NativeExecutor
}

// lifecycleInput 执行器生命周期依赖
type lifecycleInput struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *executorconfig.Config
	Executor  executoriface.NativeExecutor
	EventBus  eventiface.EventBus `optional:"true"`
	Logger    log.Logger          `optional:"true"`
}

// Module 返回执行器模块
// 根据配置的运行模式选择 subprocess 或 attach 实现
func Module() fx.Option {
	return fx.Module("executor",
		fx.Provide(
			func(input ModuleInput) ModuleOutput {
				cfg := executorconfig.New(input.AppConfig.Executor)

				var exec executoriface.NativeExecutor
				switch cfg.GetMode() {
				case executorconfig.ModeAttach:
					exec = NewAttachExecutor(cfg, input.Logger)
				default:
					exec = NewSubprocessExecutor(cfg, input.Logger)
				}

				return ModuleOutput{
					Config:   cfg,
					Executor: exec,
				}
			},
		),
		fx.Invoke(registerLifecycle),
	)
}

// registerLifecycle 注册执行器的启停钩子
//
// 启动不阻塞装配：同步等待可能长达数分钟，在后台完成，
// 启动结果文本原样打到宿主输出（成功与失败同样处理）。
func registerLifecycle(input lifecycleInput) {
	input.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go startExecutor(input)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return input.Executor.Stop(ctx)
		},
	})
}

// startExecutor 启动执行器并透出用户可见的结果文本
func startExecutor(input lifecycleInput) {
	cfg := input.Config
	message, err := input.Executor.Start(
		context.Background(),
		cfg.GetExecutionRPC(),
		cfg.GetConsensusRPC(),
		cfg.GetChainID(),
	)
	if err != nil {
		fmt.Println(err.Error())
		if input.Logger != nil {
			input.Logger.Errorf("执行器启动失败: %v", err)
		}
		if input.EventBus != nil {
			input.EventBus.Publish(events.EventTypeExecutorStopped, types.ExecutorStateEvent{
				Running: false,
				Message: err.Error(),
				At:      time.Now(),
			})
		}
		return
	}

	fmt.Println(message)
	if input.EventBus != nil {
		input.EventBus.Publish(events.EventTypeExecutorStarted, types.ExecutorStateEvent{
			Running:  true,
			Endpoint: cfg.GetEndpoint(),
			Message:  message,
			At:       time.Now(),
		})
	}
}
