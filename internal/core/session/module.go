package session

import (
	"context"

	"go.uber.org/fx"

	eventiface "github.com/weisyn/lens/pkg/interfaces/infrastructure/event"
	"github.com/weisyn/lens/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/lens/pkg/interfaces/infrastructure/storage"
	sessioniface "github.com/weisyn/lens/pkg/interfaces/session"
)

// ModuleInput 会话模块输入依赖
type ModuleInput struct {
	fx.In

	Store    storage.BadgerStore
	EventBus eventiface.EventBus `optional:"true"` // 事件总线（可选）
	Logger   log.Logger          `optional:"true"` // 日志记录器（可选）
}

// ModuleOutput 会话模块输出服务
type ModuleOutput struct {
	fx.Out

	Manager sessioniface.Manager
}

// Module 返回会话模块
func Module() fx.Option {
	return fx.Module("session",
		fx.Provide(
			func(input ModuleInput) (ModuleOutput, error) {
				manager, err := NewManager(context.Background(), input.Store, input.EventBus, input.Logger)
				if err != nil {
					return ModuleOutput{}, err
				}
				return ModuleOutput{Manager: manager}, nil
			},
		),
	)
}
