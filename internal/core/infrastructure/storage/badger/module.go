// Package badger 提供存储模块的依赖注入装配
package badger

import (
	"context"

	"go.uber.org/fx"

	badgerconfig "github.com/weisyn/lens/internal/config/storage/badger"
	"github.com/weisyn/lens/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/lens/pkg/interfaces/infrastructure/storage"
	configtypes "github.com/weisyn/lens/pkg/types"
)

// ModuleInput 存储模块输入依赖
type ModuleInput struct {
	fx.In

	AppConfig *configtypes.AppConfig // 应用配置
	Logger    log.Logger             `optional:"true"` // 日志记录器（可选）
	Lifecycle fx.Lifecycle           // 生命周期管理
}

// ModuleOutput 存储模块输出服务
type ModuleOutput struct {
	fx.Out

	Store storage.BadgerStore // 键值存储
}

// Module 返回存储模块
func Module() fx.Option {
	return fx.Module("storage",
		fx.Provide(
			func(input ModuleInput) (ModuleOutput, error) {
				var userStorage *configtypes.UserStorageConfig
				if input.AppConfig != nil {
					userStorage = input.AppConfig.Storage
				}

				store, err := New(badgerconfig.New(userStorage), input.Logger)
				if err != nil {
					return ModuleOutput{}, err
				}

				// 应用退出时关闭数据库，确保数据落盘
				input.Lifecycle.Append(fx.Hook{
					OnStop: func(ctx context.Context) error {
						return store.Close()
					},
				})

				return ModuleOutput{Store: store}, nil
			},
		),
	)
}
