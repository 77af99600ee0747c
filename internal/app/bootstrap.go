package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/fx"

	apihttp "github.com/weisyn/lens/internal/api/http"
	"github.com/weisyn/lens/internal/core/bridge"
	"github.com/weisyn/lens/internal/core/chainstate"
	"github.com/weisyn/lens/internal/core/executor"
	"github.com/weisyn/lens/internal/core/infrastructure/event"
	"github.com/weisyn/lens/internal/core/infrastructure/log"
	badgerstore "github.com/weisyn/lens/internal/core/infrastructure/storage/badger"
	"github.com/weisyn/lens/internal/core/poll"
	"github.com/weisyn/lens/internal/core/sandbox"
	"github.com/weisyn/lens/internal/core/session"
	"github.com/weisyn/lens/internal/core/synthesis"
)

// 启动/停止超时
const (
	defaultStartTimeout = 30 * time.Second
	defaultStopTimeout  = 15 * time.Second
)

// Bootstrap 应用引导程序
type Bootstrap struct {
	opts  *options
	fxApp *fx.App
}

// NewBootstrap 创建引导程序
func NewBootstrap(opts *options) *Bootstrap {
	return &Bootstrap{opts: opts}
}

// SetupInfrastructureLayer 设置基础设施层模块
// 配置 → 日志 → 事件 → 存储，依赖只向前
func (b *Bootstrap) SetupInfrastructureLayer() []fx.Option {
	return []fx.Option{
		fx.Provide(ProvideAppConfig(b.opts.configFilePath)),
		log.Module(),
		event.Module(),
		badgerstore.Module(),
	}
}

// SetupCoreLayer 设置核心层模块
// 执行器 → 传输桥 → 链状态 → 会话 → 合成 → 沙箱 → 轮询
func (b *Bootstrap) SetupCoreLayer() []fx.Option {
	return []fx.Option{
		executor.Module(),
		bridge.Module(),
		chainstate.Module(),
		session.Module(),
		synthesis.Module(),
		sandbox.Module(),
		poll.Module(),
	}
}

// SetupApplicationLayer 设置应用层模块
func (b *Bootstrap) SetupApplicationLayer() []fx.Option {
	var modules []fx.Option
	if b.opts.enableAPI {
		modules = append(modules, apihttp.Module())
	}
	return modules
}

// CreateFxApp 创建并配置fx应用
func (b *Bootstrap) CreateFxApp() error {
	var allModules []fx.Option
	allModules = append(allModules, b.SetupInfrastructureLayer()...)
	allModules = append(allModules, b.SetupCoreLayer()...)
	allModules = append(allModules, b.SetupApplicationLayer()...)

	appOptions := []fx.Option{
		fx.Options(allModules...),
		fx.NopLogger,
		fxTimeouts,
		fx.StopTimeout(defaultStopTimeout),
	}

	b.fxApp = fx.New(appOptions...)
	return b.fxApp.Err()
}

// RunApp 启动应用并阻塞到收到停止信号或上下文取消
func (b *Bootstrap) RunApp(ctx context.Context) error {
	startCtx, cancel := context.WithTimeout(ctx, defaultStartTimeout)
	defer cancel()
	if err := b.fxApp.Start(startCtx); err != nil {
		return fmt.Errorf("启动应用失败: %w", err)
	}

	// 等待停止信号
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-ctx.Done():
	case sig := <-sigCh:
		fmt.Printf("收到信号 %s，正在停止...\n", sig)
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), defaultStopTimeout)
	defer stopCancel()
	if err := b.fxApp.Stop(stopCtx); err != nil {
		return fmt.Errorf("停止应用失败: %w", err)
	}
	return nil
}
