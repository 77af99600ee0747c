// Package app 提供lens宿主的应用装配与生命周期管理
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/fx"

	"github.com/weisyn/lens/pkg/types"
)

// defaultConfigFile 默认配置文件路径
const defaultConfigFile = "./config.json"

// ProvideAppConfig 提供应用配置实例
//
// 配置文件缺失不是错误：全部字段都有系统默认值，空配置即可启动。
func ProvideAppConfig(configPath string) func() (*types.AppConfig, error) {
	return func() (*types.AppConfig, error) {
		return loadConfigFromFile(configPath)
	}
}

// loadConfigFromFile 从配置文件加载配置
//
// 字段一律使用指针类型区分"未设置"与"设置为零值"：nil 走系统
// 默认值，非 nil 原样采用。
func loadConfigFromFile(configPath string) (*types.AppConfig, error) {
	if configPath == "" {
		configPath = defaultConfigFile
	}

	appConfig := &types.AppConfig{}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return appConfig, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}
	if err := json.Unmarshal(data, appConfig); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	if err := createDataDirectories(appConfig); err != nil {
		// 目录创建失败不阻断启动，由具体模块在使用时报错
		fmt.Printf("⚠️  创建数据目录失败: %v\n", err)
	}
	return appConfig, nil
}

// createDataDirectories 根据配置自动创建数据目录结构
func createDataDirectories(appConfig *types.AppConfig) error {
	var directories []string

	if appConfig.DataDir != nil && *appConfig.DataDir != "" {
		directories = append(directories, *appConfig.DataDir)
	}
	if appConfig.Storage != nil && appConfig.Storage.Path != nil {
		directories = append(directories, *appConfig.Storage.Path)
	}
	if appConfig.Executor != nil && appConfig.Executor.DataDir != nil {
		directories = append(directories, *appConfig.Executor.DataDir)
	}
	if appConfig.Log != nil && appConfig.Log.FilePath != nil {
		directories = append(directories, filepath.Dir(*appConfig.Log.FilePath))
	}

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("创建目录 %s 失败: %w", dir, err)
		}
	}
	return nil
}

// Run 装配并运行应用，阻塞到收到停止信号
func Run(ctx context.Context, opts ...Option) error {
	bootstrap := NewBootstrap(newOptions(opts...))
	if err := bootstrap.CreateFxApp(); err != nil {
		return err
	}
	return bootstrap.RunApp(ctx)
}

// fxTimeouts fx 启动/停止超时
var fxTimeouts = fx.StartTimeout(defaultStartTimeout)
