// Package cli 提供lens宿主的命令行入口
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// GlobalFlags 全局标志
type GlobalFlags struct {
	ConfigFile string // 配置文件路径
}

var globalFlags GlobalFlags

// rootCmd 根命令
var rootCmd = &cobra.Command{
	Use:   "lens",
	Short: "lens 链状态桥接与合约界面合成宿主",
	Long: `lens - 轻客户端桥接宿主

把本地轻客户端执行器桥接到隔离的渲染沙箱：
- 跨信任边界的关联 JSON-RPC 信封转发
- live/forked 双模链状态与分叉模拟
- 合约接口合成（验证源 / 字节码启发式 / 代理链 / 身份探测）
- 周期性界面生成与沙箱注入`,
}

// Execute 执行根命令
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&globalFlags.ConfigFile, "config", "c", "", "配置文件路径 (默认: ./config.json)")
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(versionCmd)
}
