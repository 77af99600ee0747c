package cli

import (
	"context"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/weisyn/lens/internal/app"
)

// startCmd 启动宿主
//
// 启动失败的文本原样打到输出，不包装、不上色——上层（渲染端
// 或脚本）直接拿这段文本展示。
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "启动宿主",
	Long:  "启动 lens 宿主：拉起原生执行器、HTTP 服务与轮询控制器，阻塞到收到退出信号",
	RunE: func(cmd *cobra.Command, args []string) error {
		printBanner()

		err := app.Run(context.Background(), app.WithConfigFile(globalFlags.ConfigFile), app.WithAPI())
		if err != nil {
			fmt.Println(err.Error())
			return err
		}
		return nil
	},
	// 失败文本已经打印过，抑制cobra的重复错误输出
	SilenceErrors: true,
	SilenceUsage:  true,
}

// printBanner 启动横幅
func printBanner() {
	banner, _ := pterm.DefaultBigText.WithLetters(
		pterm.NewLettersFromStringWithStyle("lens", pterm.NewStyle(pterm.FgCyan)),
	).Srender()
	pterm.Println(banner)
	pterm.Println(pterm.Gray("chain-state bridge & contract surface host"))
	pterm.Println()
}
