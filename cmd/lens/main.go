// lens 宿主可执行入口
package main

import (
	"github.com/weisyn/lens/internal/cli"
)

func main() {
	cli.Execute()
}
