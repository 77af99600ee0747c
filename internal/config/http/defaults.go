package http

// HTTP 配置默认值
const (
	// defaultHost 只监听回环地址
	// 沙箱宿主面向本机渲染上下文，不对外网暴露
	defaultHost = "127.0.0.1"

	// defaultPort 默认监听端口
	defaultPort = 28780
)
