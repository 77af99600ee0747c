package log

import (
	"go.uber.org/zap/zapcore"
)

// 日志配置默认值
// 这些默认值基于生产环境的最佳实践和常见的日志配置
const (
	// === 基础日志配置 ===

	// defaultLogLevel 默认日志级别设为"info"
	// 原因：info级别平衡了信息量和性能，记录重要事件但不过于详细
	defaultLogLevel = "info"

	// defaultToConsole 默认启用控制台输出
	// 原因：宿主通常前台运行，控制台输出提供即时反馈
	defaultToConsole = true

	// defaultFilePath 默认日志文件路径
	// 相对路径基于进程工作目录解析
	defaultFilePath = "./data/logs/lens.log"

	// === 日志轮转配置 ===

	// defaultMaxSize 单个日志文件最大 50MB
	defaultMaxSize = 50

	// defaultMaxBackups 最多保留 10 个历史文件
	defaultMaxBackups = 10

	// defaultMaxAge 日志最长保留 30 天
	defaultMaxAge = 30

	// defaultCompress 默认压缩历史日志
	defaultCompress = true

	// === 调试配置 ===

	// defaultEnableCaller 默认记录调用位置，便于排障
	defaultEnableCaller = true

	// defaultEnableStacktrace 默认不记录堆栈（error 级别单独开启）
	defaultEnableStacktrace = false
)

// defaultLevelMap 日志级别字符串到 zap 级别的映射
var defaultLevelMap = map[string]zapcore.Level{
	"debug": zapcore.DebugLevel,
	"info":  zapcore.InfoLevel,
	"warn":  zapcore.WarnLevel,
	"error": zapcore.ErrorLevel,
	"fatal": zapcore.FatalLevel,
}
