// Package log 提供lens宿主的日志级别接口定义
//
// 📊 **日志级别管理 (Log Level Management)**
//
// 本文件定义了lens宿主的日志级别管理接口，专注于：
// - 日志级别定义：提供标准的日志级别常量和枚举
// - 字符串转换：提供日志级别和字符串的相互转换
// - 默认配置：提供合理的默认日志级别设置
//
// 🎯 **设计原则**
// - 标准兼容：遵循通用的日志级别标准和命名规范
// - 易用性：提供简单直观的级别操作接口
package log

import "github.com/weisyn/lens/pkg/types"

// LogLevel 别名，便于日志接口的使用方不必额外引入 pkg/types
type LogLevel = types.LogLevel

// 级别常量别名
const (
	DebugLevel = types.DebugLevel
	InfoLevel  = types.InfoLevel
	WarnLevel  = types.WarnLevel
	ErrorLevel = types.ErrorLevel
	FatalLevel = types.FatalLevel
)
