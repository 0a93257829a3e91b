// Package logger 提供 vecroute 的统一日志系统
//
// 基于标准库 log/slog，按子系统配置日志级别：
//
//	var log = logger.Logger("routing")
//
//	log.Info("路由完成", "request", id, "hops", n)
//
// 环境变量:
//
//	# routing 为 debug，其余 info
//	VECROUTE_LOG_LEVEL=routing=debug,info
//
//	# JSON 输出
//	VECROUTE_LOG_FORMAT=json
package logger

import (
	"io"
	"log/slog"
	"sync"
)

var (
	// loggers 子系统 Logger 缓存
	loggers sync.Map // map[string]*slog.Logger

	// handlers 子系统 Handler 缓存（用于动态调整级别）
	handlers sync.Map // map[string]*subsystemHandler
)

// Logger 获取指定子系统的 Logger
//
// 同一子系统多次调用返回同一实例。
func Logger(subsystem string) *slog.Logger {
	if l, ok := loggers.Load(subsystem); ok {
		return l.(*slog.Logger)
	}

	cfg := ConfigFromEnv()
	h := newHandler(subsystem, cfg.LevelForSubsystem(subsystem), cfg)

	actual, loaded := loggers.LoadOrStore(subsystem, slog.New(h))
	if !loaded {
		handlers.Store(subsystem, h)
	}
	return actual.(*slog.Logger)
}

// SetLevel 动态设置子系统的日志级别
func SetLevel(subsystem string, level slog.Level) {
	if h, ok := handlers.Load(subsystem); ok {
		h.(*subsystemHandler).setLevel(level)
	}
}

// SetGlobalLevel 设置所有已创建子系统的日志级别
func SetGlobalLevel(level slog.Level) {
	handlers.Range(func(_, value any) bool {
		value.(*subsystemHandler).setLevel(level)
		return true
	})
}

// ApplyLevelSpec 按 "sub=level,default" 格式调整已创建子系统的级别
//
// CLI 的 --log-level 参数走这里，与环境变量格式相同。
func ApplyLevelSpec(spec string) {
	cfg := &Config{DefaultLevel: slog.LevelInfo, SubsystemLevels: make(map[string]slog.Level)}
	parseLevelConfig(cfg, spec)
	handlers.Range(func(key, value any) bool {
		value.(*subsystemHandler).setLevel(cfg.LevelForSubsystem(key.(string)))
		return true
	})
}

// Discard 返回丢弃所有日志的 Logger
func Discard() *slog.Logger {
	return slog.New(discardHandler{})
}

// SetOutput 设置全局日志输出目标
//
// 已创建的 Logger 同样会重定向。
func SetOutput(w io.Writer) {
	outputMu.Lock()
	output = w
	outputMu.Unlock()
}
