package health

import (
	"fmt"
	"time"

	"github.com/dep2p/go-vecroute/config"
)

// Config 健康监控配置
type Config struct {
	Enabled bool

	// Interval 探测周期
	Interval time.Duration

	// ProbeTimeout 单次探测超时
	ProbeTimeout time.Duration

	// FailureThreshold 连续失败多少次后标记失效
	FailureThreshold int

	// MaxConcurrentProbes 同时进行的探测上限
	MaxConcurrentProbes int

	// ProbesPerSecond 探测速率上限，0 表示不限
	ProbesPerSecond float64

	HealOnDeath      bool
	RelinkOnRecovery bool

	// CheckMetrics 是否比较节点自报指标与观测值
	CheckMetrics         bool
	ConsistencyTolerance time.Duration
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		Enabled:              true,
		Interval:             5 * time.Second,
		ProbeTimeout:         2 * time.Second,
		FailureThreshold:     1,
		MaxConcurrentProbes:  16,
		HealOnDeath:          true,
		RelinkOnRecovery:     true,
		ConsistencyTolerance: 100 * time.Millisecond,
	}
}

// ConfigFromUnified 从统一配置创建健康监控配置
func ConfigFromUnified(cfg *config.Config) Config {
	if cfg == nil {
		return DefaultConfig()
	}
	h := cfg.Health
	return Config{
		Enabled:              h.Enabled,
		Interval:             h.Interval.Duration(),
		ProbeTimeout:         h.ProbeTimeout.Duration(),
		FailureThreshold:     h.FailureThreshold,
		MaxConcurrentProbes:  h.MaxConcurrentProbes,
		ProbesPerSecond:      h.ProbesPerSecond,
		HealOnDeath:          h.HealOnDeath,
		RelinkOnRecovery:     h.RelinkOnRecovery,
		CheckMetrics:         h.CheckMetrics,
		ConsistencyTolerance: h.ConsistencyTolerance.Duration(),
	}
}

// Validate 验证配置
func (c Config) Validate() error {
	if c.Interval <= 0 || c.ProbeTimeout <= 0 {
		return fmt.Errorf("%w: interval and probe timeout must be positive", ErrInvalidConfig)
	}
	if c.FailureThreshold < 1 {
		return fmt.Errorf("%w: failure threshold must be at least 1", ErrInvalidConfig)
	}
	if c.MaxConcurrentProbes < 1 {
		return fmt.Errorf("%w: max concurrent probes must be at least 1", ErrInvalidConfig)
	}
	if c.ProbesPerSecond < 0 {
		return fmt.Errorf("%w: probes per second must be non-negative", ErrInvalidConfig)
	}
	return nil
}
