package transport

import (
	"time"

	"github.com/dep2p/go-vecroute/config"
)

// Config 传输配置
type Config struct {
	// Kind sim 或 http
	Kind string

	RequestTimeout      time.Duration
	MaxIdleConnsPerHost int

	Breaker BreakerConfig
}

// BreakerConfig 熔断器配置
type BreakerConfig struct {
	Enabled             bool
	MaxRequests         uint32
	Interval            time.Duration
	OpenTimeout         time.Duration
	ConsecutiveFailures uint32
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		Kind:                "sim",
		RequestTimeout:      5 * time.Second,
		MaxIdleConnsPerHost: 4,
		Breaker: BreakerConfig{
			Enabled:             true,
			MaxRequests:         1,
			Interval:            30 * time.Second,
			OpenTimeout:         10 * time.Second,
			ConsecutiveFailures: 5,
		},
	}
}

// ConfigFromUnified 从统一配置创建传输配置
func ConfigFromUnified(cfg *config.Config) Config {
	if cfg == nil {
		return DefaultConfig()
	}
	t := cfg.Transport
	return Config{
		Kind:                t.Kind,
		RequestTimeout:      t.RequestTimeout.Duration(),
		MaxIdleConnsPerHost: t.MaxIdleConnsPerHost,
		Breaker: BreakerConfig{
			Enabled:             t.Breaker.Enabled,
			MaxRequests:         t.Breaker.MaxRequests,
			Interval:            t.Breaker.Interval.Duration(),
			OpenTimeout:         t.Breaker.OpenTimeout.Duration(),
			ConsecutiveFailures: t.Breaker.ConsecutiveFailures,
		},
	}
}
