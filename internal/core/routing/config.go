package routing

import (
	"fmt"
	"time"

	"github.com/dep2p/go-vecroute/config"
)

// Config 路由配置
type Config struct {
	// MaxHops 成功转发次数上限
	MaxHops int

	// MaxFaceSteps 单次面路由的步数上限
	MaxFaceSteps int

	// ForwardTimeout 单次转发超时
	ForwardTimeout time.Duration

	// SlowThreshold 超过该 RTT 的成功转发按慢响应处理
	SlowThreshold time.Duration

	// ConvergenceThreshold geometric 模式下视为到达目标的距离
	ConvergenceThreshold float64

	// EquivalenceRatio 负载分流时视为分数相当的相对差距
	EquivalenceRatio float64

	// BalancerSize 负载分流记忆的决策点数量
	BalancerSize int

	Cache CacheConfig

	// Baseline 路由查询是否附带传统基线
	Baseline bool
}

// CacheConfig 路由记忆配置
type CacheConfig struct {
	Enabled bool
	Size    int
	TTL     time.Duration

	// Quantum 目标向量量化步长
	Quantum float64
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		MaxHops:              16,
		MaxFaceSteps:         30,
		ForwardTimeout:       2 * time.Second,
		SlowThreshold:        500 * time.Millisecond,
		ConvergenceThreshold: 0.05,
		EquivalenceRatio:     0.05,
		BalancerSize:         1024,
		Cache: CacheConfig{
			Enabled: true,
			Size:    4096,
			TTL:     time.Minute,
			Quantum: 0.1,
		},
		Baseline: true,
	}
}

// ConfigFromUnified 从统一配置创建路由配置
func ConfigFromUnified(cfg *config.Config) Config {
	if cfg == nil {
		return DefaultConfig()
	}
	r := cfg.Routing
	return Config{
		MaxHops:              r.MaxHops,
		MaxFaceSteps:         r.MaxFaceSteps,
		ForwardTimeout:       r.ForwardTimeout.Duration(),
		SlowThreshold:        r.SlowThreshold.Duration(),
		ConvergenceThreshold: r.ConvergenceThreshold,
		EquivalenceRatio:     r.EquivalenceRatio,
		BalancerSize:         r.BalancerSize,
		Cache: CacheConfig{
			Enabled: r.Cache.Enabled,
			Size:    r.Cache.Size,
			TTL:     r.Cache.TTL.Duration(),
			Quantum: r.Cache.Quantum,
		},
		Baseline: r.Baseline,
	}
}

// Validate 验证配置
func (c Config) Validate() error {
	switch {
	case c.MaxHops <= 0:
		return fmt.Errorf("%w: max hops must be positive", ErrInvalidConfig)
	case c.MaxFaceSteps <= 0:
		return fmt.Errorf("%w: max face steps must be positive", ErrInvalidConfig)
	case c.ForwardTimeout <= 0:
		return fmt.Errorf("%w: forward timeout must be positive", ErrInvalidConfig)
	case c.SlowThreshold <= 0 || c.SlowThreshold > c.ForwardTimeout:
		return fmt.Errorf("%w: slow threshold must be in (0, forward timeout]", ErrInvalidConfig)
	case c.ConvergenceThreshold < 0:
		return fmt.Errorf("%w: convergence threshold must be non-negative", ErrInvalidConfig)
	case c.EquivalenceRatio < 0 || c.EquivalenceRatio >= 1:
		return fmt.Errorf("%w: equivalence ratio must be in [0, 1)", ErrInvalidConfig)
	case c.BalancerSize <= 0:
		return fmt.Errorf("%w: balancer size must be positive", ErrInvalidConfig)
	}
	if c.Cache.Enabled && (c.Cache.Size <= 0 || c.Cache.TTL <= 0 || c.Cache.Quantum <= 0) {
		return fmt.Errorf("%w: cache size, ttl and quantum must be positive", ErrInvalidConfig)
	}
	return nil
}
