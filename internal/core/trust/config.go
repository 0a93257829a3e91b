package trust

import (
	"fmt"
	"time"

	"github.com/dep2p/go-vecroute/config"
)

// Config 信任系统配置
type Config struct {
	SuccessGain        float64
	FastBonus          float64
	FastThreshold      time.Duration
	FailurePenalty     float64
	SlowPenalty        float64
	MinSlowSeverity    float64
	ConsistencyGain    float64
	ConsistencyPenalty float64
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		SuccessGain:        0.05,
		FastBonus:          0.02,
		FastThreshold:      50 * time.Millisecond,
		FailurePenalty:     0.3,
		SlowPenalty:        0.1,
		MinSlowSeverity:    0.25,
		ConsistencyGain:    0.02,
		ConsistencyPenalty: 0.2,
	}
}

// ConfigFromUnified 从统一配置创建信任配置
func ConfigFromUnified(cfg *config.Config) Config {
	if cfg == nil {
		return DefaultConfig()
	}
	t := cfg.Trust
	return Config{
		SuccessGain:        t.SuccessGain,
		FastBonus:          t.FastBonus,
		FastThreshold:      t.FastThreshold.Duration(),
		FailurePenalty:     t.FailurePenalty,
		SlowPenalty:        t.SlowPenalty,
		MinSlowSeverity:    t.MinSlowSeverity,
		ConsistencyGain:    t.ConsistencyGain,
		ConsistencyPenalty: t.ConsistencyPenalty,
	}
}

// Validate 验证配置
func (c Config) Validate() error {
	for name, v := range map[string]float64{
		"success gain":        c.SuccessGain,
		"failure penalty":     c.FailurePenalty,
		"slow penalty":        c.SlowPenalty,
		"consistency gain":    c.ConsistencyGain,
		"consistency penalty": c.ConsistencyPenalty,
	} {
		if v <= 0 || v >= 1 {
			return fmt.Errorf("%w: %s must be in (0, 1)", ErrInvalidConfig, name)
		}
	}
	if c.FastBonus < 0 || c.SuccessGain+c.FastBonus >= 1 {
		return fmt.Errorf("%w: fast bonus out of range", ErrInvalidConfig)
	}
	if c.MinSlowSeverity < 0 || c.MinSlowSeverity > 1 {
		return fmt.Errorf("%w: min slow severity must be in [0, 1]", ErrInvalidConfig)
	}
	return nil
}
