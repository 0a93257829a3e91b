package registry

import (
	"fmt"
)

// Config 注册表配置
type Config struct {
	// Dimension 向量维度 D，注册节点时校验
	Dimension int

	// LatencyAlpha 延迟 EWMA 平滑因子 (0, 1]
	LatencyAlpha float64

	// HealLinks 节点失效后每个存活前邻居补偿的最大边数
	HealLinks int

	// RelinkLinks 恢复节点无邻居时重新连接的边数
	RelinkLinks int
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		Dimension:    32,
		LatencyAlpha: 0.2,
		HealLinks:    3,
		RelinkLinks:  3,
	}
}

// Validate 验证配置
func (c Config) Validate() error {
	if c.Dimension <= 0 {
		return fmt.Errorf("%w: dimension must be positive", ErrInvalidConfig)
	}
	if c.LatencyAlpha <= 0 || c.LatencyAlpha > 1 {
		return fmt.Errorf("%w: latency alpha must be in (0, 1]", ErrInvalidConfig)
	}
	if c.HealLinks < 0 || c.RelinkLinks < 0 {
		return fmt.Errorf("%w: link counts must be non-negative", ErrInvalidConfig)
	}
	return nil
}
