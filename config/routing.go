package config

import "time"

// RoutingConfig 路由配置
type RoutingConfig struct {
	// MaxHops 成功转发的跳数上限
	// 默认值: 16
	MaxHops int `json:"max_hops" yaml:"max_hops" validate:"gt=0"`

	// MaxFaceSteps 单次面路由的最大步数
	// 默认值: 30
	MaxFaceSteps int `json:"max_face_steps" yaml:"max_face_steps" validate:"gt=0"`

	// ForwardTimeout 单跳转发超时
	// 默认值: 2s
	ForwardTimeout Duration `json:"forward_timeout" yaml:"forward_timeout" validate:"gt=0"`

	// SlowThreshold 超过该 RTT 视为慢响应
	// 默认值: 500ms
	SlowThreshold Duration `json:"slow_threshold" yaml:"slow_threshold" validate:"gt=0"`

	// ConvergenceThreshold 几何模式下到目标的终止距离
	// 默认值: 0.05
	ConvergenceThreshold float64 `json:"convergence_threshold" yaml:"convergence_threshold" validate:"gte=0"`

	// EquivalenceRatio 与最佳分数相差在该比例内的候选视为等价（负载均衡）
	// 默认值: 0.05
	EquivalenceRatio float64 `json:"equivalence_ratio" yaml:"equivalence_ratio" validate:"gte=0,lt=1"`

	// BalancerSize 负载均衡记忆的容量
	// 默认值: 1024
	BalancerSize int `json:"balancer_size" yaml:"balancer_size" validate:"gt=0"`

	// Cache 路由记忆
	Cache RouteCacheConfig `json:"cache" yaml:"cache"`

	// Baseline 是否在路由查询中计算仅按距离的对照路径
	// 默认值: true
	Baseline bool `json:"baseline" yaml:"baseline"`
}

// RouteCacheConfig 路由记忆配置
type RouteCacheConfig struct {
	// Enabled 是否启用
	// 默认值: true
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Size 容量
	// 默认值: 4096
	Size int `json:"size" yaml:"size" validate:"gt=0"`

	// TTL 条目存活时间
	// 默认值: 60s
	TTL Duration `json:"ttl" yaml:"ttl" validate:"gt=0"`

	// Quantum 目标向量量化步长
	// 默认值: 0.1
	Quantum float64 `json:"quantum" yaml:"quantum" validate:"gt=0"`
}

// DefaultRoutingConfig 返回默认路由配置
func DefaultRoutingConfig() RoutingConfig {
	return RoutingConfig{
		MaxHops:              16,
		MaxFaceSteps:         30,
		ForwardTimeout:       Duration(2 * time.Second),
		SlowThreshold:        Duration(500 * time.Millisecond),
		ConvergenceThreshold: 0.05,
		EquivalenceRatio:     0.05,
		BalancerSize:         1024,
		Cache: RouteCacheConfig{
			Enabled: true,
			Size:    4096,
			TTL:     Duration(60 * time.Second),
			Quantum: 0.1,
		},
		Baseline: true,
	}
}

// Validate 跨字段校验
func (c *RoutingConfig) Validate() error {
	if c.SlowThreshold > c.ForwardTimeout {
		return invalid("Routing.SlowThreshold", "must not exceed forward timeout %s", c.ForwardTimeout)
	}
	return nil
}
