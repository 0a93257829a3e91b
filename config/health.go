package config

import "time"

// HealthConfig 健康监控配置
type HealthConfig struct {
	// Enabled 是否启用周期探测
	// 默认值: true
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Interval 探测周期
	// 默认值: 5s
	Interval Duration `json:"interval" yaml:"interval" validate:"gt=0"`

	// ProbeTimeout 单次探测超时
	// 默认值: 2s
	ProbeTimeout Duration `json:"probe_timeout" yaml:"probe_timeout" validate:"gt=0"`

	// FailureThreshold 连续失败多少次判定失效
	// 默认值: 1
	FailureThreshold int `json:"failure_threshold" yaml:"failure_threshold" validate:"gte=1"`

	// MaxConcurrentProbes 同时进行的探测数
	// 默认值: 16
	MaxConcurrentProbes int `json:"max_concurrent_probes" yaml:"max_concurrent_probes" validate:"gt=0"`

	// ProbesPerSecond 探测速率上限，0 表示不限
	// 默认值: 0
	ProbesPerSecond float64 `json:"probes_per_second" yaml:"probes_per_second" validate:"gte=0"`

	// HealOnDeath 节点失效时执行拓扑自愈
	// 默认值: true
	HealOnDeath bool `json:"heal_on_death" yaml:"heal_on_death"`

	// RelinkOnRecovery 无邻居的恢复节点重新接入
	// 默认值: true
	RelinkOnRecovery bool `json:"relink_on_recovery" yaml:"relink_on_recovery"`

	// CheckMetrics 对存活节点做 /metrics 一致性检查
	// 默认值: false
	CheckMetrics bool `json:"check_metrics" yaml:"check_metrics"`

	// ConsistencyTolerance 自报延迟与实测 RTT 的允许偏差
	// 默认值: 100ms
	ConsistencyTolerance Duration `json:"consistency_tolerance" yaml:"consistency_tolerance" validate:"gte=0"`
}

// DefaultHealthConfig 返回默认健康监控配置
func DefaultHealthConfig() HealthConfig {
	return HealthConfig{
		Enabled:              true,
		Interval:             Duration(5 * time.Second),
		ProbeTimeout:         Duration(2 * time.Second),
		FailureThreshold:     1,
		MaxConcurrentProbes:  16,
		HealOnDeath:          true,
		RelinkOnRecovery:     true,
		ConsistencyTolerance: Duration(100 * time.Millisecond),
	}
}

// Validate 跨字段校验
func (c *HealthConfig) Validate() error {
	if c.ProbeTimeout > c.Interval {
		return invalid("Health.ProbeTimeout", "must not exceed interval %s", c.Interval)
	}
	return nil
}
