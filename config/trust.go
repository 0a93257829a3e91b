package config

import "time"

// TrustConfig 信任系统配置
//
// 所有增益/惩罚都是 (0, 1) 内的比例，作用于到边界的剩余距离，
// 单次事件无法把信任推到 0 或 1。
type TrustConfig struct {
	// SuccessGain 成功时 trust += SuccessGain·(1−trust)
	// 默认值: 0.05
	SuccessGain float64 `json:"success_gain" yaml:"success_gain" validate:"gt=0,lt=1"`

	// FastBonus 快速响应额外增益
	// 默认值: 0.02
	FastBonus float64 `json:"fast_bonus" yaml:"fast_bonus" validate:"gte=0,lt=1"`

	// FastThreshold 快速响应阈值
	// 默认值: 50ms
	FastThreshold Duration `json:"fast_threshold" yaml:"fast_threshold" validate:"gte=0"`

	// FailurePenalty 失败时 trust −= FailurePenalty·trust
	// 默认值: 0.3
	FailurePenalty float64 `json:"failure_penalty" yaml:"failure_penalty" validate:"gt=0,lt=1"`

	// SlowPenalty 慢响应惩罚（按严重度缩放）
	// 默认值: 0.1
	SlowPenalty float64 `json:"slow_penalty" yaml:"slow_penalty" validate:"gt=0,lt=1"`

	// MinSlowSeverity 慢响应严重度下限
	// 默认值: 0.25
	MinSlowSeverity float64 `json:"min_slow_severity" yaml:"min_slow_severity" validate:"gte=0,lte=1"`

	// ConsistencyGain 一致性检查通过的增益
	// 默认值: 0.02
	ConsistencyGain float64 `json:"consistency_gain" yaml:"consistency_gain" validate:"gt=0,lt=1"`

	// ConsistencyPenalty 一致性检查失败的惩罚
	// 默认值: 0.2
	ConsistencyPenalty float64 `json:"consistency_penalty" yaml:"consistency_penalty" validate:"gt=0,lt=1"`
}

// DefaultTrustConfig 返回默认信任配置
func DefaultTrustConfig() TrustConfig {
	return TrustConfig{
		SuccessGain:        0.05,
		FastBonus:          0.02,
		FastThreshold:      Duration(50 * time.Millisecond),
		FailurePenalty:     0.3,
		SlowPenalty:        0.1,
		MinSlowSeverity:    0.25,
		ConsistencyGain:    0.02,
		ConsistencyPenalty: 0.2,
	}
}

// Validate 跨字段校验
func (c *TrustConfig) Validate() error {
	if c.SuccessGain+c.FastBonus >= 1 {
		return invalid("Trust.FastBonus", "success gain plus fast bonus must be below 1")
	}
	return nil
}
