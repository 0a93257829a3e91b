package config

import "time"

// ScoringConfig 评分配置
//
// 两套权重相互独立，不会合并。
type ScoringConfig struct {
	// Mode 评分模式：role 或 geometric
	// 默认值: role
	Mode string `json:"mode" yaml:"mode" validate:"oneof=role geometric"`

	// Role 角色评分权重
	Role RoleWeightsConfig `json:"role" yaml:"role"`

	// Geometric 几何评分权重
	Geometric GeometricWeightsConfig `json:"geometric" yaml:"geometric"`
}

// RoleWeightsConfig 角色评分：
// Similarity·cos + Trust·trust − Load·load/cap − Latency·latencyNorm
type RoleWeightsConfig struct {
	Similarity float64 `json:"similarity" yaml:"similarity" validate:"gte=0"`
	Trust      float64 `json:"trust" yaml:"trust" validate:"gte=0"`
	Load       float64 `json:"load" yaml:"load" validate:"gte=0"`
	Latency    float64 `json:"latency" yaml:"latency" validate:"gte=0"`

	// LatencyScale 延迟归一化尺度，latencyNorm = min(latency/scale, 1)
	// 默认值: 1s
	LatencyScale Duration `json:"latency_scale" yaml:"latency_scale" validate:"gt=0"`
}

// GeometricWeightsConfig 几何评分：α·cos + β·Δdist − γ·normLoad + δ·trust
type GeometricWeightsConfig struct {
	Alpha float64 `json:"alpha" yaml:"alpha"`
	Beta  float64 `json:"beta" yaml:"beta"`
	Gamma float64 `json:"gamma" yaml:"gamma"`
	Delta float64 `json:"delta" yaml:"delta"`
}

// DefaultScoringConfig 返回默认评分配置
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		Mode: "role",
		Role: RoleWeightsConfig{
			Similarity:   0.5,
			Trust:        0.2,
			Load:         0.2,
			Latency:      0.1,
			LatencyScale: Duration(time.Second),
		},
		Geometric: GeometricWeightsConfig{
			Alpha: 0.5,
			Beta:  0.3,
			Gamma: 0.15,
			Delta: 0.05,
		},
	}
}

// Validate 跨字段校验
func (c *ScoringConfig) Validate() error {
	g := c.Geometric
	if g.Alpha <= 0 || g.Beta <= 0 || g.Delta <= 0 {
		return invalid("Scoring.Geometric", "alpha, beta and delta must be positive")
	}
	if g.Gamma < 0 {
		return invalid("Scoring.Geometric.Gamma", "must be non-negative")
	}
	return nil
}
