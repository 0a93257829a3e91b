package scoring

import (
	"fmt"

	"github.com/dep2p/go-vecroute/config"
	"github.com/dep2p/go-vecroute/pkg/types"
)

// Config 评分配置
type Config struct {
	Mode      types.ScoringMode
	Role      RoleWeights
	Geometric GeometricWeights
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		Mode:      types.ModeRole,
		Role:      DefaultRoleWeights(),
		Geometric: DefaultGeometricWeights(),
	}
}

// ConfigFromUnified 从统一配置创建评分配置
//
// 模式名无法识别时返回 ErrInvalidMode，不回退到默认模式。
func ConfigFromUnified(cfg *config.Config) (Config, error) {
	if cfg == nil {
		return DefaultConfig(), nil
	}
	out := DefaultConfig()
	if err := out.Mode.UnmarshalText([]byte(cfg.Scoring.Mode)); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidMode, err)
	}

	r := cfg.Scoring.Role
	out.Role = RoleWeights{
		Similarity:   r.Similarity,
		Trust:        r.Trust,
		Load:         r.Load,
		Latency:      r.Latency,
		LatencyScale: r.LatencyScale.Duration(),
	}
	g := cfg.Scoring.Geometric
	out.Geometric = GeometricWeights{Alpha: g.Alpha, Beta: g.Beta, Gamma: g.Gamma, Delta: g.Delta}
	return out, nil
}

// NewScorer 按模式创建评分策略
func NewScorer(cfg Config) (Scorer, error) {
	if cfg.Mode == types.ModeGeometric {
		return NewGeometricScorer(cfg.Geometric)
	}
	return NewRoleScorer(cfg.Role)
}
