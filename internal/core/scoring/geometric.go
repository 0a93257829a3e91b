package scoring

import (
	"fmt"

	"github.com/dep2p/go-vecroute/internal/core/vecspace"
	"github.com/dep2p/go-vecroute/pkg/types"
)

// GeometricWeights 几何评分权重
type GeometricWeights struct {
	Alpha float64
	Beta  float64
	Gamma float64
	Delta float64
}

// DefaultGeometricWeights 返回默认权重 0.5 / 0.3 / 0.15 / 0.05
func DefaultGeometricWeights() GeometricWeights {
	return GeometricWeights{Alpha: 0.5, Beta: 0.3, Gamma: 0.15, Delta: 0.05}
}

// Validate 验证权重：α、β、δ > 0，γ ≥ 0
func (w GeometricWeights) Validate() error {
	if w.Alpha <= 0 || w.Beta <= 0 || w.Delta <= 0 {
		return fmt.Errorf("%w: alpha, beta and delta must be positive", ErrInvalidWeights)
	}
	if w.Gamma < 0 {
		return fmt.Errorf("%w: gamma must be non-negative", ErrInvalidWeights)
	}
	return nil
}

// GeometricScorer 几何评分策略
type GeometricScorer struct {
	w GeometricWeights
}

var _ Scorer = (*GeometricScorer)(nil)

// NewGeometricScorer 创建几何评分策略
func NewGeometricScorer(w GeometricWeights) (*GeometricScorer, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return &GeometricScorer{w: w}, nil
}

// Mode 实现 Scorer
func (s *GeometricScorer) Mode() types.ScoringMode {
	return types.ModeGeometric
}

// Score 实现 Scorer
func (s *GeometricScorer) Score(in Input) (float64, error) {
	cos, err := vecspace.Cosine(in.Candidate.Vector, in.Target)
	if err != nil {
		return 0, err
	}
	progress, err := Progress(in.Current.Vector, in.Candidate.Vector, in.Target)
	if err != nil {
		return 0, err
	}
	return s.w.Alpha*cos +
		s.w.Beta*progress -
		s.w.Gamma*in.Candidate.Utilization() +
		s.w.Delta*in.Candidate.Trust, nil
}
