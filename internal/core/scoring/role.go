package scoring

import (
	"fmt"
	"math"
	"time"

	"github.com/dep2p/go-vecroute/internal/core/vecspace"
	"github.com/dep2p/go-vecroute/pkg/types"
)

// RoleWeights 角色评分权重
type RoleWeights struct {
	Similarity   float64
	Trust        float64
	Load         float64
	Latency      float64
	LatencyScale time.Duration
}

// DefaultRoleWeights 返回默认权重 0.5 / 0.2 / 0.2 / 0.1，延迟尺度 1s
func DefaultRoleWeights() RoleWeights {
	return RoleWeights{
		Similarity:   0.5,
		Trust:        0.2,
		Load:         0.2,
		Latency:      0.1,
		LatencyScale: time.Second,
	}
}

// Validate 验证权重
func (w RoleWeights) Validate() error {
	if w.Similarity < 0 || w.Trust < 0 || w.Load < 0 || w.Latency < 0 {
		return fmt.Errorf("%w: role weights must be non-negative", ErrInvalidWeights)
	}
	if w.LatencyScale <= 0 {
		return fmt.Errorf("%w: latency scale must be positive", ErrInvalidWeights)
	}
	return nil
}

// RoleScorer 角色评分策略
type RoleScorer struct {
	w RoleWeights
}

var _ Scorer = (*RoleScorer)(nil)

// NewRoleScorer 创建角色评分策略
func NewRoleScorer(w RoleWeights) (*RoleScorer, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return &RoleScorer{w: w}, nil
}

// Mode 实现 Scorer
func (s *RoleScorer) Mode() types.ScoringMode {
	return types.ModeRole
}

// Score 实现 Scorer
func (s *RoleScorer) Score(in Input) (float64, error) {
	cos, err := vecspace.Cosine(in.Candidate.Vector, in.Target)
	if err != nil {
		return 0, err
	}
	latencyNorm := math.Min(float64(in.Candidate.Latency)/float64(s.w.LatencyScale), 1)
	if latencyNorm < 0 {
		latencyNorm = 0
	}
	return s.w.Similarity*cos +
		s.w.Trust*in.Candidate.Trust -
		s.w.Load*in.Candidate.Utilization() -
		s.w.Latency*latencyNorm, nil
}
