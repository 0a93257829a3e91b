package trust

import (
	"math"
	"time"

	"github.com/dep2p/go-vecroute/internal/core/metrics"
	"github.com/dep2p/go-vecroute/internal/util/logger"
	"github.com/dep2p/go-vecroute/pkg/interfaces"
	"github.com/dep2p/go-vecroute/pkg/types"
)

var log = logger.Logger("trust")

// Store 信任值存储（由注册表实现）
type Store interface {
	UpdateTrust(id types.NodeID, fn func(current float64) float64) (float64, error)
}

// 事件名（指标标签）
const (
	EventSuccess      = "success"
	EventFailure      = "failure"
	EventSlow         = "slow"
	EventConsistent   = "consistent"
	EventInconsistent = "inconsistent"
)

// System 信任系统
type System struct {
	cfg     Config
	store   Store
	metrics *metrics.Collector
}

var _ interfaces.TrustSystem = (*System)(nil)

// New 创建信任系统
func New(cfg Config, store Store, m *metrics.Collector) (*System, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &System{cfg: cfg, store: store, metrics: m}, nil
}

// OnSuccess 转发成功
func (s *System) OnSuccess(id types.NodeID, latency time.Duration) (float64, error) {
	gain := s.cfg.SuccessGain
	if latency > 0 && latency < s.cfg.FastThreshold {
		gain += s.cfg.FastBonus
	}
	return s.apply(id, EventSuccess, func(t float64) float64 {
		return t + gain*(1-t)
	})
}

// OnFailure 转发失败或超时
func (s *System) OnFailure(id types.NodeID) (float64, error) {
	return s.apply(id, EventFailure, func(t float64) float64 {
		return t - s.cfg.FailurePenalty*t
	})
}

// OnSlowResponse 响应成功但慢于预期
//
// 严重度按 observed/expected − 1 计算，截断到 [MinSlowSeverity, 1]。
func (s *System) OnSlowResponse(id types.NodeID, observed, expected time.Duration) (float64, error) {
	severity := 1.0
	if expected > 0 {
		severity = float64(observed)/float64(expected) - 1
	}
	severity = math.Max(s.cfg.MinSlowSeverity, math.Min(1, severity))

	return s.apply(id, EventSlow, func(t float64) float64 {
		return t - s.cfg.SlowPenalty*severity*t
	})
}

// OnConsistency 节点自报与观测是否一致
func (s *System) OnConsistency(id types.NodeID, agree bool) (float64, error) {
	if agree {
		return s.apply(id, EventConsistent, func(t float64) float64 {
			return t + s.cfg.ConsistencyGain*(1-t)
		})
	}
	return s.apply(id, EventInconsistent, func(t float64) float64 {
		return t - s.cfg.ConsistencyPenalty*t
	})
}

// Reset 将信任值重置为 value（截断到 [0, 1]）
func (s *System) Reset(id types.NodeID, value float64) (float64, error) {
	return s.store.UpdateTrust(id, func(float64) float64 { return value })
}

// IsTrusted 信任值是否不低于 threshold
func (s *System) IsTrusted(id types.NodeID, threshold float64) (bool, error) {
	current, err := s.store.UpdateTrust(id, func(t float64) float64 { return t })
	if err != nil {
		return false, err
	}
	return current >= threshold, nil
}

func (s *System) apply(id types.NodeID, event string, fn func(float64) float64) (float64, error) {
	var before float64
	after, err := s.store.UpdateTrust(id, func(t float64) float64 {
		before = t
		return fn(t)
	})
	if err != nil {
		return 0, err
	}
	s.metrics.TrustUpdated(event)
	log.Debug("信任更新", "node", id, "event", event, "before", before, "after", after)
	return after, nil
}
