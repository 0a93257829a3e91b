package routing

import (
	"context"
	"errors"
	"fmt"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"

	"github.com/dep2p/go-vecroute/internal/core/classifier"
	"github.com/dep2p/go-vecroute/internal/core/metrics"
	"github.com/dep2p/go-vecroute/internal/core/registry"
	"github.com/dep2p/go-vecroute/internal/core/scoring"
	"github.com/dep2p/go-vecroute/internal/core/vecspace"
	"github.com/dep2p/go-vecroute/internal/util/logger"
	"github.com/dep2p/go-vecroute/pkg/interfaces"
	"github.com/dep2p/go-vecroute/pkg/types"
)

var log = logger.Logger("routing")

// Engine 路由引擎
//
// Engine 可被多个请求并发使用；每个请求的状态只存在于一次 Route 调用内。
type Engine struct {
	cfg        Config
	reg        *registry.Registry
	scorer     scoring.Scorer
	trust      interfaces.TrustSystem
	forwarder  interfaces.Forwarder
	embedder   interfaces.Embedder
	classifier interfaces.Classifier
	metrics    *metrics.Collector
	clock      clock.Clock

	cache    *RouteCache
	balancer *Balancer
}

// Deps 引擎依赖
//
// Registry、Scorer、Forwarder 必填。Embedder 缺省为注册表维度的特征哈希嵌入器，
// Classifier 缺省为关键词 + section 均值分类器链。
type Deps struct {
	Registry   *registry.Registry
	Scorer     scoring.Scorer
	Trust      interfaces.TrustSystem
	Forwarder  interfaces.Forwarder
	Embedder   interfaces.Embedder
	Classifier interfaces.Classifier
	Metrics    *metrics.Collector
	Clock      clock.Clock
}

// NewEngine 创建路由引擎
func NewEngine(cfg Config, deps Deps) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if deps.Registry == nil || deps.Scorer == nil || deps.Forwarder == nil {
		return nil, fmt.Errorf("%w: registry, scorer and forwarder are required", ErrInvalidConfig)
	}

	e := &Engine{
		cfg:        cfg,
		reg:        deps.Registry,
		scorer:     deps.Scorer,
		trust:      deps.Trust,
		forwarder:  deps.Forwarder,
		embedder:   deps.Embedder,
		classifier: deps.Classifier,
		metrics:    deps.Metrics,
		clock:      deps.Clock,
	}
	if e.embedder == nil {
		e.embedder = vecspace.NewEmbedder(e.reg.Dimension())
	}
	if e.embedder.Dimension() != e.reg.Dimension() {
		return nil, fmt.Errorf("%w: %d vs %d", ErrDimensionConflict, e.embedder.Dimension(), e.reg.Dimension())
	}
	if e.classifier == nil {
		kw := classifier.NewKeywordClassifier(nil)
		e.classifier = classifier.Chain{
			kw,
			classifier.NewCentroidClassifier(e.reg, classifier.RoleCenters(e.embedder, kw)),
		}
	}
	if e.clock == nil {
		e.clock = clock.New()
	}
	if cfg.Cache.Enabled {
		e.cache = NewRouteCache(cfg.Cache)
	}

	balancer, err := NewBalancer(cfg.BalancerSize, cfg.EquivalenceRatio)
	if err != nil {
		return nil, err
	}
	e.balancer = balancer
	return e, nil
}

// Mode 返回评分模式
func (e *Engine) Mode() types.ScoringMode {
	return e.scorer.Mode()
}

// Cache 返回路由记忆，未启用时为 nil
func (e *Engine) Cache() *RouteCache {
	return e.cache
}

// ============================================================================
//                              SECTION_RESOLVE
// ============================================================================

// Resolve 确定请求的目标角色与目标向量
//
// 目标向量：显式给出，否则嵌入请求文本。
// 目标角色：显式给出，否则依次由分类器根据文本、目标向量判断。
func (e *Engine) Resolve(req types.Request) (types.Role, types.Vector, error) {
	target := req.Target
	if len(target) == 0 {
		target = e.embedder.Embed(req.Text)
	}
	if len(target) != e.reg.Dimension() {
		return types.RoleUnknown, nil, fmt.Errorf("%w: target has %d, want %d",
			types.ErrDimensionMismatch, len(target), e.reg.Dimension())
	}
	target = target.Clone()

	if req.Role != types.RoleUnknown {
		if !req.Role.IsValid() {
			return types.RoleUnknown, nil, fmt.Errorf("%w: role %d", types.ErrUnknownSection, int(req.Role))
		}
		return req.Role, target, nil
	}
	if role, ok := e.classifier.Classify(req.Text, target); ok {
		return role, target, nil
	}
	return types.RoleUnknown, nil, fmt.Errorf("%w: %q", types.ErrUnknownSection, req.Text)
}

// ============================================================================
//                              Route
// ============================================================================

// Route 从 origin 开始路由请求
//
// 到达终点或 section 失效时 error 为 nil，由 Result.Outcome 区分。
// 无法继续时同时返回部分结果与原因（ErrStuck、ErrHopLimitExceeded、ErrNoEligibleCandidate
// 或 ctx 错误）。SECTION_RESOLVE 失败或起点不存在时只返回错误。
func (e *Engine) Route(ctx context.Context, origin types.NodeID, req types.Request) (*Result, error) {
	role, target, err := e.Resolve(req)
	if err != nil {
		return nil, err
	}
	start, err := e.reg.Get(origin)
	if err != nil {
		return nil, err
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	w := newWalk(e, req, role, target, start)
	res := w.run(ctx)

	e.metrics.ObserveRoute(res.Mode.String(), res.Outcome.String(), res.Forwards)
	switch res.Outcome {
	case types.OutcomeTerminal:
		log.Debug("路由完成", "request", req.ID, "role", role, "path", res.Path, "failovers", res.Failovers)
	case types.OutcomeSectionFailure:
		log.Warn("目标 section 无可用节点", "request", req.ID, "role", role, "origin", origin)
	default:
		log.Warn("路由无法继续", "request", req.ID, "role", role, "last", res.Last(), "err", res.err)
		return res, res.err
	}
	return res, nil
}

// isContextErr 判断是否为调用方取消
func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
