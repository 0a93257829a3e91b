package routing

import (
	"context"
	"fmt"
	"time"

	"github.com/dep2p/go-vecroute/internal/core/capacity"
	"github.com/dep2p/go-vecroute/internal/core/scoring"
	"github.com/dep2p/go-vecroute/internal/core/vecspace"
	"github.com/dep2p/go-vecroute/pkg/types"
)

// maxRaceRetries 候选全部因并发占用失败时重新选择的次数
const maxRaceRetries = 3

type nodeSet map[types.NodeID]struct{}

func (s nodeSet) has(id types.NodeID) bool {
	_, ok := s[id]
	return ok
}

// choice CANDIDATE_SELECT 的结果
type choice struct {
	node     types.NodeInfo
	method   types.HopMethod
	ranked   []scoring.Scored
	terminal bool
}

type forwardStatus int

const (
	forwardOK forwardStatus = iota
	forwardRace
	forwardFailed
	forwardAborted
)

// walk 单个请求的路由状态
type walk struct {
	e      *Engine
	req    types.Request
	role   types.Role
	target types.Vector
	origin types.NodeID

	current types.NodeInfo
	res     *Result

	visited  nodeSet
	excluded nodeSet // 转发失败，本次请求内排除
	racing   nodeSet // 占用失败，仅本次选择排除
	face     *faceState
}

func newWalk(e *Engine, req types.Request, role types.Role, target types.Vector, start types.NodeInfo) *walk {
	w := &walk{
		e:        e,
		req:      req,
		role:     role,
		target:   target,
		origin:   start.ID,
		current:  start,
		visited:  nodeSet{start.ID: {}},
		excluded: nodeSet{},
		racing:   nodeSet{},
		res: &Result{
			RequestID:  req.ID,
			TargetRole: role,
			Target:     target,
			Mode:       e.scorer.Mode(),
		},
	}
	w.appendHop(start, types.MethodOrigin)
	return w
}

func (w *walk) run(ctx context.Context) *Result {
	races := 0
	for {
		if err := ctx.Err(); err != nil {
			return w.stuck(err)
		}
		if w.isTerminal() {
			return w.terminal()
		}
		if !w.sectionAvailable() {
			return w.sectionFailure()
		}
		if w.res.Forwards >= w.e.cfg.MaxHops {
			return w.stuck(fmt.Errorf("%w: %d forwards", types.ErrHopLimitExceeded, w.e.cfg.MaxHops))
		}

		c, err := w.selectNext()
		if err != nil {
			if len(w.racing) > 0 && races < maxRaceRetries {
				races++
				w.racing = nodeSet{}
				continue
			}
			return w.stuck(err)
		}
		if c.terminal {
			return w.terminal()
		}

		switch w.forward(ctx, c) {
		case forwardOK:
			races = 0
		case forwardAborted:
			return w.stuck(ctx.Err())
		}
	}
}

// ============================================================================
//                              终止状态
// ============================================================================

func (w *walk) isTerminal() bool {
	if w.res.Mode == types.ModeRole {
		return w.current.Role == w.role
	}
	return w.distance(w.current) < w.e.cfg.ConvergenceThreshold
}

// sectionAvailable 目标 section 是否仍有存活、未满且未被排除的成员
func (w *walk) sectionAvailable() bool {
	for _, m := range w.e.reg.Members(w.role) {
		if capacity.Eligible(m) && !w.excluded.has(m.ID) {
			return true
		}
	}
	return false
}

func (w *walk) terminal() *Result {
	w.res.Hops[len(w.res.Hops)-1].IsTerminal = true
	w.res.Outcome = types.OutcomeTerminal
	return w.res
}

// sectionFailure 丢弃逐跳记录，路径只保留起点
func (w *walk) sectionFailure() *Result {
	w.res.Outcome = types.OutcomeSectionFailure
	w.res.Path = []types.NodeID{w.origin}
	w.res.Hops = nil
	return w.res
}

func (w *walk) stuck(err error) *Result {
	w.res.Outcome = types.OutcomeStuck
	w.res.err = err
	return w.res
}

// ============================================================================
//                              CANDIDATE_SELECT
// ============================================================================

func (w *walk) selectNext() (choice, error) {
	universe, err := w.universe()
	if err != nil {
		return choice{}, err
	}
	ranked, err := w.rank(universe)
	if err != nil {
		return choice{}, err
	}

	if w.res.Mode == types.ModeRole {
		if len(ranked) == 0 {
			return choice{}, fmt.Errorf("%w: at %s", types.ErrNoEligibleCandidate, w.current.ID)
		}
		return w.pick(ranked, ranked), nil
	}

	qualified := make([]scoring.Scored, 0, len(ranked))
	for _, s := range ranked {
		if s.Progress > 0 {
			qualified = append(qualified, s)
		}
	}

	// 局部最小：已在目标 section 内即视为到达其最近可达点
	if len(qualified) == 0 && w.current.Role == w.role {
		return choice{terminal: true}, nil
	}
	if w.face != nil {
		return w.faceStep()
	}
	if len(qualified) == 0 {
		w.face = newFaceState(w.current, w.distance(w.current))
		log.Debug("进入面路由", "request", w.req.ID, "node", w.current.ID)
		return w.faceStep()
	}

	if c, ok := w.fromCache(ranked, qualified); ok {
		return c, nil
	}
	return w.pick(ranked, qualified), nil
}

// universe 候选全集：role 模式为 section 其他成员，geometric 模式为未访问的邻居
func (w *walk) universe() ([]types.NodeInfo, error) {
	var all []types.NodeInfo
	if w.res.Mode == types.ModeRole {
		all = w.e.reg.Members(w.role)
	} else {
		neighbors, err := w.e.reg.NeighborsOf(w.current.ID)
		if err != nil {
			return nil, err
		}
		all = neighbors
	}

	out := make([]types.NodeInfo, 0, len(all))
	for _, n := range all {
		if n.ID == w.current.ID {
			continue
		}
		if w.res.Mode == types.ModeGeometric && w.visited.has(n.ID) {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

// rank 排除、容量过滤后评分排序
func (w *walk) rank(universe []types.NodeInfo) ([]scoring.Scored, error) {
	eligible := capacity.Filter(capacity.Without(capacity.Without(universe, w.excluded), w.racing))
	return scoring.Rank(w.e.scorer, w.current, eligible, w.target)
}

// pick 选择排名第一的候选，必要时分流
func (w *walk) pick(ranked, qualified []scoring.Scored) choice {
	idx, balanced := w.e.balancer.Pick(w.origin, w.current.ID, qualified)
	method := types.MethodGreedy
	if balanced {
		method = types.MethodBalanced
	}
	return choice{node: qualified[idx].Node, method: method, ranked: ranked}
}

// fromCache 路由记忆给出的下一跳仍合格时采用
func (w *walk) fromCache(ranked, qualified []scoring.Scored) (choice, bool) {
	cache := w.e.cache
	if cache == nil {
		return choice{}, false
	}
	id, ok := cache.Get(w.current.ID, w.target)
	if ok {
		for i, s := range qualified {
			if s.Node.ID != id {
				continue
			}
			w.e.metrics.CacheLookup(true)
			if j, balanced := w.e.balancer.Divert(w.origin, w.current.ID, qualified, i); balanced {
				return choice{node: qualified[j].Node, method: types.MethodBalanced, ranked: ranked}, true
			}
			return choice{node: s.Node, method: types.MethodCache, ranked: ranked}, true
		}
		cache.Invalidate(w.current.ID, w.target)
	}
	w.e.metrics.CacheLookup(false)
	return choice{}, false
}

// ============================================================================
//                              HOP_FORWARD
// ============================================================================

func (w *walk) forward(ctx context.Context, c choice) forwardStatus {
	next := c.node
	w.markChoice(c)

	ok, err := w.e.reg.TryAcquire(next.ID)
	if err != nil {
		// 节点已被删除
		w.excluded[next.ID] = struct{}{}
		return forwardFailed
	}
	if !ok {
		w.racing[next.ID] = struct{}{}
		log.Debug("候选已满，重新选择", "request", w.req.ID, "node", next.ID)
		return forwardRace
	}

	fctx, cancel := context.WithTimeout(ctx, w.e.cfg.ForwardTimeout)
	start := w.e.clock.Now()
	resp, err := w.e.forwarder.Execute(fctx, next, types.ExecuteRequest{
		RequestID: w.req.ID,
		Text:      w.req.Text,
		Role:      w.role.String(),
		Hop:       w.res.Forwards + 1,
		From:      w.current.ID,
		Payload:   w.req.Payload,
	})
	elapsed := w.e.clock.Since(start)
	cancel()
	if rerr := w.e.reg.Release(next.ID); rerr != nil {
		log.Debug("释放容量失败", "node", next.ID, "err", rerr)
	}

	if err != nil {
		if ctx.Err() != nil {
			return forwardAborted
		}
		w.failed(c, err)
		return forwardFailed
	}

	rtt := resp.Latency
	if rtt <= 0 {
		rtt = elapsed
	}
	w.succeeded(c, rtt, resp.Body)
	return forwardOK
}

func (w *walk) failed(c choice, cause error) {
	id := c.node.ID
	w.excluded[id] = struct{}{}
	w.res.Failovers++
	w.e.metrics.ForwardFailed(string(id))

	if w.e.trust != nil {
		if _, err := w.e.trust.OnFailure(id); err != nil {
			log.Debug("信任更新失败", "node", id, "err", err)
		}
	}
	if c.method == types.MethodCache && w.e.cache != nil {
		w.e.cache.Invalidate(w.current.ID, w.target)
	}
	log.Warn("转发失败，重新选择", "request", w.req.ID, "from", w.current.ID, "node", id, "err", cause)
}

func (w *walk) succeeded(c choice, rtt time.Duration, body []byte) {
	id := c.node.ID
	if w.e.trust != nil {
		var err error
		if rtt > w.e.cfg.SlowThreshold {
			_, err = w.e.trust.OnSlowResponse(id, rtt, w.e.cfg.SlowThreshold)
		} else {
			_, err = w.e.trust.OnSuccess(id, rtt)
		}
		if err != nil {
			log.Debug("信任更新失败", "node", id, "err", err)
		}
	}
	if rtt > 0 {
		_ = w.e.reg.ObserveLatency(id, rtt)
	}

	if c.method != types.MethodFace {
		w.e.balancer.Record(w.origin, w.current.ID, id)
		if w.res.Mode == types.ModeGeometric && w.e.cache != nil {
			w.e.cache.Put(w.current.ID, w.target, id)
		}
	}

	prev := w.current
	next, err := w.e.reg.Get(id)
	if err != nil {
		next = c.node
	}
	w.current = next
	w.visited[id] = struct{}{}
	w.racing = nodeSet{}
	w.res.Forwards++
	w.res.Response = body
	w.appendHop(next, c.method)

	if w.face != nil {
		w.face.advance(prev.ID, id)
		if w.distance(next) < w.face.startDist {
			log.Debug("离开面路由", "request", w.req.ID, "node", id, "steps", w.face.steps)
			w.face = nil
		}
	}
	log.Debug("转发成功", "request", w.req.ID, "hop", w.res.Forwards, "node", id, "method", c.method, "rtt", rtt)
}

// ============================================================================
//                              记录
// ============================================================================

func (w *walk) distance(n types.NodeInfo) float64 {
	d, err := vecspace.Euclidean(n.Vector, w.target)
	if err != nil {
		return 0
	}
	return d
}

func (w *walk) appendHop(n types.NodeInfo, method types.HopMethod) {
	w.res.Hops = append(w.res.Hops, Hop{
		Step:     len(w.res.Hops),
		NodeID:   n.ID,
		Distance: w.distance(n),
		Scores:   []ScoreEntry{},
		Method:   method,
	})
	w.res.Path = append(w.res.Path, n.ID)
}

// markChoice 在当前跳记录候选评分与选择
func (w *walk) markChoice(c choice) {
	hop := &w.res.Hops[len(w.res.Hops)-1]
	hop.Scores = make([]ScoreEntry, 0, len(c.ranked))
	for _, s := range c.ranked {
		hop.Scores = append(hop.Scores, ScoreEntry{Neighbor: s.Node.ID, Score: s.Score, Load: s.Node.Load})
	}
	hop.ChosenNext = c.node.ID
}
