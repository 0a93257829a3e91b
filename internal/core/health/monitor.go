package health

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/dep2p/go-vecroute/internal/core/metrics"
	"github.com/dep2p/go-vecroute/internal/core/registry"
	"github.com/dep2p/go-vecroute/internal/util/logger"
	"github.com/dep2p/go-vecroute/pkg/interfaces"
	"github.com/dep2p/go-vecroute/pkg/types"
)

var log = logger.Logger("health")

// Monitor 健康监控器
type Monitor struct {
	cfg     Config
	reg     *registry.Registry
	prober  interfaces.Prober
	trust   interfaces.TrustSystem
	metrics *metrics.Collector
	clock   clock.Clock
	limiter *rate.Limiter

	mu       sync.Mutex
	failures map[types.NodeID]int

	cbMu      sync.RWMutex
	callbacks []interfaces.StatusChangeFunc

	running int32
	cancel  context.CancelFunc
	done    chan struct{}
}

var _ interfaces.HealthMonitor = (*Monitor)(nil)

// Deps 监控器依赖
//
// Trust、Metrics 可为 nil；Clock 为 nil 时使用系统时钟。
type Deps struct {
	Registry *registry.Registry
	Prober   interfaces.Prober
	Trust    interfaces.TrustSystem
	Metrics  *metrics.Collector
	Clock    clock.Clock
}

// NewMonitor 创建健康监控器
func NewMonitor(cfg Config, deps Deps) (*Monitor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	clk := deps.Clock
	if clk == nil {
		clk = clock.New()
	}
	m := &Monitor{
		cfg:      cfg,
		reg:      deps.Registry,
		prober:   deps.Prober,
		trust:    deps.Trust,
		metrics:  deps.Metrics,
		clock:    clk,
		failures: make(map[types.NodeID]int),
	}
	if cfg.ProbesPerSecond > 0 {
		burst := int(cfg.ProbesPerSecond)
		if burst < 1 {
			burst = 1
		}
		m.limiter = rate.NewLimiter(rate.Limit(cfg.ProbesPerSecond), burst)
	}
	return m, nil
}

// ============================================================================
//                              生命周期
// ============================================================================

// Start 启动周期探测
//
// 与 fx OnStart 的 ctx 解耦，后台循环只由 Stop 结束。
func (m *Monitor) Start(_ context.Context) error {
	if !atomic.CompareAndSwapInt32(&m.running, 0, 1) {
		return ErrAlreadyStarted
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.done = make(chan struct{})

	ticker := m.clock.Ticker(m.cfg.Interval)
	go m.loop(ctx, ticker)

	log.Info("健康监控已启动", "interval", m.cfg.Interval, "threshold", m.cfg.FailureThreshold)
	return nil
}

// Stop 停止周期探测，未启动时为空操作
func (m *Monitor) Stop() error {
	if !atomic.CompareAndSwapInt32(&m.running, 1, 0) {
		return nil
	}
	m.cancel()
	<-m.done
	log.Info("健康监控已停止")
	return nil
}

func (m *Monitor) loop(ctx context.Context, ticker *clock.Ticker) {
	defer close(m.done)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := m.PollOnce(ctx); err != nil && ctx.Err() == nil {
				log.Warn("健康探测失败", "err", err)
			}
		}
	}
}

// OnStatusChange 注册存活状态变化回调
//
// 回调在注册表写入之后同步调用，不应阻塞。
func (m *Monitor) OnStatusChange(fn interfaces.StatusChangeFunc) {
	m.cbMu.Lock()
	defer m.cbMu.Unlock()
	m.callbacks = append(m.callbacks, fn)
}

func (m *Monitor) notify(id types.NodeID, alive bool) {
	m.cbMu.RLock()
	callbacks := append([]interfaces.StatusChangeFunc(nil), m.callbacks...)
	m.cbMu.RUnlock()

	for _, fn := range callbacks {
		fn(id, alive)
	}
}

// FailureCount 返回节点当前连续失败次数
func (m *Monitor) FailureCount(id types.NodeID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.failures[id]
}

// ============================================================================
//                              探测
// ============================================================================

// PollOnce 同步探测所有节点
//
// 返回时所有状态变化都已写入注册表。
func (m *Monitor) PollOnce(ctx context.Context) error {
	nodes := m.reg.Snapshot()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.cfg.MaxConcurrentProbes)
	for _, n := range nodes {
		n := n
		g.Go(func() error {
			if m.limiter != nil {
				if err := m.limiter.Wait(gctx); err != nil {
					return err
				}
			}
			m.probe(gctx, n)
			return nil
		})
	}
	err := g.Wait()

	alive := 0
	for _, n := range m.reg.Snapshot() {
		if n.Alive {
			alive++
		}
	}
	m.metrics.SetNodesAlive(alive)
	return err
}

// CheckNow 立即探测单个节点并返回其是否健康
func (m *Monitor) CheckNow(ctx context.Context, id types.NodeID) (bool, error) {
	n, err := m.reg.Get(id)
	if err != nil {
		return false, err
	}
	return m.probe(ctx, n), nil
}

func (m *Monitor) probe(ctx context.Context, n types.NodeInfo) bool {
	pctx, cancel := context.WithTimeout(ctx, m.cfg.ProbeTimeout)
	defer cancel()

	rtt, err := m.prober.Health(pctx, n)
	if err != nil {
		m.metrics.ProbeResult(false)
		if ctx.Err() == nil {
			m.recordFailure(n, err)
		}
		return false
	}
	m.metrics.ProbeResult(true)
	m.recordSuccess(n, rtt)

	if m.cfg.CheckMetrics && m.trust != nil {
		m.checkConsistency(pctx, n, rtt)
	}
	return true
}

func (m *Monitor) recordSuccess(n types.NodeInfo, rtt time.Duration) {
	m.mu.Lock()
	delete(m.failures, n.ID)
	m.mu.Unlock()

	if rtt > 0 {
		if err := m.reg.ObserveLatency(n.ID, rtt); err != nil {
			return
		}
	}
	m.markAlive(n.ID, rtt)
}

func (m *Monitor) recordFailure(n types.NodeInfo, cause error) {
	m.mu.Lock()
	m.failures[n.ID]++
	count := m.failures[n.ID]
	m.mu.Unlock()

	log.Debug("探测失败", "node", n.ID, "failures", count, "err", cause)
	if count < m.cfg.FailureThreshold {
		return
	}
	m.markDead(n.ID, count, cause)
}

// MarkDead 不经探测直接判定节点失效，自愈与回调与探测失效相同
func (m *Monitor) MarkDead(id types.NodeID) error {
	if !m.reg.Exists(id) {
		return fmt.Errorf("%w: %s", types.ErrNodeNotFound, id)
	}
	m.markDead(id, 0, errManual)
	return nil
}

// MarkAlive 不经探测直接判定节点恢复
func (m *Monitor) MarkAlive(id types.NodeID) error {
	if !m.reg.Exists(id) {
		return fmt.Errorf("%w: %s", types.ErrNodeNotFound, id)
	}
	m.mu.Lock()
	delete(m.failures, id)
	m.mu.Unlock()
	m.markAlive(id, 0)
	return nil
}

func (m *Monitor) markAlive(id types.NodeID, rtt time.Duration) {
	changed, err := m.reg.SetAlive(id, true)
	if err != nil || !changed {
		return
	}

	log.Info("节点恢复", "node", id, "rtt", rtt)
	if m.cfg.RelinkOnRecovery && m.reg.Degree(id) == 0 {
		if _, err := m.reg.Relink(id, 0); err != nil {
			log.Warn("重新连接失败", "node", id, "err", err)
		}
	}
	m.notify(id, true)
}

func (m *Monitor) markDead(id types.NodeID, failures int, cause error) {
	changed, err := m.reg.SetAlive(id, false)
	if err != nil || !changed {
		return
	}

	log.Warn("节点失效", "node", id, "failures", failures, "err", cause)
	if m.cfg.HealOnDeath {
		if added, err := m.reg.ApplyTopologyHeal(id); err == nil {
			m.metrics.HealApplied()
			log.Debug("失效节点拓扑自愈", "node", id, "added", added)
		}
	}
	m.notify(id, false)
}

// checkConsistency 比较节点自报延迟与观测 RTT
func (m *Monitor) checkConsistency(ctx context.Context, n types.NodeInfo, rtt time.Duration) {
	report, err := m.prober.Metrics(ctx, n)
	if err != nil {
		log.Debug("获取节点指标失败", "node", n.ID, "err", err)
		return
	}

	diff := report.Latency() - rtt
	if diff < 0 {
		diff = -diff
	}
	agree := report.Alive && diff <= m.cfg.ConsistencyTolerance
	if _, err := m.trust.OnConsistency(n.ID, agree); err != nil {
		log.Debug("一致性信任更新失败", "node", n.ID, "err", err)
	}
}
