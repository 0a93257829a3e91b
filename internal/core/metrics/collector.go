package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector 指标集合
type Collector struct {
	routesTotal     *prometheus.CounterVec
	routeHops       *prometheus.HistogramVec
	forwardFailures *prometheus.CounterVec
	probesTotal     *prometheus.CounterVec
	nodesAlive      prometheus.Gauge
	trustUpdates    *prometheus.CounterVec
	cacheLookups    *prometheus.CounterVec
	heals           prometheus.Counter
}

// NewCollector 在 reg 上创建并注册所有指标
func NewCollector(reg prometheus.Registerer, namespace string) *Collector {
	f := promauto.With(reg)
	return &Collector{
		routesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "routes_total",
			Help:      "Routes completed, by scoring mode and outcome.",
		}, []string{"mode", "outcome"}),
		routeHops: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "route_hops",
			Help:      "Successful forwards per route.",
			Buckets:   prometheus.LinearBuckets(0, 2, 10),
		}, []string{"mode"}),
		forwardFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "forward_failures_total",
			Help:      "Failed hop forwards, by node.",
		}, []string{"node"}),
		probesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "health_probes_total",
			Help:      "Health probes, by result.",
		}, []string{"result"}),
		nodesAlive: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "nodes_alive",
			Help:      "Nodes currently marked alive.",
		}),
		trustUpdates: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trust_updates_total",
			Help:      "Trust updates, by event.",
		}, []string{"event"}),
		cacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "route_cache_lookups_total",
			Help:      "Route memory lookups, by result.",
		}, []string{"result"}),
		heals: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "topology_heals_total",
			Help:      "Topology heals applied after node death.",
		}),
	}
}

// ObserveRoute 记录一次路由结果
func (c *Collector) ObserveRoute(mode, outcome string, hops int) {
	if c == nil {
		return
	}
	c.routesTotal.WithLabelValues(mode, outcome).Inc()
	c.routeHops.WithLabelValues(mode).Observe(float64(hops))
}

// ForwardFailed 记录一次转发失败
func (c *Collector) ForwardFailed(node string) {
	if c == nil {
		return
	}
	c.forwardFailures.WithLabelValues(node).Inc()
}

// ProbeResult 记录一次健康探测
func (c *Collector) ProbeResult(ok bool) {
	if c == nil {
		return
	}
	result := "success"
	if !ok {
		result = "failure"
	}
	c.probesTotal.WithLabelValues(result).Inc()
}

// SetNodesAlive 设置存活节点数
func (c *Collector) SetNodesAlive(n int) {
	if c == nil {
		return
	}
	c.nodesAlive.Set(float64(n))
}

// TrustUpdated 记录一次信任更新
func (c *Collector) TrustUpdated(event string) {
	if c == nil {
		return
	}
	c.trustUpdates.WithLabelValues(event).Inc()
}

// CacheLookup 记录一次路由记忆查询
func (c *Collector) CacheLookup(hit bool) {
	if c == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	c.cacheLookups.WithLabelValues(result).Inc()
}

// HealApplied 记录一次拓扑自愈
func (c *Collector) HealApplied() {
	if c == nil {
		return
	}
	c.heals.Inc()
}
