package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/dep2p/go-vecroute/config"
)

// TestCollector_NilSafe 测试 nil Collector 的方法不 panic
func TestCollector_NilSafe(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.ObserveRoute("role", "terminal", 3)
		c.ForwardFailed("N001")
		c.ProbeResult(false)
		c.SetNodesAlive(3)
		c.TrustUpdated("success")
		c.CacheLookup(true)
		c.HealApplied()
	})
}

// TestCollector_Counts 测试计数
func TestCollector_Counts(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg, "test")

	c.ObserveRoute("role", "terminal", 2)
	c.ObserveRoute("role", "terminal", 4)
	c.ForwardFailed("N001")
	c.SetNodesAlive(7)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.routesTotal.WithLabelValues("role", "terminal")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.forwardFailures.WithLabelValues("N001")))
	assert.Equal(t, 7.0, testutil.ToFloat64(c.nodesAlive))

	n, err := testutil.GatherAndCount(reg, "test_route_hops")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

// TestModule 测试 Fx 模块
func TestModule(t *testing.T) {
	var c *Collector
	app := fxtest.New(t,
		fx.Supply(config.NewConfig()),
		Module(),
		fx.Populate(&c),
	)
	app.RequireStart()
	defer app.RequireStop()

	assert.NotNil(t, c)
}

// TestModule_Disabled 测试未启用时提供 nil
func TestModule_Disabled(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Metrics.Enabled = false

	res := ProvideCollector(Params{UnifiedCfg: cfg})
	assert.Nil(t, res.Collector)
	assert.NotNil(t, res.Gatherer)
}
