package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/dep2p/go-vecroute/config"
	"github.com/dep2p/go-vecroute/pkg/interfaces"
	"github.com/dep2p/go-vecroute/pkg/types"
)

// ============================================================================
//                              HTTP
// ============================================================================

func newNodeServer(t *testing.T, failing *atomic.Bool) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/execute", func(w http.ResponseWriter, r *http.Request) {
		if failing != nil && failing.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		var req types.ExecuteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"echo": req.RequestID, "hop": req.Hop})
	})
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(types.NodeReport{Load: 2, Capacity: 5, LatencyMS: 12.5, Alive: true})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// TestHTTPTransport_Execute 测试 POST /execute
func TestHTTPTransport_Execute(t *testing.T) {
	srv := newNodeServer(t, nil)
	tr := NewHTTPTransport(DefaultConfig(), srv.Client(), nil)
	node := types.NodeInfo{ID: "N000", URL: srv.URL + "/"}

	res, err := tr.Execute(context.Background(), node, types.ExecuteRequest{RequestID: "r-1", Role: "auth", Hop: 2})
	require.NoError(t, err)
	assert.Equal(t, types.NodeID("N000"), res.NodeID)

	var body map[string]any
	require.NoError(t, json.Unmarshal(res.Body, &body))
	assert.Equal(t, "r-1", body["echo"])
	assert.EqualValues(t, 2, body["hop"])
}

// TestHTTPTransport_HealthAndMetrics 测试探测端点
func TestHTTPTransport_HealthAndMetrics(t *testing.T) {
	srv := newNodeServer(t, nil)
	tr := NewHTTPTransport(DefaultConfig(), srv.Client(), nil)
	node := types.NodeInfo{ID: "N001", URL: srv.URL}

	rtt, err := tr.Health(context.Background(), node)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, rtt, time.Duration(0))

	report, err := tr.Metrics(context.Background(), node)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Load)
	assert.Equal(t, 5, report.Capacity)
	assert.Equal(t, 12500*time.Microsecond, report.Latency())
}

// TestHTTPTransport_NoURL 测试未配置 URL
func TestHTTPTransport_NoURL(t *testing.T) {
	tr := NewHTTPTransport(DefaultConfig(), nil, nil)
	_, err := tr.Health(context.Background(), types.NodeInfo{ID: "x"})
	assert.ErrorIs(t, err, ErrNoURL)
}

// TestHTTPTransport_BadStatus 测试非 2xx 响应
func TestHTTPTransport_BadStatus(t *testing.T) {
	var failing atomic.Bool
	failing.Store(true)
	srv := newNodeServer(t, &failing)

	cfg := DefaultConfig()
	cfg.Breaker.Enabled = false
	tr := NewHTTPTransport(cfg, srv.Client(), nil)

	_, err := tr.Execute(context.Background(), types.NodeInfo{ID: "N002", URL: srv.URL}, types.ExecuteRequest{})
	assert.ErrorIs(t, err, ErrBadStatus)
}

// TestHTTPTransport_Breaker 测试连续失败后熔断
func TestHTTPTransport_Breaker(t *testing.T) {
	var failing atomic.Bool
	failing.Store(true)
	srv := newNodeServer(t, &failing)

	cfg := DefaultConfig()
	cfg.Breaker.ConsecutiveFailures = 3
	cfg.Breaker.OpenTimeout = time.Hour
	tr := NewHTTPTransport(cfg, srv.Client(), nil)
	node := types.NodeInfo{ID: "N003", URL: srv.URL}

	for i := 0; i < 3; i++ {
		_, err := tr.Execute(context.Background(), node, types.ExecuteRequest{})
		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrNodeUnreachable)
		assert.ErrorIs(t, err, ErrBadStatus)
	}
	assert.Equal(t, gobreaker.StateOpen, tr.BreakerState(node.ID))

	// 熔断期间即使节点恢复也直接失败
	failing.Store(false)
	_, err := tr.Execute(context.Background(), node, types.ExecuteRequest{})
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)

	// 探测不经过熔断器，节点恢复立即可见
	_, err = tr.Health(context.Background(), node)
	assert.NoError(t, err)
	assert.Equal(t, gobreaker.StateOpen, tr.BreakerState(node.ID))

	// 其他节点不受影响
	assert.Equal(t, gobreaker.StateClosed, tr.BreakerState("other"))
}

// TestHTTPTransport_BreakerIgnoresCancel 测试调用方取消不计入熔断
func TestHTTPTransport_BreakerIgnoresCancel(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/execute", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	cfg := DefaultConfig()
	cfg.Breaker.ConsecutiveFailures = 1
	cfg.Breaker.OpenTimeout = time.Hour
	tr := NewHTTPTransport(cfg, srv.Client(), nil)
	node := types.NodeInfo{ID: "N004", URL: srv.URL}

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)
	_, err := tr.Execute(ctx, node, types.ExecuteRequest{})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, gobreaker.StateClosed, tr.BreakerState(node.ID))

	// 已取消的请求不发出
	_, err = tr.Execute(ctx, node, types.ExecuteRequest{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, gobreaker.StateClosed, tr.BreakerState(node.ID))
}

// ============================================================================
//                              模拟
// ============================================================================

// TestSimTransport_Behaviors 测试模拟传输的注入行为
func TestSimTransport_Behaviors(t *testing.T) {
	s := NewSimTransport()
	ctx := context.Background()
	a := types.NodeInfo{ID: "a", Load: 1, Capacity: 4}

	rtt, err := s.Health(ctx, a)
	require.NoError(t, err)
	assert.Zero(t, rtt)

	s.SetLatency("a", 30*time.Millisecond)
	res, err := s.Execute(ctx, a, types.ExecuteRequest{RequestID: "r", Hop: 1})
	require.NoError(t, err)
	assert.Equal(t, 30*time.Millisecond, res.Latency)
	assert.True(t, json.Valid(res.Body))

	s.FailNext("a", 2)
	_, err = s.Execute(ctx, a, types.ExecuteRequest{})
	assert.ErrorIs(t, err, ErrInjected)
	_, err = s.Execute(ctx, a, types.ExecuteRequest{})
	assert.ErrorIs(t, err, ErrInjected)
	_, err = s.Execute(ctx, a, types.ExecuteRequest{})
	assert.NoError(t, err)

	s.SetDown("a", true)
	_, err = s.Health(ctx, a)
	assert.ErrorIs(t, err, types.ErrNodeUnreachable)

	assert.Equal(t, 6, s.Calls("a"))
	assert.Zero(t, s.Calls("b"))
}

// TestSimTransport_Metrics 测试自报状态
func TestSimTransport_Metrics(t *testing.T) {
	s := NewSimTransport()
	node := types.NodeInfo{ID: "a", Load: 1, Capacity: 4}

	report, err := s.Metrics(context.Background(), node)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Load)
	assert.True(t, report.Alive)

	s.SetReport("a", types.NodeReport{Load: 3, Capacity: 4, LatencyMS: 900, Alive: true})
	report, err = s.Metrics(context.Background(), node)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Load)
	assert.Equal(t, 900*time.Millisecond, report.Latency())
}

// TestSimTransport_DelayHonorsContext 测试阻塞调用遵守超时
func TestSimTransport_DelayHonorsContext(t *testing.T) {
	s := NewSimTransport()
	s.SetDelay("slow", time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := s.Execute(ctx, types.NodeInfo{ID: "slow"}, types.ExecuteRequest{})
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

// ============================================================================
//                              Fx 模块
// ============================================================================

// TestModule_SelectsKind 测试按配置选择实现
func TestModule_SelectsKind(t *testing.T) {
	for kind, want := range map[string]any{"sim": &SimTransport{}, "http": &HTTPTransport{}} {
		cfg := config.NewConfig()
		cfg.Transport.Kind = kind

		var got interfaces.Transport
		app := fxtest.New(t,
			fx.NopLogger,
			fx.Supply(cfg),
			Module(),
			fx.Populate(&got),
		)
		app.RequireStart()
		assert.IsType(t, want, got, kind)
		app.RequireStop()
	}
}

// TestProvideTransport_UnknownKind 测试未知传输类型
func TestProvideTransport_UnknownKind(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Transport.Kind = "carrier-pigeon"
	_, err := ProvideTransport(ModuleInput{UnifiedCfg: cfg})
	assert.Error(t, err)
}
