package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/sony/gobreaker"

	"github.com/dep2p/go-vecroute/internal/util/logger"
	"github.com/dep2p/go-vecroute/pkg/interfaces"
	"github.com/dep2p/go-vecroute/pkg/types"
)

var log = logger.Logger("transport")

// maxBody 响应体读取上限
const maxBody = 1 << 20

// HTTPTransport 基于 HTTP 的节点传输
type HTTPTransport struct {
	cfg    Config
	client *http.Client
	clock  clock.Clock

	mu       sync.Mutex
	breakers map[types.NodeID]*gobreaker.CircuitBreaker
}

var _ interfaces.Transport = (*HTTPTransport)(nil)

// NewHTTPTransport 创建 HTTP 传输
//
// client 为 nil 时按配置创建。
func NewHTTPTransport(cfg Config, client *http.Client, clk clock.Clock) *HTTPTransport {
	if client == nil {
		client = &http.Client{
			Timeout: cfg.RequestTimeout,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}
	if clk == nil {
		clk = clock.New()
	}
	return &HTTPTransport{
		cfg:      cfg,
		client:   client,
		clock:    clk,
		breakers: make(map[types.NodeID]*gobreaker.CircuitBreaker),
	}
}

// Execute 实现 interfaces.Forwarder
func (t *HTTPTransport) Execute(ctx context.Context, node types.NodeInfo, req types.ExecuteRequest) (types.ExecuteResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return types.ExecuteResult{}, err
	}

	start := t.clock.Now()
	resp, err := t.do(ctx, node, http.MethodPost, "/execute", body, true)
	if err != nil {
		return types.ExecuteResult{}, err
	}
	return types.ExecuteResult{
		NodeID:  node.ID,
		Latency: t.clock.Since(start),
		Body:    resp,
	}, nil
}

// Health 实现 interfaces.Prober
func (t *HTTPTransport) Health(ctx context.Context, node types.NodeInfo) (time.Duration, error) {
	start := t.clock.Now()
	if _, err := t.do(ctx, node, http.MethodGet, "/health", nil, false); err != nil {
		return 0, err
	}
	return t.clock.Since(start), nil
}

// Metrics 实现 interfaces.Prober
func (t *HTTPTransport) Metrics(ctx context.Context, node types.NodeInfo) (types.NodeReport, error) {
	body, err := t.do(ctx, node, http.MethodGet, "/metrics", nil, false)
	if err != nil {
		return types.NodeReport{}, err
	}
	var report types.NodeReport
	if err := json.Unmarshal(body, &report); err != nil {
		return types.NodeReport{}, fmt.Errorf("decode metrics from %s: %w", node.ID, err)
	}
	return report, nil
}

// BreakerState 返回节点熔断器状态（未创建时为 closed）
func (t *HTTPTransport) BreakerState(id types.NodeID) gobreaker.State {
	t.mu.Lock()
	defer t.mu.Unlock()
	if cb, ok := t.breakers[id]; ok {
		return cb.State()
	}
	return gobreaker.StateClosed
}

// do 发送请求并返回响应体
//
// 只有转发经过熔断器；探测直接发送，健康监控才能在熔断期间观察到节点恢复。
func (t *HTTPTransport) do(ctx context.Context, node types.NodeInfo, method, path string, body []byte, guarded bool) ([]byte, error) {
	if node.URL == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoURL, node.ID)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	call := func() (interface{}, error) {
		return t.roundTrip(ctx, node, method, path, body)
	}
	if !guarded || !t.cfg.Breaker.Enabled {
		out, err := call()
		if err != nil {
			return nil, err
		}
		return out.([]byte), nil
	}

	out, err := t.breaker(node.ID).Execute(call)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", types.ErrNodeUnreachable, node.ID, err)
	}
	return out.([]byte), nil
}

func (t *HTTPTransport) roundTrip(ctx context.Context, node types.NodeInfo, method, path string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	url := strings.TrimRight(node.URL, "/") + path
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s %s -> %d", ErrBadStatus, method, url, resp.StatusCode)
	}
	return data, nil
}

func (t *HTTPTransport) breaker(id types.NodeID) *gobreaker.CircuitBreaker {
	t.mu.Lock()
	defer t.mu.Unlock()

	if cb, ok := t.breakers[id]; ok {
		return cb
	}
	b := t.cfg.Breaker
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        string(id),
		MaxRequests: b.MaxRequests,
		Interval:    b.Interval,
		Timeout:     b.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= b.ConsecutiveFailures
		},
		// 调用方取消不是节点故障
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Info("熔断器状态变化", "node", name, "from", from.String(), "to", to.String())
		},
	})
	t.breakers[id] = cb
	return cb
}
