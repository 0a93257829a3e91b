package transport

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dep2p/go-vecroute/pkg/interfaces"
	"github.com/dep2p/go-vecroute/pkg/types"
)

// simNode 模拟节点的行为
type simNode struct {
	down     bool
	latency  time.Duration
	delay    time.Duration
	failNext int
	report   *types.NodeReport
	calls    int
}

// SimTransport 内存模拟传输
//
// 未注册行为的节点视为在线、零延迟。
// latency 只作为上报的 RTT，delay 才会真正阻塞调用。
type SimTransport struct {
	mu    sync.Mutex
	nodes map[types.NodeID]*simNode
}

var _ interfaces.Transport = (*SimTransport)(nil)

// NewSimTransport 创建模拟传输
func NewSimTransport() *SimTransport {
	return &SimTransport{nodes: make(map[types.NodeID]*simNode)}
}

func (s *SimTransport) node(id types.NodeID) *simNode {
	n, ok := s.nodes[id]
	if !ok {
		n = &simNode{}
		s.nodes[id] = n
	}
	return n
}

// SetDown 设置节点宕机
func (s *SimTransport) SetDown(id types.NodeID, down bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.node(id).down = down
}

// SetLatency 设置节点上报的 RTT
func (s *SimTransport) SetLatency(id types.NodeID, latency time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.node(id).latency = latency
}

// SetDelay 设置调用真实阻塞的时长
func (s *SimTransport) SetDelay(id types.NodeID, delay time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.node(id).delay = delay
}

// FailNext 使节点接下来 n 次调用失败
func (s *SimTransport) FailNext(id types.NodeID, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.node(id).failNext = n
}

// SetReport 设置节点 /metrics 的自报内容
func (s *SimTransport) SetReport(id types.NodeID, report types.NodeReport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := report
	s.node(id).report = &r
}

// Calls 返回节点被调用次数
func (s *SimTransport) Calls(id types.NodeID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n, ok := s.nodes[id]; ok {
		return n.calls
	}
	return 0
}

// call 记录一次调用并返回行为参数
func (s *SimTransport) call(ctx context.Context, id types.NodeID) (time.Duration, error) {
	s.mu.Lock()
	n := s.node(id)
	n.calls++
	down := n.down
	failing := n.failNext > 0
	if failing {
		n.failNext--
	}
	latency, delay := n.latency, n.delay
	s.mu.Unlock()

	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-timer.C:
		}
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if down {
		return 0, fmt.Errorf("%w: %s", types.ErrNodeUnreachable, id)
	}
	if failing {
		return 0, fmt.Errorf("%w: %s", ErrInjected, id)
	}
	return latency, nil
}

// Execute 实现 interfaces.Forwarder
func (s *SimTransport) Execute(ctx context.Context, node types.NodeInfo, req types.ExecuteRequest) (types.ExecuteResult, error) {
	latency, err := s.call(ctx, node.ID)
	if err != nil {
		return types.ExecuteResult{}, err
	}
	body := fmt.Sprintf(`{"node":%q,"request_id":%q,"hop":%d}`, node.ID, req.RequestID, req.Hop)
	return types.ExecuteResult{NodeID: node.ID, Latency: latency, Body: []byte(body)}, nil
}

// Health 实现 interfaces.Prober
func (s *SimTransport) Health(ctx context.Context, node types.NodeInfo) (time.Duration, error) {
	return s.call(ctx, node.ID)
}

// Metrics 实现 interfaces.Prober
//
// 未设置自报内容时按观测值如实上报。
func (s *SimTransport) Metrics(ctx context.Context, node types.NodeInfo) (types.NodeReport, error) {
	latency, err := s.call(ctx, node.ID)
	if err != nil {
		return types.NodeReport{}, err
	}

	s.mu.Lock()
	report := s.nodes[node.ID].report
	s.mu.Unlock()
	if report != nil {
		return *report, nil
	}
	return types.NodeReport{
		Load:      node.Load,
		Capacity:  node.Capacity,
		LatencyMS: float64(latency) / float64(time.Millisecond),
		Alive:     true,
	}, nil
}
