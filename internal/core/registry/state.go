package registry

import (
	"time"

	"github.com/dep2p/go-vecroute/internal/core/vecspace"
	"github.com/dep2p/go-vecroute/pkg/types"
)

// NodeState network-state 查询中的单个节点
type NodeState struct {
	ID        types.NodeID   `json:"id"`
	URL       string         `json:"url,omitempty"`
	Vector    types.Vector   `json:"vector"`
	Role      types.Role     `json:"role"`
	Load      int            `json:"load"`
	Capacity  int            `json:"capacity"`
	Trust     float64        `json:"trust"`
	LatencyMS float64        `json:"latency"`
	Alive     bool           `json:"alive"`
	Neighbors []types.NodeID `json:"neighbors"`
	X         float64        `json:"x"`
	Y         float64        `json:"y"`
	Cluster   int            `json:"cluster"`
}

// NetworkState network-state 查询结果
type NetworkState struct {
	Nodes []NodeState `json:"nodes"`
	Edges []Edge      `json:"edges"`
}

// NetworkState 返回当前网络状态
//
// 节点按 ID 排序、邻居排序，无修改时两次调用结果相同。
func (r *Registry) NetworkState() NetworkState {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.sortedIDsLocked()
	state := NetworkState{
		Nodes: make([]NodeState, 0, len(ids)),
		Edges: r.edgesLocked(),
	}
	if state.Edges == nil {
		state.Edges = []Edge{}
	}
	for _, id := range ids {
		state.Nodes = append(state.Nodes, stateOf(r.infoLocked(r.nodes[id])))
	}
	return state
}

func stateOf(n types.NodeInfo) NodeState {
	x, y := vecspace.Project2D(n.Vector)
	return NodeState{
		ID:        n.ID,
		URL:       n.URL,
		Vector:    n.Vector,
		Role:      n.Role,
		Load:      n.Load,
		Capacity:  n.Capacity,
		Trust:     n.Trust,
		LatencyMS: float64(n.Latency.Microseconds()) / 1000,
		Alive:     n.Alive,
		Neighbors: n.Neighbors,
		X:         x,
		Y:         y,
		Cluster:   n.Role.Index(),
	}
}

// Restore 用网络状态替换注册表全部内容
//
// 先校验所有节点，任一无效则注册表保持不变。负载是进行中的转发，
// 其对应的释放不会在恢复后发生，因此所有节点负载恢复为 0。
func (r *Registry) Restore(state NetworkState) error {
	fresh, err := New(r.cfg)
	if err != nil {
		return err
	}
	for _, n := range state.Nodes {
		if err := fresh.Add(types.NodeSpec{
			ID:       n.ID,
			URL:      n.URL,
			Vector:   n.Vector,
			Role:     n.Role,
			Capacity: n.Capacity,
			Trust:    n.Trust,
			Latency:  time.Duration(n.LatencyMS * float64(time.Millisecond)),
			Alive:    n.Alive,
		}); err != nil {
			return err
		}
	}
	for _, e := range state.Edges {
		if err := fresh.Connect(e.Source, e.Target); err != nil {
			return err
		}
	}

	r.mu.Lock()
	r.nodes = fresh.nodes
	r.adj = fresh.adj
	r.mu.Unlock()

	log.Info("恢复网络状态", "nodes", len(state.Nodes), "edges", len(state.Edges))
	return nil
}
