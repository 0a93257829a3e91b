package registry

import (
	"fmt"
	"sort"

	"github.com/dep2p/go-vecroute/internal/core/vecspace"
	"github.com/dep2p/go-vecroute/pkg/types"
)

// ============================================================================
//                              边操作
// ============================================================================

// Connect 建立无向边
func (r *Registry) Connect(a, b types.NodeID) error {
	if a == b {
		return ErrSelfLink
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.requireLocked(a, b); err != nil {
		return err
	}
	r.linkLocked(a, b)
	return nil
}

// Disconnect 删除无向边
func (r *Registry) Disconnect(a, b types.NodeID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.requireLocked(a, b); err != nil {
		return err
	}
	delete(r.adj[a], b)
	delete(r.adj[b], a)
	return nil
}

// Degree 返回节点度数
func (r *Registry) Degree(id types.NodeID) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.adj[id])
}

func (r *Registry) requireLocked(ids ...types.NodeID) error {
	for _, id := range ids {
		if _, ok := r.nodes[id]; !ok {
			return fmt.Errorf("%w: %s", types.ErrNodeNotFound, id)
		}
	}
	return nil
}

func (r *Registry) linkLocked(a, b types.NodeID) bool {
	if a == b {
		return false
	}
	if _, ok := r.adj[a][b]; ok {
		return false
	}
	r.adj[a][b] = struct{}{}
	r.adj[b][a] = struct{}{}
	return true
}

// ============================================================================
//                              自愈
// ============================================================================

// ApplyTopologyHeal 移除失效节点的所有边，并在其存活前邻居之间补边
//
// 每个存活前邻居连接到至多 HealLinks 个最近的、尚未相连的存活前邻居。
// 返回新增的补偿边数量。
func (r *Registry) ApplyTopologyHeal(failed types.NodeID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.requireLocked(failed); err != nil {
		return 0, err
	}

	var former []types.NodeID
	for n := range r.adj[failed] {
		delete(r.adj[n], failed)
		if r.aliveLocked(n) {
			former = append(former, n)
		}
	}
	r.adj[failed] = make(map[types.NodeID]struct{})
	sort.Slice(former, func(i, j int) bool { return former[i] < former[j] })

	added := 0
	for _, n := range former {
		others := make([]types.NodeID, 0, len(former)-1)
		for _, o := range former {
			if o != n {
				others = append(others, o)
			}
		}
		for _, o := range r.nearestLocked(n, others, r.cfg.HealLinks) {
			if r.linkLocked(n, o) {
				added++
			}
		}
	}

	log.Info("拓扑自愈", "failed", failed, "former", len(former), "added", added)
	return added, nil
}

// Relink 将节点连接到 k 个最近的存活节点
//
// k 非正时使用 RelinkLinks。返回新增边数。
func (r *Registry) Relink(id types.NodeID, k int) (int, error) {
	if k <= 0 {
		k = r.cfg.RelinkLinks
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.requireLocked(id); err != nil {
		return 0, err
	}

	var candidates []types.NodeID
	for other := range r.nodes {
		if other != id && r.aliveLocked(other) {
			candidates = append(candidates, other)
		}
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i] < candidates[j] })

	added := 0
	for _, o := range r.nearestLocked(id, candidates, k) {
		if r.linkLocked(id, o) {
			added++
		}
	}
	log.Debug("重新连接节点", "node", id, "added", added)
	return added, nil
}

func (r *Registry) aliveLocked(id types.NodeID) bool {
	e := r.nodes[id]
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.alive
}

// nearestLocked 返回 candidates 中距 from 最近的 k 个（距离相同按 ID）
//
// 向量在注册时已校验维度，距离计算不会失败。
func (r *Registry) nearestLocked(from types.NodeID, candidates []types.NodeID, k int) []types.NodeID {
	if k <= 0 || len(candidates) == 0 {
		return nil
	}
	origin := r.nodes[from].vector

	type ranked struct {
		id   types.NodeID
		dist float64
	}
	rs := make([]ranked, 0, len(candidates))
	for _, c := range candidates {
		d, _ := vecspace.Euclidean(origin, r.nodes[c].vector)
		rs = append(rs, ranked{id: c, dist: d})
	}
	sort.SliceStable(rs, func(i, j int) bool {
		if rs[i].dist != rs[j].dist {
			return rs[i].dist < rs[j].dist
		}
		return rs[i].id < rs[j].id
	})

	if k > len(rs) {
		k = len(rs)
	}
	out := make([]types.NodeID, k)
	for i := 0; i < k; i++ {
		out[i] = rs[i].id
	}
	return out
}

// ============================================================================
//                              拓扑构建
// ============================================================================

// BuildKNN 为每个节点连接 k 个最近节点（对称），返回新增边数
func (r *Registry) BuildKNN(k int) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := r.sortedIDsLocked()
	added := 0
	for _, id := range ids {
		others := make([]types.NodeID, 0, len(ids)-1)
		for _, o := range ids {
			if o != id {
				others = append(others, o)
			}
		}
		for _, o := range r.nearestLocked(id, others, k) {
			if r.linkLocked(id, o) {
				added++
			}
		}
	}
	log.Debug("构建 KNN 拓扑", "nodes", len(ids), "k", k, "edges", added)
	return added
}

// BuildChain 按顺序将节点连成链
func (r *Registry) BuildChain(ids []types.NodeID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.requireLocked(ids...); err != nil {
		return err
	}
	for i := 1; i < len(ids); i++ {
		r.linkLocked(ids[i-1], ids[i])
	}
	return nil
}

// Edge 无向边
type Edge struct {
	Source types.NodeID `json:"source"`
	Target types.NodeID `json:"target"`
}

// Edges 返回去重后的无向边（Source < Target，排序）
func (r *Registry) Edges() []Edge {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.edgesLocked()
}

func (r *Registry) edgesLocked() []Edge {
	var out []Edge
	for _, a := range r.sortedIDsLocked() {
		for _, b := range r.neighborsLocked(a) {
			if a < b {
				out = append(out, Edge{Source: a, Target: b})
			}
		}
	}
	return out
}
