package registry

import (
	"fmt"
	"math"
	"sort"

	"go.uber.org/multierr"

	"github.com/dep2p/go-vecroute/internal/core/vecspace"
	"github.com/dep2p/go-vecroute/pkg/types"
)

// Diagnostics 拓扑诊断信息
type Diagnostics struct {
	Nodes      int     `json:"nodes"`
	Alive      int     `json:"alive"`
	Edges      int     `json:"edges"`
	AvgDegree  float64 `json:"avg_degree"`
	Clustering float64 `json:"clustering"`
	Components int     `json:"components"`
	Isolated   int     `json:"isolated"`
}

// Validate 检查拓扑健康状况
//
// 检查项：邻接对称、存活节点之间连通、无孤立存活节点。
// 所有问题合并为一个错误返回。
func (r *Registry) Validate() error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var err error
	for a, set := range r.adj {
		for b := range set {
			if _, ok := r.adj[b][a]; !ok {
				err = multierr.Append(err, fmt.Errorf("%w: %s -> %s", ErrAsymmetric, a, b))
			}
		}
	}

	alive := make(map[types.NodeID]bool, len(r.nodes))
	for id := range r.nodes {
		alive[id] = r.aliveLocked(id)
	}
	for _, id := range r.sortedIDsLocked() {
		if !alive[id] {
			continue
		}
		hasAlive := false
		for n := range r.adj[id] {
			if alive[n] {
				hasAlive = true
				break
			}
		}
		if !hasAlive && len(alive) > 1 {
			err = multierr.Append(err, fmt.Errorf("%w: %s", ErrIsolated, id))
		}
	}

	if comps := r.componentsLocked(func(id types.NodeID) bool { return alive[id] }); len(comps) > 1 {
		err = multierr.Append(err, fmt.Errorf("%w: %d components", ErrNotConnected, len(comps)))
	}
	return err
}

// Diagnostics 返回拓扑诊断信息
func (r *Registry) Diagnostics() Diagnostics {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d := Diagnostics{Nodes: len(r.nodes)}
	degreeSum := 0
	clusteringSum := 0.0
	for id, set := range r.adj {
		if r.aliveLocked(id) {
			d.Alive++
		}
		degreeSum += len(set)
		if len(set) == 0 {
			d.Isolated++
		}
		clusteringSum += r.localClusteringLocked(id)
	}
	d.Edges = degreeSum / 2
	if d.Nodes > 0 {
		d.AvgDegree = float64(degreeSum) / float64(d.Nodes)
		d.Clustering = clusteringSum / float64(d.Nodes)
	}
	d.Components = len(r.componentsLocked(func(types.NodeID) bool { return true }))
	return d
}

// localClusteringLocked 局部聚类系数：邻居之间实际边数 / 可能边数
func (r *Registry) localClusteringLocked(id types.NodeID) float64 {
	neighbors := r.neighborsLocked(id)
	k := len(neighbors)
	if k < 2 {
		return 0
	}
	links := 0
	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			if _, ok := r.adj[neighbors[i]][neighbors[j]]; ok {
				links++
			}
		}
	}
	return float64(2*links) / float64(k*(k-1))
}

// componentsLocked 返回 include 为真的节点构成的连通分量（按最小 ID 排序）
func (r *Registry) componentsLocked(include func(types.NodeID) bool) [][]types.NodeID {
	seen := make(map[types.NodeID]bool)
	var comps [][]types.NodeID
	for _, start := range r.sortedIDsLocked() {
		if seen[start] || !include(start) {
			continue
		}
		var comp []types.NodeID
		queue := []types.NodeID{start}
		seen[start] = true
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			comp = append(comp, cur)
			for n := range r.adj[cur] {
				if !seen[n] && include(n) {
					seen[n] = true
					queue = append(queue, n)
				}
			}
		}
		sort.Slice(comp, func(i, j int) bool { return comp[i] < comp[j] })
		comps = append(comps, comp)
	}
	return comps
}

// EnsureConnected 用最短的跨分量边把所有分量并入第一个分量，返回新增边数
func (r *Registry) EnsureConnected() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	added := 0
	for {
		comps := r.componentsLocked(func(types.NodeID) bool { return true })
		if len(comps) <= 1 {
			return added
		}
		main, other := comps[0], comps[1]
		var bestA, bestB types.NodeID
		best := math.Inf(1)
		for _, a := range main {
			for _, b := range other {
				d, _ := vecspace.Euclidean(r.nodes[a].vector, r.nodes[b].vector)
				if d < best {
					best, bestA, bestB = d, a, b
				}
			}
		}
		r.linkLocked(bestA, bestB)
		added++
	}
}
