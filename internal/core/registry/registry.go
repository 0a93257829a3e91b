package registry

import (
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/dep2p/go-vecroute/internal/util/logger"
	"github.com/dep2p/go-vecroute/pkg/types"
)

var log = logger.Logger("registry")

// entry 单个节点的可变状态
type entry struct {
	mu sync.Mutex

	id     types.NodeID
	url    string
	vector types.Vector
	role   types.Role

	load     int
	capacity int
	trust    float64
	latency  time.Duration
	alive    bool
}

// Registry 节点注册表
type Registry struct {
	cfg Config

	mu    sync.RWMutex
	nodes map[types.NodeID]*entry
	adj   map[types.NodeID]map[types.NodeID]struct{}
}

// New 创建注册表
func New(cfg Config) (*Registry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Registry{
		cfg:   cfg,
		nodes: make(map[types.NodeID]*entry),
		adj:   make(map[types.NodeID]map[types.NodeID]struct{}),
	}, nil
}

// Dimension 返回向量维度 D
func (r *Registry) Dimension() int {
	return r.cfg.Dimension
}

// ============================================================================
//                              节点集合
// ============================================================================

// Add 注册节点
func (r *Registry) Add(spec types.NodeSpec) error {
	if spec.ID.IsEmpty() {
		return fmt.Errorf("%w: empty id", types.ErrInvalidNode)
	}
	if len(spec.Vector) != r.cfg.Dimension {
		return fmt.Errorf("%w: node %s has %d, want %d",
			types.ErrDimensionMismatch, spec.ID, len(spec.Vector), r.cfg.Dimension)
	}
	if !spec.Role.IsValid() {
		return fmt.Errorf("%w: node %s", types.ErrInvalidRole, spec.ID)
	}
	if spec.Capacity <= 0 {
		return fmt.Errorf("%w: node %s capacity must be positive", types.ErrInvalidNode, spec.ID)
	}
	if spec.Load < 0 {
		return fmt.Errorf("%w: node %s load must be non-negative", types.ErrInvalidNode, spec.ID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.nodes[spec.ID]; ok {
		return fmt.Errorf("%w: %s", types.ErrNodeExists, spec.ID)
	}
	r.nodes[spec.ID] = &entry{
		id:       spec.ID,
		url:      spec.URL,
		vector:   spec.Vector.Clone(),
		role:     spec.Role,
		load:     spec.Load,
		capacity: spec.Capacity,
		trust:    clampTrust(spec.Trust),
		latency:  spec.Latency,
		alive:    spec.Alive,
	}
	r.adj[spec.ID] = make(map[types.NodeID]struct{})

	log.Debug("注册节点", "node", spec.ID, "role", spec.Role)
	return nil
}

// Remove 删除节点及其所有边
func (r *Registry) Remove(id types.NodeID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.nodes[id]; !ok {
		return fmt.Errorf("%w: %s", types.ErrNodeNotFound, id)
	}
	for n := range r.adj[id] {
		delete(r.adj[n], id)
	}
	delete(r.adj, id)
	delete(r.nodes, id)

	log.Debug("删除节点", "node", id)
	return nil
}

// Len 返回节点数量
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.nodes)
}

// Exists 检查节点是否存在
func (r *Registry) Exists(id types.NodeID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.nodes[id]
	return ok
}

// IDs 返回所有节点 ID（排序）
func (r *Registry) IDs() []types.NodeID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedIDsLocked()
}

// ============================================================================
//                              快照读取
// ============================================================================

// Get 返回节点快照
func (r *Registry) Get(id types.NodeID) (types.NodeInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.nodes[id]
	if !ok {
		return types.NodeInfo{}, fmt.Errorf("%w: %s", types.ErrNodeNotFound, id)
	}
	return r.infoLocked(e), nil
}

// Snapshot 返回所有节点快照（按 ID 排序）
func (r *Registry) Snapshot() []types.NodeInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.sortedIDsLocked()
	out := make([]types.NodeInfo, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.infoLocked(r.nodes[id]))
	}
	return out
}

// Members 返回指定角色的所有节点（包括已失效节点，按 ID 排序）
func (r *Registry) Members(role types.Role) []types.NodeInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []types.NodeInfo
	for _, id := range r.sortedIDsLocked() {
		e := r.nodes[id]
		if e.role == role {
			out = append(out, r.infoLocked(e))
		}
	}
	return out
}

// NeighborIDs 返回邻居 ID（排序）
func (r *Registry) NeighborIDs(id types.NodeID) ([]types.NodeID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.nodes[id]; !ok {
		return nil, fmt.Errorf("%w: %s", types.ErrNodeNotFound, id)
	}
	return r.neighborsLocked(id), nil
}

// NeighborsOf 返回邻居快照（包括已失效节点）
func (r *Registry) NeighborsOf(id types.NodeID) ([]types.NodeInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.nodes[id]; !ok {
		return nil, fmt.Errorf("%w: %s", types.ErrNodeNotFound, id)
	}
	ids := r.neighborsLocked(id)
	out := make([]types.NodeInfo, 0, len(ids))
	for _, n := range ids {
		out = append(out, r.infoLocked(r.nodes[n]))
	}
	return out, nil
}

// infoLocked 在节点锁内复制快照，调用方持有注册表读锁
func (r *Registry) infoLocked(e *entry) types.NodeInfo {
	neighbors := r.neighborsLocked(e.id)

	e.mu.Lock()
	defer e.mu.Unlock()
	return types.NodeInfo{
		ID:        e.id,
		URL:       e.url,
		Vector:    e.vector.Clone(),
		Role:      e.role,
		Load:      e.load,
		Capacity:  e.capacity,
		Trust:     e.trust,
		Latency:   e.latency,
		Alive:     e.alive,
		Neighbors: neighbors,
	}
}

func (r *Registry) neighborsLocked(id types.NodeID) []types.NodeID {
	set := r.adj[id]
	out := make([]types.NodeID, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (r *Registry) sortedIDsLocked() []types.NodeID {
	out := make([]types.NodeID, 0, len(r.nodes))
	for id := range r.nodes {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ============================================================================
//                              单节点修改
// ============================================================================

// withEntry 在节点锁内执行 fn
func (r *Registry) withEntry(id types.NodeID, fn func(e *entry)) error {
	r.mu.RLock()
	e, ok := r.nodes[id]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", types.ErrNodeNotFound, id)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e)
	return nil
}

// SetAlive 设置存活状态，返回状态是否发生变化
func (r *Registry) SetAlive(id types.NodeID, alive bool) (bool, error) {
	var changed bool
	err := r.withEntry(id, func(e *entry) {
		changed = e.alive != alive
		e.alive = alive
	})
	return changed, err
}

// TryAcquire 原子地检查 load < capacity 并占用一个容量单位
//
// 节点已失效或已满时返回 false。
func (r *Registry) TryAcquire(id types.NodeID) (bool, error) {
	var ok bool
	err := r.withEntry(id, func(e *entry) {
		if e.alive && e.load < e.capacity {
			e.load++
			ok = true
		}
	})
	return ok, err
}

// Release 释放一个容量单位
func (r *Registry) Release(id types.NodeID) error {
	return r.withEntry(id, func(e *entry) {
		if e.load > 0 {
			e.load--
		}
	})
}

// SetLoad 直接设置负载（模拟与测试使用）
func (r *Registry) SetLoad(id types.NodeID, load int) error {
	if load < 0 {
		return fmt.Errorf("%w: load must be non-negative", types.ErrInvalidNode)
	}
	return r.withEntry(id, func(e *entry) { e.load = load })
}

// SetCapacity 设置容量
func (r *Registry) SetCapacity(id types.NodeID, capacity int) error {
	if capacity <= 0 {
		return fmt.Errorf("%w: capacity must be positive", types.ErrInvalidNode)
	}
	return r.withEntry(id, func(e *entry) { e.capacity = capacity })
}

// ObserveLatency 将一次观测折算进延迟 EWMA
//
// 首次观测直接采用观测值。
func (r *Registry) ObserveLatency(id types.NodeID, observed time.Duration) error {
	alpha := r.cfg.LatencyAlpha
	return r.withEntry(id, func(e *entry) {
		if e.latency <= 0 {
			e.latency = observed
			return
		}
		e.latency = time.Duration(alpha*float64(observed) + (1-alpha)*float64(e.latency))
	})
}

// UpdateTrust 在节点锁内对信任值应用 fn，结果截断到 [0, 1]
func (r *Registry) UpdateTrust(id types.NodeID, fn func(current float64) float64) (float64, error) {
	var updated float64
	err := r.withEntry(id, func(e *entry) {
		e.trust = clampTrust(fn(e.trust))
		updated = e.trust
	})
	return updated, err
}

// SetTrust 设置信任值
func (r *Registry) SetTrust(id types.NodeID, trust float64) error {
	return r.withEntry(id, func(e *entry) { e.trust = clampTrust(trust) })
}

func clampTrust(t float64) float64 {
	if math.IsNaN(t) {
		return 0
	}
	return math.Max(0, math.Min(1, t))
}
