package vecroute

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dep2p/go-vecroute/internal/core/registry"
	"github.com/dep2p/go-vecroute/internal/core/routing"
	"github.com/dep2p/go-vecroute/internal/core/transport"
	"github.com/dep2p/go-vecroute/pkg/interfaces"
	"github.com/dep2p/go-vecroute/pkg/types"
)

// ════════════════════════════════════════════════════════════════════════════
//                              类型别名
// ════════════════════════════════════════════════════════════════════════════

type (
	// RouteResult 单次路由的结果与逐跳轨迹
	RouteResult = routing.Result

	// QueryResponse route-query 的结果
	QueryResponse = routing.QueryResponse

	// NetworkState network-state 查询结果
	NetworkState = registry.NetworkState

	// Diagnostics 拓扑诊断
	Diagnostics = registry.Diagnostics

	// SeedOptions 模拟节点生成参数
	SeedOptions = registry.SeedOptions
)

// DefaultSeedOptions 返回默认生成参数
func DefaultSeedOptions() SeedOptions {
	return registry.DefaultSeedOptions()
}

// ════════════════════════════════════════════════════════════════════════════
//                              路由
// ════════════════════════════════════════════════════════════════════════════

// Route 从 origin 路由一个请求
//
// 终止与 section 失效都以 Result.Outcome 报告；只有卡住（跳数耗尽、
// 面路由回到起点）或上下文取消时才返回错误，此时 Result 仍带有已走过的路径。
func (m *Mesh) Route(ctx context.Context, origin types.NodeID, req types.Request) (*RouteResult, error) {
	if err := m.checkOpen(); err != nil {
		return nil, err
	}
	return m.engine.Route(ctx, origin, req)
}

// Query 路由请求并附带仅按距离的对照路径
func (m *Mesh) Query(ctx context.Context, origin types.NodeID, req types.Request) (*QueryResponse, error) {
	if err := m.checkOpen(); err != nil {
		return nil, err
	}
	return m.engine.Query(ctx, origin, req)
}

// Classify 推断请求的目标角色与目标向量
func (m *Mesh) Classify(req types.Request) (types.Role, types.Vector, error) {
	return m.engine.Resolve(req)
}

// ════════════════════════════════════════════════════════════════════════════
//                              节点与拓扑
// ════════════════════════════════════════════════════════════════════════════

// AddNode 注册节点
func (m *Mesh) AddNode(spec types.NodeSpec) error {
	if err := m.checkOpen(); err != nil {
		return err
	}
	return m.reg.Add(spec)
}

// RemoveNode 删除节点及其边
func (m *Mesh) RemoveNode(id types.NodeID) error {
	return m.reg.Remove(id)
}

// Node 返回节点快照
func (m *Mesh) Node(id types.NodeID) (types.NodeInfo, error) {
	return m.reg.Get(id)
}

// Connect 建立无向边
func (m *Mesh) Connect(a, b types.NodeID) error {
	return m.reg.Connect(a, b)
}

// BuildKNN 为每个节点连接 k 个最近节点并保证连通，返回新增边数
func (m *Mesh) BuildKNN(k int) int {
	added := m.reg.BuildKNN(k)
	return added + m.reg.EnsureConnected()
}

// Seed 围绕每个角色中心生成模拟节点
func (m *Mesh) Seed(opts SeedOptions) ([]types.NodeID, error) {
	if err := m.checkOpen(); err != nil {
		return nil, err
	}
	return m.reg.SeedSections(m.centers, opts)
}

// RoleCenter 返回角色的语义中心
func (m *Mesh) RoleCenter(role types.Role) (types.Vector, bool) {
	v, ok := m.centers[role]
	return v.Clone(), ok
}

// NetworkState 返回全部节点与边
func (m *Mesh) NetworkState() NetworkState {
	return m.reg.NetworkState()
}

// Diagnostics 返回拓扑诊断
func (m *Mesh) Diagnostics() Diagnostics {
	return m.reg.Diagnostics()
}

// ValidateTopology 检查邻接对称与存活节点连通性
func (m *Mesh) ValidateTopology() error {
	return m.reg.Validate()
}

// ════════════════════════════════════════════════════════════════════════════
//                              健康与信任
// ════════════════════════════════════════════════════════════════════════════

// Kill 判定节点失效并执行拓扑自愈
//
// 模拟传输下节点同时停止响应，之后的探测不会将其恢复。
func (m *Mesh) Kill(id types.NodeID) error {
	if sim, ok := m.transport.(*transport.SimTransport); ok && m.reg.Exists(id) {
		sim.SetDown(id, true)
	}
	return m.monitor.MarkDead(id)
}

// Revive 恢复节点，无邻居时重新接入拓扑
func (m *Mesh) Revive(id types.NodeID) error {
	if sim, ok := m.transport.(*transport.SimTransport); ok && m.reg.Exists(id) {
		sim.SetDown(id, false)
	}
	return m.monitor.MarkAlive(id)
}

// CheckHealth 立即对所有节点执行一轮探测
func (m *Mesh) CheckHealth(ctx context.Context) error {
	return m.monitor.PollOnce(ctx)
}

// OnStatusChange 注册节点存活状态变化回调
func (m *Mesh) OnStatusChange(fn interfaces.StatusChangeFunc) {
	m.monitor.OnStatusChange(fn)
}

// ResetTrust 将节点信任值设为指定值
func (m *Mesh) ResetTrust(id types.NodeID, value float64) (float64, error) {
	return m.trust.Reset(id, value)
}

// Sim 返回模拟传输，用于注入故障
func (m *Mesh) Sim() (*transport.SimTransport, error) {
	sim, ok := m.transport.(*transport.SimTransport)
	if !ok {
		return nil, ErrNotSimulated
	}
	return sim, nil
}

// ════════════════════════════════════════════════════════════════════════════
//                              快照与指标
// ════════════════════════════════════════════════════════════════════════════

// Snapshot 保存当前网络状态
func (m *Mesh) Snapshot(ctx context.Context, label string) (interfaces.SnapshotMeta, error) {
	return m.snapshots.Take(ctx, label)
}

// Restore 用快照替换当前网络状态
func (m *Mesh) Restore(ctx context.Context, id string) (interfaces.SnapshotMeta, error) {
	meta, err := m.snapshots.Restore(ctx, id)
	if err != nil {
		return meta, err
	}
	if cache := m.engine.Cache(); cache != nil {
		cache.Purge()
	}
	return meta, nil
}

// Snapshots 列出快照（从新到旧）
func (m *Mesh) Snapshots(ctx context.Context) ([]interfaces.SnapshotMeta, error) {
	return m.snapshots.List(ctx)
}

// Gatherer 返回 Prometheus 指标采集器
func (m *Mesh) Gatherer() prometheus.Gatherer {
	return m.gatherer
}
