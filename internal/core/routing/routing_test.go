package routing

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-vecroute/internal/core/registry"
	"github.com/dep2p/go-vecroute/internal/core/scoring"
	"github.com/dep2p/go-vecroute/internal/core/transport"
	"github.com/dep2p/go-vecroute/internal/core/trust"
	"github.com/dep2p/go-vecroute/pkg/types"
)

// ============================================================================
//                              测试辅助
// ============================================================================

type fixture struct {
	reg    *registry.Registry
	sim    *transport.SimTransport
	trust  *trust.System
	engine *Engine
}

func newRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	cfg := registry.DefaultConfig()
	cfg.Dimension = 2
	reg, err := registry.New(cfg)
	require.NoError(t, err)
	return reg
}

func addNode(t *testing.T, reg *registry.Registry, id types.NodeID, x, y float64, role types.Role, capacity int) {
	t.Helper()
	require.NoError(t, reg.Add(types.NodeSpec{
		ID:       id,
		Vector:   types.Vector{x, y},
		Role:     role,
		Capacity: capacity,
		Trust:    0.5,
		Alive:    true,
	}))
}

func newFixture(t *testing.T, reg *registry.Registry, mode types.ScoringMode, tune func(*Config)) *fixture {
	t.Helper()
	var (
		scorer scoring.Scorer
		err    error
	)
	if mode == types.ModeGeometric {
		scorer, err = scoring.NewGeometricScorer(scoring.DefaultGeometricWeights())
	} else {
		scorer, err = scoring.NewRoleScorer(scoring.DefaultRoleWeights())
	}
	require.NoError(t, err)

	ts, err := trust.New(trust.DefaultConfig(), reg, nil)
	require.NoError(t, err)

	cfg := DefaultConfig()
	if tune != nil {
		tune(&cfg)
	}
	sim := transport.NewSimTransport()
	engine, err := NewEngine(cfg, Deps{Registry: reg, Scorer: scorer, Trust: ts, Forwarder: sim})
	require.NoError(t, err)
	return &fixture{reg: reg, sim: sim, trust: ts, engine: engine}
}

// roleMesh 起点 o（proxy）加两个 auth 节点
func roleMesh(t *testing.T) *fixture {
	reg := newRegistry(t)
	addNode(t, reg, "o", 0, 0, types.RoleProxy, 5)
	addNode(t, reg, "a1", 1, 0, types.RoleAuth, 1)
	addNode(t, reg, "a2", 0.6, 0.8, types.RoleAuth, 1)
	return newFixture(t, reg, types.ModeRole, nil)
}

// chainMesh c0..c4 沿 x 轴成链，只有 c4 属于 storage
func chainMesh(t *testing.T, tune func(*Config)) *fixture {
	reg := newRegistry(t)
	ids := []types.NodeID{"c0", "c1", "c2", "c3", "c4"}
	for i, id := range ids {
		role := types.RoleCompute
		if i == len(ids)-1 {
			role = types.RoleStorage
		}
		addNode(t, reg, id, float64(i)*0.25, 0, role, 2)
	}
	require.NoError(t, reg.BuildChain(ids))
	return newFixture(t, reg, types.ModeGeometric, tune)
}

func authRequest() types.Request {
	return types.Request{Role: types.RoleAuth, Target: types.Vector{1, 0}}
}

func storageRequest() types.Request {
	return types.Request{Role: types.RoleStorage, Target: types.Vector{1, 0}}
}

func assertLoadsZero(t *testing.T, reg *registry.Registry) {
	t.Helper()
	for _, n := range reg.Snapshot() {
		assert.Zero(t, n.Load, "node %s", n.ID)
	}
}

// ============================================================================
//                              SECTION_RESOLVE
// ============================================================================

// TestResolve 测试目标角色与目标向量的确定
func TestResolve(t *testing.T) {
	f := roleMesh(t)

	role, target, err := f.engine.Resolve(types.Request{Text: "please login with a token"})
	require.NoError(t, err)
	assert.Equal(t, types.RoleAuth, role)
	assert.Len(t, target, 2)

	role, _, err = f.engine.Resolve(types.Request{Role: types.RoleVision, Text: "login"})
	require.NoError(t, err)
	assert.Equal(t, types.RoleVision, role, "显式角色优先")

	// 文本无命中时按 section 均值判断
	role, _, err = f.engine.Resolve(types.Request{Target: types.Vector{0.8, 0.4}})
	require.NoError(t, err)
	assert.Equal(t, types.RoleAuth, role)

	_, _, err = f.engine.Resolve(types.Request{})
	assert.ErrorIs(t, err, types.ErrUnknownSection)

	_, _, err = f.engine.Resolve(types.Request{Role: types.Role(99), Target: types.Vector{1, 0}})
	assert.ErrorIs(t, err, types.ErrUnknownSection)

	_, _, err = f.engine.Resolve(types.Request{Role: types.RoleAuth, Target: types.Vector{1, 0, 0}})
	assert.ErrorIs(t, err, types.ErrDimensionMismatch)
}

// TestRoute_UnknownOrigin 测试起点不存在
func TestRoute_UnknownOrigin(t *testing.T) {
	f := roleMesh(t)
	res, err := f.engine.Route(context.Background(), "ghost", authRequest())
	assert.Nil(t, res)
	assert.ErrorIs(t, err, types.ErrNodeNotFound)
}

// ============================================================================
//                              role 模式
// ============================================================================

// TestRoute_RoleMode 测试角色模式一跳到达最相似的成员
func TestRoute_RoleMode(t *testing.T) {
	f := roleMesh(t)

	res, err := f.engine.Route(context.Background(), "o", authRequest())
	require.NoError(t, err)
	assert.True(t, res.Success())
	assert.NoError(t, res.Err())
	assert.Equal(t, []types.NodeID{"o", "a1"}, res.Path)
	assert.Equal(t, 1, res.Forwards)
	assert.NotEmpty(t, res.RequestID)

	require.Len(t, res.Hops, 2)
	assert.Equal(t, types.MethodOrigin, res.Hops[0].Method)
	assert.Equal(t, types.NodeID("a1"), res.Hops[0].ChosenNext)
	assert.Len(t, res.Hops[0].Scores, 2)
	assert.True(t, res.Hops[1].IsTerminal)
	assert.Equal(t, 1, res.Hops[1].Step)
	assert.True(t, json.Valid(res.Response))

	a1, _ := f.reg.Get("a1")
	assert.Greater(t, a1.Trust, 0.5)
	assertLoadsZero(t, f.reg)
}

// TestRoute_OriginAlreadyTerminal 测试起点已满足终止条件
func TestRoute_OriginAlreadyTerminal(t *testing.T) {
	f := roleMesh(t)
	res, err := f.engine.Route(context.Background(), "a2", authRequest())
	require.NoError(t, err)
	assert.True(t, res.Success())
	assert.Equal(t, []types.NodeID{"a2"}, res.Path)
	assert.Zero(t, res.Forwards)
	assert.Zero(t, f.sim.Calls("a1"))
}

// TestRoute_SkipsSaturated 测试已满的最优节点被跳过
func TestRoute_SkipsSaturated(t *testing.T) {
	f := roleMesh(t)
	require.NoError(t, f.reg.SetLoad("a1", 1))

	res, err := f.engine.Route(context.Background(), "o", authRequest())
	require.NoError(t, err)
	assert.Equal(t, []types.NodeID{"o", "a2"}, res.Path)
	assert.Zero(t, f.sim.Calls("a1"))

	for _, s := range res.Hops[0].Scores {
		assert.NotEqual(t, types.NodeID("a1"), s.Neighbor, "已满节点不参与评分")
	}
}

// TestRoute_SectionFailure 测试 section 全部失效
func TestRoute_SectionFailure(t *testing.T) {
	f := roleMesh(t)
	for _, id := range []types.NodeID{"a1", "a2"} {
		_, err := f.reg.SetAlive(id, false)
		require.NoError(t, err)
	}

	res, err := f.engine.Route(context.Background(), "o", authRequest())
	require.NoError(t, err, "section 失效是结果而不是错误")
	assert.True(t, res.SectionFailure())
	assert.Equal(t, []types.NodeID{"o"}, res.Path)
	assert.Empty(t, res.Hops)
	assert.ErrorIs(t, res.Err(), types.ErrSectionFailure)
	assert.Zero(t, f.sim.Calls("a1")+f.sim.Calls("a2"))
}

// TestRoute_SectionFailureGeometric 测试 geometric 模式下 section 失效
func TestRoute_SectionFailureGeometric(t *testing.T) {
	f := chainMesh(t, nil)
	_, err := f.reg.SetAlive("c4", false)
	require.NoError(t, err)

	res, err := f.engine.Route(context.Background(), "c0", storageRequest())
	require.NoError(t, err)
	assert.True(t, res.SectionFailure())
	assert.Equal(t, []types.NodeID{"c0"}, res.Path)
	assert.Empty(t, res.Hops)
	assert.Zero(t, f.sim.Calls("c1"))
}

// TestRoute_SectionFailureMidRoute 测试途中唯一成员转发失败后丢弃已走路径
func TestRoute_SectionFailureMidRoute(t *testing.T) {
	f := chainMesh(t, nil)
	f.sim.FailNext("c4", 1)

	res, err := f.engine.Route(context.Background(), "c0", storageRequest())
	require.NoError(t, err)
	assert.True(t, res.SectionFailure())
	assert.Equal(t, []types.NodeID{"c0"}, res.Path)
	assert.Empty(t, res.Hops)
	assert.Equal(t, 1, f.sim.Calls("c4"))
	assertLoadsZero(t, f.reg)
}

// TestRoute_Failover 测试转发失败后重新选择
func TestRoute_Failover(t *testing.T) {
	f := roleMesh(t)
	f.sim.FailNext("a1", 1)

	res, err := f.engine.Route(context.Background(), "o", authRequest())
	require.NoError(t, err)
	assert.Equal(t, []types.NodeID{"o", "a2"}, res.Path)
	assert.Equal(t, 1, res.Failovers)
	assert.Equal(t, 1, res.Forwards, "失败的尝试不计入跳数")

	a1, _ := f.reg.Get("a1")
	assert.InDelta(t, 0.35, a1.Trust, 1e-9)
	assertLoadsZero(t, f.reg)
}

// TestRoute_FailoverExhaustsSection 测试所有成员转发失败
func TestRoute_FailoverExhaustsSection(t *testing.T) {
	f := roleMesh(t)
	f.sim.SetDown("a1", true)
	f.sim.SetDown("a2", true)

	res, err := f.engine.Route(context.Background(), "o", authRequest())
	require.NoError(t, err)
	assert.True(t, res.SectionFailure())
	assert.Equal(t, 2, res.Failovers)
	assertLoadsZero(t, f.reg)
}

// TestRoute_SlowResponse 测试慢响应降低信任
func TestRoute_SlowResponse(t *testing.T) {
	f := roleMesh(t)
	f.sim.SetLatency("a1", 900*time.Millisecond)

	res, err := f.engine.Route(context.Background(), "o", authRequest())
	require.NoError(t, err)
	assert.Equal(t, types.NodeID("a1"), res.Last())

	a1, _ := f.reg.Get("a1")
	assert.Less(t, a1.Trust, 0.5)
	assert.Equal(t, 900*time.Millisecond, a1.Latency)
}

// TestRoute_Balancer 测试分数相当时分流
func TestRoute_Balancer(t *testing.T) {
	reg := newRegistry(t)
	addNode(t, reg, "o", 0, 0, types.RoleProxy, 5)
	addNode(t, reg, "a1", 0.8, 0.6, types.RoleAuth, 5)
	addNode(t, reg, "a2", 0.8, -0.6, types.RoleAuth, 5)
	f := newFixture(t, reg, types.ModeRole, nil)

	first, err := f.engine.Route(context.Background(), "o", authRequest())
	require.NoError(t, err)
	assert.Equal(t, types.NodeID("a1"), first.Last())

	second, err := f.engine.Route(context.Background(), "o", authRequest())
	require.NoError(t, err)
	assert.Equal(t, types.NodeID("a2"), second.Last())
	assert.Equal(t, types.MethodBalanced, second.Hops[1].Method)
}

// TestRoute_BalancerWithRouteMemory 测试路由记忆命中时仍然分流
func TestRoute_BalancerWithRouteMemory(t *testing.T) {
	reg := newRegistry(t)
	addNode(t, reg, "o", 0, 0, types.RoleProxy, 5)
	addNode(t, reg, "a1", 0.8, 0.6, types.RoleAuth, 5)
	addNode(t, reg, "a2", 0.8, -0.6, types.RoleAuth, 5)
	require.NoError(t, reg.Connect("o", "a1"))
	require.NoError(t, reg.Connect("o", "a2"))
	f := newFixture(t, reg, types.ModeGeometric, nil)
	require.True(t, DefaultConfig().Cache.Enabled)

	var (
		lasts   []types.NodeID
		methods []types.HopMethod
	)
	for i := 0; i < 4; i++ {
		res, err := f.engine.Route(context.Background(), "o", authRequest())
		require.NoError(t, err)
		require.Len(t, res.Hops, 2)
		lasts = append(lasts, res.Last())
		methods = append(methods, res.Hops[1].Method)
	}

	assert.Equal(t, []types.NodeID{"a1", "a2", "a1", "a2"}, lasts)
	assert.Equal(t, types.MethodGreedy, methods[0])
	for _, m := range methods[1:] {
		assert.Equal(t, types.MethodBalanced, m)
	}
}

// TestRoute_Canceled 测试取消
func TestRoute_Canceled(t *testing.T) {
	f := roleMesh(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := f.engine.Route(ctx, "o", authRequest())
	require.NotNil(t, res)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, types.OutcomeStuck, res.Outcome)
}

// TestRoute_ConcurrentLoad 测试并发路由后负载归零
func TestRoute_ConcurrentLoad(t *testing.T) {
	reg := newRegistry(t)
	addNode(t, reg, "o", 0, 0, types.RoleProxy, 100)
	addNode(t, reg, "a1", 1, 0, types.RoleAuth, 2)
	addNode(t, reg, "a2", 0.6, 0.8, types.RoleAuth, 2)
	addNode(t, reg, "a3", 0.6, -0.8, types.RoleAuth, 2)
	f := newFixture(t, reg, types.ModeRole, nil)
	for _, id := range []types.NodeID{"a1", "a2", "a3"} {
		f.sim.SetDelay(id, time.Millisecond)
	}

	const n = 50
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		outcomes = map[types.Outcome]int{}
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := f.engine.Route(context.Background(), "o", authRequest())
			if res == nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			mu.Lock()
			outcomes[res.Outcome]++
			mu.Unlock()
		}()
	}
	wg.Wait()

	total := 0
	for _, c := range outcomes {
		total += c
	}
	assert.Equal(t, n, total)
	assert.Positive(t, outcomes[types.OutcomeTerminal])
	assertLoadsZero(t, f.reg)
}

// ============================================================================
//                              geometric 模式
// ============================================================================

// TestRoute_ChainTerminates 测试 5 节点链在跳数上限内到达
func TestRoute_ChainTerminates(t *testing.T) {
	f := chainMesh(t, func(c *Config) { c.MaxHops = 10 })

	res, err := f.engine.Route(context.Background(), "c0", storageRequest())
	require.NoError(t, err)
	assert.True(t, res.Success())
	assert.Equal(t, []types.NodeID{"c0", "c1", "c2", "c3", "c4"}, res.Path)
	assert.Equal(t, 4, res.Forwards)
	assert.LessOrEqual(t, res.Forwards, 10)

	for i := 1; i < len(res.Hops); i++ {
		assert.Less(t, res.Hops[i].Distance, res.Hops[i-1].Distance, "每跳缩短目标距离")
	}
	assertLoadsZero(t, f.reg)
}

// TestRoute_HopLimit 测试跳数上限
func TestRoute_HopLimit(t *testing.T) {
	f := chainMesh(t, func(c *Config) { c.MaxHops = 2 })

	res, err := f.engine.Route(context.Background(), "c0", storageRequest())
	assert.ErrorIs(t, err, types.ErrHopLimitExceeded)
	require.NotNil(t, res)
	assert.Equal(t, types.OutcomeStuck, res.Outcome)
	assert.Equal(t, []types.NodeID{"c0", "c1", "c2"}, res.Path)
}

// TestRoute_RouteMemory 测试路由记忆
func TestRoute_RouteMemory(t *testing.T) {
	f := chainMesh(t, nil)

	_, err := f.engine.Route(context.Background(), "c0", storageRequest())
	require.NoError(t, err)
	assert.Equal(t, 4, f.engine.Cache().Len())

	res, err := f.engine.Route(context.Background(), "c0", storageRequest())
	require.NoError(t, err)
	assert.Equal(t, types.MethodCache, res.Hops[1].Method)

	// 记住的节点失效后不再被采用
	_, err = f.reg.SetAlive("c1", false)
	require.NoError(t, err)
	res, err = f.engine.Route(context.Background(), "c0", storageRequest())
	require.Error(t, err)
	assert.NotContains(t, res.Path, types.NodeID("c1"))
}

// TestRoute_FaceEscape 测试面路由逃逸局部最小
func TestRoute_FaceEscape(t *testing.T) {
	reg := newRegistry(t)
	addNode(t, reg, "S", 0, 0, types.RoleCompute, 2)
	addNode(t, reg, "A", -0.2, 0.5, types.RoleCompute, 2)
	addNode(t, reg, "B", 0.5, 0.6, types.RoleCompute, 2)
	addNode(t, reg, "X", 1, 0, types.RoleStorage, 2)
	require.NoError(t, reg.BuildChain([]types.NodeID{"S", "A", "B", "X"}))
	f := newFixture(t, reg, types.ModeGeometric, nil)

	res, err := f.engine.Route(context.Background(), "S", storageRequest())
	require.NoError(t, err)
	assert.True(t, res.Success())
	assert.Equal(t, []types.NodeID{"S", "A", "B", "X"}, res.Path)
	assert.Equal(t, types.MethodFace, res.Hops[1].Method)
	assert.Equal(t, types.MethodFace, res.Hops[2].Method)
	assert.Equal(t, types.MethodGreedy, res.Hops[3].Method)
}

// TestRoute_FaceStuck 测试面路由回到起点
func TestRoute_FaceStuck(t *testing.T) {
	reg := newRegistry(t)
	addNode(t, reg, "S", 0, 0, types.RoleCompute, 2)
	addNode(t, reg, "A", -0.5, 0, types.RoleCompute, 2)
	addNode(t, reg, "X", 1, 0, types.RoleStorage, 2)
	require.NoError(t, reg.Connect("S", "A"))
	f := newFixture(t, reg, types.ModeGeometric, nil)

	res, err := f.engine.Route(context.Background(), "S", storageRequest())
	assert.ErrorIs(t, err, types.ErrStuck)
	require.NotNil(t, res)
	assert.Equal(t, []types.NodeID{"S", "A"}, res.Path)
}

// TestRoute_LocalMinimumInSection 测试 section 内局部最小视为到达
func TestRoute_LocalMinimumInSection(t *testing.T) {
	reg := newRegistry(t)
	addNode(t, reg, "c0", 0, 0, types.RoleCompute, 2)
	addNode(t, reg, "s1", 0.5, 0, types.RoleStorage, 2)
	addNode(t, reg, "s2", 0.4, 0.5, types.RoleStorage, 2)
	require.NoError(t, reg.BuildChain([]types.NodeID{"c0", "s1", "s2"}))
	f := newFixture(t, reg, types.ModeGeometric, nil)

	res, err := f.engine.Route(context.Background(), "c0", storageRequest())
	require.NoError(t, err)
	assert.True(t, res.Success())
	assert.Equal(t, []types.NodeID{"c0", "s1"}, res.Path)
}

// ============================================================================
//                              路由查询
// ============================================================================

// TestQuery 测试路由查询与传统基线
func TestQuery(t *testing.T) {
	f := chainMesh(t, nil)

	resp, err := f.engine.Query(context.Background(), "c0", storageRequest())
	require.NoError(t, err)
	assert.True(t, resp.Adaptive.Success)
	assert.Equal(t, 4, resp.Adaptive.TotalHops)
	assert.Equal(t, resp.Adaptive.Path, resp.Trad.Path)
	assert.True(t, resp.Trad.Success)
	assert.False(t, resp.SectionFailure)
	assert.Equal(t, types.RoleStorage, resp.TargetRole)

	data, err := json.Marshal(resp)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "storage", decoded["target_role"])
	assert.Contains(t, decoded, "adaptive")
	assert.Contains(t, decoded, "trad")
}

// TestQuery_TradIgnoresHealth 测试传统路由不感知失效节点
func TestQuery_TradIgnoresHealth(t *testing.T) {
	reg := newRegistry(t)
	addNode(t, reg, "c0", 0, 0, types.RoleCompute, 2)
	addNode(t, reg, "mid", 0.5, 0, types.RoleCompute, 2)
	addNode(t, reg, "up", 0.4, 0.3, types.RoleCompute, 2)
	addNode(t, reg, "X", 1, 0, types.RoleStorage, 2)
	for _, e := range [][2]types.NodeID{{"c0", "mid"}, {"mid", "X"}, {"c0", "up"}, {"up", "X"}} {
		require.NoError(t, reg.Connect(e[0], e[1]))
	}
	_, err := reg.SetAlive("mid", false)
	require.NoError(t, err)
	f := newFixture(t, reg, types.ModeGeometric, nil)

	resp, err := f.engine.Query(context.Background(), "c0", storageRequest())
	require.NoError(t, err)
	assert.True(t, resp.Adaptive.Success)
	assert.Equal(t, []types.NodeID{"c0", "up", "X"}, resp.Adaptive.Path)
	assert.Equal(t, []types.NodeID{"c0", "mid", "X"}, resp.Trad.Path)
	assert.False(t, resp.Trad.Success)
}

// TestQuery_SectionFailure 测试 section 失效时的查询结果
func TestQuery_SectionFailure(t *testing.T) {
	f := chainMesh(t, nil)
	_, err := f.reg.SetAlive("c4", false)
	require.NoError(t, err)

	resp, err := f.engine.Query(context.Background(), "c0", storageRequest())
	require.NoError(t, err)
	assert.True(t, resp.SectionFailure)
	assert.Equal(t, []types.NodeID{"c0"}, resp.Adaptive.Path)
	assert.Equal(t, []types.NodeID{"c0"}, resp.Trad.Path)
	assert.False(t, resp.Adaptive.Success)
	assert.Empty(t, resp.Adaptive.Hops)
}

// ============================================================================
//                              组件
// ============================================================================

// TestRouteCache_Key 测试量化键
func TestRouteCache_Key(t *testing.T) {
	c := NewRouteCache(DefaultConfig().Cache)
	k1 := c.Key("n", types.Vector{0.51, 0.2})
	assert.Equal(t, k1, c.Key("n", types.Vector{0.52, 0.21}), "同一量化格")
	assert.NotEqual(t, k1, c.Key("n", types.Vector{0.9, 0.2}))
	assert.NotEqual(t, k1, c.Key("m", types.Vector{0.51, 0.2}))

	c.Put("n", types.Vector{0.5, 0.2}, "next")
	got, ok := c.Get("n", types.Vector{0.5, 0.2})
	require.True(t, ok)
	assert.Equal(t, types.NodeID("next"), got)
	c.Invalidate("n", types.Vector{0.5, 0.2})
	_, ok = c.Get("n", types.Vector{0.5, 0.2})
	assert.False(t, ok)
}

// TestBalancer_Pick 测试分流选择
func TestBalancer_Pick(t *testing.T) {
	b, err := NewBalancer(8, 0.05)
	require.NoError(t, err)
	ranked := []scoring.Scored{
		{Node: types.NodeInfo{ID: "x"}, Score: 1.0},
		{Node: types.NodeInfo{ID: "y"}, Score: 0.97},
		{Node: types.NodeInfo{ID: "z"}, Score: 0.5},
	}

	idx, balanced := b.Pick("o", "c", ranked)
	assert.Zero(t, idx)
	assert.False(t, balanced, "无历史时不分流")

	b.Record("o", "c", "x")
	idx, balanced = b.Pick("o", "c", ranked)
	assert.Equal(t, 1, idx)
	assert.True(t, balanced)

	// 分数差距超出容忍度
	idx, balanced = b.Pick("o", "c", []scoring.Scored{ranked[0], ranked[2]})
	assert.Zero(t, idx)
	assert.False(t, balanced)
}

// TestBalancer_Divert 测试以非第一名为首选时的分流
func TestBalancer_Divert(t *testing.T) {
	b, err := NewBalancer(8, 0.05)
	require.NoError(t, err)
	ranked := []scoring.Scored{
		{Node: types.NodeInfo{ID: "x"}, Score: 1.0},
		{Node: types.NodeInfo{ID: "y"}, Score: 0.97},
		{Node: types.NodeInfo{ID: "z"}, Score: 0.5},
	}

	idx, balanced := b.Divert("o", "c", ranked, 1)
	assert.Equal(t, 1, idx)
	assert.False(t, balanced)

	b.Record("o", "c", "y")
	idx, balanced = b.Divert("o", "c", ranked, 1)
	assert.Zero(t, idx, "分数更高的候选总在容差内")
	assert.True(t, balanced)

	// 首选不是上次的选择
	idx, balanced = b.Divert("o", "c", ranked, 2)
	assert.Equal(t, 2, idx)
	assert.False(t, balanced)

	idx, balanced = b.Divert("o", "c", ranked, 5)
	assert.Equal(t, 5, idx)
	assert.False(t, balanced)
}

// TestConfig_Validate 测试配置校验
func TestConfig_Validate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.SlowThreshold = cfg.ForwardTimeout + time.Second
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)

	cfg = DefaultConfig()
	cfg.EquivalenceRatio = 1
	assert.True(t, errors.Is(cfg.Validate(), ErrInvalidConfig))
}
