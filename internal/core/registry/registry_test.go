package registry

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-vecroute/pkg/types"
)

func newTestRegistry(t *testing.T, dim int) *Registry {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Dimension = dim
	r, err := New(cfg)
	require.NoError(t, err)
	return r
}

func addNode(t *testing.T, r *Registry, id string, v types.Vector, role types.Role, capacity int) {
	t.Helper()
	require.NoError(t, r.Add(types.NodeSpec{
		ID:       types.NodeID(id),
		Vector:   v,
		Role:     role,
		Capacity: capacity,
		Trust:    0.5,
		Alive:    true,
	}))
}

// TestRegistry_Add 测试注册校验
func TestRegistry_Add(t *testing.T) {
	r := newTestRegistry(t, 2)
	addNode(t, r, "a", types.Vector{1, 0}, types.RoleAuth, 3)

	err := r.Add(types.NodeSpec{ID: "a", Vector: types.Vector{1, 0}, Role: types.RoleAuth, Capacity: 1})
	assert.True(t, errors.Is(err, types.ErrNodeExists))

	err = r.Add(types.NodeSpec{ID: "b", Vector: types.Vector{1, 0, 0}, Role: types.RoleAuth, Capacity: 1})
	assert.True(t, errors.Is(err, types.ErrDimensionMismatch))

	err = r.Add(types.NodeSpec{ID: "c", Vector: types.Vector{1, 0}, Role: types.RoleUnknown, Capacity: 1})
	assert.True(t, errors.Is(err, types.ErrInvalidRole))

	err = r.Add(types.NodeSpec{ID: "d", Vector: types.Vector{1, 0}, Role: types.RoleAuth, Capacity: 0})
	assert.True(t, errors.Is(err, types.ErrInvalidNode))

	_, err = r.Get("missing")
	assert.True(t, errors.Is(err, types.ErrNodeNotFound))
	assert.Equal(t, 1, r.Len())
}

// TestRegistry_SnapshotIsCopy 测试快照与内部状态隔离
func TestRegistry_SnapshotIsCopy(t *testing.T) {
	r := newTestRegistry(t, 2)
	addNode(t, r, "a", types.Vector{1, 0}, types.RoleAuth, 3)

	info, err := r.Get("a")
	require.NoError(t, err)
	info.Vector[0] = 42

	again, err := r.Get("a")
	require.NoError(t, err)
	assert.Equal(t, 1.0, again.Vector[0])
}

// TestRegistry_TryAcquire 测试容量占用
func TestRegistry_TryAcquire(t *testing.T) {
	r := newTestRegistry(t, 2)
	addNode(t, r, "a", types.Vector{1, 0}, types.RoleAuth, 2)

	for i := 0; i < 2; i++ {
		ok, err := r.TryAcquire("a")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, err := r.TryAcquire("a")
	require.NoError(t, err)
	assert.False(t, ok, "满载后不能再占用")

	require.NoError(t, r.Release("a"))
	_, err = r.SetAlive("a", false)
	require.NoError(t, err)
	ok, _ = r.TryAcquire("a")
	assert.False(t, ok, "失效节点不能占用")
}

// TestRegistry_ConcurrentAcquire 测试并发占用不丢失更新
func TestRegistry_ConcurrentAcquire(t *testing.T) {
	r := newTestRegistry(t, 2)
	addNode(t, r, "a", types.Vector{1, 0}, types.RoleAuth, 10)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		granted int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := r.TryAcquire("a"); ok {
				mu.Lock()
				granted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, granted)
	info, _ := r.Get("a")
	assert.Equal(t, 10, info.Load)

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = r.Release("a")
		}()
	}
	wg.Wait()
	info, _ = r.Get("a")
	assert.Equal(t, 0, info.Load)
}

// TestRegistry_ObserveLatency 测试延迟 EWMA
func TestRegistry_ObserveLatency(t *testing.T) {
	r := newTestRegistry(t, 2)
	addNode(t, r, "a", types.Vector{1, 0}, types.RoleAuth, 2)

	require.NoError(t, r.ObserveLatency("a", 100*time.Millisecond))
	info, _ := r.Get("a")
	assert.Equal(t, 100*time.Millisecond, info.Latency)

	require.NoError(t, r.ObserveLatency("a", 200*time.Millisecond))
	info, _ = r.Get("a")
	assert.Equal(t, 120*time.Millisecond, info.Latency)
}

// TestRegistry_UpdateTrustClamped 测试信任值截断
func TestRegistry_UpdateTrustClamped(t *testing.T) {
	r := newTestRegistry(t, 2)
	addNode(t, r, "a", types.Vector{1, 0}, types.RoleAuth, 2)

	v, err := r.UpdateTrust("a", func(t float64) float64 { return t + 5 })
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)

	v, err = r.UpdateTrust("a", func(t float64) float64 { return -1 })
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)
}

// TestRegistry_Members 测试按角色列出节点
func TestRegistry_Members(t *testing.T) {
	r := newTestRegistry(t, 2)
	for i := 0; i < 3; i++ {
		addNode(t, r, fmt.Sprintf("db%d", i), types.Vector{0, 1}, types.RoleDatabase, 1)
	}
	addNode(t, r, "auth", types.Vector{1, 0}, types.RoleAuth, 1)
	_, _ = r.SetAlive("db1", false)

	members := r.Members(types.RoleDatabase)
	require.Len(t, members, 3)
	assert.Equal(t, types.NodeID("db0"), members[0].ID)
	assert.False(t, members[1].Alive)
}

// TestRegistry_Remove 测试删除节点同时删除边
func TestRegistry_Remove(t *testing.T) {
	r := newTestRegistry(t, 2)
	addNode(t, r, "a", types.Vector{1, 0}, types.RoleAuth, 1)
	addNode(t, r, "b", types.Vector{0, 1}, types.RoleAuth, 1)
	require.NoError(t, r.Connect("a", "b"))

	require.NoError(t, r.Remove("b"))
	ids, err := r.NeighborIDs("a")
	require.NoError(t, err)
	assert.Empty(t, ids)
}
