package snapshot

import (
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/dep2p/go-vecroute/config"
	"github.com/dep2p/go-vecroute/internal/core/registry"
	"github.com/dep2p/go-vecroute/pkg/interfaces"
	"github.com/dep2p/go-vecroute/pkg/types"
)

func openMemory(t *testing.T, retain int) *Store {
	t.Helper()
	s, err := Open(Config{Enabled: true, InMemory: true, Retain: retain})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	cfg := registry.DefaultConfig()
	cfg.Dimension = 2
	reg, err := registry.New(cfg)
	require.NoError(t, err)

	require.NoError(t, reg.Add(types.NodeSpec{ID: "a", Vector: types.Vector{1, 0}, Role: types.RoleAuth, Capacity: 3, Trust: 0.7, Alive: true}))
	require.NoError(t, reg.Add(types.NodeSpec{ID: "b", Vector: types.Vector{0, 1}, Role: types.RoleCompute, Capacity: 5, Trust: 0.4, Alive: true}))
	require.NoError(t, reg.Connect("a", "b"))
	return reg
}

// TestStore_SaveLoadDelete 测试基本读写
func TestStore_SaveLoadDelete(t *testing.T) {
	s := openMemory(t, 0)
	ctx := context.Background()

	meta := interfaces.SnapshotMeta{ID: "s1", CreatedAt: time.Unix(100, 0).UTC(), Nodes: 2, Label: "x"}
	require.NoError(t, s.Save(ctx, meta, []byte(`{"nodes":[]}`)))

	got, data, err := s.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, meta, got)
	assert.JSONEq(t, `{"nodes":[]}`, string(data))

	require.NoError(t, s.Delete(ctx, "s1"))
	_, _, err = s.Load(ctx, "s1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "s1"), ErrNotFound)
}

// TestStore_ListAndRetain 测试排序与保留数量
func TestStore_ListAndRetain(t *testing.T) {
	s := openMemory(t, 2)
	ctx := context.Background()

	for i, id := range []string{"s1", "s2", "s3"} {
		meta := interfaces.SnapshotMeta{ID: id, CreatedAt: time.Unix(int64(100+i), 0).UTC()}
		require.NoError(t, s.Save(ctx, meta, []byte("{}")))
	}

	metas, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, metas, 2)
	assert.Equal(t, "s3", metas[0].ID)
	assert.Equal(t, "s2", metas[1].ID)

	_, _, err = s.Load(ctx, "s1")
	assert.ErrorIs(t, err, ErrNotFound)
}

// TestStore_Closed 测试关闭后的行为
func TestStore_Closed(t *testing.T) {
	s, err := Open(Config{Enabled: true, InMemory: true})
	require.NoError(t, err)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	_, err = s.List(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
}

// TestManager_TakeRestore 测试快照与恢复往返
func TestManager_TakeRestore(t *testing.T) {
	reg := newRegistry(t)
	mgr := NewManager(openMemory(t, 0), reg, nil, 0)
	ctx := context.Background()

	before := reg.NetworkState()
	meta, err := mgr.Take(ctx, "before")
	require.NoError(t, err)
	assert.Equal(t, 2, meta.Nodes)
	assert.Equal(t, 1, meta.Edges)

	require.NoError(t, reg.Remove("b"))
	require.NoError(t, reg.SetTrust("a", 0.1))

	_, err = mgr.Restore(ctx, meta.ID)
	require.NoError(t, err)
	assert.Equal(t, before, reg.NetworkState())

	latest, err := mgr.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, meta.ID, latest.ID)
}

// TestManager_Disabled 测试未配置存储
func TestManager_Disabled(t *testing.T) {
	mgr := NewManager(nil, newRegistry(t), nil, time.Second)
	assert.False(t, mgr.Enabled())

	_, err := mgr.Take(context.Background(), "")
	assert.ErrorIs(t, err, ErrDisabled)
	_, err = mgr.Restore(context.Background(), "x")
	assert.ErrorIs(t, err, ErrDisabled)
	require.NoError(t, mgr.Start(context.Background()))
	require.NoError(t, mgr.Close())
}

// TestManager_Periodic 测试周期快照
func TestManager_Periodic(t *testing.T) {
	mock := clock.NewMock()
	mgr := NewManager(openMemory(t, 0), newRegistry(t), mock, time.Minute)
	require.NoError(t, mgr.Start(context.Background()))
	defer mgr.Stop()

	mock.Add(time.Minute)
	assert.Eventually(t, func() bool {
		metas, err := mgr.List(context.Background())
		return err == nil && len(metas) == 1 && metas[0].Label == "periodic"
	}, 2*time.Second, 10*time.Millisecond)
}

// TestConfig_Validate 测试配置校验
func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	assert.ErrorIs(t, Config{Enabled: true}.Validate(), ErrInvalidConfig)
	assert.ErrorIs(t, Config{Retain: -1}.Validate(), ErrInvalidConfig)
}

// TestModule 测试 Fx 模块装配
func TestModule(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Vector.Dimension = 2
	cfg.Storage.Enabled = true
	cfg.Storage.InMemory = true

	var mgr *Manager
	app := fxtest.New(t,
		fx.Supply(cfg),
		fx.Provide(func() (*registry.Registry, error) { return newRegistry(t), nil }),
		Module(),
		fx.Populate(&mgr),
	)
	app.RequireStart()

	assert.True(t, mgr.Enabled())
	_, err := mgr.Take(context.Background(), "fx")
	require.NoError(t, err)
	app.RequireStop()
}
