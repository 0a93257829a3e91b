package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/dep2p/go-vecroute/internal/core/registry"
	"github.com/dep2p/go-vecroute/pkg/interfaces"
)

// ============================================================================
//                              Manager
// ============================================================================

// Manager 在注册表与快照存储之间保存/恢复网络状态
//
// store 为 nil 时所有操作返回 ErrDisabled。
type Manager struct {
	store    interfaces.SnapshotStore
	reg      *registry.Registry
	clock    clock.Clock
	interval time.Duration

	running atomic.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewManager 创建快照管理器
func NewManager(store interfaces.SnapshotStore, reg *registry.Registry, clk clock.Clock, interval time.Duration) *Manager {
	if clk == nil {
		clk = clock.New()
	}
	return &Manager{store: store, reg: reg, clock: clk, interval: interval}
}

// Enabled 是否配置了存储
func (m *Manager) Enabled() bool {
	return m.store != nil
}

// Take 保存当前网络状态
func (m *Manager) Take(ctx context.Context, label string) (interfaces.SnapshotMeta, error) {
	if m.store == nil {
		return interfaces.SnapshotMeta{}, ErrDisabled
	}
	state := m.reg.NetworkState()
	data, err := json.Marshal(state)
	if err != nil {
		return interfaces.SnapshotMeta{}, fmt.Errorf("snapshot: encode state: %w", err)
	}

	meta := interfaces.SnapshotMeta{
		ID:        newID(),
		CreatedAt: m.clock.Now().UTC(),
		Nodes:     len(state.Nodes),
		Edges:     len(state.Edges),
		Label:     label,
	}
	if err := m.store.Save(ctx, meta, data); err != nil {
		return interfaces.SnapshotMeta{}, err
	}
	log.Info("保存快照", "id", meta.ID, "nodes", meta.Nodes, "edges", meta.Edges, "label", label)
	return meta, nil
}

// newID UUIDv7 按时间有序，生成失败时退回随机 UUID
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Restore 用指定快照替换注册表内容
func (m *Manager) Restore(ctx context.Context, id string) (interfaces.SnapshotMeta, error) {
	if m.store == nil {
		return interfaces.SnapshotMeta{}, ErrDisabled
	}
	meta, data, err := m.store.Load(ctx, id)
	if err != nil {
		return interfaces.SnapshotMeta{}, err
	}
	var state registry.NetworkState
	if err := json.Unmarshal(data, &state); err != nil {
		return interfaces.SnapshotMeta{}, fmt.Errorf("snapshot: decode %s: %w", id, err)
	}
	if err := m.reg.Restore(state); err != nil {
		return interfaces.SnapshotMeta{}, err
	}
	log.Info("恢复快照", "id", id, "nodes", meta.Nodes)
	return meta, nil
}

// Latest 返回最新快照的元信息
func (m *Manager) Latest(ctx context.Context) (interfaces.SnapshotMeta, error) {
	metas, err := m.List(ctx)
	if err != nil {
		return interfaces.SnapshotMeta{}, err
	}
	if len(metas) == 0 {
		return interfaces.SnapshotMeta{}, ErrNotFound
	}
	return metas[0], nil
}

// List 列出快照
func (m *Manager) List(ctx context.Context) ([]interfaces.SnapshotMeta, error) {
	if m.store == nil {
		return nil, ErrDisabled
	}
	return m.store.List(ctx)
}

// ============================================================================
//                              周期快照
// ============================================================================

// Start 启动周期快照，interval 为 0 或未配置存储时为空操作
func (m *Manager) Start(_ context.Context) error {
	if m.store == nil || m.interval <= 0 {
		return nil
	}
	if !m.running.CompareAndSwap(false, true) {
		return nil
	}

	// 后台循环不能继承启动 ctx，OnStart 返回后它会被取消
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	ticker := m.clock.Ticker(m.interval)

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := m.Take(ctx, "periodic"); err != nil {
					log.Warn("周期快照失败", "err", err)
				}
			}
		}
	}()
	log.Debug("周期快照已启动", "interval", m.interval)
	return nil
}

// Stop 停止周期快照
func (m *Manager) Stop() error {
	if !m.running.CompareAndSwap(true, false) {
		return nil
	}
	m.cancel()
	m.wg.Wait()
	return nil
}

// Close 停止周期快照并关闭存储
func (m *Manager) Close() error {
	err := m.Stop()
	if m.store != nil {
		err = multierr.Append(err, m.store.Close())
	}
	return err
}
