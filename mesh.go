package vecroute

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/multierr"

	"github.com/dep2p/go-vecroute/config"
	"github.com/dep2p/go-vecroute/internal/core/health"
	"github.com/dep2p/go-vecroute/internal/core/registry"
	"github.com/dep2p/go-vecroute/internal/core/routing"
	"github.com/dep2p/go-vecroute/internal/core/snapshot"
	"github.com/dep2p/go-vecroute/internal/core/trust"
	"github.com/dep2p/go-vecroute/internal/util/logger"
	"github.com/dep2p/go-vecroute/pkg/interfaces"
	"github.com/dep2p/go-vecroute/pkg/types"
)

var log = logger.Logger("vecroute")

// ════════════════════════════════════════════════════════════════════════════
//                              Mesh 状态
// ════════════════════════════════════════════════════════════════════════════

// State Mesh 生命周期状态
type State int

const (
	// StateIdle 已创建，未启动
	StateIdle State = iota

	// StateRunning 运行中（健康探测与周期快照在后台运行）
	StateRunning

	// StateStopped 已停止
	StateStopped
)

// String 返回状态的字符串表示
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

const (
	// startTimeout Fx App 启动超时
	startTimeout = 30 * time.Second
)

// ════════════════════════════════════════════════════════════════════════════
//                              Mesh
// ════════════════════════════════════════════════════════════════════════════

// Mesh 向量路由网格
//
// Mesh 是门面，聚合注册表、路由引擎、健康监控、信任系统与快照。
// 创建后即可注册节点与路由；Start 启动后台的健康探测和周期快照。
// Stop 之后 Mesh 不可再启动。
type Mesh struct {
	cfg *config.Config
	app *fx.App

	mu    sync.RWMutex
	state State

	// 由 Fx 注入
	reg        *registry.Registry
	engine     *routing.Engine
	monitor    *health.Monitor
	trust      *trust.System
	snapshots  *snapshot.Manager
	transport  interfaces.Transport
	classifier interfaces.Classifier
	centers    map[types.Role]types.Vector
	gatherer   prometheus.Gatherer
}

// New 创建 Mesh
func New(opts ...Option) (*Mesh, error) {
	o := &options{}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	cfg, err := o.toConfig()
	if err != nil {
		return nil, err
	}

	m := &Mesh{cfg: cfg}
	app, err := buildFxApp(cfg, o, m)
	if err != nil {
		return nil, err
	}
	m.app = app

	log.Info("创建网格",
		"dimension", cfg.Vector.Dimension,
		"mode", cfg.Scoring.Mode,
		"transport", cfg.Transport.Kind)
	return m, nil
}

// Start 启动后台组件
func (m *Mesh) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.state {
	case StateRunning:
		return ErrAlreadyStarted
	case StateStopped:
		return ErrMeshClosed
	}

	startCtx, cancel := context.WithTimeout(ctx, startTimeout)
	defer cancel()
	if err := m.app.Start(startCtx); err != nil {
		log.Error("网格启动失败", "err", err)
		return fmt.Errorf("start failed: %w", err)
	}
	m.state = StateRunning
	log.Info("网格已启动", "nodes", m.reg.Len())
	return nil
}

// Stop 停止后台组件并关闭存储
//
// 运行中的 Mesh 若使用磁盘快照存储，停止前保存一次 shutdown 快照。
// 未启动的 Mesh 也需要 Stop 以释放存储。
func (m *Mesh) Stop(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateStopped {
		return nil
	}

	var err error
	if m.state == StateRunning && m.snapshots.Enabled() && !m.cfg.Storage.InMemory {
		_, e := m.snapshots.Take(ctx, "shutdown")
		err = multierr.Append(err, e)
	}

	if m.state == StateRunning {
		err = multierr.Append(err, m.app.Stop(ctx))
	} else {
		// 未启动时 OnStop 不会执行，直接关闭存储
		err = multierr.Append(err, m.snapshots.Close())
	}
	m.state = StateStopped

	if err != nil {
		log.Warn("网格停止时出错", "err", err)
	} else {
		log.Info("网格已停止")
	}
	return err
}

// State 返回当前生命周期状态
func (m *Mesh) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Config 返回生效配置的拷贝
func (m *Mesh) Config() *config.Config {
	return m.cfg.Clone()
}

func (m *Mesh) checkOpen() error {
	if m.State() == StateStopped {
		return ErrMeshClosed
	}
	return nil
}
