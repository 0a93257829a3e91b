package snapshot

import (
	"context"

	"github.com/benbjohnson/clock"
	"go.uber.org/fx"

	"github.com/dep2p/go-vecroute/config"
	"github.com/dep2p/go-vecroute/internal/core/registry"
)

// ModuleInput 模块输入依赖
type ModuleInput struct {
	fx.In

	UnifiedCfg *config.Config `optional:"true"`
	Registry   *registry.Registry
	Clock      clock.Clock `optional:"true"`
}

// Module 返回快照的 Fx 模块
func Module() fx.Option {
	return fx.Module("snapshot",
		fx.Provide(ProvideManager),
		fx.Invoke(registerLifecycle),
	)
}

// ProvideManager 按配置打开存储并创建管理器
//
// 未启用存储时返回的 Manager 所有操作都返回 ErrDisabled。
func ProvideManager(input ModuleInput) (*Manager, error) {
	cfg := ConfigFromUnified(input.UnifiedCfg)
	if !cfg.Enabled {
		return NewManager(nil, input.Registry, input.Clock, 0), nil
	}
	store, err := Open(cfg)
	if err != nil {
		return nil, err
	}
	return NewManager(store, input.Registry, input.Clock, cfg.Interval), nil
}

func registerLifecycle(lc fx.Lifecycle, m *Manager) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return m.Start(ctx)
		},
		OnStop: func(_ context.Context) error {
			return m.Close()
		},
	})
}
