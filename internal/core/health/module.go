package health

import (
	"context"

	"github.com/benbjohnson/clock"
	"go.uber.org/fx"

	"github.com/dep2p/go-vecroute/config"
	"github.com/dep2p/go-vecroute/internal/core/metrics"
	"github.com/dep2p/go-vecroute/internal/core/registry"
	"github.com/dep2p/go-vecroute/pkg/interfaces"
)

// ModuleInput 模块输入依赖
type ModuleInput struct {
	fx.In

	UnifiedCfg *config.Config          `optional:"true"`
	Registry   *registry.Registry
	Prober     interfaces.Prober
	Trust      interfaces.TrustSystem `optional:"true"`
	Metrics    *metrics.Collector     `optional:"true"`
	Clock      clock.Clock            `optional:"true"`
}

// ModuleOutput 模块输出
type ModuleOutput struct {
	fx.Out

	Monitor       *Monitor
	HealthMonitor interfaces.HealthMonitor
}

// Module 返回健康监控的 Fx 模块
func Module() fx.Option {
	return fx.Module("health",
		fx.Provide(ProvideServices),
		fx.Invoke(registerLifecycle),
	)
}

// ProvideServices 提供健康监控器
func ProvideServices(input ModuleInput) (ModuleOutput, error) {
	m, err := NewMonitor(ConfigFromUnified(input.UnifiedCfg), Deps{
		Registry: input.Registry,
		Prober:   input.Prober,
		Trust:    input.Trust,
		Metrics:  input.Metrics,
		Clock:    input.Clock,
	})
	if err != nil {
		return ModuleOutput{}, err
	}
	return ModuleOutput{Monitor: m, HealthMonitor: m}, nil
}

type lifecycleInput struct {
	fx.In

	LC         fx.Lifecycle
	UnifiedCfg *config.Config `optional:"true"`
	Monitor    *Monitor
}

// registerLifecycle 配置启用时随应用启停周期探测
func registerLifecycle(input lifecycleInput) {
	if !ConfigFromUnified(input.UnifiedCfg).Enabled {
		log.Info("健康监控未启用")
		return
	}
	input.LC.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return input.Monitor.Start(ctx)
		},
		OnStop: func(_ context.Context) error {
			return input.Monitor.Stop()
		},
	})
}
