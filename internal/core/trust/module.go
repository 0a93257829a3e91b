package trust

import (
	"go.uber.org/fx"

	"github.com/dep2p/go-vecroute/config"
	"github.com/dep2p/go-vecroute/internal/core/metrics"
	"github.com/dep2p/go-vecroute/internal/core/registry"
	"github.com/dep2p/go-vecroute/pkg/interfaces"
)

// ModuleInput 模块输入依赖
type ModuleInput struct {
	fx.In

	UnifiedCfg *config.Config     `optional:"true"`
	Registry   *registry.Registry
	Metrics    *metrics.Collector `optional:"true"`
}

// ModuleOutput 模块输出
type ModuleOutput struct {
	fx.Out

	System      *System
	TrustSystem interfaces.TrustSystem
}

// Module 返回信任系统的 Fx 模块
func Module() fx.Option {
	return fx.Module("trust",
		fx.Provide(ProvideServices),
	)
}

// ProvideServices 提供信任系统
func ProvideServices(input ModuleInput) (ModuleOutput, error) {
	sys, err := New(ConfigFromUnified(input.UnifiedCfg), input.Registry, input.Metrics)
	if err != nil {
		return ModuleOutput{}, err
	}
	return ModuleOutput{System: sys, TrustSystem: sys}, nil
}
