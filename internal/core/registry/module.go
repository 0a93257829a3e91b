package registry

import (
	"go.uber.org/fx"

	"github.com/dep2p/go-vecroute/config"
)

// ConfigFromUnified 从统一配置创建注册表配置
func ConfigFromUnified(cfg *config.Config) Config {
	if cfg == nil {
		return DefaultConfig()
	}
	return Config{
		Dimension:    cfg.Vector.Dimension,
		LatencyAlpha: cfg.Topology.LatencyAlpha,
		HealLinks:    cfg.Topology.HealLinks,
		RelinkLinks:  cfg.Topology.RelinkLinks,
	}
}

// ModuleInput 模块输入依赖
type ModuleInput struct {
	fx.In

	UnifiedCfg *config.Config `optional:"true"`
}

// Module 返回注册表的 Fx 模块
func Module() fx.Option {
	return fx.Module("registry",
		fx.Provide(ProvideRegistry),
	)
}

// ProvideRegistry 创建空注册表
func ProvideRegistry(input ModuleInput) (*Registry, error) {
	return New(ConfigFromUnified(input.UnifiedCfg))
}
