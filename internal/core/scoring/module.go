package scoring

import (
	"go.uber.org/fx"

	"github.com/dep2p/go-vecroute/config"
)

// ModuleInput 模块输入依赖
type ModuleInput struct {
	fx.In

	UnifiedCfg *config.Config `optional:"true"`
}

// Module 返回评分的 Fx 模块
func Module() fx.Option {
	return fx.Module("scoring",
		fx.Provide(ProvideScorer),
	)
}

// ProvideScorer 提供配置中选定的评分策略
func ProvideScorer(input ModuleInput) (Scorer, error) {
	cfg, err := ConfigFromUnified(input.UnifiedCfg)
	if err != nil {
		return nil, err
	}
	return NewScorer(cfg)
}
