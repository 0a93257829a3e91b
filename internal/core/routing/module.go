package routing

import (
	"github.com/benbjohnson/clock"
	"go.uber.org/fx"

	"github.com/dep2p/go-vecroute/config"
	"github.com/dep2p/go-vecroute/internal/core/metrics"
	"github.com/dep2p/go-vecroute/internal/core/registry"
	"github.com/dep2p/go-vecroute/internal/core/scoring"
	"github.com/dep2p/go-vecroute/pkg/interfaces"
)

// ModuleInput 模块输入依赖
type ModuleInput struct {
	fx.In

	UnifiedCfg *config.Config `optional:"true"`
	Registry   *registry.Registry
	Scorer     scoring.Scorer
	Forwarder  interfaces.Forwarder

	Trust      interfaces.TrustSystem `optional:"true"`
	Embedder   interfaces.Embedder    `optional:"true"`
	Classifier interfaces.Classifier  `optional:"true"`
	Metrics    *metrics.Collector     `optional:"true"`
	Clock      clock.Clock            `optional:"true"`
}

// Module 返回路由的 Fx 模块
func Module() fx.Option {
	return fx.Module("routing",
		fx.Provide(ProvideEngine),
	)
}

// ProvideEngine 提供路由引擎
func ProvideEngine(input ModuleInput) (*Engine, error) {
	return NewEngine(ConfigFromUnified(input.UnifiedCfg), Deps{
		Registry:   input.Registry,
		Scorer:     input.Scorer,
		Trust:      input.Trust,
		Forwarder:  input.Forwarder,
		Embedder:   input.Embedder,
		Classifier: input.Classifier,
		Metrics:    input.Metrics,
		Clock:      input.Clock,
	})
}
