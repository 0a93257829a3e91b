package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/dep2p/go-vecroute/config"
)

// Config 指标配置
type Config struct {
	Enabled   bool
	Namespace string
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{Enabled: true, Namespace: "vecroute"}
}

// ConfigFromUnified 从统一配置创建指标配置
func ConfigFromUnified(cfg *config.Config) Config {
	if cfg == nil {
		return DefaultConfig()
	}
	return Config{
		Enabled:   cfg.Metrics.Enabled,
		Namespace: cfg.Metrics.Namespace,
	}
}

// Params 模块输入
type Params struct {
	fx.In

	UnifiedCfg *config.Config        `optional:"true"`
	Registerer prometheus.Registerer `optional:"true"`
}

// Result 模块输出
type Result struct {
	fx.Out

	Collector *Collector
	Gatherer  prometheus.Gatherer
}

// Module 返回 metrics 的 Fx 模块
//
// 未注入 Registerer 时创建独立的 prometheus.Registry。
// 未启用时提供 nil Collector。
func Module() fx.Option {
	return fx.Module("metrics",
		fx.Provide(ProvideCollector),
	)
}

// ProvideCollector 创建 Collector
func ProvideCollector(p Params) Result {
	cfg := ConfigFromUnified(p.UnifiedCfg)

	reg := prometheus.NewRegistry()
	var registerer prometheus.Registerer = reg
	var gatherer prometheus.Gatherer = reg
	if p.Registerer != nil {
		registerer = p.Registerer
		if g, ok := p.Registerer.(prometheus.Gatherer); ok {
			gatherer = g
		}
	}

	if !cfg.Enabled {
		return Result{Gatherer: gatherer}
	}
	return Result{
		Collector: NewCollector(registerer, cfg.Namespace),
		Gatherer:  gatherer,
	}
}
