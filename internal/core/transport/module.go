package transport

import (
	"fmt"

	"github.com/benbjohnson/clock"
	"go.uber.org/fx"

	"github.com/dep2p/go-vecroute/config"
	"github.com/dep2p/go-vecroute/pkg/interfaces"
)

// ModuleInput 模块输入依赖
type ModuleInput struct {
	fx.In

	UnifiedCfg *config.Config `optional:"true"`
	Clock      clock.Clock    `optional:"true"`

	// Override 外部提供的传输实现（测试、嵌入式模拟）
	Override interfaces.Transport `name:"transport_override" optional:"true"`
}

// ModuleOutput 模块输出
type ModuleOutput struct {
	fx.Out

	Transport interfaces.Transport
	Forwarder interfaces.Forwarder
	Prober    interfaces.Prober
}

// Module 返回传输的 Fx 模块
func Module() fx.Option {
	return fx.Module("transport",
		fx.Provide(ProvideTransport),
	)
}

// ProvideTransport 按配置选择传输实现
func ProvideTransport(input ModuleInput) (ModuleOutput, error) {
	t, err := selectTransport(input)
	if err != nil {
		return ModuleOutput{}, err
	}
	return ModuleOutput{Transport: t, Forwarder: t, Prober: t}, nil
}

func selectTransport(input ModuleInput) (interfaces.Transport, error) {
	if input.Override != nil {
		return input.Override, nil
	}
	cfg := ConfigFromUnified(input.UnifiedCfg)
	switch cfg.Kind {
	case "", "sim":
		return NewSimTransport(), nil
	case "http":
		return NewHTTPTransport(cfg, nil, input.Clock), nil
	default:
		return nil, fmt.Errorf("transport: unknown kind %q", cfg.Kind)
	}
}
