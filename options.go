package vecroute

import (
	"errors"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/dep2p/go-vecroute/config"
	"github.com/dep2p/go-vecroute/pkg/interfaces"
)

// Option 用户配置选项函数
type Option func(*options) error

// options 内部选项结构
type options struct {
	// 配置来源（三选一，优先级：文件 > 显式配置 > 预设）
	configFile string
	config     *config.Config
	preset     Preset

	// 注入的组件
	transport  interfaces.Transport
	clock      clock.Clock
	registerer prometheus.Registerer

	// 用户自定义 Fx 选项
	fxOptions []fx.Option
}

// toConfig 生成最终配置
//
// 显式配置或配置文件存在时忽略预设。
func (o *options) toConfig() (*config.Config, error) {
	switch {
	case o.configFile != "":
		return config.LoadFile(o.configFile)
	case o.config != nil:
		return o.config.Clone(), nil
	default:
		return o.preset.Config()
	}
}

// WithConfig 使用完整配置
func WithConfig(cfg *config.Config) Option {
	return func(o *options) error {
		if cfg == nil {
			return errors.New("config is nil")
		}
		o.config = cfg
		return nil
	}
}

// WithConfigFile 从 JSON/YAML 文件加载配置
func WithConfigFile(path string) Option {
	return func(o *options) error {
		if path == "" {
			return errors.New("config file path is empty")
		}
		o.configFile = path
		return nil
	}
}

// WithPreset 使用预设配置
func WithPreset(p Preset) Option {
	return func(o *options) error {
		o.preset = p
		return nil
	}
}

// WithTransport 注入传输实现，覆盖配置中的 Transport.Kind
func WithTransport(t interfaces.Transport) Option {
	return func(o *options) error {
		o.transport = t
		return nil
	}
}

// WithClock 注入时钟（测试中使用 clock.NewMock）
func WithClock(c clock.Clock) Option {
	return func(o *options) error {
		o.clock = c
		return nil
	}
}

// WithRegisterer 将指标注册到指定 Registerer
//
// 未设置时每个 Mesh 使用独立的 prometheus.Registry。
func WithRegisterer(r prometheus.Registerer) Option {
	return func(o *options) error {
		o.registerer = r
		return nil
	}
}

// WithFxOptions 追加自定义 Fx 选项
func WithFxOptions(opts ...fx.Option) Option {
	return func(o *options) error {
		o.fxOptions = append(o.fxOptions, opts...)
		return nil
	}
}
