package vecroute

import (
	"fmt"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/dep2p/go-vecroute/config"
	"github.com/dep2p/go-vecroute/internal/core/classifier"
	"github.com/dep2p/go-vecroute/internal/core/health"
	"github.com/dep2p/go-vecroute/internal/core/metrics"
	"github.com/dep2p/go-vecroute/internal/core/registry"
	"github.com/dep2p/go-vecroute/internal/core/routing"
	"github.com/dep2p/go-vecroute/internal/core/scoring"
	"github.com/dep2p/go-vecroute/internal/core/snapshot"
	"github.com/dep2p/go-vecroute/internal/core/transport"
	"github.com/dep2p/go-vecroute/internal/core/trust"
	"github.com/dep2p/go-vecroute/pkg/interfaces"
	"github.com/dep2p/go-vecroute/pkg/types"
)

// buildFxApp 构建 Fx 应用
//
// 加载顺序（按依赖）：
//  1. 基础：registry → metrics → transport
//  2. 策略：trust → scoring → classifier
//  3. 运行：health → routing → snapshot
//  4. 用户扩展与 Mesh 组件注入
func buildFxApp(cfg *config.Config, o *options, mesh *Mesh) (*fx.App, error) {
	// ════════════════════════════════════════════════════════════════════════
	// 1. 配置验证（前置）
	// ════════════════════════════════════════════════════════════════════════
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	modules := []fx.Option{
		fx.Supply(cfg),
	}

	// ════════════════════════════════════════════════════════════════════════
	// 2. 注入的外部组件
	// ════════════════════════════════════════════════════════════════════════
	if o.clock != nil {
		clk := o.clock
		modules = append(modules, fx.Provide(func() clock.Clock { return clk }))
	}
	if o.registerer != nil {
		r := o.registerer
		modules = append(modules, fx.Provide(func() prometheus.Registerer { return r }))
	}
	if o.transport != nil {
		t := o.transport
		modules = append(modules, fx.Provide(
			fx.Annotate(
				func() interfaces.Transport { return t },
				fx.ResultTags(`name:"transport_override"`),
			),
		))
	}

	// ════════════════════════════════════════════════════════════════════════
	// 3. 核心模块
	// ════════════════════════════════════════════════════════════════════════
	modules = append(modules,
		registry.Module(),
		metrics.Module(),
		transport.Module(),
		trust.Module(),
		scoring.Module(),
		classifier.Module(),
		health.Module(),
		routing.Module(),
		snapshot.Module(),
	)

	// ════════════════════════════════════════════════════════════════════════
	// 4. 用户扩展（Fx Options）
	// ════════════════════════════════════════════════════════════════════════
	if len(o.fxOptions) > 0 {
		modules = append(modules, o.fxOptions...)
	}

	// ════════════════════════════════════════════════════════════════════════
	// 5. Mesh 组件注入
	// ════════════════════════════════════════════════════════════════════════
	modules = append(modules, fx.Invoke(injectMeshComponents(mesh)))

	// 禁用 Fx 日志输出（避免干扰用户日志）
	modules = append(modules,
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: zap.NewNop()}
		}),
	)

	app := fx.New(modules...)
	if err := app.Err(); err != nil {
		return nil, fmt.Errorf("assemble mesh: %w", err)
	}
	return app, nil
}

// meshInjectParams Mesh 组件注入参数
type meshInjectParams struct {
	fx.In

	Registry    *registry.Registry
	Engine      *routing.Engine
	Monitor     *health.Monitor
	Trust       *trust.System
	Snapshots   *snapshot.Manager
	Transport   interfaces.Transport
	Classifier  interfaces.Classifier
	RoleCenters map[types.Role]types.Vector
	Gatherer    prometheus.Gatherer
}

// injectMeshComponents 创建 Mesh 组件注入函数
func injectMeshComponents(mesh *Mesh) interface{} {
	return func(p meshInjectParams) {
		mesh.reg = p.Registry
		mesh.engine = p.Engine
		mesh.monitor = p.Monitor
		mesh.trust = p.Trust
		mesh.snapshots = p.Snapshots
		mesh.transport = p.Transport
		mesh.classifier = p.Classifier
		mesh.centers = p.RoleCenters
		mesh.gatherer = p.Gatherer
	}
}
