package classifier

import (
	"go.uber.org/fx"

	"github.com/dep2p/go-vecroute/config"
	"github.com/dep2p/go-vecroute/internal/core/registry"
	"github.com/dep2p/go-vecroute/internal/core/vecspace"
	"github.com/dep2p/go-vecroute/pkg/interfaces"
	"github.com/dep2p/go-vecroute/pkg/types"
)

// ModuleInput 模块输入依赖
type ModuleInput struct {
	fx.In

	UnifiedCfg *config.Config `optional:"true"`
	Registry   *registry.Registry
}

// ModuleOutput 模块输出
type ModuleOutput struct {
	fx.Out

	Embedder    interfaces.Embedder
	Keywords    *KeywordClassifier
	Classifier  interfaces.Classifier
	RoleCenters map[types.Role]types.Vector
}

// Module 返回分类器的 Fx 模块
//
// 提供的 Classifier 先按关键词判断文本，再按 section 均值判断目标向量。
func Module() fx.Option {
	return fx.Module("classifier",
		fx.Provide(ProvideServices),
	)
}

// ProvideServices 提供嵌入器与分类器链
func ProvideServices(input ModuleInput) ModuleOutput {
	dim := input.Registry.Dimension()
	if input.UnifiedCfg != nil {
		dim = input.UnifiedCfg.Vector.Dimension
	}
	embedder := vecspace.NewEmbedder(dim)
	keywords := NewKeywordClassifier(nil)
	centers := RoleCenters(embedder, keywords)

	return ModuleOutput{
		Embedder:    embedder,
		Keywords:    keywords,
		Classifier:  Chain{keywords, NewCentroidClassifier(input.Registry, centers)},
		RoleCenters: centers,
	}
}
