package config

// TopologyConfig 拓扑与注册表配置
type TopologyConfig struct {
	// K KNN 邻居数
	// 默认值: 5
	K int `json:"k" yaml:"k" validate:"gte=0"`

	// HealLinks 节点失效后每个存活前邻居补偿的最大边数
	// 默认值: 3
	HealLinks int `json:"heal_links" yaml:"heal_links" validate:"gte=0"`

	// RelinkLinks 恢复节点重新连接的边数
	// 默认值: 3
	RelinkLinks int `json:"relink_links" yaml:"relink_links" validate:"gte=0"`

	// LatencyAlpha 延迟 EWMA 平滑系数
	// 默认值: 0.2
	LatencyAlpha float64 `json:"latency_alpha" yaml:"latency_alpha" validate:"gt=0,lte=1"`

	// Seed 模拟节点生成参数
	Seed SeedConfig `json:"seed" yaml:"seed"`
}

// SeedConfig 模拟节点生成参数
type SeedConfig struct {
	// PerRole 每个角色的节点数
	PerRole int `json:"per_role" yaml:"per_role" validate:"gte=0"`

	// Jitter 围绕角色中心的扰动
	Jitter float64 `json:"jitter" yaml:"jitter" validate:"gte=0"`

	// Capacity 节点容量
	Capacity int `json:"capacity" yaml:"capacity" validate:"gt=0"`

	// InitialTrust 初始信任值
	InitialTrust float64 `json:"initial_trust" yaml:"initial_trust" validate:"gte=0,lte=1"`

	// RandomSeed 随机种子
	RandomSeed int64 `json:"random_seed" yaml:"random_seed"`

	// URLFormat 节点 URL 格式（%s 为节点 ID）
	URLFormat string `json:"url_format" yaml:"url_format"`
}

// DefaultTopologyConfig 返回默认拓扑配置
func DefaultTopologyConfig() TopologyConfig {
	return TopologyConfig{
		K:            5,
		HealLinks:    3,
		RelinkLinks:  3,
		LatencyAlpha: 0.2,
		Seed: SeedConfig{
			PerRole:      4,
			Jitter:       0.15,
			Capacity:     5,
			InitialTrust: 0.5,
			RandomSeed:   1,
		},
	}
}
