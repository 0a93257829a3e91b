package config

// VectorConfig 向量空间配置
type VectorConfig struct {
	// Dimension 嵌入维度 D，同一部署内所有向量一致
	// 默认值: 32
	Dimension int `json:"dimension" yaml:"dimension" validate:"gt=0,lte=4096"`
}

// DefaultVectorConfig 返回默认向量配置
func DefaultVectorConfig() VectorConfig {
	return VectorConfig{Dimension: 32}
}
