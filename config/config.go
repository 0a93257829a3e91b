// Package config 提供统一的配置管理
//
// 本包采用混合配置模式：
//   - 主 Config 结构体嵌入所有子配置
//   - 每个子配置在独立文件中定义
//   - 支持从 JSON / YAML 加载和保存配置
//   - 支持预设配置（simulation/production）
//
// 使用示例：
//
//	cfg := config.NewConfig()
//	cfg.Routing.MaxHops = 10
//
//	cfg, err := config.LoadFile("vecroute.yaml")
package config

// Config 是 vecroute 的完整配置结构
type Config struct {
	// Vector 向量空间配置
	Vector VectorConfig `json:"vector" yaml:"vector"`

	// Topology 拓扑与注册表配置
	Topology TopologyConfig `json:"topology" yaml:"topology"`

	// Trust 信任系统配置
	Trust TrustConfig `json:"trust" yaml:"trust"`

	// Health 健康监控配置
	Health HealthConfig `json:"health" yaml:"health"`

	// Scoring 评分配置
	Scoring ScoringConfig `json:"scoring" yaml:"scoring"`

	// Routing 路由配置
	Routing RoutingConfig `json:"routing" yaml:"routing"`

	// Transport 节点传输配置
	Transport TransportConfig `json:"transport" yaml:"transport"`

	// Storage 快照存储配置
	Storage StorageConfig `json:"storage" yaml:"storage"`

	// Metrics 指标配置
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`
}

// NewConfig 创建默认配置
func NewConfig() *Config {
	return &Config{
		Vector:    DefaultVectorConfig(),
		Topology:  DefaultTopologyConfig(),
		Trust:     DefaultTrustConfig(),
		Health:    DefaultHealthConfig(),
		Scoring:   DefaultScoringConfig(),
		Routing:   DefaultRoutingConfig(),
		Transport: DefaultTransportConfig(),
		Storage:   DefaultStorageConfig(),
		Metrics:   DefaultMetricsConfig(),
	}
}

// Validate 验证配置的有效性
//
// 先做结构体标签校验，再做跨字段校验。
func (c *Config) Validate() error {
	if err := validateStruct(c); err != nil {
		return err
	}
	if err := c.Trust.Validate(); err != nil {
		return err
	}
	if err := c.Health.Validate(); err != nil {
		return err
	}
	if err := c.Scoring.Validate(); err != nil {
		return err
	}
	if err := c.Routing.Validate(); err != nil {
		return err
	}
	return c.Storage.Validate()
}

// Clone 返回配置的拷贝
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	cloned := *c
	return &cloned
}
