package config

// StorageConfig 快照存储配置
type StorageConfig struct {
	// Enabled 是否启用快照存储
	// 默认值: false
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Path BadgerDB 数据目录
	Path string `json:"path" yaml:"path"`

	// InMemory 使用内存模式（测试与模拟）
	// 默认值: false
	InMemory bool `json:"in_memory" yaml:"in_memory"`

	// SnapshotInterval 周期快照间隔，0 表示只手动快照
	// 默认值: 0
	SnapshotInterval Duration `json:"snapshot_interval" yaml:"snapshot_interval" validate:"gte=0"`

	// Retain 保留的快照数，0 表示不清理
	// 默认值: 10
	Retain int `json:"retain" yaml:"retain" validate:"gte=0"`
}

// DefaultStorageConfig 返回默认存储配置
func DefaultStorageConfig() StorageConfig {
	return StorageConfig{Retain: 10}
}

// Validate 跨字段校验
func (c *StorageConfig) Validate() error {
	if c.Enabled && !c.InMemory && c.Path == "" {
		return invalid("Storage.Path", "required unless in_memory is set")
	}
	return nil
}
