package snapshot

import (
	"fmt"
	"time"

	"github.com/dep2p/go-vecroute/config"
)

// Config 快照配置
type Config struct {
	Enabled bool

	// Path 数据目录，InMemory 时忽略
	Path     string
	InMemory bool

	// Interval 自动快照周期，0 表示不自动保存
	Interval time.Duration

	// Retain 保留的快照数量，0 表示不限
	Retain int
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{Retain: 10}
}

// ConfigFromUnified 从统一配置创建快照配置
func ConfigFromUnified(cfg *config.Config) Config {
	if cfg == nil {
		return DefaultConfig()
	}
	s := cfg.Storage
	return Config{
		Enabled:  s.Enabled,
		Path:     s.Path,
		InMemory: s.InMemory,
		Interval: s.SnapshotInterval.Duration(),
		Retain:   s.Retain,
	}
}

// Validate 验证配置
func (c Config) Validate() error {
	if c.Enabled && !c.InMemory && c.Path == "" {
		return fmt.Errorf("%w: path required unless in-memory", ErrInvalidConfig)
	}
	if c.Interval < 0 || c.Retain < 0 {
		return fmt.Errorf("%w: interval and retain must be non-negative", ErrInvalidConfig)
	}
	return nil
}
