package config

import (
	"errors"
	"fmt"
	"time"
)

// ApplyPreset 应用预设配置
//
// 支持的预设：
//   - "simulation": 内存传输、快速探测、内存快照
//   - "production": HTTP 传输、一致性检查、磁盘快照
func ApplyPreset(cfg *Config, name string) error {
	if cfg == nil {
		return errors.New("config is nil")
	}

	switch name {
	case "simulation":
		applySimulationPreset(cfg)
	case "production":
		applyProductionPreset(cfg)
	case "":
	default:
		return fmt.Errorf("unknown preset: %s", name)
	}
	return nil
}

func applySimulationPreset(cfg *Config) {
	cfg.Transport.Kind = "sim"
	cfg.Health.Interval = Duration(time.Second)
	cfg.Health.ProbeTimeout = Duration(200 * time.Millisecond)
	cfg.Routing.MaxHops = 10
	cfg.Storage.Enabled = true
	cfg.Storage.InMemory = true
}

func applyProductionPreset(cfg *Config) {
	cfg.Transport.Kind = "http"
	cfg.Transport.Breaker.Enabled = true
	cfg.Health.CheckMetrics = true
	cfg.Health.ProbesPerSecond = 50
	cfg.Storage.Enabled = true
	cfg.Storage.InMemory = false
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = "./data/snapshots"
	}
	cfg.Storage.SnapshotInterval = Duration(time.Minute)
}

// NewSimulationConfig 创建模拟预设配置
func NewSimulationConfig() *Config {
	cfg := NewConfig()
	applySimulationPreset(cfg)
	return cfg
}
