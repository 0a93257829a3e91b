package vecroute

import (
	"github.com/dep2p/go-vecroute/config"
)

// ════════════════════════════════════════════════════════════════════════════
//                              预设配置
// ════════════════════════════════════════════════════════════════════════════

// Preset 预设名称
type Preset string

const (
	// PresetDefault 默认配置：模拟传输，不持久化
	PresetDefault Preset = ""

	// PresetSimulation 模拟预设
	//
	// 适用场景：本地实验、测试、CLI simulate
	// 特点：
	//   - 内存模拟传输
	//   - 1s 探测周期
	//   - 内存快照
	PresetSimulation Preset = "simulation"

	// PresetProduction 生产预设
	//
	// 适用场景：节点为真实 HTTP 服务
	// 特点：
	//   - HTTP 传输与熔断
	//   - 指标一致性检查
	//   - 磁盘快照，每分钟一次
	PresetProduction Preset = "production"
)

// Config 返回应用预设后的新配置
func (p Preset) Config() (*config.Config, error) {
	cfg := config.NewConfig()
	if err := config.ApplyPreset(cfg, string(p)); err != nil {
		return nil, err
	}
	return cfg, nil
}
