// Package main 提供 vecroute 命令行入口
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dep2p/go-vecroute"
	"github.com/dep2p/go-vecroute/config"
	"github.com/dep2p/go-vecroute/internal/util/logger"
)

var log = logger.Logger("cmd")

// ═══════════════════════════════════════════════════════════════════════════
// 全局参数
// ═══════════════════════════════════════════════════════════════════════════
var (
	configFile string
	preset     string
	mode       string
	logLevel   string
	jsonOutput bool

	// 模拟节点生成
	perRole int
	knn     int
	seed    int64

	rootCmd = &cobra.Command{
		Use:   "vecroute",
		Short: "Vector-scored mesh routing simulator",
		Long: `vecroute places nodes in a semantic vector space, routes requests
hop by hop toward the target role section and reroutes around dead,
saturated or untrusted nodes.`,
		Version:       vecroute.VersionInfo(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if logLevel != "" {
				logger.ApplyLevelSpec(logLevel)
			}
		},
	}
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configFile, "config", "c", "", "配置文件路径（.json/.yaml）")
	pf.StringVar(&preset, "preset", string(vecroute.PresetSimulation), "预设配置 (simulation/production)")
	pf.StringVar(&mode, "mode", "", "评分模式覆盖 (role/geometric)")
	pf.StringVar(&logLevel, "log-level", "", "日志级别，如 routing=debug,warn")
	pf.BoolVar(&jsonOutput, "json", false, "以 JSON 输出")

	pf.IntVar(&perRole, "per-role", 4, "每个角色生成的节点数")
	pf.IntVar(&knn, "k", 5, "KNN 邻居数")
	pf.Int64Var(&seed, "seed", 1, "随机种子")

	rootCmd.AddCommand(simulateCmd, routeCmd, stateCmd, snapshotCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig 按 --config / --preset 生成配置并应用命令行覆盖
func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configFile != "" {
		cfg, err = config.LoadFile(configFile)
	} else {
		cfg, err = vecroute.Preset(preset).Config()
	}
	if err != nil {
		return nil, err
	}
	if mode != "" {
		cfg.Scoring.Mode = mode
	}
	return cfg, nil
}

// seedOptions 由命令行参数生成节点参数
func seedOptions() vecroute.SeedOptions {
	opts := vecroute.DefaultSeedOptions()
	opts.PerRole = perRole
	opts.K = knn
	opts.Seed = seed
	return opts
}

// newMesh 创建网格（未启动）
func newMesh(mutate func(*config.Config)) (*vecroute.Mesh, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if mutate != nil {
		mutate(cfg)
	}
	return vecroute.New(vecroute.WithConfig(cfg))
}

// newSeededMesh 创建网格并生成模拟节点（未启动）
func newSeededMesh(mutate func(*config.Config)) (*vecroute.Mesh, error) {
	mesh, err := newMesh(mutate)
	if err != nil {
		return nil, err
	}
	if _, err := mesh.Seed(seedOptions()); err != nil {
		_ = mesh.Stop(context.Background())
		return nil, err
	}
	log.Debug("生成模拟网格", "nodes", mesh.Diagnostics().Nodes)
	return mesh, nil
}
