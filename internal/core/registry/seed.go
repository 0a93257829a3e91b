package registry

import (
	"fmt"
	"math/rand"

	"github.com/dep2p/go-vecroute/internal/core/vecspace"
	"github.com/dep2p/go-vecroute/pkg/types"
)

// SeedOptions 按角色生成模拟节点的参数
type SeedOptions struct {
	// PerRole 每个角色的节点数
	PerRole int

	// Jitter 围绕角色中心的扰动幅度
	Jitter float64

	// Capacity 每个节点的容量
	Capacity int

	// Trust 初始信任值
	Trust float64

	// K KNN 邻居数，0 表示不建边
	K int

	// Seed 随机种子
	Seed int64

	// URLFormat 节点 URL 格式，参数为节点 ID，为空则不设置
	URLFormat string
}

// DefaultSeedOptions 返回默认生成参数
func DefaultSeedOptions() SeedOptions {
	return SeedOptions{
		PerRole:  4,
		Jitter:   0.15,
		Capacity: 5,
		Trust:    0.5,
		K:        5,
		Seed:     1,
	}
}

// SeedSections 围绕每个角色中心生成节点，并按 KNN 建立连通拓扑
//
// centers 缺少的角色不会生成节点。节点 ID 依次为 N000, N001, ...
func (r *Registry) SeedSections(centers map[types.Role]types.Vector, opts SeedOptions) ([]types.NodeID, error) {
	if opts.PerRole <= 0 || opts.Capacity <= 0 {
		return nil, fmt.Errorf("%w: per-role count and capacity must be positive", ErrInvalidConfig)
	}
	rng := rand.New(rand.NewSource(opts.Seed))

	var ids []types.NodeID
	seq := r.Len()
	for _, role := range types.AllRoles() {
		center, ok := centers[role]
		if !ok {
			continue
		}
		for i := 0; i < opts.PerRole; i++ {
			v := make(types.Vector, len(center))
			for j := range center {
				v[j] = center[j] + rng.NormFloat64()*opts.Jitter
			}
			id := types.NodeID(fmt.Sprintf("N%03d", seq))
			seq++

			spec := types.NodeSpec{
				ID:       id,
				Vector:   vecspace.Normalize(v),
				Role:     role,
				Capacity: opts.Capacity,
				Trust:    opts.Trust,
				Alive:    true,
			}
			if opts.URLFormat != "" {
				spec.URL = fmt.Sprintf(opts.URLFormat, id)
			}
			if err := r.Add(spec); err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
	}

	if opts.K > 0 {
		r.BuildKNN(opts.K)
		r.EnsureConnected()
	}
	log.Info("生成模拟节点", "nodes", len(ids), "k", opts.K)
	return ids, nil
}
