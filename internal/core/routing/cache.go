package routing

import (
	"encoding/binary"
	"math"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/spaolacci/murmur3"

	"github.com/dep2p/go-vecroute/pkg/types"
)

// ============================================================================
//                              路由记忆
// ============================================================================

// RouteCache 记住 (当前节点, 量化目标) 上次成功的下一跳
//
// 记忆只是建议：调用方必须确认建议的节点仍然合格。
type RouteCache struct {
	quantum float64
	lru     *expirable.LRU[uint64, types.NodeID]
}

// NewRouteCache 创建路由记忆
func NewRouteCache(cfg CacheConfig) *RouteCache {
	return &RouteCache{
		quantum: cfg.Quantum,
		lru:     expirable.NewLRU[uint64, types.NodeID](cfg.Size, nil, cfg.TTL),
	}
}

// Key 计算记忆键：当前节点 ID 与按 quantum 量化的目标向量的 murmur3 哈希
func (c *RouteCache) Key(current types.NodeID, target types.Vector) uint64 {
	h := murmur3.New64()
	_, _ = h.Write([]byte(current))
	_, _ = h.Write([]byte{0})

	var buf [8]byte
	for _, x := range target {
		binary.LittleEndian.PutUint64(buf[:], uint64(int64(math.Round(x/c.quantum))))
		_, _ = h.Write(buf[:])
	}
	return h.Sum64()
}

// Get 返回记住的下一跳
func (c *RouteCache) Get(current types.NodeID, target types.Vector) (types.NodeID, bool) {
	return c.lru.Get(c.Key(current, target))
}

// Put 记住下一跳
func (c *RouteCache) Put(current types.NodeID, target types.Vector, next types.NodeID) {
	c.lru.Add(c.Key(current, target), next)
}

// Invalidate 删除记忆
func (c *RouteCache) Invalidate(current types.NodeID, target types.Vector) {
	c.lru.Remove(c.Key(current, target))
}

// Len 返回记忆条目数
func (c *RouteCache) Len() int {
	return c.lru.Len()
}

// Purge 清空记忆
func (c *RouteCache) Purge() {
	c.lru.Purge()
}
