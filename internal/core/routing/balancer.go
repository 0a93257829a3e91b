package routing

import (
	"math"

	arc "github.com/hashicorp/golang-lru/arc/v2"

	"github.com/dep2p/go-vecroute/internal/core/scoring"
	"github.com/dep2p/go-vecroute/pkg/types"
)

// Balancer 负载分流
//
// 记住每个 (起点, 当前节点) 决策点上次的选择，ARC 让频繁经过的决策点不被一次性流量挤出。若本次排名第一的仍是它，
// 且存在分数相差不超过 ratio 的其他候选，改选其中排名最高者。
type Balancer struct {
	ratio  float64
	recent *arc.ARCCache[string, types.NodeID]
}

// NewBalancer 创建负载分流器
func NewBalancer(size int, ratio float64) (*Balancer, error) {
	recent, err := arc.NewARC[string, types.NodeID](size)
	if err != nil {
		return nil, err
	}
	return &Balancer{ratio: ratio, recent: recent}, nil
}

func decisionKey(origin, current types.NodeID) string {
	return string(origin) + "|" + string(current)
}

// Pick 在已排序的候选中选择，返回下标以及是否发生了分流
func (b *Balancer) Pick(origin, current types.NodeID, ranked []scoring.Scored) (int, bool) {
	return b.Divert(origin, current, ranked, 0)
}

// Divert 以 ranked[preferred] 为首选，若它就是该决策点上次的选择，
// 改选分数不低于首选减去容差的其他候选中排名最高者
//
// 路由记忆给出的下一跳也经过这里，记忆不会绕过分流。
func (b *Balancer) Divert(origin, current types.NodeID, ranked []scoring.Scored, preferred int) (int, bool) {
	if len(ranked) < 2 || preferred < 0 || preferred >= len(ranked) {
		return preferred, false
	}
	last, ok := b.recent.Get(decisionKey(origin, current))
	if !ok || last != ranked[preferred].Node.ID {
		return preferred, false
	}

	base := ranked[preferred].Score
	tolerance := b.ratio * math.Abs(base)
	for i := range ranked {
		if i == preferred {
			continue
		}
		if base-ranked[i].Score <= tolerance {
			return i, true
		}
	}
	return preferred, false
}

// Record 记录决策点的选择
func (b *Balancer) Record(origin, current, chosen types.NodeID) {
	b.recent.Add(decisionKey(origin, current), chosen)
}
