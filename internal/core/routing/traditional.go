package routing

import (
	"github.com/dep2p/go-vecroute/internal/core/vecspace"
	"github.com/dep2p/go-vecroute/pkg/types"
)

// TradResult 传统路由结果
type TradResult struct {
	Path    []types.NodeID
	Success bool
}

// Traditional 只看距离的贪心路由
//
// 每步走向离目标最近且比当前更近的未访问邻居，不考虑负载、信任、容量与存活，
// 也不实际转发。终点属于目标角色（geometric 模式下或已收敛）且路径上所有节点存活才算成功。
func (e *Engine) Traditional(origin types.NodeID, role types.Role, target types.Vector) (TradResult, error) {
	cur, err := e.reg.Get(origin)
	if err != nil {
		return TradResult{}, err
	}
	curDist, err := vecspace.Euclidean(cur.Vector, target)
	if err != nil {
		return TradResult{}, err
	}

	path := []types.NodeID{cur.ID}
	allAlive := cur.Alive
	visited := nodeSet{cur.ID: {}}

	for step := 0; step < e.cfg.MaxHops; step++ {
		if cur.Role == role && (e.Mode() == types.ModeRole || curDist < e.cfg.ConvergenceThreshold) {
			break
		}
		neighbors, err := e.reg.NeighborsOf(cur.ID)
		if err != nil {
			return TradResult{}, err
		}

		var (
			best     types.NodeInfo
			bestDist = curDist
			found    bool
		)
		for _, n := range neighbors {
			if visited.has(n.ID) {
				continue
			}
			d, err := vecspace.Euclidean(n.Vector, target)
			if err != nil {
				return TradResult{}, err
			}
			if d < bestDist || (found && d == bestDist && n.ID < best.ID) {
				best, bestDist, found = n, d, true
			}
		}
		if !found {
			break
		}

		cur, curDist = best, bestDist
		visited[cur.ID] = struct{}{}
		path = append(path, cur.ID)
		allAlive = allAlive && cur.Alive
	}

	return TradResult{Path: path, Success: allAlive && cur.Role == role}, nil
}
