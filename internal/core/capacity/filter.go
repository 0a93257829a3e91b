// Package capacity 实现容量过滤
//
// 过滤是纯函数：只保留存活且 load < capacity 的节点，输入顺序不变。
// 空结果表示没有可用候选，不是错误。
package capacity

import "github.com/dep2p/go-vecroute/pkg/types"

// Eligible 节点是否可接收请求
func Eligible(n types.NodeInfo) bool {
	return n.Alive && n.Load < n.Capacity
}

// Filter 返回可接收请求的节点
func Filter(candidates []types.NodeInfo) []types.NodeInfo {
	out := make([]types.NodeInfo, 0, len(candidates))
	for _, n := range candidates {
		if Eligible(n) {
			out = append(out, n)
		}
	}
	return out
}

// Without 返回去掉 excluded 中节点后的列表
func Without(candidates []types.NodeInfo, excluded map[types.NodeID]struct{}) []types.NodeInfo {
	if len(excluded) == 0 {
		return candidates
	}
	out := make([]types.NodeInfo, 0, len(candidates))
	for _, n := range candidates {
		if _, skip := excluded[n.ID]; !skip {
			out = append(out, n)
		}
	}
	return out
}
