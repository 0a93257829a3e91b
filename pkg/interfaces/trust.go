package interfaces

import (
	"time"

	"github.com/dep2p/go-vecroute/pkg/types"
)

// TrustSystem 信任系统
//
// 每个方法在返回前同步写入注册表，返回更新后的信任值。
type TrustSystem interface {
	// OnSuccess 转发成功
	OnSuccess(id types.NodeID, latency time.Duration) (float64, error)

	// OnFailure 转发失败或超时
	OnFailure(id types.NodeID) (float64, error)

	// OnSlowResponse 响应成功但慢于预期
	OnSlowResponse(id types.NodeID, observed, expected time.Duration) (float64, error)

	// OnConsistency 节点自报与观测是否一致
	OnConsistency(id types.NodeID, agree bool) (float64, error)
}
