package interfaces

import (
	"context"

	"github.com/dep2p/go-vecroute/pkg/types"
)

// StatusChangeFunc 节点存活状态变化回调
type StatusChangeFunc func(id types.NodeID, alive bool)

// HealthMonitor 健康监控
type HealthMonitor interface {
	// Start 启动周期探测
	Start(ctx context.Context) error

	// Stop 停止周期探测
	Stop() error

	// PollOnce 同步执行一轮探测
	PollOnce(ctx context.Context) error

	// OnStatusChange 注册状态变化回调
	OnStatusChange(fn StatusChangeFunc)
}
