package interfaces

//go:generate mockgen -destination=mocks/transport_mock.go -package=mocks . Forwarder,Prober

import (
	"context"
	"time"

	"github.com/dep2p/go-vecroute/pkg/types"
)

// Forwarder 转发请求到节点（POST /execute）
type Forwarder interface {
	Execute(ctx context.Context, node types.NodeInfo, req types.ExecuteRequest) (types.ExecuteResult, error)
}

// Prober 探测节点（GET /health, GET /metrics）
type Prober interface {
	// Health 返回探测 RTT
	Health(ctx context.Context, node types.NodeInfo) (time.Duration, error)

	// Metrics 返回节点自报状态
	Metrics(ctx context.Context, node types.NodeInfo) (types.NodeReport, error)
}

// Transport 节点传输
type Transport interface {
	Forwarder
	Prober
}
