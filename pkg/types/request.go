package types

import (
	"encoding/json"
	"time"
)

// Request 路由请求
//
// Role 与 Target 均为可选：未指定 Role 时由分类器根据 Text 或 Target 推断，
// 未指定 Target 时由嵌入器从 Text 生成。
type Request struct {
	ID      string
	Text    string
	Role    Role
	Target  Vector
	Payload json.RawMessage
}

// ExecuteRequest 节点 POST /execute 的请求体
type ExecuteRequest struct {
	RequestID string          `json:"request_id"`
	Text      string          `json:"text,omitempty"`
	Role      string          `json:"role"`
	Hop       int             `json:"hop"`
	From      NodeID          `json:"from,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// ExecuteResult 节点执行结果
type ExecuteResult struct {
	NodeID  NodeID
	Latency time.Duration
	Body    json.RawMessage
}

// NodeReport 节点 GET /metrics 的自报状态
type NodeReport struct {
	Load      int     `json:"load"`
	Capacity  int     `json:"capacity"`
	LatencyMS float64 `json:"latency_ms"`
	Alive     bool    `json:"alive"`
}

// Latency 返回自报延迟
func (r NodeReport) Latency() time.Duration {
	return time.Duration(r.LatencyMS * float64(time.Millisecond))
}
