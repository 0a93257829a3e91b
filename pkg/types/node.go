package types

import "time"

// NodeSpec 注册节点时的输入
type NodeSpec struct {
	ID       NodeID
	URL      string
	Vector   Vector
	Role     Role
	Capacity int
	Load     int
	Trust    float64
	Latency  time.Duration
	Alive    bool
}

// NodeInfo 节点状态快照
//
// 由注册表在节点锁内复制生成，字段之间相互一致。
type NodeInfo struct {
	ID        NodeID
	URL       string
	Vector    Vector
	Role      Role
	Load      int
	Capacity  int
	Trust     float64
	Latency   time.Duration
	Alive     bool
	Neighbors []NodeID
}

// HasCapacity 存活且 load < capacity
func (n NodeInfo) HasCapacity() bool {
	return n.Alive && n.Load < n.Capacity
}

// Utilization 返回 load/capacity，capacity 非正时视为满载
func (n NodeInfo) Utilization() float64 {
	if n.Capacity <= 0 {
		return 1
	}
	return float64(n.Load) / float64(n.Capacity)
}
