package types

// ============================================================================
//                              NodeID - 节点标识
// ============================================================================

// NodeID 节点唯一标识
type NodeID string

// String 返回节点 ID 字符串
func (id NodeID) String() string {
	return string(id)
}

// IsEmpty 检查 ID 是否为空
func (id NodeID) IsEmpty() bool {
	return id == ""
}

// ShortString 返回缩短的 ID 表示（用于日志）
func (id NodeID) ShortString() string {
	if len(id) <= 8 {
		return string(id)
	}
	return string(id[:8])
}

// ============================================================================
//                              Vector - 嵌入向量
// ============================================================================

// Vector 固定维度的实数向量
//
// 同一部署中所有向量维度相同（D），跨维度运算返回 ErrDimensionMismatch。
type Vector []float64

// Dim 返回向量维度
func (v Vector) Dim() int {
	return len(v)
}

// Clone 返回向量的深拷贝
func (v Vector) Clone() Vector {
	if v == nil {
		return nil
	}
	out := make(Vector, len(v))
	copy(out, v)
	return out
}

// Equal 检查两个向量是否逐项相等
func (v Vector) Equal(o Vector) bool {
	if len(v) != len(o) {
		return false
	}
	for i := range v {
		if v[i] != o[i] {
			return false
		}
	}
	return true
}
