package types

import "errors"

// ============================================================================
//                              向量相关错误
// ============================================================================

var (
	// ErrDimensionMismatch 向量维度不一致
	ErrDimensionMismatch = errors.New("dimension mismatch")
)

// ============================================================================
//                              路由相关错误
// ============================================================================

var (
	// ErrUnknownSection 请求无法映射到任何 section
	ErrUnknownSection = errors.New("unknown section")

	// ErrNoEligibleCandidate 当前节点没有可用候选
	ErrNoEligibleCandidate = errors.New("no eligible candidate")

	// ErrSectionFailure 目标 section 没有存活且有容量的节点
	ErrSectionFailure = errors.New("section failure")

	// ErrHopLimitExceeded 超过最大跳数
	ErrHopLimitExceeded = errors.New("hop limit exceeded")

	// ErrStuck 局部极小且面路由无法逃逸
	ErrStuck = errors.New("route stuck")
)

// ============================================================================
//                              注册表相关错误
// ============================================================================

var (
	// ErrNodeNotFound 节点不存在
	ErrNodeNotFound = errors.New("node not found")

	// ErrNodeExists 节点已存在
	ErrNodeExists = errors.New("node already exists")

	// ErrInvalidNode 节点参数无效
	ErrInvalidNode = errors.New("invalid node")

	// ErrInvalidRole 角色不在封闭集合内
	ErrInvalidRole = errors.New("invalid role")
)

// ============================================================================
//                              传输相关错误
// ============================================================================

var (
	// ErrNodeUnreachable 节点不可达
	ErrNodeUnreachable = errors.New("node unreachable")
)
