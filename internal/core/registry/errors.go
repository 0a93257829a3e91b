package registry

import "errors"

var (
	// ErrSelfLink 节点不能与自身相连
	ErrSelfLink = errors.New("registry: cannot link node to itself")

	// ErrInvalidConfig 无效配置
	ErrInvalidConfig = errors.New("registry: invalid config")

	// ErrNotConnected 图不连通
	ErrNotConnected = errors.New("registry: graph not connected")

	// ErrAsymmetric 邻接关系不对称
	ErrAsymmetric = errors.New("registry: asymmetric adjacency")

	// ErrIsolated 存在孤立节点
	ErrIsolated = errors.New("registry: isolated node")
)
