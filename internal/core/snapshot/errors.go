package snapshot

import "errors"

var (
	// ErrNotFound 快照不存在
	ErrNotFound = errors.New("snapshot: not found")

	// ErrClosed 存储已关闭
	ErrClosed = errors.New("snapshot: store closed")

	// ErrDisabled 未启用快照存储
	ErrDisabled = errors.New("snapshot: storage disabled")

	// ErrInvalidConfig 配置无效
	ErrInvalidConfig = errors.New("snapshot: invalid config")
)
