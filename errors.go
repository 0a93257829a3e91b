package vecroute

import "errors"

// 公共错误定义
var (
	// ────────────────────────────────────────────────────────────────────────
	// 生命周期错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrNotStarted Mesh 未启动
	ErrNotStarted = errors.New("mesh not started")

	// ErrAlreadyStarted Mesh 已启动
	ErrAlreadyStarted = errors.New("mesh already started")

	// ErrMeshClosed Mesh 已停止，不能再次启动
	ErrMeshClosed = errors.New("mesh closed")

	// ────────────────────────────────────────────────────────────────────────
	// 模拟操作错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrNotSimulated 当前传输不是模拟传输
	ErrNotSimulated = errors.New("transport is not simulated")
)
