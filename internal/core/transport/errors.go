package transport

import "errors"

var (
	// ErrBadStatus 节点返回非 2xx 状态码
	ErrBadStatus = errors.New("transport: unexpected status")

	// ErrNoURL 节点没有配置 URL
	ErrNoURL = errors.New("transport: node has no url")

	// ErrInjected 模拟传输注入的失败
	ErrInjected = errors.New("transport: injected failure")
)
