package health

import "errors"

var (
	// ErrAlreadyStarted 监控器已启动
	ErrAlreadyStarted = errors.New("health: monitor already started")

	// ErrInvalidConfig 配置无效
	ErrInvalidConfig = errors.New("health: invalid config")

	// errManual 手动判定失效时记录的原因
	errManual = errors.New("health: marked dead by operator")
)
