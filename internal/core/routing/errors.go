package routing

import "errors"

var (
	// ErrInvalidConfig 无效的配置
	ErrInvalidConfig = errors.New("routing: invalid config")

	// ErrDimensionConflict 嵌入器与注册表维度不一致
	ErrDimensionConflict = errors.New("routing: embedder dimension differs from registry")
)
