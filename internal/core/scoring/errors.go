package scoring

import "errors"

var (
	// ErrInvalidWeights 无效权重
	ErrInvalidWeights = errors.New("scoring: invalid weights")

	// ErrInvalidMode 未知评分模式
	ErrInvalidMode = errors.New("scoring: invalid mode")
)
