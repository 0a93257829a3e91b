package interfaces

import "github.com/dep2p/go-vecroute/pkg/types"

// Classifier 将请求映射到 section
type Classifier interface {
	// Classify 返回请求所属角色；无法判断时 ok 为 false
	Classify(text string, target types.Vector) (role types.Role, ok bool)
}
