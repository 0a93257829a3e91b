package classifier

import (
	"github.com/dep2p/go-vecroute/internal/core/vecspace"
	"github.com/dep2p/go-vecroute/pkg/interfaces"
	"github.com/dep2p/go-vecroute/pkg/types"
)

// MemberSource 提供 section 成员（由注册表实现）
type MemberSource interface {
	Members(role types.Role) []types.NodeInfo
}

// CentroidClassifier 最近 section 均值分类器
type CentroidClassifier struct {
	members  MemberSource
	fallback map[types.Role]types.Vector
}

var _ interfaces.Classifier = (*CentroidClassifier)(nil)

// NewCentroidClassifier 创建均值分类器
//
// fallback 为 section 没有成员时使用的角色中心，可以为 nil。
func NewCentroidClassifier(members MemberSource, fallback map[types.Role]types.Vector) *CentroidClassifier {
	return &CentroidClassifier{members: members, fallback: fallback}
}

// Classify 实现 interfaces.Classifier
//
// 目标为零向量或维度不一致时无法判断。
func (c *CentroidClassifier) Classify(_ string, target types.Vector) (types.Role, bool) {
	if len(target) == 0 || vecspace.Magnitude(target) == 0 {
		return types.RoleUnknown, false
	}

	best, found := types.RoleUnknown, false
	bestSim := -2.0
	for _, role := range types.AllRoles() {
		center := c.centerOf(role)
		if center == nil {
			continue
		}
		sim, err := vecspace.Cosine(center, target)
		if err != nil {
			continue
		}
		if sim > bestSim {
			best, bestSim, found = role, sim, true
		}
	}
	return best, found
}

func (c *CentroidClassifier) centerOf(role types.Role) types.Vector {
	if c.members != nil {
		members := c.members.Members(role)
		if len(members) > 0 {
			vs := make([]types.Vector, 0, len(members))
			for _, m := range members {
				vs = append(vs, m.Vector)
			}
			if center, err := vecspace.Centroid(vs); err == nil {
				return center
			}
		}
	}
	return c.fallback[role]
}

// Chain 依次尝试的分类器链
type Chain []interfaces.Classifier

var _ interfaces.Classifier = Chain(nil)

// Classify 实现 interfaces.Classifier
func (ch Chain) Classify(text string, target types.Vector) (types.Role, bool) {
	for _, c := range ch {
		if c == nil {
			continue
		}
		if role, ok := c.Classify(text, target); ok {
			return role, true
		}
	}
	return types.RoleUnknown, false
}
