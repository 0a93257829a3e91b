package classifier

import (
	"strings"

	"github.com/dep2p/go-vecroute/internal/core/vecspace"
	"github.com/dep2p/go-vecroute/pkg/interfaces"
	"github.com/dep2p/go-vecroute/pkg/types"
)

// DefaultKeywords 默认角色关键词表
var DefaultKeywords = map[types.Role][]string{
	types.RoleAuth:     {"auth", "login", "authenticate", "token", "credential", "password"},
	types.RoleDatabase: {"database", "db", "query", "sql", "data", "store", "persist"},
	types.RoleCompute:  {"compute", "calculate", "process", "execute", "run", "task"},
	types.RoleVision:   {"vision", "image", "visual", "detect", "recognize", "camera"},
	types.RoleStorage:  {"storage", "file", "upload", "download", "blob", "object"},
	types.RoleProxy:    {"proxy", "forward", "route", "gateway", "redirect"},
}

// KeywordClassifier 关键词分类器
type KeywordClassifier struct {
	keywords map[types.Role][]string
}

var _ interfaces.Classifier = (*KeywordClassifier)(nil)

// NewKeywordClassifier 创建关键词分类器，keywords 为空时使用 DefaultKeywords
func NewKeywordClassifier(keywords map[types.Role][]string) *KeywordClassifier {
	if len(keywords) == 0 {
		keywords = DefaultKeywords
	}
	return &KeywordClassifier{keywords: keywords}
}

// Classify 实现 interfaces.Classifier
//
// 词以关键词为前缀即算命中（"uploads" 命中 "upload"）。
// 命中数相同时按角色顺序取第一个。
func (c *KeywordClassifier) Classify(text string, _ types.Vector) (types.Role, bool) {
	tokens := vecspace.Tokenize(text)
	if len(tokens) == 0 {
		return types.RoleUnknown, false
	}

	best, bestHits := types.RoleUnknown, 0
	for _, role := range types.AllRoles() {
		hits := 0
		for _, tok := range tokens {
			for _, kw := range c.keywords[role] {
				if strings.HasPrefix(tok, kw) {
					hits++
					break
				}
			}
		}
		if hits > bestHits {
			best, bestHits = role, hits
		}
	}
	return best, bestHits > 0
}

// Description 返回角色的关键词描述文本（用于生成角色中心）
func (c *KeywordClassifier) Description(role types.Role) string {
	return strings.Join(c.keywords[role], " ")
}

// RoleCenters 用嵌入器将每个角色的关键词描述映射为角色中心
func RoleCenters(e interfaces.Embedder, kc *KeywordClassifier) map[types.Role]types.Vector {
	out := make(map[types.Role]types.Vector, len(types.AllRoles()))
	for _, role := range types.AllRoles() {
		out[role] = e.Embed(kc.Description(role))
	}
	return out
}
