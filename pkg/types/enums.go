package types

import (
	"fmt"
	"strings"
)

// ============================================================================
//                              Role - 服务角色（Section）
// ============================================================================

// Role 服务角色
//
// 角色集合是封闭的，每个角色对应一个 section。
type Role int

const (
	// RoleUnknown 未知角色
	RoleUnknown Role = iota
	// RoleAuth 认证
	RoleAuth
	// RoleDatabase 数据库
	RoleDatabase
	// RoleCompute 计算
	RoleCompute
	// RoleVision 视觉
	RoleVision
	// RoleStorage 存储
	RoleStorage
	// RoleProxy 代理
	RoleProxy
)

// AllRoles 返回封闭角色集合（按 cluster 索引排序）
func AllRoles() []Role {
	return []Role{RoleAuth, RoleDatabase, RoleCompute, RoleVision, RoleStorage, RoleProxy}
}

// String 返回角色名
func (r Role) String() string {
	switch r {
	case RoleAuth:
		return "auth"
	case RoleDatabase:
		return "database"
	case RoleCompute:
		return "compute"
	case RoleVision:
		return "vision"
	case RoleStorage:
		return "storage"
	case RoleProxy:
		return "proxy"
	default:
		return "unknown"
	}
}

// IsValid 检查角色是否属于封闭集合
func (r Role) IsValid() bool {
	return r >= RoleAuth && r <= RoleProxy
}

// Index 返回角色在封闭集合中的索引（network-state 的 cluster 字段）
//
// 未知角色返回 -1。
func (r Role) Index() int {
	if !r.IsValid() {
		return -1
	}
	return int(r) - 1
}

// MarshalText 实现 encoding.TextMarshaler
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText 实现 encoding.TextUnmarshaler
func (r *Role) UnmarshalText(text []byte) error {
	role, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = role
	return nil
}

// ParseRole 解析角色名（大小写不敏感）
func ParseRole(s string) (Role, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, r := range AllRoles() {
		if r.String() == name {
			return r, nil
		}
	}
	return RoleUnknown, fmt.Errorf("%w: %q", ErrInvalidRole, s)
}

// ============================================================================
//                              ScoringMode - 评分模式
// ============================================================================

// ScoringMode 评分策略
type ScoringMode int

const (
	// ModeRole 角色评分：0.5·cos + 0.2·trust − 0.2·load/cap − 0.1·latency
	ModeRole ScoringMode = iota
	// ModeGeometric 几何评分：α·cos + β·Δdist − γ·normLoad + δ·trust
	ModeGeometric
)

// String 返回评分模式名
func (m ScoringMode) String() string {
	switch m {
	case ModeRole:
		return "role"
	case ModeGeometric:
		return "geometric"
	default:
		return "unknown"
	}
}

// MarshalText 实现 encoding.TextMarshaler
func (m ScoringMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText 实现 encoding.TextUnmarshaler
func (m *ScoringMode) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "role", "":
		*m = ModeRole
	case "geometric":
		*m = ModeGeometric
	default:
		return fmt.Errorf("unknown scoring mode %q", string(text))
	}
	return nil
}

// ============================================================================
//                              HopMethod - 选路方式
// ============================================================================

// HopMethod 单跳的选择方式
type HopMethod int

const (
	// MethodOrigin 起点（未转发）
	MethodOrigin HopMethod = iota
	// MethodGreedy 按评分贪心选择
	MethodGreedy
	// MethodCache 命中路由记忆
	MethodCache
	// MethodBalanced 负载均衡分流
	MethodBalanced
	// MethodFace 面路由逃逸
	MethodFace
)

// String 返回选路方式名
func (m HopMethod) String() string {
	switch m {
	case MethodOrigin:
		return "origin"
	case MethodGreedy:
		return "greedy"
	case MethodCache:
		return "cache"
	case MethodBalanced:
		return "balanced"
	case MethodFace:
		return "face"
	default:
		return "unknown"
	}
}

// MarshalText 实现 encoding.TextMarshaler
func (m HopMethod) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// ============================================================================
//                              Outcome - 路由结果
// ============================================================================

// Outcome 路由状态机的终止状态
type Outcome int

const (
	// OutcomeTerminal 到达终点
	OutcomeTerminal Outcome = iota
	// OutcomeSectionFailure 目标 section 无可用节点
	OutcomeSectionFailure
	// OutcomeStuck 无法继续（跳数耗尽或面路由失败）
	OutcomeStuck
)

// String 返回结果名
func (o Outcome) String() string {
	switch o {
	case OutcomeTerminal:
		return "terminal"
	case OutcomeSectionFailure:
		return "section_failure"
	case OutcomeStuck:
		return "stuck"
	default:
		return "unknown"
	}
}

// MarshalText 实现 encoding.TextMarshaler
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}
