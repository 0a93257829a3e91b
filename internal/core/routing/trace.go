package routing

import (
	"fmt"

	"github.com/dep2p/go-vecroute/pkg/types"
)

// ScoreEntry 一个候选的评分记录
type ScoreEntry struct {
	Neighbor types.NodeID `json:"neighbor"`
	Score    float64      `json:"score"`
	Load     int          `json:"load"`
}

// Hop 路径上的一跳
type Hop struct {
	Step       int             `json:"step"`
	NodeID     types.NodeID    `json:"node_id"`
	Distance   float64         `json:"distance"`
	Scores     []ScoreEntry    `json:"scores"`
	ChosenNext types.NodeID    `json:"chosen_next,omitempty"`
	IsTerminal bool            `json:"is_terminal"`
	Method     types.HopMethod `json:"method"`
}

// Result 一次路由的结果
type Result struct {
	RequestID  string
	TargetRole types.Role
	Target     types.Vector
	Mode       types.ScoringMode
	Outcome    types.Outcome

	// Path 节点序列，首个为起点
	Path []types.NodeID

	// Hops 逐跳记录；section 失效时为空
	Hops []Hop

	// Forwards 成功转发次数
	Forwards int

	// Failovers 失败后重新选择的次数
	Failovers int

	// Response 最后一个节点的执行结果
	Response []byte

	err error
}

// Success 是否到达终点
func (r *Result) Success() bool {
	return r != nil && r.Outcome == types.OutcomeTerminal
}

// SectionFailure 目标 section 是否无可用节点
func (r *Result) SectionFailure() bool {
	return r != nil && r.Outcome == types.OutcomeSectionFailure
}

// Err 返回未到达终点的原因
//
// section 失效返回 ErrSectionFailure；到达终点返回 nil。
func (r *Result) Err() error {
	if r == nil {
		return nil
	}
	switch r.Outcome {
	case types.OutcomeTerminal:
		return nil
	case types.OutcomeSectionFailure:
		return fmt.Errorf("%w: %s", types.ErrSectionFailure, r.TargetRole)
	default:
		return r.err
	}
}

// Last 返回路径最后一个节点
func (r *Result) Last() types.NodeID {
	if r == nil || len(r.Path) == 0 {
		return ""
	}
	return r.Path[len(r.Path)-1]
}
