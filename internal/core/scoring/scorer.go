package scoring

import (
	"sort"

	"github.com/dep2p/go-vecroute/internal/core/vecspace"
	"github.com/dep2p/go-vecroute/pkg/types"
)

// Input 一次评分的输入
type Input struct {
	Current   types.NodeInfo
	Candidate types.NodeInfo
	Target    types.Vector
}

// Scorer 评分策略
type Scorer interface {
	// Mode 返回评分模式
	Mode() types.ScoringMode

	// Score 计算候选分数，越高越好
	Score(in Input) (float64, error)
}

// Scored 带分数的候选
type Scored struct {
	Node types.NodeInfo

	// Score 策略分数
	Score float64

	// Progress 相比当前节点到目标距离的缩短量（Δdist）
	Progress float64
}

// Progress 返回 ‖current−target‖ − ‖candidate−target‖
func Progress(current, candidate, target types.Vector) (float64, error) {
	dc, err := vecspace.Euclidean(current, target)
	if err != nil {
		return 0, err
	}
	dn, err := vecspace.Euclidean(candidate, target)
	if err != nil {
		return 0, err
	}
	return dc - dn, nil
}

// Rank 对候选评分并排序
//
// 顺序：分数降序，负载升序，ID 升序。
func Rank(s Scorer, current types.NodeInfo, candidates []types.NodeInfo, target types.Vector) ([]Scored, error) {
	out := make([]Scored, 0, len(candidates))
	for _, c := range candidates {
		score, err := s.Score(Input{Current: current, Candidate: c, Target: target})
		if err != nil {
			return nil, err
		}
		progress, err := Progress(current.Vector, c.Vector, target)
		if err != nil {
			return nil, err
		}
		out = append(out, Scored{Node: c, Score: score, Progress: progress})
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Node.Load != b.Node.Load {
			return a.Node.Load < b.Node.Load
		}
		return a.Node.ID < b.Node.ID
	})
	return out, nil
}
