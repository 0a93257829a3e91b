package routing

import (
	"context"

	"github.com/dep2p/go-vecroute/pkg/types"
)

// AdaptiveSummary 自适应路由摘要
type AdaptiveSummary struct {
	Path      []types.NodeID `json:"path"`
	Hops      []Hop          `json:"hops"`
	Success   bool           `json:"success"`
	TotalHops int            `json:"total_hops"`
}

// TradSummary 传统路由摘要
type TradSummary struct {
	Path      []types.NodeID `json:"path"`
	Success   bool           `json:"success"`
	TotalHops int            `json:"total_hops"`
}

// QueryResponse 路由查询结果
type QueryResponse struct {
	RequestID      string          `json:"request_id"`
	Adaptive       AdaptiveSummary `json:"adaptive"`
	Trad           TradSummary     `json:"trad"`
	SectionFailure bool            `json:"section_failure"`
	TargetRole     types.Role      `json:"target_role"`
}

func hopsOf(path []types.NodeID) int {
	if len(path) == 0 {
		return 0
	}
	return len(path) - 1
}

// Query 路由请求并与传统路由对比
//
// 无法继续的路由以 success=false 返回；只有 SECTION_RESOLVE 失败、起点不存在或
// ctx 取消时返回错误。
func (e *Engine) Query(ctx context.Context, origin types.NodeID, req types.Request) (*QueryResponse, error) {
	res, err := e.Route(ctx, origin, req)
	if res == nil {
		return nil, err
	}
	if err != nil && isContextErr(err) {
		return nil, err
	}

	resp := &QueryResponse{
		RequestID: res.RequestID,
		Adaptive: AdaptiveSummary{
			Path:      res.Path,
			Hops:      res.Hops,
			Success:   res.Success(),
			TotalHops: hopsOf(res.Path),
		},
		SectionFailure: res.SectionFailure(),
		TargetRole:     res.TargetRole,
	}
	if resp.Adaptive.Hops == nil {
		resp.Adaptive.Hops = []Hop{}
	}

	switch {
	case res.SectionFailure():
		resp.Trad = TradSummary{Path: []types.NodeID{origin}}
	case e.cfg.Baseline:
		trad, err := e.Traditional(origin, res.TargetRole, res.Target)
		if err != nil {
			return nil, err
		}
		resp.Trad = TradSummary{Path: trad.Path, Success: trad.Success, TotalHops: hopsOf(trad.Path)}
	default:
		resp.Trad = TradSummary{Path: []types.NodeID{}}
	}
	return resp, nil
}
