package routing

import (
	"fmt"
	"math"

	"github.com/dep2p/go-vecroute/internal/core/capacity"
	"github.com/dep2p/go-vecroute/internal/core/vecspace"
	"github.com/dep2p/go-vecroute/pkg/types"
)

// faceState 面路由状态
//
// 角度在前两维投影平面上计算。第一步从目标方向逆时针扫描，
// 之后从来路方向逆时针扫描（右手法则）。
type faceState struct {
	start     types.NodeID
	startDist float64
	prev      types.NodeID
	onFace    nodeSet
	steps     int
}

func newFaceState(start types.NodeInfo, dist float64) *faceState {
	return &faceState{
		start:     start.ID,
		startDist: dist,
		onFace:    nodeSet{start.ID: {}},
	}
}

func (f *faceState) advance(from, to types.NodeID) {
	f.prev = from
	f.onFace[to] = struct{}{}
	f.steps++
}

// faceStep 按右手法则选择面上的下一个节点
//
// 已在面上的节点除上一个节点外不再进入；回到面起点视为无法继续。
func (w *walk) faceStep() (choice, error) {
	f := w.face
	if f.steps >= w.e.cfg.MaxFaceSteps {
		return choice{}, fmt.Errorf("%w: face routing exceeded %d steps at %s",
			types.ErrStuck, w.e.cfg.MaxFaceSteps, w.current.ID)
	}

	neighbors, err := w.e.reg.NeighborsOf(w.current.ID)
	if err != nil {
		return choice{}, err
	}
	candidates := capacity.Filter(capacity.Without(capacity.Without(neighbors, w.excluded), w.racing))

	var ref float64
	if f.prev == "" {
		ref, err = vecspace.PlanarAngle(w.current.Vector, w.target)
	} else {
		var prev types.NodeInfo
		if prev, err = w.e.reg.Get(f.prev); err == nil {
			ref, err = vecspace.PlanarAngle(w.current.Vector, prev.Vector)
		}
	}
	if err != nil {
		return choice{}, err
	}

	best := -1
	bestDelta := math.Inf(1)
	for i, c := range candidates {
		if f.onFace.has(c.ID) && c.ID != f.prev && c.ID != f.start {
			continue
		}
		angle, err := vecspace.PlanarAngle(w.current.Vector, c.Vector)
		if err != nil {
			return choice{}, err
		}
		delta := vecspace.CCWDelta(ref, angle)
		if c.ID == f.prev {
			// 只有无路可走时才原路返回
			delta = 2 * math.Pi
		}
		if delta < bestDelta || (delta == bestDelta && c.ID < candidates[best].ID) {
			best, bestDelta = i, delta
		}
	}
	if best < 0 {
		return choice{}, fmt.Errorf("%w: no face candidate at %s", types.ErrStuck, w.current.ID)
	}

	next := candidates[best]
	if next.ID == f.start {
		return choice{}, fmt.Errorf("%w: face routing returned to %s", types.ErrStuck, f.start)
	}

	ranked, err := w.rank(candidates)
	if err != nil {
		return choice{}, err
	}
	return choice{node: next, method: types.MethodFace, ranked: ranked}, nil
}
