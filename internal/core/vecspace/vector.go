package vecspace

import (
	"fmt"
	"math"

	"github.com/dep2p/go-vecroute/pkg/types"
)

// checkDim 校验两个向量维度一致
func checkDim(a, b types.Vector) error {
	if len(a) != len(b) {
		return fmt.Errorf("%w: %d != %d", types.ErrDimensionMismatch, len(a), len(b))
	}
	return nil
}

// Magnitude 返回向量模长
func Magnitude(v types.Vector) float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// Dot 返回点积
func Dot(a, b types.Vector) (float64, error) {
	if err := checkDim(a, b); err != nil {
		return 0, err
	}
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum, nil
}

// Cosine 返回余弦相似度
//
// 任一向量模为 0 时返回 0。结果截断到 [-1, 1] 以吸收浮点误差。
func Cosine(a, b types.Vector) (float64, error) {
	dot, err := Dot(a, b)
	if err != nil {
		return 0, err
	}
	ma, mb := Magnitude(a), Magnitude(b)
	if ma == 0 || mb == 0 {
		return 0, nil
	}
	return clamp(dot/(ma*mb), -1, 1), nil
}

// Euclidean 返回欧氏距离
func Euclidean(a, b types.Vector) (float64, error) {
	if err := checkDim(a, b); err != nil {
		return 0, err
	}
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum), nil
}

// Subtract 返回 a - b
func Subtract(a, b types.Vector) (types.Vector, error) {
	if err := checkDim(a, b); err != nil {
		return nil, err
	}
	out := make(types.Vector, len(a))
	for i := range a {
		out[i] = a[i] - b[i]
	}
	return out, nil
}

// Add 返回 a + b
func Add(a, b types.Vector) (types.Vector, error) {
	if err := checkDim(a, b); err != nil {
		return nil, err
	}
	out := make(types.Vector, len(a))
	for i := range a {
		out[i] = a[i] + b[i]
	}
	return out, nil
}

// Scale 返回 k·v
func Scale(v types.Vector, k float64) types.Vector {
	out := make(types.Vector, len(v))
	for i := range v {
		out[i] = v[i] * k
	}
	return out
}

// Normalize 返回单位向量，零向量原样返回（拷贝）
func Normalize(v types.Vector) types.Vector {
	m := Magnitude(v)
	if m == 0 {
		return v.Clone()
	}
	return Scale(v, 1/m)
}

// Centroid 返回一组向量的均值
//
// 空输入返回 nil。
func Centroid(vs []types.Vector) (types.Vector, error) {
	if len(vs) == 0 {
		return nil, nil
	}
	out := make(types.Vector, len(vs[0]))
	for _, v := range vs {
		if err := checkDim(out, v); err != nil {
			return nil, err
		}
		for i := range v {
			out[i] += v[i]
		}
	}
	return Scale(out, 1/float64(len(vs))), nil
}

// ============================================================================
//                              平面投影
// ============================================================================

// PlanarAngle 返回 from→to 在前两维投影上的方向角，范围 (-π, π]
//
// 维度小于 2 时返回 0。
func PlanarAngle(from, to types.Vector) (float64, error) {
	if err := checkDim(from, to); err != nil {
		return 0, err
	}
	if len(from) < 2 {
		return 0, nil
	}
	return math.Atan2(to[1]-from[1], to[0]-from[0]), nil
}

// CCWDelta 返回从角度 ref 逆时针旋转到 angle 的角度差，范围 [0, 2π)
func CCWDelta(ref, angle float64) float64 {
	d := math.Mod(angle-ref, 2*math.Pi)
	if d < 0 {
		d += 2 * math.Pi
	}
	return d
}

// Project2D 将向量前两维从 [-1, 1] 映射到 [0, 1]
//
// 维度不足的坐标取 0.5。
func Project2D(v types.Vector) (x, y float64) {
	x, y = 0.5, 0.5
	if len(v) > 0 {
		x = clamp((v[0]+1)/2, 0, 1)
	}
	if len(v) > 1 {
		y = clamp((v[1]+1)/2, 0, 1)
	}
	return x, y
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
