package vecspace

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-vecroute/pkg/types"
)

// TestCosine 测试余弦相似度
func TestCosine(t *testing.T) {
	c, err := Cosine(types.Vector{1, 0}, types.Vector{1, 0})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, c, 1e-12)

	c, err = Cosine(types.Vector{1, 0}, types.Vector{-1, 0})
	require.NoError(t, err)
	assert.InDelta(t, -1.0, c, 1e-12)

	c, err = Cosine(types.Vector{1, 0}, types.Vector{0, 1})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, c, 1e-12)

	// 零向量
	c, err = Cosine(types.Vector{0, 0}, types.Vector{1, 1})
	require.NoError(t, err)
	assert.Equal(t, 0.0, c)
}

// TestDimensionMismatch 测试维度不一致
func TestDimensionMismatch(t *testing.T) {
	a, b := types.Vector{1, 2, 3}, types.Vector{1, 2}

	_, err := Cosine(a, b)
	assert.True(t, errors.Is(err, types.ErrDimensionMismatch))

	_, err = Euclidean(a, b)
	assert.True(t, errors.Is(err, types.ErrDimensionMismatch))

	_, err = Subtract(a, b)
	assert.True(t, errors.Is(err, types.ErrDimensionMismatch))

	_, err = Centroid([]types.Vector{a, b})
	assert.True(t, errors.Is(err, types.ErrDimensionMismatch))
}

// TestEuclidean 测试欧氏距离
func TestEuclidean(t *testing.T) {
	d, err := Euclidean(types.Vector{0, 0}, types.Vector{3, 4})
	require.NoError(t, err)
	assert.InDelta(t, 5.0, d, 1e-12)
}

// TestCentroid 测试均值
func TestCentroid(t *testing.T) {
	c, err := Centroid([]types.Vector{{0, 2}, {2, 0}})
	require.NoError(t, err)
	assert.Equal(t, types.Vector{1, 1}, c)

	c, err = Centroid(nil)
	require.NoError(t, err)
	assert.Nil(t, c)
}

// TestPlanarAngle 测试平面方向角
func TestPlanarAngle(t *testing.T) {
	a, err := PlanarAngle(types.Vector{0, 0, 9}, types.Vector{0, 1, -9})
	require.NoError(t, err)
	assert.InDelta(t, math.Pi/2, a, 1e-12)

	assert.InDelta(t, math.Pi/2, CCWDelta(0, math.Pi/2), 1e-12)
	assert.InDelta(t, 3*math.Pi/2, CCWDelta(math.Pi/2, 0), 1e-12)
}

// TestProject2D 测试二维投影
func TestProject2D(t *testing.T) {
	x, y := Project2D(types.Vector{-1, 1, 0.3})
	assert.Equal(t, 0.0, x)
	assert.Equal(t, 1.0, y)

	x, y = Project2D(types.Vector{})
	assert.Equal(t, 0.5, x)
	assert.Equal(t, 0.5, y)
}
