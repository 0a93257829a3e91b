package vecspace

import (
	"encoding/binary"
	"io"
	"math"
	"strings"
	"unicode"

	"lukechampine.com/blake3"

	"github.com/dep2p/go-vecroute/pkg/types"
)

// DefaultDimension 默认嵌入维度
const DefaultDimension = 32

// Embedder 基于特征哈希的确定性文本嵌入器
type Embedder struct {
	dim int
}

// NewEmbedder 创建嵌入器，dim 非正时使用 DefaultDimension
func NewEmbedder(dim int) *Embedder {
	if dim <= 0 {
		dim = DefaultDimension
	}
	return &Embedder{dim: dim}
}

// Dimension 返回嵌入维度 D
func (e *Embedder) Dimension() int {
	return e.dim
}

// Embed 将文本映射为 D 维单位向量
//
// 空文本（或无有效词）返回零向量。
func (e *Embedder) Embed(text string) types.Vector {
	out := make(types.Vector, e.dim)
	for _, tok := range Tokenize(text) {
		tv := e.tokenVector(tok)
		for i := range out {
			out[i] += tv[i]
		}
	}
	return Normalize(out)
}

// tokenVector 用 BLAKE3 XOF 将单个词展开为 [-1, 1]^D
func (e *Embedder) tokenVector(tok string) []float64 {
	h := blake3.New(32, nil)
	_, _ = h.Write([]byte(tok))

	buf := make([]byte, 4*e.dim)
	_, _ = io.ReadFull(h.XOF(), buf)

	out := make([]float64, e.dim)
	for i := range out {
		u := binary.LittleEndian.Uint32(buf[4*i:])
		out[i] = float64(u)/math.MaxUint32*2 - 1
	}
	return out
}

// Tokenize 将文本切分为小写词
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
