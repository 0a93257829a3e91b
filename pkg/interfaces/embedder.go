package interfaces

import "github.com/dep2p/go-vecroute/pkg/types"

// Embedder 文本嵌入器
//
// Embed 必须是确定的纯函数：相同文本得到相同向量。
type Embedder interface {
	// Embed 将文本映射为 Dimension() 维向量
	Embed(text string) types.Vector

	// Dimension 返回向量维度 D
	Dimension() int
}
