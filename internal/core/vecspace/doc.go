// Package vecspace 实现向量空间运算与文本嵌入
//
// # 运算
//
//   - Cosine: 余弦相似度，[-1, 1]，任一向量模为 0 时返回 0
//   - Euclidean: 欧氏距离，>= 0
//   - Subtract / Add / Scale / Normalize / Centroid
//   - PlanarAngle: 前两维投影上的方向角（面路由使用）
//
// 所有二元运算在维度不一致时返回 types.ErrDimensionMismatch。
//
// # 嵌入
//
// Embedder 使用特征哈希：文本分词后，每个词经 BLAKE3 XOF 展开为 D 维
// [-1, 1] 向量，累加后归一化。结果确定且纯函数，相同文本得到相同向量，
// 有共同词的文本余弦相似度为正。
package vecspace
