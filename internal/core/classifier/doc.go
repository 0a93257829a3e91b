// Package classifier 将请求映射到 section（角色）
//
//   - KeywordClassifier: 按角色关键词表统计请求文本的命中数，命中最多者胜出
//   - CentroidClassifier: 目标向量与各 section 成员均值最相似者胜出，
//     section 无成员时使用角色中心
//   - Chain: 依次尝试，第一个给出结果的分类器胜出
package classifier
