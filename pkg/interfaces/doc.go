// Package interfaces 定义 vecroute 的公共接口
//
// 一个接口文件对应一个实现目录：
//   - embedder.go   - 文本嵌入（internal/core/vecspace）
//   - classifier.go - section 分类（internal/core/classifier）
//   - trust.go      - 信任系统（internal/core/trust）
//   - health.go     - 健康监控（internal/core/health）
//   - transport.go  - 节点传输（internal/core/transport）
//   - snapshot.go   - 状态快照（internal/core/snapshot）
package interfaces
