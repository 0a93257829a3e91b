// Package types 定义 vecroute 的公共数据结构
//
// 这是整个系统的最底层包，不依赖任何其他 vecroute 内部包。
// 所有类型都是纯值类型，用于在各模块间传递数据。
//
// # 文件组织
//
//   - ids.go     - NodeID, Vector
//   - enums.go   - Role, ScoringMode, HopMethod, Outcome
//   - node.go    - NodeSpec, NodeInfo 节点快照
//   - request.go - Request, ExecuteRequest, ExecuteResult, NodeReport
//   - errors.go  - 公共错误定义
//
// # 并发语义
//
// NodeInfo 是在节点锁内复制出的值快照，持有者可以任意读取，
// 不会观察到 load/capacity/trust/alive 的撕裂状态。
package types
