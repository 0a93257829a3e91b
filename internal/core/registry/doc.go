// Package registry 实现节点注册表
//
// # 存储布局
//
// 节点以 arena 方式保存在 map[NodeID]*entry 中，邻接关系是独立的
// 索引 map[NodeID]set，节点之间不互相持有指针。
//
// # 并发
//
//   - 每个节点有自己的互斥锁，load/capacity/trust/alive/latency 的修改
//     在该锁内串行化；TryAcquire 是原子的 "load < capacity 则 +1"
//   - 节点集合与邻接索引由注册表读写锁保护，只在 Add/Remove/Connect/
//     Disconnect/ApplyTopologyHeal/Relink/Build* 中变更
//   - 加锁顺序固定为 注册表锁 → 节点锁
//
// 读操作返回 types.NodeInfo 值快照。
package registry
