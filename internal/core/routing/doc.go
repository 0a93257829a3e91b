// Package routing 实现向量评分的逐跳路由与故障转移
//
// # 状态机
//
// 每个请求依次经过：
//
//	SECTION_RESOLVE -> CANDIDATE_SELECT -> HOP_FORWARD -> {TERMINAL | SECTION_FAILURE | STUCK}
//
// SECTION_RESOLVE 确定目标角色与目标向量；CANDIDATE_SELECT 在当前节点按评分选择下一跳；
// HOP_FORWARD 占用容量并调用节点执行，失败的节点在本次请求中被排除，随后从同一节点重新选择。
//
// # 评分模式
//
//   - role: 候选为目标 section 全部成员，通常一跳到达
//   - geometric: 候选为当前节点未访问的邻居，只接受缩短目标距离的候选；
//     陷入局部最小时使用面路由（右手法则）逃逸
//
// # 辅助机制
//
//   - 路由记忆：按 (当前节点, 量化目标) 记住上次成功的下一跳，复用前重新校验
//   - 负载分流：同一起点在同一决策点连续选中同一节点时，换用分数相当的候选
//   - 传统基线：只看距离的贪心路由，用于在路由查询中对比
package routing
