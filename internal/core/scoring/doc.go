// Package scoring 实现候选节点评分
//
// 两种互相独立的策略：
//
//	RoleScorer:      Similarity·cos − Load·load/cap + Trust·trust − Latency·latencyNorm
//	GeometricScorer: α·cos + β·Δdist − γ·load/cap + δ·trust
//
// 其中 Δdist = ‖current−target‖ − ‖candidate−target‖，
// latencyNorm = min(latency/LatencyScale, 1)。
//
// Rank 按分数降序排列，分数相同时负载低者优先，再按 ID 升序，结果确定。
package scoring
