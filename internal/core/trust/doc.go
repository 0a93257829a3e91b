// Package trust 实现节点信任系统
//
// 信任值 t ∈ [0, 1]，按边际递减规则更新：
//
//	成功:     t += g·(1−t)，快速响应再 + b·(1−t)
//	失败:     t −= p·t
//	慢响应:   t −= s·severity·t，severity = clamp(observed/expected − 1, min, 1)
//	一致性:   一致 + c·(1−t)，不一致 − q·t
//
// 所有系数都在 (0, 1) 内，单次事件无法使信任饱和，越接近边界步长越小。
// 更新在节点锁内同步完成，下一轮评分即可见。
package trust
