// Package health 实现节点健康监控
//
// 监控器周期性探测所有已注册节点（GET /health），在注册表中维护存活状态：
//
//   - 探测成功：标记存活，RTT 折算进延迟 EWMA
//   - 连续失败达到阈值：标记失效，可选地对拓扑自愈
//   - 失效节点恢复后若没有邻居，可选地重新连接
//
// 启用一致性检查时，监控器比较节点自报的 /metrics 与观测 RTT，
// 结果反馈给信任系统。
//
// 存活状态在一轮探测返回前写入注册表，因此路由看到的状态最多落后一个探测周期。
package health
