// Package metrics 提供 vecroute 的 Prometheus 指标
//
// 所有指标注册在注入的 prometheus.Registerer 上（默认每个 Mesh 一个独立
// Registry），不会污染全局默认注册表。
//
// Collector 的方法对 nil 接收者安全，未启用指标时各组件可直接传 nil。
//
// # 指标
//
//   - <ns>_routes_total{mode,outcome}
//   - <ns>_route_hops{mode}
//   - <ns>_forward_failures_total{node}
//   - <ns>_health_probes_total{result}
//   - <ns>_nodes_alive
//   - <ns>_trust_updates_total{event}
//   - <ns>_route_cache_lookups_total{result}
//   - <ns>_topology_heals_total
package metrics
