// Package transport 实现到节点的请求传输
//
// 节点对外暴露三个 HTTP 接口：
//
//	POST /execute  执行转发的请求
//	GET  /health   存活探测
//	GET  /metrics  自报 load/capacity/latency
//
// HTTPTransport 为每个节点维护一个熔断器，连续失败后快速失败，
// 避免对已失效节点反复等待超时。
//
// SimTransport 是内存实现，支持注入宕机、慢响应和一次性失败，
// 供测试与 vecroute simulate 使用。
package transport
