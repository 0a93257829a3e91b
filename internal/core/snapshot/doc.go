// Package snapshot 持久化网络状态快照
//
// 快照是注册表 NetworkState 的 JSON 编码，连同元信息保存在 BadgerDB 中：
//
//	snap/meta/<id>  - SnapshotMeta (JSON)
//	snap/data/<id>  - NetworkState (JSON)
//
// id 为 UUIDv7，按创建顺序递增。Manager 可按周期自动保存，
// 并只保留最近 Retain 个快照。
package snapshot
