package interfaces

import (
	"context"
	"time"
)

// SnapshotMeta 快照元信息
type SnapshotMeta struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Nodes     int       `json:"nodes"`
	Edges     int       `json:"edges"`
	Label     string    `json:"label,omitempty"`
}

// SnapshotStore 快照存储
type SnapshotStore interface {
	// Save 保存快照数据
	Save(ctx context.Context, meta SnapshotMeta, data []byte) error

	// Load 读取快照数据
	Load(ctx context.Context, id string) (SnapshotMeta, []byte, error)

	// List 列出快照（按创建时间从新到旧）
	List(ctx context.Context) ([]SnapshotMeta, error)

	// Delete 删除快照
	Delete(ctx context.Context, id string) error

	// Close 关闭存储
	Close() error
}
