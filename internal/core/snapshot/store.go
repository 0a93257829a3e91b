package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync/atomic"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/multierr"

	"github.com/dep2p/go-vecroute/internal/util/logger"
	"github.com/dep2p/go-vecroute/pkg/interfaces"
)

var log = logger.Logger("snapshot")

var (
	metaPrefix = []byte("snap/meta/")
	dataPrefix = []byte("snap/data/")
)

func metaKey(id string) []byte { return append(append([]byte{}, metaPrefix...), id...) }
func dataKey(id string) []byte { return append(append([]byte{}, dataPrefix...), id...) }

// Store BadgerDB 快照存储
type Store struct {
	db     *badger.DB
	retain int
	closed atomic.Bool
}

var _ interfaces.SnapshotStore = (*Store)(nil)

// Open 打开快照存储
func Open(cfg Config) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0o755); err != nil {
			return nil, fmt.Errorf("snapshot: create dir: %w", err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithLogger(badgerLogger{})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("snapshot: open badger: %w", err)
	}
	log.Debug("快照存储已打开", "path", cfg.Path, "in_memory", cfg.InMemory)
	return &Store{db: db, retain: cfg.Retain}, nil
}

func (s *Store) check(ctx context.Context) error {
	if s.closed.Load() {
		return ErrClosed
	}
	return ctx.Err()
}

// Save 实现 interfaces.SnapshotStore
//
// 保存后按 Retain 删除最旧的快照。
func (s *Store) Save(ctx context.Context, meta interfaces.SnapshotMeta, data []byte) error {
	if err := s.check(ctx); err != nil {
		return err
	}
	if meta.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidConfig)
	}
	encoded, err := json.Marshal(meta)
	if err != nil {
		return err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(metaKey(meta.ID), encoded); err != nil {
			return err
		}
		return txn.Set(dataKey(meta.ID), data)
	})
	if err != nil {
		return err
	}
	return s.prune(ctx)
}

// prune 删除超出 Retain 的旧快照
func (s *Store) prune(ctx context.Context) error {
	if s.retain <= 0 {
		return nil
	}
	metas, err := s.List(ctx)
	if err != nil || len(metas) <= s.retain {
		return err
	}

	var errs error
	for _, m := range metas[s.retain:] {
		errs = multierr.Append(errs, s.Delete(ctx, m.ID))
	}
	log.Debug("清理旧快照", "removed", len(metas)-s.retain)
	return errs
}

// Load 实现 interfaces.SnapshotStore
func (s *Store) Load(ctx context.Context, id string) (interfaces.SnapshotMeta, []byte, error) {
	if err := s.check(ctx); err != nil {
		return interfaces.SnapshotMeta{}, nil, err
	}

	var (
		meta interfaces.SnapshotMeta
		data []byte
	)
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(metaKey(id))
		if err != nil {
			return err
		}
		if err := item.Value(func(v []byte) error { return json.Unmarshal(v, &meta) }); err != nil {
			return err
		}
		item, err = txn.Get(dataKey(id))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return interfaces.SnapshotMeta{}, nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return interfaces.SnapshotMeta{}, nil, err
	}
	return meta, data, nil
}

// List 实现 interfaces.SnapshotStore
func (s *Store) List(ctx context.Context) ([]interfaces.SnapshotMeta, error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}

	var metas []interfaces.SnapshotMeta
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = metaPrefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var m interfaces.SnapshotMeta
			if err := it.Item().Value(func(v []byte) error { return json.Unmarshal(v, &m) }); err != nil {
				return err
			}
			metas = append(metas, m)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(metas, func(i, j int) bool {
		if !metas[i].CreatedAt.Equal(metas[j].CreatedAt) {
			return metas[i].CreatedAt.After(metas[j].CreatedAt)
		}
		return metas[i].ID > metas[j].ID
	})
	return metas, nil
}

// Delete 实现 interfaces.SnapshotStore
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.check(ctx); err != nil {
		return err
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(metaKey(id)); err != nil {
			return err
		}
		if err := txn.Delete(metaKey(id)); err != nil {
			return err
		}
		return txn.Delete(dataKey(id))
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return err
}

// Close 实现 interfaces.SnapshotStore，重复关闭为空操作
func (s *Store) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	return s.db.Close()
}

// badgerLogger 将 badger 日志转到 snapshot 子系统
type badgerLogger struct{}

func (badgerLogger) Errorf(format string, args ...interface{}) {
	log.Error(fmt.Sprintf(format, args...))
}

func (badgerLogger) Warningf(format string, args ...interface{}) {
	log.Warn(fmt.Sprintf(format, args...))
}

func (badgerLogger) Infof(format string, args ...interface{}) {
	log.Debug(fmt.Sprintf(format, args...))
}

func (badgerLogger) Debugf(format string, args ...interface{}) {
	log.Debug(fmt.Sprintf(format, args...))
}
