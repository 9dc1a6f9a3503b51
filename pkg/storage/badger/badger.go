// Package badger provides a Badger-based implementation of the storage interface.
package badger

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"

	"github.com/dgraph-io/badger/v4"

	"github.com/clustersim/controller/pkg/cluster"
	"github.com/clustersim/controller/pkg/storage"
)

// Config holds configuration for BadgerStorage.
type Config struct {
	Path              string
	SyncWrites        bool
	ValueLogFileSize  int64
	NumVersionsToKeep int
}

// BadgerStorage implements storage.Storage using Badger, keying nodes and
// pods by ID directly and keying events/utilization samples by a monotonic
// sequence so a prefix scan naturally returns them in insertion order.
type BadgerStorage struct {
	db     *badger.DB
	config *Config
	seq    atomic.Uint64
}

// NewBadgerStorage creates a new Badger storage instance.
func NewBadgerStorage(config *Config) (*BadgerStorage, error) {
	opts := badger.DefaultOptions(config.Path)
	opts.SyncWrites = config.SyncWrites
	opts.ValueLogFileSize = config.ValueLogFileSize
	opts.NumVersionsToKeep = config.NumVersionsToKeep

	db, err := badger.Open(opts)
	if err != nil {
		return nil, &storage.StorageUnavailableError{Cause: err}
	}

	return &BadgerStorage{db: db, config: config}, nil
}

func nodeKey(id string) []byte { return []byte(fmt.Sprintf("node:%s", id)) }
func podKey(id string) []byte  { return []byte(fmt.Sprintf("pod:%s", id)) }

const (
	eventPrefix = "event:"
	utilPrefix  = "util:"
)

func (b *BadgerStorage) eventKey() []byte {
	return []byte(fmt.Sprintf("%s%020d", eventPrefix, b.seq.Add(1)))
}

func (b *BadgerStorage) utilKey() []byte {
	return []byte(fmt.Sprintf("%s%020d", utilPrefix, b.seq.Add(1)))
}

func serialize(v interface{}) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, &storage.SerializationError{Operation: "marshal", Cause: err}
	}
	return data, nil
}

func deserialize(data []byte, v interface{}) error {
	if err := json.Unmarshal(data, v); err != nil {
		return &storage.SerializationError{Operation: "unmarshal", Cause: err}
	}
	return nil
}

func (b *BadgerStorage) UpsertNode(ctx context.Context, n *cluster.Node) error {
	data, err := serialize(n)
	if err != nil {
		return err
	}
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(nodeKey(n.ID), data)
	})
}

func (b *BadgerStorage) DeleteNode(ctx context.Context, id string) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(nodeKey(id))
	})
}

func (b *BadgerStorage) GetNode(ctx context.Context, id string) (*cluster.Node, error) {
	var n cluster.Node
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(nodeKey(id))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return &storage.NotFoundError{EntityType: "node", ID: id}
			}
			return err
		}
		return item.Value(func(val []byte) error { return deserialize(val, &n) })
	})
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (b *BadgerStorage) ListNodes(ctx context.Context) ([]*cluster.Node, error) {
	var nodes []*cluster.Node
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte("node:")
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var n cluster.Node
			if err := it.Item().Value(func(val []byte) error { return deserialize(val, &n) }); err != nil {
				continue
			}
			nodes = append(nodes, &n)
		}
		return nil
	})
	return nodes, err
}

func (b *BadgerStorage) UpsertPod(ctx context.Context, p *cluster.Pod) error {
	data, err := serialize(p)
	if err != nil {
		return err
	}
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(podKey(p.ID), data)
	})
}

func (b *BadgerStorage) UpdatePodNode(ctx context.Context, podID, nodeID string) error {
	return b.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(podKey(podID))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return &storage.NotFoundError{EntityType: "pod", ID: podID}
			}
			return err
		}
		var p cluster.Pod
		if err := item.Value(func(val []byte) error { return deserialize(val, &p) }); err != nil {
			return err
		}
		p.NodeID = nodeID
		data, err := serialize(&p)
		if err != nil {
			return err
		}
		return txn.Set(podKey(podID), data)
	})
}

func (b *BadgerStorage) DeletePod(ctx context.Context, id string) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(podKey(id))
	})
}

func (b *BadgerStorage) ListPods(ctx context.Context) ([]*cluster.Pod, error) {
	var pods []*cluster.Pod
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte("pod:")
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var p cluster.Pod
			if err := it.Item().Value(func(val []byte) error { return deserialize(val, &p) }); err != nil {
				continue
			}
			pods = append(pods, &p)
		}
		return nil
	})
	return pods, err
}

func (b *BadgerStorage) AppendEvent(ctx context.Context, e cluster.Event) error {
	data, err := serialize(e)
	if err != nil {
		return err
	}
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(b.eventKey(), data)
	})
}

// ListEvents returns the most recent events (in chronological order), up to
// limit. A limit of 0 or less returns everything retained.
func (b *BadgerStorage) ListEvents(ctx context.Context, limit int) ([]cluster.Event, error) {
	var events []cluster.Event
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(eventPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var e cluster.Event
			if err := it.Item().Value(func(val []byte) error { return deserialize(val, &e) }); err != nil {
				continue
			}
			events = append(events, e)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return lastN(events, limit), nil
}

func (b *BadgerStorage) AppendUtilization(ctx context.Context, s cluster.UtilizationSample) error {
	data, err := serialize(s)
	if err != nil {
		return err
	}
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(b.utilKey(), data)
	})
}

func (b *BadgerStorage) ListUtilization(ctx context.Context, limit int) ([]cluster.UtilizationSample, error) {
	var samples []cluster.UtilizationSample
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(utilPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var s cluster.UtilizationSample
			if err := it.Item().Value(func(val []byte) error { return deserialize(val, &s) }); err != nil {
				continue
			}
			samples = append(samples, s)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return lastN(samples, limit), nil
}

func lastN[T any](items []T, limit int) []T {
	if limit <= 0 || limit > len(items) {
		return items
	}
	return items[len(items)-limit:]
}

// Close runs a value-log GC pass and closes the Badger database.
func (b *BadgerStorage) Close() error {
	if err := b.db.RunValueLogGC(0.5); err != nil && err != badger.ErrNoRewrite {
		_ = err // best-effort GC; closing proceeds regardless
	}
	return b.db.Close()
}
