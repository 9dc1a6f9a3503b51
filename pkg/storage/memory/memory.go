// Package memory provides an in-memory implementation of the storage interface.
package memory

import (
	"context"
	"sync"

	"github.com/clustersim/controller/pkg/cluster"
	"github.com/clustersim/controller/pkg/storage"
)

const (
	maxEvents      = 50
	maxUtilization = 50
)

// MemoryStorage implements storage.Storage using in-memory maps. It exists
// mainly for tests and for running the simulator without a durable backend;
// everything is lost on restart.
type MemoryStorage struct {
	mu          sync.RWMutex
	nodes       map[string]*cluster.Node
	pods        map[string]*cluster.Pod
	events      []cluster.Event
	utilization []cluster.UtilizationSample
}

// NewMemoryStorage creates a new in-memory storage instance.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		nodes: make(map[string]*cluster.Node),
		pods:  make(map[string]*cluster.Pod),
	}
}

func (m *MemoryStorage) UpsertNode(ctx context.Context, n *cluster.Node) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nodes[n.ID] = n.Clone()
	return nil
}

func (m *MemoryStorage) DeleteNode(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.nodes, id)
	return nil
}

func (m *MemoryStorage) GetNode(ctx context.Context, id string) (*cluster.Node, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n, ok := m.nodes[id]
	if !ok {
		return nil, &storage.NotFoundError{EntityType: "node", ID: id}
	}
	return n.Clone(), nil
}

func (m *MemoryStorage) ListNodes(ctx context.Context) ([]*cluster.Node, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*cluster.Node, 0, len(m.nodes))
	for _, n := range m.nodes {
		out = append(out, n.Clone())
	}
	return out, nil
}

func (m *MemoryStorage) UpsertPod(ctx context.Context, p *cluster.Pod) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pods[p.ID] = p.Clone()
	return nil
}

func (m *MemoryStorage) UpdatePodNode(ctx context.Context, podID, nodeID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.pods[podID]
	if !ok {
		return &storage.NotFoundError{EntityType: "pod", ID: podID}
	}
	p.NodeID = nodeID
	return nil
}

func (m *MemoryStorage) DeletePod(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pods, id)
	return nil
}

func (m *MemoryStorage) ListPods(ctx context.Context) ([]*cluster.Pod, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*cluster.Pod, 0, len(m.pods))
	for _, p := range m.pods {
		out = append(out, p.Clone())
	}
	return out, nil
}

func (m *MemoryStorage) AppendEvent(ctx context.Context, e cluster.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
	if len(m.events) > maxEvents {
		m.events = m.events[len(m.events)-maxEvents:]
	}
	return nil
}

func (m *MemoryStorage) ListEvents(ctx context.Context, limit int) ([]cluster.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return lastN(m.events, limit), nil
}

func (m *MemoryStorage) AppendUtilization(ctx context.Context, s cluster.UtilizationSample) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.utilization = append(m.utilization, s)
	if len(m.utilization) > maxUtilization {
		m.utilization = m.utilization[len(m.utilization)-maxUtilization:]
	}
	return nil
}

func (m *MemoryStorage) ListUtilization(ctx context.Context, limit int) ([]cluster.UtilizationSample, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return lastN(m.utilization, limit), nil
}

func lastN[T any](items []T, limit int) []T {
	if limit <= 0 || limit > len(items) {
		limit = len(items)
	}
	start := len(items) - limit
	out := make([]T, limit)
	copy(out, items[start:])
	return out
}

// Close is a no-op for memory storage.
func (m *MemoryStorage) Close() error {
	return nil
}
