package storage

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/clustersim/controller/pkg/cluster"
)

// StorageTestSuite defines a test suite that can be run against any Storage implementation.
type StorageTestSuite struct {
	NewStorage func(t *testing.T) Storage
}

// RunAllTests runs all storage tests against the provided storage implementation.
func (s *StorageTestSuite) RunAllTests(t *testing.T) {
	t.Run("NodeCRUD", s.TestNodeCRUD)
	t.Run("PodCRUD", s.TestPodCRUD)
	t.Run("NodeRemovalDoesNotTouchUnrelatedPods", s.TestNodeRemovalDoesNotTouchUnrelatedPods)
	t.Run("EventLog", s.TestEventLog)
	t.Run("UtilizationHistory", s.TestUtilizationHistory)
	t.Run("ConcurrentAccess", s.TestConcurrentAccess)
	t.Run("NotFound", s.TestNotFound)
}

func (s *StorageTestSuite) TestNodeCRUD(t *testing.T) {
	store := s.NewStorage(t)
	defer store.Close()
	ctx := context.Background()

	n := &cluster.Node{
		ID:              "node-1",
		CPUTotal:        8,
		CPUAvailable:    8,
		MemoryTotal:     16,
		MemoryAvailable: 16,
		NodeType:        cluster.NodeTypeBalanced,
		NetworkGroup:    "default",
		Status:          cluster.NodeActive,
		LastHeartbeat:   time.Now(),
	}

	if err := store.UpsertNode(ctx, n); err != nil {
		t.Fatalf("UpsertNode failed: %v", err)
	}

	got, err := store.GetNode(ctx, "node-1")
	if err != nil {
		t.Fatalf("GetNode failed: %v", err)
	}
	if got.ID != n.ID || got.CPUTotal != n.CPUTotal {
		t.Errorf("unexpected node: %+v", got)
	}

	got.Status = cluster.NodeFailed
	if err := store.UpsertNode(ctx, got); err != nil {
		t.Fatalf("UpsertNode (update) failed: %v", err)
	}
	updated, err := store.GetNode(ctx, "node-1")
	if err != nil {
		t.Fatalf("GetNode (after update) failed: %v", err)
	}
	if updated.Status != cluster.NodeFailed {
		t.Errorf("expected status failed, got %s", updated.Status)
	}

	if err := store.DeleteNode(ctx, "node-1"); err != nil {
		t.Fatalf("DeleteNode failed: %v", err)
	}
	if _, err := store.GetNode(ctx, "node-1"); err == nil {
		t.Error("expected error getting deleted node")
	}
}

func (s *StorageTestSuite) TestPodCRUD(t *testing.T) {
	store := s.NewStorage(t)
	defer store.Close()
	ctx := context.Background()

	p := &cluster.Pod{ID: "pod-1", NodeID: "node-1", CPU: 2, Memory: 4}
	if err := store.UpsertPod(ctx, p); err != nil {
		t.Fatalf("UpsertPod failed: %v", err)
	}

	if err := store.UpdatePodNode(ctx, "pod-1", "node-2"); err != nil {
		t.Fatalf("UpdatePodNode failed: %v", err)
	}

	pods, err := store.ListPods(ctx)
	if err != nil {
		t.Fatalf("ListPods failed: %v", err)
	}
	if len(pods) != 1 || pods[0].NodeID != "node-2" {
		t.Errorf("unexpected pods after UpdatePodNode: %+v", pods)
	}

	if err := store.DeletePod(ctx, "pod-1"); err != nil {
		t.Fatalf("DeletePod failed: %v", err)
	}
	pods, err = store.ListPods(ctx)
	if err != nil {
		t.Fatalf("ListPods (after delete) failed: %v", err)
	}
	if len(pods) != 0 {
		t.Errorf("expected no pods after delete, got %d", len(pods))
	}
}

func (s *StorageTestSuite) TestNodeRemovalDoesNotTouchUnrelatedPods(t *testing.T) {
	store := s.NewStorage(t)
	defer store.Close()
	ctx := context.Background()

	if err := store.UpsertNode(ctx, &cluster.Node{ID: "a"}); err != nil {
		t.Fatalf("UpsertNode failed: %v", err)
	}
	if err := store.UpsertPod(ctx, &cluster.Pod{ID: "p1", NodeID: "b"}); err != nil {
		t.Fatalf("UpsertPod failed: %v", err)
	}

	if err := store.DeleteNode(ctx, "a"); err != nil {
		t.Fatalf("DeleteNode failed: %v", err)
	}

	pods, err := store.ListPods(ctx)
	if err != nil {
		t.Fatalf("ListPods failed: %v", err)
	}
	if len(pods) != 1 {
		t.Errorf("expected unrelated pod to survive node deletion, got %d pods", len(pods))
	}
}

func (s *StorageTestSuite) TestEventLog(t *testing.T) {
	store := s.NewStorage(t)
	defer store.Close()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		e := cluster.Event{Timestamp: time.Now(), Message: "event"}
		if err := store.AppendEvent(ctx, e); err != nil {
			t.Fatalf("AppendEvent failed: %v", err)
		}
	}

	events, err := store.ListEvents(ctx, 3)
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(events) != 3 {
		t.Errorf("expected 3 events with limit, got %d", len(events))
	}

	all, err := store.ListEvents(ctx, 0)
	if err != nil {
		t.Fatalf("ListEvents (no limit) failed: %v", err)
	}
	if len(all) != 5 {
		t.Errorf("expected 5 events with no limit, got %d", len(all))
	}
}

func (s *StorageTestSuite) TestUtilizationHistory(t *testing.T) {
	store := s.NewStorage(t)
	defer store.Close()
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		sample := cluster.UtilizationSample{Timestamp: time.Now(), Utilization: float64(i)}
		if err := store.AppendUtilization(ctx, sample); err != nil {
			t.Fatalf("AppendUtilization failed: %v", err)
		}
	}

	samples, err := store.ListUtilization(ctx, 2)
	if err != nil {
		t.Fatalf("ListUtilization failed: %v", err)
	}
	if len(samples) != 2 {
		t.Errorf("expected 2 samples with limit, got %d", len(samples))
	}
}

func (s *StorageTestSuite) TestConcurrentAccess(t *testing.T) {
	store := s.NewStorage(t)
	defer store.Close()
	ctx := context.Background()

	if err := store.UpsertNode(ctx, &cluster.Node{ID: "concurrent"}); err != nil {
		t.Fatalf("UpsertNode failed: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			n, err := store.GetNode(ctx, "concurrent")
			if err != nil {
				errs <- err
				return
			}
			n.CPUTotal = idx
			if err := store.UpsertNode(ctx, n); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("concurrent operation failed: %v", err)
	}

	if _, err := store.GetNode(ctx, "concurrent"); err != nil {
		t.Errorf("GetNode after concurrent updates failed: %v", err)
	}
}

func (s *StorageTestSuite) TestNotFound(t *testing.T) {
	store := s.NewStorage(t)
	defer store.Close()
	ctx := context.Background()

	if _, err := store.GetNode(ctx, "missing"); err == nil {
		t.Error("expected error getting missing node")
	}
	if err := store.UpdatePodNode(ctx, "missing", "node-1"); err == nil {
		t.Error("expected error updating missing pod")
	}
}
