package memory

import (
	"context"
	"testing"
	"time"

	"github.com/clustersim/controller/pkg/cluster"
	"github.com/clustersim/controller/pkg/storage"
)

// TestMemoryStorageSuite runs the full storage test suite against MemoryStorage.
func TestMemoryStorageSuite(t *testing.T) {
	suite := &storage.StorageTestSuite{
		NewStorage: func(t *testing.T) storage.Storage {
			return NewMemoryStorage()
		},
	}

	suite.RunAllTests(t)
}

func TestMemoryStorage_UpsertIsolatesCallerMutations(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()

	n := &cluster.Node{ID: "n1", CPUTotal: 8, LastHeartbeat: time.Now()}
	if err := s.UpsertNode(ctx, n); err != nil {
		t.Fatalf("UpsertNode failed: %v", err)
	}

	n.CPUTotal = 999 // mutate the caller's copy after storing

	stored, err := s.GetNode(ctx, "n1")
	if err != nil {
		t.Fatalf("GetNode failed: %v", err)
	}
	if stored.CPUTotal != 8 {
		t.Errorf("expected stored node to be insulated from caller mutation, got CPUTotal=%d", stored.CPUTotal)
	}
}

func TestMemoryStorage_EventLogTrimsToCap(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()

	for i := 0; i < maxEvents+10; i++ {
		if err := s.AppendEvent(ctx, cluster.Event{Timestamp: time.Now(), Message: "e"}); err != nil {
			t.Fatalf("AppendEvent failed: %v", err)
		}
	}

	events, err := s.ListEvents(ctx, 0)
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(events) != maxEvents {
		t.Errorf("expected event log capped at %d, got %d", maxEvents, len(events))
	}
}
