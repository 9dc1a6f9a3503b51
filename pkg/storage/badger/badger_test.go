package badger

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/clustersim/controller/pkg/cluster"
	"github.com/clustersim/controller/pkg/storage"
)

// TestBadgerStorageSuite runs the full storage test suite against BadgerStorage.
func TestBadgerStorageSuite(t *testing.T) {
	suite := &storage.StorageTestSuite{
		NewStorage: func(t *testing.T) storage.Storage {
			db, _ := setupTestDB(t)
			return db
		},
	}

	suite.RunAllTests(t)
}

func setupTestDB(t *testing.T) (*BadgerStorage, func()) {
	tmpDir, err := os.MkdirTemp("", "badger-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}

	config := &Config{
		Path:              tmpDir,
		SyncWrites:        false,
		ValueLogFileSize:  1 << 20,
		NumVersionsToKeep: 1,
	}

	db, err := NewBadgerStorage(config)
	if err != nil {
		os.RemoveAll(tmpDir)
		t.Fatalf("Failed to create BadgerStorage: %v", err)
	}

	cleanup := func() {
		db.Close()
		os.RemoveAll(tmpDir)
	}
	t.Cleanup(cleanup)

	return db, cleanup
}

func TestBadgerStorage_NodesSurviveReopen(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "badger-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	config := &Config{Path: tmpDir, ValueLogFileSize: 1 << 20, NumVersionsToKeep: 1}
	ctx := context.Background()

	db, err := NewBadgerStorage(config)
	if err != nil {
		t.Fatalf("NewBadgerStorage failed: %v", err)
	}
	if err := db.UpsertNode(ctx, &cluster.Node{ID: "n1", CPUTotal: 8, LastHeartbeat: time.Now()}); err != nil {
		t.Fatalf("UpsertNode failed: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := NewBadgerStorage(config)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	n, err := reopened.GetNode(ctx, "n1")
	if err != nil {
		t.Fatalf("GetNode after reopen failed: %v", err)
	}
	if n.CPUTotal != 8 {
		t.Errorf("expected node to survive reopen with CPUTotal=8, got %d", n.CPUTotal)
	}
}

func TestBadgerStorage_EventsOrderedByInsertion(t *testing.T) {
	db, _ := setupTestDB(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		msg := string(rune('a' + i))
		if err := db.AppendEvent(ctx, cluster.Event{Timestamp: time.Now(), Message: msg}); err != nil {
			t.Fatalf("AppendEvent failed: %v", err)
		}
	}

	events, err := db.ListEvents(ctx, 0)
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(events) != 3 || events[0].Message != "a" || events[2].Message != "c" {
		t.Errorf("expected events in insertion order, got %+v", events)
	}
}
