// Package storage provides a persistent storage abstraction for the
// simulated cluster's nodes, pods, event log, and utilization history.
package storage

import (
	"context"
	"fmt"

	"github.com/clustersim/controller/pkg/cluster"
)

// Storage defines the interface for persistent cluster storage. It is a
// superset of cluster.StateStore: everything the controller needs to write
// through at runtime, plus List operations used to rebuild state at
// startup.
type Storage interface {
	UpsertNode(ctx context.Context, n *cluster.Node) error
	DeleteNode(ctx context.Context, id string) error
	GetNode(ctx context.Context, id string) (*cluster.Node, error)
	ListNodes(ctx context.Context) ([]*cluster.Node, error)

	UpsertPod(ctx context.Context, p *cluster.Pod) error
	UpdatePodNode(ctx context.Context, podID, nodeID string) error
	DeletePod(ctx context.Context, id string) error
	ListPods(ctx context.Context) ([]*cluster.Pod, error)

	AppendEvent(ctx context.Context, e cluster.Event) error
	ListEvents(ctx context.Context, limit int) ([]cluster.Event, error)

	AppendUtilization(ctx context.Context, s cluster.UtilizationSample) error
	ListUtilization(ctx context.Context, limit int) ([]cluster.UtilizationSample, error)

	// Close releases any underlying resources (file handles, connections).
	Close() error
}

// NotFoundError indicates that the requested entity was not found.
type NotFoundError struct {
	EntityType string
	ID         string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.EntityType, e.ID)
}

// StorageUnavailableError indicates that the storage backend is unavailable.
type StorageUnavailableError struct {
	Cause error
}

func (e *StorageUnavailableError) Error() string {
	return fmt.Sprintf("storage unavailable: %v", e.Cause)
}

func (e *StorageUnavailableError) Unwrap() error { return e.Cause }

// SerializationError indicates a failure in data serialization/deserialization.
type SerializationError struct {
	Operation string
	Cause     error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("serialization error during %s: %v", e.Operation, e.Cause)
}

func (e *SerializationError) Unwrap() error { return e.Cause }
