package cluster

import "context"

// StateStore persists cluster state so it survives a controller restart.
// The in-memory ClusterState is always the live source of truth for
// scheduling decisions; StateStore is written through to synchronously on
// each mutation and
// read back once at startup to rebuild ClusterState.
type StateStore interface {
	UpsertNode(ctx context.Context, n *Node) error
	DeleteNode(ctx context.Context, id string) error
	UpsertPod(ctx context.Context, p *Pod) error
	DeletePod(ctx context.Context, id string) error
	UpdatePodNode(ctx context.Context, podID, nodeID string) error
	ListNodes(ctx context.Context) ([]*Node, error)
	ListPods(ctx context.Context) ([]*Pod, error)
	AppendEvent(ctx context.Context, e Event) error
	ListEvents(ctx context.Context, limit int) ([]Event, error)
	AppendUtilization(ctx context.Context, s UtilizationSample) error
	ListUtilization(ctx context.Context, limit int) ([]UtilizationSample, error)
}

// NodeRuntime launches and tears down the container that backs a simulated
// node. Implementations may talk to a real container engine or do nothing
// at all when no engine is reachable.
type NodeRuntime interface {
	EnsureNetwork(ctx context.Context) error
	Launch(ctx context.Context, n *Node) (containerID string, err error)
	Stop(ctx context.Context, containerID string) error
}

// Publisher fans out cluster state changes to interested subscribers, e.g.
// connected websocket clients.
type Publisher interface {
	PublishStateUpdate(ctx context.Context, snapshot Snapshot)
	PublishAlert(ctx context.Context, message string)
}
