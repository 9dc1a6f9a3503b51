package cluster

import "context"

// noopStore discards writes and returns empty reads; used when a Controller
// is built without a StateStore, e.g. in unit tests exercising the
// background loops in isolation.
type noopStore struct{}

func (noopStore) UpsertNode(context.Context, *Node) error             { return nil }
func (noopStore) DeleteNode(context.Context, string) error            { return nil }
func (noopStore) UpsertPod(context.Context, *Pod) error               { return nil }
func (noopStore) DeletePod(context.Context, string) error             { return nil }
func (noopStore) UpdatePodNode(context.Context, string, string) error { return nil }
func (noopStore) ListNodes(context.Context) ([]*Node, error)          { return nil, nil }
func (noopStore) ListPods(context.Context) ([]*Pod, error)            { return nil, nil }
func (noopStore) AppendEvent(context.Context, Event) error            { return nil }
func (noopStore) ListEvents(context.Context, int) ([]Event, error)    { return nil, nil }
func (noopStore) AppendUtilization(context.Context, UtilizationSample) error { return nil }
func (noopStore) ListUtilization(context.Context, int) ([]UtilizationSample, error) {
	return nil, nil
}

// NoopRuntime never actually launches a container; used when no container
// engine is reachable, matching the reference implementation's graceful
// degradation when Docker is unavailable.
type NoopRuntime struct{}

func (NoopRuntime) EnsureNetwork(context.Context) error             { return nil }
func (NoopRuntime) Launch(context.Context, *Node) (string, error)   { return "", nil }
func (NoopRuntime) Stop(context.Context, string) error              { return nil }

type noopRuntime = NoopRuntime

type noopPublisher struct{}

func (noopPublisher) PublishStateUpdate(context.Context, Snapshot) {}
func (noopPublisher) PublishAlert(context.Context, string)         {}

type noopLogger struct{}

func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
