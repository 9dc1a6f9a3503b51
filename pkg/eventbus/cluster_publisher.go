package eventbus

import (
	"context"

	"github.com/clustersim/controller/pkg/cluster"
)

// LocalSink fans a decoded cluster event out to in-process observers, e.g.
// connected websocket clients. It is kept minimal and dependency-free so
// this package never needs to import the API layer.
type LocalSink interface {
	Broadcast(eventType string, payload any)
}

// ClusterPublisher adapts the envelope Publisher to cluster.Publisher,
// fanning every state snapshot and alert out to both a LocalSink (for
// directly connected observers) and, when configured with a distributed
// Transport (e.g. RedisTransport), to any other controller process sharing
// that transport.
type ClusterPublisher struct {
	local  LocalSink
	remote *Publisher // nil when no distributed transport is configured
	log    Logger
}

// Logger is the minimal logging surface ClusterPublisher needs.
type Logger interface {
	Warn(msg string, args ...any)
}

// NewClusterPublisher creates a ClusterPublisher. remote may be nil to run
// in single-process mode (LocalSink only).
func NewClusterPublisher(local LocalSink, remote *Publisher, log Logger) *ClusterPublisher {
	return &ClusterPublisher{local: local, remote: remote, log: log}
}

// PublishStateUpdate implements cluster.Publisher.
func (p *ClusterPublisher) PublishStateUpdate(ctx context.Context, snapshot cluster.Snapshot) {
	p.local.Broadcast("state_update", snapshot)
	p.publishRemote(ctx, DomainCluster, "state_update", snapshot)
}

// PublishAlert implements cluster.Publisher.
func (p *ClusterPublisher) PublishAlert(ctx context.Context, message string) {
	p.local.Broadcast("alert", map[string]string{"msg": message})
	p.publishRemote(ctx, DomainAlert, "alert", map[string]string{"msg": message})
}

func (p *ClusterPublisher) publishRemote(ctx context.Context, domain Domain, eventType string, payload any) {
	if p.remote == nil {
		return
	}
	if _, err := p.remote.PublishClusterEvent(ctx, ClusterEvent{
		Domain:    domain,
		EventType: eventType,
		ShardKey:  "cluster",
		Payload:   payload,
	}); err != nil && p.log != nil {
		p.log.Warn("publish cluster event to remote transport failed", "error", err)
	}
}
