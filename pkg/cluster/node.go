package cluster

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AddNodeRequest describes a node to bring into the cluster. CPU and memory
// default to the configured node profile when zero.
type AddNodeRequest struct {
	ID                string
	NodeType          NodeType
	NetworkGroup      string
	SimulateHeartbeat bool
	CPU               int
	Memory            int
	Autoscaled        bool
}

// AddNode brings a new node into the cluster, optionally launching a
// backing container through the configured NodeRuntime. Matches add_node's
// behavior of defaulting resource totals and starting the node active with
// a fresh heartbeat.
func (c *Controller) AddNode(ctx context.Context, req AddNodeRequest) (*Node, error) {
	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}
	cpu := req.CPU
	if cpu == 0 {
		cpu = c.cfg.DefaultNodeCPU
	}
	mem := req.Memory
	if mem == 0 {
		mem = c.cfg.DefaultNodeMemory
	}
	nodeType := req.NodeType
	if nodeType == "" {
		nodeType = NodeTypeBalanced
	}
	networkGroup := req.NetworkGroup
	if networkGroup == "" {
		networkGroup = "default"
	}

	n := &Node{
		ID:                id,
		CPUTotal:          cpu,
		CPUAvailable:      cpu,
		MemoryTotal:       mem,
		MemoryAvailable:   mem,
		NodeType:          nodeType,
		NetworkGroup:      networkGroup,
		LastHeartbeat:     time.Now(),
		Status:            NodeActive,
		SimulateHeartbeat: req.SimulateHeartbeat,
		Autoscaled:        req.Autoscaled,
	}

	if err := c.runtime.EnsureNetwork(ctx); err != nil {
		c.log.Warn("ensure network failed", "error", err)
	}
	if containerID, err := c.runtime.Launch(ctx, n); err != nil {
		c.log.Warn("node container launch failed, continuing without a backing container", "node", id, "error", err)
	} else {
		n.ContainerID = containerID
	}

	// Persist before installing in memory: if the store is unreachable the
	// mutation is rejected and in-memory state is left untouched (fail-closed).
	if err := c.store.UpsertNode(ctx, n); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	c.state.UpsertNode(n)
	c.recordEvent(ctx, fmt.Sprintf("Node %s added (%s, %s)", id, nodeType, networkGroup))

	return n, nil
}

// RemoveNode tears down a node's backing container (if any) and deletes it
// from cluster state. Pods that were running on it are destroyed with their
// host rather than left behind with no node, matching the reference
// implementation's cascading node removal.
func (c *Controller) RemoveNode(ctx context.Context, id string) error {
	n, ok := c.state.GetNode(id)
	if !ok {
		return ErrNodeNotFound
	}

	if n.ContainerID != "" {
		if err := c.runtime.Stop(ctx, n.ContainerID); err != nil {
			c.log.Warn("stop node container failed", "node", id, "error", err)
		}
	}

	// Persist the cascading deletion before mutating in-memory state: if the
	// store is unreachable the removal is rejected and the node stays put
	// (fail-closed), matching remove_node's persist-then-remove contract.
	if err := c.store.DeleteNode(ctx, id); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	removed, detachedPods := c.state.RemoveNode(id)
	if removed == nil {
		return ErrNodeNotFound
	}
	for _, p := range detachedPods {
		if err := c.store.DeletePod(ctx, p.ID); err != nil {
			c.log.Warn("persist pod deletion failed", "error", err)
		}
	}
	c.recordEvent(ctx, fmt.Sprintf("Node %s removed (%d pods destroyed with it)", id, len(detachedPods)))
	return nil
}

// ToggleSimulation enables or disables automatic heartbeat simulation for a
// node. Disabling resets LastHeartbeat to now, so the heartbeat-timeout
// countdown restarts fresh instead of immediately tripping the health
// monitor on the next scan — a quirk carried over from the reference
// implementation.
func (c *Controller) ToggleSimulation(ctx context.Context, id string, enable bool) error {
	var updated *Node
	ok := c.state.MutateNode(id, func(n *Node) {
		n.SimulateHeartbeat = enable
		if !enable {
			n.LastHeartbeat = time.Now()
		}
		updated = n.Clone()
	})
	if !ok {
		return ErrNodeNotFound
	}
	if err := c.store.UpsertNode(ctx, updated); err != nil {
		c.log.Warn("persist node failed", "error", err)
	}
	return nil
}

// Heartbeat records a liveness signal for a node. A failed node that checks
// back in is reactivated, mirroring the dual /heartbeat and /api/heartbeat
// endpoints' reactivation-on-failed-node behavior.
func (c *Controller) Heartbeat(ctx context.Context, id string) error {
	var reactivated bool
	var updated *Node
	ok := c.state.MutateNode(id, func(n *Node) {
		n.LastHeartbeat = time.Now()
		if n.Status == NodeFailed {
			n.Status = NodeActive
			reactivated = true
		}
		updated = n.Clone()
	})
	if !ok {
		return ErrNodeNotFound
	}
	if err := c.store.UpsertNode(ctx, updated); err != nil {
		c.log.Warn("persist node failed", "error", err)
	}
	if reactivated {
		c.recordEvent(ctx, fmt.Sprintf("Node %s reactivated via heartbeat", id))
	}
	return nil
}

// ListNodes returns a snapshot of every node in the cluster.
func (c *Controller) ListNodes() []*Node { return c.state.Nodes() }

// ListPods returns a snapshot of every pod in the cluster.
func (c *Controller) ListPods() []*Pod { return c.state.Pods() }

// Logs returns the recent event log.
func (c *Controller) Logs() []Event { return c.state.Events() }

// UtilizationHistory returns the recent utilization samples.
func (c *Controller) UtilizationHistory() []UtilizationSample { return c.state.UtilizationHistory() }

// Snapshot returns the full cluster picture (nodes, pods, events,
// utilization history, and the current load ratio).
func (c *Controller) Snapshot() Snapshot { return c.state.Snapshot() }
