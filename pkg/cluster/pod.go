package cluster

import (
	"context"
	"fmt"
	"time"
)

// LaunchPodRequest describes a pod to place onto the cluster.
type LaunchPodRequest struct {
	CPU          int
	Memory       int
	NetworkGroup string
	NodeAffinity NodeType
	Algorithm    Algorithm
}

// LaunchPod schedules a new pod onto the cluster. If no node currently has
// capacity, placement fails immediately with ErrNoCapacity; the reference
// implementation's launch_pod_endpoint never triggers auto-scaling itself —
// that only happens from the health monitor and the periodic ratio check.
func (c *Controller) LaunchPod(ctx context.Context, req LaunchPodRequest) (*Pod, error) {
	if req.CPU <= 0 {
		return nil, fmt.Errorf("%w: cpu", ErrMissingField)
	}
	mem := req.Memory
	if mem == 0 {
		mem = c.cfg.DefaultPodMemory
	}
	networkGroup := req.NetworkGroup
	if networkGroup == "" {
		networkGroup = "default"
	}

	pod := Pod{
		ID:           c.podIDs.Next(),
		CPU:          req.CPU,
		Memory:       mem,
		NetworkGroup: networkGroup,
		NodeAffinity: req.NodeAffinity,
	}

	algoLabel := string(req.Algorithm)
	if algoLabel == "" {
		algoLabel = string(FirstFit)
	}

	start := time.Now()
	nodeID, ok := c.state.PlacePod(pod, req.Algorithm)
	c.metrics.ObserveSchedulerDuration(algoLabel, time.Since(start).Seconds())
	if !ok {
		c.metrics.RecordNoCapacity()
		c.metrics.RecordPodScheduled(algoLabel, "failed")
		return nil, ErrNoCapacity
	}
	c.metrics.RecordPodScheduled(algoLabel, "scheduled")

	placed, _ := c.state.GetPod(pod.ID)
	if err := c.store.UpsertPod(ctx, placed); err != nil {
		c.log.Warn("persist pod failed", "error", err)
	}
	if node, ok := c.state.GetNode(nodeID); ok {
		if err := c.store.UpsertNode(ctx, node); err != nil {
			c.log.Warn("persist node failed", "error", err)
		}
	}
	c.recordEvent(ctx, fmt.Sprintf("Pod %s scheduled on node %s", pod.ID, nodeID))

	return placed, nil
}
