package cluster

import (
	"context"
	"fmt"
)

// ChaosOutcome reports what a chaos injection attempt did. The reference
// implementation's chaos_monkey endpoint answers HTTP 200 even when there
// was nothing to kill, so callers should inspect Killed rather than treat a
// no-op as an error.
type ChaosOutcome struct {
	Killed bool
	NodeID string
	Reason string // set when Killed is false
}

// Chaos kills a specific node if an ID is given, otherwise a random active
// node. An unknown or inactive node ID or an empty set of active nodes is reported as a
// non-error no-op, matching chaos_monkey's "not found" / "no active nodes"
// responses.
func (c *Controller) Chaos(ctx context.Context, nodeID string) ChaosOutcome {
	var target *Node

	if nodeID != "" {
		n, ok := c.state.GetNode(nodeID)
		if !ok || n.Status != NodeActive {
			return ChaosOutcome{Reason: "node not found or not active"}
		}
		target = n
	} else {
		active := activeNodes(c.state.Nodes())
		if len(active) == 0 {
			return ChaosOutcome{Reason: "no active nodes"}
		}
		target = active[c.rngIndex(len(active))]
	}

	failed, ok := c.state.MarkNodeFailed(target.ID)
	if !ok {
		return ChaosOutcome{Reason: "node not found or not active"}
	}
	if err := c.store.UpsertNode(ctx, failed); err != nil {
		c.log.Warn("persist chaos-killed node failed", "error", err)
	}

	msg := fmt.Sprintf("Chaos monkey killed node %s", failed.ID)
	c.recordEvent(ctx, msg)
	c.pub.PublishAlert(ctx, msg)
	c.reschedulePodsFromFailedNode(ctx, failed)

	return ChaosOutcome{Killed: true, NodeID: failed.ID}
}

func activeNodes(nodes []*Node) []*Node {
	out := make([]*Node, 0, len(nodes))
	for _, n := range nodes {
		if n.Status == NodeActive {
			out = append(out, n)
		}
	}
	return out
}

func (c *Controller) rngIndex(n int) int {
	c.rngMu.Lock()
	defer c.rngMu.Unlock()
	return c.rng.Intn(n)
}
