package cluster

import (
	"context"
	"fmt"
)

// autoScaleTick implements the periodic half-capacity check: if fewer than
// half of all known nodes are active, a new node is launched. Grounded on
// auto_scale_cluster's active_count < total_nodes/2 ratio check.
// Config.AutoScaleCooldown is reserved for future rate-limiting of this
// path but is deliberately not consulted here, same as upstream.
func (c *Controller) autoScaleTick(ctx context.Context) {
	active, total := c.state.ActiveAndTotalCounts()
	// Strictly less than half, computed without integer truncation: one
	// active node out of three is below half and must trigger.
	if total == 0 || 2*active >= total {
		return
	}

	if _, err := c.scaleOutNow(ctx, fmt.Sprintf("only %d/%d nodes active", active, total)); err != nil {
		c.log.Warn("periodic auto-scale failed", "error", err)
		return
	}
	c.metrics.RecordAutoScaleEvent("periodic")
}

// scaleOutNow launches a single new node with a randomly chosen profile,
// used both by the periodic ratio check and by the health monitor to replace
// a failed node. Grounded on trigger_auto_scaling/
// create_new_node, which picks a random node_type among three profiles and
// always uses the "default" network group for auto-scaled nodes.
func (c *Controller) scaleOutNow(ctx context.Context, reason string) (*Node, error) {
	req := AddNodeRequest{
		NodeType:          c.randomNodeType(),
		NetworkGroup:      "default",
		SimulateHeartbeat: true,
		Autoscaled:        true,
	}
	n, err := c.AddNode(ctx, req)
	if err != nil {
		return nil, err
	}
	c.recordEvent(ctx, fmt.Sprintf("Auto-scaled: launched node %s (%s)", n.ID, reason))
	return n, nil
}
