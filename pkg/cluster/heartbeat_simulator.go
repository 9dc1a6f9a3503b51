package cluster

import (
	"context"
	"time"
)

// heartbeatSimulatorTick refreshes the heartbeat of every active node that
// opted into simulated heartbeats, keeping it perpetually healthy without an
// external caller. Grounded on simulate_heartbeat_thread, which performs the
// same refresh on a fixed interval for any node with simulate_heartbeat set.
func (c *Controller) heartbeatSimulatorTick(ctx context.Context) {
	now := time.Now()
	for _, n := range c.state.Nodes() {
		if n.Status != NodeActive || !n.SimulateHeartbeat {
			continue
		}
		var updated *Node
		c.state.MutateNode(n.ID, func(live *Node) {
			live.LastHeartbeat = now
			updated = live.Clone()
		})
		if updated != nil {
			if err := c.store.UpsertNode(ctx, updated); err != nil {
				c.log.Warn("persist simulated heartbeat failed", "error", err)
			}
		}
	}
}
