package cluster

import (
	"context"
	"time"
)

// utilizationSamplerTick records the cluster's current CPU utilization as a
// percentage, matching the reference implementation's periodic
// record_utilization sampling (fraction scaled to 0-100).
func (c *Controller) utilizationSamplerTick(ctx context.Context) {
	sample := UtilizationSample{
		Timestamp:   time.Now(),
		Utilization: c.state.Utilization() * 100,
	}
	c.state.AppendUtilization(sample)
	c.metrics.SetClusterUtilization(sample.Utilization / 100)
	if err := c.store.AppendUtilization(ctx, sample); err != nil {
		c.log.Warn("persist utilization sample failed", "error", err)
	}
}

// broadcastTick publishes a full state snapshot to subscribers, matching
// broadcast_state's periodic push to connected websocket clients.
func (c *Controller) broadcastTick(ctx context.Context) {
	active, total := c.state.ActiveAndTotalCounts()
	c.metrics.SetNodeCount("active", float64(active))
	c.metrics.SetNodeCount("failed", float64(total-active))
	c.pub.PublishStateUpdate(ctx, c.state.Snapshot())
}
