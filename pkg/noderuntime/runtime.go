package noderuntime

import (
	"context"
	"time"

	"github.com/clustersim/controller/pkg/cluster"
)

// Detect probes the configured Docker socket and returns a DockerRuntime if
// it's reachable, or cluster.NoopRuntime{} otherwise. Mirrors the reference
// implementation's fallback to a purely simulated fleet when Docker isn't
// available on the host.
func Detect(cfg DockerConfig) cluster.NodeRuntime {
	d := NewDockerRuntime(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if d.IsAvailable(ctx) {
		return d
	}
	return cluster.NoopRuntime{}
}
