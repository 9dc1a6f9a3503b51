// Package cluster implements the simulated compute fleet: nodes, pods,
// scheduling, health monitoring, auto-scaling, and chaos injection.
package cluster

import (
	"fmt"
	"strings"
	"time"
)

// NodeStatus is the lifecycle state of a simulated node.
type NodeStatus string

const (
	NodeActive NodeStatus = "active"
	NodeFailed NodeStatus = "failed"
)

// NodeType classifies a node's simulated hardware profile.
type NodeType string

const (
	NodeTypeHighCPU  NodeType = "high_cpu"
	NodeTypeHighMem  NodeType = "high_mem"
	NodeTypeBalanced NodeType = "balanced"
)

var autoScaleNodeTypes = []NodeType{NodeTypeHighCPU, NodeTypeHighMem, NodeTypeBalanced}

// Algorithm identifies a bin-packing strategy used to place a pod onto a node.
type Algorithm string

const (
	FirstFit Algorithm = "first_fit"
	BestFit  Algorithm = "best_fit"
	WorstFit Algorithm = "worst_fit"
)

// ParseAlgorithm validates a scheduling algorithm name from an API request.
// Unlike the reference implementation (which silently folded any unrecognized
// value into worst_fit), unknown algorithms are rejected at the boundary so a
// typo surfaces as a 400 instead of a silently different placement decision.
func ParseAlgorithm(raw string) (Algorithm, error) {
	switch Algorithm(strings.ToLower(strings.TrimSpace(raw))) {
	case FirstFit:
		return FirstFit, nil
	case BestFit:
		return BestFit, nil
	case WorstFit:
		return WorstFit, nil
	case "":
		return FirstFit, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidAlgorithm, raw)
	}
}

// Node is a simulated compute node in the fleet. The fields it shares with
// the HTTP API's NodeView use the same snake_case JSON names, so a broadcast
// Snapshot (§4.8) uses the GET /api/list_nodes field names; Node also
// carries container_id and autoscaled, which NodeView does not.
type Node struct {
	ID                string     `json:"id"`
	CPUTotal          int        `json:"cpu_total"`
	CPUAvailable      int        `json:"cpu_available"`
	MemoryTotal       int        `json:"memory_total"`
	MemoryAvailable   int        `json:"memory_available"`
	NodeType          NodeType   `json:"node_type"`
	NetworkGroup      string     `json:"network_group"`
	LastHeartbeat     time.Time  `json:"last_heartbeat"`
	Status            NodeStatus `json:"status"`
	SimulateHeartbeat bool       `json:"simulate_heartbeat"`
	ContainerID       string     `json:"container_id,omitempty"`
	PodIDs            []string   `json:"pod_ids"`
	Autoscaled        bool       `json:"autoscaled"` // true if this node was created by the auto-scaler rather than the add-node API
}

// Clone returns a deep copy of the node so callers can never mutate state
// held behind the cluster lock.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	cp := *n
	cp.PodIDs = append([]string(nil), n.PodIDs...)
	return &cp
}

// Pod is a simulated workload assigned to (or awaiting assignment to) a node.
type Pod struct {
	ID           string   `json:"id"`
	NodeID       string   `json:"node_id,omitempty"`
	CPU          int      `json:"cpu"`
	Memory       int      `json:"memory"`
	NetworkGroup string   `json:"network_group"`
	NodeAffinity NodeType `json:"node_affinity,omitempty"` // empty means no affinity constraint
}

func (p *Pod) Clone() *Pod {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}

// UtilizationSample is one point in the rolling cluster utilization history.
type UtilizationSample struct {
	Timestamp   time.Time `json:"timestamp"`
	Utilization float64   `json:"utilization"` // percentage, 0-100
}

// Event is a single timestamped line in the cluster's recent activity log.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}

// String renders the event the way the reference implementation formatted
// its log lines, e.g. "[2026-07-31 10:15:02] Node ... marked FAILED".
func (e Event) String() string {
	return fmt.Sprintf("[%s] %s", e.Timestamp.Local().Format("2006-01-02 15:04:05"), e.Message)
}
