// Package models defines API request/response data structures.
package models

import "time"

// AddNodeRequest is the payload for POST /api/add_node.
type AddNodeRequest struct {
	// CPU is the node's total simulated CPU capacity.
	CPU int `json:"cpu" validate:"required,min=1"`

	// Memory is the node's total simulated memory capacity; defaults to 16.
	Memory int `json:"memory,omitempty" validate:"omitempty,min=1"`

	// NodeType classifies the node's simulated hardware profile.
	NodeType string `json:"node_type,omitempty" validate:"omitempty,oneof=high_cpu high_mem balanced"`

	// NetworkGroup partitions nodes and pods into isolated placement domains.
	NetworkGroup string `json:"network_group,omitempty"`

	// SimulateHeartbeat enables automatic heartbeat refreshing for this
	// node. Defaults to true when omitted — without it, a node with no real
	// container reporting in would be marked failed one heartbeat threshold
	// after creation. Send false (or use toggle_simulation) for nodes whose
	// heartbeats come from a live container.
	SimulateHeartbeat *bool `json:"simulate_heartbeat,omitempty"`
}

// AddNodeResponse is returned when a node is added.
type AddNodeResponse struct {
	Message string `json:"message"`
	NodeID  string `json:"node_id"`
}

// RemoveNodeRequest is the payload for POST /api/remove_node.
type RemoveNodeRequest struct {
	NodeID string `json:"node_id" validate:"required"`
}

// ToggleSimulationRequest is the payload for POST /api/toggle_simulation.
type ToggleSimulationRequest struct {
	NodeID    string `json:"node_id" validate:"required"`
	Simulate  bool   `json:"simulate"`
}

// HeartbeatRequest is the payload for POST /api/heartbeat and /heartbeat.
type HeartbeatRequest struct {
	NodeID string `json:"node_id" validate:"required"`
}

// MessageResponse is the generic `{message}` 200 response shared by
// remove_node, toggle_simulation, heartbeat, and chaos_monkey.
type MessageResponse struct {
	Message string `json:"message"`
}

// LaunchPodRequest is the payload for POST /api/launch_pod.
type LaunchPodRequest struct {
	CPURequired         int    `json:"cpu_required" validate:"required,min=1"`
	MemoryRequired      int    `json:"memory_required,omitempty" validate:"omitempty,min=1"`
	SchedulingAlgorithm string `json:"scheduling_algorithm,omitempty" validate:"omitempty,oneof=first_fit best_fit worst_fit"`
	NetworkGroup        string `json:"network_group,omitempty"`
	NodeAffinity        string `json:"node_affinity,omitempty" validate:"omitempty,oneof=high_cpu high_mem balanced"`
}

// LaunchPodResponse is returned when a pod is placed.
type LaunchPodResponse struct {
	Message             string `json:"message"`
	PodID               string `json:"pod_id"`
	AssignedNode        string `json:"assigned_node"`
	SchedulingAlgorithm string `json:"scheduling_algorithm"`
}

// ChaosMonkeyRequest is the payload for POST /api/chaos_monkey. NodeID is
// optional: a blank value means "kill a random active node".
type ChaosMonkeyRequest struct {
	NodeID string `json:"node_id,omitempty"`
}

// NodeView is the JSON shape of a node as returned by list_nodes and the
// websocket state_update snapshot.
type NodeView struct {
	ID                string    `json:"id"`
	CPUTotal          int       `json:"cpu_total"`
	CPUAvailable      int       `json:"cpu_available"`
	MemoryTotal       int       `json:"memory_total"`
	MemoryAvailable   int       `json:"memory_available"`
	NodeType          string    `json:"node_type"`
	NetworkGroup      string    `json:"network_group"`
	Status            string    `json:"status"`
	LastHeartbeat     time.Time `json:"last_heartbeat"`
	SimulateHeartbeat bool      `json:"simulate_heartbeat"`
	PodIDs            []string  `json:"pod_ids"`
}

// ListNodesResponse is returned by GET /api/list_nodes.
type ListNodesResponse struct {
	Nodes []NodeView `json:"nodes"`
}

// LogsResponse is returned by GET /api/logs.
type LogsResponse struct {
	Logs []string `json:"logs"`
}

// UtilizationPoint is one sample in the utilization history response.
type UtilizationPoint struct {
	Timestamp   time.Time `json:"timestamp"`
	Utilization float64   `json:"utilization"`
}

// UtilizationHistoryResponse is returned by GET /api/utilization_history.
type UtilizationHistoryResponse struct {
	History []UtilizationPoint `json:"history"`
}

