package handlers

import (
	"net/http"

	"github.com/clustersim/controller/pkg/api/models"
	"github.com/clustersim/controller/pkg/api/response"
	"github.com/clustersim/controller/pkg/cluster"
	"github.com/go-playground/validator/v10"
)

// NodeHandler serves the node lifecycle endpoints: add_node, remove_node,
// toggle_simulation, list_nodes, and heartbeat.
type NodeHandler struct {
	controller *cluster.Controller
	validate   *validator.Validate
}

// NewNodeHandler creates a node handler.
func NewNodeHandler(controller *cluster.Controller) *NodeHandler {
	return &NodeHandler{controller: controller, validate: validator.New()}
}

// AddNode handles POST /api/add_node.
func (h *NodeHandler) AddNode(w http.ResponseWriter, r *http.Request) {
	var req models.AddNodeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "cpu is required")
		return
	}

	// Added nodes self-simulate heartbeats unless the caller opts out.
	simulate := true
	if req.SimulateHeartbeat != nil {
		simulate = *req.SimulateHeartbeat
	}

	n, err := h.controller.AddNode(r.Context(), cluster.AddNodeRequest{
		NodeType:          cluster.NodeType(req.NodeType),
		NetworkGroup:      req.NetworkGroup,
		SimulateHeartbeat: simulate,
		CPU:               req.CPU,
		Memory:            req.Memory,
	})
	if err != nil {
		writeClusterError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, models.AddNodeResponse{
		Message: "Node added successfully",
		NodeID:  n.ID,
	})
}

// RemoveNode handles POST /api/remove_node.
func (h *NodeHandler) RemoveNode(w http.ResponseWriter, r *http.Request) {
	var req models.RemoveNodeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.NodeID == "" {
		writeJSONError(w, http.StatusBadRequest, "node_id is required")
		return
	}

	if err := h.controller.RemoveNode(r.Context(), req.NodeID); err != nil {
		writeClusterError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, models.MessageResponse{Message: "Node removed successfully"})
}

// ToggleSimulation handles POST /api/toggle_simulation.
func (h *NodeHandler) ToggleSimulation(w http.ResponseWriter, r *http.Request) {
	var req models.ToggleSimulationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.NodeID == "" {
		writeJSONError(w, http.StatusBadRequest, "node_id is required")
		return
	}

	if err := h.controller.ToggleSimulation(r.Context(), req.NodeID, req.Simulate); err != nil {
		writeClusterError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, models.MessageResponse{Message: "Simulation toggled"})
}

// ListNodes handles GET /api/list_nodes.
func (h *NodeHandler) ListNodes(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, models.ListNodesResponse{
		Nodes: nodesToViews(h.controller.ListNodes()),
	})
}

// Heartbeat handles POST /api/heartbeat and /heartbeat.
func (h *NodeHandler) Heartbeat(w http.ResponseWriter, r *http.Request) {
	var req models.HeartbeatRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.NodeID == "" {
		writeJSONError(w, http.StatusBadRequest, "node_id is required")
		return
	}

	if err := h.controller.Heartbeat(r.Context(), req.NodeID); err != nil {
		writeClusterError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, models.MessageResponse{Message: "Heartbeat recorded"})
}
