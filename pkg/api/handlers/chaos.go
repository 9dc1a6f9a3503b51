package handlers

import (
	"fmt"
	"net/http"

	"github.com/clustersim/controller/pkg/api/models"
	"github.com/clustersim/controller/pkg/api/response"
	"github.com/clustersim/controller/pkg/cluster"
)

// ChaosHandler serves the chaos_monkey endpoint.
type ChaosHandler struct {
	controller *cluster.Controller
}

// NewChaosHandler creates a chaos handler.
func NewChaosHandler(controller *cluster.Controller) *ChaosHandler {
	return &ChaosHandler{controller: controller}
}

// ChaosMonkey handles POST /api/chaos_monkey. It always answers 200: an
// unknown or inactive node_id or an empty active fleet is reported in the message
// rather than as an HTTP error, matching the endpoint table's "no error
// cases" entry.
func (h *ChaosHandler) ChaosMonkey(w http.ResponseWriter, r *http.Request) {
	var req models.ChaosMonkeyRequest
	_ = decodeJSON(r, &req) // empty body is valid: kill a random active node

	outcome := h.controller.Chaos(r.Context(), req.NodeID)

	msg := outcome.Reason
	if outcome.Killed {
		msg = fmt.Sprintf("Chaos monkey killed node %s", outcome.NodeID)
	}
	response.JSON(w, http.StatusOK, models.MessageResponse{Message: msg})
}
