package handlers

import (
	"net/http"

	"github.com/clustersim/controller/pkg/api/models"
	"github.com/clustersim/controller/pkg/api/response"
	"github.com/clustersim/controller/pkg/cluster"
)

// UtilizationHandler serves GET /api/utilization_history.
type UtilizationHandler struct {
	controller *cluster.Controller
}

// NewUtilizationHandler creates a utilization handler.
func NewUtilizationHandler(controller *cluster.Controller) *UtilizationHandler {
	return &UtilizationHandler{controller: controller}
}

// UtilizationHistory handles GET /api/utilization_history.
func (h *UtilizationHandler) UtilizationHistory(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, models.UtilizationHistoryResponse{
		History: utilizationToPoints(h.controller.UtilizationHistory()),
	})
}
