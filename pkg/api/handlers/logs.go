package handlers

import (
	"net/http"

	"github.com/clustersim/controller/pkg/api/models"
	"github.com/clustersim/controller/pkg/api/response"
	"github.com/clustersim/controller/pkg/cluster"
)

// LogsHandler serves GET /api/logs.
type LogsHandler struct {
	controller *cluster.Controller
}

// NewLogsHandler creates a logs handler.
func NewLogsHandler(controller *cluster.Controller) *LogsHandler {
	return &LogsHandler{controller: controller}
}

// Logs handles GET /api/logs.
func (h *LogsHandler) Logs(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, models.LogsResponse{
		Logs: eventsToLines(h.controller.Logs()),
	})
}
