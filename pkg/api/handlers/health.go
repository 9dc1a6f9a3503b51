// Package handlers provides HTTP request handlers.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/clustersim/controller/pkg/api/response"
	"github.com/clustersim/controller/pkg/cluster"
	"github.com/clustersim/controller/pkg/storage"
)

// HealthHandler handles health and readiness probe endpoints.
type HealthHandler struct {
	controller *cluster.Controller
	store      storage.Storage
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(controller *cluster.Controller, store storage.Storage) *HealthHandler {
	return &HealthHandler{
		controller: controller,
		store:      store,
	}
}

// Health handles the /health endpoint (liveness probe).
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// Ready handles the /ready endpoint (readiness probe): the controller is
// ready once its backing store responds.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if _, err := h.store.ListNodes(ctx); err != nil {
		response.JSON(w, http.StatusServiceUnavailable, map[string]bool{
			"ready": false,
		})
		return
	}

	response.JSON(w, http.StatusOK, map[string]bool{
		"ready": true,
	})
}

// Status handles the /status endpoint (detailed status).
func (h *HealthHandler) Status(w http.ResponseWriter, r *http.Request) {
	snapshot := h.controller.Snapshot()
	response.JSON(w, http.StatusOK, map[string]any{
		"node_count": len(snapshot.Nodes),
		"pod_count":  len(snapshot.Pods),
		"utilization": snapshot.ClusterLoad,
	})
}
