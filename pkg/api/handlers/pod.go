package handlers

import (
	"errors"
	"net/http"

	"github.com/clustersim/controller/pkg/api/models"
	"github.com/clustersim/controller/pkg/api/response"
	"github.com/clustersim/controller/pkg/cluster"
)

// PodHandler serves the launch_pod endpoint.
type PodHandler struct {
	controller *cluster.Controller
}

// NewPodHandler creates a pod handler.
func NewPodHandler(controller *cluster.Controller) *PodHandler {
	return &PodHandler{controller: controller}
}

// LaunchPod handles POST /api/launch_pod.
func (h *PodHandler) LaunchPod(w http.ResponseWriter, r *http.Request) {
	var req models.LaunchPodRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.CPURequired <= 0 {
		writeJSONError(w, http.StatusBadRequest, "cpu_required is required")
		return
	}

	algo, err := cluster.ParseAlgorithm(req.SchedulingAlgorithm)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	pod, err := h.controller.LaunchPod(r.Context(), cluster.LaunchPodRequest{
		CPU:          req.CPURequired,
		Memory:       req.MemoryRequired,
		NetworkGroup: req.NetworkGroup,
		NodeAffinity: cluster.NodeType(req.NodeAffinity),
		Algorithm:    algo,
	})
	if err != nil {
		if errors.Is(err, cluster.ErrNoCapacity) {
			writeJSONError(w, http.StatusBadRequest, "no node with sufficient capacity")
			return
		}
		writeClusterError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, models.LaunchPodResponse{
		Message:             "Pod scheduled successfully",
		PodID:               pod.ID,
		AssignedNode:        pod.NodeID,
		SchedulingAlgorithm: string(algo),
	})
}
