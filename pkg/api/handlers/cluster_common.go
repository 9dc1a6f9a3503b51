package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/clustersim/controller/pkg/api/models"
	"github.com/clustersim/controller/pkg/cluster"
)

// writeJSONError writes the flat `{error: <msg>}` shape used by every
// cluster endpoint, as opposed to the nested ErrorResponse the generic
// middleware (Recovery, Timeout) produces.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// statusForClusterError maps the cluster package's sentinel errors to the
// HTTP status codes listed in the endpoint table.
func statusForClusterError(err error) int {
	switch {
	case errors.Is(err, cluster.ErrMissingField),
		errors.Is(err, cluster.ErrNoCapacity),
		errors.Is(err, cluster.ErrInvalidAlgorithm):
		return http.StatusBadRequest
	case errors.Is(err, cluster.ErrNodeNotFound),
		errors.Is(err, cluster.ErrPodNotFound):
		return http.StatusNotFound
	case errors.Is(err, cluster.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeClusterError(w http.ResponseWriter, err error) {
	writeJSONError(w, statusForClusterError(err), err.Error())
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	return dec.Decode(dst)
}

func nodeToView(n *cluster.Node) models.NodeView {
	return models.NodeView{
		ID:                n.ID,
		CPUTotal:          n.CPUTotal,
		CPUAvailable:      n.CPUAvailable,
		MemoryTotal:       n.MemoryTotal,
		MemoryAvailable:   n.MemoryAvailable,
		NodeType:          string(n.NodeType),
		NetworkGroup:      n.NetworkGroup,
		Status:            string(n.Status),
		LastHeartbeat:     n.LastHeartbeat,
		SimulateHeartbeat: n.SimulateHeartbeat,
		PodIDs:            n.PodIDs,
	}
}

func nodesToViews(nodes []*cluster.Node) []models.NodeView {
	views := make([]models.NodeView, 0, len(nodes))
	for _, n := range nodes {
		views = append(views, nodeToView(n))
	}
	return views
}

func eventsToLines(events []cluster.Event) []string {
	lines := make([]string, 0, len(events))
	for _, e := range events {
		lines = append(lines, e.String())
	}
	return lines
}

func utilizationToPoints(samples []cluster.UtilizationSample) []models.UtilizationPoint {
	points := make([]models.UtilizationPoint, 0, len(samples))
	for _, s := range samples {
		points = append(points, models.UtilizationPoint{Timestamp: s.Timestamp, Utilization: s.Utilization})
	}
	return points
}
