package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strings"

	"github.com/clustersim/controller/pkg/cluster"
)

// ReportHandler serves GET /api/download_report.
type ReportHandler struct {
	controller *cluster.Controller
}

// NewReportHandler creates a report handler.
func NewReportHandler(controller *cluster.Controller) *ReportHandler {
	return &ReportHandler{controller: controller}
}

// DownloadReport handles GET /api/download_report, streaming a CSV snapshot
// of the cluster as an attachment.
func (h *ReportHandler) DownloadReport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="cluster_report.csv"`)
	w.WriteHeader(http.StatusOK)

	writer := csv.NewWriter(w)
	defer writer.Flush()

	_ = writer.Write([]string{"Node", "CPU tot/avail", "Mem tot/avail", "Status", "Type", "Group", "Pods"})

	for _, n := range h.controller.ListNodes() {
		pods := "None"
		if len(n.PodIDs) > 0 {
			pods = strings.Join(n.PodIDs, ";")
		}
		_ = writer.Write([]string{
			n.ID,
			fmt.Sprintf("%d/%d", n.CPUTotal, n.CPUAvailable),
			fmt.Sprintf("%d/%d", n.MemoryTotal, n.MemoryAvailable),
			string(n.Status),
			string(n.NodeType),
			n.NetworkGroup,
			pods,
		})
	}
}
