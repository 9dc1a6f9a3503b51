package handlers

import (
	"encoding/csv"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/clustersim/controller/pkg/cluster"
)

func TestReportHandler_DownloadReportListsAddedNode(t *testing.T) {
	controller := cluster.NewController(cluster.DefaultConfig())
	nodeH := NewNodeHandler(controller)
	h := NewReportHandler(controller)

	node := addNode(t, nodeH, `{"cpu":8,"memory":16}`)

	req := httptest.NewRequest(http.MethodGet, "/api/download_report", nil)
	w := httptest.NewRecorder()
	h.DownloadReport(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("DownloadReport() status = %d, want %d", w.Code, http.StatusOK)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/csv" {
		t.Fatalf("Content-Type = %q, want text/csv", ct)
	}
	if !strings.Contains(w.Header().Get("Content-Disposition"), "attachment") {
		t.Fatalf("expected an attachment disposition, got %q", w.Header().Get("Content-Disposition"))
	}

	records, err := csv.NewReader(w.Body).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected a header row plus one node row, got %d rows", len(records))
	}
	if records[1][0] != node.NodeID {
		t.Fatalf("expected node row for %s, got %q", node.NodeID, records[1][0])
	}
}
