package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/clustersim/controller/pkg/api/models"
	"github.com/clustersim/controller/pkg/cluster"
)

func TestUtilizationHandler_EmptyHistoryOnFreshCluster(t *testing.T) {
	controller := cluster.NewController(cluster.DefaultConfig())
	h := NewUtilizationHandler(controller)

	req := httptest.NewRequest(http.MethodGet, "/api/utilization_history", nil)
	w := httptest.NewRecorder()
	h.UtilizationHistory(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("UtilizationHistory() status = %d, want %d", w.Code, http.StatusOK)
	}
	var resp models.UtilizationHistoryResponse
	decodeBody(t, w, &resp)
	if len(resp.History) != 0 {
		t.Fatalf("expected no samples before the sampler has run, got %d", len(resp.History))
	}
}
