package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/clustersim/controller/pkg/cluster"
	"github.com/clustersim/controller/pkg/storage/memory"
)

func TestHealthHandler_Health(t *testing.T) {
	controller := cluster.NewController(cluster.DefaultConfig())
	store := memory.NewMemoryStorage()

	handler := NewHealthHandler(controller, store)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	handler.Health(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Health() status = %v, want %v", w.Code, http.StatusOK)
	}
}

func TestHealthHandler_Ready(t *testing.T) {
	controller := cluster.NewController(cluster.DefaultConfig())
	store := memory.NewMemoryStorage()

	handler := NewHealthHandler(controller, store)

	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	w := httptest.NewRecorder()

	handler.Ready(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Ready() status = %v, want %v", w.Code, http.StatusOK)
	}
}

func TestHealthHandler_Status(t *testing.T) {
	controller := cluster.NewController(cluster.DefaultConfig())
	store := memory.NewMemoryStorage()

	handler := NewHealthHandler(controller, store)

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	w := httptest.NewRecorder()

	handler.Status(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Status() status = %v, want %v", w.Code, http.StatusOK)
	}
}
