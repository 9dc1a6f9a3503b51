package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNewManager(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Enabled = true

	m := NewManager(cfg)
	if m == nil {
		t.Fatal("NewManager returned nil")
	}

	if !m.Enabled() {
		t.Error("Expected metrics to be enabled")
	}
}

func TestNewManager_Disabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Enabled = false

	m := NewManager(cfg)
	if m == nil {
		t.Fatal("NewManager returned nil")
	}

	if m.Enabled() {
		t.Error("Expected metrics to be disabled")
	}
}

func TestMetricsHandler(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Enabled = true

	m := NewManager(cfg)

	m.SetNodeCount("active", 3)
	m.RecordPodScheduled("first_fit", "placed")
	m.ObserveSchedulerDuration("first_fit", 0.002)

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()

	m.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	body := w.Body.String()
	if body == "" {
		t.Error("Expected non-empty metrics output")
	}

	expectedMetrics := []string{
		"clustersim_cluster_nodes",
		"clustersim_scheduler_pods_scheduled_total",
		"clustersim_scheduler_placement_duration_seconds",
	}

	for _, metric := range expectedMetrics {
		if !contains(body, metric) {
			t.Errorf("Expected metric %s not found in output", metric)
		}
	}
}

func TestMetricsHandler_Disabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Enabled = false

	m := NewManager(cfg)

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()

	m.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 when disabled, got %d", w.Code)
	}
}

func TestStartServer(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Enabled = true
	cfg.Port = 19091 // Use different port for testing

	m := NewManager(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		err := m.StartServer(ctx, cfg.Port, cfg.Path)
		if err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	time.Sleep(100 * time.Millisecond)

	resp, err := http.Get("http://localhost:19091/metrics")
	if err != nil {
		t.Fatalf("Failed to fetch metrics: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	cancel()

	select {
	case err := <-errCh:
		t.Errorf("Server error: %v", err)
	case <-time.After(1 * time.Second):
	}
}

func TestNoOpManager(t *testing.T) {
	m := NoOpManager()

	if m.Enabled() {
		t.Error("NoOpManager should not be enabled")
	}

	// These should not panic
	m.SetNodeCount("active", 1)
	m.RecordPodScheduled("best_fit", "placed")
	m.RecordNoCapacity()
	m.RecordNodeFailure()
	m.RecordPodRescheduled("placed")
	m.RecordAutoScaleEvent("reactive")
	m.SetClusterUtilization(0.5)
}

func contains(s, substr string) bool {
	return len(s) >= len(substr) && (s == substr || len(s) > len(substr) &&
		(s[:len(substr)] == substr || contains(s[1:], substr)))
}

func BenchmarkRecordPodScheduled(b *testing.B) {
	m := NewManager(DefaultConfig())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.RecordPodScheduled("first_fit", "placed")
	}
}

func BenchmarkObserveSchedulerDuration(b *testing.B) {
	m := NewManager(DefaultConfig())
	d := 2 * time.Millisecond
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.ObserveSchedulerDuration("first_fit", d.Seconds())
	}
}

func BenchmarkRecordHTTPRequest(b *testing.B) {
	m := NewManager(DefaultConfig())
	d := 5 * time.Millisecond
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.RecordHTTPRequest("GET", "/api/list_nodes", "200", d)
	}
}

func BenchmarkNoOpRecording(b *testing.B) {
	m := NoOpManager()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.RecordPodScheduled("first_fit", "placed")
		m.RecordAutoScaleEvent("periodic")
	}
}

func TestMetricsMemoryUsage(t *testing.T) {
	m := NewManager(DefaultConfig())

	algorithms := []string{"first_fit", "best_fit", "worst_fit"}
	outcomes := []string{"placed", "no_capacity"}
	methods := []string{"GET", "POST"}
	paths := []string{"/api/list_nodes", "/api/launch_pod", "/health", "/ready"}

	for i := 0; i < 100000; i++ {
		m.RecordPodScheduled(algorithms[i%len(algorithms)], outcomes[i%len(outcomes)])
		m.ObserveSchedulerDuration(algorithms[i%len(algorithms)], time.Duration(i).Seconds())
		m.RecordHTTPRequest(methods[i%len(methods)], paths[i%len(paths)], "200", time.Duration(i)*time.Microsecond)
		m.SetClusterUtilization(float64(i%100) / 100)
	}

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200 after heavy load, got %d", w.Code)
	}

	body := w.Body.String()
	if len(body) > 10*1024*1024 { // 10MB sanity check
		t.Errorf("Metrics output too large: %d bytes", len(body))
	}
}

func TestClusterMetricsRegistered(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Enabled = true
	m := NewManager(cfg)

	m.SetNodeCount("active", 2)
	m.RecordNodeFailure()
	m.RecordPodRescheduled("placed")
	m.RecordAutoScaleEvent("reactive")
	m.SetClusterUtilization(0.8)

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	body := w.Body.String()
	expected := []string{
		"clustersim_cluster_nodes",
		"clustersim_health_node_failures_total",
		"clustersim_health_pods_rescheduled_total",
		"clustersim_autoscale_events_total",
		"clustersim_cluster_utilization_ratio",
	}
	for _, metric := range expected {
		if !contains(body, metric) {
			t.Errorf("expected metric %s not found in output", metric)
		}
	}
}
