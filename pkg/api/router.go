package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/clustersim/controller/config"
	"github.com/clustersim/controller/pkg/api/handlers"
	"github.com/clustersim/controller/pkg/api/middleware"
	"github.com/clustersim/controller/pkg/logger"
)

// Handlers holds all HTTP handlers.
type Handlers struct {
	// Node handles node lifecycle endpoints (add/remove/toggle/list/heartbeat)
	Node *handlers.NodeHandler

	// Pod handles the launch_pod endpoint
	Pod *handlers.PodHandler

	// Chaos handles the chaos_monkey endpoint
	Chaos *handlers.ChaosHandler

	// Logs handles the logs endpoint
	Logs *handlers.LogsHandler

	// Utilization handles the utilization_history endpoint
	Utilization *handlers.UtilizationHandler

	// Report handles the download_report endpoint
	Report *handlers.ReportHandler

	// WebSocket handles the real-time event channel
	WebSocket *handlers.WebSocketHandler

	// Health handles health check endpoints
	Health *handlers.HealthHandler

	// Metrics is the optional metrics recorder
	Metrics middleware.MetricsRecorder
}

// NewRouter creates a new chi router with middleware and routes.
func NewRouter(cfg *config.Config, log logger.Logger, handlers *Handlers) chi.Router {
	r := chi.NewRouter()

	// Register global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))

	if cfg.Tracing.Enabled {
		r.Use(middleware.Tracing(middleware.DefaultTracingOptions()))
	}

	// Add metrics middleware if provided
	if handlers.Metrics != nil {
		r.Use(middleware.Metrics(handlers.Metrics))
	}

	r.Use(middleware.CORS(&cfg.Server.CORS))
	r.Use(middleware.Timeout(cfg.Server.HTTP.ReadTimeout))

	// Register routes
	RegisterRoutes(r, handlers)

	return r
}

// RegisterRoutes registers all API routes.
func RegisterRoutes(r chi.Router, h *Handlers) {
	r.Route("/api", func(r chi.Router) {
		if h.Node != nil {
			r.Post("/add_node", h.Node.AddNode)
			r.Post("/remove_node", h.Node.RemoveNode)
			r.Post("/toggle_simulation", h.Node.ToggleSimulation)
			r.Get("/list_nodes", h.Node.ListNodes)
			r.Post("/heartbeat", h.Node.Heartbeat)
		}
		if h.Pod != nil {
			r.Post("/launch_pod", h.Pod.LaunchPod)
		}
		if h.Chaos != nil {
			r.Post("/chaos_monkey", h.Chaos.ChaosMonkey)
		}
		if h.Logs != nil {
			r.Get("/logs", h.Logs.Logs)
		}
		if h.Utilization != nil {
			r.Get("/utilization_history", h.Utilization.UtilizationHistory)
		}
		if h.Report != nil {
			r.Get("/download_report", h.Report.DownloadReport)
		}
	})

	// The reference implementation registers heartbeat at both /heartbeat
	// and /api/heartbeat; both are kept here.
	if h.Node != nil {
		r.Post("/heartbeat", h.Node.Heartbeat)
	}

	// Real-time event channel.
	if h.WebSocket != nil {
		r.Get("/ws/events", h.WebSocket.ServeHTTP)
	}

	// Health check routes (not versioned).
	if h.Health != nil {
		r.Get("/health", h.Health.Health)
		r.Get("/ready", h.Health.Ready)
		r.Get("/status", h.Health.Status)
	}

}
