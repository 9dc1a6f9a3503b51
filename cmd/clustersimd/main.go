// Command clustersimd runs the simulated cluster controller: nodes, pods,
// scheduling, health monitoring, auto-scaling, and chaos injection, behind
// a JSON HTTP API and a websocket event channel.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/clustersim/controller/config"
	"github.com/clustersim/controller/pkg/api"
	"github.com/clustersim/controller/pkg/api/handlers"
	"github.com/clustersim/controller/pkg/cluster"
	"github.com/clustersim/controller/pkg/eventbus"
	"github.com/clustersim/controller/pkg/logger"
	"github.com/clustersim/controller/pkg/metrics"
	"github.com/clustersim/controller/pkg/noderuntime"
	"github.com/clustersim/controller/pkg/storage"
	"github.com/clustersim/controller/pkg/storage/badger"
	"github.com/clustersim/controller/pkg/storage/memory"
	"github.com/clustersim/controller/pkg/version"
	"github.com/redis/go-redis/v9"
)

var (
	configPath = flag.String("config", "", "Path to configuration file")
	versionFlag = flag.Bool("version", false, "Print version information")
	helpFlag    = flag.Bool("help", false, "Print help information")

	// CLI overrides
	appName    = flag.String("app-name", "", "Override app name")
	serverPort = flag.Int("port", 0, "Override server port")
	logLevel   = flag.String("log-level", "", "Override log level")
	debugMode  = flag.Bool("debug", false, "Enable debug mode")
)

func main() {
	flag.Parse()

	if *helpFlag {
		printHelp()
		os.Exit(0)
	}
	if *versionFlag {
		printVersion()
		os.Exit(0)
	}

	cfg, err := config.Load(*configPath, buildOverrides())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration:\n%s\n", err)
		os.Exit(1)
	}

	logCfg := &logger.Config{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	}
	if cfg.App.Debug || *debugMode {
		logCfg.Level = logger.DebugLevel
	}
	log := logger.New(logCfg)
	logger.SetGlobal(log)

	log.Info("Starting cluster simulator",
		"version", version.Version,
		"buildTime", version.BuildTime,
		"gitCommit", version.GitCommit,
		"app", cfg.App.Name,
		"environment", cfg.App.Environment,
	)
	log.Debug("Configuration loaded", "config", cfg.String())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Hot-reload the log level when a config file is in play.
	if *configPath != "" {
		watcher, err := config.NewWatcher(*configPath, config.NewLoader())
		if err != nil {
			log.Warn("Config watcher unavailable", "error", err)
		} else {
			watcher.OnChange(func(next *config.Config) {
				log.Info("Configuration reloaded", "path", *configPath)
				logger.SetLevel(logger.ParseLevel(next.Log.Level))
			})
			go func() {
				if err := watcher.Watch(ctx); err != nil && ctx.Err() == nil {
					log.Warn("Config watcher stopped", "error", err)
				}
			}()
			defer func() {
				if err := watcher.Stop(); err != nil {
					log.Warn("Config watcher shutdown failed", "error", err)
				}
			}()
		}
	}

	// Storage backend.
	var store storage.Storage
	switch cfg.Storage.Type {
	case "badger":
		badgerCfg := &badger.Config{
			Path:             cfg.Storage.Badger.Path,
			SyncWrites:       cfg.Storage.Badger.SyncWrites,
			ValueLogFileSize: cfg.Storage.Badger.ValueLogFileSize,
		}
		store, err = badger.NewBadgerStorage(badgerCfg)
		if err != nil {
			log.Error("Failed to create Badger storage", "error", err)
			os.Exit(1)
		}
		log.Info("Initialized Badger storage", "path", badgerCfg.Path)
	default:
		store = memory.NewMemoryStorage()
		log.Info("Initialized memory storage")
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("Error closing storage", "error", err)
		}
	}()

	// Node container runtime.
	var runtime cluster.NodeRuntime
	if cfg.Runtime.Type == "docker" {
		dockerCfg := noderuntime.DockerConfig{
			SocketPath:    cfg.Runtime.Docker.SocketPath,
			Image:         cfg.Runtime.Docker.Image,
			Network:       cfg.Runtime.Docker.Network,
			ControllerURL: cfg.Runtime.Docker.ControllerURL,
			HeartbeatSec:  cfg.Runtime.Docker.HeartbeatIntervalSeconds,
		}
		runtime = noderuntime.Detect(dockerCfg)
		if _, ok := runtime.(cluster.NoopRuntime); ok {
			log.Warn("Docker client: NOT AVAILABLE, simulating nodes without backing containers")
		} else {
			log.Info("Docker client: OK")
		}
	} else {
		runtime = cluster.NoopRuntime{}
	}

	// Metrics manager.
	metricsDefaults := metrics.DefaultConfig()
	metricsCfg := metrics.Config{
		Enabled:                  cfg.Metrics.Enabled,
		Port:                     cfg.Metrics.Port,
		Path:                     cfg.Metrics.Path,
		SchedulerDurationBuckets: metricsDefaults.SchedulerDurationBuckets,
		HTTPDurationBuckets:      metricsDefaults.HTTPDurationBuckets,
	}
	metricsManager := metrics.NewManager(metricsCfg)
	if metricsManager.Enabled() {
		go func() {
			log.Info("Starting metrics server", "port", cfg.Metrics.Port, "path", cfg.Metrics.Path)
			if err := metricsManager.StartServer(ctx, cfg.Metrics.Port, cfg.Metrics.Path); err != nil {
				log.Error("Metrics server error", "error", err)
			}
		}()
	}

	// Real-time websocket channel, wired as the in-process fan-out sink for
	// the cluster publisher.
	wsHandler := handlers.NewWebSocketHandler(log, handlers.WebSocketConfig{
		MaxConnections: cfg.Server.WebSocket.MaxConnections,
		PingInterval:   cfg.Server.WebSocket.PingInterval,
		AllowedOrigins: cfg.Server.WebSocket.AllowedOrigins,
	})

	// Distributed event fan-out: single-process (LocalSink-only) unless a
	// Redis address is configured, in which case every state update and
	// alert is also published to Redis Pub/Sub.
	var remotePublisher *eventbus.Publisher
	if cfg.EventBus.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.EventBus.RedisAddr,
			Password: cfg.EventBus.RedisPassword,
			DB:       cfg.EventBus.RedisDB,
		})
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Warn("Error closing Redis client", "error", err)
			}
		}()

		transport := eventbus.NewRedisTransport(rdb)
		if err := transport.Ping(ctx); err != nil {
			log.Warn("Redis event transport unreachable at startup, publishing will retry", "addr", cfg.EventBus.RedisAddr, "error", err)
		} else {
			log.Info("Redis event transport: OK", "addr", cfg.EventBus.RedisAddr)
		}

		publisherID := fmt.Sprintf("%s-%d", cfg.App.Name, os.Getpid())
		remotePublisher, err = eventbus.NewPublisher(publisherID, transport, eventbus.DefaultRetryConfig(), nil)
		if err != nil {
			log.Error("Failed to create event publisher", "error", err)
			os.Exit(1)
		}
	}

	controller := cluster.NewController(
		cluster.Config{
			HealthCheckInterval:   cfg.Simulator.HealthCheckInterval,
			HeartbeatThreshold:    cfg.Simulator.HeartbeatThreshold,
			NodeHeartbeatInterval: cfg.Simulator.NodeHeartbeatInterval,
			UtilizationInterval:   cfg.Simulator.UtilizationInterval,
			BroadcastInterval:     cfg.Simulator.BroadcastInterval,
			AutoScaleInterval:     cfg.Simulator.AutoScaleInterval,
			AutoScaleCooldown:     cfg.Simulator.AutoScaleCooldown,
			DefaultNodeCPU:        cfg.Simulator.DefaultNodeCPU,
			DefaultNodeMemory:     cfg.Simulator.DefaultNodeMemory,
			DefaultPodMemory:      cfg.Simulator.DefaultPodMemory,
		},
		cluster.WithStateStore(store),
		cluster.WithNodeRuntime(runtime),
		cluster.WithPublisher(eventbus.NewClusterPublisher(wsHandler.Manager(), remotePublisher, log)),
		cluster.WithLogger(log),
		cluster.WithMetrics(metricsManager),
	)

	wsHandler.Manager().SetSnapshotProvider(func() (string, any, bool) {
		return "state_update", controller.Snapshot(), true
	})

	if err := controller.Restore(ctx); err != nil {
		log.Error("Failed to restore cluster state", "error", err)
		os.Exit(1)
	}
	controller.Start(ctx)

	// HTTP server with every cluster handler wired in.
	apiHandlers := &api.Handlers{
		Node:        handlers.NewNodeHandler(controller),
		Pod:         handlers.NewPodHandler(controller),
		Chaos:       handlers.NewChaosHandler(controller),
		Logs:        handlers.NewLogsHandler(controller),
		Utilization: handlers.NewUtilizationHandler(controller),
		Report:      handlers.NewReportHandler(controller),
		WebSocket:   wsHandler,
		Health:      handlers.NewHealthHandler(controller, store),
		Metrics:     metricsManager,
	}

	httpServer := api.NewHTTPServer(cfg, log, apiHandlers)

	serverErrChan := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "address", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port))
		if err := httpServer.Start(); err != nil {
			serverErrChan <- err
		}
	}()

	log.Info("Cluster simulator is running",
		"http_port", cfg.Server.Port,
		"metrics_port", cfg.Metrics.Port,
	)
	log.Info("Press Ctrl+C to stop")

	select {
	case sig := <-sigChan:
		log.Info("Received shutdown signal", "signal", sig)
	case err := <-serverErrChan:
		log.Error("HTTP server error", "error", err)
	case <-ctx.Done():
		log.Info("Context cancelled")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Info("Shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down HTTP server", "error", err)
	}

	log.Info("Stopping cluster controller")
	controller.Stop()
	wsHandler.Close()

	log.Info("Cluster simulator stopped gracefully")
}

func buildOverrides() map[string]interface{} {
	overrides := make(map[string]interface{})
	if *appName != "" {
		overrides["app.name"] = *appName
	}
	if *serverPort != 0 {
		overrides["server.port"] = *serverPort
	}
	if *logLevel != "" {
		overrides["log.level"] = *logLevel
	}
	if *debugMode {
		overrides["app.debug"] = true
	}
	return overrides
}

func printVersion() {
	fmt.Printf("clustersimd - simulated cluster controller\n")
	fmt.Printf("Version:    %s\n", version.Version)
	fmt.Printf("Build Time: %s\n", version.BuildTime)
	fmt.Printf("Git Commit: %s\n", version.GitCommit)
	fmt.Printf("Go Version: %s\n", version.GoVersion)
}

func printHelp() {
	fmt.Println("clustersimd - simulated cluster controller")
	fmt.Println()
	fmt.Println("Usage: clustersimd [flags]")
	fmt.Println()
	flag.PrintDefaults()
}
