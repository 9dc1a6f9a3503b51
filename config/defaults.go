package config

import "time"

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:        "clustersim",
			Version:     "dev",
			Environment: "development",
			Debug:       false,
		},
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 5000,
			HTTP: HTTPConfig{
				ReadTimeout:     30 * time.Second,
				WriteTimeout:    30 * time.Second,
				IdleTimeout:     120 * time.Second,
				ShutdownTimeout: 10 * time.Second,
				MaxHeaderBytes:  1 << 20, // 1MB
			},
			CORS: CORSConfig{
				Enabled:          true,
				AllowedOrigins:   []string{"*"},
				AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
				AllowedHeaders:   []string{"Content-Type", "Authorization"},
				AllowCredentials: false,
				MaxAge:           300,
			},
			WebSocket: WebSocketConfig{
				MaxConnections: 256,
				PingInterval:   30 * time.Second,
				AllowedOrigins: nil,
			},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Simulator: SimulatorConfig{
			HealthCheckInterval:   5 * time.Second,
			HeartbeatThreshold:    15 * time.Second,
			NodeHeartbeatInterval: 7 * time.Second,
			UtilizationInterval:   10 * time.Second,
			BroadcastInterval:     3 * time.Second,
			AutoScaleInterval:     5 * time.Second,
			AutoScaleCooldown:     60 * time.Second,
			DefaultNodeCPU:        8,
			DefaultNodeMemory:     16,
			DefaultPodMemory:      4,
		},
		Storage: StorageConfig{
			Type: "memory",
			Badger: BadgerConfig{
				Path:              "./data/badger",
				SyncWrites:        true,
				ValueLogFileSize:  1073741824, // 1GB
				NumVersionsToKeep: 1,
			},
		},
		Runtime: RuntimeConfig{
			Type: "noop",
			Docker: DockerConfig{
				SocketPath:               "/var/run/docker.sock",
				Image:                    "node-simulator:latest",
				Network:                  "bridge",
				ControllerURL:            "http://localhost:5000",
				HeartbeatIntervalSeconds: 7,
			},
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
			Port:    9091,
		},
		Tracing: TracingConfig{
			Enabled:    false,
			Type:       "jaeger",
			Endpoint:   "http://localhost:14268/api/traces",
			SampleRate: 0.1,
		},
		EventBus: EventBusConfig{
			RedisAddr: "", // local-only fan-out by default
			RedisDB:   0,
		},
	}
}
