// Package config provides configuration management for the cluster simulator.
package config

import (
	"fmt"
	"time"
)

// Config is the global configuration for the simulator.
type Config struct {
	// App is the application configuration.
	App AppConfig `mapstructure:"app" validate:"required"`

	// Server is the server configuration.
	Server ServerConfig `mapstructure:"server" validate:"required"`

	// Log is the logging configuration.
	Log LogConfig `mapstructure:"log" validate:"required"`

	// Simulator tunes the simulated cluster's background loops.
	Simulator SimulatorConfig `mapstructure:"simulator"`

	// Storage is the persistence configuration.
	Storage StorageConfig `mapstructure:"storage"`

	// Runtime is the node-container backing configuration.
	Runtime RuntimeConfig `mapstructure:"runtime"`

	// Metrics is the observability configuration.
	Metrics MetricsConfig `mapstructure:"metrics"`

	// Tracing is the distributed tracing configuration.
	Tracing TracingConfig `mapstructure:"tracing"`

	// EventBus is the distributed event fan-out configuration.
	EventBus EventBusConfig `mapstructure:"eventbus"`
}

// AppConfig holds application metadata and settings.
type AppConfig struct {
	// Name is the application name.
	Name string `mapstructure:"name" validate:"required"`

	// Version is the application version.
	Version string `mapstructure:"version"`

	// Environment is the runtime environment (development, staging, production).
	Environment string `mapstructure:"environment" validate:"oneof=development staging production"`

	// Debug enables debug mode with verbose logging.
	Debug bool `mapstructure:"debug"`
}

// ServerConfig holds the HTTP server configuration.
type ServerConfig struct {
	// Host is the bind address.
	Host string `mapstructure:"host"`

	// Port is the HTTP API port.
	Port int `mapstructure:"port" validate:"required,min=1,max=65535"`

	// HTTP is the HTTP server configuration.
	HTTP HTTPConfig `mapstructure:"http"`

	// CORS is the CORS configuration.
	CORS CORSConfig `mapstructure:"cors"`

	// WebSocket is the real-time channel configuration.
	WebSocket WebSocketConfig `mapstructure:"websocket"`
}

// HTTPConfig holds HTTP-specific settings.
type HTTPConfig struct {
	// ReadTimeout is the maximum duration for reading the entire request.
	ReadTimeout time.Duration `mapstructure:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes.
	WriteTimeout time.Duration `mapstructure:"write_timeout"`

	// IdleTimeout is the maximum amount of time to wait for the next request.
	IdleTimeout time.Duration `mapstructure:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	// MaxHeaderBytes limits the size of request headers.
	MaxHeaderBytes int `mapstructure:"max_header_bytes"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	// Enabled enables CORS support.
	Enabled bool `mapstructure:"enabled"`

	// AllowedOrigins is the list of allowed origins.
	AllowedOrigins []string `mapstructure:"allowed_origins"`

	// AllowedMethods is the list of allowed HTTP methods.
	AllowedMethods []string `mapstructure:"allowed_methods"`

	// AllowedHeaders is the list of allowed headers.
	AllowedHeaders []string `mapstructure:"allowed_headers"`

	// ExposedHeaders is the list of headers exposed to the browser.
	ExposedHeaders []string `mapstructure:"exposed_headers"`

	// AllowCredentials indicates whether credentials are allowed.
	AllowCredentials bool `mapstructure:"allow_credentials"`

	// MaxAge is the maximum age of CORS preflight cache in seconds.
	MaxAge int `mapstructure:"max_age"`
}

// WebSocketConfig holds real-time channel settings.
type WebSocketConfig struct {
	// MaxConnections caps the number of concurrent websocket clients.
	MaxConnections int `mapstructure:"max_connections" validate:"min=0"`

	// PingInterval is how often the server pings idle connections.
	PingInterval time.Duration `mapstructure:"ping_interval"`

	// AllowedOrigins restricts which Origin headers may open a connection;
	// empty means same-origin only.
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is the log level (debug, info, warn, error).
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`

	// Format is the output format (json, text).
	Format string `mapstructure:"format" validate:"oneof=json text"`

	// Output is the output destination (stdout, stderr, or file path).
	Output string `mapstructure:"output"`
}

// SimulatorConfig tunes the simulated cluster's timing, matching the
// reference implementation's module-level constants.
type SimulatorConfig struct {
	// HealthCheckInterval is how often the health monitor scans nodes.
	HealthCheckInterval time.Duration `mapstructure:"health_check_interval" validate:"min=0"`

	// HeartbeatThreshold is how stale a heartbeat may get before a node is
	// marked failed.
	HeartbeatThreshold time.Duration `mapstructure:"heartbeat_threshold" validate:"min=0"`

	// NodeHeartbeatInterval is how often simulated nodes refresh their own heartbeat.
	NodeHeartbeatInterval time.Duration `mapstructure:"node_heartbeat_interval" validate:"min=0"`

	// UtilizationInterval is how often a utilization sample is recorded.
	UtilizationInterval time.Duration `mapstructure:"utilization_interval" validate:"min=0"`

	// BroadcastInterval is how often a full state snapshot is published.
	BroadcastInterval time.Duration `mapstructure:"broadcast_interval" validate:"min=0"`

	// AutoScaleInterval is how often the periodic under-capacity check runs.
	AutoScaleInterval time.Duration `mapstructure:"auto_scale_interval" validate:"min=0"`

	// AutoScaleCooldown is reserved for future rate-limiting of reactive
	// scale-out; carried through from the reference implementation's
	// AUTO_SCALE_COOLDOWN constant but not currently enforced anywhere.
	AutoScaleCooldown time.Duration `mapstructure:"auto_scale_cooldown" validate:"min=0"`

	// DefaultNodeCPU is the CPU profile assigned to a node when not specified.
	DefaultNodeCPU int `mapstructure:"default_node_cpu" validate:"min=1"`

	// DefaultNodeMemory is the memory profile assigned to a node when not specified.
	DefaultNodeMemory int `mapstructure:"default_node_memory" validate:"min=1"`

	// DefaultPodMemory is the memory a pod requests when not specified.
	DefaultPodMemory int `mapstructure:"default_pod_memory" validate:"min=1"`
}

// StorageConfig holds persistence settings.
//
// Earlier deployments configured persistence through MYSQL_HOST,
// MYSQL_USER, MYSQL_PASSWORD, and MYSQL_DATABASE. Those variables are
// superseded by this section's embedded key-value store: MYSQL_HOST/
// MYSQL_USER/MYSQL_PASSWORD have no equivalent (Badger is in-process and
// unauthenticated) and MYSQL_DATABASE maps to CLUSTERSIM_STORAGE_BADGER_PATH
// with CLUSTERSIM_STORAGE_TYPE=badger.
type StorageConfig struct {
	// Type is the storage backend (memory, badger).
	Type string `mapstructure:"type" validate:"oneof=memory badger"`

	// Badger is the BadgerDB configuration.
	Badger BadgerConfig `mapstructure:"badger"`
}

// BadgerConfig holds BadgerDB-specific settings.
type BadgerConfig struct {
	// Path is the database directory path.
	Path string `mapstructure:"path"`

	// SyncWrites enables synchronous writes for durability.
	SyncWrites bool `mapstructure:"sync_writes"`

	// ValueLogFileSize is the maximum size of value log files in bytes.
	ValueLogFileSize int64 `mapstructure:"value_log_file_size"`

	// NumVersionsToKeep is the number of versions to keep per key.
	NumVersionsToKeep int `mapstructure:"num_versions_to_keep"`
}

// RuntimeConfig controls how simulated nodes get a backing container.
type RuntimeConfig struct {
	// Type is the node runtime backend (noop, docker).
	Type string `mapstructure:"type" validate:"oneof=noop docker"`

	// Docker is the Docker Engine API configuration.
	Docker DockerConfig `mapstructure:"docker"`
}

// DockerConfig holds Docker Engine API client settings.
type DockerConfig struct {
	// SocketPath is the path to the Docker Unix socket.
	SocketPath string `mapstructure:"socket_path"`

	// Image is the image run for each simulated node container.
	Image string `mapstructure:"image"`

	// Network is the bridge network simulated nodes join.
	Network string `mapstructure:"network"`

	// ControllerURL is the address the spawned node-simulator container
	// reports heartbeats back to.
	ControllerURL string `mapstructure:"controller_url"`

	// HeartbeatIntervalSeconds is the interval passed to the container's
	// own heartbeat loop via --interval.
	HeartbeatIntervalSeconds int `mapstructure:"heartbeat_interval_seconds" validate:"min=1"`
}

// MetricsConfig holds observability settings.
type MetricsConfig struct {
	// Enabled enables metrics collection.
	Enabled bool `mapstructure:"enabled"`

	// Path is the metrics endpoint path.
	Path string `mapstructure:"path"`

	// Port is the metrics server port.
	Port int `mapstructure:"port" validate:"min=1,max=65535"`
}

// EventBusConfig controls the distributed fan-out of state updates and
// alerts. Websocket clients always get events in-process; setting a Redis
// address additionally publishes every event to Redis Pub/Sub so other
// processes watching the cluster can subscribe.
type EventBusConfig struct {
	// RedisAddr enables the Redis-backed transport when non-empty
	// (host:port).
	RedisAddr string `mapstructure:"redis_addr" validate:"omitempty,hostname_port"`

	// RedisPassword authenticates against Redis; empty for no auth.
	RedisPassword string `mapstructure:"redis_password"`

	// RedisDB selects the Redis logical database.
	RedisDB int `mapstructure:"redis_db" validate:"min=0"`
}

// TracingConfig holds distributed tracing settings.
type TracingConfig struct {
	// Enabled enables distributed tracing.
	Enabled bool `mapstructure:"enabled"`

	// Type is the tracing backend (jaeger, zipkin).
	Type string `mapstructure:"type" validate:"oneof=jaeger zipkin"`

	// Endpoint is the collector endpoint.
	Endpoint string `mapstructure:"endpoint"`

	// SampleRate is the fraction of traces to sample (0.0-1.0).
	SampleRate float64 `mapstructure:"sample_rate" validate:"min=0,max=1"`
}

// Validate performs validation on the configuration.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// String returns a string representation of the configuration (without sensitive data).
func (c *Config) String() string {
	return fmt.Sprintf("Config{App: %s, Server: :%d, Env: %s}",
		c.App.Name, c.Server.Port, c.App.Environment)
}
