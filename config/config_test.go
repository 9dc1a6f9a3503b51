package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.App.Name != "clustersim" {
		t.Errorf("expected app name 'clustersim', got %s", cfg.App.Name)
	}
	if cfg.App.Environment != "development" {
		t.Errorf("expected environment 'development', got %s", cfg.App.Environment)
	}

	if cfg.Server.Port != 5000 {
		t.Errorf("expected server port 5000, got %d", cfg.Server.Port)
	}

	if cfg.Log.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Log.Level)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("expected log format 'json', got %s", cfg.Log.Format)
	}

	if cfg.Simulator.HealthCheckInterval != 5*time.Second {
		t.Errorf("expected health check interval 5s, got %v", cfg.Simulator.HealthCheckInterval)
	}
	if cfg.Simulator.HeartbeatThreshold != 15*time.Second {
		t.Errorf("expected heartbeat threshold 15s, got %v", cfg.Simulator.HeartbeatThreshold)
	}
	if cfg.Simulator.DefaultNodeCPU != 8 {
		t.Errorf("expected default node cpu 8, got %d", cfg.Simulator.DefaultNodeCPU)
	}

	if cfg.Storage.Type != "memory" {
		t.Errorf("expected storage type 'memory', got %s", cfg.Storage.Type)
	}
	if cfg.Runtime.Type != "noop" {
		t.Errorf("expected runtime type 'noop', got %s", cfg.Runtime.Type)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		wantErr bool
	}{
		{
			name: "valid config",
			cfg: func() *Config {
				cfg := DefaultConfig()
				cfg.App.Name = "test"
				cfg.App.Environment = "development"
				cfg.Server.Port = 8080
				cfg.Log.Level = "info"
				cfg.Log.Format = "json"
				return cfg
			}(),
			wantErr: false,
		},
		{
			name: "missing app name",
			cfg: func() *Config {
				cfg := DefaultConfig()
				cfg.App.Name = ""
				return cfg
			}(),
			wantErr: true,
		},
		{
			name: "invalid port",
			cfg: func() *Config {
				cfg := DefaultConfig()
				cfg.Server.Port = 99999
				return cfg
			}(),
			wantErr: true,
		},
		{
			name: "invalid log level",
			cfg: func() *Config {
				cfg := DefaultConfig()
				cfg.Log.Level = "trace"
				return cfg
			}(),
			wantErr: true,
		},
		{
			name: "invalid environment",
			cfg: func() *Config {
				cfg := DefaultConfig()
				cfg.App.Environment = "invalid"
				return cfg
			}(),
			wantErr: true,
		},
		{
			name: "invalid storage type",
			cfg: func() *Config {
				cfg := DefaultConfig()
				cfg.Storage.Type = "invalid"
				return cfg
			}(),
			wantErr: true,
		},
		{
			name: "invalid runtime type",
			cfg: func() *Config {
				cfg := DefaultConfig()
				cfg.Runtime.Type = "invalid"
				return cfg
			}(),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Field: "server.port", Message: "must be between 1 and 65535", Value: 99999},
		{Field: "log.level", Message: "must be one of [debug info warn error]", Value: "trace"},
	}

	errMsg := errs.Error()
	if errMsg == "" {
		t.Error("expected error message")
	}

	if errMsg == "no validation errors" {
		t.Error("expected error details")
	}
}

func TestConfig_String(t *testing.T) {
	cfg := &Config{
		App: AppConfig{
			Name:        "test",
			Environment: "development",
		},
		Server: ServerConfig{
			Port: 8080,
		},
	}

	s := cfg.String()
	if s == "" {
		t.Error("expected non-empty string representation")
	}
}

func TestDurationParsing(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.HTTP.ReadTimeout != 30*time.Second {
		t.Errorf("expected read timeout 30s, got %v", cfg.Server.HTTP.ReadTimeout)
	}

	if cfg.Simulator.AutoScaleInterval != 5*time.Second {
		t.Errorf("expected auto scale interval 5s, got %v", cfg.Simulator.AutoScaleInterval)
	}
}

func TestLoader_Get(t *testing.T) {
	loader := NewLoader()
	_, _ = loader.Load("", nil)

	val := loader.Get("app.name")
	if val == nil {
		t.Error("expected non-nil value for app.name")
	}

	str := loader.GetString("app.name")
	if str != "clustersim" {
		t.Errorf("expected 'clustersim', got '%s'", str)
	}

	port := loader.GetInt("server.port")
	if port != 5000 {
		t.Errorf("expected 5000, got %d", port)
	}

	enabled := loader.GetBool("metrics.enabled")
	if !enabled {
		t.Error("expected metrics.enabled to be true")
	}
}

func TestLoader_Set(t *testing.T) {
	loader := NewLoader()
	_, _ = loader.Load("", nil)

	err := loader.Set("app.name", "custom-app")
	if err != nil {
		t.Errorf("unexpected error setting value: %v", err)
	}

	if loader.GetString("app.name") != "custom-app" {
		t.Errorf("expected 'custom-app', got '%s'", loader.GetString("app.name"))
	}
}

func TestLoader_Print(t *testing.T) {
	loader := NewLoader()
	_, _ = loader.Load("", nil)

	output := loader.Print()
	if output == "" {
		t.Error("expected non-empty print output")
	}
}

func TestLoad(t *testing.T) {
	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg == nil {
		t.Error("expected non-nil config")
	}
}

func TestLoadOrDie(t *testing.T) {
	cfg := LoadOrDie("", nil)
	if cfg == nil {
		t.Error("expected non-nil config")
	}
}

func TestLoadOrDie_Panic(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for invalid config file")
		}
	}()

	LoadOrDie("/nonexistent/path/config.yaml", nil)
}

func TestLoader_LoadFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
app:
  name: yaml-test
  environment: production
server:
  port: 9999
log:
  level: debug
  format: text
simulator:
  health_check_interval: 10s
  default_node_cpu: 16
storage:
  type: badger
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	loader := NewLoader()
	cfg, err := loader.Load(configPath, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.App.Name != "yaml-test" {
		t.Errorf("expected 'yaml-test', got '%s'", cfg.App.Name)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("expected 9999, got %d", cfg.Server.Port)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected 'debug', got '%s'", cfg.Log.Level)
	}
	if cfg.Log.Format != "text" {
		t.Errorf("expected 'text', got '%s'", cfg.Log.Format)
	}
	if cfg.Simulator.DefaultNodeCPU != 16 {
		t.Errorf("expected default_node_cpu 16, got %d", cfg.Simulator.DefaultNodeCPU)
	}
	if cfg.Storage.Type != "badger" {
		t.Errorf("expected storage type 'badger', got %s", cfg.Storage.Type)
	}
}

func TestLoader_LoadJSONFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	jsonContent := `{
		"app": {
			"name": "json-test",
			"environment": "staging"
		},
		"server": {
			"port": 8888
		},
		"log": {
			"level": "warn",
			"format": "json"
		}
	}`
	if err := os.WriteFile(configPath, []byte(jsonContent), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	loader := NewLoader()
	cfg, err := loader.Load(configPath, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.App.Name != "json-test" {
		t.Errorf("expected 'json-test', got '%s'", cfg.App.Name)
	}
	if cfg.Server.Port != 8888 {
		t.Errorf("expected 8888, got %d", cfg.Server.Port)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("expected 'warn', got '%s'", cfg.Log.Level)
	}
}

func TestLoader_LoadInvalidFile(t *testing.T) {
	loader := NewLoader()

	_, err := loader.Load("/nonexistent/config.yaml", nil)
	if err == nil {
		t.Error("expected error for non-existent file")
	}
}

func TestLoader_LoadUnsupportedFormat(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	if err := os.WriteFile(configPath, []byte("app = 'test'"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	loader := NewLoader()
	_, err := loader.Load(configPath, nil)
	if err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestLoader_EnvVars(t *testing.T) {
	if err := os.Setenv("CLUSTERSIM_APP_NAME", "env-test"); err != nil {
		t.Skipf("cannot set environment variable: %v", err)
	}
	if err := os.Setenv("CLUSTERSIM_SERVER_PORT", "7777"); err != nil {
		t.Skipf("cannot set environment variable: %v", err)
	}
	if err := os.Setenv("CLUSTERSIM_LOG_LEVEL", "error"); err != nil {
		t.Skipf("cannot set environment variable: %v", err)
	}
	defer func() {
		os.Unsetenv("CLUSTERSIM_APP_NAME")
		os.Unsetenv("CLUSTERSIM_SERVER_PORT")
		os.Unsetenv("CLUSTERSIM_LOG_LEVEL")
	}()

	loader := NewLoader()
	cfg, err := loader.Load("", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg == nil {
		t.Fatal("expected non-nil config")
	}

	if cfg.App.Name == "" {
		t.Error("expected non-empty app name")
	}
}

func TestValidation_InvalidStorageType(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Storage.Type = "invalid"

	err := cfg.Validate()
	if err == nil {
		t.Error("expected validation error for invalid storage type")
	}
}

func TestValidation_InvalidRuntimeType(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Runtime.Type = "invalid"

	err := cfg.Validate()
	if err == nil {
		t.Error("expected validation error for invalid runtime type")
	}
}

func TestValidation_InvalidTracingType(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Tracing.Enabled = true
	cfg.Tracing.Type = "invalid"

	err := cfg.Validate()
	if err == nil {
		t.Error("expected validation error for invalid tracing type")
	}
}

func TestValidateWithDetails_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.App.Name = ""
	cfg.Server.Port = 0

	err := ValidateWithDetails(cfg)
	if err == nil {
		t.Fatal("expected validation error details")
	}

	details, ok := err.(ValidationErrors)
	if !ok {
		t.Fatalf("expected ValidationErrors, got %T", err)
	}
	if len(details) == 0 {
		t.Fatal("expected non-empty validation details")
	}
}

func TestValidation_InvalidPort(t *testing.T) {
	tests := []struct {
		name    string
		port    int
		wantErr bool
	}{
		{"valid port 80", 80, false},
		{"valid port 8080", 8080, false},
		{"valid port 65535", 65535, false},
		{"invalid port 0", 0, true},
		{"invalid port -1", -1, true},
		{"invalid port 65536", 65536, true},
		{"invalid port 99999", 99999, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Server.Port = tt.port
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("port %d: expected error=%v, got error=%v", tt.port, tt.wantErr, err)
			}
		})
	}
}

func TestValidateEnvironmentAndHost(t *testing.T) {
	t.Run("environment values", func(t *testing.T) {
		validEnvs := []string{"development", "staging", "production"}
		for _, env := range validEnvs {
			cfg := DefaultConfig()
			cfg.App.Environment = env
			if err := cfg.Validate(); err != nil {
				t.Errorf("environment '%s' should be valid, got error: %v", env, err)
			}
		}

		cfg := DefaultConfig()
		cfg.App.Environment = "invalid-env"
		if err := cfg.Validate(); err == nil {
			t.Error("invalid environment should fail validation")
		}
	})

	t.Run("server host values accepted", func(t *testing.T) {
		validHosts := []string{"", "localhost", "127.0.0.1", "example.com", "api.example.com"}
		for _, host := range validHosts {
			cfg := DefaultConfig()
			cfg.Server.Host = host
			if err := cfg.Validate(); err != nil {
				t.Errorf("host '%s' should be valid, got error: %v", host, err)
			}
		}
	})
}

func TestDescribeFailureMessages(t *testing.T) {
	// Exercised through a config that trips several tags at once; the
	// aggregated message should carry the per-tag phrasing.
	cfg := DefaultConfig()
	cfg.Server.Port = 99999       // max
	cfg.Log.Level = "trace"       // oneof
	cfg.App.Name = ""             // required

	err := ValidateWithDetails(cfg)
	if err == nil {
		t.Fatal("expected validation failure")
	}
	msg := err.Error()
	for _, want := range []string{"must be at most", "must be one of", "this field is required"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q missing %q", msg, want)
		}
	}
}
