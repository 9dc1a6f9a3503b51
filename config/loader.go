package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix is the prefix for environment variable overrides, e.g.
	// CLUSTERSIM_SERVER_PORT=5000.
	EnvPrefix = "CLUSTERSIM_"
	// Delimiter separates nested config keys ("server.port").
	Delimiter = "."
)

// Loader layers configuration sources onto a koanf instance. Precedence,
// lowest to highest: built-in defaults, config file, environment
// variables, CLI overrides.
type Loader struct {
	k *koanf.Koanf
}

// NewLoader creates an empty loader.
func NewLoader() *Loader {
	return &Loader{k: koanf.New(Delimiter)}
}

// Load runs the full layering pipeline and returns a validated Config.
func (l *Loader) Load(configPath string, overrides map[string]interface{}) (*Config, error) {
	if err := l.loadDefaults(); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		if err := l.loadFile(configPath); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	} else {
		l.loadFirstDefaultFile()
	}

	if err := l.loadEnv(); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if len(overrides) > 0 {
		if err := l.k.Load(confmap.Provider(overrides, Delimiter), nil); err != nil {
			return nil, fmt.Errorf("failed to apply overrides: %w", err)
		}
	}

	// Koanf merges maps by replacement, so a file that sets one key of a
	// section can clobber that section's other defaults. Re-seed any key
	// that ended up unset.
	if err := l.fillDefaults(); err != nil {
		return nil, fmt.Errorf("failed to fill defaults: %w", err)
	}

	var cfg Config
	if err := l.k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "mapstructure"}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := ValidateWithDetails(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (l *Loader) loadDefaults() error {
	defaults := DefaultConfig()
	return l.k.Load(confmap.Provider(map[string]interface{}{
		"app":       defaults.App,
		"server":    defaults.Server,
		"log":       defaults.Log,
		"simulator": defaults.Simulator,
		"storage":   defaults.Storage,
		"runtime":   defaults.Runtime,
		"metrics":   defaults.Metrics,
		"tracing":   defaults.Tracing,
		"eventbus":  defaults.EventBus,
	}, Delimiter), nil)
}

func (l *Loader) loadFile(path string) error {
	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return fmt.Errorf("unsupported config file format: %s", filepath.Ext(path))
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("config file not found: %s", path)
	}
	return l.k.Load(file.Provider(path), parser)
}

// loadFirstDefaultFile probes the conventional locations and loads the
// first config file it finds; absence of all of them is not an error.
func (l *Loader) loadFirstDefaultFile() {
	for _, path := range []string{
		"config.yaml",
		"config.yml",
		"config.json",
		"configs/config.yaml",
		"/etc/clustersim/config.yaml",
	} {
		if _, err := os.Stat(path); err == nil {
			_ = l.loadFile(path)
			return
		}
	}
}

// loadEnv maps CLUSTERSIM_SERVER_PORT style variables onto server.port
// style keys. Every underscore after the prefix becomes a dot, so keys whose
// own names contain an underscore (such as server.read_timeout) cannot be
// set from the environment.
func (l *Loader) loadEnv() error {
	return l.k.Load(env.Provider(EnvPrefix, Delimiter, func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".")
	}), nil)
}

// Accessors used by tests and debugging tooling.

func (l *Loader) Get(key string) interface{}           { return l.k.Get(key) }
func (l *Loader) GetString(key string) string          { return l.k.String(key) }
func (l *Loader) GetInt(key string) int                { return l.k.Int(key) }
func (l *Loader) GetBool(key string) bool              { return l.k.Bool(key) }
func (l *Loader) Set(key string, value interface{}) error { return l.k.Set(key, value) }
func (l *Loader) Print() string                        { return l.k.Sprint() }

// fillDefaults re-applies any default key the layered sources left unset.
func (l *Loader) fillDefaults() error {
	for key, value := range flattenStruct(DefaultConfig(), "") {
		if l.k.Get(key) == nil {
			if err := l.k.Set(key, value); err != nil {
				return fmt.Errorf("failed to set default for %s: %w", key, err)
			}
		}
	}
	return nil
}

// flattenStruct walks a config struct and returns its mapstructure-tagged
// leaves as dot-separated koanf keys, so defaults need no hand-maintained
// key list.
func flattenStruct(v interface{}, prefix string) map[string]interface{} {
	out := make(map[string]interface{})

	val := reflect.ValueOf(v)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return out
	}

	typ := val.Type()
	for i := 0; i < val.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		key := field.Tag.Get("mapstructure")
		if key == "" || key == "-" {
			continue
		}
		if prefix != "" {
			key = prefix + Delimiter + key
		}

		fv := val.Field(i)
		switch fv.Kind() {
		case reflect.Ptr:
			if !fv.IsNil() {
				mergeInto(out, flattenStruct(fv.Elem().Interface(), key))
			}
		case reflect.Struct:
			mergeInto(out, flattenStruct(fv.Interface(), key))
		case reflect.Slice:
			vals := make([]interface{}, fv.Len())
			for j := range vals {
				vals[j] = fv.Index(j).Interface()
			}
			out[key] = vals
		default:
			// Scalars, including time.Duration (an int64 kind).
			out[key] = fv.Interface()
		}
	}
	return out
}

func mergeInto(dst, src map[string]interface{}) {
	for k, v := range src {
		dst[k] = v
	}
}

// Load is the package-level convenience entry point.
func Load(configPath string, overrides map[string]interface{}) (*Config, error) {
	return NewLoader().Load(configPath, overrides)
}

// LoadOrDie is Load, panicking on error. Intended for tooling and tests.
func LoadOrDie(configPath string, overrides map[string]interface{}) *Config {
	cfg, err := Load(configPath, overrides)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}
