package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Configuration keys.
const (
	KeyBaseDir  = "base_dir"
	KeyStrategy = "strategy"
	KeyCodec    = "codec"
	KeyCompress = "compress"
)

// Keys lists every recognized configuration key.
var Keys = []string{KeyBaseDir, KeyStrategy, KeyCodec, KeyCompress}

// Defaults returns the built-in value for every key.
func Defaults() map[string]string {
	return map[string]string{
		KeyBaseDir:  ".",
		KeyStrategy: "auto",
		KeyCodec:    "cbor",
		KeyCompress: "false",
	}
}

// Standard locations.
const (
	DefaultEnvPrefix       = "FLOWSTORE_"
	DefaultGlobalConfigDir = "flowstore"
	DefaultLocalConfigName = ".flowstore.yaml"
)

// ResolverConfig configures the layered config resolver.
type ResolverConfig struct {
	// EnvPrefix is prepended to key names for environment variable lookup.
	// With "FLOWSTORE_", key "base_dir" maps to FLOWSTORE_BASE_DIR.
	EnvPrefix string

	// GlobalConfigDir is the directory under ~/.config/ holding config.yaml.
	GlobalConfigDir string

	// LocalConfigName is the project config filename. The nearest file with
	// this name in StartDir or any parent is used.
	LocalConfigName string

	// StartDir is where the local config search begins. Defaults to ".".
	StartDir string

	// Defaults provides the lowest-priority values.
	Defaults map[string]string

	// ErrWriter is where warnings are written. Defaults to os.Stderr.
	ErrWriter io.Writer
}

// DefaultResolverConfig returns the flowstore locations and defaults.
func DefaultResolverConfig() ResolverConfig {
	return ResolverConfig{
		EnvPrefix:       DefaultEnvPrefix,
		GlobalConfigDir: DefaultGlobalConfigDir,
		LocalConfigName: DefaultLocalConfigName,
		Defaults:        Defaults(),
	}
}

// Resolver merges configuration from defaults, files, environment and overrides.
type Resolver struct {
	config     ResolverConfig
	globalPath string
	localPath  string

	// Warnings collects non-fatal issues during resolution.
	Warnings []string
}

// NewResolver creates a resolver, locating the global and local files.
func NewResolver(cfg ResolverConfig) *Resolver {
	globalPath := ""
	if cfg.GlobalConfigDir != "" {
		if home, err := os.UserHomeDir(); err == nil {
			globalPath = filepath.Join(home, ".config", cfg.GlobalConfigDir, "config.yaml")
		}
	}

	localPath := ""
	if cfg.LocalConfigName != "" {
		start := cfg.StartDir
		if start == "" {
			start = "."
		}
		localPath = findLocalConfig(start, cfg.LocalConfigName)
	}

	return NewResolverWithPaths(cfg, globalPath, localPath)
}

// NewResolverWithPaths creates a resolver with explicit global and local paths.
// Either path may be empty to skip that layer.
func NewResolverWithPaths(cfg ResolverConfig, globalPath, localPath string) *Resolver {
	if cfg.ErrWriter == nil {
		cfg.ErrWriter = os.Stderr
	}
	if cfg.Defaults == nil {
		cfg.Defaults = Defaults()
	}
	return &Resolver{
		config:     cfg,
		globalPath: globalPath,
		localPath:  localPath,
	}
}

func (r *Resolver) warn(msg string) {
	r.Warnings = append(r.Warnings, msg)
	if r.config.ErrWriter != nil {
		fmt.Fprintf(r.config.ErrWriter, "Warning: %s\n", msg)
	}
}

// GlobalPath returns the global config file path, if any.
func (r *Resolver) GlobalPath() string {
	return r.globalPath
}

// LocalPath returns the local config file path, if any.
func (r *Resolver) LocalPath() string {
	return r.localPath
}

// Resolved holds the merged configuration.
type Resolved struct {
	values  map[string]string
	sources map[string]Source

	// invalid records keys whose file value was not a scalar.
	invalid map[string]*ConfigError
}

// Get returns the value for a key, or empty string if not set.
func (c *Resolved) Get(key string) string {
	return c.values[key]
}

// Source returns where a key's value came from.
func (c *Resolved) Source(key string) Source {
	return c.sources[key]
}

// GetWithSource returns both the value and its source.
func (c *Resolved) GetWithSource(key string) (string, Source) {
	return c.values[key], c.sources[key]
}

// All returns a copy of all key-value pairs.
func (c *Resolved) All() map[string]string {
	result := make(map[string]string, len(c.values))
	for k, v := range c.values {
		result[k] = v
	}
	return result
}

// Keys returns the set keys, sorted.
func (c *Resolved) Keys() []string {
	keys := make([]string, 0, len(c.values))
	for k := range c.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Resolve builds the final config.
// Priority (highest to lowest): env > local > global > defaults.
func (r *Resolver) Resolve() *Resolved {
	cfg := &Resolved{
		values:  make(map[string]string),
		sources: make(map[string]Source),
		invalid: make(map[string]*ConfigError),
	}

	for key, value := range r.config.Defaults {
		cfg.values[key] = value
		cfg.sources[key] = SourceDefault
	}
	r.applyFile(cfg, r.globalPath, SourceGlobal)
	r.applyFile(cfg, r.localPath, SourceLocal)
	r.applyEnv(cfg)

	return cfg
}

// ResolveWithOverrides resolves config and applies explicit overrides,
// typically from command-line flags. Empty override values are ignored.
func (r *Resolver) ResolveWithOverrides(overrides map[string]string) *Resolved {
	cfg := r.Resolve()

	for key, value := range overrides {
		if value == "" {
			continue
		}
		cfg.values[key] = value
		cfg.sources[key] = SourceFlag
		delete(cfg.invalid, key)
	}

	return cfg
}

func (r *Resolver) applyFile(cfg *Resolved, path string, source Source) {
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return // Missing file is not an error
	}

	var parsed map[string]any
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		r.warn(fmt.Sprintf("could not parse %s: %v", path, err))
		return
	}

	for key, value := range parsed {
		if !isKnownKey(key) {
			r.warn(fmt.Sprintf("%s: unknown key %q", path, key))
			continue
		}
		strVal, ok := toString(value)
		if !ok {
			cfg.invalid[key] = &ConfigError{
				Key:    key,
				Value:  fmt.Sprintf("%v", value),
				Source: source,
				Reason: fmt.Sprintf("expected a scalar, got %T", value),
			}
			continue
		}
		cfg.values[key] = strVal
		cfg.sources[key] = source
		delete(cfg.invalid, key)
	}
}

func (r *Resolver) applyEnv(cfg *Resolved) {
	if r.config.EnvPrefix == "" {
		return
	}

	for _, key := range Keys {
		envKey := r.config.EnvPrefix + strings.ToUpper(key)
		if value, ok := os.LookupEnv(envKey); ok && value != "" {
			cfg.values[key] = value
			cfg.sources[key] = SourceEnv
			delete(cfg.invalid, key)
		}
	}
}

func isKnownKey(key string) bool {
	for _, k := range Keys {
		if k == key {
			return true
		}
	}
	return false
}

func toString(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case bool:
		if val {
			return "true", true
		}
		return "false", true
	case int, int64, float64:
		return fmt.Sprintf("%v", val), true
	default:
		return "", false
	}
}

// findLocalConfig walks up from startDir looking for name.
func findLocalConfig(startDir, name string) string {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return ""
	}

	for {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
