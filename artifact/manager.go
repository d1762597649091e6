package artifact

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/randalmurphal/flowstore/codec"
)

// Manager persists step outputs so downstream steps can load them.
type Manager interface {
	// Store encodes value and writes it to the location for out, overwriting
	// anything already there. The returned Materialization is non-nil only
	// when the strategy catalogs its artifacts.
	Store(ctx context.Context, out *Output, value any) (*Materialization, error)

	// Load reads the artifact written for in.Upstream and decodes it into target.
	Load(ctx context.Context, in *Input, target any) error
}

var (
	_ Manager = (*FSManager)(nil)
	_ Manager = (*CustomPathManager)(nil)
)

// Strategy selects how artifact paths are resolved.
type Strategy string

// Path strategies
const (
	// StrategyAuto derives paths from the run, step and output names.
	StrategyAuto Strategy = "auto"

	// StrategyCustom reads paths from output metadata and catalogs every store.
	StrategyCustom Strategy = "custom"
)

// Valid reports whether s is a known strategy.
func (s Strategy) Valid() bool {
	return s == StrategyAuto || s == StrategyCustom
}

// Config holds configuration for NewManager.
type Config struct {
	BaseDir  string       // Root for all artifact paths (default: ".")
	Strategy Strategy     // Path strategy (default: StrategyAuto)
	Codec    codec.Codec  // Value codec (default: codec.Default)
	Logger   *slog.Logger // Fallback when an Output carries no logger
}

// DefaultBaseDir is used when Config.BaseDir is empty.
const DefaultBaseDir = "."

// NewManager creates the manager selected by cfg.Strategy.
// No filesystem access happens until the first Store.
func NewManager(cfg Config) (Manager, error) {
	if cfg.BaseDir == "" {
		cfg.BaseDir = DefaultBaseDir
	}
	if cfg.Strategy == "" {
		cfg.Strategy = StrategyAuto
	}
	if cfg.Codec == nil {
		cfg.Codec = codec.Default
	}

	switch cfg.Strategy {
	case StrategyAuto:
		return &FSManager{baseDir: cfg.BaseDir, codec: cfg.Codec, logger: cfg.Logger}, nil
	case StrategyCustom:
		return &CustomPathManager{baseDir: cfg.BaseDir, codec: cfg.Codec, logger: cfg.Logger}, nil
	default:
		return nil, fmt.Errorf("%w: unknown strategy %q", ErrInvalidConfig, cfg.Strategy)
	}
}

// writeArtifact encodes value and writes it to path, creating parent directories.
func writeArtifact(c codec.Codec, path string, value any) error {
	data, err := c.Encode(value)
	if err != nil {
		return &Error{Op: "store", Path: path, Kind: ErrEncode, Err: err}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return &Error{Op: "store", Path: path, Err: err}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return &Error{Op: "store", Path: path, Err: err}
	}
	return nil
}

// readArtifact reads path and decodes it into target.
func readArtifact(c codec.Codec, path string, target any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Error{Op: "load", Path: path, Kind: ErrNotFound, Err: err}
		}
		return &Error{Op: "load", Path: path, Err: err}
	}

	if err := c.Decode(data, target); err != nil {
		return &Error{Op: "load", Path: path, Kind: ErrDecode, Err: err}
	}
	return nil
}
