package artifact

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/randalmurphal/flowstore/codec"
)

// CustomPathManager stores outputs at baseDir joined with the output's
// metadata path. Every successful Store returns a Materialization so the
// artifact shows up in the asset catalog.
//
// Two outputs declaring the same path overwrite each other.
type CustomPathManager struct {
	baseDir string
	codec   codec.Codec
	logger  *slog.Logger
}

// NewCustomPathManager creates a custom-path manager. A nil codec uses codec.Default.
func NewCustomPathManager(baseDir string, c codec.Codec) *CustomPathManager {
	if baseDir == "" {
		baseDir = DefaultBaseDir
	}
	if c == nil {
		c = codec.Default
	}
	return &CustomPathManager{baseDir: baseDir, codec: c}
}

// BaseDir returns the root directory.
func (m *CustomPathManager) BaseDir() string {
	return m.baseDir
}

// Strategy returns StrategyCustom.
func (m *CustomPathManager) Strategy() Strategy {
	return StrategyCustom
}

// Path returns the artifact path declared by meta.
func (m *CustomPathManager) Path(meta OutputMetadata) (string, error) {
	rel, err := meta.CustomPath()
	if err != nil {
		return "", err
	}
	return ResolveCustom(m.baseDir, rel), nil
}

// Store implements Manager.
func (m *CustomPathManager) Store(ctx context.Context, out *Output, value any) (*Materialization, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if out == nil {
		return nil, fmt.Errorf("%w: nil output", ErrMissingMetadata)
	}

	path, err := m.Path(out.Metadata)
	if err != nil {
		return nil, fmt.Errorf("store %s: %w", out.Identity, err)
	}

	out.logger(m.logger).Debug("writing artifact", "path", path)

	if err := writeArtifact(m.codec, path, value); err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &Error{Op: "store", Path: path, Err: err}
	}

	return &Materialization{
		ID:        uuid.NewString(),
		AssetKey:  out.AssetKey(),
		Path:      abs,
		Strategy:  StrategyCustom,
		RunID:     out.Identity.RunID,
		Timestamp: time.Now(),
	}, nil
}

// Load implements Manager.
func (m *CustomPathManager) Load(ctx context.Context, in *Input, target any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if in == nil || in.Upstream == nil {
		return fmt.Errorf("%w: input has no upstream output", ErrMissingMetadata)
	}

	path, err := m.Path(in.Upstream.Metadata)
	if err != nil {
		return fmt.Errorf("load %s: %w", in.Upstream.Identity, err)
	}

	in.logger(m.logger).Debug("loading artifact", "path", path)

	return readArtifact(m.codec, path, target)
}
