package artifact

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/randalmurphal/flowstore/codec"
)

// FSManager stores outputs at baseDir/runID/stepKey/outputName.
//
// Artifacts written here are intermediate step data and are deliberately kept
// out of the asset catalog: Store always returns a nil Materialization.
type FSManager struct {
	baseDir string
	codec   codec.Codec
	logger  *slog.Logger
}

// NewFSManager creates an auto-path manager. A nil codec uses codec.Default.
func NewFSManager(baseDir string, c codec.Codec) *FSManager {
	if baseDir == "" {
		baseDir = DefaultBaseDir
	}
	if c == nil {
		c = codec.Default
	}
	return &FSManager{baseDir: baseDir, codec: c}
}

// BaseDir returns the root directory.
func (m *FSManager) BaseDir() string {
	return m.baseDir
}

// Strategy returns StrategyAuto.
func (m *FSManager) Strategy() Strategy {
	return StrategyAuto
}

// Path returns the artifact path for id.
func (m *FSManager) Path(id OutputIdentity) string {
	return ResolveAuto(m.baseDir, id)
}

// Store implements Manager.
func (m *FSManager) Store(ctx context.Context, out *Output, value any) (*Materialization, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if out == nil {
		return nil, fmt.Errorf("%w: nil output", ErrInvalidIdentity)
	}
	if err := out.Identity.Validate(); err != nil {
		return nil, err
	}

	path := m.Path(out.Identity)
	out.logger(m.logger).Debug("writing artifact", "path", path)

	if err := writeArtifact(m.codec, path, value); err != nil {
		return nil, err
	}
	return nil, nil
}

// Load implements Manager.
func (m *FSManager) Load(ctx context.Context, in *Input, target any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if in == nil || in.Upstream == nil {
		return fmt.Errorf("%w: input has no upstream output", ErrInvalidIdentity)
	}
	if err := in.Upstream.Identity.Validate(); err != nil {
		return err
	}

	path := m.Path(in.Upstream.Identity)
	in.logger(m.logger).Debug("loading artifact", "path", path)

	return readArtifact(m.codec, path, target)
}
