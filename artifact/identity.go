package artifact

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// OutputIdentity identifies a step output within a run.
type OutputIdentity struct {
	RunID      string `json:"runId"`
	StepKey    string `json:"stepKey"`
	OutputName string `json:"outputName"`
}

// Segments returns the identity components in path order.
func (id OutputIdentity) Segments() []string {
	return []string{id.RunID, id.StepKey, id.OutputName}
}

// Validate rejects identities whose components would collapse or escape when
// joined as path segments. Two valid, distinct identities never share a path.
func (id OutputIdentity) Validate() error {
	names := [...]string{"run id", "step key", "output name"}
	for i, seg := range id.Segments() {
		switch {
		case seg == "":
			return fmt.Errorf("%w: empty %s", ErrInvalidIdentity, names[i])
		case seg == "." || seg == "..":
			return fmt.Errorf("%w: %s %q", ErrInvalidIdentity, names[i], seg)
		case strings.ContainsAny(seg, `/\`):
			return fmt.Errorf("%w: %s %q contains a path separator", ErrInvalidIdentity, names[i], seg)
		}
	}
	return nil
}

func (id OutputIdentity) String() string {
	return strings.Join(id.Segments(), "/")
}

// OutputMetadata is the metadata declared on a step output.
type OutputMetadata struct {
	// Path is the artifact location relative to the base directory.
	// Only the custom-path strategy reads it.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// Extra carries free-form user metadata. It is not interpreted here.
	Extra map[string]string `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// CustomPath returns the declared relative path or ErrMissingMetadata.
func (m OutputMetadata) CustomPath() (string, error) {
	if m.Path == "" {
		return "", ErrMissingMetadata
	}
	return m.Path, nil
}

// Output describes a step output being produced.
type Output struct {
	Identity     OutputIdentity
	PipelineName string
	Metadata     OutputMetadata

	// Logger receives debug lines about resolved paths. Nil uses slog.Default().
	Logger *slog.Logger
}

// AssetKey returns the catalog key for this output.
func (o *Output) AssetKey() AssetKey {
	return AssetKey{o.PipelineName, o.Identity.StepKey, o.Identity.OutputName}
}

func (o *Output) logger(fallback *slog.Logger) *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	if fallback != nil {
		return fallback
	}
	return slog.Default()
}

// Input describes a step input being consumed. Upstream is the output that
// produced the value.
type Input struct {
	Upstream *Output
	Logger   *slog.Logger
}

func (in *Input) logger(fallback *slog.Logger) *slog.Logger {
	if in.Logger != nil {
		return in.Logger
	}
	if in.Upstream != nil {
		return in.Upstream.logger(fallback)
	}
	if fallback != nil {
		return fallback
	}
	return slog.Default()
}

// AssetKey is an ordered catalog key.
type AssetKey []string

func (k AssetKey) String() string {
	return strings.Join(k, "/")
}

// Equal reports whether both keys have the same components in the same order.
func (k AssetKey) Equal(other AssetKey) bool {
	if len(k) != len(other) {
		return false
	}
	for i := range k {
		if k[i] != other[i] {
			return false
		}
	}
	return true
}

// Materialization records where a cataloged artifact was written.
// It is created once per custom-path store and never modified.
type Materialization struct {
	ID        string    `json:"id"`
	AssetKey  AssetKey  `json:"assetKey"`
	Path      string    `json:"path"` // Absolute filesystem path
	Strategy  Strategy  `json:"strategy"`
	RunID     string    `json:"runId"`
	Timestamp time.Time `json:"timestamp"`
}
