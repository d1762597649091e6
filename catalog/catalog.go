package catalog

import (
	"context"

	"github.com/randalmurphal/flowstore/artifact"
)

// =============================================================================
// Recorder Interface
// =============================================================================

// Recorder consumes materialization records produced by custom-path stores.
type Recorder interface {
	// Record appends a materialization. Records are never updated or removed.
	Record(ctx context.Context, m artifact.Materialization) error
}

// =============================================================================
// Context Injection
// =============================================================================

type serviceContextKey string

const recorderServiceKey serviceContextKey = "flowstore.catalog"

// WithRecorder adds a Recorder to the context.
func WithRecorder(ctx context.Context, r Recorder) context.Context {
	return context.WithValue(ctx, recorderServiceKey, r)
}

// RecorderFromContext extracts the Recorder from context.
// Returns nil if no recorder is configured.
func RecorderFromContext(ctx context.Context) Recorder {
	if r, ok := ctx.Value(recorderServiceKey).(Recorder); ok {
		return r
	}
	return nil
}

// MustRecorderFromContext extracts the Recorder or panics.
func MustRecorderFromContext(ctx context.Context) Recorder {
	r := RecorderFromContext(ctx)
	if r == nil {
		panic("flowstore: catalog Recorder not found in context")
	}
	return r
}
