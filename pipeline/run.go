package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	nanoid "github.com/matoous/go-nanoid/v2"
	"github.com/randalmurphal/flowstore/artifact"
)

const runIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// Run identifies one execution of a pipeline.
type Run struct {
	ID           string `json:"id"`
	PipelineName string `json:"pipelineName"`

	// Logger is attached to every output built from this run. Nil uses the
	// manager's fallback logger.
	Logger *slog.Logger `json:"-"`
}

// NewRun creates a run with a fresh ID.
func NewRun(pipelineName string) Run {
	return Run{ID: NewRunID(), PipelineName: pipelineName}
}

// NewRunID returns a date-prefixed run ID that is safe as a path segment,
// e.g. "2026-03-01-k3v9x0q2ma7d".
func NewRunID() string {
	date := time.Now().Format("2006-01-02")
	suffix, err := nanoid.Generate(runIDAlphabet, 12)
	if err != nil {
		// Fallback to timestamp-based suffix on entropy failure
		suffix = fmt.Sprintf("%x", time.Now().UnixNano())
	}
	return date + "-" + suffix
}

// WithRunID returns a copy of r with a caller-chosen ID.
func (r Run) WithRunID(id string) Run {
	r.ID = id
	return r
}

// Identity returns the identity of a step output within this run.
func (r Run) Identity(step, output string) artifact.OutputIdentity {
	return artifact.OutputIdentity{RunID: r.ID, StepKey: step, OutputName: output}
}

// Output describes a step output produced in this run.
func (r Run) Output(step, output string, meta artifact.OutputMetadata) *artifact.Output {
	return &artifact.Output{
		Identity:     r.Identity(step, output),
		PipelineName: r.PipelineName,
		Metadata:     meta,
		Logger:       r.Logger,
	}
}

// Input describes a step input consuming an output produced in this run.
// meta must match the metadata the output was stored with.
func (r Run) Input(step, output string, meta artifact.OutputMetadata) *artifact.Input {
	return &artifact.Input{Upstream: r.Output(step, output, meta), Logger: r.Logger}
}

// =============================================================================
// Context Injection
// =============================================================================

type serviceContextKey string

const runServiceKey serviceContextKey = "flowstore.run"

// WithRun adds a Run to the context.
func WithRun(ctx context.Context, r Run) context.Context {
	return context.WithValue(ctx, runServiceKey, r)
}

// RunFromContext extracts the Run from context.
func RunFromContext(ctx context.Context) (Run, bool) {
	r, ok := ctx.Value(runServiceKey).(Run)
	return r, ok
}
