package flowstore

import (
	"context"

	"github.com/randalmurphal/flowstore/artifact"
	"github.com/randalmurphal/flowstore/catalog"
)

// =============================================================================
// Context Injection Helpers
// =============================================================================
// These helpers let flowgraph nodes find the artifact manager without it
// being threaded through pipeline state.

// serviceContextKey is a private type for context keys to avoid collisions
type serviceContextKey string

const managerServiceKey serviceContextKey = "flowstore.manager"

// WithManager adds an artifact.Manager to the context
func WithManager(ctx context.Context, m artifact.Manager) context.Context {
	return context.WithValue(ctx, managerServiceKey, m)
}

// ManagerFromContext extracts the artifact.Manager from context
func ManagerFromContext(ctx context.Context) artifact.Manager {
	if m, ok := ctx.Value(managerServiceKey).(artifact.Manager); ok {
		return m
	}
	return nil
}

// MustManagerFromContext extracts the artifact.Manager or panics
func MustManagerFromContext(ctx context.Context) artifact.Manager {
	m := ManagerFromContext(ctx)
	if m == nil {
		panic("flowstore: artifact.Manager not found in context")
	}
	return m
}

// Services wraps the flowstore services for convenient injection
type Services struct {
	Manager  artifact.Manager
	Recorder catalog.Recorder // Optional; receives custom-path materializations
}

// InjectAll adds all configured services to the context
func (s *Services) InjectAll(ctx context.Context) context.Context {
	if s.Manager != nil {
		ctx = WithManager(ctx, s.Manager)
	}
	if s.Recorder != nil {
		ctx = catalog.WithRecorder(ctx, s.Recorder)
	}
	return ctx
}
