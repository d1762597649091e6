package flowstore

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/randalmurphal/flowstore/artifact"
	"github.com/randalmurphal/flowstore/config"
	"github.com/randalmurphal/flowstore/telemetry"
	"go.opentelemetry.io/otel/trace"
)

type options struct {
	registerer prometheus.Registerer
	tracer     trace.Tracer
	logger     *slog.Logger
}

// Option configures Open.
type Option func(*options)

// WithRegisterer instruments the manager with Prometheus metrics registered on reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) { o.registerer = reg }
}

// WithTracer wraps every store and load in an OpenTelemetry span.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *options) { o.tracer = tracer }
}

// WithLogger sets the fallback logger for outputs that carry none.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// Open builds the manager described by settings. The codec is wrapped with
// gzip when settings.Compress is set. Tracing is applied outermost.
func Open(settings config.Settings, opts ...Option) (artifact.Manager, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	cfg, err := settings.ManagerConfig()
	if err != nil {
		return nil, err
	}
	cfg.Logger = o.logger

	m, err := artifact.NewManager(cfg)
	if err != nil {
		return nil, err
	}

	if o.registerer != nil {
		if m, err = telemetry.WithMetrics(m, o.registerer); err != nil {
			return nil, err
		}
	}
	if o.tracer != nil {
		m = telemetry.WithTracing(m, o.tracer)
	}
	return m, nil
}

// OpenResolved resolves configuration with r, applies overrides, and opens
// the resulting manager.
func OpenResolved(r *config.Resolver, overrides map[string]string, opts ...Option) (artifact.Manager, error) {
	settings, err := r.ResolveWithOverrides(overrides).Settings()
	if err != nil {
		return nil, err
	}
	return Open(settings, opts...)
}
