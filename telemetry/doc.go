// Package telemetry wraps an artifact.Manager with Prometheus metrics and
// OpenTelemetry tracing.
//
// Decorators forward the wrapped manager's results unchanged: a store through
// an auto-strategy manager still returns a nil Materialization, and errors
// keep their kinds for errors.Is.
//
//	m, _ := artifact.NewManager(cfg)
//	m, err := telemetry.WithMetrics(m, prometheus.DefaultRegisterer)
//	m = telemetry.WithTracing(m, otel.Tracer("pipelines"))
package telemetry
