package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/randalmurphal/flowstore/artifact"
)

// Operation labels
const (
	OpStore = "store"
	OpLoad  = "load"
)

// Outcome labels
const (
	OutcomeOK              = "ok"
	OutcomeNotFound        = "not_found"
	OutcomeDecode          = "decode_error"
	OutcomeEncode          = "encode_error"
	OutcomeMissingMetadata = "missing_metadata"
	OutcomeInvalidIdentity = "invalid_identity"
	OutcomeCanceled        = "canceled"
	OutcomeError           = "error"
)

// Metrics holds the collectors shared by every metered manager registered
// against the same registerer.
type Metrics struct {
	Operations       *prometheus.CounterVec
	Duration         *prometheus.HistogramVec
	Materializations *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg. Collectors
// already registered by an earlier call are reused. A nil reg uses
// prometheus.DefaultRegisterer.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		Operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flowstore",
			Name:      "artifact_operations_total",
			Help:      "Total number of artifact store and load operations",
		}, []string{"op", "strategy", "outcome"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "flowstore",
			Name:      "artifact_operation_duration_seconds",
			Help:      "Duration of artifact store and load operations in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op", "strategy"}),
		Materializations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flowstore",
			Name:      "materializations_total",
			Help:      "Total number of materialization records emitted",
		}, []string{"strategy"}),
	}

	var err error
	if m.Operations, err = register(reg, m.Operations); err != nil {
		return nil, err
	}
	if m.Duration, err = register(reg, m.Duration); err != nil {
		return nil, err
	}
	if m.Materializations, err = register(reg, m.Materializations); err != nil {
		return nil, err
	}
	return m, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// WithMetrics wraps m so every operation is counted and timed.
func WithMetrics(m artifact.Manager, reg prometheus.Registerer) (artifact.Manager, error) {
	metrics, err := NewMetrics(reg)
	if err != nil {
		return nil, err
	}
	return metrics.Wrap(m), nil
}

// Wrap returns m instrumented with these collectors.
func (mt *Metrics) Wrap(m artifact.Manager) artifact.Manager {
	return &meteredManager{next: m, strategy: strategyLabel(m), metrics: mt}
}

type meteredManager struct {
	next     artifact.Manager
	strategy string
	metrics  *Metrics
}

func (m *meteredManager) Strategy() artifact.Strategy {
	return artifact.Strategy(m.strategy)
}

func (m *meteredManager) Store(ctx context.Context, out *artifact.Output, value any) (*artifact.Materialization, error) {
	start := time.Now()
	rec, err := m.next.Store(ctx, out, value)
	m.observe(OpStore, start, err)
	if rec != nil {
		m.metrics.Materializations.WithLabelValues(m.strategy).Inc()
	}
	return rec, err
}

func (m *meteredManager) Load(ctx context.Context, in *artifact.Input, target any) error {
	start := time.Now()
	err := m.next.Load(ctx, in, target)
	m.observe(OpLoad, start, err)
	return err
}

func (m *meteredManager) observe(op string, start time.Time, err error) {
	m.metrics.Duration.WithLabelValues(op, m.strategy).Observe(time.Since(start).Seconds())
	m.metrics.Operations.WithLabelValues(op, m.strategy, Outcome(err)).Inc()
}

// Outcome classifies err into a low-cardinality label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, artifact.ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, artifact.ErrDecode):
		return OutcomeDecode
	case errors.Is(err, artifact.ErrEncode):
		return OutcomeEncode
	case errors.Is(err, artifact.ErrMissingMetadata):
		return OutcomeMissingMetadata
	case errors.Is(err, artifact.ErrInvalidIdentity):
		return OutcomeInvalidIdentity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return OutcomeCanceled
	default:
		return OutcomeError
	}
}

type strategist interface {
	Strategy() artifact.Strategy
}

func strategyLabel(m artifact.Manager) string {
	if s, ok := m.(strategist); ok {
		return string(s.Strategy())
	}
	return "unknown"
}
