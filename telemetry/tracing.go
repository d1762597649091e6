package telemetry

import (
	"context"

	"github.com/randalmurphal/flowstore/artifact"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is used when WithTracing is given a nil tracer.
const TracerName = "github.com/randalmurphal/flowstore"

// Span attribute keys
const (
	AttrRunID      = attribute.Key("flowstore.run_id")
	AttrStepKey    = attribute.Key("flowstore.step_key")
	AttrOutputName = attribute.Key("flowstore.output_name")
	AttrPipeline   = attribute.Key("flowstore.pipeline")
	AttrStrategy   = attribute.Key("flowstore.strategy")
	AttrAssetKey   = attribute.Key("flowstore.asset_key")
	AttrPath       = attribute.Key("flowstore.path")
)

// WithTracing wraps m so every operation runs in its own span.
// If tracer is nil, the global tracer provider is used.
func WithTracing(m artifact.Manager, tracer trace.Tracer) artifact.Manager {
	if tracer == nil {
		tracer = otel.GetTracerProvider().Tracer(TracerName)
	}
	return &tracedManager{next: m, tracer: tracer, strategy: strategyLabel(m)}
}

type tracedManager struct {
	next     artifact.Manager
	tracer   trace.Tracer
	strategy string
}

func (m *tracedManager) Strategy() artifact.Strategy {
	return artifact.Strategy(m.strategy)
}

func (m *tracedManager) Store(ctx context.Context, out *artifact.Output, value any) (*artifact.Materialization, error) {
	ctx, span := m.tracer.Start(ctx, "flowstore.store",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(m.outputAttrs(out)...),
	)
	defer span.End()

	rec, err := m.next.Store(ctx, out, value)
	if rec != nil {
		span.SetAttributes(
			AttrAssetKey.String(rec.AssetKey.String()),
			AttrPath.String(rec.Path),
		)
	}
	finish(span, err)
	return rec, err
}

func (m *tracedManager) Load(ctx context.Context, in *artifact.Input, target any) error {
	var upstream *artifact.Output
	if in != nil {
		upstream = in.Upstream
	}
	ctx, span := m.tracer.Start(ctx, "flowstore.load",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(m.outputAttrs(upstream)...),
	)
	defer span.End()

	err := m.next.Load(ctx, in, target)
	finish(span, err)
	return err
}

func (m *tracedManager) outputAttrs(out *artifact.Output) []attribute.KeyValue {
	attrs := []attribute.KeyValue{AttrStrategy.String(m.strategy)}
	if out == nil {
		return attrs
	}
	return append(attrs,
		AttrRunID.String(out.Identity.RunID),
		AttrStepKey.String(out.Identity.StepKey),
		AttrOutputName.String(out.Identity.OutputName),
		AttrPipeline.String(out.PipelineName),
	)
}

func finish(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	span.SetStatus(codes.Ok, "")
}
