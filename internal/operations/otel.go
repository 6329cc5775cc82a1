package operations

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"housingcli/internal/infrastructure"
)

const (
	TracerName = "housingcli.operation"
)

// OperationTracer provides OpenTelemetry instrumentation for report runs
type OperationTracer struct {
	tracer  trace.Tracer
	metrics *infrastructure.RunMetrics
}

// NewOperationTracer creates a tracer backed by providers. With nil providers
// spans and instruments are no-ops.
func NewOperationTracer(providers *infrastructure.OTelProviders) (*OperationTracer, error) {
	tracer := tracenoop.NewTracerProvider().Tracer(TracerName)
	var meter metric.Meter = metricnoop.NewMeterProvider().Meter(TracerName)
	if providers != nil {
		if providers.Tracer != nil {
			tracer = providers.Tracer
		}
		if providers.Meter != nil {
			meter = providers.Meter
		}
	}

	metrics, err := infrastructure.CreateRunMetrics(meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create run metrics: %w", err)
	}

	return &OperationTracer{tracer: tracer, metrics: metrics}, nil
}

// Metrics returns the run instruments
func (pt *OperationTracer) Metrics() *infrastructure.RunMetrics {
	return pt.metrics
}

// TraceOperationExecution creates the root span of a run
func (pt *OperationTracer) TraceOperationExecution(ctx context.Context, operationID string, steps int) (context.Context, trace.Span) {
	return pt.tracer.Start(ctx, "operation.execute",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("operation.id", operationID),
			attribute.Int("operation.steps", steps),
		),
	)
}

// TraceStageExecution creates a span named after the step ID
func (pt *OperationTracer) TraceStageExecution(ctx context.Context, operationID, stageID string) (context.Context, trace.Span) {
	return pt.tracer.Start(ctx, stageID,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("operation.id", operationID),
			attribute.String("step.id", stageID),
		),
	)
}

// RecordStageCompletion records the step duration and outcome on span and meter
func (pt *OperationTracer) RecordStageCompletion(ctx context.Context, span trace.Span, stageID string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	attrs := metric.WithAttributes(
		attribute.String("step", stageID),
		attribute.String("status", status),
	)

	span.SetAttributes(
		attribute.String("step.status", status),
		attribute.Float64("step.duration_seconds", duration.Seconds()),
	)
	pt.metrics.StepDuration.Record(ctx, duration.Seconds(), attrs)

	if err != nil {
		pt.metrics.StepErrors.Add(ctx, 1, metric.WithAttributes(
			attribute.String("step", stageID),
			attribute.String("error_type", string(GetErrorType(err))),
		))
		infrastructure.RecordSpanError(span, err)
		return
	}
	span.SetStatus(codes.Ok, "step completed")
}

// RecordOperationCompletion closes out the root span of a run
func (pt *OperationTracer) RecordOperationCompletion(span trace.Span, status OperationStatusValue, duration time.Duration, err error) {
	span.SetAttributes(
		attribute.String("operation.status", string(status)),
		attribute.Float64("operation.duration_seconds", duration.Seconds()),
	)
	if err != nil {
		infrastructure.RecordSpanError(span, err)
		return
	}
	span.SetStatus(codes.Ok, "operation completed")
}
