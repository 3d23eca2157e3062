package memo

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const instrumentationName = "github.com/on-the-ground/memo_ive_go/memo"

// Metric and span names.
const (
	MetricHits            = "memo.hits"
	MetricMisses          = "memo.misses"
	MetricForced          = "memo.forced"
	MetricErrors          = "memo.errors"
	MetricComputeDuration = "memo.compute.duration_ms"

	SpanCompute = "memo.compute"

	AttrFuncID = "memo.func.id"
)

type telemetry struct {
	tracer    trace.Tracer
	hits      metric.Int64Counter
	misses    metric.Int64Counter
	forced    metric.Int64Counter
	failures  metric.Int64Counter
	computeMs metric.Float64Histogram
}

// newTelemetry builds the instruments for cfg. If the meter refuses an
// instrument, metrics are dropped and a warning is logged.
func newTelemetry(cfg Config) *telemetry {
	tel, err := newTelemetryWithMeter(cfg.MeterProvider.Meter(instrumentationName))
	if err != nil {
		cfg.Logger.Warn("memo metrics disabled", zap.Error(err))
		tel, _ = newTelemetryWithMeter(metricnoop.NewMeterProvider().Meter(instrumentationName))
	}
	tel.tracer = cfg.TracerProvider.Tracer(instrumentationName)
	return tel
}

func newTelemetryWithMeter(meter metric.Meter) (*telemetry, error) {
	hits, err := meter.Int64Counter(
		MetricHits,
		metric.WithDescription("Calls answered from a fresh stored result"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	misses, err := meter.Int64Counter(
		MetricMisses,
		metric.WithDescription("Calls with no fresh stored result"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	forced, err := meter.Int64Counter(
		MetricForced,
		metric.WithDescription("Calls that bypassed the cache on request"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	failures, err := meter.Int64Counter(
		MetricErrors,
		metric.WithDescription("Target invocations that returned an error"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	computeMs, err := meter.Float64Histogram(
		MetricComputeDuration,
		metric.WithDescription("Target invocation duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &telemetry{
		hits:      hits,
		misses:    misses,
		forced:    forced,
		failures:  failures,
		computeMs: computeMs,
	}, nil
}

func funcAttrs(id FuncID) metric.MeasurementOption {
	return metric.WithAttributes(attribute.String(AttrFuncID, string(id)))
}

func (t *telemetry) recordHit(ctx context.Context, id FuncID) {
	t.hits.Add(ctx, 1, funcAttrs(id))
}

func (t *telemetry) recordMiss(ctx context.Context, id FuncID) {
	t.misses.Add(ctx, 1, funcAttrs(id))
}

func (t *telemetry) recordForced(ctx context.Context, id FuncID) {
	t.forced.Add(ctx, 1, funcAttrs(id))
}

// startCompute opens the span wrapping one target invocation.
func (t *telemetry) startCompute(ctx context.Context, id FuncID, fp Fingerprint) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, SpanCompute,
		trace.WithAttributes(
			attribute.String(AttrFuncID, string(id)),
			attribute.Int("memo.fingerprint.bytes", len(fp)),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// endCompute closes span and records the invocation's duration and outcome.
func (t *telemetry) endCompute(ctx context.Context, span trace.Span, id FuncID, elapsed time.Duration, err error) {
	opt := funcAttrs(id)
	t.computeMs.Record(ctx, float64(elapsed.Microseconds())/1000, opt)
	if err != nil {
		t.failures.Add(ctx, 1, opt)
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
