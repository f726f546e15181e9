package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// OTel reports telemetry through the global OpenTelemetry providers:
// dependency calls become client spans, events and exceptions become
// counters, metrics land in a histogram keyed by metric name.
type OTel struct {
	tracer       trace.Tracer
	events       metric.Int64Counter
	exceptions   metric.Int64Counter
	dependencies metric.Float64Histogram
	values       metric.Float64Histogram
}

var _ Sink = (*OTel)(nil)

// NewOTel builds an OTel sink scoped to the given instrumentation name.
func NewOTel(name string) (*OTel, error) {
	meter := otel.Meter(name)

	events, err := meter.Int64Counter("loandesk.events",
		metric.WithDescription("Named application events"))
	if err != nil {
		return nil, fmt.Errorf("create events counter: %w", err)
	}
	exceptions, err := meter.Int64Counter("loandesk.exceptions",
		metric.WithDescription("Tracked exceptions"))
	if err != nil {
		return nil, fmt.Errorf("create exceptions counter: %w", err)
	}
	dependencies, err := meter.Float64Histogram("loandesk.dependency.duration",
		metric.WithDescription("Dependency call duration"),
		metric.WithUnit("ms"))
	if err != nil {
		return nil, fmt.Errorf("create dependency histogram: %w", err)
	}
	values, err := meter.Float64Histogram("loandesk.metric",
		metric.WithDescription("Ad-hoc tracked metric values"))
	if err != nil {
		return nil, fmt.Errorf("create metric histogram: %w", err)
	}

	return &OTel{
		tracer:       otel.Tracer(name),
		events:       events,
		exceptions:   exceptions,
		dependencies: dependencies,
		values:       values,
	}, nil
}

func (o *OTel) TrackPageView(name, uri string) {
	o.events.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("event.name", "page_view"),
		attribute.String("page.name", name),
		attribute.String("page.uri", uri),
	))
}

func (o *OTel) TrackEvent(name string, props Properties) {
	attrs := append(propAttributes(props), attribute.String("event.name", name))
	o.events.Add(context.Background(), 1, metric.WithAttributes(attrs...))
}

func (o *OTel) TrackException(err error, props Properties) {
	attrs := append(propAttributes(props), attribute.String("exception.message", err.Error()))
	o.exceptions.Add(context.Background(), 1, metric.WithAttributes(attrs...))
}

func (o *OTel) TrackDependency(name, target string, duration time.Duration, success bool, responseCode int, props Properties) {
	attrs := append(propAttributes(props),
		attribute.String("dependency.name", name),
		attribute.String("dependency.target", target),
		attribute.Bool("dependency.success", success),
		attribute.Int("http.response.status_code", responseCode),
	)

	// Backdate the span so its duration matches the measured call.
	start := time.Now().Add(-duration)
	_, span := o.tracer.Start(context.Background(), name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithTimestamp(start),
		trace.WithAttributes(attrs...),
	)
	span.End(trace.WithTimestamp(start.Add(duration)))

	o.dependencies.Record(context.Background(), float64(duration)/float64(time.Millisecond),
		metric.WithAttributes(attrs...))
}

func (o *OTel) TrackMetric(name string, value float64, props Properties) {
	attrs := append(propAttributes(props), attribute.String("metric.name", name))
	o.values.Record(context.Background(), value, metric.WithAttributes(attrs...))
}

func propAttributes(props Properties) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(props)+4)
	for k, v := range props {
		attrs = append(attrs, attribute.String(k, v))
	}
	return attrs
}
