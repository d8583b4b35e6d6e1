// Package otel implements trailbus.Observability using OpenTelemetry.
//
// Blocking publishes are traced as spans, so time spent waiting for a slow
// reader shows up in traces. Metrics cover publish volume, capacity
// rejections, drain batch sizes and the live reader count.
package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	trailbus "github.com/okalb/trailbus"
)

const instrumentationName = "github.com/okalb/trailbus"

// Observability implements trailbus.Observability using OpenTelemetry.
type Observability struct {
	tracer trace.Tracer
	meter  metric.Meter

	publishCounter metric.Int64Counter
	publishErrors  metric.Int64Counter
	drainBatch     metric.Int64Histogram
	readers        metric.Int64UpDownCounter
}

// Option configures the Observability.
type Option func(*Observability)

// WithTracerProvider sets a custom tracer provider.
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(o *Observability) {
		o.tracer = provider.Tracer(instrumentationName)
	}
}

// WithMeterProvider sets a custom meter provider.
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(o *Observability) {
		o.meter = provider.Meter(instrumentationName)
	}
}

// New creates a new OpenTelemetry observability implementation.
func New(opts ...Option) (*Observability, error) {
	obs := &Observability{
		tracer: otel.Tracer(instrumentationName),
		meter:  otel.Meter(instrumentationName),
	}

	for _, opt := range opts {
		opt(obs)
	}

	var err error

	obs.publishCounter, err = obs.meter.Int64Counter(
		"trailbus.publish.count",
		metric.WithDescription("Number of messages published"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return nil, err
	}

	obs.publishErrors, err = obs.meter.Int64Counter(
		"trailbus.publish.errors",
		metric.WithDescription("Number of failed publish attempts (capacity rejections and cancellations)"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	obs.drainBatch, err = obs.meter.Int64Histogram(
		"trailbus.drain.batch",
		metric.WithDescription("Messages folded into a reader per drain"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return nil, err
	}

	obs.readers, err = obs.meter.Int64UpDownCounter(
		"trailbus.readers",
		metric.WithDescription("Currently registered readers"),
		metric.WithUnit("{reader}"),
	)
	if err != nil {
		return nil, err
	}

	return obs, nil
}

// OnPublishStart opens a span for the publish attempt. The span covers any
// time the publisher spends blocked waiting for buffer space.
func (o *Observability) OnPublishStart(ctx context.Context) context.Context {
	ctx, _ = o.tracer.Start(ctx, "trailbus.publish")
	return ctx
}

// OnPublishComplete records the outcome and ends the publish span.
func (o *Observability) OnPublishComplete(ctx context.Context, err error) {
	span := trace.SpanFromContext(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
		o.publishErrors.Add(ctx, 1)
	} else {
		span.SetStatus(codes.Ok, "")
		o.publishCounter.Add(ctx, 1)
	}
	span.End()
}

// OnDrain records the size of a reader's drain batch.
func (o *Observability) OnDrain(count int) {
	o.drainBatch.Record(context.Background(), int64(count))
}

// OnReaderAdded increments the live reader count.
func (o *Observability) OnReaderAdded(total int) {
	o.readers.Add(context.Background(), 1)
}

// OnReaderRemoved decrements the live reader count.
func (o *Observability) OnReaderRemoved(total int) {
	o.readers.Add(context.Background(), -1)
}

// Ensure Observability implements trailbus.Observability.
var _ trailbus.Observability = (*Observability)(nil)
