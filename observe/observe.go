// Package observe provides OTEL-based observability for SWRN operations.
//
// It configures trace and metric providers with OTLP HTTP exporters and
// exposes the instruments the engine and index emit: query counts and
// durations by intent, and indexing run metrics. Users export to any
// OTEL-compatible backend by setting standard OTEL env vars.
package observe

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const scopeName = "github.com/nevindra/swrn/observe"

// Instruments holds all OTEL instruments emitted by the engine and index.
type Instruments struct {
	Tracer trace.Tracer
	Meter  metric.Meter

	// Counters
	Queries      metric.Int64Counter
	PagesIndexed metric.Int64Counter
	PRsIndexed   metric.Int64Counter

	// Histograms
	QueryDuration metric.Float64Histogram
	BuildDuration metric.Float64Histogram
	DetailParses  metric.Float64Histogram
}

// Init sets up OTEL trace and metric providers with OTLP HTTP exporters.
// Configuration comes from standard OTEL env vars (OTEL_EXPORTER_OTLP_ENDPOINT, etc.).
// Returns a shutdown function that must be called on application exit.
func Init(ctx context.Context) (*Instruments, func(context.Context) error, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceName("swrn")),
		resource.WithFromEnv(),
	)
	if err != nil {
		return nil, nil, err
	}

	// Trace provider
	traceExp, err := otlptracehttp.New(ctx)
	if err != nil {
		return nil, nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExp),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	// Metric provider
	metricExp, err := otlpmetrichttp.New(ctx)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, nil, err
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExp)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	inst, err := newInstruments()
	if err != nil {
		_ = tp.Shutdown(ctx)
		_ = mp.Shutdown(ctx)
		return nil, nil, err
	}

	shutdown := func(ctx context.Context) error {
		return errors.Join(
			tp.Shutdown(ctx),
			mp.Shutdown(ctx),
		)
	}

	return inst, shutdown, nil
}

func newInstruments() (*Instruments, error) {
	tracer := otel.Tracer(scopeName)
	meter := otel.Meter(scopeName)

	queries, err := meter.Int64Counter("swrn.queries",
		metric.WithDescription("Query count by intent"),
		metric.WithUnit("{query}"))
	if err != nil {
		return nil, err
	}

	pagesIndexed, err := meter.Int64Counter("swrn.index.pages",
		metric.WithDescription("Pages added to the index"),
		metric.WithUnit("{page}"))
	if err != nil {
		return nil, err
	}

	prsIndexed, err := meter.Int64Counter("swrn.index.prs",
		metric.WithDescription("PR occurrences added to the index"),
		metric.WithUnit("{entry}"))
	if err != nil {
		return nil, err
	}

	queryDuration, err := meter.Float64Histogram("swrn.query.duration",
		metric.WithDescription("Query duration"),
		metric.WithUnit("ms"))
	if err != nil {
		return nil, err
	}

	buildDuration, err := meter.Float64Histogram("swrn.build.duration",
		metric.WithDescription("Indexing run duration"),
		metric.WithUnit("ms"))
	if err != nil {
		return nil, err
	}

	detailParses, err := meter.Float64Histogram("swrn.detail.duration",
		metric.WithDescription("Detail page parse duration"),
		metric.WithUnit("ms"))
	if err != nil {
		return nil, err
	}

	return &Instruments{
		Tracer:        tracer,
		Meter:         meter,
		Queries:       queries,
		PagesIndexed:  pagesIndexed,
		PRsIndexed:    prsIndexed,
		QueryDuration: queryDuration,
		BuildDuration: buildDuration,
		DetailParses:  detailParses,
	}, nil
}
