package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/milan604/dataprovider-sdk/pkg/logger"
)

// TracingConfig configures NewTracing.
type TracingConfig struct {
	ServiceName    string
	ServiceVersion string
	// Endpoint is the OTLP/HTTP collector URL, e.g. http://localhost:4318.
	// When empty spans are sampled but not exported.
	Endpoint string
	// SampleRatio in (0,1]; zero means always sample.
	SampleRatio float64
	// SetGlobal installs the provider and W3C propagators as otel globals.
	SetGlobal bool
}

// Tracing owns an SDK tracer provider.
type Tracing struct {
	provider *sdktrace.TracerProvider
	log      logger.LogManager
}

// NewTracing creates a tracer provider exporting over OTLP/HTTP.
func NewTracing(ctx context.Context, log logger.LogManager, cfg TracingConfig) (*Tracing, error) {
	if log == nil {
		log = logger.NewNop()
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "dataprovider-sdk"
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(cfg.ServiceName),
			semconv.ServiceVersionKey.String(cfg.ServiceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	sampler := sdktrace.AlwaysSample()
	if cfg.SampleRatio > 0 && cfg.SampleRatio < 1 {
		sampler = sdktrace.TraceIDRatioBased(cfg.SampleRatio)
	}

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
	}
	if cfg.Endpoint != "" {
		exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(cfg.Endpoint))
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
		}
		opts = append(opts, sdktrace.WithBatcher(exporter))
	}

	tp := sdktrace.NewTracerProvider(opts...)
	if cfg.SetGlobal {
		otel.SetTracerProvider(tp)
		otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		))
	}

	log.DebugW("tracing initialized", "service", cfg.ServiceName, "endpoint", cfg.Endpoint)
	return &Tracing{provider: tp, log: log}, nil
}

// TracerProvider returns the provider to hand to the API client.
func (t *Tracing) TracerProvider() trace.TracerProvider {
	return t.provider
}

// Shutdown flushes pending spans.
func (t *Tracing) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := t.provider.Shutdown(ctx); err != nil {
		t.log.ErrorF("failed to shutdown tracer provider: %v", err)
		return err
	}
	return nil
}
