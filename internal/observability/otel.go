package observability

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.27.0"

	"github.com/yungbote/flightsim-backend/internal/config"
	"github.com/yungbote/flightsim-backend/internal/platform/logger"
)

var (
	tracingOnce     sync.Once
	tracingShutdown func(context.Context) error = func(context.Context) error { return nil }
)

// InitOTel installs the global tracer provider on first call and returns its
// shutdown. Later calls return the same shutdown. With tracing disabled the global
// no-op provider stays in place.
func InitOTel(ctx context.Context, log *logger.Logger, cfg *config.Config) func(context.Context) error {
	tracingOnce.Do(func() {
		if cfg == nil || !cfg.Otel.Enabled {
			return
		}
		if log == nil {
			log = logger.Nop()
		}
		tp, exporter := newTracerProvider(ctx, log, cfg)
		otel.SetTracerProvider(tp)
		otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))
		tracingShutdown = tp.Shutdown
		log.Info("tracing enabled", "service", cfg.Otel.ServiceName, "exporter", exporter, "sample_ratio", cfg.Otel.SampleRatio)
	})
	return tracingShutdown
}

// newTracerProvider never fails: resource and exporter errors degrade to a
// provider that samples but exports nothing.
func newTracerProvider(ctx context.Context, log *logger.Logger, cfg *config.Config) (*sdktrace.TracerProvider, string) {
	res, err := resource.New(ctx, resource.WithAttributes(
		semconv.ServiceNameKey.String(cfg.Otel.ServiceName),
		semconv.ServiceVersionKey.String(cfg.Version),
		attribute.String("deployment.environment", cfg.Env),
	))
	if err != nil {
		log.Warn("tracing resource incomplete", "error", err)
	}
	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.Otel.SampleRatio))),
	}

	exp, kind, err := spanExporter(ctx, cfg.Otel)
	switch {
	case err != nil:
		log.Warn("span exporter unavailable, spans will not leave the process", "exporter", kind, "error", err)
		kind = "none"
	default:
		opts = append(opts, sdktrace.WithBatcher(exp, sdktrace.WithBatchTimeout(5*time.Second)))
	}
	return sdktrace.NewTracerProvider(opts...), kind
}

// spanExporter ships over OTLP/HTTP when an endpoint is configured and prints to
// stdout otherwise. OTEL_EXPORTER_OTLP_HEADERS is honored by the OTLP client.
func spanExporter(ctx context.Context, cfg config.OtelConfig) (sdktrace.SpanExporter, string, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		exp, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		return exp, "stdout", err
	}
	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	exp, err := otlptracehttp.New(ctx, opts...)
	return exp, "otlp", err
}
