// Package telemetry wires tracing export and error reporting.
package telemetry

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/blaisecz/sleep-coach/internal/config"
)

const otlpTracesPath = "/api/public/otel/v1/traces"

// ShutdownFunc flushes and stops the tracer provider.
type ShutdownFunc func(context.Context) error

func noopShutdown(context.Context) error { return nil }

// otlpTarget resolves where spans go and how to authenticate. ok is false
// when Langfuse is not fully configured.
func otlpTarget(cfg *config.Config) (endpoint string, headers map[string]string, ok bool, err error) {
	if cfg.LangfuseBaseURL == "" || cfg.LangfusePublicKey == "" || cfg.LangfuseSecretKey == "" {
		return "", nil, false, nil
	}
	endpoint, err = url.JoinPath(cfg.LangfuseBaseURL, otlpTracesPath)
	if err != nil {
		return "", nil, false, fmt.Errorf("langfuse base url: %w", err)
	}
	token := base64.StdEncoding.EncodeToString([]byte(cfg.LangfusePublicKey + ":" + cfg.LangfuseSecretKey))
	return endpoint, map[string]string{"Authorization": "Basic " + token}, true, nil
}

// InitTracer installs the W3C propagators and, when Langfuse is configured,
// a batching tracer provider exporting request and advisory spans over
// OTLP/HTTP. Otherwise spans stay on the default no-op provider.
func InitTracer(ctx context.Context, cfg *config.Config, serviceName string) (ShutdownFunc, error) {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	endpoint, headers, ok, err := otlpTarget(cfg)
	if err != nil {
		return nil, err
	}
	if !ok {
		return noopShutdown, nil
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(endpoint),
		otlptracehttp.WithHeaders(headers),
	)
	if err != nil {
		return nil, fmt.Errorf("create otlp exporter: %w", err)
	}

	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(semconv.SchemaURL,
		semconv.ServiceName(serviceName),
		semconv.DeploymentEnvironment(cfg.LangfuseEnv),
		attribute.String("langfuse.environment", cfg.LangfuseEnv),
		attribute.String("advisory.model", cfg.AdvisoryModel),
	))
	if err != nil {
		return nil, fmt.Errorf("build resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.AlwaysSample())),
	)
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}
