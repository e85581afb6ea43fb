// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package observability

import (
	"context"
	"fmt"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// =============================================================================
// Exporter Selection
// =============================================================================

// TelemetryConfig selects the OpenTelemetry exporters for the service.
//
// # Description
//
// Traces and OTel metrics each pick one exporter. The stdout exporters
// exist for local debugging: they pretty-print spans and metric
// snapshots to the terminal instead of requiring a running collector.
//
// # Fields
//
//   - ServiceName: Resource attribute labeling every span and metric
//   - TraceExporter: "otlp", "stdout", or "none"
//   - MetricExporter: "prometheus", "stdout", or "none"
//   - OTLPEndpoint: Collector address used by the otlp trace exporter
type TelemetryConfig struct {
	ServiceName    string
	TraceExporter  string
	MetricExporter string
	OTLPEndpoint   string
}

// DefaultTelemetryConfig returns the production exporter selection.
//
// The standard OTel variables override the defaults, so a developer can
// run with OTEL_TRACES_EXPORTER=stdout to watch spans without a
// collector:
//   - OTEL_TRACES_EXPORTER: trace exporter type (default: otlp)
//   - OTEL_METRICS_EXPORTER: metric exporter type (default: prometheus)
func DefaultTelemetryConfig(serviceName, otlpEndpoint string) TelemetryConfig {
	return TelemetryConfig{
		ServiceName:    serviceName,
		TraceExporter:  getEnvOr("OTEL_TRACES_EXPORTER", "otlp"),
		MetricExporter: getEnvOr("OTEL_METRICS_EXPORTER", "prometheus"),
		OTLPEndpoint:   otlpEndpoint,
	}
}

// InitTelemetry wires the configured exporters into the OTel globals.
//
// # Description
//
// Builds the service resource, then installs a TracerProvider and a
// MeterProvider according to the configuration. After a successful
// return, otel.Tracer() and otel.Meter() work throughout the process.
// The prometheus metric exporter registers with the default Prometheus
// registry, so the /metrics endpoint serves OTel metrics alongside the
// ServiceMetrics counters without extra plumbing.
//
// # Inputs
//
//   - ctx: Used for exporter connections.
//   - cfg: Exporter selection. Use DefaultTelemetryConfig.
//
// # Outputs
//
//   - func(context.Context) error: Shutdown hook flushing every
//     installed provider. Must be called on exit.
//   - error: Non-nil on an unknown exporter name or exporter
//     construction failure.
//
// # Assumptions
//
//   - Called once at startup, before any spans are created.
func InitTelemetry(ctx context.Context, cfg TelemetryConfig) (func(context.Context) error, error) {
	var shutdownFuncs []func(context.Context) error
	shutdown := func(ctx context.Context) error {
		var errs []error
		for _, fn := range shutdownFuncs {
			if err := fn(ctx); err != nil {
				errs = append(errs, err)
			}
		}
		if len(errs) > 0 {
			return fmt.Errorf("telemetry shutdown errors: %v", errs)
		}
		return nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String(cfg.ServiceName)))
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	if cfg.TraceExporter != "none" {
		tp, err := initTraceProvider(ctx, cfg, res)
		if err != nil {
			return nil, err
		}
		otel.SetTracerProvider(tp)
		otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{}, propagation.Baggage{}))
		shutdownFuncs = append(shutdownFuncs, tp.Shutdown)
	}

	if cfg.MetricExporter != "none" {
		mp, err := initMeterProvider(cfg, res)
		if err != nil {
			return nil, err
		}
		otel.SetMeterProvider(mp)
		shutdownFuncs = append(shutdownFuncs, mp.Shutdown)
	}

	return shutdown, nil
}

// initTraceProvider builds the span pipeline for the selected exporter.
func initTraceProvider(ctx context.Context, cfg TelemetryConfig, res *resource.Resource) (*sdktrace.TracerProvider, error) {
	var exporter sdktrace.SpanExporter
	var err error

	switch cfg.TraceExporter {
	case "otlp":
		conn, connErr := grpc.NewClient(cfg.OTLPEndpoint,
			grpc.WithTransportCredentials(insecure.NewCredentials()))
		if connErr != nil {
			return nil, fmt.Errorf("failed to create gRPC connection: %w", connErr)
		}
		exporter, err = otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))

	case "stdout":
		exporter, err = stdouttrace.New(stdouttrace.WithPrettyPrint())

	default:
		return nil, fmt.Errorf("unknown trace exporter %q", cfg.TraceExporter)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(sdktrace.NewBatchSpanProcessor(exporter)),
	), nil
}

// initMeterProvider builds the metric pipeline for the selected exporter.
func initMeterProvider(cfg TelemetryConfig, res *resource.Resource) (*sdkmetric.MeterProvider, error) {
	switch cfg.MetricExporter {
	case "prometheus":
		exporter, err := promexporter.New()
		if err != nil {
			return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
		}
		return sdkmetric.NewMeterProvider(
			sdkmetric.WithResource(res),
			sdkmetric.WithReader(exporter),
		), nil

	case "stdout":
		exporter, err := stdoutmetric.New(stdoutmetric.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("failed to create stdout metric exporter: %w", err)
		}
		return sdkmetric.NewMeterProvider(
			sdkmetric.WithResource(res),
			sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)),
		), nil

	default:
		return nil, fmt.Errorf("unknown metric exporter %q", cfg.MetricExporter)
	}
}

// getEnvOr returns the environment variable value or the fallback.
func getEnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
