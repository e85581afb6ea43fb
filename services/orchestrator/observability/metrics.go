// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package observability provides metrics and instrumentation for the orchestrator.
//
// # Description
//
// This package implements Prometheus metrics for monitoring debate
// pipeline operations. Metrics include:
//   - Request counters (by endpoint, status, error type)
//   - Generation latency histograms (by backend)
//   - Validation failure counters (by task type and reason)
//   - Active request gauges
//
// # Integration
//
// Metrics are exposed via /metrics endpoint. Use with Prometheus + Grafana
// for dashboards and alerting.
//
// # Thread Safety
//
// All metric operations are thread-safe via Prometheus's internal locking.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// Metric Definitions
// =============================================================================

// Namespace for all metrics
const metricsNamespace = "civicscoach"

// Subsystem for orchestrator metrics
const orchestratorSubsystem = "orchestrator"

// ServiceMetrics holds all Prometheus metrics for debate pipeline operations.
//
// # Description
//
// Provides counters, histograms, and gauges for monitoring pipeline
// throughput and generation latency. Initialize once at startup via
// InitMetrics().
//
// # Fields
//
//   - RequestsTotal: Counter of API requests by endpoint and status
//   - ErrorsTotal: Counter of errors by endpoint and error code
//   - GenerationSeconds: Histogram of backend generation latency
//   - RetriesTotal: Counter of rate-limit retries by backend
//   - ValidationFailuresTotal: Counter of output validation failures
//   - ActiveRequests: Gauge of requests currently in flight
//
// # Thread Safety
//
// All operations are thread-safe.
type ServiceMetrics struct {
	// RequestsTotal counts API requests by endpoint and status.
	// Labels: endpoint (debate, analyze, ...), status (success, error)
	RequestsTotal *prometheus.CounterVec

	// ErrorsTotal counts errors by endpoint and code.
	// Labels: endpoint, error_code (input, parse_error, rate_limited, etc.)
	ErrorsTotal *prometheus.CounterVec

	// GenerationSeconds measures one backend call's latency.
	// Labels: backend (ollama, openai, anthropic, mock)
	GenerationSeconds *prometheus.HistogramVec

	// RetriesTotal counts rate-limit retries against a backend.
	// Labels: backend
	RetriesTotal *prometheus.CounterVec

	// ValidationFailuresTotal counts rejected model outputs.
	// Labels: task_type (debate, analysis, ...), reason (parse, schema)
	ValidationFailuresTotal *prometheus.CounterVec

	// ActiveRequests tracks requests currently being served.
	// Labels: endpoint
	ActiveRequests *prometheus.GaugeVec
}

// DefaultMetrics is the singleton instance of ServiceMetrics.
// Initialized by InitMetrics().
var DefaultMetrics *ServiceMetrics

// InitMetrics initializes the default metrics instance.
//
// # Description
//
// Creates and registers all Prometheus metrics. Should be called once
// at application startup, after Prometheus registry is available.
//
// # Outputs
//
//   - *ServiceMetrics: The initialized metrics instance.
//
// # Examples
//
//	func main() {
//	    observability.InitMetrics()
//	    // ... start server ...
//	}
//
// # Limitations
//
//   - Panics if called twice (duplicate registration).
//
// # Assumptions
//
//   - Prometheus default registry is available.
func InitMetrics() *ServiceMetrics {
	DefaultMetrics = &ServiceMetrics{
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: orchestratorSubsystem,
				Name:      "requests_total",
				Help:      "Total number of API requests by endpoint and status",
			},
			[]string{"endpoint", "status"},
		),

		ErrorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: orchestratorSubsystem,
				Name:      "errors_total",
				Help:      "Total errors by endpoint and error code",
			},
			[]string{"endpoint", "error_code"},
		),

		GenerationSeconds: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: orchestratorSubsystem,
				Name:      "generation_seconds",
				Help:      "Backend generation call latency in seconds",
				Buckets:   []float64{0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0, 120.0},
			},
			[]string{"backend"},
		),

		RetriesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: orchestratorSubsystem,
				Name:      "retries_total",
				Help:      "Total rate-limit retries by backend",
			},
			[]string{"backend"},
		),

		ValidationFailuresTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: orchestratorSubsystem,
				Name:      "validation_failures_total",
				Help:      "Total model outputs rejected by the validator",
			},
			[]string{"task_type", "reason"},
		),

		ActiveRequests: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Subsystem: orchestratorSubsystem,
				Name:      "active_requests",
				Help:      "Number of requests currently in flight",
			},
			[]string{"endpoint"},
		),
	}

	return DefaultMetrics
}

// =============================================================================
// Error Codes
// =============================================================================

// ErrorCode represents a categorized error type for metrics.
type ErrorCode string

const (
	// ErrorCodeValidation indicates request validation failure.
	ErrorCodeValidation ErrorCode = "validation"

	// ErrorCodeInput indicates a rejected pipeline input (bad vocabulary).
	ErrorCodeInput ErrorCode = "input"

	// ErrorCodeParse indicates unparseable model output.
	ErrorCodeParse ErrorCode = "parse_error"

	// ErrorCodeSchema indicates model output missing required fields.
	ErrorCodeSchema ErrorCode = "schema_error"

	// ErrorCodeRateLimited indicates the backend refused on rate limits.
	ErrorCodeRateLimited ErrorCode = "rate_limited"

	// ErrorCodeBackend indicates generation backend failure.
	ErrorCodeBackend ErrorCode = "backend_error"

	// ErrorCodeEvidence indicates evidence retrieval failure.
	ErrorCodeEvidence ErrorCode = "evidence_error"

	// ErrorCodeTimeout indicates operation timeout.
	ErrorCodeTimeout ErrorCode = "timeout"

	// ErrorCodeInternal indicates internal server error.
	ErrorCodeInternal ErrorCode = "internal"
)

// =============================================================================
// Endpoint Names
// =============================================================================

// Endpoint represents an API endpoint for metrics labeling.
type Endpoint string

const (
	// EndpointDebate is the full debate pipeline endpoint.
	EndpointDebate Endpoint = "debate"

	// EndpointAnalyze is the complexity analysis endpoint.
	EndpointAnalyze Endpoint = "analyze"

	// EndpointParams is the parameter optimization endpoint.
	EndpointParams Endpoint = "params"

	// EndpointPreview is the payload preview endpoint.
	EndpointPreview Endpoint = "preview"

	// EndpointValidate is the output validation endpoint.
	EndpointValidate Endpoint = "validate"

	// EndpointExamples is the example catalog endpoint.
	EndpointExamples Endpoint = "examples"

	// EndpointDocuments is the evidence ingestion endpoint.
	EndpointDocuments Endpoint = "documents"

	// EndpointWSDebate is the websocket debate endpoint.
	EndpointWSDebate Endpoint = "ws_debate"
)

// =============================================================================
// Helper Methods
// =============================================================================

// RecordRequest records a completed API request.
//
// # Inputs
//
//   - endpoint: The endpoint that handled the request.
//   - success: Whether the request completed successfully.
func (m *ServiceMetrics) RecordRequest(endpoint Endpoint, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	m.RequestsTotal.WithLabelValues(string(endpoint), status).Inc()
}

// RecordError records a request error.
//
// # Inputs
//
//   - endpoint: The endpoint where the error occurred.
//   - code: The error type code.
func (m *ServiceMetrics) RecordError(endpoint Endpoint, code ErrorCode) {
	m.ErrorsTotal.WithLabelValues(string(endpoint), string(code)).Inc()
}

// ObserveGeneration records one backend call's latency.
//
// # Inputs
//
//   - backend: The generation backend that served the call.
//   - seconds: Call duration in seconds.
func (m *ServiceMetrics) ObserveGeneration(backend string, seconds float64) {
	m.GenerationSeconds.WithLabelValues(backend).Observe(seconds)
}

// RecordRetry records one rate-limit retry against a backend.
//
// # Inputs
//
//   - backend: The backend that reported the rate limit.
func (m *ServiceMetrics) RecordRetry(backend string) {
	m.RetriesTotal.WithLabelValues(backend).Inc()
}

// RecordValidationFailure records a rejected model output.
//
// # Inputs
//
//   - taskType: The task whose schema the output failed.
//   - reason: Why it was rejected ("parse" or "schema").
func (m *ServiceMetrics) RecordValidationFailure(taskType, reason string) {
	m.ValidationFailuresTotal.WithLabelValues(taskType, reason).Inc()
}

// RequestStarted increments the active requests gauge.
//
// # Inputs
//
//   - endpoint: The endpoint handling the request.
func (m *ServiceMetrics) RequestStarted(endpoint Endpoint) {
	m.ActiveRequests.WithLabelValues(string(endpoint)).Inc()
}

// RequestEnded decrements the active requests gauge.
//
// # Inputs
//
//   - endpoint: The endpoint that handled the request.
func (m *ServiceMetrics) RequestEnded(endpoint Endpoint) {
	m.ActiveRequests.WithLabelValues(string(endpoint)).Dec()
}
