// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// ============================================================================
// Test Helper: Create isolated metrics for testing
// ============================================================================

// newTestMetrics creates a ServiceMetrics instance with a custom registry.
// This avoids conflicts with the global Prometheus registry and allows
// parallel testing.
func newTestMetrics(t *testing.T) *ServiceMetrics {
	t.Helper()

	reg := prometheus.NewRegistry()

	requestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: orchestratorSubsystem,
			Name:      "requests_total",
			Help:      "Total number of API requests by endpoint and status",
		},
		[]string{"endpoint", "status"},
	)

	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: orchestratorSubsystem,
			Name:      "errors_total",
			Help:      "Total errors by endpoint and error code",
		},
		[]string{"endpoint", "error_code"},
	)

	generationSeconds := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: orchestratorSubsystem,
			Name:      "generation_seconds",
			Help:      "Backend generation call latency in seconds",
			Buckets:   []float64{0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0, 120.0},
		},
		[]string{"backend"},
	)

	retriesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: orchestratorSubsystem,
			Name:      "retries_total",
			Help:      "Total rate-limit retries by backend",
		},
		[]string{"backend"},
	)

	validationFailuresTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: orchestratorSubsystem,
			Name:      "validation_failures_total",
			Help:      "Total model outputs rejected by the validator",
		},
		[]string{"task_type", "reason"},
	)

	activeRequests := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: orchestratorSubsystem,
			Name:      "active_requests",
			Help:      "Number of requests currently in flight",
		},
		[]string{"endpoint"},
	)

	// Register all metrics with the test registry
	reg.MustRegister(
		requestsTotal,
		errorsTotal,
		generationSeconds,
		retriesTotal,
		validationFailuresTotal,
		activeRequests,
	)

	return &ServiceMetrics{
		RequestsTotal:           requestsTotal,
		ErrorsTotal:             errorsTotal,
		GenerationSeconds:       generationSeconds,
		RetriesTotal:            retriesTotal,
		ValidationFailuresTotal: validationFailuresTotal,
		ActiveRequests:          activeRequests,
	}
}

// ============================================================================
// InitMetrics Tests
// ============================================================================

// Note: InitMetrics uses promauto which registers with the default Prometheus
// registry. This test must only run once per test binary execution since
// duplicate registration will panic.
var initMetricsTestOnce bool

func TestInitMetrics(t *testing.T) {
	if initMetricsTestOnce {
		t.Skip("InitMetrics can only be called once per test run (promauto restriction)")
	}
	initMetricsTestOnce = true

	result := InitMetrics()

	if result == nil {
		t.Fatal("InitMetrics() returned nil")
	}
	if DefaultMetrics == nil {
		t.Fatal("DefaultMetrics should be set after InitMetrics()")
	}
	if DefaultMetrics != result {
		t.Error("DefaultMetrics should equal the returned value")
	}

	if result.RequestsTotal == nil {
		t.Error("RequestsTotal should not be nil")
	}
	if result.ErrorsTotal == nil {
		t.Error("ErrorsTotal should not be nil")
	}
	if result.GenerationSeconds == nil {
		t.Error("GenerationSeconds should not be nil")
	}
	if result.RetriesTotal == nil {
		t.Error("RetriesTotal should not be nil")
	}
	if result.ValidationFailuresTotal == nil {
		t.Error("ValidationFailuresTotal should not be nil")
	}
	if result.ActiveRequests == nil {
		t.Error("ActiveRequests should not be nil")
	}

	// Verify metrics can be used
	result.RecordRequest(EndpointDebate, true)
	result.RecordError(EndpointDebate, ErrorCodeTimeout)
	result.ObserveGeneration("mock", 0.5)
	result.RequestStarted(EndpointDebate)
	result.RequestEnded(EndpointDebate)
}

// ============================================================================
// Constants Tests
// ============================================================================

func TestConstants(t *testing.T) {
	if metricsNamespace != "civicscoach" {
		t.Errorf("metricsNamespace = %q, want %q", metricsNamespace, "civicscoach")
	}
	if orchestratorSubsystem != "orchestrator" {
		t.Errorf("orchestratorSubsystem = %q, want %q", orchestratorSubsystem, "orchestrator")
	}
}

func TestEndpointConstants(t *testing.T) {
	tests := []struct {
		endpoint Endpoint
		want     string
	}{
		{EndpointDebate, "debate"},
		{EndpointAnalyze, "analyze"},
		{EndpointParams, "params"},
		{EndpointPreview, "preview"},
		{EndpointValidate, "validate"},
		{EndpointExamples, "examples"},
		{EndpointDocuments, "documents"},
		{EndpointWSDebate, "ws_debate"},
	}

	for _, tt := range tests {
		if string(tt.endpoint) != tt.want {
			t.Errorf("Endpoint = %q, want %q", tt.endpoint, tt.want)
		}
	}
}

func TestErrorCodeConstants(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want string
	}{
		{ErrorCodeValidation, "validation"},
		{ErrorCodeInput, "input"},
		{ErrorCodeParse, "parse_error"},
		{ErrorCodeSchema, "schema_error"},
		{ErrorCodeRateLimited, "rate_limited"},
		{ErrorCodeBackend, "backend_error"},
		{ErrorCodeEvidence, "evidence_error"},
		{ErrorCodeTimeout, "timeout"},
		{ErrorCodeInternal, "internal"},
	}

	for _, tt := range tests {
		if string(tt.code) != tt.want {
			t.Errorf("ErrorCode = %q, want %q", tt.code, tt.want)
		}
	}
}

// ============================================================================
// RecordRequest Tests
// ============================================================================

func TestServiceMetrics_RecordRequest_Success(t *testing.T) {
	m := newTestMetrics(t)

	m.RecordRequest(EndpointDebate, true)

	val := testutil.ToFloat64(m.RequestsTotal.WithLabelValues("debate", "success"))
	if val != 1 {
		t.Errorf("RequestsTotal[debate,success] = %f, want 1", val)
	}
}

func TestServiceMetrics_RecordRequest_Error(t *testing.T) {
	m := newTestMetrics(t)

	m.RecordRequest(EndpointAnalyze, false)

	val := testutil.ToFloat64(m.RequestsTotal.WithLabelValues("analyze", "error"))
	if val != 1 {
		t.Errorf("RequestsTotal[analyze,error] = %f, want 1", val)
	}
}

func TestServiceMetrics_RecordRequest_Multiple(t *testing.T) {
	m := newTestMetrics(t)

	m.RecordRequest(EndpointDebate, true)
	m.RecordRequest(EndpointDebate, true)
	m.RecordRequest(EndpointDebate, false)
	m.RecordRequest(EndpointValidate, true)

	successVal := testutil.ToFloat64(m.RequestsTotal.WithLabelValues("debate", "success"))
	if successVal != 2 {
		t.Errorf("RequestsTotal[debate,success] = %f, want 2", successVal)
	}

	errorVal := testutil.ToFloat64(m.RequestsTotal.WithLabelValues("debate", "error"))
	if errorVal != 1 {
		t.Errorf("RequestsTotal[debate,error] = %f, want 1", errorVal)
	}

	validateVal := testutil.ToFloat64(m.RequestsTotal.WithLabelValues("validate", "success"))
	if validateVal != 1 {
		t.Errorf("RequestsTotal[validate,success] = %f, want 1", validateVal)
	}
}

// ============================================================================
// RecordError Tests
// ============================================================================

func TestServiceMetrics_RecordError(t *testing.T) {
	m := newTestMetrics(t)

	tests := []struct {
		endpoint Endpoint
		code     ErrorCode
	}{
		{EndpointDebate, ErrorCodeRateLimited},
		{EndpointDebate, ErrorCodeParse},
		{EndpointValidate, ErrorCodeSchema},
		{EndpointDocuments, ErrorCodeEvidence},
	}

	for _, tt := range tests {
		m.RecordError(tt.endpoint, tt.code)

		val := testutil.ToFloat64(m.ErrorsTotal.WithLabelValues(string(tt.endpoint), string(tt.code)))
		if val != 1 {
			t.Errorf("ErrorsTotal[%s,%s] = %f, want 1", tt.endpoint, tt.code, val)
		}
	}
}

// ============================================================================
// Generation and Retry Tests
// ============================================================================

func TestServiceMetrics_ObserveGeneration(t *testing.T) {
	m := newTestMetrics(t)

	m.ObserveGeneration("ollama", 1.5)
	m.ObserveGeneration("ollama", 3.0)

	count := testutil.CollectAndCount(m.GenerationSeconds)
	if count != 1 {
		t.Errorf("expected 1 histogram series, got %d", count)
	}
}

func TestServiceMetrics_RecordRetry(t *testing.T) {
	m := newTestMetrics(t)

	m.RecordRetry("openai")
	m.RecordRetry("openai")
	m.RecordRetry("anthropic")

	openaiVal := testutil.ToFloat64(m.RetriesTotal.WithLabelValues("openai"))
	if openaiVal != 2 {
		t.Errorf("RetriesTotal[openai] = %f, want 2", openaiVal)
	}

	anthropicVal := testutil.ToFloat64(m.RetriesTotal.WithLabelValues("anthropic"))
	if anthropicVal != 1 {
		t.Errorf("RetriesTotal[anthropic] = %f, want 1", anthropicVal)
	}
}

// ============================================================================
// Validation Failure Tests
// ============================================================================

func TestServiceMetrics_RecordValidationFailure(t *testing.T) {
	m := newTestMetrics(t)

	m.RecordValidationFailure("debate", "parse")
	m.RecordValidationFailure("debate", "schema")
	m.RecordValidationFailure("debate", "schema")

	parseVal := testutil.ToFloat64(m.ValidationFailuresTotal.WithLabelValues("debate", "parse"))
	if parseVal != 1 {
		t.Errorf("ValidationFailuresTotal[debate,parse] = %f, want 1", parseVal)
	}

	schemaVal := testutil.ToFloat64(m.ValidationFailuresTotal.WithLabelValues("debate", "schema"))
	if schemaVal != 2 {
		t.Errorf("ValidationFailuresTotal[debate,schema] = %f, want 2", schemaVal)
	}
}

// ============================================================================
// Active Request Gauge Tests
// ============================================================================

func TestServiceMetrics_RequestLifecycle(t *testing.T) {
	m := newTestMetrics(t)

	m.RequestStarted(EndpointDebate)
	m.RequestStarted(EndpointDebate)

	val := testutil.ToFloat64(m.ActiveRequests.WithLabelValues("debate"))
	if val != 2 {
		t.Errorf("ActiveRequests[debate] = %f, want 2", val)
	}

	m.RequestEnded(EndpointDebate)

	val = testutil.ToFloat64(m.ActiveRequests.WithLabelValues("debate"))
	if val != 1 {
		t.Errorf("ActiveRequests[debate] after one end = %f, want 1", val)
	}

	m.RequestEnded(EndpointDebate)

	val = testutil.ToFloat64(m.ActiveRequests.WithLabelValues("debate"))
	if val != 0 {
		t.Errorf("ActiveRequests[debate] after both end = %f, want 0", val)
	}
}

// ============================================================================
// Concurrency Tests
// ============================================================================

func TestServiceMetrics_ConcurrentSafety(t *testing.T) {
	m := newTestMetrics(t)

	done := make(chan bool, 80)

	for i := 0; i < 20; i++ {
		go func() {
			m.RecordRequest(EndpointDebate, true)
			done <- true
		}()
	}

	for i := 0; i < 20; i++ {
		go func() {
			m.RecordError(EndpointDebate, ErrorCodeRateLimited)
			done <- true
		}()
	}

	for i := 0; i < 20; i++ {
		go func() {
			m.ObserveGeneration("mock", 0.1)
			m.RecordRetry("mock")
			done <- true
		}()
	}

	for i := 0; i < 20; i++ {
		go func() {
			m.RequestStarted(EndpointDebate)
			m.RequestEnded(EndpointDebate)
			done <- true
		}()
	}

	for i := 0; i < 80; i++ {
		<-done
	}

	requestVal := testutil.ToFloat64(m.RequestsTotal.WithLabelValues("debate", "success"))
	if requestVal != 20 {
		t.Errorf("RequestsTotal[debate,success] = %f, want 20", requestVal)
	}

	activeVal := testutil.ToFloat64(m.ActiveRequests.WithLabelValues("debate"))
	if activeVal != 0 {
		t.Errorf("ActiveRequests[debate] = %f, want 0 after balanced start/end", activeVal)
	}
}
