// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package prompting

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/sakxhamm/CivicsCoach-sub000/services/prompting/datatypes"
)

// =============================================================================
// Metric Definitions
// =============================================================================

// Namespace for all metrics
const metricsNamespace = "civicscoach"

// Subsystem for prompting pipeline metrics
const promptingSubsystem = "prompting"

// PipelineMetrics holds all Prometheus metrics for the prompting pipeline.
//
// # Description
//
// Counters and histograms for monitoring pipeline behavior:
//   - Complexity level distribution across incoming queries
//   - Strategy usage by task type
//   - Parameter preset fallbacks (unknown context/task pairs)
//   - Validation outcomes by kind (success, parse error, schema error)
//   - Rendered payload size
//
// # Thread Safety
//
// All metric operations are thread-safe via Prometheus's internal locking.
type PipelineMetrics struct {
	// ComplexityTotal counts analyzed queries by resulting level.
	// Labels: level (simple, moderate, complex)
	ComplexityTotal *prometheus.CounterVec

	// StrategyTotal counts built payloads by strategy and task.
	// Labels: strategy, task
	StrategyTotal *prometheus.CounterVec

	// PresetFallbacksTotal counts optimizer lookups that fell back to the
	// default preset.
	// Labels: context, task
	PresetFallbacksTotal *prometheus.CounterVec

	// ValidationTotal counts validation outcomes.
	// Labels: task, outcome (success, parse_error, schema_error)
	ValidationTotal *prometheus.CounterVec

	// PayloadBytes measures rendered payload size.
	// Labels: strategy
	PayloadBytes *prometheus.HistogramVec
}

// ValidationOutcome labels a validation result for metrics.
type ValidationOutcome string

const (
	// OutcomeSuccess indicates output that satisfied the contract.
	OutcomeSuccess ValidationOutcome = "success"

	// OutcomeParseError indicates output that was not structured JSON.
	OutcomeParseError ValidationOutcome = "parse_error"

	// OutcomeSchemaError indicates parsed output missing required fields.
	OutcomeSchemaError ValidationOutcome = "schema_error"
)

// DefaultMetrics is the singleton instance of PipelineMetrics.
// Initialized by InitMetrics().
var DefaultMetrics *PipelineMetrics

// InitMetrics initializes the default metrics instance.
//
// # Description
//
// Creates and registers all pipeline metrics on the default Prometheus
// registry. Call once at application startup.
//
// # Limitations
//
//   - Panics if called twice (duplicate registration).
func InitMetrics() *PipelineMetrics {
	DefaultMetrics = &PipelineMetrics{
		ComplexityTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: promptingSubsystem,
				Name:      "complexity_total",
				Help:      "Analyzed queries by resulting complexity level",
			},
			[]string{"level"},
		),

		StrategyTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: promptingSubsystem,
				Name:      "strategy_total",
				Help:      "Built payloads by strategy and task type",
			},
			[]string{"strategy", "task"},
		),

		PresetFallbacksTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: promptingSubsystem,
				Name:      "preset_fallbacks_total",
				Help:      "Optimizer lookups that fell back to the default preset",
			},
			[]string{"context", "task"},
		),

		ValidationTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: promptingSubsystem,
				Name:      "validation_total",
				Help:      "Validation outcomes by task and kind",
			},
			[]string{"task", "outcome"},
		),

		PayloadBytes: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: promptingSubsystem,
				Name:      "payload_bytes",
				Help:      "Rendered instruction payload size in bytes",
				Buckets:   []float64{256, 512, 1024, 2048, 4096, 8192, 16384, 32768},
			},
			[]string{"strategy"},
		),
	}

	return DefaultMetrics
}

// =============================================================================
// Record Helpers
// =============================================================================

// RecordComplexity increments the level distribution counter.
func (m *PipelineMetrics) RecordComplexity(level datatypes.ComplexityLevel) {
	if m == nil {
		return
	}
	m.ComplexityTotal.WithLabelValues(string(level)).Inc()
}

// RecordStrategy increments the strategy usage counter.
func (m *PipelineMetrics) RecordStrategy(s datatypes.Strategy, task datatypes.TaskType) {
	if m == nil {
		return
	}
	m.StrategyTotal.WithLabelValues(string(s), string(task)).Inc()
}

// RecordPresetFallback increments the default-preset fallback counter.
func (m *PipelineMetrics) RecordPresetFallback(c datatypes.Context, task datatypes.TaskType) {
	if m == nil {
		return
	}
	m.PresetFallbacksTotal.WithLabelValues(string(c), string(task)).Inc()
}

// RecordValidation increments the validation outcome counter.
func (m *PipelineMetrics) RecordValidation(task datatypes.TaskType, outcome ValidationOutcome) {
	if m == nil {
		return
	}
	m.ValidationTotal.WithLabelValues(string(task), string(outcome)).Inc()
}

// RecordPayloadSize observes a rendered payload's size.
func (m *PipelineMetrics) RecordPayloadSize(s datatypes.Strategy, bytes int) {
	if m == nil {
		return
	}
	m.PayloadBytes.WithLabelValues(string(s)).Observe(float64(bytes))
}
