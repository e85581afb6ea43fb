// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package prompting assembles the adaptive prompt-construction pipeline:
// complexity analysis, parameter optimization, example retrieval, strategy
// composition, and response validation behind a single engine facade.
package prompting

import (
	"fmt"
	"log/slog"

	"github.com/sakxhamm/CivicsCoach-sub000/services/prompting/complexity"
	"github.com/sakxhamm/CivicsCoach-sub000/services/prompting/datatypes"
	"github.com/sakxhamm/CivicsCoach-sub000/services/prompting/examplestore"
	"github.com/sakxhamm/CivicsCoach-sub000/services/prompting/optimizer"
	"github.com/sakxhamm/CivicsCoach-sub000/services/prompting/strategy"
	"github.com/sakxhamm/CivicsCoach-sub000/services/prompting/validate"
)

// defaultMultiExampleCount is how many examples a multi-example payload
// requests when the caller does not say.
const defaultMultiExampleCount = 3

// Config holds the engine's construction options. Zero value is usable:
// nil sub-configs fall back to their package defaults and a nil store is
// replaced with the seeded default catalog.
type Config struct {
	// Analyzer configures complexity scoring. Nil uses defaults.
	Analyzer *complexity.Config

	// Optimizer configures parameter nudging. Nil uses defaults.
	Optimizer *optimizer.Config

	// Store supplies worked examples. Nil uses the seeded default store.
	Store *examplestore.Store

	// Metrics receives pipeline observations. Nil disables recording.
	Metrics *PipelineMetrics

	// Logger for pipeline events. Nil uses slog.Default().
	Logger *slog.Logger
}

// Engine wires the pipeline stages together.
//
// # Description
//
// The engine is the single entry point callers use: analyze a query's
// complexity, derive generation parameters, build an instruction payload
// (fetching worked examples from the store for example-based strategies),
// and validate backend output against the task's schema. Each stage stays
// independently callable so callers can override any intermediate value,
// and the engine never recomputes a stage the caller already ran.
//
// # Thread Safety
//
// Safe for concurrent use. All stages are stateless except the example
// store, which synchronizes internally.
type Engine struct {
	analyzer  *complexity.Analyzer
	optimizer *optimizer.Optimizer
	store     *examplestore.Store
	builder   *strategy.Builder
	validator *validate.Validator
	metrics   *PipelineMetrics
	logger    *slog.Logger
}

// New creates an Engine from the given config.
func New(cfg Config) *Engine {
	store := cfg.Store
	if store == nil {
		store = examplestore.NewStoreWithDefaults()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Engine{
		analyzer:  complexity.NewAnalyzer(cfg.Analyzer),
		optimizer: optimizer.NewOptimizer(cfg.Optimizer),
		store:     store,
		builder:   strategy.NewBuilder(),
		validator: validate.NewValidator(),
		metrics:   cfg.Metrics,
		logger:    logger,
	}
}

// AnalyzeComplexity scores a raw query.
//
// Description:
//
//	Delegates to the complexity analyzer. Total: any string, including
//	empty, yields a result.
//
// Inputs:
//
//	query - Raw user query text.
//
// Outputs:
//
//	datatypes.Complexity - Level, score, contributing factors, creative flag.
func (e *Engine) AnalyzeComplexity(query string) datatypes.Complexity {
	result := e.analyzer.Analyze(query)
	e.metrics.RecordComplexity(result.Level)
	return result
}

// OptimizeParameters derives a clamped generation profile.
//
// Description:
//
//	Delegates to the optimizer with the complexity the caller already
//	holds; the engine never re-analyzes the query. Unknown context/task
//	pairs fall back to the default preset and are counted, not rejected.
//
// Inputs:
//
//	context - Usage context selecting the preset.
//	task - Task type selecting the preset.
//	cx - Complexity from AnalyzeComplexity.
//	proficiency - Caller's self-declared level.
//	overrides - Optional explicit values; nil means no overrides.
//
// Outputs:
//
//	datatypes.ParameterProfile - Temperature, nucleus threshold, evidence
//	pool size, all within global bounds.
func (e *Engine) OptimizeParameters(
	context datatypes.Context,
	task datatypes.TaskType,
	cx datatypes.Complexity,
	proficiency datatypes.Proficiency,
	overrides *datatypes.Overrides,
) datatypes.ParameterProfile {
	if _, ok := optimizer.PresetFor(context, task); !ok {
		e.metrics.RecordPresetFallback(context, task)
	}
	return e.optimizer.Optimize(context, task, cx, proficiency, overrides)
}

// BuildInstructionPayload composes the payload for a request.
//
// Description:
//
//	Resolves the example budget for the requested strategy, fetches
//	examples from the store when the caller did not supply any, and
//	delegates composition to the builder. The store is only consulted
//	for example-based strategies; a sparse bucket yields fewer examples
//	than requested, never padding.
//
// Inputs:
//
//	req - Build request. Complexity must already be analyzed; the engine
//	passes it through untouched. If req.Examples is non-nil the store is
//	bypassed and the supplied examples are used as-is.
//
// Outputs:
//
//	datatypes.InstructionPayload - Ordered blocks ending in the contract.
//	error - InputError on unknown task/strategy, empty query, or a
//	multi-example count below two.
func (e *Engine) BuildInstructionPayload(req strategy.BuildRequest) (datatypes.InstructionPayload, error) {
	budget, err := e.exampleBudget(req.Strategy, req.Options.ExampleCount)
	if err != nil {
		return datatypes.InstructionPayload{}, err
	}
	if budget > 0 && req.Examples == nil {
		req.Examples = e.store.Lookup(req.TaskType, req.Proficiency, req.Query, budget)
	}

	payload, err := e.builder.Build(req)
	if err != nil {
		return datatypes.InstructionPayload{}, err
	}

	rendered := payload.Render()
	e.metrics.RecordStrategy(req.Strategy, req.TaskType)
	e.metrics.RecordPayloadSize(req.Strategy, len(rendered))
	e.logger.Debug("Built instruction payload",
		slog.String("strategy", string(req.Strategy)),
		slog.String("task", string(req.TaskType)),
		slog.Int("blocks", len(payload.Blocks)),
		slog.Int("bytes", len(rendered)))

	return payload, nil
}

// ValidateResponse checks backend output against a task's schema.
//
// Description:
//
//	Delegates to the validator and records the outcome. Strip any hidden
//	reasoning at the payload's stop marker before calling this; the
//	validator sees raw text as-is.
//
// Inputs:
//
//	raw - Backend output text.
//	task - Task type whose schema applies.
//
// Outputs:
//
//	datatypes.ValidationResult - Verdict, errors, warnings, parsed output.
//	error - InputError, ParseError, or SchemaError.
func (e *Engine) ValidateResponse(raw string, task datatypes.TaskType) (datatypes.ValidationResult, error) {
	result, err := e.validator.Validate(raw, task)
	switch {
	case err == nil:
		e.metrics.RecordValidation(task, OutcomeSuccess)
	case datatypes.IsParseError(err):
		e.metrics.RecordValidation(task, OutcomeParseError)
		e.logger.Debug("Response failed parse validation", slog.String("task", string(task)))
	case datatypes.IsSchemaError(err):
		e.metrics.RecordValidation(task, OutcomeSchemaError)
		e.logger.Debug("Response failed schema validation",
			slog.String("task", string(task)),
			slog.Int("errors", len(result.Errors)))
	}
	return result, err
}

// Examples returns the engine's example store so callers can add to or
// inspect the catalog at runtime.
func (e *Engine) Examples() *examplestore.Store {
	return e.store
}

// exampleBudget maps a strategy and requested count to the number of
// examples to fetch. Zero means the strategy uses none.
func (e *Engine) exampleBudget(s datatypes.Strategy, requested int) (int, error) {
	switch s {
	case datatypes.StrategySingleExample:
		return 1, nil
	case datatypes.StrategyMultiExample:
		if requested == 0 {
			return defaultMultiExampleCount, nil
		}
		if requested < 2 {
			return 0, datatypes.NewInputError(datatypes.ErrCodeBadExampleCount,
				fmt.Sprintf("multi-example strategy needs at least 2 examples, got %d", requested))
		}
		return requested, nil
	default:
		return 0, nil
	}
}
