// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package services provides business logic services for the orchestrator.
//
// This package contains service structs that encapsulate business logic,
// separating it from HTTP handlers. Services are responsible for:
//   - Running the debate pipeline end to end (analyze, optimize,
//     retrieve, build, generate, validate)
//   - Applying retry policy against generation backends
//   - Recording quality telemetry
//
// Services are designed to be:
//   - Testable: Dependencies are injected via constructors
//   - Stateless: All request state is passed in; identical in-flight
//     requests are deduplicated, not cached
//   - Traceable: All methods accept context for distributed tracing
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/sakxhamm/CivicsCoach-sub000/services/evidence"
	"github.com/sakxhamm/CivicsCoach-sub000/services/llm"
	"github.com/sakxhamm/CivicsCoach-sub000/services/orchestrator/datatypes"
	"github.com/sakxhamm/CivicsCoach-sub000/services/orchestrator/observability"
	"github.com/sakxhamm/CivicsCoach-sub000/services/orchestrator/telemetry"
	"github.com/sakxhamm/CivicsCoach-sub000/services/prompting"
	promptdata "github.com/sakxhamm/CivicsCoach-sub000/services/prompting/datatypes"
	"github.com/sakxhamm/CivicsCoach-sub000/services/prompting/strategy"
)

// debateTracer is the OpenTelemetry tracer for DebateService operations.
var debateTracer = otel.Tracer("civicscoach.orchestrator.services.debate")

const (
	// maxGenerationAttempts bounds backend calls per debate, including
	// the first one. Only rate-limited failures are retried.
	maxGenerationAttempts = 3

	// initialRetryBackoff is the wait before the first retry. Each
	// further retry doubles it.
	initialRetryBackoff = 250 * time.Millisecond

	// retryJitterFactor spreads retry waits into
	// [backoff*(1-j), backoff*(1+j)] so synchronized callers do not
	// hit the backend in lockstep.
	retryJitterFactor = 0.2

	// telemetryTimeout bounds the post-debate telemetry write.
	telemetryTimeout = 2 * time.Second
)

// =============================================================================
// DebateService
// =============================================================================

// DebateService runs the full debate pipeline. It orchestrates the flow
// between:
//   - Prompting engine: complexity analysis, parameter optimization,
//     payload construction, output validation
//   - Evidence store: grounding snippet retrieval
//   - Generation backend: the actual LLM call, with rate-limit retries
//   - Telemetry recorder: per-debate quality samples
//
// The service is stateless. Identical requests arriving while one is
// already in flight share that call's outcome instead of issuing their
// own backend call.
//
// Usage:
//
//	svc, err := NewDebateService(DebateConfig{Engine: engine, Backend: client})
//	resp, err := svc.Debate(ctx, &req, requestID)
type DebateService struct {
	engine      *prompting.Engine
	backend     llm.Client
	backendName string
	evidence    evidence.Store
	recorder    telemetry.Recorder
	metrics     *observability.ServiceMetrics
	logger      *slog.Logger

	inflight singleflight.Group
}

// DebateConfig carries the dependencies for a DebateService.
type DebateConfig struct {
	// Engine is the prompting pipeline. Required.
	Engine *prompting.Engine

	// Backend is the generation client. Required.
	Backend llm.Client

	// BackendName labels metrics and telemetry ("ollama", "mock", ...).
	BackendName string

	// Evidence retrieves grounding snippets. Nil disables grounding.
	Evidence evidence.Store

	// Recorder accepts quality samples. Nil means drop them.
	Recorder telemetry.Recorder

	// Metrics is the Prometheus metric set. Nil disables recording.
	Metrics *observability.ServiceMetrics

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// NewDebateService creates a DebateService from its dependencies.
func NewDebateService(cfg DebateConfig) (*DebateService, error) {
	if cfg.Engine == nil {
		return nil, fmt.Errorf("debate service requires a prompting engine")
	}
	if cfg.Backend == nil {
		return nil, fmt.Errorf("debate service requires a generation backend")
	}
	if cfg.BackendName == "" {
		cfg.BackendName = "unknown"
	}
	if cfg.Recorder == nil {
		cfg.Recorder = telemetry.Nop{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &DebateService{
		engine:      cfg.Engine,
		backend:     cfg.Backend,
		backendName: cfg.BackendName,
		evidence:    cfg.Evidence,
		recorder:    cfg.Recorder,
		metrics:     cfg.Metrics,
		logger:      cfg.Logger,
	}, nil
}

// BackendName returns the label of the configured generation backend.
func (s *DebateService) BackendName() string {
	return s.backendName
}

// =============================================================================
// Core Processing
// =============================================================================

// debateOutcome is the pipeline result shared between deduplicated
// callers. The per-caller request ID is attached afterwards.
type debateOutcome struct {
	result   map[string]any
	warnings []string
	meta     datatypes.DebateMetadata
}

// Debate handles one debate request end-to-end.
//
// The processing flow is:
//  1. Resolve enum fields and defaults
//  2. Deduplicate against identical in-flight requests
//  3. Analyze complexity and derive generation parameters
//  4. Retrieve grounding evidence (profile-sized pool)
//  5. Build the instruction payload
//  6. Call the backend, retrying only rate-limited failures
//  7. Strip everything past the stop marker and validate the output
//
// Callers validate the request first; unknown vocabulary that slips
// through still surfaces as an InputError from the pipeline itself.
//
// Errors are categorized by the prompting error taxonomy:
//   - InputError: rejected vocabulary or malformed pipeline input
//   - ParseError / SchemaError: model output failed validation
//   - BackendError: generation failed; RateLimited marks refusals
//     that survived every retry
func (s *DebateService) Debate(ctx context.Context, req *datatypes.DebateRequest, requestID string) (*datatypes.DebateResponse, error) {
	ctx, span := debateTracer.Start(ctx, "DebateService.Debate")
	defer span.End()

	resolved := req.Resolved()
	span.SetAttributes(
		attribute.String("debate.task", string(resolved.TaskType)),
		attribute.String("debate.strategy", string(resolved.Strategy)),
		attribute.String("debate.proficiency", string(resolved.Proficiency)),
		attribute.Int("debate.query_bytes", len(resolved.Query)),
	)

	v, err, shared := s.inflight.Do(dedupeKey(resolved), func() (interface{}, error) {
		return s.run(ctx, resolved)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "debate failed")
		return nil, err
	}

	outcome := v.(*debateOutcome)
	span.SetAttributes(
		attribute.Bool("debate.deduplicated", shared),
		attribute.Int("debate.attempts", outcome.meta.Attempts),
	)

	return &datatypes.DebateResponse{
		RequestID: requestID,
		Result:    outcome.result,
		Warnings:  outcome.warnings,
		Metadata:  outcome.meta,
	}, nil
}

// Preview runs every pipeline stage except generation and returns the
// instruction payload that would have been sent to the backend. It is
// the dry-run surface behind the preview endpoint and the staged
// websocket frames.
func (s *DebateService) Preview(ctx context.Context, req *datatypes.DebateRequest) (*datatypes.PreviewResponse, error) {
	ctx, span := debateTracer.Start(ctx, "DebateService.Preview")
	defer span.End()

	r := req.Resolved()
	span.SetAttributes(
		attribute.String("debate.task", string(r.TaskType)),
		attribute.String("debate.strategy", string(r.Strategy)),
	)

	cx := s.engine.AnalyzeComplexity(r.Query)
	profile := s.engine.OptimizeParameters(r.Context, r.TaskType, cx, r.Proficiency, r.Overrides)
	snippets := s.retrieveEvidence(ctx, r.Query, profile.EvidencePoolSize)

	payload, err := s.engine.BuildInstructionPayload(strategy.BuildRequest{
		Strategy:    r.Strategy,
		Query:       r.Query,
		Proficiency: r.Proficiency,
		TaskType:    r.TaskType,
		Context:     r.Context,
		Complexity:  cx,
		Snippets:    snippets,
		Options: strategy.Options{
			HiddenReasoning: r.HiddenReasoning,
			ExampleCount:    r.ExampleCount,
		},
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "payload construction failed")
		return nil, err
	}

	return &datatypes.PreviewResponse{
		Complexity: cx,
		Profile:    profile,
		Strategy:   string(payload.Strategy),
		Blocks:     payload.Blocks,
		Rendered:   payload.Render(),
		StopMarker: payload.StopMarker,
	}, nil
}

// run executes the pipeline stages for one deduplicated request.
func (s *DebateService) run(ctx context.Context, r datatypes.ResolvedDebate) (*debateOutcome, error) {
	ctx, span := debateTracer.Start(ctx, "DebateService.run")
	defer span.End()

	// Stage 1: complexity analysis
	cx := s.engine.AnalyzeComplexity(r.Query)
	span.SetAttributes(
		attribute.String("complexity.level", string(cx.Level)),
		attribute.Float64("complexity.score", cx.Score),
	)

	// Stage 2: parameter optimization
	profile := s.engine.OptimizeParameters(r.Context, r.TaskType, cx, r.Proficiency, r.Overrides)

	// Stage 3: evidence retrieval, sized by the optimized profile
	snippets := s.retrieveEvidence(ctx, r.Query, profile.EvidencePoolSize)

	// Stage 4: instruction payload
	payload, err := s.engine.BuildInstructionPayload(strategy.BuildRequest{
		Strategy:    r.Strategy,
		Query:       r.Query,
		Proficiency: r.Proficiency,
		TaskType:    r.TaskType,
		Context:     r.Context,
		Complexity:  cx,
		Snippets:    snippets,
		Options: strategy.Options{
			HiddenReasoning: r.HiddenReasoning,
			ExampleCount:    r.ExampleCount,
		},
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "payload construction failed")
		return nil, err
	}

	// Stage 5: generation with rate-limit retries
	text, attempts, genMS, err := s.generate(ctx, payload, profile)
	if err != nil {
		s.record(r, cx, attempts, genMS, len(snippets), false)
		return nil, err
	}

	// Stage 6: strip trailing reasoning, then validate
	answer := DiscardAfterMarker(text, payload.StopMarker)
	result, err := s.engine.ValidateResponse(answer, r.TaskType)
	if err != nil {
		if s.metrics != nil {
			reason := "parse"
			if promptdata.IsSchemaError(err) {
				reason = "schema"
			}
			s.metrics.RecordValidationFailure(string(r.TaskType), reason)
		}
		s.record(r, cx, attempts, genMS, len(snippets), false)
		span.RecordError(err)
		span.SetStatus(codes.Error, "output validation failed")
		return nil, err
	}

	outcome := &debateOutcome{
		result:   result.NormalizedOutput,
		warnings: result.Warnings,
		meta: datatypes.DebateMetadata{
			Complexity:    cx,
			Profile:       profile,
			Strategy:      string(payload.Strategy),
			EvidenceCount: len(snippets),
			GenerationMS:  genMS,
			Attempts:      attempts,
			Backend:       s.backendName,
		},
	}

	s.record(r, cx, attempts, genMS, len(snippets), true)
	return outcome, nil
}

// retrieveEvidence fetches up to poolSize grounding snippets.
//
// Retrieval failure degrades to an ungrounded debate rather than
// failing the request: the payload's evidence section is optional,
// while the answer is the product.
func (s *DebateService) retrieveEvidence(ctx context.Context, query string, poolSize int) []promptdata.Snippet {
	if s.evidence == nil || poolSize <= 0 {
		return nil
	}

	ctx, span := debateTracer.Start(ctx, "DebateService.retrieveEvidence")
	defer span.End()
	span.SetAttributes(attribute.Int("evidence.pool_size", poolSize))

	snippets, err := s.evidence.Retrieve(ctx, query, poolSize)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "evidence retrieval failed")
		if s.metrics != nil {
			s.metrics.RecordError(observability.EndpointDebate, observability.ErrorCodeEvidence)
		}
		s.logger.Warn("Evidence retrieval failed, continuing without grounding",
			"error", err)
		return nil
	}

	// Store IDs are opaque. Relabel so the payload cites ev-1..ev-n
	// and the model can reference snippets readably.
	for i := range snippets {
		snippets[i].ID = fmt.Sprintf("ev-%d", i+1)
	}

	span.SetAttributes(attribute.Int("evidence.count", len(snippets)))
	return snippets
}

// generate calls the backend, retrying only rate-limited failures.
//
// Returns the raw output text, the number of attempts made, and the
// summed call latency in milliseconds. Errors other than rate limits
// surface immediately; context cancellation is never wrapped.
func (s *DebateService) generate(
	ctx context.Context,
	payload promptdata.InstructionPayload,
	profile promptdata.ParameterProfile,
) (string, int, int64, error) {
	ctx, span := debateTracer.Start(ctx, "DebateService.generate")
	defer span.End()
	span.SetAttributes(attribute.String("generation.backend", s.backendName))

	messages := llm.MessagesFromPayload(payload)
	params := llm.ParamsFromProfile(profile)
	if payload.StopMarker != "" {
		params.Stop = []string{payload.StopMarker}
	}

	var (
		lastErr  error
		attempts int
		totalMS  int64
	)
	backoff := initialRetryBackoff

	for attempt := 1; attempt <= maxGenerationAttempts; attempt++ {
		attempts = attempt

		start := time.Now()
		text, err := s.backend.Chat(ctx, messages, params)
		elapsed := time.Since(start)
		totalMS += elapsed.Milliseconds()
		if s.metrics != nil {
			s.metrics.ObserveGeneration(s.backendName, elapsed.Seconds())
		}

		if err == nil {
			span.SetAttributes(
				attribute.Int("generation.attempts", attempt),
				attribute.Int("generation.output_bytes", len(text)),
			)
			return text, attempts, totalMS, nil
		}
		lastErr = err

		if !promptdata.IsRateLimited(err) || attempt == maxGenerationAttempts {
			break
		}

		if s.metrics != nil {
			s.metrics.RecordRetry(s.backendName)
		}

		// Jittered wait in [backoff*(1-j), backoff*(1+j)].
		jitter := (rand.Float64()*2 - 1) * retryJitterFactor
		wait := time.Duration(float64(backoff) * (1.0 + jitter))

		span.AddEvent("retry_attempt", trace.WithAttributes(
			attribute.Int("attempt", attempt),
			attribute.String("delay", wait.String()),
		))
		s.logger.Info("Backend rate limited, retrying",
			"backend", s.backendName,
			"attempt", attempt,
			"delay", wait,
		)

		select {
		case <-ctx.Done():
			span.RecordError(ctx.Err())
			span.SetStatus(codes.Error, "context canceled during retry")
			return "", attempts, totalMS, ctx.Err()
		case <-time.After(wait):
		}
		backoff *= 2
	}

	// Cancellation surfaces as itself so callers can tell "the client
	// hung up" from "the backend broke".
	if errors.Is(lastErr, context.Canceled) || errors.Is(lastErr, context.DeadlineExceeded) {
		span.RecordError(lastErr)
		span.SetStatus(codes.Error, "generation canceled")
		return "", attempts, totalMS, lastErr
	}

	if !promptdata.IsBackendError(lastErr) {
		lastErr = &promptdata.BackendError{Err: lastErr}
	}
	span.RecordError(lastErr)
	span.SetStatus(codes.Error, "generation failed")
	return "", attempts, totalMS, fmt.Errorf("generation failed after %d attempts: %w", attempts, lastErr)
}

// record writes one quality sample. Failures are logged, never
// propagated; telemetry must not break a served debate.
//
// The write uses a detached context: by the time it runs the request
// context may already be done.
func (s *DebateService) record(r datatypes.ResolvedDebate, cx promptdata.Complexity, attempts int, genMS int64, evidenceCount int, valid bool) {
	ctx, cancel := context.WithTimeout(context.Background(), telemetryTimeout)
	defer cancel()

	sample := telemetry.Sample{
		Task:          string(r.TaskType),
		Strategy:      string(r.Strategy),
		Level:         string(cx.Level),
		Backend:       s.backendName,
		LatencyMS:     genMS,
		Score:         cx.Score,
		Attempts:      attempts,
		Valid:         valid,
		EvidenceCount: evidenceCount,
	}

	if err := s.recorder.Record(ctx, sample); err != nil {
		s.logger.Warn("Failed to record debate telemetry", "error", err)
	}
}

// dedupeKey renders the fields that determine a debate's outcome.
// Two requests with the same key can share one backend call.
func dedupeKey(r datatypes.ResolvedDebate) string {
	key := fmt.Sprintf("%s|%s|%s|%s|%s|%t|%d",
		r.Query, r.TaskType, r.Context, r.Proficiency, r.Strategy,
		r.HiddenReasoning, r.ExampleCount)
	if r.Overrides != nil && !r.Overrides.IsZero() {
		if b, err := json.Marshal(r.Overrides); err == nil {
			key += "|" + string(b)
		}
	}
	return key
}

// =============================================================================
// Output Trimming
// =============================================================================

// DiscardAfterMarker returns the text before the first occurrence of
// marker, trimmed of surrounding whitespace.
//
// Backends are asked to stop at the marker, but not all honor stop
// sequences, and hidden-reasoning payloads deliberately place working
// notes after it. Both cases reduce to the same rule: nothing past the
// marker belongs to the answer. An empty marker or a marker that never
// occurs leaves the text intact apart from trimming.
func DiscardAfterMarker(raw, marker string) string {
	if marker != "" {
		if idx := strings.Index(raw, marker); idx >= 0 {
			raw = raw[:idx]
		}
	}
	return strings.TrimSpace(raw)
}
