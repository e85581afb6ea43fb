// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakxhamm/CivicsCoach-sub000/services/evidence"
	"github.com/sakxhamm/CivicsCoach-sub000/services/llm"
	"github.com/sakxhamm/CivicsCoach-sub000/services/orchestrator/datatypes"
	"github.com/sakxhamm/CivicsCoach-sub000/services/orchestrator/telemetry"
	"github.com/sakxhamm/CivicsCoach-sub000/services/prompting"
	promptdata "github.com/sakxhamm/CivicsCoach-sub000/services/prompting/datatypes"
)

// =============================================================================
// Test Helpers
// =============================================================================

// gatedClient blocks Chat until release is closed, so tests can hold
// several requests in flight at once.
type gatedClient struct {
	inner   *llm.MockClient
	release chan struct{}
}

func (g *gatedClient) Generate(ctx context.Context, prompt string, params llm.GenerationParams) (string, error) {
	<-g.release
	return g.inner.Generate(ctx, prompt, params)
}

func (g *gatedClient) Chat(ctx context.Context, messages []llm.Message, params llm.GenerationParams) (string, error) {
	<-g.release
	return g.inner.Chat(ctx, messages, params)
}

// fakeRecorder captures telemetry samples for assertions.
type fakeRecorder struct {
	mu      sync.Mutex
	samples []telemetry.Sample
}

func (f *fakeRecorder) Record(_ context.Context, s telemetry.Sample) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.samples = append(f.samples, s)
	return nil
}

func (f *fakeRecorder) Close() {}

func (f *fakeRecorder) Samples() []telemetry.Sample {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]telemetry.Sample(nil), f.samples...)
}

// failingStore always errors on retrieval.
type failingStore struct{}

func (failingStore) Retrieve(context.Context, string, int) ([]promptdata.Snippet, error) {
	return nil, errors.New("store is down")
}

func newTestDebateService(t *testing.T, cfg DebateConfig) *DebateService {
	t.Helper()

	if cfg.Engine == nil {
		cfg.Engine = prompting.New(prompting.Config{})
	}
	if cfg.BackendName == "" {
		cfg.BackendName = "mock"
	}

	svc, err := NewDebateService(cfg)
	require.NoError(t, err)
	return svc
}

func debateRequest() *datatypes.DebateRequest {
	return &datatypes.DebateRequest{
		Query:    "Is the basic structure doctrine a legitimate limit on amendment power?",
		TaskType: "debate",
	}
}

// =============================================================================
// Constructor Tests
// =============================================================================

func TestNewDebateService_RequiresEngine(t *testing.T) {
	_, err := NewDebateService(DebateConfig{Backend: llm.NewMockClient()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "engine")
}

func TestNewDebateService_RequiresBackend(t *testing.T) {
	_, err := NewDebateService(DebateConfig{Engine: prompting.New(prompting.Config{})})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend")
}

// =============================================================================
// Debate Tests
// =============================================================================

func TestDebateService_Debate_Success(t *testing.T) {
	backend := llm.NewMockClient()
	svc := newTestDebateService(t, DebateConfig{Backend: backend})

	resp, err := svc.Debate(context.Background(), debateRequest(), "req-123")
	require.NoError(t, err)

	assert.Equal(t, "req-123", resp.RequestID)
	assert.Contains(t, resp.Result, "stance")
	assert.Contains(t, resp.Result, "counterStance")
	assert.Equal(t, 1, resp.Metadata.Attempts)
	assert.Equal(t, "mock", resp.Metadata.Backend)
	assert.NotEmpty(t, resp.Metadata.Strategy)
	assert.NotEmpty(t, resp.Metadata.Complexity.Level)
	assert.Greater(t, resp.Metadata.Profile.Temperature, 0.0)
}

func TestDebateService_Debate_PassesStopSequence(t *testing.T) {
	backend := llm.NewMockClient()
	svc := newTestDebateService(t, DebateConfig{Backend: backend})

	_, err := svc.Debate(context.Background(), debateRequest(), "req-1")
	require.NoError(t, err)

	last := backend.LastCall()
	require.NotEmpty(t, last.Messages)
	assert.NotEmpty(t, last.Params.Stop, "backend should receive the stop marker")
}

func TestDebateService_Debate_WithEvidence(t *testing.T) {
	store := evidence.NewMemoryStore()
	_, err := store.AddDocument(evidence.Document{
		Source:     "Kesavananda Bharati v. State of Kerala",
		ArticleRef: "1973",
		Content:    "The basic structure doctrine holds that amendment power cannot destroy the Constitution's identity.",
	})
	require.NoError(t, err)

	backend := llm.NewMockClient()
	svc := newTestDebateService(t, DebateConfig{Backend: backend, Evidence: store})

	resp, err := svc.Debate(context.Background(), debateRequest(), "req-1")
	require.NoError(t, err)
	assert.Greater(t, resp.Metadata.EvidenceCount, 0)
}

func TestDebateService_Debate_EvidenceFailureDegrades(t *testing.T) {
	backend := llm.NewMockClient()
	svc := newTestDebateService(t, DebateConfig{Backend: backend, Evidence: failingStore{}})

	resp, err := svc.Debate(context.Background(), debateRequest(), "req-1")
	require.NoError(t, err, "a broken evidence store should not fail the debate")
	assert.Equal(t, 0, resp.Metadata.EvidenceCount)
}

func TestDebateService_Debate_UnknownTaskSurfacesInputError(t *testing.T) {
	backend := llm.NewMockClient()
	svc := newTestDebateService(t, DebateConfig{Backend: backend})

	req := &datatypes.DebateRequest{Query: "anything", TaskType: "poetry"}

	_, err := svc.Debate(context.Background(), req, "req-1")
	require.Error(t, err)
	assert.True(t, promptdata.IsInputError(err))
	assert.Equal(t, 0, backend.CallCount(), "no backend call for rejected input")
}

// =============================================================================
// Validation Outcome Tests
// =============================================================================

func TestDebateService_Debate_ParseErrorSurfaces(t *testing.T) {
	backend := llm.NewMockClient("this is not json at all")
	svc := newTestDebateService(t, DebateConfig{Backend: backend})

	_, err := svc.Debate(context.Background(), debateRequest(), "req-1")
	require.Error(t, err)
	assert.True(t, promptdata.IsParseError(err))
}

func TestDebateService_Debate_SchemaErrorSurfaces(t *testing.T) {
	backend := llm.NewMockClient(`{"stance": "only a stance"}`)
	svc := newTestDebateService(t, DebateConfig{Backend: backend})

	_, err := svc.Debate(context.Background(), debateRequest(), "req-1")
	require.Error(t, err)
	assert.True(t, promptdata.IsSchemaError(err))
}

func TestDebateService_Debate_StripsTrailingReasoning(t *testing.T) {
	backend := llm.NewMockClient(
		llm.DefaultMockText + "\n===END_OF_ANSWER===\nworking notes the caller must never see",
	)
	svc := newTestDebateService(t, DebateConfig{Backend: backend})

	resp, err := svc.Debate(context.Background(), debateRequest(), "req-1")
	require.NoError(t, err, "text past the marker must not reach the validator")
	assert.Contains(t, resp.Result, "stance")
}

// =============================================================================
// Retry Tests
// =============================================================================

func TestDebateService_Debate_RetriesRateLimit(t *testing.T) {
	rl := &promptdata.BackendError{Err: errors.New("429"), RateLimited: true}
	backend := llm.NewMockClient()
	backend.Script = []llm.MockResponse{
		{Err: rl},
		{Text: llm.DefaultMockText},
	}
	svc := newTestDebateService(t, DebateConfig{Backend: backend})

	resp, err := svc.Debate(context.Background(), debateRequest(), "req-1")
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Metadata.Attempts)
	assert.Equal(t, 2, backend.CallCount())
}

func TestDebateService_Debate_RateLimitExhausted(t *testing.T) {
	rl := &promptdata.BackendError{Err: errors.New("429"), RateLimited: true}
	backend := llm.NewMockClient()
	backend.Script = []llm.MockResponse{{Err: rl}}
	svc := newTestDebateService(t, DebateConfig{Backend: backend})

	_, err := svc.Debate(context.Background(), debateRequest(), "req-1")
	require.Error(t, err)
	assert.True(t, promptdata.IsRateLimited(err))
	assert.Equal(t, maxGenerationAttempts, backend.CallCount())
}

func TestDebateService_Debate_NonRetryableFailsFast(t *testing.T) {
	backend := llm.NewMockClient()
	backend.Script = []llm.MockResponse{{Err: errors.New("connection refused")}}
	svc := newTestDebateService(t, DebateConfig{Backend: backend})

	_, err := svc.Debate(context.Background(), debateRequest(), "req-1")
	require.Error(t, err)
	assert.True(t, promptdata.IsBackendError(err))
	assert.False(t, promptdata.IsRateLimited(err))
	assert.Equal(t, 1, backend.CallCount(), "plain failures must not be retried")
}

func TestDebateService_Debate_CancellationNotWrapped(t *testing.T) {
	backend := llm.NewMockClient()
	svc := newTestDebateService(t, DebateConfig{Backend: backend})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Debate(ctx, debateRequest(), "req-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, promptdata.IsBackendError(err))
}

// =============================================================================
// Deduplication Tests
// =============================================================================

func TestDebateService_Debate_DeduplicatesConcurrentCalls(t *testing.T) {
	inner := llm.NewMockClient()
	gate := &gatedClient{inner: inner, release: make(chan struct{})}
	svc := newTestDebateService(t, DebateConfig{Backend: gate})

	var wg sync.WaitGroup
	results := make([]*datatypes.DebateResponse, 2)
	errs := make([]error, 2)

	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.Debate(context.Background(), debateRequest(), "req-"+string(rune('a'+i)))
		}(i)
	}

	// Let both requests join the flight before the backend answers.
	time.Sleep(50 * time.Millisecond)
	close(gate.release)
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Equal(t, 1, inner.CallCount(), "identical in-flight requests share one backend call")
	assert.NotEqual(t, results[0].RequestID, results[1].RequestID,
		"each caller keeps its own request ID")
	assert.Equal(t, results[0].Result, results[1].Result)
}

func TestDedupeKey_DistinguishesOverrides(t *testing.T) {
	base := debateRequest().Resolved()

	warm := 0.9
	hot := base
	hot.Overrides = &promptdata.Overrides{Temperature: &warm}

	assert.NotEqual(t, dedupeKey(base), dedupeKey(hot))
	assert.Equal(t, dedupeKey(base), dedupeKey(debateRequest().Resolved()))
}

// =============================================================================
// Telemetry Tests
// =============================================================================

func TestDebateService_Debate_RecordsTelemetry(t *testing.T) {
	rec := &fakeRecorder{}
	backend := llm.NewMockClient()
	svc := newTestDebateService(t, DebateConfig{Backend: backend, Recorder: rec})

	_, err := svc.Debate(context.Background(), debateRequest(), "req-1")
	require.NoError(t, err)

	samples := rec.Samples()
	require.Len(t, samples, 1)
	assert.Equal(t, "debate", samples[0].Task)
	assert.Equal(t, "mock", samples[0].Backend)
	assert.True(t, samples[0].Valid)
	assert.Equal(t, 1, samples[0].Attempts)
}

func TestDebateService_Debate_RecordsInvalidOutcome(t *testing.T) {
	rec := &fakeRecorder{}
	backend := llm.NewMockClient("not json")
	svc := newTestDebateService(t, DebateConfig{Backend: backend, Recorder: rec})

	_, err := svc.Debate(context.Background(), debateRequest(), "req-1")
	require.Error(t, err)

	samples := rec.Samples()
	require.Len(t, samples, 1)
	assert.False(t, samples[0].Valid)
}

// =============================================================================
// DiscardAfterMarker Tests
// =============================================================================

func TestDiscardAfterMarker(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		marker string
		want   string
	}{
		{
			name:   "marker with trailing reasoning",
			raw:    "answer text\n===END_OF_ANSWER===\nhidden notes",
			marker: "===END_OF_ANSWER===",
			want:   "answer text",
		},
		{
			name:   "marker absent",
			raw:    "  answer text  ",
			marker: "===END_OF_ANSWER===",
			want:   "answer text",
		},
		{
			name:   "empty marker trims only",
			raw:    "\n answer \n",
			marker: "",
			want:   "answer",
		},
		{
			name:   "marker at start yields empty",
			raw:    "===END_OF_ANSWER===everything after",
			marker: "===END_OF_ANSWER===",
			want:   "",
		},
		{
			name:   "first marker wins",
			raw:    "one ===M=== two ===M=== three",
			marker: "===M===",
			want:   "one",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DiscardAfterMarker(tt.raw, tt.marker))
		})
	}
}

func TestDebateService_Preview_NoBackendCall(t *testing.T) {
	backend := llm.NewMockClient()
	svc := newTestDebateService(t, DebateConfig{Backend: backend})

	resp, err := svc.Preview(context.Background(), debateRequest())
	require.NoError(t, err)
	assert.Equal(t, 0, backend.CallCount())
	assert.NotEmpty(t, resp.Blocks)
	assert.NotEmpty(t, resp.Rendered)
	assert.NotEmpty(t, resp.Strategy)
	assert.GreaterOrEqual(t, resp.Profile.EvidencePoolSize, promptdata.EvidencePoolMin)
}

func TestDebateService_Preview_ExplicitStrategyPassesThrough(t *testing.T) {
	svc := newTestDebateService(t, DebateConfig{Backend: llm.NewMockClient()})

	req := debateRequest()
	req.Strategy = string(promptdata.StrategyStructuredRole)

	resp, err := svc.Preview(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, string(promptdata.StrategyStructuredRole), resp.Strategy)
}

func TestDebateService_Preview_HiddenReasoningSetsMarker(t *testing.T) {
	svc := newTestDebateService(t, DebateConfig{Backend: llm.NewMockClient()})

	req := debateRequest()
	req.HiddenReasoning = true

	resp, err := svc.Preview(context.Background(), req)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.StopMarker)
	assert.Contains(t, resp.Rendered, resp.StopMarker)
}

func TestDebateService_Preview_UnknownTaskFails(t *testing.T) {
	svc := newTestDebateService(t, DebateConfig{Backend: llm.NewMockClient()})

	req := debateRequest()
	req.TaskType = "sonnet"

	_, err := svc.Preview(context.Background(), req)
	require.Error(t, err)
	assert.True(t, promptdata.IsInputError(err))
}
