// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakxhamm/CivicsCoach-sub000/services/prompting/datatypes"
)

func debateRequest(s datatypes.Strategy) BuildRequest {
	return BuildRequest{
		Strategy:    s,
		Query:       "Should the basic structure doctrine limit constitutional amendments?",
		Proficiency: datatypes.ProficiencyIntermediate,
		TaskType:    datatypes.TaskDebate,
		Context:     datatypes.ContextConstitutionalEducation,
		Complexity:  datatypes.Complexity{Level: datatypes.ComplexityModerate, Score: 3},
	}
}

func TestBuild_FailsFastOnBadInput(t *testing.T) {
	b := NewBuilder()

	tests := []struct {
		name     string
		mutate   func(*BuildRequest)
		wantCode string
	}{
		{
			name:     "unknown task type",
			mutate:   func(r *BuildRequest) { r.TaskType = "haiku" },
			wantCode: datatypes.ErrCodeUnknownTaskType,
		},
		{
			name:     "unknown strategy",
			mutate:   func(r *BuildRequest) { r.Strategy = "telepathy" },
			wantCode: datatypes.ErrCodeUnknownStrategy,
		},
		{
			name:     "empty query",
			mutate:   func(r *BuildRequest) { r.Query = "  \t " },
			wantCode: datatypes.ErrCodeEmptyQuery,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := debateRequest(datatypes.StrategyNoExample)
			tt.mutate(&req)

			_, err := b.Build(req)
			require.Error(t, err)
			var ie *datatypes.InputError
			require.ErrorAs(t, err, &ie)
			assert.Equal(t, tt.wantCode, ie.Code)
		})
	}
}

func TestBuild_EveryStrategyCarriesTheContract(t *testing.T) {
	b := NewBuilder()

	for _, s := range datatypes.AllStrategies() {
		t.Run(string(s), func(t *testing.T) {
			payload, err := b.Build(debateRequest(s))
			require.NoError(t, err)

			assert.Equal(t, datatypes.TaskDebate, payload.TaskType)
			assert.Equal(t, s, payload.Strategy)

			// The final block restates the contract, naming every
			// required field literally.
			require.NotEmpty(t, payload.Blocks)
			last := payload.Blocks[len(payload.Blocks)-1].Text
			fields, err := RequiredFields(datatypes.TaskDebate)
			require.NoError(t, err)
			for _, f := range fields {
				assert.Contains(t, last, `"`+f+`"`)
			}
			assert.Contains(t, payload.SchemaContract, `"counterStance"`)
		})
	}
}

func TestBuild_EveryTaskTypeEveryStrategy(t *testing.T) {
	b := NewBuilder()

	for _, task := range datatypes.AllTaskTypes() {
		for _, s := range datatypes.AllStrategies() {
			req := debateRequest(s)
			req.TaskType = task

			payload, err := b.Build(req)
			require.NoError(t, err, "%s/%s", task, s)

			fields, err := RequiredFields(task)
			require.NoError(t, err)
			rendered := payload.Render()
			for _, f := range fields {
				assert.Contains(t, rendered, `"`+f+`"`, "%s/%s missing %s", task, s, f)
			}
		}
	}
}

func TestBuild_Idempotent(t *testing.T) {
	b := NewBuilder()

	req := debateRequest(datatypes.StrategyMultiExample)
	req.Examples = []datatypes.Example{
		{Query: "q1", ExpectedOutput: `{"stance":"a","counterStance":"b","citations":[],"quiz":[]}`},
		{Query: "q2", ExpectedOutput: `{"stance":"c","counterStance":"d","citations":[],"quiz":[]}`},
	}
	req.Snippets = []datatypes.Snippet{
		{ID: "ev-1", Source: "Article 368", Text: "Parliament may amend this Constitution."},
	}
	req.Options.HiddenReasoning = true

	first, err := b.Build(req)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := b.Build(req)
		require.NoError(t, err)
		assert.Equal(t, first, again)
		assert.Equal(t, first.Render(), again.Render())
	}
}

func TestBuild_HiddenReasoningMarker(t *testing.T) {
	b := NewBuilder()

	plain, err := b.Build(debateRequest(datatypes.StrategyNoExample))
	require.NoError(t, err)
	assert.Empty(t, plain.StopMarker)
	assert.NotContains(t, plain.Render(), StopMarker)

	req := debateRequest(datatypes.StrategyNoExample)
	req.Options.HiddenReasoning = true
	hidden, err := b.Build(req)
	require.NoError(t, err)
	assert.Equal(t, StopMarker, hidden.StopMarker)

	last := hidden.Blocks[len(hidden.Blocks)-1].Text
	assert.Contains(t, last, StopMarker)
}

func TestBuild_SingleExampleUsesExactlyOne(t *testing.T) {
	b := NewBuilder()

	req := debateRequest(datatypes.StrategySingleExample)
	req.Examples = []datatypes.Example{
		{Query: "first", ExpectedOutput: `{"stance":"1","counterStance":"x","citations":[],"quiz":[]}`},
		{Query: "second", ExpectedOutput: `{"stance":"2","counterStance":"y","citations":[],"quiz":[]}`},
	}

	payload, err := b.Build(req)
	require.NoError(t, err)

	assistants := blocksByRole(payload, datatypes.RoleAssistant)
	require.Len(t, assistants, 1)
	assert.Contains(t, assistants[0].Text, `"stance":"1"`)
	assert.NotContains(t, payload.Render(), "second")
}

func TestBuild_MultiExampleKeepsOrder(t *testing.T) {
	b := NewBuilder()

	req := debateRequest(datatypes.StrategyMultiExample)
	req.Examples = []datatypes.Example{
		{Query: "alpha question", ExpectedOutput: `{"stance":"a","counterStance":"x","citations":[],"quiz":[]}`},
		{Query: "beta question", ExpectedOutput: `{"stance":"b","counterStance":"y","citations":[],"quiz":[]}`},
		{Query: "gamma question", ExpectedOutput: `{"stance":"c","counterStance":"z","citations":[],"quiz":[]}`},
	}

	payload, err := b.Build(req)
	require.NoError(t, err)

	assistants := blocksByRole(payload, datatypes.RoleAssistant)
	require.Len(t, assistants, 3)
	assert.Equal(t, "example 1 output", assistants[0].Name)
	assert.Equal(t, "example 2 output", assistants[1].Name)
	assert.Equal(t, "example 3 output", assistants[2].Name)
}

func TestBuild_NoExamplesAvailableDegradesGracefully(t *testing.T) {
	b := NewBuilder()

	for _, s := range []datatypes.Strategy{datatypes.StrategySingleExample, datatypes.StrategyMultiExample} {
		payload, err := b.Build(debateRequest(s))
		require.NoError(t, err)
		// No fabricated examples: zero assistant blocks.
		assert.Empty(t, blocksByRole(payload, datatypes.RoleAssistant))
	}
}

func TestBuild_EvidenceBlock(t *testing.T) {
	b := NewBuilder()

	req := debateRequest(datatypes.StrategyNoExample)
	req.Snippets = []datatypes.Snippet{
		{ID: "ev-1", Source: "Kesavananda Bharati (1973)", Text: "Amendment power does not extend to the basic structure."},
		{ID: "ev-2", Source: "Article 368", Text: "Procedure for amendment of the Constitution."},
	}

	payload, err := b.Build(req)
	require.NoError(t, err)

	rendered := payload.Render()
	assert.Contains(t, rendered, "[ev-1]")
	assert.Contains(t, rendered, "[ev-2]")
	assert.Contains(t, rendered, "Kesavananda Bharati (1973)")

	// Without snippets there is no evidence block at all.
	bare, err := b.Build(debateRequest(datatypes.StrategyNoExample))
	require.NoError(t, err)
	for _, blk := range bare.Blocks {
		assert.NotEqual(t, "evidence", blk.Name)
	}
}

func TestBuild_StructuredRoleBlocks(t *testing.T) {
	b := NewBuilder()

	req := debateRequest(datatypes.StrategyStructuredRole)
	req.Options.Specializations = []string{"academic", "made-up", "policy"}

	payload, err := b.Build(req)
	require.NoError(t, err)

	names := make([]string, len(payload.Blocks))
	for i, blk := range payload.Blocks {
		names[i] = blk.Name
	}
	assert.Equal(t, []string{"role", "task", "context", "constraints", "format"}, names)

	constraints := payload.Blocks[3].Text
	assert.Contains(t, constraints, "full case name")
	assert.Contains(t, constraints, "policy debates")
	// Unknown specializations are skipped, not rendered.
	assert.NotContains(t, constraints, "made-up")
}

func TestBuild_AdaptiveWordingTracksComplexity(t *testing.T) {
	b := NewBuilder()

	simpleReq := debateRequest(datatypes.StrategyComplexityAdaptive)
	simpleReq.Complexity = datatypes.Complexity{Level: datatypes.ComplexitySimple}
	simpleReq.Proficiency = datatypes.ProficiencyBeginner

	complexReq := debateRequest(datatypes.StrategyComplexityAdaptive)
	complexReq.Complexity = datatypes.Complexity{Level: datatypes.ComplexityComplex}
	complexReq.Proficiency = datatypes.ProficiencyAdvanced

	simplePayload, err := b.Build(simpleReq)
	require.NoError(t, err)
	complexPayload, err := b.Build(complexReq)
	require.NoError(t, err)

	assert.Contains(t, simplePayload.Render(), "Keep reasoning minimal")
	assert.Contains(t, complexPayload.Render(), "Reason exhaustively")
	assert.NotEqual(t, simplePayload.Render(), complexPayload.Render())

	// Adaptive never embeds stored examples.
	assert.Empty(t, blocksByRole(simplePayload, datatypes.RoleAssistant))
}

func blocksByRole(p datatypes.InstructionPayload, role datatypes.Role) []datatypes.Block {
	var out []datatypes.Block
	for _, blk := range p.Blocks {
		if blk.Role == role {
			out = append(out, blk)
		}
	}
	return out
}
