// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package strategy assembles instruction payloads for the generation
// backend.
//
// Five interchangeable strategies share one dispatch point: the builder
// switches on the strategy variant and runs the matching composer, so a
// new strategy is one new constant and one new composer, not a parallel
// class hierarchy. Whatever the strategy, the payload's final block
// restates the task's output schema contract, which the same package
// declares and the response validator consumes.
package strategy

import (
	"strconv"
	"strings"

	"github.com/sakxhamm/CivicsCoach-sub000/services/prompting/datatypes"
)

// StopMarker terminates the answer when hidden reasoning is requested.
// The backend is told to write it after the JSON object; the caller must
// discard the marker and everything after it before validation, treating
// marker enforcement as a local guarantee rather than a backend promise.
const StopMarker = "===END_OF_ANSWER==="

// Options carries caller intent beyond the strategy choice.
type Options struct {
	// HiddenReasoning asks the backend to keep scratch work behind the
	// stop marker. Sets InstructionPayload.StopMarker.
	HiddenReasoning bool

	// Specializations are optional structured-role add-on clauses
	// ("academic", "beginner", "policy"). Unknown names are skipped.
	Specializations []string

	// ExampleCount is the number of worked examples requested for the
	// multi-example strategy. Zero means the default.
	ExampleCount int
}

// BuildRequest is everything a payload is determined by.
//
// Examples are supplied by the caller (the engine fetches them from the
// example store), so building is a pure function of the request: two
// identical requests yield byte-identical rendered payloads.
type BuildRequest struct {
	Strategy    datatypes.Strategy
	Query       string
	Proficiency datatypes.Proficiency
	TaskType    datatypes.TaskType
	Context     datatypes.Context
	Complexity  datatypes.Complexity
	Snippets    []datatypes.Snippet
	Examples    []datatypes.Example
	Options     Options
}

// Builder composes instruction payloads.
//
// Thread Safety: safe for concurrent use. Templates and wording tables
// are package state parsed at init and never mutated.
type Builder struct{}

// NewBuilder creates a payload builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Build assembles the instruction payload for a request.
//
// Description:
//
//	Validates the task type, strategy, and query first: an unknown task
//	or strategy is an InputError reported before any backend call is
//	attempted. Then dispatches to the strategy's composer and finishes
//	with the schema contract block, extended with the stop-marker
//	instruction when hidden reasoning was requested.
//
// Inputs:
//
//	req - The build request. Strategy and TaskType must be known values;
//	Query must be non-empty.
//
// Outputs:
//
//	datatypes.InstructionPayload - Ordered role-tagged blocks ending in
//	the contract block.
//	error - InputError on unknown task type, unknown strategy, or empty
//	query.
//
// Thread Safety: safe for concurrent use.
func (b *Builder) Build(req BuildRequest) (datatypes.InstructionPayload, error) {
	if !req.TaskType.IsValid() {
		return datatypes.InstructionPayload{}, datatypes.NewInputError(
			datatypes.ErrCodeUnknownTaskType, "unknown task type: "+string(req.TaskType))
	}
	if !req.Strategy.IsValid() {
		return datatypes.InstructionPayload{}, datatypes.NewInputError(
			datatypes.ErrCodeUnknownStrategy, "unknown strategy: "+string(req.Strategy))
	}
	if strings.TrimSpace(req.Query) == "" {
		return datatypes.InstructionPayload{}, datatypes.NewInputError(
			datatypes.ErrCodeEmptyQuery, "query must not be empty")
	}

	contract, err := Contract(req.TaskType)
	if err != nil {
		return datatypes.InstructionPayload{}, err
	}

	stopMarker := ""
	finalText := contract
	if req.Options.HiddenReasoning {
		stopMarker = StopMarker
		finalText = contract +
			"\nAfter the JSON object, write the line " + StopMarker +
			" and stop. Anything at or after that line is treated as private scratch work and discarded unread; never place answer content there."
	}

	var blocks []datatypes.Block
	switch req.Strategy {
	case datatypes.StrategyNoExample:
		blocks = b.composeNoExample(req, finalText)
	case datatypes.StrategySingleExample:
		blocks = b.composeSingleExample(req, finalText)
	case datatypes.StrategyMultiExample:
		blocks = b.composeMultiExample(req, finalText)
	case datatypes.StrategyComplexityAdaptive:
		blocks = b.composeComplexityAdaptive(req, finalText)
	case datatypes.StrategyStructuredRole:
		blocks = b.composeStructuredRole(req, finalText)
	}

	return datatypes.InstructionPayload{
		TaskType:       req.TaskType,
		Strategy:       req.Strategy,
		Blocks:         blocks,
		SchemaContract: contract,
		StopMarker:     stopMarker,
	}, nil
}

// =============================================================================
// Composers
// =============================================================================

// composeNoExample relies entirely on the backend's prior knowledge:
// role text, the task directive, constraints, evidence, query, contract.
func (b *Builder) composeNoExample(req BuildRequest, finalText string) []datatypes.Block {
	blocks := []datatypes.Block{
		{Role: datatypes.RoleSystem, Name: "role", Text: renderRole(req.Context, req.Proficiency)},
		{Role: datatypes.RoleSystem, Name: "task", Text: taskDirectives[req.TaskType]},
		{Role: datatypes.RoleSystem, Name: "constraints", Text: constraintsText},
	}
	blocks = appendEvidence(blocks, req.Snippets)
	blocks = append(blocks,
		datatypes.Block{Role: datatypes.RoleUser, Name: "query", Text: req.Query},
		datatypes.Block{Role: datatypes.RoleUser, Name: "output contract", Text: finalText},
	)
	return blocks
}

// composeSingleExample inserts exactly one worked example, rendered as a
// user/assistant turn pair, before the real request. If the caller could
// not supply an example the payload degrades to the no-example shape
// rather than fabricating one.
func (b *Builder) composeSingleExample(req BuildRequest, finalText string) []datatypes.Block {
	examples := req.Examples
	if len(examples) > 1 {
		examples = examples[:1]
	}
	return b.composeWithExamples(req, examples, finalText)
}

// composeMultiExample inserts every supplied example in order. The engine
// selects them at or below the caller's proficiency and never pads.
func (b *Builder) composeMultiExample(req BuildRequest, finalText string) []datatypes.Block {
	return b.composeWithExamples(req, req.Examples, finalText)
}

func (b *Builder) composeWithExamples(req BuildRequest, examples []datatypes.Example, finalText string) []datatypes.Block {
	blocks := []datatypes.Block{
		{Role: datatypes.RoleSystem, Name: "role", Text: renderRole(req.Context, req.Proficiency)},
		{Role: datatypes.RoleSystem, Name: "task", Text: taskDirectives[req.TaskType]},
		{Role: datatypes.RoleSystem, Name: "constraints", Text: constraintsText},
	}

	for i, ex := range examples {
		n := strconv.Itoa(i + 1)
		blocks = append(blocks,
			datatypes.Block{Role: datatypes.RoleUser, Name: "example " + n + " query", Text: ex.Query},
			datatypes.Block{Role: datatypes.RoleAssistant, Name: "example " + n + " output", Text: ex.ExpectedOutput},
		)
	}

	blocks = appendEvidence(blocks, req.Snippets)
	blocks = append(blocks,
		datatypes.Block{Role: datatypes.RoleUser, Name: "query", Text: req.Query},
		datatypes.Block{Role: datatypes.RoleUser, Name: "output contract", Text: finalText},
	)
	return blocks
}

// composeComplexityAdaptive uses no stored examples; it tunes reasoning
// depth, output format, and auxiliary instructions to the complexity
// level and proficiency instead.
func (b *Builder) composeComplexityAdaptive(req BuildRequest, finalText string) []datatypes.Block {
	guidance := strings.Join([]string{
		reasoningDepthFor(req.Complexity.Level),
		outputFormatFor(req.Complexity.Level),
		auxiliaryGuidanceFor(req.Proficiency),
	}, "\n")

	blocks := []datatypes.Block{
		{Role: datatypes.RoleSystem, Name: "role", Text: renderRole(req.Context, req.Proficiency)},
		{Role: datatypes.RoleSystem, Name: "task", Text: taskDirectives[req.TaskType]},
		{Role: datatypes.RoleSystem, Name: "guidance", Text: guidance},
		{Role: datatypes.RoleSystem, Name: "constraints", Text: constraintsText},
	}
	blocks = appendEvidence(blocks, req.Snippets)
	blocks = append(blocks,
		datatypes.Block{Role: datatypes.RoleUser, Name: "query", Text: req.Query},
		datatypes.Block{Role: datatypes.RoleUser, Name: "output contract", Text: finalText},
	)
	return blocks
}

// composeStructuredRole assembles the five named blocks. Format carries
// the contract and comes last, so the ends-with-contract rule holds here
// the same as everywhere else.
func (b *Builder) composeStructuredRole(req BuildRequest, finalText string) []datatypes.Block {
	contextText := "Audience: " + audienceFor(req.Context) + "\nReader level: " + proficiencyNoteFor(req.Proficiency)
	if ev := renderEvidence(req.Snippets); ev != "" {
		contextText += "\n\n" + ev
	}

	constraints := constraintsText
	for _, name := range req.Options.Specializations {
		if clause, ok := specializationClauses[strings.ToLower(strings.TrimSpace(name))]; ok {
			constraints += "\n- " + clause
		}
	}

	taskText := taskDirectives[req.TaskType] + "\n\nRequest: " + req.Query

	return []datatypes.Block{
		{Role: datatypes.RoleSystem, Name: "role", Text: renderRole(req.Context, req.Proficiency) + "\nCapabilities: structured argument, source-grounded citation, audience-calibrated explanation."},
		{Role: datatypes.RoleUser, Name: "task", Text: taskText},
		{Role: datatypes.RoleSystem, Name: "context", Text: contextText},
		{Role: datatypes.RoleSystem, Name: "constraints", Text: constraints},
		{Role: datatypes.RoleUser, Name: "format", Text: finalText},
	}
}

// appendEvidence adds the evidence block when there are snippets.
func appendEvidence(blocks []datatypes.Block, snippets []datatypes.Snippet) []datatypes.Block {
	if ev := renderEvidence(snippets); ev != "" {
		blocks = append(blocks, datatypes.Block{Role: datatypes.RoleSystem, Name: "evidence", Text: ev})
	}
	return blocks
}
