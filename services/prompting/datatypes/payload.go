// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package datatypes

import "strings"

// =============================================================================
// Strategy
// =============================================================================

// Strategy selects how the instruction payload is assembled. Strategies are
// interchangeable variants dispatched by the strategy builder; adding one
// means adding a constant here and a composer there.
type Strategy string

const (
	// StrategyNoExample sends only role text, evidence, constraints, and the
	// output contract. Relies on the backend's prior knowledge.
	StrategyNoExample Strategy = "no_example"

	// StrategySingleExample prepends exactly one worked example.
	StrategySingleExample Strategy = "single_example"

	// StrategyMultiExample prepends two or more worked examples at or below
	// the caller's proficiency.
	StrategyMultiExample Strategy = "multi_example"

	// StrategyComplexityAdaptive varies reasoning depth, output format, and
	// auxiliary instructions by complexity level and proficiency instead of
	// using stored examples.
	StrategyComplexityAdaptive Strategy = "complexity_adaptive"

	// StrategyStructuredRole assembles five named blocks: Role, Task,
	// Format, Context, Constraints.
	StrategyStructuredRole Strategy = "structured_role"
)

// validStrategies is the set of recognized strategies.
var validStrategies = map[Strategy]bool{
	StrategyNoExample:          true,
	StrategySingleExample:      true,
	StrategyMultiExample:       true,
	StrategyComplexityAdaptive: true,
	StrategyStructuredRole:     true,
}

// strategyAliases accepts the camelCase spellings used by older clients.
var strategyAliases = map[string]Strategy{
	"noexample":          StrategyNoExample,
	"singleexample":      StrategySingleExample,
	"multiexample":       StrategyMultiExample,
	"complexityadaptive": StrategyComplexityAdaptive,
	"structuredrole":     StrategyStructuredRole,
	"zero_shot":          StrategyNoExample,
	"one_shot":           StrategySingleExample,
	"few_shot":           StrategyMultiExample,
}

// IsValid returns true if the strategy is a recognized value.
func (s Strategy) IsValid() bool {
	return validStrategies[s]
}

// AllStrategies returns the recognized strategies in stable order.
func AllStrategies() []Strategy {
	return []Strategy{
		StrategyNoExample,
		StrategySingleExample,
		StrategyMultiExample,
		StrategyComplexityAdaptive,
		StrategyStructuredRole,
	}
}

// ParseStrategy normalizes a caller-supplied strategy string.
//
// Accepts the canonical snake_case names, their camelCase spellings, and
// the shot-count aliases (zero_shot, one_shot, few_shot). Unknown values
// return an InputError with code ErrCodeUnknownStrategy so the caller
// fails before any backend call.
func ParseStrategy(s string) (Strategy, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	if st := Strategy(normalized); st.IsValid() {
		return st, nil
	}
	if st, ok := strategyAliases[normalized]; ok {
		return st, nil
	}
	return "", NewInputError(ErrCodeUnknownStrategy, "unknown strategy: "+s)
}

// =============================================================================
// Instruction Payload
// =============================================================================

// Role tags a payload block for chat-style backends.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Block is one role-tagged segment of an instruction payload.
type Block struct {
	// Role is the chat role this block maps to.
	Role Role `json:"role"`

	// Name labels the block for inspection ("role", "task", "example 1").
	// It does not appear in the rendered prompt text.
	Name string `json:"name,omitempty"`

	// Text is the block content.
	Text string `json:"text"`
}

// InstructionPayload is the fully assembled prompt for one request.
//
// # Description
//
// An ordered sequence of role-tagged blocks plus the output schema
// contract for the task. The final block always restates the contract,
// so a payload for task T is guaranteed to name every field the response
// validator will require for T. Fully determined by its inputs: building
// twice with identical inputs yields byte-identical rendered text.
//
// # Fields
//
//   - TaskType: the task whose schema the payload carries.
//   - Strategy: how the payload was assembled.
//   - Blocks: ordered role-tagged segments.
//   - SchemaContract: the rendered field contract (also present in Blocks).
//   - StopMarker: non-empty when hidden reasoning was requested; the
//     caller must discard any output at or after this marker.
type InstructionPayload struct {
	TaskType       TaskType `json:"taskType"`
	Strategy       Strategy `json:"strategy"`
	Blocks         []Block  `json:"blocks"`
	SchemaContract string   `json:"schemaContract"`
	StopMarker     string   `json:"stopMarker,omitempty"`
}

// Render flattens the payload into role-tagged plain text for
// completion-style backends and previews.
//
// Output shape, stable across calls:
//
//	[SYSTEM]
//	...text...
//
//	[USER]
//	...text...
func (p InstructionPayload) Render() string {
	var b strings.Builder
	for i, blk := range p.Blocks {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString("[")
		b.WriteString(strings.ToUpper(string(blk.Role)))
		b.WriteString("]\n")
		b.WriteString(blk.Text)
	}
	return b.String()
}

// SystemText concatenates the system blocks in order. Chat backends that
// accept a single system message use this.
func (p InstructionPayload) SystemText() string {
	var parts []string
	for _, blk := range p.Blocks {
		if blk.Role == RoleSystem {
			parts = append(parts, blk.Text)
		}
	}
	return strings.Join(parts, "\n\n")
}
