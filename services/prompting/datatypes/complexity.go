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
// Complexity
// =============================================================================

// ComplexityLevel buckets a query's complexity score.
type ComplexityLevel string

const (
	ComplexitySimple   ComplexityLevel = "simple"
	ComplexityModerate ComplexityLevel = "moderate"
	ComplexityComplex  ComplexityLevel = "complex"
)

// validComplexityLevels is the set of recognized levels.
var validComplexityLevels = map[ComplexityLevel]bool{
	ComplexitySimple:   true,
	ComplexityModerate: true,
	ComplexityComplex:  true,
}

// IsValid returns true if the level is a recognized value.
func (l ComplexityLevel) IsValid() bool {
	return validComplexityLevels[l]
}

// ParseComplexityLevel normalizes a level string. "medium" is accepted as
// an alias for "moderate" since both spellings appear in stored payloads.
func ParseComplexityLevel(s string) (ComplexityLevel, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	if normalized == "medium" {
		return ComplexityModerate, nil
	}
	l := ComplexityLevel(normalized)
	if !l.IsValid() {
		return "", NewInputError(ErrCodeUnknownComplexity, "unknown complexity level: "+s)
	}
	return l, nil
}

// Complexity is the derived report for one query.
//
// # Description
//
// Computed once per request by the complexity analyzer and then shared by
// the parameter optimizer and the strategy builder, so both see the same
// value. Never mutated after construction.
//
// # Fields
//
//   - Level: simple, moderate, or complex (bucketed from Score).
//   - Score: the raw additive score behind Level.
//   - Factors: human-readable reasons that contributed to the score.
//   - HasCreativeElements: creative-intent flag, independent of Score.
type Complexity struct {
	Level               ComplexityLevel `json:"level"`
	Score               int             `json:"score"`
	Factors             []string        `json:"factors"`
	HasCreativeElements bool            `json:"hasCreativeElements"`
}
