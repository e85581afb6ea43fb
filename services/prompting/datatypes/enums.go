// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package datatypes defines the shared value types for the adaptive
// prompting subsystem: the caller-supplied enums (proficiency, task type,
// context), the derived complexity report, the tuned parameter profile,
// the assembled instruction payload, and the error taxonomy.
//
// Everything in this package is a plain value type with no I/O. The
// components that operate on these types live in the sibling packages
// (complexity, optimizer, examplestore, strategy, validate).
package datatypes

import "strings"

// =============================================================================
// Proficiency
// =============================================================================

// Proficiency is the caller-declared familiarity of the end user with the
// subject matter. It shifts example selection and parameter nudging.
type Proficiency string

const (
	ProficiencyBeginner     Proficiency = "beginner"
	ProficiencyIntermediate Proficiency = "intermediate"
	ProficiencyAdvanced     Proficiency = "advanced"
)

// validProficiencies is the set of recognized proficiency levels.
var validProficiencies = map[Proficiency]bool{
	ProficiencyBeginner:     true,
	ProficiencyIntermediate: true,
	ProficiencyAdvanced:     true,
}

// IsValid returns true if the proficiency is a recognized value.
func (p Proficiency) IsValid() bool {
	return validProficiencies[p]
}

// AllProficiencies returns the recognized proficiencies in stable order.
func AllProficiencies() []Proficiency {
	return []Proficiency{ProficiencyBeginner, ProficiencyIntermediate, ProficiencyAdvanced}
}

// ParseProficiency normalizes a caller-supplied proficiency string.
//
// Description:
//
//	Trims whitespace and lowercases before matching, so "Beginner" and
//	" beginner " both resolve. Unknown values return an InputError with
//	code ErrCodeUnknownProficiency.
//
// Inputs:
//
//	s - Raw proficiency string from a request or flag.
//
// Outputs:
//
//	Proficiency - The canonical value on success.
//	error - *InputError for unrecognized input.
func ParseProficiency(s string) (Proficiency, error) {
	p := Proficiency(strings.ToLower(strings.TrimSpace(s)))
	if !p.IsValid() {
		return "", NewInputError(ErrCodeUnknownProficiency, "unknown proficiency: "+s)
	}
	return p, nil
}

// =============================================================================
// TaskType
// =============================================================================

// TaskType identifies what kind of structured output the caller wants.
// It determines both the prompt wording and the output schema the
// response validator enforces.
type TaskType string

const (
	TaskDebate      TaskType = "debate"
	TaskAnalysis    TaskType = "analysis"
	TaskComparison  TaskType = "comparison"
	TaskExplanation TaskType = "explanation"
	TaskQuiz        TaskType = "quiz"
)

// validTaskTypes is the set of recognized task types.
var validTaskTypes = map[TaskType]bool{
	TaskDebate:      true,
	TaskAnalysis:    true,
	TaskComparison:  true,
	TaskExplanation: true,
	TaskQuiz:        true,
}

// IsValid returns true if the task type is a recognized value.
func (t TaskType) IsValid() bool {
	return validTaskTypes[t]
}

// AllTaskTypes returns the recognized task types in stable order.
func AllTaskTypes() []TaskType {
	return []TaskType{TaskDebate, TaskAnalysis, TaskComparison, TaskExplanation, TaskQuiz}
}

// ParseTaskType normalizes a caller-supplied task type string.
//
// Unknown values return an InputError with code ErrCodeUnknownTaskType;
// the strategy builder relies on this to fail before any backend call.
func ParseTaskType(s string) (TaskType, error) {
	t := TaskType(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", NewInputError(ErrCodeUnknownTaskType, "unknown task type: "+s)
	}
	return t, nil
}

// =============================================================================
// Context
// =============================================================================

// Context selects the parameter preset family for a request. It describes
// the setting the answer will be used in, not the Go context.Context.
type Context string

const (
	ContextConstitutionalEducation Context = "constitutionalEducation"
	ContextAcademicResearch        Context = "academicResearch"
	ContextPublicPolicy            Context = "publicPolicy"
	ContextGeneralPublic           Context = "generalPublic"
	ContextCreativeTasks           Context = "creativeTasks"
)

// validContexts is the set of recognized contexts.
var validContexts = map[Context]bool{
	ContextConstitutionalEducation: true,
	ContextAcademicResearch:        true,
	ContextPublicPolicy:            true,
	ContextGeneralPublic:           true,
	ContextCreativeTasks:           true,
}

// contextAliases maps lowercase spellings to canonical values. The canonical
// strings are camelCase on the wire, so a plain ToLower lookup needs this.
var contextAliases = map[string]Context{
	"constitutionaleducation": ContextConstitutionalEducation,
	"academicresearch":        ContextAcademicResearch,
	"publicpolicy":            ContextPublicPolicy,
	"generalpublic":           ContextGeneralPublic,
	"creativetasks":           ContextCreativeTasks,
}

// IsValid returns true if the context is a recognized value.
func (c Context) IsValid() bool {
	return validContexts[c]
}

// AllContexts returns the recognized contexts in stable order.
func AllContexts() []Context {
	return []Context{
		ContextConstitutionalEducation,
		ContextAcademicResearch,
		ContextPublicPolicy,
		ContextGeneralPublic,
		ContextCreativeTasks,
	}
}

// ParseContext normalizes a caller-supplied context string.
//
// Matching is case-insensitive against the canonical camelCase names.
// Unknown values return an InputError with code ErrCodeUnknownContext.
// The parameter optimizer itself never calls this: it treats unknown
// contexts as the default preset instead of failing.
func ParseContext(s string) (Context, error) {
	c, ok := contextAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", NewInputError(ErrCodeUnknownContext, "unknown context: "+s)
	}
	return c, nil
}
