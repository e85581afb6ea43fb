// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package datatypes provides request and response types for the
// CivicsCoach orchestrator API.
//
// This file contains the debate endpoint types. Enum-valued fields are
// validated with registered custom validators so a bad vocabulary value
// is rejected at the binding layer, before any pipeline work.
package datatypes

import (
	"github.com/go-playground/validator/v10"

	prompting "github.com/sakxhamm/CivicsCoach-sub000/services/prompting/datatypes"
)

// MaxQueryBytes is the maximum size of a query string. Queries are
// single questions, not documents.
const MaxQueryBytes = 8 * 1024 // 8KB

// apiValidate is the validator instance for API datatypes.
// Initialized in init() with the enum validators.
var apiValidate *validator.Validate

func init() {
	apiValidate = validator.New()

	_ = apiValidate.RegisterValidation("tasktype", validateTaskType)
	_ = apiValidate.RegisterValidation("proficiency", validateProficiency)
	_ = apiValidate.RegisterValidation("promptcontext", validateContext)
	_ = apiValidate.RegisterValidation("strategy", validateStrategy)
	_ = apiValidate.RegisterValidation("maxquerybytes", validateMaxQueryBytes)
	_ = apiValidate.RegisterValidation("maxdocbytes", validateMaxDocumentBytes)
}

func validateTaskType(fl validator.FieldLevel) bool {
	_, err := prompting.ParseTaskType(fl.Field().String())
	return err == nil
}

func validateProficiency(fl validator.FieldLevel) bool {
	_, err := prompting.ParseProficiency(fl.Field().String())
	return err == nil
}

func validateContext(fl validator.FieldLevel) bool {
	_, err := prompting.ParseContext(fl.Field().String())
	return err == nil
}

func validateStrategy(fl validator.FieldLevel) bool {
	_, err := prompting.ParseStrategy(fl.Field().String())
	return err == nil
}

// validateMaxQueryBytes checks byte length, not rune count, so large
// multi-byte payloads cannot slip past a character limit.
func validateMaxQueryBytes(fl validator.FieldLevel) bool {
	return len(fl.Field().String()) <= MaxQueryBytes
}

func validateMaxDocumentBytes(fl validator.FieldLevel) bool {
	return len(fl.Field().String()) <= MaxDocumentBytes
}

// =============================================================================
// Debate Request
// =============================================================================

// DebateRequest is the body of POST /api/v1/debate.
//
// Only Query and TaskType are required. Context defaults to
// constitutionalEducation, Proficiency to intermediate, and Strategy
// to complexity_adaptive when omitted.
type DebateRequest struct {
	Query           string               `json:"query" validate:"required,maxquerybytes"`
	TaskType        string               `json:"taskType" validate:"required,tasktype"`
	Context         string               `json:"context" validate:"omitempty,promptcontext"`
	Proficiency     string               `json:"proficiency" validate:"omitempty,proficiency"`
	Strategy        string               `json:"strategy" validate:"omitempty,strategy"`
	HiddenReasoning bool                 `json:"hiddenReasoning"`
	ExampleCount    int                  `json:"exampleCount" validate:"gte=0,lte=10"`
	Overrides       *prompting.Overrides `json:"overrides,omitempty"`
}

// Validate checks field constraints and enum vocabulary.
func (r *DebateRequest) Validate() error {
	return apiValidate.Struct(r)
}

// Resolved converts the string fields to their typed values, applying
// the documented defaults for omitted ones. Validate must have passed.
func (r *DebateRequest) Resolved() ResolvedDebate {
	resolved := ResolvedDebate{
		Query:           r.Query,
		Context:         prompting.ContextConstitutionalEducation,
		Proficiency:     prompting.ProficiencyIntermediate,
		Strategy:        prompting.StrategyComplexityAdaptive,
		HiddenReasoning: r.HiddenReasoning,
		ExampleCount:    r.ExampleCount,
		Overrides:       r.Overrides,
	}
	resolved.TaskType, _ = prompting.ParseTaskType(r.TaskType)
	if r.Context != "" {
		resolved.Context, _ = prompting.ParseContext(r.Context)
	}
	if r.Proficiency != "" {
		resolved.Proficiency, _ = prompting.ParseProficiency(r.Proficiency)
	}
	if r.Strategy != "" {
		resolved.Strategy, _ = prompting.ParseStrategy(r.Strategy)
	}
	return resolved
}

// ResolvedDebate is a DebateRequest after enum parsing and defaulting.
type ResolvedDebate struct {
	Query           string
	TaskType        prompting.TaskType
	Context         prompting.Context
	Proficiency     prompting.Proficiency
	Strategy        prompting.Strategy
	HiddenReasoning bool
	ExampleCount    int
	Overrides       *prompting.Overrides
}

// =============================================================================
// Debate Response
// =============================================================================

// DebateMetadata describes how a debate result was produced.
type DebateMetadata struct {
	// Complexity is the analyzer's report for the query.
	Complexity prompting.Complexity `json:"complexity"`

	// Profile holds the generation parameters that were used.
	Profile prompting.ParameterProfile `json:"profile"`

	// Strategy is the payload strategy that was applied.
	Strategy string `json:"strategy"`

	// EvidenceCount is the number of snippets retrieved for grounding.
	EvidenceCount int `json:"evidenceCount"`

	// GenerationMS is the backend call duration in milliseconds,
	// summed over attempts.
	GenerationMS int64 `json:"generationMs"`

	// Attempts is the number of backend calls made (>1 after retries).
	Attempts int `json:"attempts"`

	// Backend names the generation backend that served the request.
	Backend string `json:"backend"`
}

// DebateResponse is the body returned by POST /api/v1/debate.
type DebateResponse struct {
	// RequestID identifies this request in logs and traces.
	RequestID string `json:"requestId"`

	// Result is the validated, schema-conforming output object.
	Result map[string]any `json:"result"`

	// Warnings carries non-fatal validation findings (extra fields).
	Warnings []string `json:"warnings,omitempty"`

	Metadata DebateMetadata `json:"metadata"`
}
