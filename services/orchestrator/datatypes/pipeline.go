// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// This file contains request and response types for the pipeline
// inspection endpoints: complexity analysis, parameter optimization,
// payload preview, and output validation. These expose individual
// pipeline stages without calling a generation backend.

package datatypes

import (
	prompting "github.com/sakxhamm/CivicsCoach-sub000/services/prompting/datatypes"
)

// =============================================================================
// Complexity Analysis
// =============================================================================

// AnalyzeRequest is the body of POST /api/v1/analyze.
type AnalyzeRequest struct {
	Query string `json:"query" validate:"required,maxquerybytes"`
}

// Validate checks field constraints.
func (r *AnalyzeRequest) Validate() error {
	return apiValidate.Struct(r)
}

// AnalyzeResponse reports the analyzer's assessment of a query.
type AnalyzeResponse struct {
	Complexity prompting.Complexity `json:"complexity"`
}

// =============================================================================
// Parameter Optimization
// =============================================================================

// ParamsRequest is the body of POST /api/v1/params. The query is
// analyzed server-side, then the profile is derived from the result.
type ParamsRequest struct {
	Query       string               `json:"query" validate:"required,maxquerybytes"`
	TaskType    string               `json:"taskType" validate:"required,tasktype"`
	Context     string               `json:"context" validate:"omitempty,promptcontext"`
	Proficiency string               `json:"proficiency" validate:"omitempty,proficiency"`
	Overrides   *prompting.Overrides `json:"overrides,omitempty"`
}

// Validate checks field constraints and enum vocabulary.
func (r *ParamsRequest) Validate() error {
	return apiValidate.Struct(r)
}

// Resolved converts the enum fields to typed values with the same
// defaulting as DebateRequest. Validate must have passed.
func (r *ParamsRequest) Resolved() (prompting.Context, prompting.TaskType, prompting.Proficiency) {
	promptContext := prompting.ContextConstitutionalEducation
	proficiency := prompting.ProficiencyIntermediate
	task, _ := prompting.ParseTaskType(r.TaskType)
	if r.Context != "" {
		promptContext, _ = prompting.ParseContext(r.Context)
	}
	if r.Proficiency != "" {
		proficiency, _ = prompting.ParseProficiency(r.Proficiency)
	}
	return promptContext, task, proficiency
}

// ParamsResponse carries the derived profile plus the complexity it
// was derived from, so callers can see why a value was chosen.
type ParamsResponse struct {
	Complexity prompting.Complexity       `json:"complexity"`
	Profile    prompting.ParameterProfile `json:"profile"`
}

// =============================================================================
// Payload Preview
// =============================================================================

// PreviewResponse is the body returned by POST /api/v1/preview. The
// request body is a DebateRequest; preview runs every pipeline stage
// except generation and returns the instruction payload that would
// have been sent.
type PreviewResponse struct {
	Complexity prompting.Complexity       `json:"complexity"`
	Profile    prompting.ParameterProfile `json:"profile"`
	Strategy   string                     `json:"strategy"`

	// Blocks are the ordered payload blocks, role-tagged.
	Blocks []prompting.Block `json:"blocks"`

	// Rendered is the payload flattened to a single prompt string.
	Rendered string `json:"rendered"`

	// StopMarker is the sentinel the model is told to emit.
	StopMarker string `json:"stopMarker"`
}

// =============================================================================
// Output Validation
// =============================================================================

// ValidateRequest is the body of POST /api/v1/validate. Output is the
// raw model text to check against the named task's schema.
type ValidateRequest struct {
	Output   string `json:"output" validate:"required"`
	TaskType string `json:"taskType" validate:"required,tasktype"`
}

// Validate checks field constraints and enum vocabulary.
func (r *ValidateRequest) Validate() error {
	return apiValidate.Struct(r)
}

// ValidateResponse reports the validator's verdict on the output.
type ValidateResponse struct {
	IsValid  bool           `json:"isValid"`
	Errors   []string       `json:"errors,omitempty"`
	Warnings []string       `json:"warnings,omitempty"`
	Result   map[string]any `json:"result,omitempty"`
}
