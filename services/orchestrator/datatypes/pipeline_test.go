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

import (
	"strings"
	"testing"
)

// =============================================================================
// AnalyzeRequest Validation Tests
// =============================================================================

func TestAnalyzeRequest_Validate_Success(t *testing.T) {
	req := &AnalyzeRequest{Query: "What does Article 21 guarantee?"}

	if err := req.Validate(); err != nil {
		t.Errorf("expected valid request, got error: %v", err)
	}
}

func TestAnalyzeRequest_Validate_MissingQuery(t *testing.T) {
	req := &AnalyzeRequest{}

	if err := req.Validate(); err == nil {
		t.Error("expected error for missing query, got nil")
	}
}

// =============================================================================
// ParamsRequest Validation Tests
// =============================================================================

func TestParamsRequest_Validate_Success(t *testing.T) {
	req := &ParamsRequest{
		Query:    "What does Article 21 guarantee?",
		TaskType: "explanation",
	}

	if err := req.Validate(); err != nil {
		t.Errorf("expected valid request, got error: %v", err)
	}
}

func TestParamsRequest_Validate_UnknownContext(t *testing.T) {
	req := &ParamsRequest{
		Query:    "What does Article 21 guarantee?",
		TaskType: "explanation",
		Context:  "astrology",
	}

	if err := req.Validate(); err == nil {
		t.Error("expected error for unknown context, got nil")
	}
}

// =============================================================================
// ValidateRequest Validation Tests
// =============================================================================

func TestValidateRequest_Validate_Success(t *testing.T) {
	req := &ValidateRequest{
		Output:   `{"stance": "x"}`,
		TaskType: "debate",
	}

	if err := req.Validate(); err != nil {
		t.Errorf("expected valid request, got error: %v", err)
	}
}

func TestValidateRequest_Validate_MissingOutput(t *testing.T) {
	req := &ValidateRequest{TaskType: "debate"}

	if err := req.Validate(); err == nil {
		t.Error("expected error for missing output, got nil")
	}
}

func TestValidateRequest_Validate_UnknownTaskType(t *testing.T) {
	req := &ValidateRequest{Output: "{}", TaskType: "sonnet"}

	if err := req.Validate(); err == nil {
		t.Error("expected error for unknown taskType, got nil")
	}
}

// =============================================================================
// AddExampleRequest Validation Tests
// =============================================================================

func TestAddExampleRequest_Validate_Success(t *testing.T) {
	req := &AddExampleRequest{
		TaskType:       "quiz",
		Proficiency:    "beginner",
		Query:          "What is a writ?",
		ExpectedOutput: `{"questions": []}`,
	}

	if err := req.Validate(); err != nil {
		t.Errorf("expected valid request, got error: %v", err)
	}
}

func TestAddExampleRequest_Validate_MissingProficiency(t *testing.T) {
	req := &AddExampleRequest{
		TaskType:       "quiz",
		Query:          "What is a writ?",
		ExpectedOutput: `{"questions": []}`,
	}

	if err := req.Validate(); err == nil {
		t.Error("expected error for missing proficiency, got nil")
	}
}

func TestAddExampleRequest_Example(t *testing.T) {
	req := &AddExampleRequest{
		TaskType:       "quiz",
		Proficiency:    "beginner",
		Query:          "What is a writ?",
		ExpectedOutput: `{"questions": []}`,
	}

	ex := req.Example()
	if ex.Query != req.Query {
		t.Errorf("example query = %q, want %q", ex.Query, req.Query)
	}
	if ex.ExpectedOutput != req.ExpectedOutput {
		t.Errorf("example expectedOutput = %q, want %q", ex.ExpectedOutput, req.ExpectedOutput)
	}
}

// =============================================================================
// IngestDocumentRequest Validation Tests
// =============================================================================

func TestIngestDocumentRequest_Validate_Success(t *testing.T) {
	req := &IngestDocumentRequest{
		Source:     "Constitution of India",
		ArticleRef: "Article 368",
		Content:    "Parliament may in exercise of its constituent power amend this Constitution.",
	}

	if err := req.Validate(); err != nil {
		t.Errorf("expected valid request, got error: %v", err)
	}
}

func TestIngestDocumentRequest_Validate_MissingSource(t *testing.T) {
	req := &IngestDocumentRequest{Content: "some text"}

	if err := req.Validate(); err == nil {
		t.Error("expected error for missing source, got nil")
	}
}

func TestIngestDocumentRequest_Validate_OversizedContent(t *testing.T) {
	req := &IngestDocumentRequest{
		Source:  "Constitution of India",
		Content: strings.Repeat("a", MaxDocumentBytes+1),
	}

	if err := req.Validate(); err == nil {
		t.Error("expected error for oversized content, got nil")
	}
}
