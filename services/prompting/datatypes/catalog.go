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

// Example is one curated worked example: a query paired with the output
// shape the backend should imitate. Examples live in the example store,
// grouped by (TaskType, Proficiency).
type Example struct {
	// Query is the example question.
	Query string `json:"query" yaml:"query"`

	// ExpectedOutput is the full expected response, typically the JSON
	// structure for the task rendered as a string.
	ExpectedOutput string `json:"expectedOutput" yaml:"expectedOutput"`
}

// Snippet is one retrieved evidence chunk. Owned by the evidence store;
// read-only to the prompting subsystem.
type Snippet struct {
	// ID uniquely identifies the chunk within its store.
	ID string `json:"id"`

	// Source names where the chunk came from (article, document, URL).
	Source string `json:"source"`

	// Text is the chunk content included as grounding context.
	Text string `json:"text"`
}

// ValidationResult is the outcome of checking backend output against a
// task's structural contract.
type ValidationResult struct {
	// IsValid is true when parsing succeeded and no required field is missing.
	IsValid bool `json:"isValid"`

	// Errors lists what failed. Missing required fields are named here.
	Errors []string `json:"errors"`

	// Warnings lists non-fatal findings, such as unexpected extra fields.
	Warnings []string `json:"warnings,omitempty"`

	// NormalizedOutput is the parsed object on success, nil otherwise.
	NormalizedOutput map[string]any `json:"normalizedOutput"`
}
