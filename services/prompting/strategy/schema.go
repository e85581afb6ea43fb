// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package strategy

import (
	"strings"

	"github.com/sakxhamm/CivicsCoach-sub000/services/prompting/datatypes"
)

// =============================================================================
// Output Schema Contracts
// =============================================================================
//
// One table declares the required output fields per task type. The payload
// composers render the contract text from it and the response validator
// reads the required-field set from it, so the two can never drift: a
// payload built for task T always names exactly the fields validation
// will demand for T.

// FieldSpec describes one required field of a task's output schema.
type FieldSpec struct {
	// Name is the exact JSON key the backend must emit.
	Name string

	// Type is the human-readable type shown in the contract text.
	Type string

	// Description tells the backend what belongs in the field.
	Description string

	// Nested lists the keys required in each element when the field is
	// an array of objects. Empty for scalar and string-array fields.
	Nested []string
}

// Schema is the structural output contract for one task type.
type Schema struct {
	Task   datatypes.TaskType
	Fields []FieldSpec
}

var schemas = map[datatypes.TaskType]Schema{
	datatypes.TaskDebate: {
		Task: datatypes.TaskDebate,
		Fields: []FieldSpec{
			{Name: "stance", Type: "string", Description: "the argued position, stated and defended"},
			{Name: "counterStance", Type: "string", Description: "the strongest opposing position, argued in good faith"},
			{Name: "citations", Type: "array of strings", Description: "constitutional articles, cases, or sources relied on"},
			{Name: "quiz", Type: "array of objects", Description: "comprehension questions about the debate",
				Nested: []string{"question", "answer"}},
		},
	},
	datatypes.TaskAnalysis: {
		Task: datatypes.TaskAnalysis,
		Fields: []FieldSpec{
			{Name: "thesis", Type: "string", Description: "the central claim of the analysis"},
			{Name: "keyPoints", Type: "array of strings", Description: "the main analytical points supporting the thesis"},
			{Name: "implications", Type: "array of strings", Description: "consequences that follow from the analysis"},
			{Name: "citations", Type: "array of strings", Description: "constitutional articles, cases, or sources relied on"},
		},
	},
	datatypes.TaskComparison: {
		Task: datatypes.TaskComparison,
		Fields: []FieldSpec{
			{Name: "similarities", Type: "array of strings", Description: "points the subjects share"},
			{Name: "differences", Type: "array of strings", Description: "points where the subjects diverge"},
			{Name: "verdict", Type: "string", Description: "the overall comparative judgment"},
			{Name: "citations", Type: "array of strings", Description: "constitutional articles, cases, or sources relied on"},
		},
	},
	datatypes.TaskExplanation: {
		Task: datatypes.TaskExplanation,
		Fields: []FieldSpec{
			{Name: "summary", Type: "string", Description: "the concept explained in two or three sentences"},
			{Name: "details", Type: "array of strings", Description: "the supporting details, one point each"},
			{Name: "analogy", Type: "string", Description: "an everyday analogy that makes the concept concrete"},
			{Name: "citations", Type: "array of strings", Description: "constitutional articles, cases, or sources relied on"},
		},
	},
	datatypes.TaskQuiz: {
		Task: datatypes.TaskQuiz,
		Fields: []FieldSpec{
			{Name: "questions", Type: "array of objects", Description: "the quiz questions with their answers",
				Nested: []string{"question", "answer"}},
		},
	},
}

// SchemaFor returns the output schema for a task type.
//
// Outputs:
//
//	Schema - The contract, by value.
//	error  - InputError with ErrCodeUnknownTaskType for unknown tasks.
func SchemaFor(task datatypes.TaskType) (Schema, error) {
	s, ok := schemas[task]
	if !ok {
		return Schema{}, datatypes.NewInputError(datatypes.ErrCodeUnknownTaskType,
			"no output schema for task type: "+string(task))
	}
	return s, nil
}

// RequiredFields returns the required top-level field names for a task.
// The response validator treats this list as the contract.
func RequiredFields(task datatypes.TaskType) ([]string, error) {
	s, err := SchemaFor(task)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names, nil
}

// NestedRequired returns the per-entry required keys for each array-of-
// objects field of a task. Nil for unknown tasks; the validator checks
// RequiredFields first.
func NestedRequired(task datatypes.TaskType) map[string][]string {
	s, ok := schemas[task]
	if !ok {
		return nil
	}
	nested := make(map[string][]string)
	for _, f := range s.Fields {
		if len(f.Nested) > 0 {
			nested[f.Name] = f.Nested
		}
	}
	return nested
}

// Contract renders the exact field contract text appended to every
// payload, whatever the strategy.
//
// Description:
//
//	Deterministic text naming every required field with its type and
//	cardinality, ending with the return-only-this-structure instruction.
//	Field order follows the schema declaration.
//
// Outputs:
//
//	string - The contract text.
//	error  - InputError for unknown task types.
func Contract(task datatypes.TaskType) (string, error) {
	s, err := SchemaFor(task)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("Respond with a single JSON object containing exactly these fields:\n")
	for _, f := range s.Fields {
		b.WriteString("- \"")
		b.WriteString(f.Name)
		b.WriteString("\" (")
		b.WriteString(f.Type)
		b.WriteString("): ")
		b.WriteString(f.Description)
		if len(f.Nested) > 0 {
			b.WriteString("; each object must contain ")
			for i, key := range f.Nested {
				if i > 0 {
					b.WriteString(" and ")
				}
				b.WriteString("\"")
				b.WriteString(key)
				b.WriteString("\"")
			}
		}
		b.WriteString("\n")
	}
	b.WriteString("Return only the JSON object. Do not add commentary, markdown fences, or any text outside it.")
	return b.String(), nil
}
