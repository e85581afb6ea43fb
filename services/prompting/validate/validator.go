// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package validate checks backend output against per-task structural
// contracts.
//
// Validation is structural only: it confirms the output parses and
// carries the required fields for the task, never whether the content is
// factually right. A parse failure and a schema mismatch are distinct
// error kinds so callers can tell "the model ignored the format" from
// "the model dropped a field". Invalid output is never coerced into a
// best-guess valid object.
package validate

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/sakxhamm/CivicsCoach-sub000/services/prompting/datatypes"
	"github.com/sakxhamm/CivicsCoach-sub000/services/prompting/strategy"
)

// Validator enforces output schema contracts.
//
// Thread Safety: stateless; safe for concurrent use.
type Validator struct{}

// NewValidator creates a validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate checks raw backend output against a task's contract.
//
// Description:
//
//	Extracts the first JSON object from the raw text, parses it, and
//	compares its field set against the task's required fields from the
//	strategy package's schema table. Missing required fields fail
//	validation and are named in Errors; unexpected extra fields are
//	Warnings only. Array-of-objects fields are checked one level deep
//	(each debate quiz entry needs its question and answer).
//
// Inputs:
//
//	raw  - Raw backend output. May include fences, preamble, postamble.
//	task - Task type whose contract applies. Must be a known value.
//
// Outputs:
//
//	datatypes.ValidationResult - IsValid with Errors, Warnings, and the
//	parsed object as NormalizedOutput on success.
//	error - InputError for an unknown task, ParseError when no valid
//	JSON could be extracted, SchemaError when required fields are
//	missing. Nil exactly when IsValid is true.
//
// Thread Safety: safe for concurrent use.
func (v *Validator) Validate(raw string, task datatypes.TaskType) (datatypes.ValidationResult, error) {
	required, err := strategy.RequiredFields(task)
	if err != nil {
		return datatypes.ValidationResult{}, err
	}

	data, err := ExtractJSON(raw)
	if err != nil {
		perr := datatypes.NewParseError("output is not structured JSON: "+err.Error(), raw)
		return datatypes.ValidationResult{
			IsValid: false,
			Errors:  []string{perr.Error()},
		}, perr
	}

	var parsed map[string]any
	if err := json.Unmarshal(data, &parsed); err != nil {
		perr := datatypes.NewParseError("output failed to parse: "+err.Error(), raw)
		return datatypes.ValidationResult{
			IsValid: false,
			Errors:  []string{perr.Error()},
		}, perr
	}

	var missing []string
	for _, field := range required {
		if _, ok := parsed[field]; !ok {
			missing = append(missing, field)
		}
	}

	var errs []string
	errs = append(errs, nestedErrors(parsed, task)...)

	warnings := extraFieldWarnings(parsed, required)

	if len(missing) > 0 {
		serr := &datatypes.SchemaError{TaskType: task, MissingFields: missing}
		for _, f := range missing {
			errs = append(errs, fmt.Sprintf("missing required field %q", f))
		}
		return datatypes.ValidationResult{
			IsValid:  false,
			Errors:   errs,
			Warnings: warnings,
		}, serr
	}
	if len(errs) > 0 {
		serr := &datatypes.SchemaError{TaskType: task, MissingFields: nil}
		return datatypes.ValidationResult{
			IsValid:  false,
			Errors:   errs,
			Warnings: warnings,
		}, serr
	}

	return datatypes.ValidationResult{
		IsValid:          true,
		Warnings:         warnings,
		NormalizedOutput: parsed,
	}, nil
}

// nestedErrors checks array-of-objects fields one level deep.
func nestedErrors(parsed map[string]any, task datatypes.TaskType) []string {
	var errs []string
	nested := strategy.NestedRequired(task)

	// Deterministic order over the nested-field map.
	fields := make([]string, 0, len(nested))
	for f := range nested {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	for _, field := range fields {
		value, ok := parsed[field]
		if !ok {
			continue // reported as a missing top-level field
		}
		entries, ok := value.([]any)
		if !ok {
			errs = append(errs, fmt.Sprintf("field %q must be an array of objects", field))
			continue
		}
		for i, entry := range entries {
			obj, ok := entry.(map[string]any)
			if !ok {
				errs = append(errs, fmt.Sprintf("%s[%d] must be an object", field, i))
				continue
			}
			for _, key := range nested[field] {
				if _, ok := obj[key]; !ok {
					errs = append(errs, fmt.Sprintf("%s[%d] missing required field %q", field, i, key))
				}
			}
		}
	}
	return errs
}

// extraFieldWarnings names unexpected top-level fields, sorted.
func extraFieldWarnings(parsed map[string]any, required []string) []string {
	requiredSet := make(map[string]bool, len(required))
	for _, f := range required {
		requiredSet[f] = true
	}

	var extras []string
	for field := range parsed {
		if !requiredSet[field] {
			extras = append(extras, field)
		}
	}
	sort.Strings(extras)

	warnings := make([]string, 0, len(extras))
	for _, f := range extras {
		warnings = append(warnings, fmt.Sprintf("unexpected field %q", f))
	}
	if len(warnings) == 0 {
		return nil
	}
	return warnings
}
