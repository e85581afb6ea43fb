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
	"errors"
	"strings"
)

// =============================================================================
// Error Taxonomy
// =============================================================================
//
// Four kinds, matching how callers must react:
//
//   - InputError: bad request vocabulary (unknown task type, strategy,
//     context). Fail fast, no backend call is attempted.
//   - ParseError: backend output is not well-formed structured data.
//   - SchemaError: output parsed but required fields are missing.
//   - BackendError: opaque passthrough from the generation backend. Not
//     interpreted here beyond the rate-limited flag; retry policy belongs
//     to the caller.
//
// Invalid output is never coerced into a best-guess valid object.

// Common input error codes.
const (
	ErrCodeUnknownTaskType    = "PROMPT_UNKNOWN_TASK_TYPE"
	ErrCodeUnknownStrategy    = "PROMPT_UNKNOWN_STRATEGY"
	ErrCodeUnknownContext     = "PROMPT_UNKNOWN_CONTEXT"
	ErrCodeUnknownProficiency = "PROMPT_UNKNOWN_PROFICIENCY"
	ErrCodeUnknownComplexity  = "PROMPT_UNKNOWN_COMPLEXITY"
	ErrCodeEmptyQuery         = "PROMPT_EMPTY_QUERY"
	ErrCodeBadExampleCount    = "PROMPT_BAD_EXAMPLE_COUNT"
)

// InputError reports invalid request vocabulary. Always recoverable by the
// caller: correct the input and resubmit.
type InputError struct {
	// Code is a machine-readable error code.
	Code string `json:"code"`

	// Message is a human-readable error message.
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *InputError) Error() string {
	return e.Code + ": " + e.Message
}

// NewInputError creates a new InputError.
func NewInputError(code, message string) *InputError {
	return &InputError{Code: code, Message: message}
}

// ParseError reports backend output that is not well-formed structured data.
type ParseError struct {
	// Message describes the parse failure.
	Message string `json:"message"`

	// Excerpt holds the leading portion of the offending output for logs.
	Excerpt string `json:"excerpt,omitempty"`
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Excerpt == "" {
		return "parse error: " + e.Message
	}
	return "parse error: " + e.Message + " (output begins: " + e.Excerpt + ")"
}

// NewParseError creates a ParseError, trimming the excerpt to a loggable size.
func NewParseError(message, raw string) *ParseError {
	excerpt := strings.TrimSpace(raw)
	if len(excerpt) > 80 {
		excerpt = excerpt[:80] + "..."
	}
	return &ParseError{Message: message, Excerpt: excerpt}
}

// SchemaError reports well-formed output that is missing required fields.
// Always recoverable: the caller may retry generation or surface the
// field list to the end user.
type SchemaError struct {
	// TaskType is the task whose contract was violated.
	TaskType TaskType `json:"taskType"`

	// MissingFields names every required field absent from the output.
	MissingFields []string `json:"missingFields"`
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	return "schema error: " + string(e.TaskType) + " output missing required fields: " +
		strings.Join(e.MissingFields, ", ")
}

// BackendError wraps a failure from the generation backend. The subsystem
// only propagates it; interpreting or retrying is the caller's concern.
type BackendError struct {
	// Err is the underlying backend failure.
	Err error `json:"-"`

	// RateLimited is true when the backend rejected the call for rate
	// limiting, the one distinction callers need for retry decisions.
	RateLimited bool `json:"rateLimited"`
}

// Error implements the error interface.
func (e *BackendError) Error() string {
	if e.RateLimited {
		return "backend error (rate limited): " + e.Err.Error()
	}
	return "backend error: " + e.Err.Error()
}

// Unwrap exposes the underlying error for errors.Is/As chains.
func (e *BackendError) Unwrap() error {
	return e.Err
}

// =============================================================================
// Helpers
// =============================================================================

// IsInputError returns true if err is (or wraps) an InputError.
func IsInputError(err error) bool {
	var target *InputError
	return errors.As(err, &target)
}

// IsParseError returns true if err is (or wraps) a ParseError.
func IsParseError(err error) bool {
	var target *ParseError
	return errors.As(err, &target)
}

// IsSchemaError returns true if err is (or wraps) a SchemaError.
func IsSchemaError(err error) bool {
	var target *SchemaError
	return errors.As(err, &target)
}

// IsBackendError returns true if err is (or wraps) a BackendError.
func IsBackendError(err error) bool {
	var target *BackendError
	return errors.As(err, &target)
}

// IsRateLimited returns true if err is a BackendError flagged rate limited.
func IsRateLimited(err error) bool {
	var target *BackendError
	return errors.As(err, &target) && target.RateLimited
}
