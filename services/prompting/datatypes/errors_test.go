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
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorKinds_AreDistinct(t *testing.T) {
	inputErr := NewInputError(ErrCodeUnknownTaskType, "unknown task type: essay")
	parseErr := NewParseError("no JSON object found", "Sure! Here is my answer...")
	schemaErr := &SchemaError{TaskType: TaskDebate, MissingFields: []string{"stance"}}
	backendErr := &BackendError{Err: errors.New("connection refused")}

	assert.True(t, IsInputError(inputErr))
	assert.False(t, IsParseError(inputErr))
	assert.False(t, IsSchemaError(inputErr))
	assert.False(t, IsBackendError(inputErr))

	assert.True(t, IsParseError(parseErr))
	assert.False(t, IsSchemaError(parseErr))

	assert.True(t, IsSchemaError(schemaErr))
	assert.False(t, IsParseError(schemaErr))

	assert.True(t, IsBackendError(backendErr))
	assert.False(t, IsRateLimited(backendErr))
}

func TestErrorKinds_SurviveWrapping(t *testing.T) {
	schemaErr := &SchemaError{TaskType: TaskQuiz, MissingFields: []string{"quiz"}}
	wrapped := fmt.Errorf("validating response: %w", schemaErr)

	assert.True(t, IsSchemaError(wrapped))

	var target *SchemaError
	require.ErrorAs(t, wrapped, &target)
	assert.Equal(t, TaskQuiz, target.TaskType)
	assert.Equal(t, []string{"quiz"}, target.MissingFields)
}

func TestSchemaError_NamesMissingFields(t *testing.T) {
	err := &SchemaError{
		TaskType:      TaskDebate,
		MissingFields: []string{"counterStance", "citations"},
	}
	assert.Contains(t, err.Error(), "counterStance")
	assert.Contains(t, err.Error(), "citations")
	assert.Contains(t, err.Error(), "debate")
}

func TestBackendError_RateLimited(t *testing.T) {
	rateLimited := &BackendError{Err: errors.New("429 too many requests"), RateLimited: true}
	plain := &BackendError{Err: errors.New("502 bad gateway")}

	assert.True(t, IsRateLimited(rateLimited))
	assert.True(t, IsRateLimited(fmt.Errorf("calling backend: %w", rateLimited)))
	assert.False(t, IsRateLimited(plain))

	// Unwrap exposes the original backend failure.
	assert.True(t, errors.Is(rateLimited, rateLimited.Err))
}

func TestNewParseError_TrimsExcerpt(t *testing.T) {
	long := make([]byte, 500)
	for i := range long {
		long[i] = 'x'
	}
	err := NewParseError("unbalanced braces", string(long))
	assert.LessOrEqual(t, len(err.Excerpt), 84)
	assert.Contains(t, err.Error(), "unbalanced braces")
}
