// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakxhamm/CivicsCoach-sub000/services/llm"
	"github.com/sakxhamm/CivicsCoach-sub000/services/orchestrator/datatypes"
	"github.com/sakxhamm/CivicsCoach-sub000/services/orchestrator/middleware"
	promptdata "github.com/sakxhamm/CivicsCoach-sub000/services/prompting/datatypes"
)

func debateBody() map[string]any {
	return map[string]any{
		"query":    "Is the basic structure doctrine a legitimate limit on amendment power?",
		"taskType": "debate",
	}
}

// =============================================================================
// HandleDebate Tests
// =============================================================================

func TestHandleDebate_Success(t *testing.T) {
	svc, _ := newDebateStack(t, nil)
	router := gin.New()
	router.Use(middleware.RequestID())
	router.POST("/debate", HandleDebate(svc))

	w := postJSON(router, "/debate", debateBody())
	assert.Equal(t, http.StatusOK, w.Code)

	var resp datatypes.DebateResponse
	decodeBody(t, w, &resp)
	assert.NotEmpty(t, resp.RequestID)
	assert.NotEmpty(t, resp.Result)
	assert.Equal(t, "mock", resp.Metadata.Backend)
	assert.Equal(t, 1, resp.Metadata.Attempts)
}

func TestHandleDebate_InvalidBody(t *testing.T) {
	svc, _ := newDebateStack(t, nil)
	router := gin.New()
	router.POST("/debate", HandleDebate(svc))

	w := postJSON(router, "/debate", "not an object")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid request body")
}

func TestHandleDebate_MissingTask(t *testing.T) {
	svc, _ := newDebateStack(t, nil)
	router := gin.New()
	router.POST("/debate", HandleDebate(svc))

	body := debateBody()
	delete(body, "taskType")

	w := postJSON(router, "/debate", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleDebate_UnknownTaskRejected(t *testing.T) {
	svc, _ := newDebateStack(t, nil)
	router := gin.New()
	router.POST("/debate", HandleDebate(svc))

	body := debateBody()
	body["taskType"] = "karaoke"

	w := postJSON(router, "/debate", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleDebate_ParseErrorMapsTo422(t *testing.T) {
	backend := llm.NewMockClient("this is not a JSON object")
	svc, _ := newDebateStack(t, backend)
	router := gin.New()
	router.POST("/debate", HandleDebate(svc))

	w := postJSON(router, "/debate", debateBody())
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestHandleDebate_SchemaErrorMapsTo422(t *testing.T) {
	backend := llm.NewMockClient(`{"stance": "alone and incomplete"}`)
	svc, _ := newDebateStack(t, backend)
	router := gin.New()
	router.POST("/debate", HandleDebate(svc))

	w := postJSON(router, "/debate", debateBody())
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestHandleDebate_RateLimitMapsTo429(t *testing.T) {
	rateLimited := &promptdata.BackendError{Err: errors.New("429 too many requests"), RateLimited: true}
	backend := &llm.MockClient{Script: []llm.MockResponse{{Err: rateLimited}}}
	svc, _ := newDebateStack(t, backend)
	router := gin.New()
	router.POST("/debate", HandleDebate(svc))

	w := postJSON(router, "/debate", debateBody())
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestHandleDebate_BackendFailureMapsTo502(t *testing.T) {
	backend := &llm.MockClient{Script: []llm.MockResponse{{Err: errors.New("connection refused")}}}
	svc, _ := newDebateStack(t, backend)
	router := gin.New()
	router.POST("/debate", HandleDebate(svc))

	w := postJSON(router, "/debate", debateBody())
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestHandleDebate_EchoesRequestID(t *testing.T) {
	svc, _ := newDebateStack(t, nil)
	router := gin.New()
	router.Use(middleware.RequestID())
	router.POST("/debate", HandleDebate(svc))

	payload, _ := json.Marshal(debateBody())
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/debate", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.RequestIDHeader, "req-fixed-77")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp datatypes.DebateResponse
	decodeBody(t, w, &resp)
	assert.Equal(t, "req-fixed-77", resp.RequestID)
}

// =============================================================================
// HandlePreview Tests
// =============================================================================

func TestHandlePreview_Success(t *testing.T) {
	backend := llm.NewMockClient()
	svc, _ := newDebateStack(t, backend)
	router := gin.New()
	router.POST("/preview", HandlePreview(svc))

	w := postJSON(router, "/preview", debateBody())
	assert.Equal(t, http.StatusOK, w.Code)

	var resp datatypes.PreviewResponse
	decodeBody(t, w, &resp)
	assert.NotEmpty(t, resp.Strategy)
	assert.NotEmpty(t, resp.Blocks)
	assert.NotEmpty(t, resp.Rendered)

	// Preview never touches the generation backend.
	assert.Equal(t, 0, backend.CallCount())
}

func TestHandlePreview_InvalidBody(t *testing.T) {
	svc, _ := newDebateStack(t, nil)
	router := gin.New()
	router.POST("/preview", HandlePreview(svc))

	w := postJSON(router, "/preview", []string{"wrong shape"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
