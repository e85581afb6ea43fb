// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// Tests for miscellaneous handlers

package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakxhamm/CivicsCoach-sub000/services/llm"
	"github.com/sakxhamm/CivicsCoach-sub000/services/orchestrator/services"
	"github.com/sakxhamm/CivicsCoach-sub000/services/prompting"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// =============================================================================
// Test Helpers
// =============================================================================

// newDebateStack builds a service on a mock backend with a fresh engine.
func newDebateStack(t *testing.T, backend llm.Client) (*services.DebateService, *prompting.Engine) {
	t.Helper()

	engine := prompting.New(prompting.Config{})
	if backend == nil {
		backend = llm.NewMockClient()
	}
	svc, err := services.NewDebateService(services.DebateConfig{
		Engine:      engine,
		Backend:     backend,
		BackendName: "mock",
	})
	require.NoError(t, err)
	return svc, engine
}

// postJSON performs a POST with a JSON body against the router.
func postJSON(router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

// decodeBody unmarshals a recorder's JSON body into out.
func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

// =============================================================================
// HealthCheck Tests
// =============================================================================

func TestHealthCheck_ReturnsOK(t *testing.T) {
	router := gin.New()
	router.GET("/health", HealthCheck)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]string
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, "ok", response["status"])
}

func TestHealthCheck_JSONContentType(t *testing.T) {
	router := gin.New()
	router.GET("/health", HealthCheck)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	router.ServeHTTP(w, req)

	contentType := w.Header().Get("Content-Type")
	assert.Contains(t, contentType, "application/json")
}

// =============================================================================
// Status Tests
// =============================================================================

func TestHandleStatus_ReportsBackend(t *testing.T) {
	svc, _ := newDebateStack(t, nil)
	router := gin.New()
	router.GET("/status", HandleStatus(svc))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/status", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]string
	decodeBody(t, w, &response)
	assert.Equal(t, "ok", response["status"])
	assert.Equal(t, "mock", response["backend"])
	assert.Equal(t, "civicscoach-orchestrator", response["service"])
}
