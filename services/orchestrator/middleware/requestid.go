// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package middleware provides HTTP middleware for the orchestrator service.
//
// This package contains middleware for request identification and
// access logging. Every request is tagged with an ID before any
// handler runs, so logs, traces, and response bodies can be joined
// on a single value.
//
// # Request Flow
//
//	Request
//	   │
//	   ▼
//	RequestID
//	   │
//	   ├─► Reuse incoming X-Request-ID, or mint a UUID
//	   │
//	   └─► Store in context + echo on the response header
//	           │
//	           ▼
//	AccessLog
//	   │
//	   └─► One structured line per request on the way out
//	           │
//	           ▼
//	       Handler (retrieves via GetRequestID)
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// =============================================================================
// Context Keys
// =============================================================================

// RequestIDHeader is the header the ID is read from and echoed on.
const RequestIDHeader = "X-Request-ID"

// requestIDKey is the context key for storing the request ID.
// Using a typed key prevents collisions with other context values.
const requestIDKey = "civicscoach_request_id"

// =============================================================================
// Middleware
// =============================================================================

// RequestID tags every request with a unique ID.
//
// An incoming X-Request-ID is trusted and reused, so callers that
// retry can correlate attempts. Otherwise a fresh UUID is minted.
// The ID is stored in the Gin context and echoed on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}

		c.Set(requestIDKey, id)
		c.Writer.Header().Set(RequestIDHeader, id)

		c.Next()
	}
}

// =============================================================================
// Context Helpers
// =============================================================================

// GetRequestID retrieves the request ID from the Gin context.
// Returns an empty string if the RequestID middleware did not run.
func GetRequestID(c *gin.Context) string {
	if v, ok := c.Get(requestIDKey); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
