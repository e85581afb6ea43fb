// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package handlers provides HTTP handlers for the orchestrator API.
//
// Handlers are thin: they bind and validate the request, delegate to
// a service or the prompting engine, and map the error taxonomy onto
// HTTP status codes. Every handler is a constructor returning a
// gin.HandlerFunc closed over its dependencies.
//
// # Error Mapping
//
//	InputError            400  rejected vocabulary or malformed input
//	ParseError            422  model output was not parseable JSON
//	SchemaError           422  model output missed required fields
//	BackendError (429)    429  backend refused on rate limits
//	BackendError          502  backend failed
//	DeadlineExceeded      504  pipeline timed out
//	Canceled              499  client went away
//	anything else         500
package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/sakxhamm/CivicsCoach-sub000/services/orchestrator/datatypes"
	"github.com/sakxhamm/CivicsCoach-sub000/services/orchestrator/middleware"
	"github.com/sakxhamm/CivicsCoach-sub000/services/orchestrator/observability"
	"github.com/sakxhamm/CivicsCoach-sub000/services/orchestrator/services"
	promptdata "github.com/sakxhamm/CivicsCoach-sub000/services/prompting/datatypes"
)

// debateHandlerTracer is the OpenTelemetry tracer for handler operations.
var debateHandlerTracer = otel.Tracer("civicscoach.orchestrator.handlers")

// statusClientClosedRequest is nginx's convention for "the client went
// away before we could answer". No stdlib constant exists for it.
const statusClientClosedRequest = 499

// classifyError maps a pipeline error to an HTTP status and metric code.
func classifyError(err error) (int, observability.ErrorCode) {
	switch {
	case promptdata.IsInputError(err):
		return http.StatusBadRequest, observability.ErrorCodeInput
	case promptdata.IsParseError(err):
		return http.StatusUnprocessableEntity, observability.ErrorCodeParse
	case promptdata.IsSchemaError(err):
		return http.StatusUnprocessableEntity, observability.ErrorCodeSchema
	case promptdata.IsRateLimited(err):
		return http.StatusTooManyRequests, observability.ErrorCodeRateLimited
	case promptdata.IsBackendError(err):
		return http.StatusBadGateway, observability.ErrorCodeBackend
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, observability.ErrorCodeTimeout
	case errors.Is(err, context.Canceled):
		return statusClientClosedRequest, observability.ErrorCodeTimeout
	default:
		return http.StatusInternalServerError, observability.ErrorCodeInternal
	}
}

// respondError writes the JSON error body and records the error metric.
func respondError(c *gin.Context, endpoint observability.Endpoint, err error) {
	status, code := classifyError(err)
	if m := observability.DefaultMetrics; m != nil {
		m.RecordError(endpoint, code)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// respondBindError handles request binding and validation failures.
func respondBindError(c *gin.Context, endpoint observability.Endpoint, err error) {
	if m := observability.DefaultMetrics; m != nil {
		m.RecordError(endpoint, observability.ErrorCodeValidation)
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// =============================================================================
// Debate Handler
// =============================================================================

// HandleDebate runs the full pipeline: analyze, optimize, retrieve,
// build, generate, validate.
func HandleDebate(svc *services.DebateService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := debateHandlerTracer.Start(c.Request.Context(), "HandleDebate")
		defer span.End()

		endpoint := observability.EndpointDebate
		if m := observability.DefaultMetrics; m != nil {
			m.RequestStarted(endpoint)
			defer m.RequestEnded(endpoint)
		}

		var req datatypes.DebateRequest
		if err := c.BindJSON(&req); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			slog.Error("Failed to parse the debate request", "error", err)
			respondBindError(c, endpoint, errors.New("invalid request body"))
			return
		}
		if err := req.Validate(); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "validation failed")
			respondBindError(c, endpoint, err)
			return
		}

		requestID := middleware.GetRequestID(c)
		span.SetAttributes(
			attribute.String("request.id", requestID),
			attribute.String("request.task", req.TaskType),
		)

		resp, err := svc.Debate(ctx, &req, requestID)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			slog.Error("Debate pipeline failed",
				"requestId", requestID,
				"task", req.TaskType,
				"error", err)
			if m := observability.DefaultMetrics; m != nil {
				m.RecordRequest(endpoint, false)
			}
			respondError(c, endpoint, err)
			return
		}

		if m := observability.DefaultMetrics; m != nil {
			m.RecordRequest(endpoint, true)
		}
		c.JSON(http.StatusOK, resp)
	}
}

// =============================================================================
// Preview Handler
// =============================================================================

// HandlePreview runs every pipeline stage except generation and
// returns the instruction payload that would have been sent.
func HandlePreview(svc *services.DebateService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := debateHandlerTracer.Start(c.Request.Context(), "HandlePreview")
		defer span.End()

		endpoint := observability.EndpointPreview

		var req datatypes.DebateRequest
		if err := c.BindJSON(&req); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			respondBindError(c, endpoint, errors.New("invalid request body"))
			return
		}
		if err := req.Validate(); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "validation failed")
			respondBindError(c, endpoint, err)
			return
		}

		resp, err := svc.Preview(ctx, &req)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			if m := observability.DefaultMetrics; m != nil {
				m.RecordRequest(endpoint, false)
			}
			respondError(c, endpoint, err)
			return
		}

		if m := observability.DefaultMetrics; m != nil {
			m.RecordRequest(endpoint, true)
		}
		c.JSON(http.StatusOK, resp)
	}
}
