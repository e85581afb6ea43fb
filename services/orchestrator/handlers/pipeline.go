// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// This file contains handlers that expose individual pipeline stages
// for inspection. They call the prompting engine directly and never
// touch a generation backend.

package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/sakxhamm/CivicsCoach-sub000/services/orchestrator/datatypes"
	"github.com/sakxhamm/CivicsCoach-sub000/services/orchestrator/observability"
	"github.com/sakxhamm/CivicsCoach-sub000/services/prompting"
)

// HandleAnalyze scores a query's complexity without running the rest
// of the pipeline.
func HandleAnalyze(engine *prompting.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, span := debateHandlerTracer.Start(c.Request.Context(), "HandleAnalyze")
		defer span.End()

		endpoint := observability.EndpointAnalyze

		var req datatypes.AnalyzeRequest
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

		cx := engine.AnalyzeComplexity(req.Query)
		span.SetAttributes(
			attribute.String("complexity.level", string(cx.Level)),
			attribute.Float64("complexity.score", cx.Score),
		)

		if m := observability.DefaultMetrics; m != nil {
			m.RecordRequest(endpoint, true)
		}
		c.JSON(http.StatusOK, datatypes.AnalyzeResponse{Complexity: cx})
	}
}

// HandleParams derives a generation parameter profile for a query.
// The query is analyzed server-side first, so the response carries
// both the complexity report and the profile derived from it.
func HandleParams(engine *prompting.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, span := debateHandlerTracer.Start(c.Request.Context(), "HandleParams")
		defer span.End()

		endpoint := observability.EndpointParams

		var req datatypes.ParamsRequest
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

		promptContext, task, proficiency := req.Resolved()
		cx := engine.AnalyzeComplexity(req.Query)
		profile := engine.OptimizeParameters(promptContext, task, cx, proficiency, req.Overrides)

		span.SetAttributes(
			attribute.String("params.task", string(task)),
			attribute.Float64("params.temperature", profile.Temperature),
		)

		if m := observability.DefaultMetrics; m != nil {
			m.RecordRequest(endpoint, true)
		}
		c.JSON(http.StatusOK, datatypes.ParamsResponse{
			Complexity: cx,
			Profile:    profile,
		})
	}
}
