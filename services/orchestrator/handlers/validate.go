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
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/sakxhamm/CivicsCoach-sub000/services/orchestrator/datatypes"
	"github.com/sakxhamm/CivicsCoach-sub000/services/orchestrator/observability"
	"github.com/sakxhamm/CivicsCoach-sub000/services/prompting"
	promptdata "github.com/sakxhamm/CivicsCoach-sub000/services/prompting/datatypes"
)

// HandleValidate checks model output against a task's schema contract.
//
// Invalid output is a verdict, not a failure: parse and schema
// problems come back 200 with isValid false and the error list. Only
// a bad request body produces an error status.
func HandleValidate(engine *prompting.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, span := debateHandlerTracer.Start(c.Request.Context(), "HandleValidate")
		defer span.End()

		endpoint := observability.EndpointValidate

		var req datatypes.ValidateRequest
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

		task, _ := promptdata.ParseTaskType(req.TaskType)
		result, err := engine.ValidateResponse(req.Output, task)
		if err != nil && promptdata.IsInputError(err) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			respondError(c, endpoint, err)
			return
		}

		span.SetAttributes(
			attribute.String("validate.task", req.TaskType),
			attribute.Bool("validate.is_valid", result.IsValid),
		)

		if m := observability.DefaultMetrics; m != nil {
			m.RecordRequest(endpoint, true)
			if !result.IsValid {
				reason := "parse"
				if promptdata.IsSchemaError(err) {
					reason = "schema"
				}
				m.RecordValidationFailure(req.TaskType, reason)
			}
		}
		c.JSON(http.StatusOK, datatypes.ValidateResponse{
			IsValid:  result.IsValid,
			Errors:   result.Errors,
			Warnings: result.Warnings,
			Result:   result.NormalizedOutput,
		})
	}
}
