// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// This file contains handlers for the example catalog. The catalog is
// in-memory; additions live until the process restarts or the catalog
// file is reloaded.

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

// HandleListExamples reports the catalog's bucket sizes. Empty buckets
// are omitted.
func HandleListExamples(engine *prompting.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, span := debateHandlerTracer.Start(c.Request.Context(), "HandleListExamples")
		defer span.End()

		endpoint := observability.EndpointExamples
		store := engine.Examples()

		resp := datatypes.ListExamplesResponse{Buckets: []datatypes.ExampleBucket{}}
		for _, task := range promptdata.AllTaskTypes() {
			for _, proficiency := range promptdata.AllProficiencies() {
				n := store.Count(task, proficiency)
				if n == 0 {
					continue
				}
				resp.Buckets = append(resp.Buckets, datatypes.ExampleBucket{
					TaskType:    string(task),
					Proficiency: string(proficiency),
					Count:       n,
				})
				resp.Total += n
			}
		}

		span.SetAttributes(attribute.Int("examples.total", resp.Total))
		if m := observability.DefaultMetrics; m != nil {
			m.RecordRequest(endpoint, true)
		}
		c.JSON(http.StatusOK, resp)
	}
}

// HandleAddExample adds one example to its (task, proficiency) bucket.
func HandleAddExample(engine *prompting.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, span := debateHandlerTracer.Start(c.Request.Context(), "HandleAddExample")
		defer span.End()

		endpoint := observability.EndpointExamples

		var req datatypes.AddExampleRequest
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
		proficiency, _ := promptdata.ParseProficiency(req.Proficiency)

		store := engine.Examples()
		if err := store.Add(task, proficiency, req.Example()); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			respondError(c, endpoint, err)
			return
		}

		span.SetAttributes(
			attribute.String("examples.task", string(task)),
			attribute.String("examples.proficiency", string(proficiency)),
		)

		if m := observability.DefaultMetrics; m != nil {
			m.RecordRequest(endpoint, true)
		}
		c.JSON(http.StatusCreated, datatypes.AddExampleResponse{
			TaskType:    string(task),
			Proficiency: string(proficiency),
			Count:       store.Count(task, proficiency),
		})
	}
}
