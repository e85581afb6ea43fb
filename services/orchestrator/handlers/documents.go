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
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/sakxhamm/CivicsCoach-sub000/services/evidence"
	"github.com/sakxhamm/CivicsCoach-sub000/services/orchestrator/datatypes"
	"github.com/sakxhamm/CivicsCoach-sub000/services/orchestrator/observability"
)

// HandleIngestDocument chunks one document into the evidence store.
// The ingester splits the content and indexes each chunk under the
// document's citation.
func HandleIngestDocument(ingester evidence.Ingester) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := debateHandlerTracer.Start(c.Request.Context(), "HandleIngestDocument")
		defer span.End()

		endpoint := observability.EndpointDocuments

		if ingester == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "evidence store does not accept documents"})
			return
		}

		var req datatypes.IngestDocumentRequest
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

		doc := evidence.Document{
			Source:     req.Source,
			ArticleRef: req.ArticleRef,
			Content:    req.Content,
		}

		chunks, err := ingester.Ingest(ctx, doc)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			slog.Error("Document ingestion failed",
				"source", req.Source,
				"error", err)
			if m := observability.DefaultMetrics; m != nil {
				m.RecordError(endpoint, observability.ErrorCodeEvidence)
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		span.SetAttributes(
			attribute.String("document.source", req.Source),
			attribute.Int("document.chunks", chunks),
		)
		slog.Info("Document ingested",
			"source", req.Source,
			"chunks", chunks)

		if m := observability.DefaultMetrics; m != nil {
			m.RecordRequest(endpoint, true)
		}
		c.JSON(http.StatusCreated, datatypes.IngestDocumentResponse{
			Source: req.Source,
			Chunks: chunks,
		})
	}
}
