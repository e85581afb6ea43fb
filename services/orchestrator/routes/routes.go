// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sakxhamm/CivicsCoach-sub000/services/evidence"
	"github.com/sakxhamm/CivicsCoach-sub000/services/orchestrator/handlers"
	"github.com/sakxhamm/CivicsCoach-sub000/services/orchestrator/services"
	"github.com/sakxhamm/CivicsCoach-sub000/services/prompting"
)

// SetupRoutes registers every orchestrator endpoint.
//
// The ingester may be nil when the evidence backend does not accept
// documents; the documents endpoint then answers 503.
func SetupRoutes(router *gin.Engine, svc *services.DebateService,
	engine *prompting.Engine, ingester evidence.Ingester) {

	router.GET("/health", handlers.HealthCheck)
	router.GET("/status", handlers.HandleStatus(svc))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API version 1 group
	v1 := router.Group("/v1")
	{
		v1.POST("/debate", handlers.HandleDebate(svc))
		v1.POST("/preview", handlers.HandlePreview(svc))
		v1.GET("/debate/ws", handlers.HandleDebateWebSocket(svc))

		// Pipeline inspection routes
		pipeline := v1.Group("/pipeline")
		{
			pipeline.POST("/analyze", handlers.HandleAnalyze(engine))
			pipeline.POST("/params", handlers.HandleParams(engine))
			pipeline.POST("/validate", handlers.HandleValidate(engine))
		}

		// Example catalog routes
		examples := v1.Group("/examples")
		{
			examples.GET("", handlers.HandleListExamples(engine))
			examples.POST("", handlers.HandleAddExample(engine))
		}

		v1.POST("/documents", handlers.HandleIngestDocument(ingester))
	}
}
