// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command orchestrator starts the CivicsCoach orchestrator HTTP server.
//
// This is the main entry point for the containerized orchestrator
// service. It reads configuration from environment variables and
// starts the server.
//
// # Environment Variables
//
//   - ORCHESTRATOR_PORT: HTTP server port (default: 12310)
//   - LLM_BACKEND_TYPE: generation provider - ollama, openai, claude, mock (default: ollama)
//   - EVIDENCE_BACKEND: evidence store - memory, badger, weaviate (default: memory)
//   - WEAVIATE_SERVICE_URL: Weaviate URL when EVIDENCE_BACKEND=weaviate
//   - BADGER_PATH: BadgerDB directory when EVIDENCE_BACKEND=badger
//   - EXAMPLE_CATALOG_PATH: YAML example catalog to load and watch (optional)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OpenTelemetry collector (default: civicscoach-otel-collector:4317)
//   - INFLUXDB_URL, INFLUXDB_TOKEN, INFLUXDB_ORG, INFLUXDB_BUCKET: quality telemetry (optional)
//
// # Usage
//
//	# Build
//	go build -o orchestrator ./cmd/orchestrator
//
//	# Run
//	./orchestrator
//
//	# Or via container
//	podman-compose up orchestrator
package main

import (
	"log"
	"log/slog"
	"os"
	"strconv"

	"github.com/sakxhamm/CivicsCoach-sub000/pkg/logging"
	"github.com/sakxhamm/CivicsCoach-sub000/services/orchestrator"
)

func main() {
	// Setup structured logging
	logger := logging.New(logging.Config{Service: "orchestrator", JSON: true})
	defer logger.Close()
	slog.SetDefault(logger.Slog())

	// Build configuration from environment variables
	cfg := orchestrator.Config{
		Port:               getEnvInt("ORCHESTRATOR_PORT", 12310),
		LLMBackend:         getEnvString("LLM_BACKEND_TYPE", "ollama"),
		EvidenceBackend:    getEnvString("EVIDENCE_BACKEND", "memory"),
		WeaviateURL:        os.Getenv("WEAVIATE_SERVICE_URL"),
		BadgerPath:         os.Getenv("BADGER_PATH"),
		ExampleCatalogPath: os.Getenv("EXAMPLE_CATALOG_PATH"),
		OTelEndpoint:       getEnvString("OTEL_EXPORTER_OTLP_ENDPOINT", "civicscoach-otel-collector:4317"),
		InfluxURL:          os.Getenv("INFLUXDB_URL"),
		InfluxToken:        os.Getenv("INFLUXDB_TOKEN"),
		InfluxOrg:          os.Getenv("INFLUXDB_ORG"),
		InfluxBucket:       os.Getenv("INFLUXDB_BUCKET"),
	}

	slog.Info("Starting orchestrator",
		"port", cfg.Port,
		"llm_backend", cfg.LLMBackend,
		"evidence_backend", cfg.EvidenceBackend,
	)

	svc, err := orchestrator.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create orchestrator: %v", err)
	}

	// Run the server (blocks until shutdown)
	if err := svc.Run(); err != nil {
		log.Fatalf("Orchestrator error: %v", err)
	}
}

// getEnvString returns the environment variable value or a default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the environment variable as int or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
