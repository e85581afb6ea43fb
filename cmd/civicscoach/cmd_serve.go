// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/sakxhamm/CivicsCoach-sub000/cmd/civicscoach/config"
	"github.com/sakxhamm/CivicsCoach-sub000/pkg/logging"
	"github.com/sakxhamm/CivicsCoach-sub000/services/orchestrator"
	"github.com/spf13/cobra"
)

// runServe starts the orchestrator HTTP server inside the CLI process.
// Flags win over the config file; fields left empty pick up the service
// defaults inside orchestrator.New.
func runServe(cmd *cobra.Command, args []string) {
	logger := logging.New(logging.Config{
		Service: "cli",
		LogDir:  "~/.civicscoach/logs",
	})
	defer logger.Close()
	slog.SetDefault(logger.Slog())

	backend := backendType
	if backend == "" {
		backend = config.Global.Backend.GetType()
	}
	// The Ollama client reads its connection settings from the
	// environment. Bridge the config values in when the variables are
	// not already set, as newBackendClient does for local commands.
	if backend == "ollama" {
		if os.Getenv("OLLAMA_HOST") == "" {
			os.Setenv("OLLAMA_HOST", config.Global.Backend.GetBaseURL())
		}
		if os.Getenv("CIVICS_MODEL") == "" {
			os.Setenv("CIVICS_MODEL", config.Global.Backend.GetModel())
		}
	}

	badgerPath := evidenceDir
	if badgerPath == "" {
		badgerPath = config.Global.Corpus.GetLocalDir()
	}
	catalog := catalogPath
	if catalog == "" {
		catalog = config.Global.Catalog.Path
	}

	cfg := orchestrator.Config{
		Port:               servePort,
		LLMBackend:         backend,
		EvidenceBackend:    serveEvidence,
		WeaviateURL:        serveWeaviateURL,
		BadgerPath:         badgerPath,
		ExampleCatalogPath: catalog,
		// Tracing and quality telemetry have no config-file section.
		// The containerized deployment sets these variables, so serve
		// honors the same ones.
		OTelEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		InfluxURL:    os.Getenv("INFLUXDB_URL"),
		InfluxToken:  os.Getenv("INFLUXDB_TOKEN"),
		InfluxOrg:    os.Getenv("INFLUXDB_ORG"),
		InfluxBucket: os.Getenv("INFLUXDB_BUCKET"),
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
	if err := svc.Run(); err != nil {
		log.Fatalf("Orchestrator error: %v", err)
	}
}
