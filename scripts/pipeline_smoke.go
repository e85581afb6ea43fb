// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

//go:build ignore

// Smoke script to exercise the full debate pipeline on the mock backend.
// Run with: go run scripts/pipeline_smoke.go
package main

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/sakxhamm/CivicsCoach-sub000/services/evidence"
	"github.com/sakxhamm/CivicsCoach-sub000/services/llm"
	orchdata "github.com/sakxhamm/CivicsCoach-sub000/services/orchestrator/datatypes"
	"github.com/sakxhamm/CivicsCoach-sub000/services/orchestrator/services"
	"github.com/sakxhamm/CivicsCoach-sub000/services/prompting"
	"github.com/sakxhamm/CivicsCoach-sub000/services/prompting/datatypes"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	fmt.Println("╔══════════════════════════════════════════════════════════════════╗")
	fmt.Println("║              DEBATE PIPELINE SMOKE TEST                           ║")
	fmt.Println("╚══════════════════════════════════════════════════════════════════╝")

	query := "Should the basic structure doctrine limit Parliament's power to amend the Constitution?"

	// 1. Build the prompting engine (seed catalog, analyzer, optimizer)
	fmt.Println("\n┌─────────────────────────────────────────────────────────────────┐")
	fmt.Println("│ Step 1: Building the prompting engine                           │")
	fmt.Println("└─────────────────────────────────────────────────────────────────┘")
	engine := prompting.New(prompting.Config{})
	fmt.Printf("  ✓ Engine ready, seeded task types: %d\n", len(engine.Examples().TaskTypes()))

	// 2. Analyze the query
	fmt.Println("\n┌─────────────────────────────────────────────────────────────────┐")
	fmt.Println("│ Step 2: Analyzing query complexity                              │")
	fmt.Println("└─────────────────────────────────────────────────────────────────┘")
	cx := engine.AnalyzeComplexity(query)
	fmt.Printf("  ✓ Complexity: %s (score %d)\n", cx.Level, cx.Score)
	for _, factor := range cx.Factors {
		fmt.Printf("    - %s\n", factor)
	}

	// 3. Optimize generation parameters
	fmt.Println("\n┌─────────────────────────────────────────────────────────────────┐")
	fmt.Println("│ Step 3: Optimizing generation parameters                        │")
	fmt.Println("└─────────────────────────────────────────────────────────────────┘")
	profile := engine.OptimizeParameters(
		datatypes.ContextConstitutionalEducation,
		datatypes.TaskDebate,
		cx,
		datatypes.ProficiencyIntermediate,
		nil,
	)
	fmt.Printf("  ✓ Profile: temperature %.2f, top_p %.2f, evidence pool %d\n",
		profile.Temperature, profile.NucleusThreshold, profile.EvidencePoolSize)

	// 4. Stand up an in-memory evidence store with a few snippets
	fmt.Println("\n┌─────────────────────────────────────────────────────────────────┐")
	fmt.Println("│ Step 4: Seeding the in-memory evidence store                    │")
	fmt.Println("└─────────────────────────────────────────────────────────────────┘")
	store := evidence.NewMemoryStore()
	docs := []evidence.Document{
		{
			Source:     "kesavananda_summary.txt",
			ArticleRef: "Article 368",
			Content: "In Kesavananda Bharati v. State of Kerala the Supreme Court held " +
				"that Parliament may amend the Constitution under Article 368 but cannot " +
				"alter its basic structure. The 13-judge bench split seven to six.",
		},
		{
			Source:     "minerva_mills.txt",
			ArticleRef: "Article 368",
			Content: "Minerva Mills v. Union of India struck down clauses of the 42nd " +
				"Amendment, holding that limited amending power is itself a basic feature.",
		},
	}
	chunks, err := evidence.IngestAll(ctx, store, docs, evidence.DefaultIngestConcurrency)
	if err != nil {
		log.Fatalf("Evidence ingestion failed: %v", err)
	}
	fmt.Printf("  ✓ Ingested %d documents as %d chunks\n", len(docs), chunks)

	// 5. Assemble the debate service on the mock backend
	fmt.Println("\n┌─────────────────────────────────────────────────────────────────┐")
	fmt.Println("│ Step 5: Assembling the debate service (mock backend)            │")
	fmt.Println("└─────────────────────────────────────────────────────────────────┘")
	svc, err := services.NewDebateService(services.DebateConfig{
		Engine:      engine,
		Backend:     llm.NewMockClient(),
		BackendName: "mock",
		Evidence:    store,
	})
	if err != nil {
		log.Fatalf("Service assembly failed: %v", err)
	}
	fmt.Println("  ✓ Service ready")

	// 6. Preview the payload that would be sent
	fmt.Println("\n┌─────────────────────────────────────────────────────────────────┐")
	fmt.Println("│ Step 6: Previewing the instruction payload                      │")
	fmt.Println("└─────────────────────────────────────────────────────────────────┘")
	req := &orchdata.DebateRequest{
		Query:    query,
		TaskType: "debate",
	}
	preview, err := svc.Preview(ctx, req)
	if err != nil {
		log.Fatalf("Preview failed: %v", err)
	}
	fmt.Printf("  ✓ Strategy %s produced %d blocks, %d rendered bytes\n",
		preview.Strategy, len(preview.Blocks), len(preview.Rendered))

	// 7. Run the full debate
	fmt.Println("\n┌─────────────────────────────────────────────────────────────────┐")
	fmt.Println("│ Step 7: Running the debate                                      │")
	fmt.Println("└─────────────────────────────────────────────────────────────────┘")
	resp, err := svc.Debate(ctx, req, "pipeline-smoke-1")
	if err != nil {
		log.Fatalf("Debate failed: %v", err)
	}
	keys := make([]string, 0, len(resp.Result))
	for k := range resp.Result {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fmt.Printf("  ✓ Validated result with fields: %s\n", strings.Join(keys, ", "))
	fmt.Printf("  ✓ Backend %s answered in %dms after %d attempt(s), %d evidence snippets\n",
		resp.Metadata.Backend, resp.Metadata.GenerationMS,
		resp.Metadata.Attempts, resp.Metadata.EvidenceCount)
	for _, warning := range resp.Warnings {
		fmt.Printf("  ! %s\n", warning)
	}

	fmt.Println("\n╔══════════════════════════════════════════════════════════════════╗")
	fmt.Println("║              PIPELINE SMOKE TEST COMPLETE                         ║")
	fmt.Println("╚══════════════════════════════════════════════════════════════════╝")
}
