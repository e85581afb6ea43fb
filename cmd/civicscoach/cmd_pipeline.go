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
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sakxhamm/CivicsCoach-sub000/pkg/ux"
	"github.com/sakxhamm/CivicsCoach-sub000/services/evidence"
	"github.com/sakxhamm/CivicsCoach-sub000/services/llm"
	"github.com/sakxhamm/CivicsCoach-sub000/services/orchestrator/datatypes"
	"github.com/sakxhamm/CivicsCoach-sub000/services/orchestrator/services"
	prompting "github.com/sakxhamm/CivicsCoach-sub000/services/prompting/datatypes"
)

func runAnalyze(cmd *cobra.Command, args []string) {
	query := strings.Join(args, " ")
	if strings.TrimSpace(query) == "" {
		log.Fatalf("Error: a query is required")
	}

	engine := newLocalEngine()
	cx := engine.AnalyzeComplexity(query)

	fmt.Printf("Complexity: %s (score %d)\n", cx.Level, cx.Score)
	if len(cx.Factors) > 0 {
		fmt.Printf("Factors:    %s\n", strings.Join(cx.Factors, ", "))
	}
	if cx.HasCreativeElements {
		fmt.Println("Creative elements detected.")
	}
}

func runParams(cmd *cobra.Command, args []string) {
	query := strings.Join(args, " ")
	if strings.TrimSpace(query) == "" {
		log.Fatalf("Error: a query is required")
	}

	promptCtx, err := prompting.ParseContext(resolvedContextName())
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	task, err := prompting.ParseTaskType(taskName)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	proficiency, err := prompting.ParseProficiency(resolvedProficiencyName())
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	engine := newLocalEngine()
	cx := engine.AnalyzeComplexity(query)
	profile := engine.OptimizeParameters(promptCtx, task, cx, proficiency, flagOverrides(cmd))

	fmt.Printf("Context:     %s\n", promptCtx)
	fmt.Printf("Task:        %s\n", task)
	fmt.Printf("Proficiency: %s\n", proficiency)
	fmt.Printf("Complexity:  %s (score %d)\n", cx.Level, cx.Score)
	fmt.Printf("Temperature: %.2f\n", profile.Temperature)
	fmt.Printf("Top-p:       %.2f\n", profile.NucleusThreshold)
	fmt.Printf("Evidence:    %d snippets\n", profile.EvidencePoolSize)
}

func runPreview(cmd *cobra.Command, args []string) {
	query := strings.Join(args, " ")
	if strings.TrimSpace(query) == "" {
		log.Fatalf("Error: a query is required")
	}

	engine := newLocalEngine()

	var store evidence.Store
	if !noEvidence {
		badgerStore, err := openLocalEvidence()
		if err != nil {
			log.Printf("Warning: evidence store unavailable, continuing without it: %v", err)
		} else {
			defer badgerStore.Close()
			store = badgerStore
		}
	}

	// Preview never calls the backend; the mock satisfies the
	// service's required dependency.
	svc, err := services.NewDebateService(services.DebateConfig{
		Engine:      engine,
		Backend:     llm.NewMockClient(),
		BackendName: "preview",
		Evidence:    store,
	})
	if err != nil {
		log.Fatalf("Error building the debate service: %v", err)
	}

	req := &datatypes.DebateRequest{
		Query:           query,
		TaskType:        taskName,
		Context:         resolvedContextName(),
		Proficiency:     resolvedProficiencyName(),
		Strategy:        resolvedStrategyName(),
		HiddenReasoning: hiddenReasoning,
		ExampleCount:    exampleCount,
	}
	if err := req.Validate(); err != nil {
		log.Fatalf("Error: invalid request: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	preview, err := svc.Preview(ctx, req)
	if err != nil {
		log.Fatalf("Error building the payload: %v", err)
	}

	fmt.Printf("Strategy:   %s\n", preview.Strategy)
	fmt.Printf("Complexity: %s (score %d)\n", preview.Complexity.Level, preview.Complexity.Score)
	fmt.Printf("Profile:    temp %.2f, top_p %.2f, evidence %d\n",
		preview.Profile.Temperature, preview.Profile.NucleusThreshold,
		preview.Profile.EvidencePoolSize)
	fmt.Printf("Blocks:     %d\n", len(preview.Blocks))
	if preview.StopMarker != "" {
		fmt.Printf("Stop marker: %s\n", preview.StopMarker)
	}
	fmt.Println("---")
	fmt.Println(preview.Rendered)
}

func runValidate(cmd *cobra.Command, args []string) {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		log.Fatalf("Error reading %s: %v", args[0], err)
	}
	task, err := prompting.ParseTaskType(taskName)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	engine := newLocalEngine()
	result, err := engine.ValidateResponse(string(raw), task)
	if err != nil {
		log.Fatalf("Error validating the response: %v", err)
	}

	for _, w := range result.Warnings {
		ux.Warning(w)
	}
	if !result.IsValid {
		ux.Error(fmt.Sprintf("Invalid %s output.", task))
		for _, e := range result.Errors {
			fmt.Printf("  - %s\n", e)
		}
		os.Exit(1)
	}
	ux.Success(fmt.Sprintf("Valid %s output.", task))
}

// flagOverrides builds parameter overrides from the flags the caller
// actually set, so unset flags never shadow the optimizer.
func flagOverrides(cmd *cobra.Command) *prompting.Overrides {
	overrides := &prompting.Overrides{}
	if cmd.Flags().Changed("temperature") {
		overrides.Temperature = &tempOverride
	}
	if cmd.Flags().Changed("top-p") {
		overrides.NucleusThreshold = &topPOverride
	}
	if cmd.Flags().Changed("pool") {
		overrides.EvidencePoolSize = &poolOverride
	}
	if overrides.IsZero() {
		return nil
	}
	return overrides
}
