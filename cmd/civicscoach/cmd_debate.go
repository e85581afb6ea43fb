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
	"log"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/sakxhamm/CivicsCoach-sub000/pkg/ux"
	"github.com/sakxhamm/CivicsCoach-sub000/services/evidence"
	"github.com/sakxhamm/CivicsCoach-sub000/services/orchestrator/datatypes"
	"github.com/sakxhamm/CivicsCoach-sub000/services/orchestrator/services"
)

// debateTimeout bounds one full pipeline run including retries.
const debateTimeout = 5 * time.Minute

func runDebate(cmd *cobra.Command, args []string) {
	query := strings.Join(args, " ")

	if strings.TrimSpace(query) == "" {
		if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
			log.Fatalf("Error: a query is required when stdin is not a terminal")
		}
		if err := promptDebateForm(&query); err != nil {
			log.Fatalf("Error reading the debate form: %v", err)
		}
		if strings.TrimSpace(query) == "" {
			log.Fatalf("Error: a query is required")
		}
	}

	engine := newLocalEngine()
	backend, backendName, err := newBackendClient()
	if err != nil {
		log.Fatalf("Error initializing the generation backend: %v", err)
	}

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

	svc, err := services.NewDebateService(services.DebateConfig{
		Engine:      engine,
		Backend:     backend,
		BackendName: backendName,
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
		Overrides:       flagOverrides(cmd),
	}
	if err := req.Validate(); err != nil {
		log.Fatalf("Error: invalid request: %v", err)
	}
	resolved := req.Resolved()

	coach := ux.NewCoachUI()
	coach.Header(ux.HeaderConfig{
		TaskType:    string(resolved.TaskType),
		Strategy:    string(resolved.Strategy),
		Proficiency: string(resolved.Proficiency),
		Backend:     backendName,
	})

	requestID := uuid.New().String()
	var resp *datatypes.DebateResponse
	err = ux.WithSpinner("Consulting the Constitution", func() error {
		ctx, cancel := context.WithTimeout(context.Background(), debateTimeout)
		defer cancel()
		var debateErr error
		resp, debateErr = svc.Debate(ctx, req, requestID)
		return debateErr
	})
	if err != nil {
		coach.Error(err)
		os.Exit(1)
	}

	coach.Pipeline(ux.PipelineInfo{
		ComplexityLevel:  string(resp.Metadata.Complexity.Level),
		ComplexityScore:  resp.Metadata.Complexity.Score,
		Factors:          resp.Metadata.Complexity.Factors,
		Temperature:      resp.Metadata.Profile.Temperature,
		NucleusThreshold: resp.Metadata.Profile.NucleusThreshold,
		EvidencePoolSize: resp.Metadata.Profile.EvidencePoolSize,
	})
	coach.Result(string(resolved.TaskType), resp.Result)
	coach.Warnings(resp.Warnings)
	coach.Footer(ux.RunStats{
		Backend:       resp.Metadata.Backend,
		Attempts:      resp.Metadata.Attempts,
		GenerationMS:  resp.Metadata.GenerationMS,
		EvidenceCount: resp.Metadata.EvidenceCount,
	})
}

// promptDebateForm collects a query, task, and proficiency
// interactively when the command is run without arguments.
func promptDebateForm(query *string) error {
	if proficiencyName == "" {
		proficiencyName = resolvedProficiencyName()
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("What should we explore?").
				Placeholder("Is the basic structure doctrine anti-democratic?").
				Value(query),
			huh.NewSelect[string]().
				Title("Task").
				Options(
					huh.NewOption("Debate: stance, counter-stance, citations", "debate"),
					huh.NewOption("Analysis: thesis and key points", "analysis"),
					huh.NewOption("Comparison: similarities, differences, verdict", "comparison"),
					huh.NewOption("Explanation: summary with an analogy", "explanation"),
					huh.NewOption("Quiz: question and answer cards", "quiz"),
				).
				Value(&taskName),
			huh.NewSelect[string]().
				Title("Your familiarity with the subject").
				Options(
					huh.NewOption("Beginner", "beginner"),
					huh.NewOption("Intermediate", "intermediate"),
					huh.NewOption("Advanced", "advanced"),
				).
				Value(&proficiencyName),
		),
	)
	return form.Run()
}
