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

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/sakxhamm/CivicsCoach-sub000/pkg/ux"
	"github.com/sakxhamm/CivicsCoach-sub000/services/evidence"
	"github.com/sakxhamm/CivicsCoach-sub000/services/orchestrator/datatypes"
	"github.com/sakxhamm/CivicsCoach-sub000/services/orchestrator/services"
)

// runQuiz generates a question set for a topic and drills it as
// interactive flash cards. Piped or machine output gets the plain
// card listing instead of the terminal loop.
func runQuiz(cmd *cobra.Command, args []string) {
	query := strings.Join(args, " ")
	if strings.TrimSpace(query) == "" {
		log.Fatalf("Error: a topic is required, e.g. civicscoach quiz \"emergency provisions\"")
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
		Query:        query,
		TaskType:     "quiz",
		Context:      resolvedContextName(),
		Proficiency:  resolvedProficiencyName(),
		Strategy:     resolvedStrategyName(),
		ExampleCount: exampleCount,
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
	err = ux.WithSpinner("Writing your quiz", func() error {
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

	cards := ux.QuizCards(resp.Result)
	if len(cards) == 0 {
		coach.Error(fmt.Errorf("the backend returned no usable questions"))
		os.Exit(1)
	}

	interactive := ux.IsInteractive() &&
		(isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()))
	if !interactive {
		coach.Result(string(resolved.TaskType), resp.Result)
		coach.Warnings(resp.Warnings)
		coach.Footer(ux.RunStats{
			Backend:       resp.Metadata.Backend,
			Attempts:      resp.Metadata.Attempts,
			GenerationMS:  resp.Metadata.GenerationMS,
			EvidenceCount: resp.Metadata.EvidenceCount,
		})
		return
	}

	// Warnings go above the card loop so they stay on screen.
	coach.Warnings(resp.Warnings)

	result, err := ux.RunQuiz(cards)
	if err != nil {
		log.Fatalf("Error running the quiz: %v", err)
	}
	printQuizScore(result)
}

// printQuizScore prints the persistent score line after the card loop
// has cleared its own output.
func printQuizScore(result ux.QuizResult) {
	if result.Cancelled {
		fmt.Println(ux.Styles.Muted.Render(fmt.Sprintf(
			"Quiz ended early: %d of %d answered, %d correct.",
			result.Answered, result.Total, result.Correct)))
		return
	}

	line := fmt.Sprintf("Score: %d of %d", result.Correct, result.Total)
	switch {
	case result.Correct == result.Total:
		fmt.Println(ux.IconSuccess.Render(), ux.Styles.Success.Render(line+" · perfect round"))
	case result.Correct*2 >= result.Total:
		fmt.Println(ux.IconSuccess.Render(), ux.Styles.Highlight.Render(line))
	default:
		fmt.Println(ux.IconPending.Render(), ux.Styles.Warning.Render(line+" · worth another pass"))
	}

	if ux.GetPersonality().Level == ux.PersonalityFull && ux.GetPersonality().ShowTips {
		fmt.Println(ux.Styles.Muted.Render("Tip: " + ux.RandomTip()))
	}
}
