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

	"github.com/spf13/cobra"

	"github.com/sakxhamm/CivicsCoach-sub000/cmd/civicscoach/config"
	"github.com/sakxhamm/CivicsCoach-sub000/pkg/ux"
)

// --- Global Command Variables ---
var (
	taskName         string
	contextName      string
	proficiencyName  string
	strategyName     string
	backendType      string
	catalogPath      string
	evidenceDir      string
	noEvidence       bool
	hiddenReasoning  bool
	exampleCount     int
	tempOverride     float64
	topPOverride     float64
	poolOverride     int
	serverIngest     bool
	gcsPrefix        string
	servePort        int
	serveEvidence    string
	serveWeaviateURL string
	personalityLevel string // UX personality level (full/standard/minimal/machine)

	rootCmd = &cobra.Command{
		Use:   "civicscoach",
		Short: "A cli for the CivicsCoach constitutional debate pipeline",
		Long: `CivicsCoach runs an adaptive prompt-construction pipeline for
				Indian constitutional education: it scores query complexity,
				tunes generation parameters, grounds answers in a local
				evidence corpus, and validates backend output against
				per-task schemas.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Initialize UX personality from flag or environment
			if personalityLevel != "" {
				ux.SetPersonalityLevel(ux.ParsePersonalityLevel(personalityLevel))
			} else {
				ux.InitPersonality()
			}
			if err := config.Load(); err != nil {
				log.Fatalf("Error loading config: %v", err)
			}
		},
	}

	// --- Debate ---
	debateCmd = &cobra.Command{
		Use:     "debate [query]",
		Short:   "Run the full pipeline and render the coached answer",
		Aliases: []string{"ask"},
		Run:     runDebate, // Defined in cmd_debate.go
	}

	// --- Quiz ---
	quizCmd = &cobra.Command{
		Use:   "quiz [topic]",
		Short: "Generate a flash-card quiz and drill it interactively",
		Run:   runQuiz, // Defined in cmd_quiz.go
	}

	// --- Pipeline Stages ---
	analyzeCmd = &cobra.Command{
		Use:   "analyze [query]",
		Short: "Score a query's complexity without generating anything",
		Run:   runAnalyze, // Defined in cmd_pipeline.go
	}
	paramsCmd = &cobra.Command{
		Use:   "params [query]",
		Short: "Print the generation parameters the optimizer would pick",
		Run:   runParams, // Defined in cmd_pipeline.go
	}
	previewCmd = &cobra.Command{
		Use:   "preview [query]",
		Short: "Build and print the instruction payload without calling a backend",
		Run:   runPreview, // Defined in cmd_pipeline.go
	}
	validateCmd = &cobra.Command{
		Use:   "validate [file]",
		Short: "Check a saved backend response against a task's output schema",
		Args:  cobra.ExactArgs(1),
		Run:   runValidate, // Defined in cmd_pipeline.go
	}

	// --- Examples ---
	examplesCmd = &cobra.Command{
		Use:   "examples",
		Short: "Inspect and extend the worked-example catalog",
	}
	examplesListCmd = &cobra.Command{
		Use:   "list",
		Short: "List example buckets and their sizes",
		Run:   runExamplesList, // Defined in cmd_examples.go
	}
	examplesAddCmd = &cobra.Command{
		Use:   "add",
		Short: "Append a worked example to the catalog file",
		Run:   runExamplesAdd, // Defined in cmd_examples.go
	}

	// --- Corpus ---
	corpusCmd = &cobra.Command{
		Use:   "corpus",
		Short: "Manage the evidence corpus backing debate answers",
	}
	corpusIngestCmd = &cobra.Command{
		Use:   "ingest [file or directory path...]",
		Short: "Chunk and index documents into the evidence store",
		Run:   runCorpusIngest, // Defined in cmd_corpus.go
	}
	corpusPushCmd = &cobra.Command{
		Use:   "push [local_directory]",
		Short: "Upload corpus files to the configured GCS bucket",
		Run:   runCorpusPush, // Defined in cmd_corpus.go
	}
	corpusPullCmd = &cobra.Command{
		Use:   "pull [local_directory]",
		Short: "Download corpus files from the configured GCS bucket",
		Run:   runCorpusPull, // Defined in cmd_corpus.go
	}

	// --- Server ---
	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the orchestrator HTTP server in-process",
		Run:   runServe, // Defined in cmd_serve.go
	}
)

// init runs when the Go program starts
func init() {
	// Global UX personality flag
	rootCmd.PersistentFlags().StringVar(&personalityLevel, "personality", "",
		"Output style: full (default), standard, minimal, or machine (scripting)")

	rootCmd.AddCommand(debateCmd)
	debateCmd.Flags().StringVar(&taskName, "task", "debate",
		"Task type: debate, analysis, comparison, explanation, or quiz")
	debateCmd.Flags().StringVar(&contextName, "context", "",
		"Audience context (e.g. constitutionalEducation, academicResearch, publicPolicy)")
	debateCmd.Flags().StringVar(&proficiencyName, "proficiency", "",
		"Learner proficiency: beginner, intermediate, or advanced")
	debateCmd.Flags().StringVar(&strategyName, "strategy", "",
		"Payload strategy (e.g. complexity_adaptive, structured_role, multi_example)")
	debateCmd.Flags().StringVar(&backendType, "backend", "",
		"Generation backend (ollama, openai, anthropic, mock). Overrides the config file.")
	debateCmd.Flags().StringVar(&catalogPath, "catalog", "", "Path to a YAML example catalog")
	debateCmd.Flags().IntVar(&exampleCount, "examples", 0, "Worked examples to include (0-10)")
	debateCmd.Flags().BoolVar(&hiddenReasoning, "hidden-reasoning", false,
		"Ask the backend to reason before the stop marker and discard that text")
	debateCmd.Flags().BoolVar(&noEvidence, "no-evidence", false, "Skip evidence retrieval")
	debateCmd.Flags().StringVar(&evidenceDir, "evidence-dir", "",
		"BadgerDB evidence directory. Overrides the config file.")
	debateCmd.Flags().Float64Var(&tempOverride, "temperature", 0, "Override sampling temperature")
	debateCmd.Flags().Float64Var(&topPOverride, "top-p", 0, "Override nucleus sampling threshold")
	debateCmd.Flags().IntVar(&poolOverride, "pool", 0, "Override evidence pool size")

	rootCmd.AddCommand(quizCmd)
	quizCmd.Flags().StringVar(&contextName, "context", "", "Audience context")
	quizCmd.Flags().StringVar(&proficiencyName, "proficiency", "",
		"Learner proficiency: beginner, intermediate, or advanced")
	quizCmd.Flags().StringVar(&strategyName, "strategy", "", "Payload strategy")
	quizCmd.Flags().StringVar(&backendType, "backend", "",
		"Generation backend (ollama, openai, anthropic, mock). Overrides the config file.")
	quizCmd.Flags().StringVar(&catalogPath, "catalog", "", "Path to a YAML example catalog")
	quizCmd.Flags().IntVar(&exampleCount, "examples", 0, "Worked examples to include (0-10)")
	quizCmd.Flags().BoolVar(&noEvidence, "no-evidence", false, "Skip evidence retrieval")
	quizCmd.Flags().StringVar(&evidenceDir, "evidence-dir", "",
		"BadgerDB evidence directory. Overrides the config file.")

	rootCmd.AddCommand(analyzeCmd)

	rootCmd.AddCommand(paramsCmd)
	paramsCmd.Flags().StringVar(&taskName, "task", "debate",
		"Task type: debate, analysis, comparison, explanation, or quiz")
	paramsCmd.Flags().StringVar(&contextName, "context", "", "Audience context")
	paramsCmd.Flags().StringVar(&proficiencyName, "proficiency", "", "Learner proficiency")
	paramsCmd.Flags().Float64Var(&tempOverride, "temperature", 0, "Override sampling temperature")
	paramsCmd.Flags().Float64Var(&topPOverride, "top-p", 0, "Override nucleus sampling threshold")
	paramsCmd.Flags().IntVar(&poolOverride, "pool", 0, "Override evidence pool size")

	rootCmd.AddCommand(previewCmd)
	previewCmd.Flags().StringVar(&taskName, "task", "debate",
		"Task type: debate, analysis, comparison, explanation, or quiz")
	previewCmd.Flags().StringVar(&contextName, "context", "", "Audience context")
	previewCmd.Flags().StringVar(&proficiencyName, "proficiency", "", "Learner proficiency")
	previewCmd.Flags().StringVar(&strategyName, "strategy", "", "Payload strategy")
	previewCmd.Flags().StringVar(&catalogPath, "catalog", "", "Path to a YAML example catalog")
	previewCmd.Flags().IntVar(&exampleCount, "examples", 0, "Worked examples to include (0-10)")
	previewCmd.Flags().BoolVar(&hiddenReasoning, "hidden-reasoning", false,
		"Include the hidden-reasoning preamble and stop marker")
	previewCmd.Flags().BoolVar(&noEvidence, "no-evidence", false, "Skip evidence retrieval")
	previewCmd.Flags().StringVar(&evidenceDir, "evidence-dir", "",
		"BadgerDB evidence directory. Overrides the config file.")

	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringVar(&taskName, "task", "debate",
		"Task type whose schema the file is checked against")

	// examples commands
	rootCmd.AddCommand(examplesCmd)
	examplesCmd.AddCommand(examplesListCmd)
	examplesListCmd.Flags().StringVar(&catalogPath, "catalog", "", "Path to a YAML example catalog")
	examplesCmd.AddCommand(examplesAddCmd)
	examplesAddCmd.Flags().StringVar(&catalogPath, "catalog", "", "Path to a YAML example catalog")
	examplesAddCmd.Flags().StringVar(&taskName, "task", "", "Task type of the example (required)")
	examplesAddCmd.Flags().StringVar(&proficiencyName, "proficiency", "",
		"Proficiency of the example (required)")
	examplesAddCmd.Flags().String("query", "", "Example query text (required)")
	examplesAddCmd.Flags().String("output", "", "Expected output, inline")
	examplesAddCmd.Flags().String("output-file", "", "Expected output, read from a file")

	// corpus commands
	rootCmd.AddCommand(corpusCmd)
	corpusCmd.AddCommand(corpusIngestCmd)
	corpusIngestCmd.Flags().BoolVar(&serverIngest, "server", false,
		"Send documents to a running orchestrator instead of ingesting locally")
	corpusIngestCmd.Flags().StringVar(&evidenceDir, "evidence-dir", "",
		"BadgerDB evidence directory. Overrides the config file.")
	corpusCmd.AddCommand(corpusPushCmd)
	corpusPushCmd.Flags().StringVar(&gcsPrefix, "prefix", "corpus", "GCS object prefix")
	corpusCmd.AddCommand(corpusPullCmd)
	corpusPullCmd.Flags().StringVar(&gcsPrefix, "prefix", "corpus", "GCS object prefix")
	corpusPullCmd.Flags().Bool("force", false, "Overwrite local files without asking")

	// server command
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVar(&servePort, "port", DefaultServerPort, "HTTP listen port")
	serveCmd.Flags().StringVar(&backendType, "backend", "",
		"Generation backend (ollama, openai, anthropic, mock). Overrides the config file.")
	serveCmd.Flags().StringVar(&serveEvidence, "evidence", "badger",
		"Evidence store: memory, badger, or weaviate")
	serveCmd.Flags().StringVar(&serveWeaviateURL, "weaviate-url", "",
		"Weaviate URL, used when --evidence=weaviate")
	serveCmd.Flags().StringVar(&evidenceDir, "evidence-dir", "",
		"BadgerDB evidence directory. Overrides the config file.")
	serveCmd.Flags().StringVar(&catalogPath, "catalog", "", "Path to a YAML example catalog")
}
