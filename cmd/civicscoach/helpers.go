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
	"bufio"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/sakxhamm/CivicsCoach-sub000/cmd/civicscoach/config"
	"github.com/sakxhamm/CivicsCoach-sub000/services/evidence/badger"
	"github.com/sakxhamm/CivicsCoach-sub000/services/llm"
	"github.com/sakxhamm/CivicsCoach-sub000/services/prompting"
)

// Constants for default connection settings
const (
	DefaultServerPort = 12310
	DefaultServerHost = "localhost"
)

// --- Global Variables ---
var (
	blockedDirs = map[string]bool{
		".git":          true,
		".venv":         true,
		"node_modules":  true,
		"__pycache__":   true,
		"build":         true,
		"dist":          true,
		".pytest_cache": true,
	}
	// Corpus files are prose: constitutional articles, judgments,
	// commentary. Source code and binaries are never evidence.
	corpusFileExts = map[string]bool{
		".txt": true,
		".md":  true,
	}
)

// getServerBaseURL returns the standard address for the orchestrator.
func getServerBaseURL() string {
	// 1. Priority: Environment Variable (Used by Tests & Docker overrides)
	if url := os.Getenv("CIVICSCOACH_SERVER_URL"); url != "" {
		return url
	}
	// 2. Config file
	if config.Global.Server.URL != "" {
		return config.Global.Server.URL
	}
	// 3. Default: Standard Host/Port
	return fmt.Sprintf("http://%s:%d", DefaultServerHost, DefaultServerPort)
}

// newLocalEngine builds the prompting engine local commands run
// against, merging the configured example catalog into the seeded
// store when one is set.
func newLocalEngine() *prompting.Engine {
	engine := prompting.New(prompting.Config{})

	path := catalogPath
	if path == "" {
		path = config.Global.Catalog.Path
	}
	if path != "" {
		if _, err := engine.Examples().LoadCatalogFile(path); err != nil {
			log.Printf("Warning: could not load example catalog %s: %v", path, err)
		}
	}
	return engine
}

// newBackendClient constructs the generation backend selected by the
// --backend flag, falling back to the config file. The Ollama client
// reads its connection settings from the environment, so the config
// values are bridged in when the variables are not already set.
func newBackendClient() (llm.Client, string, error) {
	backendName := backendType
	if backendName == "" {
		backendName = config.Global.Backend.GetType()
	}

	switch backendName {
	case "ollama":
		if os.Getenv("OLLAMA_HOST") == "" {
			os.Setenv("OLLAMA_HOST", config.Global.Backend.GetBaseURL())
		}
		if os.Getenv("CIVICS_MODEL") == "" {
			os.Setenv("CIVICS_MODEL", config.Global.Backend.GetModel())
		}
		client, err := llm.NewOllamaClient()
		if err != nil {
			return nil, "", err
		}
		return client, "ollama", nil
	case "openai":
		client, err := llm.NewOpenAIClient()
		if err != nil {
			return nil, "", err
		}
		return client, "openai", nil
	case "anthropic", "claude":
		client, err := llm.NewAnthropicClient()
		if err != nil {
			return nil, "", err
		}
		return client, "claude", nil
	case "mock":
		return llm.NewMockClient(), "mock", nil
	default:
		return nil, "", fmt.Errorf("unknown backend type %q (expected ollama, openai, anthropic, or mock)", backendName)
	}
}

// openLocalEvidence opens the BadgerDB evidence store used by local
// debate and preview runs. Callers must Close the store.
func openLocalEvidence() (*badger.Store, error) {
	dir := evidenceDir
	if dir == "" {
		dir = config.Global.Corpus.GetLocalDir()
	}
	return badger.Open(badger.Config{Path: dir})
}

// collectCorpusFiles walks the given paths and returns the files
// eligible for ingestion, honoring blockedDirs and corpusFileExts.
func collectCorpusFiles(paths []string) []string {
	var files []string
	for _, path := range paths {
		err := filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				if blockedDirs[info.Name()] {
					log.Printf("Skipping blocked directory: %s\n", p)
					return filepath.SkipDir
				}
				return nil
			}
			if !corpusFileExts[filepath.Ext(p)] {
				return nil
			}
			files = append(files, p)
			return nil
		})
		if err != nil {
			log.Printf("Error walking path %s: %v", path, err)
		}
	}
	return files
}

// confirm asks a yes/no question on stdin.
func confirm(question string) bool {
	fmt.Printf("%s (yes/no): ", question)
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	input = strings.ToLower(strings.TrimSpace(input))
	return input == "yes" || input == "y"
}

// Flag values win over the config file; the config file wins over the
// request defaults, which it matches out of the box.

func resolvedContextName() string {
	if contextName != "" {
		return contextName
	}
	return config.Global.Defaults.GetContext()
}

func resolvedProficiencyName() string {
	if proficiencyName != "" {
		return proficiencyName
	}
	return config.Global.Defaults.GetProficiency()
}

func resolvedStrategyName() string {
	if strategyName != "" {
		return strategyName
	}
	return config.Global.Defaults.GetStrategy()
}
