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
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sakxhamm/CivicsCoach-sub000/cmd/civicscoach/config"
	"github.com/sakxhamm/CivicsCoach-sub000/pkg/ux"
	prompting "github.com/sakxhamm/CivicsCoach-sub000/services/prompting/datatypes"
	"github.com/sakxhamm/CivicsCoach-sub000/services/prompting/examplestore"
)

func runExamplesList(cmd *cobra.Command, args []string) {
	engine := newLocalEngine()
	store := engine.Examples()

	total := 0
	fmt.Printf("%-14s %-14s %s\n", "TASK", "PROFICIENCY", "EXAMPLES")
	for _, task := range store.TaskTypes() {
		for _, prof := range prompting.AllProficiencies() {
			count := store.Count(task, prof)
			if count == 0 {
				continue
			}
			fmt.Printf("%-14s %-14s %d\n", task, prof, count)
			total += count
		}
	}
	fmt.Printf("\nTotal: %d examples\n", total)
}

func runExamplesAdd(cmd *cobra.Command, args []string) {
	queryText, _ := cmd.Flags().GetString("query")
	outputText, _ := cmd.Flags().GetString("output")
	outputFile, _ := cmd.Flags().GetString("output-file")

	if taskName == "" || proficiencyName == "" || queryText == "" {
		log.Fatalf("Error: --task, --proficiency, and --query are required")
	}
	if outputText == "" && outputFile == "" {
		log.Fatalf("Error: provide the expected output with --output or --output-file")
	}
	if outputText != "" && outputFile != "" {
		log.Fatalf("Error: --output and --output-file are mutually exclusive")
	}
	if outputFile != "" {
		data, err := os.ReadFile(outputFile)
		if err != nil {
			log.Fatalf("Error reading %s: %v", outputFile, err)
		}
		outputText = string(data)
	}

	task, err := prompting.ParseTaskType(taskName)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	proficiency, err := prompting.ParseProficiency(proficiencyName)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	path := catalogPath
	if path == "" {
		path = config.Global.Catalog.Path
	}
	if path == "" {
		log.Fatalf("Error: no catalog file configured; pass --catalog or set catalog.path in the config")
	}

	// Validate through a scratch store first so a bad example never
	// lands in the file.
	scratch := examplestore.NewStore()
	ex := prompting.Example{Query: queryText, ExpectedOutput: outputText}
	if err := scratch.Add(task, proficiency, ex); err != nil {
		log.Fatalf("Error: invalid example: %v", err)
	}

	entry := catalogExample{
		Task:           string(task),
		Proficiency:    string(proficiency),
		Query:          queryText,
		ExpectedOutput: outputText,
	}
	if err := appendCatalogEntry(path, entry); err != nil {
		log.Fatalf("Error updating the catalog: %v", err)
	}
	ux.Success(fmt.Sprintf("Added a %s/%s example to %s", task, proficiency, path))
}

// catalogDocument mirrors the YAML catalog the example store loads.
type catalogDocument struct {
	Examples []catalogExample `yaml:"examples"`
}

type catalogExample struct {
	Task           string `yaml:"task"`
	Proficiency    string `yaml:"proficiency"`
	Query          string `yaml:"query"`
	ExpectedOutput string `yaml:"expectedOutput"`
}

// appendCatalogEntry adds one example to the catalog file, creating
// the file on first use. Duplicate queries within a bucket are
// rejected rather than silently skipped at the next load.
func appendCatalogEntry(path string, entry catalogExample) error {
	var doc catalogDocument
	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parse catalog %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("read catalog %s: %w", path, err)
	}

	for _, existing := range doc.Examples {
		if existing.Task == entry.Task &&
			existing.Proficiency == entry.Proficiency &&
			existing.Query == entry.Query {
			return fmt.Errorf("an example with this query already exists in the %s/%s bucket",
				entry.Task, entry.Proficiency)
		}
	}

	doc.Examples = append(doc.Examples, entry)
	out, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0644)
}
