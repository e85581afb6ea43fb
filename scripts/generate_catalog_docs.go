// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// generate_catalog_docs generates a markdown coverage reference from an
// example catalog YAML file.
//
// Usage:
//
//	go run scripts/generate_catalog_docs.go catalog.yaml > docs/catalog_reference.md
//
// The generated documentation includes:
//   - Example inventory grouped by task type
//   - Per-bucket coverage counts across proficiencies
//   - Summary statistics
package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// CatalogYAML is the root structure for YAML deserialization.
type CatalogYAML struct {
	Examples []ExampleEntryYAML `yaml:"examples"`
}

// ExampleEntryYAML represents a single example entry in the YAML file.
type ExampleEntryYAML struct {
	Task           string `yaml:"task"`
	Proficiency    string `yaml:"proficiency"`
	Query          string `yaml:"query"`
	ExpectedOutput string `yaml:"expectedOutput"`
}

// TaskSection groups the examples of one task type.
type TaskSection struct {
	Name        string
	Description string
	Examples    []ExampleEntryYAML
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: go run scripts/generate_catalog_docs.go <catalog.yaml>")
		os.Exit(1)
	}

	// Read the YAML file
	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading catalog: %v\n", err)
		os.Exit(1)
	}

	var catalog CatalogYAML
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing YAML: %v\n", err)
		os.Exit(1)
	}

	// Group examples by task type
	sections := groupByTask(catalog.Examples)

	// Generate markdown
	generateMarkdown(os.Args[1], sections, catalog.Examples)
}

// groupByTask splits the flat example list into one section per task type.
func groupByTask(examples []ExampleEntryYAML) []TaskSection {
	sectionMap := map[string]*TaskSection{
		"debate": {
			Name:        "Debate Examples",
			Description: "Structured arguments with a stance, a counter-stance, citations, and a short quiz.",
		},
		"analysis": {
			Name:        "Analysis Examples",
			Description: "Close readings of a constitutional provision or doctrine with key points and implications.",
		},
		"comparison": {
			Name:        "Comparison Examples",
			Description: "Side-by-side treatments of two provisions, institutions, or doctrines.",
		},
		"explanation": {
			Name:        "Explanation Examples",
			Description: "Plain-language walkthroughs of a single concept pitched at the learner's level.",
		},
		"quiz": {
			Name:        "Quiz Examples",
			Description: "Question sets with answers, used to seed practice sessions.",
		},
	}

	for _, ex := range examples {
		if section, ok := sectionMap[ex.Task]; ok {
			section.Examples = append(section.Examples, ex)
		}
	}

	order := []string{"debate", "analysis", "comparison", "explanation", "quiz"}

	var result []TaskSection
	for _, key := range order {
		if section, ok := sectionMap[key]; ok && len(section.Examples) > 0 {
			result = append(result, *section)
		}
	}
	return result
}

// generateMarkdown outputs the full markdown documentation.
func generateMarkdown(path string, sections []TaskSection, all []ExampleEntryYAML) {
	fmt.Println("# Example Catalog Reference")
	fmt.Println()
	fmt.Println("## Overview")
	fmt.Println()
	fmt.Println("This document summarizes the worked examples available to the prompt builder.")
	fmt.Printf("The catalog was read from `%s` and is merged into the built-in seed catalog at startup.\n", path)
	fmt.Println()
	fmt.Printf("**Generated:** %s\n", time.Now().Format("2006-01-02 15:04:05 UTC"))
	fmt.Println()

	// Statistics
	buckets := map[string]int{}
	proficiencies := map[string]int{}
	unknownTasks := 0
	known := map[string]bool{
		"debate": true, "analysis": true, "comparison": true,
		"explanation": true, "quiz": true,
	}
	for _, ex := range all {
		buckets[ex.Task+"/"+ex.Proficiency]++
		proficiencies[ex.Proficiency]++
		if !known[ex.Task] {
			unknownTasks++
		}
	}

	fmt.Println("## Summary Statistics")
	fmt.Println()
	fmt.Println("| Metric | Count |")
	fmt.Println("|--------|-------|")
	fmt.Printf("| Total Examples | %d |\n", len(all))
	fmt.Printf("| Task Types Covered | %d |\n", len(sections))
	fmt.Printf("| Populated Buckets | %d |\n", len(buckets))
	fmt.Printf("| Unknown Task Entries | %d |\n", unknownTasks)
	fmt.Println()

	fmt.Println("## Proficiency Coverage")
	fmt.Println()
	fmt.Println("| Proficiency | Examples |")
	fmt.Println("|-------------|----------|")
	for _, prof := range []string{"beginner", "intermediate", "advanced"} {
		fmt.Printf("| %s | %d |\n", prof, proficiencies[prof])
	}
	fmt.Println()

	// Per-task sections
	for _, section := range sections {
		fmt.Printf("## %s\n", section.Name)
		fmt.Println()
		fmt.Println(section.Description)
		fmt.Println()
		fmt.Println("| Proficiency | Query | Output Size |")
		fmt.Println("|-------------|-------|-------------|")

		sorted := make([]ExampleEntryYAML, len(section.Examples))
		copy(sorted, section.Examples)
		sort.SliceStable(sorted, func(i, j int) bool {
			return profRank(sorted[i].Proficiency) < profRank(sorted[j].Proficiency)
		})
		for _, ex := range sorted {
			fmt.Printf("| %s | %s | %d bytes |\n",
				ex.Proficiency, escapeCell(ex.Query), len(ex.ExpectedOutput))
		}
		fmt.Println()
	}

	// Call out coverage gaps so curators know where fallback will kick in
	fmt.Println("## Coverage Gaps")
	fmt.Println()
	gaps := 0
	for _, task := range []string{"debate", "analysis", "comparison", "explanation", "quiz"} {
		for _, prof := range []string{"beginner", "intermediate", "advanced"} {
			if buckets[task+"/"+prof] == 0 {
				fmt.Printf("- `%s/%s` has no examples; lookups fall back to a neighboring proficiency\n", task, prof)
				gaps++
			}
		}
	}
	if gaps == 0 {
		fmt.Println("Every (task, proficiency) bucket has at least one example.")
	}
}

// profRank orders proficiencies from beginner to advanced.
func profRank(p string) int {
	switch p {
	case "beginner":
		return 0
	case "intermediate":
		return 1
	case "advanced":
		return 2
	default:
		return 3
	}
}

// escapeCell makes a query safe inside a markdown table cell.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}
