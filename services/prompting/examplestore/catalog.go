// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package examplestore

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sakxhamm/CivicsCoach-sub000/services/prompting/datatypes"
)

// =============================================================================
// YAML Catalog
// =============================================================================

// catalogFile is the on-disk catalog shape:
//
//	examples:
//	  - task: debate
//	    proficiency: beginner
//	    query: "Should voting be compulsory?"
//	    expectedOutput: '{"stance": "..."}'
type catalogFile struct {
	Examples []catalogEntry `yaml:"examples"`
}

type catalogEntry struct {
	Task           string `yaml:"task"`
	Proficiency    string `yaml:"proficiency"`
	Query          string `yaml:"query"`
	ExpectedOutput string `yaml:"expectedOutput"`
}

// LoadCatalog appends the entries read from r to the catalog.
//
// Description:
//
//	Parses a YAML catalog and appends each entry to its bucket. Entries
//	already present (same task, proficiency, and query) are skipped, so
//	reloading the same file is idempotent and the append-only contract
//	holds. Stops at the first invalid entry.
//
// Inputs:
//
//	r - YAML catalog stream.
//
// Outputs:
//
//	int   - Number of examples actually appended.
//	error - Read, parse, or per-entry validation failure. Entries
//	appended before the failure stay in the catalog.
func (s *Store) LoadCatalog(r io.Reader) (int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("read catalog: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return 0, fmt.Errorf("parse catalog: %w", err)
	}

	added := 0
	for i, entry := range file.Examples {
		task, err := datatypes.ParseTaskType(entry.Task)
		if err != nil {
			return added, fmt.Errorf("catalog entry %d: %w", i, err)
		}
		prof, err := datatypes.ParseProficiency(entry.Proficiency)
		if err != nil {
			return added, fmt.Errorf("catalog entry %d: %w", i, err)
		}
		if s.Has(task, prof, entry.Query) {
			continue
		}
		ex := datatypes.Example{
			Query:          entry.Query,
			ExpectedOutput: entry.ExpectedOutput,
		}
		if err := s.Add(task, prof, ex); err != nil {
			return added, fmt.Errorf("catalog entry %d: %w", i, err)
		}
		added++
	}
	return added, nil
}

// LoadCatalogFile appends the entries of a YAML catalog file.
func (s *Store) LoadCatalogFile(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return s.LoadCatalog(f)
}
