// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package examplestore holds curated worked examples for few-shot prompts.
//
// Examples live in an in-memory catalog partitioned by (TaskType,
// Proficiency). The catalog is append-only: runtime additions are
// supported, updates and deletions are not. This is the one piece of
// shared mutable state in the prompting subsystem, so its concurrency
// contract lives here and nowhere else: a reader sees an appended
// example entirely or not at all, never a partial entry.
package examplestore

import (
	"sort"
	"strings"
	"sync"

	"github.com/sakxhamm/CivicsCoach-sub000/services/prompting/datatypes"
)

// =============================================================================
// Store
// =============================================================================

type bucketKey struct {
	Task        datatypes.TaskType
	Proficiency datatypes.Proficiency
}

// Store is the append-only example catalog.
//
// # Description
//
// Lookup ranks a bucket's examples by lexical overlap with the incoming
// query and returns the top k. An empty or unknown proficiency bucket
// falls back to the intermediate bucket for the same task, so callers
// always get the best available material without erroring.
//
// Thread Safety: safe for concurrent use. Reads take the read lock,
// appends the write lock.
type Store struct {
	mu      sync.RWMutex
	catalog map[bucketKey][]datatypes.Example
}

// NewStore returns an empty catalog.
func NewStore() *Store {
	return &Store{
		catalog: make(map[bucketKey][]datatypes.Example),
	}
}

// NewStoreWithDefaults returns a catalog seeded with the curated civics
// examples covering every task type at every proficiency.
func NewStoreWithDefaults() *Store {
	s := NewStore()
	for _, entry := range seedCatalog {
		key := bucketKey{Task: entry.Task, Proficiency: entry.Proficiency}
		s.catalog[key] = append(s.catalog[key], entry.Example)
	}
	return s
}

// Add appends an example to a (TaskType, Proficiency) bucket.
//
// Description:
//
//	Validates the bucket coordinates and the example content, then
//	copies the example in under the write lock. There is no update or
//	delete: the catalog only grows.
//
// Inputs:
//
//	task        - Must be a known task type.
//	proficiency - Must be a known proficiency.
//	ex          - Query and expected output must both be non-empty.
//
// Outputs:
//
//	error - InputError on an unknown bucket or empty example, nil on
//	success.
func (s *Store) Add(task datatypes.TaskType, proficiency datatypes.Proficiency, ex datatypes.Example) error {
	if !task.IsValid() {
		return datatypes.NewInputError(datatypes.ErrCodeUnknownTaskType,
			"unknown task type: "+string(task))
	}
	if !proficiency.IsValid() {
		return datatypes.NewInputError(datatypes.ErrCodeUnknownProficiency,
			"unknown proficiency: "+string(proficiency))
	}
	if strings.TrimSpace(ex.Query) == "" {
		return datatypes.NewInputError(datatypes.ErrCodeEmptyQuery,
			"example query must not be empty")
	}
	if strings.TrimSpace(ex.ExpectedOutput) == "" {
		return datatypes.NewInputError(datatypes.ErrCodeEmptyQuery,
			"example expected output must not be empty")
	}

	key := bucketKey{Task: task, Proficiency: proficiency}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog[key] = append(s.catalog[key], ex)
	return nil
}

// Has reports whether a bucket already holds an example with this query.
//
// Identity for the append-only contract is (task, proficiency, query),
// compared case-insensitively after trimming.
func (s *Store) Has(task datatypes.TaskType, proficiency datatypes.Proficiency, query string) bool {
	want := normalizeQuery(query)
	key := bucketKey{Task: task, Proficiency: proficiency}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ex := range s.catalog[key] {
		if normalizeQuery(ex.Query) == want {
			return true
		}
	}
	return false
}

// Lookup returns up to k examples for a query, best matches first.
//
// Description:
//
//	Ranks the (task, proficiency) bucket by shared-word count between
//	the incoming query and each example's stored query, case-insensitive,
//	descending. Ties keep catalog order. An empty bucket, including one
//	addressed by an unknown proficiency, falls back to the intermediate
//	bucket for the task. Returns fewer than k when the bucket is smaller;
//	never fabricates padding.
//
// Inputs:
//
//	task        - Task type bucket.
//	proficiency - Preferred proficiency bucket.
//	query       - Incoming query used for overlap ranking.
//	k           - Maximum examples to return. Non-positive yields nil.
//
// Outputs:
//
//	[]datatypes.Example - Fresh slice; mutating it does not touch the
//	catalog.
//
// Thread Safety: safe for concurrent use with Add.
func (s *Store) Lookup(task datatypes.TaskType, proficiency datatypes.Proficiency, query string, k int) []datatypes.Example {
	if k <= 0 {
		return nil
	}

	s.mu.RLock()
	bucket := s.catalog[bucketKey{Task: task, Proficiency: proficiency}]
	if len(bucket) == 0 {
		bucket = s.catalog[bucketKey{Task: task, Proficiency: datatypes.ProficiencyIntermediate}]
	}
	// Copy out under the lock so ranking works on a stable snapshot.
	snapshot := make([]datatypes.Example, len(bucket))
	copy(snapshot, bucket)
	s.mu.RUnlock()

	if len(snapshot) == 0 {
		return nil
	}

	queryWords := wordSet(query)
	scores := make([]int, len(snapshot))
	for i, ex := range snapshot {
		scores[i] = overlap(queryWords, ex.Query)
	}

	order := make([]int, len(snapshot))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	if k > len(order) {
		k = len(order)
	}
	out := make([]datatypes.Example, 0, k)
	for _, idx := range order[:k] {
		out = append(out, snapshot[idx])
	}
	return out
}

// Count returns the number of examples in one bucket, without fallback.
func (s *Store) Count(task datatypes.TaskType, proficiency datatypes.Proficiency) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.catalog[bucketKey{Task: task, Proficiency: proficiency}])
}

// TaskTypes returns the task types with at least one example, sorted.
func (s *Store) TaskTypes() []datatypes.TaskType {
	s.mu.RLock()
	seen := make(map[datatypes.TaskType]bool)
	for key, bucket := range s.catalog {
		if len(bucket) > 0 {
			seen[key.Task] = true
		}
	}
	s.mu.RUnlock()

	out := make([]datatypes.TaskType, 0, len(seen))
	for task := range seen {
		out = append(out, task)
	}
	sort.Slice(out, func(a, b int) bool { return out[a] < out[b] })
	return out
}

// =============================================================================
// Ranking helpers
// =============================================================================

// wordSet lowercases and tokenizes text into its unique words.
func wordSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		set[w] = true
	}
	return set
}

// overlap counts how many unique words of the query set appear in text.
func overlap(queryWords map[string]bool, text string) int {
	n := 0
	for w := range wordSet(text) {
		if queryWords[w] {
			n++
		}
	}
	return n
}

func normalizeQuery(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}
