// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package evidence

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sakxhamm/CivicsCoach-sub000/services/prompting/datatypes"
)

// MemoryStore keeps the corpus in RAM. Suited to tests, the CLI, and
// small curated corpora; the persistent backends cover everything else.
//
// Thread Safety: safe for concurrent use.
type MemoryStore struct {
	mu       sync.RWMutex
	snippets []datatypes.Snippet
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// AddDocument chunks a document and indexes every chunk.
//
// Description:
//
//	Splits content with the markdown separator ladder and appends one
//	snippet per chunk. Chunk IDs are content-derived, so adding the same
//	document twice replaces nothing but also changes nothing: duplicate
//	IDs are skipped.
//
// Inputs:
//
//	doc - Source document. Blank content yields zero chunks, no error.
//
// Outputs:
//
//	int - Number of chunks newly indexed.
//	error - Non-nil if splitting fails.
func (m *MemoryStore) AddDocument(doc Document) (int, error) {
	chunks, err := SplitDocument(doc)
	if err != nil {
		return 0, fmt.Errorf("split document %q: %w", doc.Source, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	seen := make(map[string]struct{}, len(m.snippets))
	for _, sn := range m.snippets {
		seen[sn.ID] = struct{}{}
	}

	added := 0
	for _, chunk := range chunks {
		id := SnippetID(chunk)
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		m.snippets = append(m.snippets, datatypes.Snippet{
			ID:     id,
			Source: doc.Citation(),
			Text:   chunk,
		})
		added++
	}
	return added, nil
}

// Ingest implements Ingester over AddDocument.
func (m *MemoryStore) Ingest(ctx context.Context, doc Document) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	added, err := m.AddDocument(doc)
	if err == nil {
		RecordIngest(ctx, "memory", added)
	}
	return added, err
}

// Retrieve returns up to count snippets ranked by lexical overlap.
//
// Thread Safety: safe for concurrent use with AddDocument.
func (m *MemoryStore) Retrieve(ctx context.Context, query string, count int) ([]datatypes.Snippet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()

	m.mu.RLock()
	snapshot := make([]datatypes.Snippet, len(m.snippets))
	copy(snapshot, m.snippets)
	m.mu.RUnlock()

	ranked := Rank(query, snapshot, count)
	RecordRetrieve(ctx, "memory", time.Since(start), len(ranked), true)
	return ranked, nil
}

// Len reports how many snippets are indexed.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.snippets)
}
