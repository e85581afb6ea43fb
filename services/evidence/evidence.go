// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package evidence stores and retrieves source snippets that ground
// generated answers: constitutional articles, case law excerpts, and
// commentary. Retrieval is ranked and deterministic; a store may return
// fewer snippets than asked for but never fabricates content.
//
// Backends:
//   - MemoryStore: in-process corpus, lexical ranking
//   - badger: persistent corpus on BadgerDB, lexical ranking
//   - weaviate: Weaviate BM25 search over the CivicsEvidence class
package evidence

import (
	"context"
	"sort"
	"strings"

	"github.com/sakxhamm/CivicsCoach-sub000/services/prompting/datatypes"
)

// Document is a source text before chunking: one article, judgment, or
// commentary section.
type Document struct {
	// Source names where the text comes from, e.g. "Constitution of India".
	Source string `json:"source"`

	// ArticleRef pins the citation, e.g. "Article 368" or
	// "Kesavananda Bharati (1973), para 316". Optional.
	ArticleRef string `json:"articleRef,omitempty"`

	// Content is the full text to be chunked and indexed.
	Content string `json:"content"`
}

// Citation renders the document's attribution line used as the
// snippet Source.
func (d Document) Citation() string {
	if d.ArticleRef == "" {
		return d.Source
	}
	return d.Source + ", " + d.ArticleRef
}

// Store retrieves ranked evidence snippets for a query.
type Store interface {
	// Retrieve returns up to count snippets, best matches first.
	// Deterministic for a fixed corpus; may return fewer than count.
	Retrieve(ctx context.Context, query string, count int) ([]datatypes.Snippet, error)
}

// Ingester adds a document to a corpus, returning how many chunks were
// indexed.
type Ingester interface {
	Ingest(ctx context.Context, doc Document) (int, error)
}

// Rank orders snippets by shared-word count with the query, descending,
// and returns the top count.
//
// # Description
//
// The same lexical scoring family the example store uses: lowercase
// whitespace tokens, set intersection size. Ties keep input order, so
// a fixed corpus always ranks the same way. Snippets sharing no words
// with the query are dropped rather than padded in; irrelevant evidence
// is worse than less evidence.
//
// Inputs:
//
//	query    - Query text. Blank yields nil.
//	snippets - Candidate snippets in corpus order.
//	count    - Maximum to return. Non-positive yields nil.
//
// Outputs:
//
//	[]datatypes.Snippet - Fresh slice, never aliasing the input backing
//	array's tail.
func Rank(query string, snippets []datatypes.Snippet, count int) []datatypes.Snippet {
	if count <= 0 || strings.TrimSpace(query) == "" {
		return nil
	}

	queryWords := wordSet(query)

	type scored struct {
		idx   int
		score int
	}
	ranked := make([]scored, 0, len(snippets))
	for i, sn := range snippets {
		if s := overlap(queryWords, sn.Text); s > 0 {
			ranked = append(ranked, scored{idx: i, score: s})
		}
	}

	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].score > ranked[b].score
	})

	if count > len(ranked) {
		count = len(ranked)
	}
	out := make([]datatypes.Snippet, 0, count)
	for _, r := range ranked[:count] {
		out = append(out, snippets[r.idx])
	}
	return out
}

// wordSet lowercases and splits text into a set of whitespace tokens.
func wordSet(text string) map[string]struct{} {
	words := strings.Fields(strings.ToLower(text))
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[strings.Trim(w, ".,;:!?\"'()")] = struct{}{}
	}
	return set
}

// overlap counts how many of the query's words appear in the text.
func overlap(queryWords map[string]struct{}, text string) int {
	n := 0
	for w := range wordSet(text) {
		if w == "" {
			continue
		}
		if _, ok := queryWords[w]; ok {
			n++
		}
	}
	return n
}
