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
	"crypto/sha256"

	"github.com/google/uuid"
	"github.com/tmc/langchaingo/textsplitter"
)

var (
	// ChunkSize is the target chunk length in characters.
	ChunkSize = 800

	// ChunkOverlap is 10% of ChunkSize.
	ChunkOverlap = int(float64(ChunkSize) * 0.10)

	// Constitutional texts and commentary arrive as markdown, so the
	// separator ladder prefers heading boundaries before paragraphs.
	markdownSeparators = []string{
		"\n# ", "\n## ", "\n### ", "\n#### ", "\n##### ", "\n###### ",
		"\n\n", "\n", " ", "",
	}
)

// SplitDocument chunks a document's content for indexing.
func SplitDocument(doc Document) ([]string, error) {
	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(ChunkSize),
		textsplitter.WithChunkOverlap(ChunkOverlap),
		textsplitter.WithSeparators(markdownSeparators),
	)
	return splitter.SplitText(doc.Content)
}

// SnippetID derives a stable ID from chunk content, so re-ingesting the
// same text lands on the same key in every backend.
func SnippetID(text string) string {
	hash := sha256.Sum256([]byte(text))
	id, _ := uuid.FromBytes(hash[:16])
	return id.String()
}
