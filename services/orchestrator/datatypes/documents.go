// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// This file contains request and response types for evidence corpus
// ingestion.

package datatypes

// MaxDocumentBytes is the maximum size of one ingested document.
// Constitutional articles and judgment extracts fit comfortably;
// whole books do not belong in a single request.
const MaxDocumentBytes = 512 * 1024 // 512KB

// IngestDocumentRequest is the body of POST /api/v1/documents. The
// document is chunked and indexed into the evidence store.
type IngestDocumentRequest struct {
	// Source names where the text comes from, e.g. "Constitution of India".
	Source string `json:"source" validate:"required,max=256"`

	// ArticleRef pins the citation, e.g. "Article 368". Optional.
	ArticleRef string `json:"articleRef" validate:"omitempty,max=256"`

	// Content is the full text to chunk and index.
	Content string `json:"content" validate:"required,maxdocbytes"`
}

// Validate checks field constraints.
func (r *IngestDocumentRequest) Validate() error {
	return apiValidate.Struct(r)
}

// IngestDocumentResponse reports how much of the document was indexed.
type IngestDocumentResponse struct {
	// Source echoes the document source.
	Source string `json:"source"`

	// Chunks is the number of snippets indexed from this document.
	Chunks int `json:"chunks"`
}
