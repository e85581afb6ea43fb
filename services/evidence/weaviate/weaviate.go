// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package weaviate backs the evidence corpus with Weaviate BM25 search.
//
// The CivicsEvidence class is keyword-indexed only (Vectorizer "none");
// BM25 needs no embeddings, which keeps ingestion a single batch call.
package weaviate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"

	"github.com/sakxhamm/CivicsCoach-sub000/services/evidence"
	"github.com/sakxhamm/CivicsCoach-sub000/services/prompting/datatypes"
)

// ClassName is the Weaviate class holding evidence snippets.
const ClassName = "CivicsEvidence"

// Store is a Weaviate-backed evidence corpus.
type Store struct {
	client *weaviate.Client
	logger *slog.Logger
}

// New creates a store from a Weaviate client config.
func New(cfg weaviate.Config, logger *slog.Logger) (*Store, error) {
	client, err := weaviate.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("create weaviate client: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{client: client, logger: logger}, nil
}

// NewFromURL creates a store from a full service URL such as
// "http://weaviate:8080".
func NewFromURL(rawURL string, logger *slog.Logger) (*Store, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid weaviate url %q", rawURL)
	}
	return New(weaviate.Config{Host: parsed.Host, Scheme: parsed.Scheme}, logger)
}

// classSchema returns the CivicsEvidence class definition.
func classSchema() *models.Class {
	indexFilterable := new(bool)
	*indexFilterable = true

	return &models.Class{
		Class:       ClassName,
		Description: "Evidence snippets grounding constitutional answers",
		Vectorizer:  "none",
		InvertedIndexConfig: &models.InvertedIndexConfig{
			IndexTimestamps: true,
		},
		Properties: []*models.Property{
			{
				Name:         "content",
				DataType:     []string{"text"},
				Description:  "Snippet text",
				Tokenization: "word",
			},
			{
				Name:            "source",
				DataType:        []string{"text"},
				Description:     "Attribution line, e.g. Constitution of India, Article 368",
				IndexFilterable: indexFilterable,
				Tokenization:    "field",
			},
			{
				Name:         "articleRef",
				DataType:     []string{"text"},
				Description:  "Article or case citation within the source",
				Tokenization: "word",
			},
		},
	}
}

// EnsureSchema creates the CivicsEvidence class if it doesn't exist.
// Idempotent.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.client.Schema().ClassGetter().WithClassName(ClassName).Do(ctx)
	if err == nil {
		s.logger.Info("CivicsEvidence schema already exists")
		return nil
	}

	s.logger.Info("Creating CivicsEvidence schema")
	if err := s.client.Schema().ClassCreator().WithClass(classSchema()).Do(ctx); err != nil {
		return fmt.Errorf("creating CivicsEvidence schema: %w", err)
	}
	return nil
}

// Ingest chunks a document and batch imports every chunk.
//
// # Description
//
// Chunk IDs derive from content hashes, so re-ingesting a document
// overwrites its own objects instead of duplicating them. Per-item batch
// failures are logged and excluded from the returned count; only a
// failed batch call errors.
//
// Inputs:
//
//	ctx - Context for cancellation.
//	doc - Source document.
//
// Outputs:
//
//	int - Chunks confirmed stored.
//	error - Non-nil if splitting or the batch call fails.
func (s *Store) Ingest(ctx context.Context, doc evidence.Document) (int, error) {
	chunks, err := evidence.SplitDocument(doc)
	if err != nil {
		return 0, fmt.Errorf("split document %q: %w", doc.Source, err)
	}
	if len(chunks) == 0 {
		s.logger.Warn("No chunks produced after splitting", slog.String("source", doc.Source))
		return 0, nil
	}

	objects := make([]*models.Object, len(chunks))
	for i, chunk := range chunks {
		objects[i] = &models.Object{
			Class: ClassName,
			ID:    strfmt.UUID(evidence.SnippetID(chunk)),
			Properties: map[string]interface{}{
				"content":    chunk,
				"source":     doc.Citation(),
				"articleRef": doc.ArticleRef,
			},
		}
	}

	resp, err := s.client.Batch().ObjectsBatcher().WithObjects(objects...).Do(ctx)
	if err != nil {
		return 0, fmt.Errorf("batch import to weaviate: %w", err)
	}

	stored := 0
	for _, item := range resp {
		if item.Result != nil && item.Result.Status != nil && *item.Result.Status == "SUCCESS" {
			stored++
			continue
		}
		if item.Result != nil && item.Result.Errors != nil && len(item.Result.Errors.Error) > 0 {
			for _, errItem := range item.Result.Errors.Error {
				s.logger.Warn("Error in weaviate batch item",
					slog.String("source", doc.Source),
					slog.String("error", errItem.Message))
			}
		} else {
			s.logger.Warn("Failed weaviate batch item, no error provided",
				slog.String("source", doc.Source))
		}
	}

	evidence.RecordIngest(ctx, "weaviate", stored)
	s.logger.Info("Ingested document",
		slog.String("source", doc.Source),
		slog.Int("chunks", stored))
	return stored, nil
}

// Retrieve runs a BM25 search over snippet content.
func (s *Store) Retrieve(ctx context.Context, query string, count int) ([]datatypes.Snippet, error) {
	if count <= 0 {
		return nil, nil
	}

	start := time.Now()
	fields := []graphql.Field{
		{Name: "content"},
		{Name: "source"},
		{Name: "articleRef"},
		{Name: "_additional { id }"},
	}

	result, err := s.client.GraphQL().Get().
		WithClassName(ClassName).
		WithFields(fields...).
		WithBM25(s.client.GraphQL().Bm25ArgBuilder().WithQuery(query)).
		WithLimit(count).
		Do(ctx)
	if err != nil {
		evidence.RecordRetrieve(ctx, "weaviate", time.Since(start), 0, false)
		return nil, fmt.Errorf("bm25 search: %w", err)
	}
	if len(result.Errors) > 0 {
		evidence.RecordRetrieve(ctx, "weaviate", time.Since(start), 0, false)
		return nil, errors.New("bm25 search: " + result.Errors[0].Message)
	}

	data, ok := result.Data["Get"].(map[string]interface{})
	if !ok {
		return nil, nil
	}
	objects, ok := data[ClassName].([]interface{})
	if !ok {
		return nil, nil
	}

	snippets := make([]datatypes.Snippet, 0, len(objects))
	for _, obj := range objects {
		m, ok := obj.(map[string]interface{})
		if !ok {
			continue
		}
		snippets = append(snippets, datatypes.Snippet{
			ID:     additionalID(m),
			Source: getString(m, "source"),
			Text:   getString(m, "content"),
		})
	}

	evidence.RecordRetrieve(ctx, "weaviate", time.Since(start), len(snippets), true)
	return snippets, nil
}

// getString safely extracts a string from a map.
func getString(m map[string]interface{}, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// additionalID extracts the object ID from the _additional payload.
func additionalID(m map[string]interface{}) string {
	add, ok := m["_additional"].(map[string]interface{})
	if !ok {
		return ""
	}
	return getString(add, "id")
}
