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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_AddDocumentAndRetrieve(t *testing.T) {
	store := NewMemoryStore()

	added, err := store.AddDocument(Document{
		Source:     "Constitution of India",
		ArticleRef: "Article 368",
		Content:    "Parliament may in exercise of its constituent power amend by way of addition, variation or repeal any provision of this Constitution.",
	})
	require.NoError(t, err)
	require.Equal(t, 1, added)

	_, err = store.AddDocument(Document{
		Source:  "Commentary",
		Content: "The national bird of India is the peacock.",
	})
	require.NoError(t, err)

	got, err := store.Retrieve(context.Background(), "Can Parliament amend any provision of the Constitution?", 5)
	require.NoError(t, err)
	require.Len(t, got, 1, "unrelated snippet must not be returned")
	assert.Equal(t, "Constitution of India, Article 368", got[0].Source)
}

func TestMemoryStore_ReingestIsIdempotent(t *testing.T) {
	store := NewMemoryStore()
	doc := Document{Source: "Constitution of India", Content: "Equality before the law."}

	added, err := store.AddDocument(doc)
	require.NoError(t, err)
	require.Equal(t, 1, added)

	again, err := store.AddDocument(doc)
	require.NoError(t, err)
	assert.Zero(t, again, "same content chunks to the same IDs and is skipped")
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStore_RetrieveHonorsContext(t *testing.T) {
	store := NewMemoryStore()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Retrieve(ctx, "amendment", 3)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIngestAll_FanOut(t *testing.T) {
	store := NewMemoryStore()
	docs := []Document{
		{Source: "Constitution of India", ArticleRef: "Article 14", Content: "The State shall not deny to any person equality before the law."},
		{Source: "Constitution of India", ArticleRef: "Article 19", Content: "All citizens shall have the right to freedom of speech and expression."},
		{Source: "Constitution of India", ArticleRef: "Article 21", Content: "No person shall be deprived of his life or personal liberty except according to procedure established by law."},
	}

	total, err := IngestAll(context.Background(), store, docs, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Equal(t, 3, store.Len())
}

// failingIngester errors on a chosen source.
type failingIngester struct {
	inner   *MemoryStore
	failOn  string
	failErr error
}

func (f *failingIngester) Ingest(ctx context.Context, doc Document) (int, error) {
	if doc.Source == f.failOn {
		return 0, f.failErr
	}
	return f.inner.Ingest(ctx, doc)
}

func TestIngestAll_PropagatesFirstFailure(t *testing.T) {
	boom := errors.New("backend unavailable")
	ing := &failingIngester{inner: NewMemoryStore(), failOn: "bad", failErr: boom}

	docs := []Document{
		{Source: "good", Content: "Directive principles guide state policy."},
		{Source: "bad", Content: "This one fails."},
	}

	_, err := IngestAll(context.Background(), ing, docs, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), `ingest "bad"`)
}

func TestIngestAll_DefaultLimit(t *testing.T) {
	store := NewMemoryStore()
	total, err := IngestAll(context.Background(), store, []Document{
		{Source: "Preamble", Content: "We, the people of India, having solemnly resolved to constitute India into a sovereign socialist secular democratic republic."},
	}, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}
