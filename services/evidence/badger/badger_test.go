// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package badger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakxhamm/CivicsCoach-sub000/services/evidence"
	"github.com/sakxhamm/CivicsCoach-sub000/services/prompting/datatypes"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(InMemoryConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open(Config{InMemory: false, Path: ""})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "path is required")
}

func TestConfigFunctions(t *testing.T) {
	t.Run("DefaultConfig has SyncWrites", func(t *testing.T) {
		cfg := DefaultConfig()
		assert.True(t, cfg.SyncWrites)
		assert.False(t, cfg.InMemory)
		assert.Equal(t, 5*time.Minute, cfg.GCInterval)
		assert.Equal(t, 0.5, cfg.GCDiscardRatio)
	})

	t.Run("InMemoryConfig disables GC", func(t *testing.T) {
		cfg := InMemoryConfig()
		assert.True(t, cfg.InMemory)
		assert.False(t, cfg.SyncWrites)
		assert.Equal(t, time.Duration(0), cfg.GCInterval)
	})
}

func TestStore_PutAndRetrieve(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, datatypes.Snippet{
		Source: "Constitution of India, Article 368",
		Text:   "Parliament may amend the Constitution by the special majority procedure.",
	}))
	require.NoError(t, s.Put(ctx, datatypes.Snippet{
		Source: "Commentary",
		Text:   "The peacock is the national bird.",
	}))

	got, err := s.Retrieve(ctx, "How may Parliament amend the Constitution?", 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Constitution of India, Article 368", got[0].Source)
	assert.NotEmpty(t, got[0].ID, "Put fills a content-derived ID")
}

func TestStore_PutSameTextLandsOnSameKey(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	sn := datatypes.Snippet{Source: "a", Text: "Equality before the law."}
	require.NoError(t, s.Put(ctx, sn))
	require.NoError(t, s.Put(ctx, sn))

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestStore_PutRejectsEmptyText(t *testing.T) {
	s := openTestStore(t)
	err := s.Put(context.Background(), datatypes.Snippet{Source: "a"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "text must not be empty")
}

func TestStore_Ingest(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	n, err := s.Ingest(ctx, evidence.Document{
		Source:     "Constitution of India",
		ArticleRef: "Article 21",
		Content:    "No person shall be deprived of his life or personal liberty except according to procedure established by law.",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := s.Retrieve(ctx, "deprived of life or personal liberty", 3)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Constitution of India, Article 21", got[0].Source)
}

func TestStore_RetrieveHonorsContext(t *testing.T) {
	s := openTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Retrieve(ctx, "amendment", 3)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	cfg := DefaultConfig()
	cfg.Path = dir
	cfg.SyncWrites = false
	cfg.GCInterval = 0

	s, err := Open(cfg)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, s.Put(ctx, datatypes.Snippet{
		Source: "Kesavananda Bharati (1973)",
		Text:   "The amendment power does not reach the basic structure.",
	}))
	require.NoError(t, s.Close())

	s2, err := Open(cfg)
	require.NoError(t, err)
	defer s2.Close()

	got, err := s2.Retrieve(ctx, "basic structure amendment power", 3)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Kesavananda Bharati (1973)", got[0].Source)
}
