// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package badger persists the evidence corpus in BadgerDB.
//
// Snippets live under the "snippet:" keyspace as JSON values with
// content-derived UUID keys. Retrieval scans the keyspace in a read
// transaction and ranks in process; corpora are curated and small enough
// that a full scan beats maintaining an inverted index here.
//
// License: BadgerDB is Apache 2.0 licensed (github.com/dgraph-io/badger).
// This package follows Apache 2.0 guidelines for attribution and usage.
package badger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/sakxhamm/CivicsCoach-sub000/services/evidence"
	"github.com/sakxhamm/CivicsCoach-sub000/services/prompting/datatypes"
)

// snippetPrefix is the keyspace for evidence snippets.
const snippetPrefix = "snippet:"

// Config holds configuration for the BadgerDB evidence store.
type Config struct {
	// Path is the directory for BadgerDB files.
	// Required unless InMemory is true.
	Path string

	// InMemory runs without disk I/O. Data is lost on Close.
	InMemory bool

	// SyncWrites fsyncs every write. Slower, durable.
	SyncWrites bool

	// GCInterval is how often to run value log garbage collection.
	// Default: 5 minutes. Zero disables GC.
	GCInterval time.Duration

	// GCDiscardRatio is the minimum ratio of discardable data before GC.
	// Default: 0.5.
	GCDiscardRatio float64

	// Logger for store and BadgerDB internal events.
	// Nil disables BadgerDB's internal logging.
	Logger *slog.Logger
}

// DefaultConfig returns production defaults: durable writes, GC every
// five minutes at a 50% discard threshold.
func DefaultConfig() Config {
	return Config{
		SyncWrites:     true,
		GCInterval:     5 * time.Minute,
		GCDiscardRatio: 0.5,
	}
}

// InMemoryConfig returns a test configuration: no disk, no GC.
func InMemoryConfig() Config {
	return Config{
		InMemory:   true,
		SyncWrites: false,
		GCInterval: 0,
	}
}

// badgerLogger adapts slog.Logger to BadgerDB's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// Store is a BadgerDB-backed evidence corpus.
//
// Thread Safety: safe for concurrent use; BadgerDB transactions
// provide isolation.
type Store struct {
	db     *badger.DB
	logger *slog.Logger

	gcRatio  float64
	stopCh   chan struct{}
	doneCh   chan struct{}
	gcActive bool
}

// Open creates a store with the given configuration.
//
// # Description
//
// Opens BadgerDB at the configured path, or in memory, and starts the
// GC goroutine when an interval is set. Caller must Close() when done.
//
// Inputs:
//
//	cfg - Store configuration. Path required unless InMemory.
//
// Outputs:
//
//	*Store - The opened store.
//	error - Non-nil if path is missing or the database cannot open.
func Open(cfg Config) (*Store, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for persistent database")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0750); err != nil {
			return nil, fmt.Errorf("create database directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites)

	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Store{
		db:      db,
		logger:  logger,
		gcRatio: cfg.GCDiscardRatio,
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}

	// Value log GC only applies to on-disk stores.
	if !cfg.InMemory && cfg.GCInterval > 0 {
		s.gcActive = true
		go s.runGC(cfg.GCInterval)
	}

	return s, nil
}

// Close stops the GC goroutine and closes the database.
func (s *Store) Close() error {
	if s.gcActive {
		close(s.stopCh)
		<-s.doneCh
		s.gcActive = false
	}
	return s.db.Close()
}

func (s *Store) runGC(interval time.Duration) {
	defer close(s.doneCh)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			// ErrNoRewrite means no GC was needed, not an error.
			err := s.db.RunValueLogGC(s.gcRatio)
			if err == nil {
				s.logger.Debug("badger value log GC completed")
			} else if !errors.Is(err, badger.ErrNoRewrite) {
				s.logger.Warn("badger value log GC error", slog.String("error", err.Error()))
			}
		}
	}
}

// Put writes one snippet. An empty ID gets a content-derived one, so
// writing the same text twice lands on the same key.
func (s *Store) Put(ctx context.Context, sn datatypes.Snippet) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if sn.Text == "" {
		return errors.New("snippet text must not be empty")
	}
	if sn.ID == "" {
		sn.ID = evidence.SnippetID(sn.Text)
	}

	data, err := json.Marshal(sn)
	if err != nil {
		return fmt.Errorf("encode snippet %s: %w", sn.ID, err)
	}

	key := []byte(snippetPrefix + sn.ID)
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
	if err != nil {
		return fmt.Errorf("write snippet %s: %w", sn.ID, err)
	}
	return nil
}

// Ingest chunks a document and writes every chunk.
func (s *Store) Ingest(ctx context.Context, doc evidence.Document) (int, error) {
	chunks, err := evidence.SplitDocument(doc)
	if err != nil {
		return 0, fmt.Errorf("split document %q: %w", doc.Source, err)
	}

	written := 0
	for _, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		sn := datatypes.Snippet{
			ID:     evidence.SnippetID(chunk),
			Source: doc.Citation(),
			Text:   chunk,
		}
		if err := s.Put(ctx, sn); err != nil {
			return written, err
		}
		written++
	}

	evidence.RecordIngest(ctx, "badger", written)
	s.logger.Info("Ingested document",
		slog.String("source", doc.Source),
		slog.Int("chunks", written))
	return written, nil
}

// Retrieve scans the snippet keyspace and ranks in process.
//
// Description:
//
//	One read transaction walks the "snippet:" prefix, decodes every
//	snippet, then ranks lexically. Corrupt values are skipped with a
//	warning instead of failing the whole query.
//
// Outputs:
//
//	[]datatypes.Snippet - Up to count snippets, best matches first.
//	error - Non-nil on transaction failure or canceled context.
func (s *Store) Retrieve(ctx context.Context, query string, count int) ([]datatypes.Snippet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	var snippets []datatypes.Snippet
	prefix := []byte(snippetPrefix)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			err := it.Item().Value(func(val []byte) error {
				var sn datatypes.Snippet
				if err := json.Unmarshal(val, &sn); err != nil {
					s.logger.Warn("Skipping corrupt snippet",
						slog.String("key", string(it.Item().Key())),
						slog.String("error", err.Error()))
					return nil
				}
				snippets = append(snippets, sn)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		evidence.RecordRetrieve(ctx, "badger", time.Since(start), 0, false)
		return nil, fmt.Errorf("scan snippets: %w", err)
	}

	ranked := evidence.Rank(query, snippets, count)
	evidence.RecordRetrieve(ctx, "badger", time.Since(start), len(ranked), true)
	return ranked, nil
}

// Count reports how many snippets are stored.
func (s *Store) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	n := 0
	prefix := []byte(snippetPrefix)
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			n++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("count snippets: %w", err)
	}
	return n, nil
}
