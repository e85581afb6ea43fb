// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package examplestore

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces editor write bursts into one reload.
const DefaultDebounce = 500 * time.Millisecond

// Watcher reloads a YAML catalog file into a Store when it changes.
//
// # Description
//
// Watches the catalog file's directory (editors commonly replace files
// by rename, which a file-level watch misses), debounces write bursts,
// and re-parses the file. Only entries not yet present are appended, so
// a reload never mutates or removes existing examples.
type Watcher struct {
	store    *Store
	path     string
	debounce time.Duration
	logger   *slog.Logger
	fsw      *fsnotify.Watcher
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewWatcher creates a catalog watcher.
//
// Inputs:
//
//	store    - Target catalog. Must not be nil.
//	path     - Catalog file to watch. Must not be empty; need not exist
//	           yet (creation triggers the first load).
//	debounce - Quiet period before a reload. Non-positive uses
//	           DefaultDebounce.
//	logger   - Optional logger. Nil uses slog.Default().
//
// Outputs:
//
//	*Watcher - The watcher. Not started until Start() is called.
//	error    - Non-nil if inputs are invalid.
func NewWatcher(store *Store, path string, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	if store == nil {
		return nil, errors.New("store must not be nil")
	}
	if path == "" {
		return nil, errors.New("path must not be empty")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Watcher{
		store:    store,
		path:     filepath.Clean(path),
		debounce: debounce,
		logger:   logger,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start begins watching the catalog file.
//
// Thread Safety: call once. Stop() must only be called after a
// successful Start().
func (w *Watcher) Start() error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	dir := filepath.Dir(w.path)
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	w.fsw = fsw
	go w.run()
	return nil
}

// Stop halts watching and waits for the watch loop to finish.
func (w *Watcher) Stop() {
	close(w.stopCh)
	<-w.doneCh
	w.fsw.Close()
}

func (w *Watcher) run() {
	defer close(w.doneCh)

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				// Restart the quiet period. Drain a fired-but-unread
				// timer first so Reset starts clean.
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("catalog watch error", slog.String("error", err.Error()))
		case <-timer.C:
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	added, err := w.store.LoadCatalogFile(w.path)
	if err != nil {
		w.logger.Warn("catalog reload failed",
			slog.String("path", w.path),
			slog.String("error", err.Error()))
		return
	}
	if added > 0 {
		w.logger.Info("catalog reloaded",
			slog.String("path", w.path),
			slog.Int("examples_added", added))
	}
}
