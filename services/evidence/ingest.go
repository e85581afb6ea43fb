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
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// DefaultIngestConcurrency bounds corpus fan-out so a large import cannot
// flood the backend with parallel batch requests.
const DefaultIngestConcurrency = 4

// IngestAll fans a corpus out to an ingester with bounded concurrency.
//
// # Description
//
// Each document ingests in its own goroutine, at most limit at a time.
// The first failure cancels the remaining work and is returned wrapped
// with the failing document's source. Documents already in flight finish
// or observe the canceled context.
//
// Inputs:
//
//	ctx - Cancels outstanding ingestion.
//	ing - Target backend.
//	docs - Corpus to import.
//	limit - Max concurrent documents. Non-positive uses
//	DefaultIngestConcurrency.
//
// Outputs:
//
//	int - Total chunks indexed across all documents that completed.
//	error - First ingestion failure, or ctx error.
func IngestAll(ctx context.Context, ing Ingester, docs []Document, limit int) (int, error) {
	if limit <= 0 {
		limit = DefaultIngestConcurrency
	}

	var total atomic.Int64
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for _, doc := range docs {
		doc := doc
		g.Go(func() error {
			n, err := ing.Ingest(gCtx, doc)
			if err != nil {
				return fmt.Errorf("ingest %q: %w", doc.Source, err)
			}
			total.Add(int64(n))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return int(total.Load()), err
	}
	return int(total.Load()), nil
}
