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
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Package-level meter for evidence store operations.
var meter = otel.Meter("civicscoach.evidence")

// Metrics shared by every store backend. Recording is a no-op until a
// meter provider is installed, so the CLI pays nothing for them.
var (
	retrieveLatency  metric.Float64Histogram
	retrieveTotal    metric.Int64Counter
	snippetsReturned metric.Int64Histogram
	chunksIngested   metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		retrieveLatency, err = meter.Float64Histogram(
			"evidence_retrieve_duration_seconds",
			metric.WithDescription("Duration of evidence retrieval operations"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		retrieveTotal, err = meter.Int64Counter(
			"evidence_retrieve_total",
			metric.WithDescription("Total number of evidence retrieval operations"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		snippetsReturned, err = meter.Int64Histogram(
			"evidence_snippets_returned",
			metric.WithDescription("Number of snippets returned per retrieval"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		chunksIngested, err = meter.Int64Counter(
			"evidence_ingest_chunks_total",
			metric.WithDescription("Total chunks written across ingested documents"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// RecordRetrieve records one retrieval for the given store backend
// ("memory", "badger", "weaviate").
func RecordRetrieve(ctx context.Context, store string, duration time.Duration, count int, success bool) {
	if err := initMetrics(); err != nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("store", store),
		attribute.Bool("success", success),
	)
	retrieveLatency.Record(ctx, duration.Seconds(), attrs)
	retrieveTotal.Add(ctx, 1, attrs)

	if success {
		snippetsReturned.Record(ctx, int64(count),
			metric.WithAttributes(attribute.String("store", store)))
	}
}

// RecordIngest records the chunks accepted from one document ingest.
func RecordIngest(ctx context.Context, store string, chunks int) {
	if err := initMetrics(); err != nil {
		return
	}
	if chunks <= 0 {
		return
	}
	chunksIngested.Add(ctx, int64(chunks),
		metric.WithAttributes(attribute.String("store", store)))
}
