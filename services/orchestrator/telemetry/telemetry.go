// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package telemetry records per-debate quality samples to InfluxDB.
//
// Prometheus metrics answer "how is the service doing right now";
// these samples answer "how has answer quality moved over weeks".
// Each completed debate writes one point tagged by task, strategy,
// complexity level, and backend, so dashboards can break quality
// down along any of those axes.
//
// Telemetry is optional. When no InfluxDB is configured the service
// uses the Nop recorder and drops samples silently.
package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
)

// debateMeasurement is the InfluxDB measurement name for samples.
const debateMeasurement = "debate_quality"

// Sample is one completed debate's quality record.
type Sample struct {
	// Task is the task type that was requested.
	Task string

	// Strategy is the payload strategy that was applied.
	Strategy string

	// Level is the analyzed complexity level.
	Level string

	// Backend names the generation backend that served the request.
	Backend string

	// LatencyMS is the total generation time across attempts.
	LatencyMS int64

	// Score is the analyzer's complexity score for the query.
	Score float64

	// Attempts is the number of backend calls made.
	Attempts int

	// Valid reports whether the output passed schema validation.
	Valid bool

	// EvidenceCount is the number of snippets used for grounding.
	EvidenceCount int

	// At is the sample time. Zero means "now".
	At time.Time
}

// Recorder accepts debate quality samples.
type Recorder interface {
	// Record writes one sample. Implementations must not block the
	// debate path for long; callers treat errors as non-fatal.
	Record(ctx context.Context, s Sample) error

	// Close flushes and releases the recorder's resources.
	Close()
}

// =============================================================================
// Nop Recorder
// =============================================================================

// Nop is a Recorder that drops every sample. Used when no InfluxDB
// is configured.
type Nop struct{}

// Record discards the sample.
func (Nop) Record(context.Context, Sample) error { return nil }

// Close does nothing.
func (Nop) Close() {}

// =============================================================================
// Influx Recorder
// =============================================================================

// InfluxConfig holds the connection settings for an InfluxRecorder.
type InfluxConfig struct {
	URL    string
	Token  string
	Org    string
	Bucket string
}

// InfluxRecorder writes samples to an InfluxDB bucket using the
// blocking write API. One debate writes one point; the write happens
// after the response is already on its way to the caller.
type InfluxRecorder struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	logger   *slog.Logger
}

// NewInfluxRecorder connects to InfluxDB and verifies it is healthy.
//
// Unlike the Prometheus registry, InfluxDB is a remote dependency
// that may simply not be deployed. A failed health check returns an
// error so the caller can log it and fall back to Nop instead of
// refusing to start.
func NewInfluxRecorder(ctx context.Context, cfg InfluxConfig, logger *slog.Logger) (*InfluxRecorder, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.URL == "" {
		return nil, fmt.Errorf("influxdb url is required")
	}

	client := influxdb2.NewClient(cfg.URL, cfg.Token)

	healthCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	health, err := client.Health(healthCtx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("influxdb health check failed: %w", err)
	}
	if health.Status != "pass" {
		var msg string
		if health.Message != nil {
			msg = *health.Message
		}
		client.Close()
		return nil, fmt.Errorf("influxdb not healthy: status=%s message=%s", health.Status, msg)
	}

	logger.Info("Connected to InfluxDB for debate telemetry",
		"influx_url", cfg.URL,
		"influx_org", cfg.Org,
		"influx_bucket", cfg.Bucket)

	return &InfluxRecorder{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		logger:   logger,
	}, nil
}

// Record writes one debate_quality point.
func (r *InfluxRecorder) Record(ctx context.Context, s Sample) error {
	at := s.At
	if at.IsZero() {
		at = time.Now()
	}

	p := influxdb2.NewPoint(
		debateMeasurement,
		map[string]string{
			"task":     s.Task,
			"strategy": s.Strategy,
			"level":    s.Level,
			"backend":  s.Backend,
		},
		map[string]interface{}{
			"latency_ms":     s.LatencyMS,
			"score":          s.Score,
			"attempts":       s.Attempts,
			"valid":          s.Valid,
			"evidence_count": s.EvidenceCount,
		},
		at,
	)

	if err := r.writeAPI.WritePoint(ctx, p); err != nil {
		return fmt.Errorf("failed to write telemetry point: %w", err)
	}
	return nil
}

// Close flushes buffered writes and closes the client.
func (r *InfluxRecorder) Close() {
	r.client.Close()
}
