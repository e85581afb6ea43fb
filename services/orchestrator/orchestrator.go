// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package orchestrator provides the core orchestrator service for CivicsCoach.
//
// This package contains the main service type that coordinates all
// components: HTTP routing, the prompting pipeline, generation backends,
// the evidence store, and observability infrastructure.
//
// # Usage
//
//	cfg := orchestrator.Config{Port: 12310, LLMBackend: "ollama"}
//	svc, err := orchestrator.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	log.Fatal(svc.Run())
//
// # Degraded Modes
//
// Evidence and telemetry backends are optional. A Weaviate or BadgerDB
// failure at startup falls back to the in-memory store; a missing or
// unhealthy InfluxDB drops quality samples. Only the prompting engine
// and the generation backend are load-bearing: their failures abort New.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/sakxhamm/CivicsCoach-sub000/services/evidence"
	evidencebadger "github.com/sakxhamm/CivicsCoach-sub000/services/evidence/badger"
	evidenceweaviate "github.com/sakxhamm/CivicsCoach-sub000/services/evidence/weaviate"
	"github.com/sakxhamm/CivicsCoach-sub000/services/llm"
	"github.com/sakxhamm/CivicsCoach-sub000/services/orchestrator/middleware"
	"github.com/sakxhamm/CivicsCoach-sub000/services/orchestrator/observability"
	"github.com/sakxhamm/CivicsCoach-sub000/services/orchestrator/routes"
	"github.com/sakxhamm/CivicsCoach-sub000/services/orchestrator/services"
	"github.com/sakxhamm/CivicsCoach-sub000/services/orchestrator/telemetry"
	"github.com/sakxhamm/CivicsCoach-sub000/services/prompting"
	"github.com/sakxhamm/CivicsCoach-sub000/services/prompting/examplestore"
)

// serviceName labels traces and the otelgin middleware.
const serviceName = "civicscoach-orchestrator"

// =============================================================================
// Interface Definition
// =============================================================================

// Service defines the contract for the orchestrator service.
//
// # Description
//
// Service abstracts the orchestrator lifecycle, enabling testing and
// alternative implementations. Only essential lifecycle methods are
// exposed.
//
// # Thread Safety
//
// Implementations must be safe for concurrent use. Run() blocks and
// should only be called once per instance.
//
// # Assumptions
//
//   - Service is fully initialized before Run() is called
//   - Run() is called at most once per Service instance
type Service interface {
	// Run starts the HTTP server and blocks until shutdown or error.
	//
	// # Outputs
	//
	//   - error: Non-nil if the server fails to start or encounters a
	//     fatal error
	//
	// # Limitations
	//
	//   - Blocks until the server stops
	//   - Cleanup is automatic on return
	Run() error

	// Router returns the underlying Gin engine for testing.
	//
	// # Limitations
	//
	//   - Should not be used to modify routes after construction
	Router() *gin.Engine
}

// =============================================================================
// Configuration
// =============================================================================

// Config holds orchestrator configuration options.
//
// # Description
//
// Config centralizes all configuration for the orchestrator service.
// Values can be populated from environment variables, config files, or
// programmatically for testing. All fields are optional with defaults
// applied by New().
//
// # Examples
//
//	// Minimal config (uses all defaults)
//	cfg := Config{}
//
//	// Custom port and backend
//	cfg := Config{
//	    Port:       8080,
//	    LLMBackend: "anthropic",
//	}
type Config struct {
	// Port is the HTTP server port. Default: 12310
	Port int

	// LLMBackend specifies the generation provider.
	// Valid values: "ollama", "openai", "claude", "anthropic", "mock"
	// Default: "ollama"
	LLMBackend string

	// EvidenceBackend selects the evidence store.
	// Valid values: "memory", "badger", "weaviate"
	// Default: "memory"
	EvidenceBackend string

	// WeaviateURL is the Weaviate service URL, used when
	// EvidenceBackend is "weaviate". Example: "http://weaviate:8080"
	WeaviateURL string

	// BadgerPath is the BadgerDB directory, used when EvidenceBackend
	// is "badger". Default: "./data/evidence"
	BadgerPath string

	// ExampleCatalogPath points at a YAML example catalog. When set,
	// the catalog is loaded at startup and watched for edits.
	ExampleCatalogPath string

	// OTelEndpoint is the OpenTelemetry collector endpoint.
	// Default: "civicscoach-otel-collector:4317"
	OTelEndpoint string

	// InfluxURL enables debate quality telemetry when set.
	// Example: "http://influxdb:8086"
	InfluxURL string

	// InfluxToken authenticates telemetry writes.
	InfluxToken string

	// InfluxOrg is the InfluxDB organization. Default: "civicscoach"
	InfluxOrg string

	// InfluxBucket receives quality samples. Default: "debate_quality"
	InfluxBucket string

	// EnableMetrics enables the Prometheus metrics endpoint.
	// Default: true
	EnableMetrics bool

	// GinMode sets the Gin framework mode.
	// Valid values: "debug", "release", "test"
	// Default: uses GIN_MODE env var or "debug"
	GinMode string
}

// =============================================================================
// Implementation
// =============================================================================

// service implements Service for production use.
//
// # Description
//
// service coordinates:
//   - HTTP routing via Gin
//   - The prompting engine and debate pipeline
//   - Generation backend selection
//   - Evidence store selection with in-memory fallback
//   - Optional example catalog loading and hot reload
//   - OpenTelemetry tracing, Prometheus metrics, InfluxDB telemetry
//
// # Thread Safety
//
// Thread-safe after construction. All fields are read-only after New()
// returns.
type service struct {
	config        Config
	router        *gin.Engine
	engine        *prompting.Engine
	backend       llm.Client
	debate        *services.DebateService
	evidenceStore evidence.Store
	ingester      evidence.Ingester
	evidenceClose func() error
	recorder      telemetry.Recorder
	watcher       *examplestore.Watcher
	tracerCleanup func(context.Context)
}

// =============================================================================
// Constructor
// =============================================================================

// New creates a new orchestrator Service with the given configuration.
//
// # Description
//
// New initializes all orchestrator components:
//  1. Applies default configuration for missing values
//  2. Initializes OpenTelemetry tracing
//  3. Initializes Prometheus metrics
//  4. Opens the evidence store, falling back to in-memory on failure
//  5. Builds the prompting engine and loads the example catalog
//  6. Creates the generation client for the configured backend
//  7. Connects quality telemetry if InfluxDB is configured
//  8. Assembles the debate service and HTTP routes
//
// # Inputs
//
//   - cfg: Service configuration. Zero values use defaults.
//
// # Outputs
//
//   - Service: Ready-to-run orchestrator service
//   - error: Non-nil if initialization fails
//
// # Examples
//
//	cfg := Config{Port: 12310, LLMBackend: "mock"}
//	svc, err := New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	log.Fatal(svc.Run())
//
// # Limitations
//
//   - Generation client creation may fail if required environment
//     variables (API keys, URLs) are missing
//
// # Assumptions
//
//   - Network is available for external service connections
func New(cfg Config) (Service, error) {
	s := &service{
		config: applyConfigDefaults(cfg),
	}

	// Initialize OpenTelemetry tracer
	cleanup, err := s.initTracer()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracer: %w", err)
	}
	s.tracerCleanup = cleanup

	// Initialize Prometheus metrics
	if s.config.EnableMetrics {
		observability.InitMetrics()
		prompting.InitMetrics()
		slog.Info("Initialized Prometheus metrics")
	}

	// Open the evidence store (degrades to in-memory)
	s.initEvidence()

	// Build the prompting engine with the example catalog
	s.initEngine()

	// Initialize generation client
	if err := s.initLLMClient(); err != nil {
		s.cleanup()
		return nil, fmt.Errorf("failed to initialize generation client: %w", err)
	}

	// Connect quality telemetry (degrades to drop)
	s.initTelemetry()

	// Assemble the debate pipeline service
	s.debate, err = services.NewDebateService(services.DebateConfig{
		Engine:      s.engine,
		Backend:     s.backend,
		BackendName: s.config.LLMBackend,
		Evidence:    s.evidenceStore,
		Recorder:    s.recorder,
		Metrics:     observability.DefaultMetrics,
	})
	if err != nil {
		s.cleanup()
		return nil, fmt.Errorf("failed to assemble debate service: %w", err)
	}

	// Setup HTTP router
	s.initRouter()

	return s, nil
}

// =============================================================================
// Service Interface Methods
// =============================================================================

// Run starts the HTTP server and blocks until shutdown or error.
func (s *service) Run() error {
	defer s.cleanup()

	addr := fmt.Sprintf(":%d", s.config.Port)
	slog.Info("Starting orchestrator server",
		"port", s.config.Port,
		"backend", s.config.LLMBackend,
		"evidence", s.config.EvidenceBackend)

	return s.router.Run(addr)
}

// Router returns the underlying Gin engine for testing.
func (s *service) Router() *gin.Engine {
	return s.router
}

// =============================================================================
// Private Initialization Methods
// =============================================================================

// applyConfigDefaults fills in missing configuration values.
func applyConfigDefaults(cfg Config) Config {
	if cfg.Port == 0 {
		cfg.Port = 12310
	}
	if cfg.LLMBackend == "" {
		cfg.LLMBackend = "ollama"
	}
	if cfg.EvidenceBackend == "" {
		cfg.EvidenceBackend = "memory"
	}
	if cfg.BadgerPath == "" {
		cfg.BadgerPath = "./data/evidence"
	}
	if cfg.OTelEndpoint == "" {
		cfg.OTelEndpoint = "civicscoach-otel-collector:4317"
	}
	if cfg.InfluxOrg == "" {
		cfg.InfluxOrg = "civicscoach"
	}
	if cfg.InfluxBucket == "" {
		cfg.InfluxBucket = "debate_quality"
	}
	// EnableMetrics defaults to true. The zero value is false, so the
	// flag is forced here rather than read.
	cfg.EnableMetrics = true

	return cfg
}

// initTracer installs the OpenTelemetry trace and metric exporters.
//
// # Description
//
// Delegates exporter selection to the observability package. The
// default pairing sends spans to the configured collector over insecure
// gRPC, which is appropriate for internal networks, and bridges OTel
// metrics into the Prometheus registry behind /metrics. Developers can
// switch either pipeline to a stdout exporter through the standard
// OTEL_*_EXPORTER variables.
//
// # Outputs
//
//   - func(context.Context): Cleanup function to call on shutdown
//   - error: Non-nil if exporter setup fails
//
// # Assumptions
//
//   - OTel collector is reachable at the configured endpoint
func (s *service) initTracer() (func(context.Context), error) {
	shutdown, err := observability.InitTelemetry(context.Background(),
		observability.DefaultTelemetryConfig(serviceName, s.config.OTelEndpoint))
	if err != nil {
		return nil, err
	}

	cleanup := func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, time.Second*5)
		defer cancel()
		if err := shutdown(ctx); err != nil {
			slog.Error("failed to shutdown telemetry exporters", "error", err)
		}
	}

	return cleanup, nil
}

// initEvidence opens the configured evidence store.
//
// # Description
//
// Selects the store named by EvidenceBackend. Weaviate and BadgerDB
// failures fall back to the in-memory store so a broken dependency
// never takes debates down, only their grounding quality.
func (s *service) initEvidence() {
	switch s.config.EvidenceBackend {
	case "weaviate":
		store, err := evidenceweaviate.NewFromURL(s.config.WeaviateURL, nil)
		if err == nil {
			err = store.EnsureSchema(context.Background())
		}
		if err != nil {
			slog.Warn("Weaviate initialization failed, using in-memory evidence store",
				"url", s.config.WeaviateURL,
				"error", err)
			break
		}
		s.evidenceStore = store
		s.ingester = store
		slog.Info("Weaviate evidence store initialized", "url", s.config.WeaviateURL)
		return

	case "badger":
		cfg := evidencebadger.DefaultConfig()
		cfg.Path = s.config.BadgerPath
		store, err := evidencebadger.Open(cfg)
		if err != nil {
			slog.Warn("BadgerDB initialization failed, using in-memory evidence store",
				"path", s.config.BadgerPath,
				"error", err)
			break
		}
		s.evidenceStore = store
		s.ingester = store
		s.evidenceClose = store.Close
		slog.Info("BadgerDB evidence store initialized", "path", s.config.BadgerPath)
		return

	case "memory":
		// Fall through to the shared default below.

	default:
		slog.Warn("Unknown evidence backend, using in-memory store",
			"backend", s.config.EvidenceBackend)
	}

	store := evidence.NewMemoryStore()
	s.evidenceStore = store
	s.ingester = store
	slog.Info("In-memory evidence store initialized")
}

// initEngine builds the prompting engine and loads the example catalog.
//
// # Description
//
// The engine always starts from the seeded example store. When
// ExampleCatalogPath is set, the catalog file is merged in and a
// watcher reloads it on edits. Catalog problems are logged and
// skipped: the seed catalog keeps the pipeline usable.
func (s *service) initEngine() {
	store := examplestore.NewStoreWithDefaults()

	if path := s.config.ExampleCatalogPath; path != "" {
		if n, err := store.LoadCatalogFile(path); err != nil {
			slog.Warn("Example catalog load failed, continuing with seed catalog",
				"path", path,
				"error", err)
		} else {
			slog.Info("Example catalog loaded", "path", path, "examples", n)
		}

		watcher, err := examplestore.NewWatcher(store, path, 0, nil)
		if err == nil {
			err = watcher.Start()
		}
		if err != nil {
			slog.Warn("Example catalog watcher failed, edits will not hot-reload",
				"path", path,
				"error", err)
		} else {
			s.watcher = watcher
		}
	}

	s.engine = prompting.New(prompting.Config{
		Store:   store,
		Metrics: prompting.DefaultMetrics,
	})
}

// initLLMClient initializes the generation provider client.
//
// # Description
//
// Creates the appropriate client for the configured backend. The mock
// backend serves canned debate output and is meant for development and
// tests.
//
// # Outputs
//
//   - error: Non-nil if client creation fails
//
// # Assumptions
//
//   - Required environment variables are set for the chosen provider
func (s *service) initLLMClient() error {
	var err error

	switch s.config.LLMBackend {
	case "ollama":
		s.backend, err = llm.NewOllamaClient()
		slog.Info("Using Ollama generation backend")
	case "openai":
		s.backend, err = llm.NewOpenAIClient()
		slog.Info("Using OpenAI generation backend")
	case "claude", "anthropic":
		s.backend, err = llm.NewAnthropicClient()
		slog.Info("Using Anthropic (Claude) generation backend")
	case "mock":
		s.backend = llm.NewMockClient()
		slog.Info("Using mock generation backend")
	default:
		slog.Warn("Unknown generation backend, defaulting to ollama",
			"backend", s.config.LLMBackend)
		s.config.LLMBackend = "ollama"
		s.backend, err = llm.NewOllamaClient()
	}

	return err
}

// initTelemetry connects the debate quality recorder.
//
// # Description
//
// When InfluxURL is set, samples go to InfluxDB; a failed health check
// degrades to the no-op recorder so telemetry never gates startup.
func (s *service) initTelemetry() {
	if s.config.InfluxURL == "" {
		s.recorder = telemetry.Nop{}
		return
	}

	recorder, err := telemetry.NewInfluxRecorder(context.Background(), telemetry.InfluxConfig{
		URL:    s.config.InfluxURL,
		Token:  s.config.InfluxToken,
		Org:    s.config.InfluxOrg,
		Bucket: s.config.InfluxBucket,
	}, nil)
	if err != nil {
		slog.Warn("InfluxDB telemetry unavailable, quality samples will be dropped",
			"url", s.config.InfluxURL,
			"error", err)
		s.recorder = telemetry.Nop{}
		return
	}

	s.recorder = recorder
	slog.Info("InfluxDB quality telemetry connected",
		"url", s.config.InfluxURL,
		"bucket", s.config.InfluxBucket)
}

// initRouter sets up the Gin HTTP router with all routes.
//
// # Description
//
// Creates the Gin engine, applies middleware, and registers all
// routes. Request ID assignment runs before access logging so every
// log line carries the ID.
func (s *service) initRouter() {
	if s.config.GinMode != "" {
		gin.SetMode(s.config.GinMode)
	}

	s.router = gin.New()
	s.router.Use(gin.Recovery())
	s.router.Use(otelgin.Middleware(serviceName))
	s.router.Use(middleware.RequestID())
	s.router.Use(middleware.AccessLog(nil))

	routes.SetupRoutes(s.router, s.debate, s.engine, s.ingester)
}

// cleanup releases all resources held by the service.
//
// # Description
//
// Called when Run() exits or on initialization failure. Stops the
// catalog watcher, closes the evidence store and telemetry recorder,
// and shuts down the tracer.
func (s *service) cleanup() {
	if s.watcher != nil {
		s.watcher.Stop()
	}

	if s.evidenceClose != nil {
		if err := s.evidenceClose(); err != nil {
			slog.Warn("Evidence store close error", "error", err)
		}
	}

	if s.recorder != nil {
		s.recorder.Close()
	}

	if s.tracerCleanup != nil {
		s.tracerCleanup(context.Background())
	}
}

// =============================================================================
// Compile-time Interface Compliance
// =============================================================================

var _ Service = (*service)(nil)
