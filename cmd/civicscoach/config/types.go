// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"os"
	"path/filepath"
)

// Defaults applied when the config file or a field is absent.
const (
	DefaultServerURL   = "http://localhost:12310"
	DefaultBackendType = "ollama"
	DefaultOllamaURL   = "http://localhost:11434"
	DefaultModel       = "llama3.1"

	DefaultContext     = "constitutionalEducation"
	DefaultProficiency = "intermediate"
	DefaultStrategy    = "complexity_adaptive"
)

type CoachConfig struct {
	// Server: where a running orchestrator listens
	Server ServerConfig `yaml:"server"`

	// Backend: the generation backend local commands talk to directly
	Backend BackendConfig `yaml:"backend"`

	// Defaults: pipeline knobs applied when flags are omitted
	Defaults DefaultsConfig `yaml:"defaults"`

	// Catalog: worked-example catalog location
	Catalog CatalogConfig `yaml:"catalog"`

	// Corpus: local evidence store and GCS sync settings
	Corpus CorpusConfig `yaml:"corpus"`
}

type ServerConfig struct {
	URL string `yaml:"url"` // e.g. http://localhost:12310
}

// GetURL returns the configured server URL or the default.
func (s ServerConfig) GetURL() string {
	if s.URL == "" {
		return DefaultServerURL
	}
	return s.URL
}

type BackendConfig struct {
	// Type can be "ollama", "openai", "anthropic", or "mock".
	Type    string `yaml:"type"`
	BaseURL string `yaml:"base_url,omitempty"`
	Model   string `yaml:"model,omitempty"`
}

// GetType returns the configured backend type or the default.
func (b BackendConfig) GetType() string {
	if b.Type == "" {
		return DefaultBackendType
	}
	return b.Type
}

// GetBaseURL returns the configured backend URL or the Ollama default.
func (b BackendConfig) GetBaseURL() string {
	if b.BaseURL == "" {
		return DefaultOllamaURL
	}
	return b.BaseURL
}

// GetModel returns the configured model or the default.
func (b BackendConfig) GetModel() string {
	if b.Model == "" {
		return DefaultModel
	}
	return b.Model
}

type DefaultsConfig struct {
	Context     string `yaml:"context"`     // e.g. constitutionalEducation
	Proficiency string `yaml:"proficiency"` // e.g. intermediate
	Strategy    string `yaml:"strategy"`    // e.g. complexity_adaptive
}

// GetContext returns the configured audience context or the default.
func (d DefaultsConfig) GetContext() string {
	if d.Context == "" {
		return DefaultContext
	}
	return d.Context
}

// GetProficiency returns the configured proficiency or the default.
func (d DefaultsConfig) GetProficiency() string {
	if d.Proficiency == "" {
		return DefaultProficiency
	}
	return d.Proficiency
}

// GetStrategy returns the configured strategy or the default.
func (d DefaultsConfig) GetStrategy() string {
	if d.Strategy == "" {
		return DefaultStrategy
	}
	return d.Strategy
}

type CatalogConfig struct {
	// Path to a YAML example catalog loaded by local pipeline commands
	// and by the examples subcommands. Empty means the built-in seed
	// catalog only.
	Path string `yaml:"path"`
}

type CorpusConfig struct {
	// LocalDir is the BadgerDB evidence store directory.
	LocalDir string `yaml:"local_dir"`

	// GCS holds the bucket settings for corpus push/pull.
	GCS GCSConfig `yaml:"gcs"`
}

// GetLocalDir returns the configured evidence directory or the default
// under the user's home.
func (c CorpusConfig) GetLocalDir() string {
	if c.LocalDir == "" {
		return defaultCorpusDir()
	}
	return c.LocalDir
}

type GCSConfig struct {
	ProjectId string `yaml:"project_id"`
	Bucket    string `yaml:"bucket"`
	SAKeyPath string `yaml:"sa_key_path"`
}

func defaultCorpusDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".civicscoach", "evidence")
	}
	return filepath.Join(home, ".civicscoach", "evidence")
}

func DefaultConfig() CoachConfig {
	return CoachConfig{
		Server: ServerConfig{URL: DefaultServerURL},
		Backend: BackendConfig{
			Type:    DefaultBackendType,
			BaseURL: DefaultOllamaURL,
			Model:   DefaultModel,
		},
		Defaults: DefaultsConfig{
			Context:     DefaultContext,
			Proficiency: DefaultProficiency,
			Strategy:    DefaultStrategy,
		},
		Catalog: CatalogConfig{Path: ""},
		Corpus: CorpusConfig{
			LocalDir: defaultCorpusDir(),
		},
	}
}
