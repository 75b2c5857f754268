// Animedex - Anime Tracking and Discovery Backend
// Copyright 2026 Animedex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/animedex/animedex

package config

import (
	"fmt"
	"time"

	"github.com/animedex/animedex/internal/recommend"
)

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig      `koanf:"server" json:"server"`
	Logging   LoggingConfig     `koanf:"logging" json:"logging"`
	Catalog   CatalogConfig     `koanf:"catalog" json:"catalog"`
	Feedback  FeedbackConfig    `koanf:"feedback" json:"feedback"`
	Providers ProvidersConfig   `koanf:"providers" json:"providers"`
	Recommend *recommend.Config `koanf:"recommend" json:"recommend"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host            string        `koanf:"host" json:"host"`
	Port            int           `koanf:"port" json:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout" json:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout" json:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout" json:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" json:"shutdown_timeout"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level  string `koanf:"level" json:"level"`
	Format string `koanf:"format" json:"format"` // "json" or "console"
	Caller bool   `koanf:"caller" json:"caller"`
}

// CatalogConfig configures the catalog store.
type CatalogConfig struct {
	// SeedPath is the JSON seed file loaded at startup. Empty starts
	// with an empty catalog.
	SeedPath string `koanf:"seed_path" json:"seed_path"`
}

// FeedbackConfig configures the feedback store.
type FeedbackConfig struct {
	Path           string        `koanf:"path" json:"path"`
	InMemory       bool          `koanf:"in_memory" json:"in_memory"`
	InteractionTTL time.Duration `koanf:"interaction_ttl" json:"interaction_ttl"`
}

// ProvidersConfig configures the external signal services. An empty URL
// disables that provider; the engine degrades its signal to zero.
type ProvidersConfig struct {
	CollaborativeURL string        `koanf:"collaborative_url" json:"collaborative_url"`
	EmbeddingURL     string        `koanf:"embedding_url" json:"embedding_url"`
	HTTPTimeout      time.Duration `koanf:"http_timeout" json:"http_timeout"`
}

// DefaultConfig returns the configuration defaults applied before file
// and environment layers.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8480,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Catalog: CatalogConfig{
			SeedPath: "",
		},
		Feedback: FeedbackConfig{
			Path:           "/data/animedex/feedback",
			InMemory:       false,
			InteractionTTL: 90 * 24 * time.Hour,
		},
		Providers: ProvidersConfig{
			HTTPTimeout: 10 * time.Second,
		},
		Recommend: recommend.DefaultConfig(),
	}
}

// Validate checks the configuration for startup-blocking problems.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be 1-65535, got %d", c.Server.Port)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be positive")
	}

	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}

	if !c.Feedback.InMemory && c.Feedback.Path == "" {
		return fmt.Errorf("feedback.path is required unless feedback.in_memory is set")
	}

	if c.Providers.HTTPTimeout <= 0 {
		return fmt.Errorf("providers.http_timeout must be positive")
	}

	if c.Recommend == nil {
		return fmt.Errorf("recommend configuration is required")
	}
	if err := c.Recommend.Validate(); err != nil {
		return fmt.Errorf("recommend: %w", err)
	}
	return nil
}
