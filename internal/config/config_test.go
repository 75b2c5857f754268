// Animedex - Anime Tracking and Discovery Backend
// Copyright 2026 Animedex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/animedex/animedex

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("default configuration invalid: %v", err)
	}
}

func TestValidateRejectsBadPort(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.Port = 0
	if err := cfg.Validate(); err == nil {
		t.Error("port 0 accepted")
	}
	cfg.Server.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Error("port 70000 accepted")
	}
}

func TestValidateRejectsBadLogFormat(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.Format = "xml"
	if err := cfg.Validate(); err == nil {
		t.Error("unknown log format accepted")
	}
}

func TestValidateRequiresFeedbackPath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Feedback.Path = ""
	cfg.Feedback.InMemory = false
	if err := cfg.Validate(); err == nil {
		t.Error("empty feedback path accepted for persistent store")
	}

	cfg.Feedback.InMemory = true
	if err := cfg.Validate(); err != nil {
		t.Errorf("in-memory feedback store rejected: %v", err)
	}
}

func TestValidatePropagatesRecommendErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Recommend.Pool.MaxCandidates = 0
	if err := cfg.Validate(); err == nil {
		t.Error("invalid recommendation config accepted")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir()) // no config file in reach

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 8480 {
		t.Errorf("default port = %d, want 8480", cfg.Server.Port)
	}
	if cfg.Recommend.Fusion.Content != 0.50 {
		t.Errorf("default fusion content weight = %v, want 0.50", cfg.Recommend.Fusion.Content)
	}
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  port: 9000
logging:
  level: debug
recommend:
  fusion:
    content: 0.6
    collaborative: 0.25
    embedding: 0.15
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("port = %d, want YAML override 9000", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Recommend.Fusion.Content != 0.6 {
		t.Errorf("fusion content = %v, want 0.6", cfg.Recommend.Fusion.Content)
	}
	// Untouched sections keep their defaults.
	if cfg.Recommend.Limits.DefaultLimit != 20 {
		t.Errorf("default limit = %d, want 20", cfg.Recommend.Limits.DefaultLimit)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 9000\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("ANIMEDEX_SERVER_PORT", "9100")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("port = %d, want env override 9100", cfg.Server.Port)
	}
}

func TestLoadInvalidConfigFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: -1\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	if _, err := Load(); err == nil {
		t.Error("invalid configuration accepted")
	}
}

func TestEnvTransform(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ANIMEDEX_SERVER_PORT", "server.port"},
		{"ANIMEDEX_FEEDBACK_INTERACTION_TTL", "feedback.interaction_ttl"},
		{"ANIMEDEX_PROVIDERS_COLLABORATIVE_URL", "providers.collaborative_url"},
		{"ANIMEDEX_LOGGING_LEVEL", "logging.level"},
	}
	for _, tt := range tests {
		if got := envTransformFunc(tt.in); got != tt.want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
