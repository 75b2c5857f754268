// Animedex - Anime Tracking and Discovery Backend
// Copyright 2026 Animedex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/animedex/animedex

// Command server runs the Animedex recommendation API.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/animedex/animedex/internal/api"
	"github.com/animedex/animedex/internal/catalog"
	"github.com/animedex/animedex/internal/config"
	"github.com/animedex/animedex/internal/feedback"
	"github.com/animedex/animedex/internal/logging"
	"github.com/animedex/animedex/internal/providers"
	"github.com/animedex/animedex/internal/recommend"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	if err := logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	}); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	logger := logging.Logger()
	logger.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Msg("starting animedex server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Storage layers.
	store := catalog.NewStore(logger)
	if cfg.Catalog.SeedPath != "" {
		if err := store.LoadSeed(cfg.Catalog.SeedPath); err != nil {
			return fmt.Errorf("seed catalog: %w", err)
		}
	}

	fbStore, err := feedback.Open(feedback.Options{
		Path:           cfg.Feedback.Path,
		InMemory:       cfg.Feedback.InMemory,
		InteractionTTL: cfg.Feedback.InteractionTTL,
	}, logger)
	if err != nil {
		return fmt.Errorf("open feedback store: %w", err)
	}
	defer func() {
		if err := fbStore.Close(); err != nil {
			logger.Error().Err(err).Msg("closing feedback store")
		}
	}()

	// External providers, breaker-wrapped when configured.
	httpClient := &http.Client{Timeout: cfg.Providers.HTTPTimeout}

	var collab recommend.CollaborativeProvider = providers.NoopCollaborative{}
	if cfg.Providers.CollaborativeURL != "" {
		collab = recommend.NewBreakerCollaborative(
			providers.NewCollaborativeClient(cfg.Providers.CollaborativeURL, httpClient),
			recommend.DefaultBreakerConfig("collaborative"),
			logger,
		)
	}

	var embed recommend.EmbeddingProvider = providers.NoopEmbedding{}
	if cfg.Providers.EmbeddingURL != "" {
		embed = recommend.NewBreakerEmbedding(
			providers.NewEmbeddingClient(cfg.Providers.EmbeddingURL, httpClient),
			recommend.DefaultBreakerConfig("embedding"),
			logger,
		)
	}

	engine, err := recommend.NewEngine(cfg.Recommend, recommend.Deps{
		Store:         store,
		Collaborative: collab,
		Embedding:     embed,
		Feedback:      fbStore,
	}, logger)
	if err != nil {
		return fmt.Errorf("create recommendation engine: %w", err)
	}

	router := api.NewRouter(api.NewHandler(engine))
	server := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info().Msg("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	logger.Info().Msg("server stopped")
	return nil
}
