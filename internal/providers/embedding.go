// Animedex - Anime Tracking and Discovery Backend
// Copyright 2026 Animedex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/animedex/animedex

package providers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/animedex/animedex/internal/recommend"
)

// EmbeddingClient queries the embedding-similarity service.
type EmbeddingClient struct {
	baseURL string
	client  *http.Client
}

// NewEmbeddingClient creates a client for the service at baseURL.
func NewEmbeddingClient(baseURL string, client *http.Client) *EmbeddingClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &EmbeddingClient{baseURL: baseURL, client: client}
}

// similarResponse is the service's wire format.
type similarResponse struct {
	Similar []recommend.SimilarAnime `json:"similar"`
}

// SimilarAnime returns the k nearest neighbors of the source anime in
// embedding space.
func (c *EmbeddingClient) SimilarAnime(ctx context.Context, animeID, k int) ([]recommend.SimilarAnime, error) {
	url := fmt.Sprintf("%s/v1/anime/%d/similar?k=%d", c.baseURL, animeID, k)

	var resp similarResponse
	if err := getJSON(ctx, c.client, url, &resp); err != nil {
		return nil, fmt.Errorf("embedding similarity: %w", err)
	}
	return resp.Similar, nil
}

// NoopEmbedding stands in when no embedding service is configured.
type NoopEmbedding struct{}

// SimilarAnime always reports the provider as unconfigured.
func (NoopEmbedding) SimilarAnime(ctx context.Context, animeID, k int) ([]recommend.SimilarAnime, error) {
	return nil, ErrNotConfigured
}

var (
	_ recommend.EmbeddingProvider = (*EmbeddingClient)(nil)
	_ recommend.EmbeddingProvider = NoopEmbedding{}
)
