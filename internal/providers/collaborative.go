// Animedex - Anime Tracking and Discovery Backend
// Copyright 2026 Animedex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/animedex/animedex

package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/animedex/animedex/internal/recommend"
)

// maxErrorBodySize limits how much of an error response body is read for
// diagnostics.
const maxErrorBodySize = 8 * 1024

// ErrNotConfigured marks a provider that has no service endpoint.
var ErrNotConfigured = errors.New("provider not configured")

// CollaborativeClient queries the collaborative-filtering service.
type CollaborativeClient struct {
	baseURL string
	client  *http.Client
}

// NewCollaborativeClient creates a client for the service at baseURL.
// The http.Client's timeout is a transport-level backstop; per-request
// deadlines come from the caller's context.
func NewCollaborativeClient(baseURL string, client *http.Client) *CollaborativeClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &CollaborativeClient{baseURL: baseURL, client: client}
}

// collabResponse is the service's wire format.
type collabResponse struct {
	Recommendations []recommend.CollabScore `json:"recommendations"`
}

// Recommendations returns predicted per-anime scores for the user.
func (c *CollaborativeClient) Recommendations(ctx context.Context, userID, limit int) ([]recommend.CollabScore, error) {
	url := fmt.Sprintf("%s/v1/users/%d/recommendations?limit=%d", c.baseURL, userID, limit)

	var resp collabResponse
	if err := getJSON(ctx, c.client, url, &resp); err != nil {
		return nil, fmt.Errorf("collaborative recommendations: %w", err)
	}
	return resp.Recommendations, nil
}

// InvalidateUserCache asks the service to drop its cached user
// similarities after a preference change.
func (c *CollaborativeClient) InvalidateUserCache(ctx context.Context, userID int) error {
	url := c.baseURL + "/v1/users/" + strconv.Itoa(userID) + "/cache"

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("invalidate user cache: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("invalidate user cache: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// NoopCollaborative stands in when no collaborative service is
// configured. Every query fails, which the engine degrades to a zero
// signal.
type NoopCollaborative struct{}

// Recommendations always reports the provider as unconfigured.
func (NoopCollaborative) Recommendations(ctx context.Context, userID, limit int) ([]recommend.CollabScore, error) {
	return nil, ErrNotConfigured
}

// InvalidateUserCache is a no-op.
func (NoopCollaborative) InvalidateUserCache(ctx context.Context, userID int) error {
	return nil
}

// getJSON issues a GET and decodes a JSON body into out.
func getJSON(ctx context.Context, client *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

var (
	_ recommend.CollaborativeProvider = (*CollaborativeClient)(nil)
	_ recommend.CollaborativeProvider = NoopCollaborative{}
)
