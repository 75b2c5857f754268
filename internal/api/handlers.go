// Animedex - Anime Tracking and Discovery Backend
// Copyright 2026 Animedex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/animedex/animedex

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/animedex/animedex/internal/models"
	"github.com/animedex/animedex/internal/recommend"
)

// RecommendService is the engine contract the HTTP layer depends on.
type RecommendService interface {
	ForYou(ctx context.Context, userID, limit int) ([]recommend.RecommendationScore, error)
	BecauseYouWatched(ctx context.Context, userID, sourceAnimeID, limit int) ([]recommend.RecommendationScore, error)
	HiddenGems(ctx context.Context, userID, limit int) ([]recommend.RecommendationScore, error)
	Discovery(ctx context.Context, userID, limit int) ([]recommend.RecommendationScore, error)
	Trending(ctx context.Context, limit int) ([]recommend.RecommendationScore, error)
	TrendingInFavoriteGenres(ctx context.Context, userID, limit int) ([]recommend.RecommendationScore, error)
	SubmitFeedback(ctx context.Context, fb models.Feedback) error
	TrackInteraction(ctx context.Context, ix models.Interaction)
	Config() *recommend.Config
	UpdateConfig(cfg *recommend.Config) error
}

// Handler serves the recommendation API.
type Handler struct {
	svc RecommendService
}

// NewHandler creates the handler.
func NewHandler(svc RecommendService) *Handler {
	return &Handler{svc: svc}
}

// recommendationList is the payload for list endpoints.
type recommendationList struct {
	UserID          int                             `json:"user_id,omitempty"`
	Count           int                             `json:"count"`
	Recommendations []recommend.RecommendationScore `json:"recommendations"`
}

// listHandler runs one list operation with shared parameter handling.
func (h *Handler) listHandler(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, userID, limit int) ([]recommend.RecommendationScore, error)) {
	started := time.Now()

	userID, ok := pathInt(chi.URLParam(r, "userID"))
	if !ok {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "userID must be a positive integer", nil)
		return
	}
	limit, apiErr := parseLimit(r, h.svc.Config().Limits.DefaultLimit)
	if apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	recs, err := op(r.Context(), userID, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "recommendation query failed", err)
		return
	}
	if recs == nil {
		recs = []recommend.RecommendationScore{}
	}

	respondSuccess(w, &recommendationList{
		UserID:          userID,
		Count:           len(recs),
		Recommendations: recs,
	}, started)
}

// ForYou handles GET /api/v1/recommendations/user/{userID}.
func (h *Handler) ForYou(w http.ResponseWriter, r *http.Request) {
	h.listHandler(w, r, h.svc.ForYou)
}

// BecauseYouWatched handles
// GET /api/v1/recommendations/user/{userID}/because/{animeID}.
func (h *Handler) BecauseYouWatched(w http.ResponseWriter, r *http.Request) {
	animeID, ok := pathInt(chi.URLParam(r, "animeID"))
	if !ok {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "animeID must be a positive integer", nil)
		return
	}
	h.listHandler(w, r, func(ctx context.Context, userID, limit int) ([]recommend.RecommendationScore, error) {
		return h.svc.BecauseYouWatched(ctx, userID, animeID, limit)
	})
}

// HiddenGems handles GET /api/v1/recommendations/user/{userID}/hidden-gems.
func (h *Handler) HiddenGems(w http.ResponseWriter, r *http.Request) {
	h.listHandler(w, r, h.svc.HiddenGems)
}

// Discovery handles GET /api/v1/recommendations/user/{userID}/discovery.
func (h *Handler) Discovery(w http.ResponseWriter, r *http.Request) {
	h.listHandler(w, r, h.svc.Discovery)
}

// TrendingForUser handles GET /api/v1/recommendations/user/{userID}/trending.
func (h *Handler) TrendingForUser(w http.ResponseWriter, r *http.Request) {
	h.listHandler(w, r, h.svc.TrendingInFavoriteGenres)
}

// Trending handles GET /api/v1/recommendations/trending.
func (h *Handler) Trending(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	limit, apiErr := parseLimit(r, h.svc.Config().Limits.DefaultLimit)
	if apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	recs, err := h.svc.Trending(r.Context(), limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "trending query failed", err)
		return
	}
	if recs == nil {
		recs = []recommend.RecommendationScore{}
	}

	respondSuccess(w, &recommendationList{
		Count:           len(recs),
		Recommendations: recs,
	}, started)
}

// feedbackRequest is the POST /api/v1/recommendations/feedback body.
type feedbackRequest struct {
	UserID  int    `json:"user_id" validate:"required,min=1"`
	AnimeID int    `json:"anime_id" validate:"required,min=1"`
	Kind    string `json:"kind" validate:"required,oneof=dismiss hide not_interested_genre"`
	Reason  string `json:"reason" validate:"max=500"`
}

// SubmitFeedback handles POST /api/v1/recommendations/feedback.
func (h *Handler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "request body must be valid JSON", nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	fb := models.Feedback{
		UserID:    req.UserID,
		AnimeID:   req.AnimeID,
		Kind:      models.FeedbackKind(req.Kind),
		Reason:    req.Reason,
		CreatedAt: time.Now(),
	}
	if err := h.svc.SubmitFeedback(r.Context(), fb); err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to store feedback", err)
		return
	}

	respondSuccess(w, map[string]string{"result": "recorded"}, started)
}

// interactionRequest is the POST /api/v1/interactions body.
type interactionRequest struct {
	UserID     int               `json:"user_id" validate:"required,min=1"`
	AnimeID    int               `json:"anime_id" validate:"omitempty,min=1"`
	Action     string            `json:"action" validate:"required,max=100"`
	Metadata   map[string]string `json:"metadata"`
	DurationMS int64             `json:"duration_ms" validate:"min=0"`
}

// TrackInteraction handles POST /api/v1/interactions. Always succeeds
// from the client's perspective once the body parses; storage failures
// are absorbed by the engine.
func (h *Handler) TrackInteraction(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	var req interactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "request body must be valid JSON", nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	h.svc.TrackInteraction(r.Context(), models.Interaction{
		UserID:     req.UserID,
		AnimeID:    req.AnimeID,
		Action:     req.Action,
		Metadata:   req.Metadata,
		DurationMS: req.DurationMS,
		Timestamp:  time.Now(),
	})

	respondSuccess(w, map[string]string{"result": "accepted"}, started)
}

// GetConfig handles GET /api/v1/recommendations/config.
func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, h.svc.Config(), time.Now())
}

// UpdateConfig handles PUT /api/v1/recommendations/config. The body is a
// full recommendation configuration; partial updates start from GET.
func (h *Handler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	var cfg recommend.Config
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "request body must be valid JSON", nil)
		return
	}

	if err := h.svc.UpdateConfig(&cfg); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}

	respondSuccess(w, h.svc.Config(), started)
}

// Health handles GET /healthz.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, map[string]string{"status": "ok"}, time.Now())
}
