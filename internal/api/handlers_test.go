// Animedex - Anime Tracking and Discovery Backend
// Copyright 2026 Animedex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/animedex/animedex

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/animedex/animedex/internal/models"
	"github.com/animedex/animedex/internal/recommend"
)

// mockService implements RecommendService with canned results.
type mockService struct {
	cfg *recommend.Config

	recs []recommend.RecommendationScore
	err  error

	feedback     []models.Feedback
	interactions []models.Interaction

	lastUserID  int
	lastAnimeID int
	lastLimit   int
}

func newMockService() *mockService {
	return &mockService{cfg: recommend.DefaultConfig()}
}

func (m *mockService) list(userID, limit int) ([]recommend.RecommendationScore, error) {
	m.lastUserID = userID
	m.lastLimit = limit
	return m.recs, m.err
}

func (m *mockService) ForYou(_ context.Context, userID, limit int) ([]recommend.RecommendationScore, error) {
	return m.list(userID, limit)
}

func (m *mockService) BecauseYouWatched(_ context.Context, userID, sourceAnimeID, limit int) ([]recommend.RecommendationScore, error) {
	m.lastAnimeID = sourceAnimeID
	return m.list(userID, limit)
}

func (m *mockService) HiddenGems(_ context.Context, userID, limit int) ([]recommend.RecommendationScore, error) {
	return m.list(userID, limit)
}

func (m *mockService) Discovery(_ context.Context, userID, limit int) ([]recommend.RecommendationScore, error) {
	return m.list(userID, limit)
}

func (m *mockService) Trending(_ context.Context, limit int) ([]recommend.RecommendationScore, error) {
	return m.list(0, limit)
}

func (m *mockService) TrendingInFavoriteGenres(_ context.Context, userID, limit int) ([]recommend.RecommendationScore, error) {
	return m.list(userID, limit)
}

func (m *mockService) SubmitFeedback(_ context.Context, fb models.Feedback) error {
	if m.err != nil {
		return m.err
	}
	m.feedback = append(m.feedback, fb)
	return nil
}

func (m *mockService) TrackInteraction(_ context.Context, ix models.Interaction) {
	m.interactions = append(m.interactions, ix)
}

func (m *mockService) Config() *recommend.Config { return m.cfg }

func (m *mockService) UpdateConfig(cfg *recommend.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	m.cfg = cfg
	return nil
}

func serve(t *testing.T, svc RecommendService, method, target, body string) (*httptest.ResponseRecorder, models.APIResponse) {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rr := httptest.NewRecorder()
	NewRouter(NewHandler(svc)).ServeHTTP(rr, req)

	var resp models.APIResponse
	if rr.Body.Len() > 0 {
		if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
			t.Fatalf("response is not valid JSON: %v\n%s", err, rr.Body.String())
		}
	}
	return rr, resp
}

func TestForYouSuccessEnvelope(t *testing.T) {
	svc := newMockService()
	svc.recs = []recommend.RecommendationScore{
		{Anime: models.Anime{ID: 10, Title: "First"}, Score: 0.9, Reason: "Matches your favorite genres"},
		{Anime: models.Anime{ID: 11, Title: "Second"}, Score: 0.8, Reason: "Trending now"},
	}

	rr, resp := serve(t, svc, http.MethodGet, "/api/v1/recommendations/user/7", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if resp.Status != "success" {
		t.Errorf("envelope status = %q, want success", resp.Status)
	}
	if svc.lastUserID != 7 {
		t.Errorf("userID = %d, want 7", svc.lastUserID)
	}
	if svc.lastLimit != svc.cfg.Limits.DefaultLimit {
		t.Errorf("limit = %d, want default %d", svc.lastLimit, svc.cfg.Limits.DefaultLimit)
	}

	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("data is %T, want object", resp.Data)
	}
	if data["count"] != float64(2) {
		t.Errorf("count = %v, want 2", data["count"])
	}
}

func TestForYouEmptyResultIsOK(t *testing.T) {
	svc := newMockService() // unknown user: engine returns empty, not error

	rr, resp := serve(t, svc, http.MethodGet, "/api/v1/recommendations/user/999", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 for empty result", rr.Code)
	}
	data := resp.Data.(map[string]interface{})
	if data["count"] != float64(0) {
		t.Errorf("count = %v, want 0", data["count"])
	}
	if _, ok := data["recommendations"].([]interface{}); !ok {
		t.Error("recommendations must be an empty array, not null")
	}
}

func TestForYouBadUserID(t *testing.T) {
	for _, bad := range []string{"abc", "0", "-3"} {
		rr, resp := serve(t, newMockService(), http.MethodGet, "/api/v1/recommendations/user/"+bad, "")
		if rr.Code != http.StatusBadRequest {
			t.Errorf("userID %q: status = %d, want 400", bad, rr.Code)
			continue
		}
		if resp.Error == nil || resp.Error.Code != "VALIDATION_ERROR" {
			t.Errorf("userID %q: error = %+v, want VALIDATION_ERROR", bad, resp.Error)
		}
	}
}

func TestLimitValidation(t *testing.T) {
	tests := []struct {
		query      string
		wantStatus int
		wantLimit  int
	}{
		{"", http.StatusOK, 20},
		{"?limit=5", http.StatusOK, 5},
		{"?limit=100", http.StatusOK, 100},
		{"?limit=0", http.StatusBadRequest, 0},
		{"?limit=101", http.StatusBadRequest, 0},
		{"?limit=ten", http.StatusBadRequest, 0},
	}
	for _, tt := range tests {
		svc := newMockService()
		rr, _ := serve(t, svc, http.MethodGet, "/api/v1/recommendations/user/1"+tt.query, "")
		if rr.Code != tt.wantStatus {
			t.Errorf("limit %q: status = %d, want %d", tt.query, rr.Code, tt.wantStatus)
			continue
		}
		if tt.wantStatus == http.StatusOK && svc.lastLimit != tt.wantLimit {
			t.Errorf("limit %q: parsed = %d, want %d", tt.query, svc.lastLimit, tt.wantLimit)
		}
	}
}

func TestBecauseYouWatchedPassesAnimeID(t *testing.T) {
	svc := newMockService()
	rr, _ := serve(t, svc, http.MethodGet, "/api/v1/recommendations/user/1/because/55", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if svc.lastAnimeID != 55 {
		t.Errorf("sourceAnimeID = %d, want 55", svc.lastAnimeID)
	}
}

func TestBecauseYouWatchedBadAnimeID(t *testing.T) {
	rr, _ := serve(t, newMockService(), http.MethodGet, "/api/v1/recommendations/user/1/because/zero", "")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestEngineFailureIsInternalError(t *testing.T) {
	svc := newMockService()
	svc.err = errors.New("store offline")

	rr, resp := serve(t, svc, http.MethodGet, "/api/v1/recommendations/user/1", "")
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rr.Code)
	}
	if resp.Error == nil || resp.Error.Code != "INTERNAL_ERROR" {
		t.Errorf("error = %+v, want INTERNAL_ERROR", resp.Error)
	}
}

func TestTrendingNoUser(t *testing.T) {
	svc := newMockService()
	svc.recs = []recommend.RecommendationScore{
		{Anime: models.Anime{ID: 1}, Score: 5000, Reason: "Trending now"},
	}

	rr, resp := serve(t, svc, http.MethodGet, "/api/v1/recommendations/trending", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	data := resp.Data.(map[string]interface{})
	if _, ok := data["user_id"]; ok {
		t.Error("global trending response must not carry a user_id")
	}
}

func TestSubmitFeedback(t *testing.T) {
	svc := newMockService()
	body := `{"user_id": 1, "anime_id": 10, "kind": "dismiss", "reason": "seen it"}`

	rr, _ := serve(t, svc, http.MethodPost, "/api/v1/recommendations/feedback", body)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if len(svc.feedback) != 1 {
		t.Fatalf("feedback records = %d, want 1", len(svc.feedback))
	}
	fb := svc.feedback[0]
	if fb.UserID != 1 || fb.AnimeID != 10 || fb.Kind != models.FeedbackDismiss {
		t.Errorf("stored feedback = %+v", fb)
	}
	if fb.CreatedAt.IsZero() {
		t.Error("feedback timestamp not set")
	}
}

func TestSubmitFeedbackRejectsBadKind(t *testing.T) {
	svc := newMockService()
	body := `{"user_id": 1, "anime_id": 10, "kind": "loved_it"}`

	rr, resp := serve(t, svc, http.MethodPost, "/api/v1/recommendations/feedback", body)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	if resp.Error == nil || resp.Error.Code != "VALIDATION_ERROR" {
		t.Errorf("error = %+v, want VALIDATION_ERROR", resp.Error)
	}
	if len(svc.feedback) != 0 {
		t.Error("invalid feedback reached the engine")
	}
}

func TestSubmitFeedbackRejectsBadJSON(t *testing.T) {
	rr, resp := serve(t, newMockService(), http.MethodPost, "/api/v1/recommendations/feedback", "{not json")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	if resp.Error == nil || resp.Error.Code != "INVALID_JSON" {
		t.Errorf("error = %+v, want INVALID_JSON", resp.Error)
	}
}

func TestTrackInteraction(t *testing.T) {
	svc := newMockService()
	body := `{"user_id": 1, "anime_id": 10, "action": "detail_view", "duration_ms": 2300}`

	rr, _ := serve(t, svc, http.MethodPost, "/api/v1/interactions", body)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if len(svc.interactions) != 1 {
		t.Fatalf("interactions = %d, want 1", len(svc.interactions))
	}
	if svc.interactions[0].Action != "detail_view" || svc.interactions[0].DurationMS != 2300 {
		t.Errorf("stored interaction = %+v", svc.interactions[0])
	}
}

func TestTrackInteractionRequiresAction(t *testing.T) {
	rr, _ := serve(t, newMockService(), http.MethodPost, "/api/v1/interactions", `{"user_id": 1}`)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestConfigRoundTrip(t *testing.T) {
	svc := newMockService()

	rr, resp := serve(t, svc, http.MethodGet, "/api/v1/recommendations/config", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("GET config status = %d, want 200", rr.Code)
	}

	raw, err := json.Marshal(resp.Data)
	if err != nil {
		t.Fatalf("re-marshal config: %v", err)
	}
	var cfg recommend.Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		t.Fatalf("config payload does not round-trip: %v", err)
	}
	cfg.Limits.DefaultLimit = 30

	update, _ := json.Marshal(cfg)
	rr, _ = serve(t, svc, http.MethodPut, "/api/v1/recommendations/config", string(update))
	if rr.Code != http.StatusOK {
		t.Fatalf("PUT config status = %d, want 200: %s", rr.Code, rr.Body.String())
	}
	if svc.cfg.Limits.DefaultLimit != 30 {
		t.Errorf("default limit after update = %d, want 30", svc.cfg.Limits.DefaultLimit)
	}
}

func TestUpdateConfigRejectsInvalidWeights(t *testing.T) {
	svc := newMockService()
	cfg := recommend.DefaultConfig()
	cfg.Fusion.Content = -1

	body, _ := json.Marshal(cfg)
	rr, resp := serve(t, svc, http.MethodPut, "/api/v1/recommendations/config", string(body))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	if resp.Error == nil || resp.Error.Code != "VALIDATION_ERROR" {
		t.Errorf("error = %+v, want VALIDATION_ERROR", resp.Error)
	}
}

func TestHealthz(t *testing.T) {
	rr, resp := serve(t, newMockService(), http.MethodGet, "/healthz", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	data := resp.Data.(map[string]interface{})
	if data["status"] != "ok" {
		t.Errorf("health payload = %v", data)
	}
}

func TestRequestIDHeader(t *testing.T) {
	rr, _ := serve(t, newMockService(), http.MethodGet, "/healthz", "")
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header missing")
	}
}
