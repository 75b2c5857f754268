// Animedex - Anime Tracking and Discovery Backend
// Copyright 2026 Animedex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/animedex/animedex

package recommend

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/animedex/animedex/internal/metrics"
	"github.com/animedex/animedex/internal/models"
)

// ErrUserNotFound is returned by Store implementations for unknown users.
// Callers treat it as an empty recommendation set, not a failure.
var ErrUserNotFound = errors.New("user not found")

// CandidateFilter describes a candidate query against the storage
// collaborator. Results are ordered by rating descending, then popularity
// descending, then ID ascending, and capped at Limit.
type CandidateFilter struct {
	// Exclude removes these anime IDs (seen and dismissed sets).
	Exclude map[int]struct{}

	// IncludeGenres restricts to anime sharing at least one of these
	// genre IDs. Empty means no genre restriction.
	IncludeGenres []int

	// ExcludeGenres removes anime carrying any of these genre IDs.
	ExcludeGenres []int

	// Gate admits a candidate when ANY of its thresholds is met.
	// Nil disables gating.
	Gate *QualityGate

	// MinRating and MaxPopularity are strict AND conditions, used by the
	// hidden-gems and discovery surfaces. MinRating is inclusive,
	// MaxPopularity is exclusive: a candidate at exactly MaxPopularity is
	// rejected. Zero disables each.
	MinRating     float64
	MaxPopularity int

	Limit int
}

// Store is the storage collaborator contract. Implementations own their
// consistency guarantees; the engine never writes through this interface.
type Store interface {
	// LoadUserHistory returns the user's preferences, ratings, and watch
	// list, or ErrUserNotFound.
	LoadUserHistory(ctx context.Context, userID int) (*UserHistory, error)

	// GetAnime returns records for the given IDs, skipping unknown ones.
	GetAnime(ctx context.Context, ids []int) ([]models.Anime, error)

	// QueryCandidates returns anime matching the filter.
	QueryCandidates(ctx context.Context, f CandidateFilter) ([]models.Anime, error)

	// SecondaryGenres returns genre IDs co-occurring with the given
	// favorite genres in a sample of popular anime, most frequent first,
	// excluding the favorites themselves.
	SecondaryGenres(ctx context.Context, favoriteGenres []int, sample int) ([]int, error)

	// TrendingAnime returns a popularity-ranked slice, optionally
	// restricted to anime sharing at least one of the given genres.
	TrendingAnime(ctx context.Context, genres []int, limit int) ([]models.Anime, error)
}

// CollaborativeProvider is the external collaborative-filtering service.
type CollaborativeProvider interface {
	// Recommendations returns predicted per-anime scores on a 0-10 scale
	// derived from similar users.
	Recommendations(ctx context.Context, userID, limit int) ([]CollabScore, error)

	// InvalidateUserCache drops the provider's user-similarity cache for
	// the user. Advisory; errors are logged, not surfaced.
	InvalidateUserCache(ctx context.Context, userID int) error
}

// EmbeddingProvider is the external embedding-similarity service.
type EmbeddingProvider interface {
	// SimilarAnime returns the k anime most semantically similar to the
	// source, with similarity in [0, 1].
	SimilarAnime(ctx context.Context, animeID, k int) ([]SimilarAnime, error)
}

// FeedbackStore persists dismiss/hide feedback and interaction telemetry.
type FeedbackStore interface {
	// Upsert stores feedback keyed by (user, anime).
	Upsert(ctx context.Context, fb models.Feedback) error

	// DismissedIDs returns the anime IDs the user dismissed or hid.
	DismissedIDs(ctx context.Context, userID int) (map[int]struct{}, error)

	// RecordInteraction stores a telemetry event. Best effort.
	RecordInteraction(ctx context.Context, ix models.Interaction) error
}

// BreakerConfig configures the provider circuit breakers.
type BreakerConfig struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold uint32
}

// DefaultBreakerConfig returns breaker settings suited to the soft
// real-time recommendation path: trip fast, probe after a short cooldown.
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:             name,
		MaxRequests:      3,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
	}
}

// newBreaker creates a typed circuit breaker from the config.
func newBreaker[T any](cfg BreakerConfig, logger zerolog.Logger) *gobreaker.CircuitBreaker[T] {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.SetBreakerState(name, float64(to))
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("provider breaker state change")
		},
	}
	return gobreaker.NewCircuitBreaker[T](settings)
}

// BreakerCollaborative wraps a CollaborativeProvider with a circuit
// breaker. An open breaker surfaces as an error, which the engine treats
// as Unavailable.
type BreakerCollaborative struct {
	inner CollaborativeProvider
	cb    *gobreaker.CircuitBreaker[[]CollabScore]
}

// NewBreakerCollaborative wraps the provider.
func NewBreakerCollaborative(inner CollaborativeProvider, cfg BreakerConfig, logger zerolog.Logger) *BreakerCollaborative {
	return &BreakerCollaborative{
		inner: inner,
		cb:    newBreaker[[]CollabScore](cfg, logger),
	}
}

// Recommendations executes the wrapped call through the breaker.
func (b *BreakerCollaborative) Recommendations(ctx context.Context, userID, limit int) ([]CollabScore, error) {
	return b.cb.Execute(func() ([]CollabScore, error) {
		return b.inner.Recommendations(ctx, userID, limit)
	})
}

// InvalidateUserCache passes through without the breaker: invalidation is
// advisory and must not count toward tripping the read path.
func (b *BreakerCollaborative) InvalidateUserCache(ctx context.Context, userID int) error {
	return b.inner.InvalidateUserCache(ctx, userID)
}

// BreakerEmbedding wraps an EmbeddingProvider with a circuit breaker.
type BreakerEmbedding struct {
	inner EmbeddingProvider
	cb    *gobreaker.CircuitBreaker[[]SimilarAnime]
}

// NewBreakerEmbedding wraps the provider.
func NewBreakerEmbedding(inner EmbeddingProvider, cfg BreakerConfig, logger zerolog.Logger) *BreakerEmbedding {
	return &BreakerEmbedding{
		inner: inner,
		cb:    newBreaker[[]SimilarAnime](cfg, logger),
	}
}

// SimilarAnime executes the wrapped call through the breaker.
func (b *BreakerEmbedding) SimilarAnime(ctx context.Context, animeID, k int) ([]SimilarAnime, error) {
	return b.cb.Execute(func() ([]SimilarAnime, error) {
		return b.inner.SimilarAnime(ctx, animeID, k)
	})
}

var (
	_ CollaborativeProvider = (*BreakerCollaborative)(nil)
	_ EmbeddingProvider     = (*BreakerEmbedding)(nil)
)
