// Animedex - Anime Tracking and Discovery Backend
// Copyright 2026 Animedex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/animedex/animedex

package recommend

import (
	"strings"

	"github.com/animedex/animedex/internal/models"
)

// DiscoveryMode controls what fraction of results are intentionally outside
// the user's established genre preferences.
type DiscoveryMode int

const (
	// ModeBalanced mixes genre-aligned and novel recommendations (70/30).
	ModeBalanced DiscoveryMode = iota
	// ModeFocused stays close to established preferences (90/10).
	ModeFocused
	// ModeExploratory emphasizes discovery over exploitation (50/50).
	ModeExploratory
)

// String returns a human-readable mode name.
func (m DiscoveryMode) String() string {
	switch m {
	case ModeFocused:
		return "focused"
	case ModeExploratory:
		return "exploratory"
	case ModeBalanced:
		return "balanced"
	default:
		return "unknown"
	}
}

// ParseDiscoveryMode converts a stored preference string to a mode.
// Unknown strings fall back to balanced.
func ParseDiscoveryMode(s string) DiscoveryMode {
	switch strings.ToLower(s) {
	case "focused":
		return ModeFocused
	case "exploratory":
		return ModeExploratory
	default:
		return ModeBalanced
	}
}

// UserHistory is the persisted state loaded from the storage collaborator:
// explicit preferences plus watch-list and rating records.
type UserHistory struct {
	UserID int `json:"user_id"`

	// FavoriteGenres are the explicitly chosen favorite genre IDs.
	// May be empty, in which case the profile builder derives them.
	FavoriteGenres []int `json:"favorite_genres,omitempty"`

	// FavoriteTags are explicitly chosen favorite tags.
	FavoriteTags []string `json:"favorite_tags,omitempty"`

	// DiscoveryMode is the user's stated preference. The composer may
	// override it based on behavioral statistics.
	DiscoveryMode DiscoveryMode `json:"discovery_mode,omitempty"`

	Ratings   []models.Rating         `json:"ratings,omitempty"`
	WatchList []models.WatchListEntry `json:"watch_list,omitempty"`
}

// UserProfile is the normalized view of a user's taste, rebuilt per request
// from persisted state and treated as read-only within one scoring pass.
type UserProfile struct {
	UserID int

	// FavoriteGenreIDs is ordered (explicit order, or derivation weight
	// descending with genre-ID tie-break).
	FavoriteGenreIDs []int

	// FavoriteGenreSet mirrors FavoriteGenreIDs for membership tests.
	FavoriteGenreSet map[int]struct{}

	// FavoriteTags is the lowercased favorite tag set.
	FavoriteTags map[string]struct{}

	// DiscoveryMode is the stated preference.
	DiscoveryMode DiscoveryMode

	// RatingByAnime maps anime ID to the user's 1-10 score.
	RatingByAnime map[int]int

	// Seen is every anime ID on the watch list, regardless of status.
	Seen map[int]struct{}

	// Status subsets of the watch list.
	FavoritedIDs   []int
	PlanToWatchIDs []int
	WatchingIDs    []int
	CompletedIDs   []int

	// GenreWatchCounts counts watch-list anime per genre, used by the
	// affinity rules. Populated by the profile builder from the touched
	// anime records.
	GenreWatchCounts map[int]int
}

// TotalWatched returns the number of watch-list entries, the behavioral
// statistic driving effective discovery mode selection.
func (p *UserProfile) TotalWatched() int {
	return len(p.Seen)
}

// RecommendationScore is one ranked output entry. Score is unbounded
// positive and meaningful only for relative ordering.
type RecommendationScore struct {
	Anime models.Anime `json:"anime"`

	// Score is the fused ranking score after contextual multipliers.
	Score float64 `json:"score"`

	// Reason is the highest-priority human-readable explanation among the
	// signals that fired.
	Reason string `json:"reason"`

	// Signals is the per-signal breakdown (content, collaborative,
	// embedding) before fusion, for diagnostics.
	Signals map[string]float64 `json:"signals,omitempty"`
}

// CollabScore is one entry from the collaborative-filtering provider.
type CollabScore struct {
	AnimeID int `json:"anime_id"`

	// Predicted is the predicted affinity on a 0-10 scale.
	Predicted float64 `json:"predicted_score"`

	// SimilarUsers is how many similar users contributed to the prediction.
	SimilarUsers int `json:"similar_user_count"`
}

// SimilarAnime is one entry from the embedding-similarity provider.
type SimilarAnime struct {
	AnimeID int `json:"anime_id"`

	// Similarity is the semantic similarity in [0, 1].
	Similarity float64 `json:"similarity"`
}

// ProviderResult is a tagged result from an external signal provider.
// An unavailable provider degrades that signal's contribution to zero; it
// never aborts the request.
type ProviderResult[T any] struct {
	value       T
	unavailable bool
}

// Ok wraps a successful provider response.
func Ok[T any](v T) ProviderResult[T] {
	return ProviderResult[T]{value: v}
}

// Unavailable marks a provider outage (error, timeout, or open breaker).
func Unavailable[T any]() ProviderResult[T] {
	return ProviderResult[T]{unavailable: true}
}

// Get returns the value and whether the provider was available.
func (r ProviderResult[T]) Get() (T, bool) {
	return r.value, !r.unavailable
}

// BehaviorSignal summarizes the user's completed-anime sample: average
// release year and popularity, used by the quality gate and the recency
// multiplier.
type BehaviorSignal struct {
	// HasSignal is false when the user has no completed anime with known
	// year/popularity.
	HasSignal bool

	// AvgYear is the average release year of sampled completed anime.
	AvgYear float64

	// AvgPopularity is the average view count of the same sample.
	AvgPopularity float64

	// NicheLeaning marks users who trend toward old or obscure content,
	// for whom the quality gate is loosened.
	NicheLeaning bool
}
