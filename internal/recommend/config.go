// Animedex - Anime Tracking and Discovery Backend
// Copyright 2026 Animedex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/animedex/animedex

package recommend

import (
	"fmt"
	"time"
)

// Config contains all tunable parameters of the recommendation engine.
// Operators can retune any of it at runtime via the config endpoint; no
// weight or threshold is hard-wired in scoring code.
type Config struct {
	// Fusion defines the relative contribution of each signal.
	Fusion FusionWeights `json:"fusion" koanf:"fusion"`

	// Content contains weights for the content sub-score.
	Content ContentWeights `json:"content" koanf:"content"`

	// Similarity contains weights for the pairwise anime similarity.
	Similarity SimilarityWeights `json:"similarity" koanf:"similarity"`

	// Quality contains the adaptive candidate quality gates.
	Quality QualityConfig `json:"quality" koanf:"quality"`

	// Pool contains candidate pool sizing parameters.
	Pool PoolConfig `json:"pool" koanf:"pool"`

	// Multipliers contains the contextual score multipliers.
	Multipliers MultiplierConfig `json:"multipliers" koanf:"multipliers"`

	// Affinity is the declarative genre affinity rule table.
	Affinity []AffinityRule `json:"affinity" koanf:"affinity"`

	// Diversity contains the discovery-mode composition parameters.
	Diversity DiversityConfig `json:"diversity" koanf:"diversity"`

	// HiddenGems contains thresholds for the hidden-gems surface.
	HiddenGems HiddenGemsConfig `json:"hidden_gems" koanf:"hidden_gems"`

	// Discovery contains thresholds for the discovery surface.
	Discovery DiscoveryConfig `json:"discovery" koanf:"discovery"`

	// Limits contains operational limits.
	Limits LimitsConfig `json:"limits" koanf:"limits"`

	// Cache contains response cache parameters.
	Cache CacheConfig `json:"cache" koanf:"cache"`
}

// FusionWeights defines the relative contribution of each signal to the
// fused score. Normalized at runtime, so they need not sum to 1.0.
type FusionWeights struct {
	// Content favors explicit taste signals.
	Content float64 `json:"content" koanf:"content"`

	// Collaborative weighs behavior of similar users.
	Collaborative float64 `json:"collaborative" koanf:"collaborative"`

	// Embedding weighs semantic description similarity.
	Embedding float64 `json:"embedding" koanf:"embedding"`
}

// Normalize returns a copy with weights normalized to sum to 1.0.
func (w FusionWeights) Normalize() FusionWeights {
	sum := w.Content + w.Collaborative + w.Embedding
	if sum == 0 {
		const equal = 1.0 / 3.0
		return FusionWeights{Content: equal, Collaborative: equal, Embedding: equal}
	}
	return FusionWeights{
		Content:       w.Content / sum,
		Collaborative: w.Collaborative / sum,
		Embedding:     w.Embedding / sum,
	}
}

// ContentWeights contains weights for the content sub-score terms.
// The sub-score is additive and not bounded to [0, 1].
type ContentWeights struct {
	// Genre is the weight of genre-set Jaccard against favorite genres.
	Genre float64 `json:"genre" koanf:"genre"`

	// Tag is the weight of tag-set Jaccard against favorite tags.
	Tag float64 `json:"tag" koanf:"tag"`

	// Rating is the weight of the candidate's normalized community rating.
	Rating float64 `json:"rating" koanf:"rating"`

	// Popularity is the weight of the candidate's normalized popularity.
	Popularity float64 `json:"popularity" koanf:"popularity"`

	// PopularityNorm is the popularity count mapped to 1.0.
	PopularityNorm float64 `json:"popularity_norm" koanf:"popularity_norm"`

	// TopRated is the per-anime weight of similarity to the user's
	// top-rated anime (added once per prefetched top-rated title).
	TopRated float64 `json:"top_rated" koanf:"top_rated"`

	// Favorite is the weight of max similarity to favorited anime.
	Favorite float64 `json:"favorite" koanf:"favorite"`

	// PlanToWatch is the weight of max similarity to plan-to-watch anime.
	PlanToWatch float64 `json:"plan_to_watch" koanf:"plan_to_watch"`

	// Watching is the weight of max similarity to currently-watching anime.
	Watching float64 `json:"watching" koanf:"watching"`
}

// SimilarityWeights contains weights for the pairwise anime similarity.
// The remaining 0.10 of the unit budget is reserved for popularity boosts
// applied at call sites, not in the base pairwise function.
type SimilarityWeights struct {
	Genre  float64 `json:"genre" koanf:"genre"`
	Tag    float64 `json:"tag" koanf:"tag"`
	Rating float64 `json:"rating" koanf:"rating"`
	Year   float64 `json:"year" koanf:"year"`
	Type   float64 `json:"type" koanf:"type"`

	// MaxYearDifference is the year gap mapped to zero similarity.
	MaxYearDifference int `json:"max_year_difference" koanf:"max_year_difference"`
}

// QualityGate is an OR of three admission conditions: a candidate passes
// when its rating, popularity, or release year clears the threshold.
type QualityGate struct {
	MinRating     float64 `json:"min_rating" koanf:"min_rating"`
	MinPopularity int     `json:"min_popularity" koanf:"min_popularity"`

	// MinYear admits anime released in or after this year. When
	// YearOffset is non-zero, MinYear is computed as currentYear-YearOffset
	// instead.
	MinYear    int `json:"min_year" koanf:"min_year"`
	YearOffset int `json:"year_offset" koanf:"year_offset"`
}

// QualityConfig contains the adaptive quality gates and the behavioral
// classifier that selects between them.
type QualityConfig struct {
	// Mainstream is the gate for users without a niche lean.
	Mainstream QualityGate `json:"mainstream" koanf:"mainstream"`

	// Niche is the loosened gate for users who trend toward old or
	// obscure content, so gating does not exclude exactly what they want.
	Niche QualityGate `json:"niche" koanf:"niche"`

	// NicheYearOffset classifies a user as niche-leaning when their
	// average completed-anime year is older than currentYear-offset.
	NicheYearOffset int `json:"niche_year_offset" koanf:"niche_year_offset"`

	// NicheMaxAvgPopularity classifies a user as niche-leaning when their
	// average completed-anime popularity is below this count.
	NicheMaxAvgPopularity float64 `json:"niche_max_avg_popularity" koanf:"niche_max_avg_popularity"`
}

// PoolConfig contains candidate pool sizing parameters.
type PoolConfig struct {
	// MaxCandidates caps the fetched pool.
	MaxCandidates int `json:"max_candidates" koanf:"max_candidates"`

	// MinPool triggers the secondary-genre fallback when the
	// genre-filtered pool is smaller.
	MinPool int `json:"min_pool" koanf:"min_pool"`

	// CoOccurrenceSample is the sample size for discovering secondary
	// genres that co-occur with favorites.
	CoOccurrenceSample int `json:"co_occurrence_sample" koanf:"co_occurrence_sample"`

	// CompletedSample caps the completed-anime sample for the behavior
	// signal.
	CompletedSample int `json:"completed_sample" koanf:"completed_sample"`
}

// MultiplierConfig contains the contextual multipliers applied, in order,
// to the fused score: recency, popularity-within-genre, genre gate.
type MultiplierConfig struct {
	// RecentYears is the candidate age (years) counted as recent.
	RecentYears int `json:"recent_years" koanf:"recent_years"`

	// OldYears is the candidate age beyond which the old penalty applies.
	OldYears int `json:"old_years" koanf:"old_years"`

	// RecentTrendYear is the average completed year at or above which the
	// user counts as trending recent.
	RecentTrendYear float64 `json:"recent_trend_year" koanf:"recent_trend_year"`

	// RecencyBoost applies to recent candidates for recent-trending users.
	RecencyBoost float64 `json:"recency_boost" koanf:"recency_boost"`

	// OldPenalty applies to old candidates for recent-trending users.
	OldPenalty float64 `json:"old_penalty" koanf:"old_penalty"`

	// MildRecencyBoost applies to recent candidates otherwise.
	MildRecencyBoost float64 `json:"mild_recency_boost" koanf:"mild_recency_boost"`

	// NoSignalBoost applies to candidates at most NoSignalYears old when
	// the user has no year signal at all.
	NoSignalBoost float64 `json:"no_signal_boost" koanf:"no_signal_boost"`
	NoSignalYears int     `json:"no_signal_years" koanf:"no_signal_years"`

	// GenrePopularityOverlap is the favorite-genre overlap at or above
	// which the popularity-within-genre boost applies.
	GenrePopularityOverlap float64 `json:"genre_popularity_overlap" koanf:"genre_popularity_overlap"`

	// GenrePopularityNorm is the popularity count mapped to the full
	// boost; GenrePopularityBoost is the maximum boost fraction.
	GenrePopularityNorm  float64 `json:"genre_popularity_norm" koanf:"genre_popularity_norm"`
	GenrePopularityBoost float64 `json:"genre_popularity_boost" koanf:"genre_popularity_boost"`

	// GenreGateThreshold is the genre overlap above which matched
	// candidates are boosted by overlap*GenreGateBoost; below it the
	// mismatch penalty applies. Mismatches are penalized, not excluded,
	// preserving serendipity.
	GenreGateThreshold   float64 `json:"genre_gate_threshold" koanf:"genre_gate_threshold"`
	GenreGateBoost       float64 `json:"genre_gate_boost" koanf:"genre_gate_boost"`
	GenreMismatchPenalty float64 `json:"genre_mismatch_penalty" koanf:"genre_mismatch_penalty"`
}

// AffinityRule amplifies an established genre affinity: once the user's
// watch count for Genre crosses MinWatched, candidates in that genre are
// boosted, a complementary pairing is boosted further, and a conflicting
// pairing is penalized unless the user already rated that candidate at or
// above EscapeRating.
type AffinityRule struct {
	// Genre is the genre ID the rule keys on.
	Genre int `json:"genre" koanf:"genre"`

	// MinWatched is the accumulated watch count activating the rule.
	MinWatched int `json:"min_watched" koanf:"min_watched"`

	// Boost applies to candidates sharing Genre.
	Boost float64 `json:"boost" koanf:"boost"`

	// ComboGenre and ComboBoost apply a further boost when the candidate
	// pairs Genre with the complementary genre. Zero ComboGenre disables.
	ComboGenre int     `json:"combo_genre" koanf:"combo_genre"`
	ComboBoost float64 `json:"combo_boost" koanf:"combo_boost"`

	// ConflictGenre and ConflictPenalty penalize candidates pairing Genre
	// with a conflicting genre. Zero ConflictGenre disables.
	ConflictGenre   int     `json:"conflict_genre" koanf:"conflict_genre"`
	ConflictPenalty float64 `json:"conflict_penalty" koanf:"conflict_penalty"`

	// EscapeRating exempts candidates the user already rated at or above
	// this score from the conflict penalty.
	EscapeRating int `json:"escape_rating" koanf:"escape_rating"`
}

// DiversityConfig contains the adaptive discovery-mode parameters.
type DiversityConfig struct {
	// NewUserThreshold forces balanced mode below this watched count.
	NewUserThreshold int `json:"new_user_threshold" koanf:"new_user_threshold"`

	// EstablishedThreshold forces focused mode up to this watched count;
	// beyond it genre diversity decides.
	EstablishedThreshold int `json:"established_threshold" koanf:"established_threshold"`

	// GenreSample caps the watched-anime sample for genre diversity.
	GenreSample int `json:"genre_sample" koanf:"genre_sample"`

	// NarrowGenres and WideGenres are the unique-genre counts selecting
	// tight-focused and exploratory modes respectively.
	NarrowGenres int `json:"narrow_genres" koanf:"narrow_genres"`
	WideGenres   int `json:"wide_genres" koanf:"wide_genres"`

	// Main-slice ratios per effective mode.
	FocusedRatio      float64 `json:"focused_ratio" koanf:"focused_ratio"`
	TightFocusedRatio float64 `json:"tight_focused_ratio" koanf:"tight_focused_ratio"`
	BalancedRatio     float64 `json:"balanced_ratio" koanf:"balanced_ratio"`
	ExploratoryRatio  float64 `json:"exploratory_ratio" koanf:"exploratory_ratio"`

	// BalanceMinGenres is the favorite-genre count at or above which the
	// main slice is distributed round-robin across favorite genres.
	BalanceMinGenres int `json:"balance_min_genres" koanf:"balance_min_genres"`
}

// HiddenGemsConfig contains thresholds for the hidden-gems surface:
// high-quality, low-popularity anime surfaced against popularity bias.
type HiddenGemsConfig struct {
	MinRating     float64 `json:"min_rating" koanf:"min_rating"`
	MaxPopularity int     `json:"max_popularity" koanf:"max_popularity"`
}

// DiscoveryConfig contains thresholds for the discovery surface:
// quality-gated candidates from genres outside the user's favorites.
type DiscoveryConfig struct {
	MinRating float64 `json:"min_rating" koanf:"min_rating"`
}

// LimitsConfig contains operational limits.
type LimitsConfig struct {
	// DefaultLimit is the result count when the caller passes zero.
	DefaultLimit int `json:"default_limit" koanf:"default_limit"`

	// MaxLimit is the maximum allowed result count.
	MaxLimit int `json:"max_limit" koanf:"max_limit"`

	// TopRated caps the user's top-rated anime used for similarity and
	// embedding lookups; TopRatedMinScore is the qualifying user score.
	TopRated         int `json:"top_rated" koanf:"top_rated"`
	TopRatedMinScore int `json:"top_rated_min_score" koanf:"top_rated_min_score"`

	// EmbeddingK is the neighbor count requested per embedding lookup.
	EmbeddingK int `json:"embedding_k" koanf:"embedding_k"`

	// CollabLimit is the entry count requested from the collaborative
	// provider.
	CollabLimit int `json:"collab_limit" koanf:"collab_limit"`

	// ProviderTimeout bounds each external provider call.
	ProviderTimeout time.Duration `json:"provider_timeout" koanf:"provider_timeout"`

	// ReasonSimilarity is the pairwise similarity above which a
	// similarity-based reason fires.
	ReasonSimilarity float64 `json:"reason_similarity" koanf:"reason_similarity"`

	// ReasonGenreOverlap is the favorite-genre overlap above which the
	// explicit genre-match reason fires.
	ReasonGenreOverlap float64 `json:"reason_genre_overlap" koanf:"reason_genre_overlap"`
}

// CacheConfig contains response cache parameters.
type CacheConfig struct {
	Enabled    bool          `json:"enabled" koanf:"enabled"`
	TTL        time.Duration `json:"ttl" koanf:"ttl"`
	MaxEntries int           `json:"max_entries" koanf:"max_entries"`
}

// Genre IDs used by the default affinity rules.
const (
	genreAction      = 1
	genreRomance     = 22
	genreSliceOfLife = 36
)

// DefaultConfig returns a Config with production defaults.
func DefaultConfig() *Config {
	return &Config{
		Fusion: FusionWeights{
			Content:       0.50,
			Collaborative: 0.30,
			Embedding:     0.20,
		},
		Content: ContentWeights{
			Genre:          0.6,
			Tag:            0.2,
			Rating:         0.15,
			Popularity:     0.05,
			PopularityNorm: 10000,
			TopRated:       0.3,
			Favorite:       0.4,
			PlanToWatch:    0.25,
			Watching:       0.3,
		},
		Similarity: SimilarityWeights{
			Genre:             0.35,
			Tag:               0.20,
			Rating:            0.15,
			Year:              0.10,
			Type:              0.10,
			MaxYearDifference: 20,
		},
		Quality: QualityConfig{
			Mainstream: QualityGate{
				MinRating:     6.5,
				MinPopularity: 500,
				YearOffset:    10,
			},
			Niche: QualityGate{
				MinRating:     6.0,
				MinPopularity: 100,
				MinYear:       2000,
			},
			NicheYearOffset:       15,
			NicheMaxAvgPopularity: 1000,
		},
		Pool: PoolConfig{
			MaxCandidates:      500,
			MinPool:            50,
			CoOccurrenceSample: 100,
			CompletedSample:    50,
		},
		Multipliers: MultiplierConfig{
			RecentYears:            5,
			OldYears:               10,
			RecentTrendYear:        2015,
			RecencyBoost:           1.15,
			OldPenalty:             0.9,
			MildRecencyBoost:       1.05,
			NoSignalBoost:          1.1,
			NoSignalYears:          10,
			GenrePopularityOverlap: 0.3,
			GenrePopularityNorm:    5000,
			GenrePopularityBoost:   0.15,
			GenreGateThreshold:     0.2,
			GenreGateBoost:         0.2,
			GenreMismatchPenalty:   0.5,
		},
		Affinity: []AffinityRule{
			{
				Genre:           genreRomance,
				MinWatched:      10,
				Boost:           1.2,
				ComboGenre:      genreSliceOfLife,
				ComboBoost:      1.15,
				ConflictGenre:   genreAction,
				ConflictPenalty: 0.3,
				EscapeRating:    8,
			},
		},
		Diversity: DiversityConfig{
			NewUserThreshold:     10,
			EstablishedThreshold: 50,
			GenreSample:          100,
			NarrowGenres:         3,
			WideGenres:           5,
			FocusedRatio:         0.9,
			TightFocusedRatio:    0.95,
			BalancedRatio:        0.7,
			ExploratoryRatio:     0.5,
			BalanceMinGenres:     3,
		},
		HiddenGems: HiddenGemsConfig{
			MinRating:     8.0,
			MaxPopularity: 5000,
		},
		Discovery: DiscoveryConfig{
			MinRating: 7.5,
		},
		Limits: LimitsConfig{
			DefaultLimit:       20,
			MaxLimit:           100,
			TopRated:           5,
			TopRatedMinScore:   8,
			EmbeddingK:         20,
			CollabLimit:        100,
			ProviderTimeout:    3 * time.Second,
			ReasonSimilarity:   0.4,
			ReasonGenreOverlap: 0.5,
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTL:        5 * time.Minute,
			MaxEntries: 10000,
		},
	}
}

// Validate checks the configuration for errors.
//
//nolint:gocyclo // validation needs to check many fields
func (c *Config) Validate() error {
	if c.Fusion.Content < 0 || c.Fusion.Collaborative < 0 || c.Fusion.Embedding < 0 {
		return fmt.Errorf("fusion weights must be non-negative, got %+v", c.Fusion)
	}
	if c.Similarity.MaxYearDifference < 1 {
		return fmt.Errorf("similarity.max_year_difference must be positive, got %d", c.Similarity.MaxYearDifference)
	}
	if c.Pool.MaxCandidates < 1 {
		return fmt.Errorf("pool.max_candidates must be positive, got %d", c.Pool.MaxCandidates)
	}
	if c.Pool.MinPool < 0 || c.Pool.MinPool > c.Pool.MaxCandidates {
		return fmt.Errorf("pool.min_pool must be in [0, max_candidates], got %d", c.Pool.MinPool)
	}
	// A gate with no active threshold rejects every candidate under OR
	// semantics, silently emptying all personalized surfaces.
	for name, gate := range map[string]QualityGate{
		"mainstream": c.Quality.Mainstream,
		"niche":      c.Quality.Niche,
	} {
		if gate.MinRating <= 0 && gate.MinPopularity <= 0 && gate.MinYear <= 0 && gate.YearOffset <= 0 {
			return fmt.Errorf("quality.%s must set at least one threshold", name)
		}
	}
	if c.Multipliers.GenreMismatchPenalty <= 0 || c.Multipliers.GenreMismatchPenalty > 1 {
		return fmt.Errorf("multipliers.genre_mismatch_penalty must be in (0, 1], got %f", c.Multipliers.GenreMismatchPenalty)
	}
	if c.Multipliers.GenreGateThreshold < 0 || c.Multipliers.GenreGateThreshold > 1 {
		return fmt.Errorf("multipliers.genre_gate_threshold must be in [0, 1], got %f", c.Multipliers.GenreGateThreshold)
	}
	for i, r := range c.Affinity {
		if r.Genre <= 0 {
			return fmt.Errorf("affinity[%d].genre must be positive, got %d", i, r.Genre)
		}
		if r.Boost <= 0 {
			return fmt.Errorf("affinity[%d].boost must be positive, got %f", i, r.Boost)
		}
		if r.ConflictGenre != 0 && (r.ConflictPenalty <= 0 || r.ConflictPenalty > 1) {
			return fmt.Errorf("affinity[%d].conflict_penalty must be in (0, 1], got %f", i, r.ConflictPenalty)
		}
	}
	for name, ratio := range map[string]float64{
		"focused_ratio":       c.Diversity.FocusedRatio,
		"tight_focused_ratio": c.Diversity.TightFocusedRatio,
		"balanced_ratio":      c.Diversity.BalancedRatio,
		"exploratory_ratio":   c.Diversity.ExploratoryRatio,
	} {
		if ratio <= 0 || ratio > 1 {
			return fmt.Errorf("diversity.%s must be in (0, 1], got %f", name, ratio)
		}
	}
	if c.Limits.DefaultLimit < 1 {
		return fmt.Errorf("limits.default_limit must be positive, got %d", c.Limits.DefaultLimit)
	}
	if c.Limits.MaxLimit < c.Limits.DefaultLimit {
		return fmt.Errorf("limits.max_limit must be >= limits.default_limit, got %d < %d", c.Limits.MaxLimit, c.Limits.DefaultLimit)
	}
	if c.Limits.TopRated < 0 {
		return fmt.Errorf("limits.top_rated must be non-negative, got %d", c.Limits.TopRated)
	}
	if c.Limits.ProviderTimeout <= 0 {
		return fmt.Errorf("limits.provider_timeout must be positive, got %v", c.Limits.ProviderTimeout)
	}
	if c.Cache.Enabled && c.Cache.MaxEntries < 1 {
		return fmt.Errorf("cache.max_entries must be positive when cache is enabled, got %d", c.Cache.MaxEntries)
	}
	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	out := *c
	out.Affinity = make([]AffinityRule, len(c.Affinity))
	copy(out.Affinity, c.Affinity)
	return &out
}
