// Animedex - Anime Tracking and Discovery Backend
// Copyright 2026 Animedex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/animedex/animedex

package recommend

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/animedex/animedex/internal/models"
)

// candidateBuilder selects the bounded pool of not-yet-seen, not-dismissed
// anime for scoring. Quality gating adapts to the user's behavior signal,
// and a strict genre prefilter falls back to secondary genres when it
// would starve users with narrow preferences.
type candidateBuilder struct {
	store  Store
	cfg    *Config
	logger zerolog.Logger
}

// behaviorSignal classifies the user from a sample of completed anime:
// average release year and popularity decide whether the niche quality
// gate applies.
func (b *candidateBuilder) behaviorSignal(completed []models.Anime) BehaviorSignal {
	if len(completed) > b.cfg.Pool.CompletedSample {
		completed = completed[:b.cfg.Pool.CompletedSample]
	}

	var yearSum, popSum float64
	var yearCount, popCount int
	for _, a := range completed {
		if a.Year > 0 {
			yearSum += float64(a.Year)
			yearCount++
		}
		if a.Popularity > 0 {
			popSum += float64(a.Popularity)
			popCount++
		}
	}

	sig := BehaviorSignal{}
	if yearCount > 0 {
		sig.HasSignal = true
		sig.AvgYear = yearSum / float64(yearCount)
	}
	if popCount > 0 {
		sig.AvgPopularity = popSum / float64(popCount)
	}

	currentYear := time.Now().Year()
	oldLean := sig.HasSignal && sig.AvgYear < float64(currentYear-b.cfg.Quality.NicheYearOffset)
	obscureLean := popCount > 0 && sig.AvgPopularity < b.cfg.Quality.NicheMaxAvgPopularity
	sig.NicheLeaning = oldLean || obscureLean

	return sig
}

// gateFor resolves the quality gate for the signal, materializing any
// relative year offset against the current year.
func (b *candidateBuilder) gateFor(sig BehaviorSignal) QualityGate {
	gate := b.cfg.Quality.Mainstream
	if sig.NicheLeaning {
		gate = b.cfg.Quality.Niche
	}
	if gate.YearOffset > 0 {
		gate.MinYear = time.Now().Year() - gate.YearOffset
		gate.YearOffset = 0
	}
	return gate
}

// build fetches the candidate pool. exclude must already contain the seen
// and dismissed sets. When the genre-filtered pool is too small, the
// builder discovers secondary genres co-occurring with the favorites and
// re-queries over the expanded genre set.
func (b *candidateBuilder) build(ctx context.Context, profile *UserProfile, sig BehaviorSignal, exclude map[int]struct{}) ([]models.Anime, error) {
	gate := b.gateFor(sig)

	filter := CandidateFilter{
		Exclude:       exclude,
		IncludeGenres: profile.FavoriteGenreIDs,
		Gate:          &gate,
		Limit:         b.cfg.Pool.MaxCandidates,
	}

	pool, err := b.store.QueryCandidates(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("query candidates: %w", err)
	}

	if len(pool) >= b.cfg.Pool.MinPool || len(profile.FavoriteGenreIDs) == 0 {
		return pool, nil
	}

	// Strict genre filtering starved the pool; expand with genres that
	// co-occur with the favorites.
	secondary, err := b.store.SecondaryGenres(ctx, profile.FavoriteGenreIDs, b.cfg.Pool.CoOccurrenceSample)
	if err != nil {
		return nil, fmt.Errorf("secondary genres: %w", err)
	}
	if len(secondary) == 0 {
		return pool, nil
	}

	expanded := make([]int, 0, len(profile.FavoriteGenreIDs)+len(secondary))
	expanded = append(expanded, profile.FavoriteGenreIDs...)
	expanded = append(expanded, secondary...)

	filter.IncludeGenres = expanded
	pool, err = b.store.QueryCandidates(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("query expanded candidates: %w", err)
	}

	b.logger.Debug().
		Int("user_id", profile.UserID).
		Int("secondary_genres", len(secondary)).
		Int("pool", len(pool)).
		Msg("candidate pool expanded with secondary genres")

	return pool, nil
}
