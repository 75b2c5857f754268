// Animedex - Anime Tracking and Discovery Backend
// Copyright 2026 Animedex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/animedex/animedex

package recommend

import (
	"math"

	"github.com/animedex/animedex/internal/models"
)

// composer partitions the ranked candidate list into a genre-aligned main
// slice and a novel-genre discovery slice, sized by the effective
// discovery mode.
type composer struct {
	cfg *Config
}

// effectiveMode classifies the discovery mode from behavior, overriding
// the stated preference. New users are forced into balanced exploration,
// users still building a library into focused mode, and established users
// are classified by the genre diversity of their watch history. The
// returned ratio is the main-slice share of the result count.
func (c *composer) effectiveMode(p *UserProfile, watched []models.Anime) (DiscoveryMode, float64) {
	d := c.cfg.Diversity
	total := p.TotalWatched()

	switch {
	case total < d.NewUserThreshold:
		return ModeBalanced, d.BalancedRatio
	case total <= d.EstablishedThreshold:
		return ModeFocused, d.FocusedRatio
	}

	if len(watched) > d.GenreSample {
		watched = watched[:d.GenreSample]
	}
	genres := make(map[int]struct{})
	for _, a := range watched {
		for _, g := range a.Genres {
			genres[g.ID] = struct{}{}
		}
	}

	switch {
	case len(genres) < d.NarrowGenres:
		// Very narrow taste: tighten the split further.
		return ModeFocused, d.TightFocusedRatio
	case len(genres) >= d.WideGenres:
		return ModeExploratory, d.ExploratoryRatio
	default:
		return ModeBalanced, d.BalancedRatio
	}
}

// compose builds the final ordered list: main slice first (score-ranked
// or genre-balanced), then the discovery slice, truncated to limit.
// scored must already be sorted by score descending.
func (c *composer) compose(scored []RecommendationScore, p *UserProfile, mode DiscoveryMode, mainRatio float64, limit int) []RecommendationScore {
	if limit <= 0 || len(scored) == 0 {
		return nil
	}
	if limit > len(scored) {
		limit = len(scored)
	}

	mainCount := int(math.Round(float64(limit) * mainRatio))
	if mainCount > limit {
		mainCount = limit
	}
	if mainCount < 1 {
		mainCount = 1
	}

	var main []RecommendationScore
	if len(p.FavoriteGenreIDs) >= c.cfg.Diversity.BalanceMinGenres && mode != ModeFocused {
		main = c.genreBalancedMain(scored, p.FavoriteGenreIDs, mainCount)
	} else {
		main = scored[:mainCount]
	}

	out := make([]RecommendationScore, 0, limit)
	out = append(out, main...)
	out = c.appendDiscovery(out, scored, limit)
	return out
}

// genreBalancedMain distributes the main slice round-robin across the
// user's favorite genres, capping each genre's share, then backfills any
// shortfall with the next best candidates regardless of genre.
func (c *composer) genreBalancedMain(scored []RecommendationScore, favoriteGenres []int, mainCount int) []RecommendationScore {
	perGenreCap := int(math.Ceil(float64(mainCount) / float64(len(favoriteGenres))))

	taken := make(map[int]struct{}, mainCount)
	genreTaken := make(map[int]int, len(favoriteGenres))
	main := make([]RecommendationScore, 0, mainCount)

	// Round-robin: repeatedly give each favorite genre its next best
	// unclaimed candidate until the slice fills or nothing matches.
	for len(main) < mainCount {
		progressed := false
		for _, genreID := range favoriteGenres {
			if len(main) >= mainCount {
				break
			}
			if genreTaken[genreID] >= perGenreCap {
				continue
			}
			for _, rec := range scored {
				if _, ok := taken[rec.Anime.ID]; ok {
					continue
				}
				if !rec.Anime.HasGenre(genreID) {
					continue
				}
				main = append(main, rec)
				taken[rec.Anime.ID] = struct{}{}
				genreTaken[genreID]++
				progressed = true
				break
			}
		}
		if !progressed {
			break
		}
	}

	// Backfill by score.
	for _, rec := range scored {
		if len(main) >= mainCount {
			break
		}
		if _, ok := taken[rec.Anime.ID]; ok {
			continue
		}
		main = append(main, rec)
		taken[rec.Anime.ID] = struct{}{}
	}

	return main
}

// appendDiscovery extends the main slice with candidates that introduce
// at least one genre not yet represented, then backfills by score if the
// pool cannot supply enough novelty.
func (c *composer) appendDiscovery(out, scored []RecommendationScore, limit int) []RecommendationScore {
	seen := make(map[int]struct{}, len(out))
	mainGenres := make(map[int]struct{})
	for _, rec := range out {
		seen[rec.Anime.ID] = struct{}{}
		for _, g := range rec.Anime.Genres {
			mainGenres[g.ID] = struct{}{}
		}
	}

	for _, rec := range scored {
		if len(out) >= limit {
			return out
		}
		if _, ok := seen[rec.Anime.ID]; ok {
			continue
		}
		if introducesGenre(rec.Anime, mainGenres) {
			out = append(out, rec)
			seen[rec.Anime.ID] = struct{}{}
			for _, g := range rec.Anime.Genres {
				mainGenres[g.ID] = struct{}{}
			}
		}
	}

	for _, rec := range scored {
		if len(out) >= limit {
			break
		}
		if _, ok := seen[rec.Anime.ID]; ok {
			continue
		}
		out = append(out, rec)
		seen[rec.Anime.ID] = struct{}{}
	}

	return out
}

// introducesGenre reports whether the anime carries a genre absent from
// the set.
func introducesGenre(a models.Anime, genres map[int]struct{}) bool {
	for _, g := range a.Genres {
		if _, ok := genres[g.ID]; !ok {
			return true
		}
	}
	return false
}
