// Animedex - Anime Tracking and Discovery Backend
// Copyright 2026 Animedex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/animedex/animedex

package recommend

import (
	"sort"
	"strings"

	"github.com/animedex/animedex/internal/models"
)

// statusWeight multiplies the per-anime weight during favorite-genre
// derivation. Completed shows carry the strongest signal; dropped shows
// still count, but weakly.
func statusWeight(s models.WatchStatus) float64 {
	switch s {
	case models.StatusCompleted:
		return 1.2
	case models.StatusWatching:
		return 1.0
	case models.StatusPlanToWatch:
		return 0.7
	case models.StatusOnHold:
		return 0.8
	case models.StatusDropped:
		return 0.4
	default:
		return 1.0
	}
}

// maxDerivedGenres caps favorite-genre derivation.
const maxDerivedGenres = 5

// BuildProfile assembles the normalized taste profile from persisted state.
// touched must contain records for every anime on the watch list or in the
// ratings (missing records degrade gracefully: those anime contribute no
// genre signal). The result is read-only within one scoring pass.
func BuildProfile(history *UserHistory, touched []models.Anime) *UserProfile {
	byID := make(map[int]models.Anime, len(touched))
	for _, a := range touched {
		byID[a.ID] = a
	}

	p := &UserProfile{
		UserID:           history.UserID,
		DiscoveryMode:    history.DiscoveryMode,
		FavoriteTags:     make(map[string]struct{}, len(history.FavoriteTags)),
		RatingByAnime:    make(map[int]int, len(history.Ratings)),
		Seen:             make(map[int]struct{}, len(history.WatchList)),
		GenreWatchCounts: make(map[int]int),
	}

	for _, t := range history.FavoriteTags {
		p.FavoriteTags[strings.ToLower(t)] = struct{}{}
	}
	for _, r := range history.Ratings {
		p.RatingByAnime[r.AnimeID] = r.Score
	}

	for _, entry := range history.WatchList {
		p.Seen[entry.AnimeID] = struct{}{}

		if entry.Favorite {
			p.FavoritedIDs = append(p.FavoritedIDs, entry.AnimeID)
		}
		switch entry.Status {
		case models.StatusPlanToWatch:
			p.PlanToWatchIDs = append(p.PlanToWatchIDs, entry.AnimeID)
		case models.StatusWatching:
			p.WatchingIDs = append(p.WatchingIDs, entry.AnimeID)
		case models.StatusCompleted:
			p.CompletedIDs = append(p.CompletedIDs, entry.AnimeID)
		}

		if a, ok := byID[entry.AnimeID]; ok {
			for _, g := range a.Genres {
				p.GenreWatchCounts[g.ID]++
			}
		}
	}

	p.FavoriteGenreIDs = history.FavoriteGenres
	if len(p.FavoriteGenreIDs) == 0 && len(history.WatchList) > 0 {
		p.FavoriteGenreIDs = deriveFavoriteGenres(history, byID)
	}
	p.FavoriteGenreSet = intSet(p.FavoriteGenreIDs)

	return p
}

// deriveFavoriteGenres infers favorite genres from history when no
// explicit preference exists. Each distinct touched anime contributes
// weight = (rating/10, or 0.5 when unrated) x status multiplier to every
// genre it carries; the top genres by accumulated weight win. The sort is
// deterministic: weight descending, genre ID ascending on ties.
func deriveFavoriteGenres(history *UserHistory, byID map[int]models.Anime) []int {
	ratingByAnime := make(map[int]int, len(history.Ratings))
	for _, r := range history.Ratings {
		ratingByAnime[r.AnimeID] = r.Score
	}

	statusByAnime := make(map[int]models.WatchStatus, len(history.WatchList))
	for _, e := range history.WatchList {
		statusByAnime[e.AnimeID] = e.Status
	}

	// Every distinct anime touched: on the watch list or rated.
	touched := make(map[int]struct{}, len(statusByAnime)+len(ratingByAnime))
	for id := range statusByAnime {
		touched[id] = struct{}{}
	}
	for id := range ratingByAnime {
		touched[id] = struct{}{}
	}

	weights := make(map[int]float64)
	for id := range touched {
		a, ok := byID[id]
		if !ok {
			continue
		}

		w := 0.5 // neutral weight for unrated anime
		if score, ok := ratingByAnime[id]; ok {
			w = float64(score) / 10
		}
		if status, ok := statusByAnime[id]; ok {
			w *= statusWeight(status)
		}

		for _, g := range a.Genres {
			weights[g.ID] += w
		}
	}

	if len(weights) == 0 {
		return nil
	}

	ids := make([]int, 0, len(weights))
	for id := range weights {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		wi, wj := weights[ids[i]], weights[ids[j]]
		if wi != wj {
			return wi > wj
		}
		return ids[i] < ids[j]
	})

	if len(ids) > maxDerivedGenres {
		ids = ids[:maxDerivedGenres]
	}
	return ids
}

// topRatedIDs returns up to limit anime IDs the user rated at or above
// minScore, ordered by score descending with ID tie-break.
func topRatedIDs(p *UserProfile, minScore, limit int) []int {
	type rated struct {
		id    int
		score int
	}
	all := make([]rated, 0, len(p.RatingByAnime))
	for id, score := range p.RatingByAnime {
		if score >= minScore {
			all = append(all, rated{id: id, score: score})
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].score != all[j].score {
			return all[i].score > all[j].score
		}
		return all[i].id < all[j].id
	})

	if len(all) > limit {
		all = all[:limit]
	}
	ids := make([]int, len(all))
	for i, r := range all {
		ids[i] = r.id
	}
	return ids
}
