// Animedex - Anime Tracking and Discovery Backend
// Copyright 2026 Animedex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/animedex/animedex

package catalog

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/animedex/animedex/internal/models"
	"github.com/animedex/animedex/internal/recommend"
)

// trendingDecayPerYear dampens popularity by release age so the trending
// surface is not a static all-time ranking.
const trendingDecayPerYear = 0.15

// Store is the in-memory catalog and user-history store.
type Store struct {
	mu     sync.RWMutex
	anime  map[int]models.Anime
	users  map[int]*recommend.UserHistory
	logger zerolog.Logger
}

// NewStore creates an empty store.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewStore(logger zerolog.Logger) *Store {
	return &Store{
		anime:  make(map[int]models.Anime),
		users:  make(map[int]*recommend.UserHistory),
		logger: logger.With().Str("component", "catalog").Logger(),
	}
}

// seedFile is the on-disk seed format.
type seedFile struct {
	Anime []models.Anime          `json:"anime"`
	Users []recommend.UserHistory `json:"users,omitempty"`
}

// LoadSeed replaces the catalog contents from a JSON seed file.
func (s *Store) LoadSeed(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}

	var seed seedFile
	if err := json.Unmarshal(data, &seed); err != nil {
		return fmt.Errorf("parse seed file: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.anime = make(map[int]models.Anime, len(seed.Anime))
	for _, a := range seed.Anime {
		s.anime[a.ID] = a
	}
	s.users = make(map[int]*recommend.UserHistory, len(seed.Users))
	for i := range seed.Users {
		u := seed.Users[i]
		s.users[u.UserID] = &u
	}

	s.logger.Info().
		Int("anime", len(s.anime)).
		Int("users", len(s.users)).
		Str("path", path).
		Msg("catalog seeded")
	return nil
}

// PutAnime inserts or replaces a catalog record.
func (s *Store) PutAnime(a models.Anime) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.anime[a.ID] = a
}

// PutUser inserts or replaces a user's history.
func (s *Store) PutUser(h recommend.UserHistory) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[h.UserID] = &h
}

// LoadUserHistory returns a copy of the user's history, or
// recommend.ErrUserNotFound.
func (s *Store) LoadUserHistory(ctx context.Context, userID int) (*recommend.UserHistory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h, ok := s.users[userID]
	if !ok {
		return nil, recommend.ErrUserNotFound
	}

	out := *h
	out.FavoriteGenres = append([]int(nil), h.FavoriteGenres...)
	out.FavoriteTags = append([]string(nil), h.FavoriteTags...)
	out.Ratings = append([]models.Rating(nil), h.Ratings...)
	out.WatchList = append([]models.WatchListEntry(nil), h.WatchList...)
	return &out, nil
}

// GetAnime returns records for the given IDs in input order, skipping
// unknown IDs.
func (s *Store) GetAnime(ctx context.Context, ids []int) ([]models.Anime, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Anime, 0, len(ids))
	for _, id := range ids {
		if a, ok := s.anime[id]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

// QueryCandidates scans the catalog with the filter semantics the engine
// expects: exclusion set, genre include/exclude, OR-semantics quality
// gate, strict rating/popularity bounds, deterministic ordering.
func (s *Store) QueryCandidates(ctx context.Context, f recommend.CandidateFilter) ([]models.Anime, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	include := intSet(f.IncludeGenres)
	exclude := intSet(f.ExcludeGenres)

	var out []models.Anime
	for _, a := range s.anime {
		if _, skip := f.Exclude[a.ID]; skip {
			continue
		}
		if len(include) > 0 && !sharesGenre(a, include) {
			continue
		}
		if len(exclude) > 0 && sharesGenre(a, exclude) {
			continue
		}
		if f.Gate != nil && !passesGate(a, *f.Gate) {
			continue
		}
		if f.MinRating > 0 && a.Rating < f.MinRating {
			continue
		}
		if f.MaxPopularity > 0 && a.Popularity >= f.MaxPopularity {
			continue
		}
		out = append(out, a)
	}

	sortCandidates(out)
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

// SecondaryGenres returns genre IDs co-occurring with the favorites in
// the most popular titles carrying a favorite genre, most frequent
// first, ties broken by genre ID.
func (s *Store) SecondaryGenres(ctx context.Context, favoriteGenres []int, sample int) ([]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	favorites := intSet(favoriteGenres)
	if len(favorites) == 0 {
		return nil, nil
	}

	var carrying []models.Anime
	for _, a := range s.anime {
		if sharesGenre(a, favorites) {
			carrying = append(carrying, a)
		}
	}
	sort.Slice(carrying, func(i, j int) bool {
		if carrying[i].Popularity != carrying[j].Popularity {
			return carrying[i].Popularity > carrying[j].Popularity
		}
		return carrying[i].ID < carrying[j].ID
	})
	if sample > 0 && len(carrying) > sample {
		carrying = carrying[:sample]
	}

	counts := make(map[int]int)
	for _, a := range carrying {
		for _, g := range a.Genres {
			if _, isFavorite := favorites[g.ID]; !isFavorite {
				counts[g.ID]++
			}
		}
	}

	ids := make([]int, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if counts[ids[i]] != counts[ids[j]] {
			return counts[ids[i]] > counts[ids[j]]
		}
		return ids[i] < ids[j]
	})
	return ids, nil
}

// TrendingAnime returns the catalog ranked by age-decayed popularity,
// optionally restricted to the given genres.
func (s *Store) TrendingAnime(ctx context.Context, genres []int, limit int) ([]models.Anime, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	include := intSet(genres)
	currentYear := time.Now().Year()

	type trending struct {
		anime models.Anime
		score float64
	}
	var ranked []trending
	for _, a := range s.anime {
		if len(include) > 0 && !sharesGenre(a, include) {
			continue
		}
		ranked = append(ranked, trending{anime: a, score: trendingScore(a, currentYear)})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].anime.ID < ranked[j].anime.ID
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	out := make([]models.Anime, len(ranked))
	for i, t := range ranked {
		out[i] = t.anime
	}
	return out, nil
}

// AnimeCount returns the catalog size.
func (s *Store) AnimeCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.anime)
}

// trendingScore decays popularity linearly with release age. Unknown
// years decay as if ten years old.
func trendingScore(a models.Anime, currentYear int) float64 {
	age := 10
	if a.Year > 0 {
		age = currentYear - a.Year
		if age < 0 {
			age = 0
		}
	}
	return float64(a.Popularity) / (1 + float64(age)*trendingDecayPerYear)
}

// passesGate applies OR semantics: any satisfied threshold admits.
func passesGate(a models.Anime, g recommend.QualityGate) bool {
	if g.MinRating > 0 && a.Rating >= g.MinRating {
		return true
	}
	if g.MinPopularity > 0 && a.Popularity >= g.MinPopularity {
		return true
	}
	if g.MinYear > 0 && a.Year >= g.MinYear {
		return true
	}
	return false
}

// sortCandidates orders rating descending, popularity descending, ID
// ascending.
func sortCandidates(out []models.Anime) {
	sort.Slice(out, func(i, j int) bool {
		if out[i].Rating != out[j].Rating {
			return out[i].Rating > out[j].Rating
		}
		if out[i].Popularity != out[j].Popularity {
			return out[i].Popularity > out[j].Popularity
		}
		return out[i].ID < out[j].ID
	})
}

// sharesGenre reports whether the anime carries any genre in the set.
func sharesGenre(a models.Anime, genres map[int]struct{}) bool {
	for _, g := range a.Genres {
		if _, ok := genres[g.ID]; ok {
			return true
		}
	}
	return false
}

// intSet converts a slice to a membership set.
func intSet(ids []int) map[int]struct{} {
	set := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

var _ recommend.Store = (*Store)(nil)
