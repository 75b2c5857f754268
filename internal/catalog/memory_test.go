// Animedex - Anime Tracking and Discovery Backend
// Copyright 2026 Animedex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/animedex/animedex

package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/animedex/animedex/internal/models"
	"github.com/animedex/animedex/internal/recommend"
)

func testStore() *Store {
	return NewStore(zerolog.Nop())
}

func TestLoadUserHistoryNotFound(t *testing.T) {
	s := testStore()
	_, err := s.LoadUserHistory(context.Background(), 42)
	if !errors.Is(err, recommend.ErrUserNotFound) {
		t.Errorf("err = %v, want ErrUserNotFound", err)
	}
}

func TestLoadUserHistoryReturnsCopy(t *testing.T) {
	s := testStore()
	s.PutUser(recommend.UserHistory{
		UserID:         1,
		FavoriteGenres: []int{4},
		Ratings:        []models.Rating{{AnimeID: 1, Score: 8}},
	})

	h, err := s.LoadUserHistory(context.Background(), 1)
	if err != nil {
		t.Fatalf("LoadUserHistory: %v", err)
	}
	h.FavoriteGenres[0] = 99
	h.Ratings[0].Score = 1

	again, err := s.LoadUserHistory(context.Background(), 1)
	if err != nil {
		t.Fatalf("LoadUserHistory: %v", err)
	}
	if again.FavoriteGenres[0] != 4 || again.Ratings[0].Score != 8 {
		t.Error("mutating a loaded history leaked into the store")
	}
}

func TestGetAnimeSkipsUnknown(t *testing.T) {
	s := testStore()
	s.PutAnime(models.Anime{ID: 1, Title: "A"})
	s.PutAnime(models.Anime{ID: 3, Title: "C"})

	got, err := s.GetAnime(context.Background(), []int{1, 2, 3})
	if err != nil {
		t.Fatalf("GetAnime: %v", err)
	}
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 3 {
		t.Errorf("GetAnime = %v, want anime 1 and 3", got)
	}
}

func TestQueryCandidatesOrdering(t *testing.T) {
	s := testStore()
	s.PutAnime(models.Anime{ID: 3, Rating: 8.0, Popularity: 100})
	s.PutAnime(models.Anime{ID: 1, Rating: 8.0, Popularity: 100}) // ties with 3, lower ID first
	s.PutAnime(models.Anime{ID: 2, Rating: 9.0, Popularity: 50})
	s.PutAnime(models.Anime{ID: 4, Rating: 8.0, Popularity: 200})

	got, err := s.QueryCandidates(context.Background(), recommend.CandidateFilter{})
	if err != nil {
		t.Fatalf("QueryCandidates: %v", err)
	}

	ids := make([]int, len(got))
	for i, a := range got {
		ids[i] = a.ID
	}
	want := []int{2, 4, 1, 3}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("ordering = %v, want %v", ids, want)
	}
}

func TestQueryCandidatesGateOrSemantics(t *testing.T) {
	s := testStore()
	// Each passes exactly one gate condition; the last passes none.
	s.PutAnime(models.Anime{ID: 1, Rating: 7.0, Popularity: 10, Year: 1990})
	s.PutAnime(models.Anime{ID: 2, Rating: 2.0, Popularity: 9000, Year: 1990})
	s.PutAnime(models.Anime{ID: 3, Rating: 2.0, Popularity: 10, Year: 2024})
	s.PutAnime(models.Anime{ID: 4, Rating: 2.0, Popularity: 10, Year: 1990})

	gate := recommend.QualityGate{MinRating: 6.5, MinPopularity: 500, MinYear: 2016}
	got, err := s.QueryCandidates(context.Background(), recommend.CandidateFilter{Gate: &gate})
	if err != nil {
		t.Fatalf("QueryCandidates: %v", err)
	}

	ids := make(map[int]bool)
	for _, a := range got {
		ids[a.ID] = true
	}
	if !ids[1] || !ids[2] || !ids[3] {
		t.Errorf("gate should admit 1, 2, 3; got %v", ids)
	}
	if ids[4] {
		t.Error("gate admitted a candidate that passes no condition")
	}
}

func TestQueryCandidatesGenreFilters(t *testing.T) {
	s := testStore()
	s.PutAnime(models.Anime{ID: 1, Rating: 8, Genres: []models.Genre{{ID: 4}}})
	s.PutAnime(models.Anime{ID: 2, Rating: 8, Genres: []models.Genre{{ID: 9}}})
	s.PutAnime(models.Anime{ID: 3, Rating: 8, Genres: []models.Genre{{ID: 4}, {ID: 9}}})

	got, err := s.QueryCandidates(context.Background(), recommend.CandidateFilter{
		IncludeGenres: []int{4},
		ExcludeGenres: []int{9},
	})
	if err != nil {
		t.Fatalf("QueryCandidates: %v", err)
	}
	if len(got) != 1 || got[0].ID != 1 {
		t.Errorf("genre filters returned %v, want only anime 1", got)
	}
}

func TestQueryCandidatesExcludeAndLimit(t *testing.T) {
	s := testStore()
	for i := 1; i <= 10; i++ {
		s.PutAnime(models.Anime{ID: i, Rating: float64(i)})
	}

	got, err := s.QueryCandidates(context.Background(), recommend.CandidateFilter{
		Exclude: map[int]struct{}{10: {}},
		Limit:   3,
	})
	if err != nil {
		t.Fatalf("QueryCandidates: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("limit ignored: got %d results", len(got))
	}
	if got[0].ID != 9 {
		t.Errorf("top result = %d, want 9 (10 excluded)", got[0].ID)
	}
}

func TestQueryCandidatesPopularityCeilingExclusive(t *testing.T) {
	s := testStore()
	s.PutAnime(models.Anime{ID: 1, Rating: 10, Popularity: 5000}) // at the ceiling, out
	s.PutAnime(models.Anime{ID: 2, Rating: 8, Popularity: 4999})

	got, err := s.QueryCandidates(context.Background(), recommend.CandidateFilter{
		MaxPopularity: 5000,
	})
	if err != nil {
		t.Fatalf("QueryCandidates: %v", err)
	}
	if len(got) != 1 || got[0].ID != 2 {
		t.Errorf("candidates = %v, want only anime 2 (ceiling is exclusive)", got)
	}
}

func TestSecondaryGenresCoOccurrence(t *testing.T) {
	s := testStore()
	// Genre 9 co-occurs with favorite genre 4 twice, genre 12 once.
	s.PutAnime(models.Anime{ID: 1, Popularity: 900, Genres: []models.Genre{{ID: 4}, {ID: 9}}})
	s.PutAnime(models.Anime{ID: 2, Popularity: 800, Genres: []models.Genre{{ID: 4}, {ID: 9}}})
	s.PutAnime(models.Anime{ID: 3, Popularity: 700, Genres: []models.Genre{{ID: 4}, {ID: 12}}})
	s.PutAnime(models.Anime{ID: 4, Popularity: 600, Genres: []models.Genre{{ID: 30}}}) // no favorite genre

	got, err := s.SecondaryGenres(context.Background(), []int{4}, 10)
	if err != nil {
		t.Fatalf("SecondaryGenres: %v", err)
	}
	if !reflect.DeepEqual(got, []int{9, 12}) {
		t.Errorf("SecondaryGenres = %v, want [9 12]", got)
	}
}

func TestTrendingAnimeDecay(t *testing.T) {
	s := testStore()
	year := time.Now().Year()

	// Equal popularity: the newer title must rank first.
	s.PutAnime(models.Anime{ID: 1, Popularity: 10000, Year: year - 15})
	s.PutAnime(models.Anime{ID: 2, Popularity: 10000, Year: year})

	got, err := s.TrendingAnime(context.Background(), nil, 10)
	if err != nil {
		t.Fatalf("TrendingAnime: %v", err)
	}
	if len(got) != 2 || got[0].ID != 2 {
		t.Errorf("trending order = %v, want newer title first", got)
	}
}

func TestTrendingAnimeGenreRestriction(t *testing.T) {
	s := testStore()
	s.PutAnime(models.Anime{ID: 1, Popularity: 10000, Year: 2024, Genres: []models.Genre{{ID: 4}}})
	s.PutAnime(models.Anime{ID: 2, Popularity: 90000, Year: 2024, Genres: []models.Genre{{ID: 9}}})

	got, err := s.TrendingAnime(context.Background(), []int{4}, 10)
	if err != nil {
		t.Fatalf("TrendingAnime: %v", err)
	}
	if len(got) != 1 || got[0].ID != 1 {
		t.Errorf("genre-restricted trending = %v, want only anime 1", got)
	}
}

func TestLoadSeed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seed.json")
	seed := `{
		"anime": [
			{"id": 1, "title": "First", "rating": 8.2, "genres": [{"id": 4, "name": "Drama"}]},
			{"id": 2, "title": "Second", "rating": 7.1}
		],
		"users": [
			{"user_id": 9, "favorite_genres": [4], "watch_list": [{"anime_id": 1, "status": "completed"}]}
		]
	}`
	if err := os.WriteFile(path, []byte(seed), 0o600); err != nil {
		t.Fatalf("write seed: %v", err)
	}

	s := testStore()
	if err := s.LoadSeed(path); err != nil {
		t.Fatalf("LoadSeed: %v", err)
	}
	if s.AnimeCount() != 2 {
		t.Errorf("AnimeCount = %d, want 2", s.AnimeCount())
	}

	h, err := s.LoadUserHistory(context.Background(), 9)
	if err != nil {
		t.Fatalf("LoadUserHistory: %v", err)
	}
	if len(h.WatchList) != 1 || h.WatchList[0].AnimeID != 1 {
		t.Errorf("seeded watch list = %v", h.WatchList)
	}
}

func TestLoadSeedMissingFile(t *testing.T) {
	s := testStore()
	if err := s.LoadSeed("/nonexistent/seed.json"); err == nil {
		t.Error("missing seed file accepted")
	}
}
