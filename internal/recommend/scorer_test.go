// Animedex - Anime Tracking and Discovery Backend
// Copyright 2026 Animedex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/animedex/animedex

package recommend

import (
	"strings"
	"testing"
	"time"

	"github.com/animedex/animedex/internal/models"
)

func testProfile(favoriteGenres []int, tags []string) *UserProfile {
	tagSet := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		tagSet[strings.ToLower(t)] = struct{}{}
	}
	return &UserProfile{
		UserID:           1,
		FavoriteGenreIDs: favoriteGenres,
		FavoriteGenreSet: intSet(favoriteGenres),
		FavoriteTags:     tagSet,
		RatingByAnime:    map[int]int{},
		Seen:             map[int]struct{}{},
		GenreWatchCounts: map[int]int{},
	}
}

func emptyInputs(p *UserProfile) *scoreInputs {
	return &scoreInputs{
		profile:   p,
		collab:    map[int]float64{},
		embedding: map[int]float64{},
	}
}

func TestScoreGenreMatchOutranksMismatch(t *testing.T) {
	s := &scorer{cfg: DefaultConfig()}
	p := testProfile([]int{4, 22}, nil)
	in := emptyInputs(p)

	matched := models.Anime{ID: 1, Rating: 7.5, Genres: []models.Genre{{ID: 4}, {ID: 22}}}
	mismatched := models.Anime{ID: 2, Rating: 7.5, Genres: []models.Genre{{ID: 9}}}

	a := s.score(in, matched)
	b := s.score(in, mismatched)
	if a.Score <= b.Score {
		t.Errorf("genre match %.4f should outrank mismatch %.4f", a.Score, b.Score)
	}
}

func TestScoreGenreGateMonotonic(t *testing.T) {
	s := &scorer{cfg: DefaultConfig()}
	p := testProfile([]int{1, 2, 3, 4}, nil)

	// More favorite-genre overlap must never produce a lower multiplier.
	prev := -1.0
	for overlap := 0.0; overlap <= 1.0; overlap += 0.1 {
		mult := s.genreGateMultiplier(p, overlap)
		if mult < prev {
			t.Fatalf("gate multiplier decreased from %.4f to %.4f at overlap %.1f", prev, mult, overlap)
		}
		prev = mult
	}
}

func TestScoreGenreGateNoFavorites(t *testing.T) {
	s := &scorer{cfg: DefaultConfig()}
	p := testProfile(nil, nil)

	if mult := s.genreGateMultiplier(p, 0); mult != 1 {
		t.Errorf("gate multiplier without favorites = %v, want 1", mult)
	}
}

func TestScoreMismatchPenalizedNotExcluded(t *testing.T) {
	s := &scorer{cfg: DefaultConfig()}
	p := testProfile([]int{4}, nil)
	in := emptyInputs(p)

	mismatched := models.Anime{ID: 2, Rating: 9.0, Genres: []models.Genre{{ID: 9}}}
	got := s.score(in, mismatched)
	if got.Score <= 0 {
		t.Errorf("mismatched candidate score = %v, want positive (penalized, not excluded)", got.Score)
	}
}

func TestScoreDegradedProvidersStillRanks(t *testing.T) {
	s := &scorer{cfg: DefaultConfig()}
	p := testProfile([]int{4}, nil)
	in := emptyInputs(p) // empty collab and embedding maps

	cand := models.Anime{ID: 1, Rating: 8, Genres: []models.Genre{{ID: 4}}}
	got := s.score(in, cand)
	if got.Score <= 0 {
		t.Errorf("content-only score = %v, want positive", got.Score)
	}
	if got.Signals[signalCollaborative] != 0 || got.Signals[signalEmbedding] != 0 {
		t.Errorf("degraded signals should contribute zero: %v", got.Signals)
	}
}

func TestRecencyMultiplierRecentTrendingUser(t *testing.T) {
	s := &scorer{cfg: DefaultConfig()}
	sig := BehaviorSignal{HasSignal: true, AvgYear: 2020}
	year := time.Now().Year()

	recent := models.Anime{ID: 1, Year: year - 2}
	old := models.Anime{ID: 2, Year: year - 15}
	mid := models.Anime{ID: 3, Year: year - 7}

	if m := s.recencyMultiplier(sig, recent); m != 1.15 {
		t.Errorf("recent candidate multiplier = %v, want 1.15", m)
	}
	if m := s.recencyMultiplier(sig, old); m != 0.9 {
		t.Errorf("old candidate multiplier = %v, want 0.9", m)
	}
	if m := s.recencyMultiplier(sig, mid); m != 1 {
		t.Errorf("mid-age candidate multiplier = %v, want 1", m)
	}
}

func TestRecencyMultiplierClassicLeaningUser(t *testing.T) {
	s := &scorer{cfg: DefaultConfig()}
	sig := BehaviorSignal{HasSignal: true, AvgYear: 2005}
	year := time.Now().Year()

	recent := models.Anime{ID: 1, Year: year - 1}
	if m := s.recencyMultiplier(sig, recent); m != 1.05 {
		t.Errorf("mild recency boost = %v, want 1.05", m)
	}

	old := models.Anime{ID: 2, Year: year - 20}
	if m := s.recencyMultiplier(sig, old); m != 1 {
		t.Errorf("old candidate for classic-leaning user = %v, want 1 (no penalty)", m)
	}
}

func TestRecencyMultiplierNoSignal(t *testing.T) {
	s := &scorer{cfg: DefaultConfig()}
	sig := BehaviorSignal{}
	year := time.Now().Year()

	if m := s.recencyMultiplier(sig, models.Anime{ID: 1, Year: year - 3}); m != 1.1 {
		t.Errorf("no-signal recent multiplier = %v, want 1.1", m)
	}
	if m := s.recencyMultiplier(sig, models.Anime{ID: 2, Year: year - 20}); m != 1 {
		t.Errorf("no-signal old multiplier = %v, want 1", m)
	}
	if m := s.recencyMultiplier(sig, models.Anime{ID: 3}); m != 1 {
		t.Errorf("unknown year multiplier = %v, want 1", m)
	}
}

func TestAffinityRuleBoostAndConflict(t *testing.T) {
	cfg := DefaultConfig()
	s := &scorer{cfg: cfg}

	p := testProfile(nil, nil)
	p.GenreWatchCounts[genreRomance] = 12 // rule active

	romance := models.Anime{ID: 1, Genres: []models.Genre{{ID: genreRomance}}}
	if m := s.affinityMultiplier(p, romance); m != 1.2 {
		t.Errorf("romance boost = %v, want 1.2", m)
	}

	combo := models.Anime{ID: 2, Genres: []models.Genre{{ID: genreRomance}, {ID: genreSliceOfLife}}}
	want := 1.2 * 1.15
	if m := s.affinityMultiplier(p, combo); m != want {
		t.Errorf("combo boost = %v, want %v", m, want)
	}

	conflict := models.Anime{ID: 3, Genres: []models.Genre{{ID: genreAction}}}
	if m := s.affinityMultiplier(p, conflict); m != 0.3 {
		t.Errorf("conflict penalty = %v, want 0.3", m)
	}
}

func TestAffinityRuleEscapeRating(t *testing.T) {
	s := &scorer{cfg: DefaultConfig()}

	p := testProfile(nil, nil)
	p.GenreWatchCounts[genreRomance] = 12
	p.RatingByAnime[3] = 9 // user already validated this action title

	conflict := models.Anime{ID: 3, Genres: []models.Genre{{ID: genreAction}}}
	if m := s.affinityMultiplier(p, conflict); m != 1 {
		t.Errorf("escaped conflict penalty = %v, want 1", m)
	}
}

func TestAffinityRuleInactiveBelowThreshold(t *testing.T) {
	s := &scorer{cfg: DefaultConfig()}

	p := testProfile(nil, nil)
	p.GenreWatchCounts[genreRomance] = 5 // below MinWatched

	conflict := models.Anime{ID: 3, Genres: []models.Genre{{ID: genreAction}}}
	if m := s.affinityMultiplier(p, conflict); m != 1 {
		t.Errorf("inactive rule multiplier = %v, want 1", m)
	}
}

func TestAffinityRuleMixedGenresNoConflict(t *testing.T) {
	s := &scorer{cfg: DefaultConfig()}

	p := testProfile(nil, nil)
	p.GenreWatchCounts[genreRomance] = 12

	// Romance-action hybrids carry the rule genre, so the conflict
	// penalty does not apply; the base boost does.
	hybrid := models.Anime{ID: 4, Genres: []models.Genre{{ID: genreRomance}, {ID: genreAction}}}
	if m := s.affinityMultiplier(p, hybrid); m != 1.2 {
		t.Errorf("hybrid multiplier = %v, want 1.2", m)
	}
}

func TestReasonPriorityGenreMatch(t *testing.T) {
	s := &scorer{cfg: DefaultConfig()}
	p := testProfile([]int{4, 22}, nil)
	in := emptyInputs(p)

	cand := models.Anime{ID: 1, Genres: []models.Genre{{ID: 4}, {ID: 22}}}
	got := s.score(in, cand)
	if got.Reason != "Matches your favorite genres" {
		t.Errorf("reason = %q, want genre match", got.Reason)
	}
}

func TestReasonBecauseYouLoved(t *testing.T) {
	s := &scorer{cfg: DefaultConfig()}
	p := testProfile(nil, nil)

	source := models.Anime{
		ID:     50,
		Title:  "Steel Orbit",
		Year:   2020,
		Type:   models.MediaTV,
		Rating: 9,
		Tags:   []string{"mecha", "space"},
		Genres: []models.Genre{{ID: 1}, {ID: 24}},
	}
	in := emptyInputs(p)
	in.topRated = []models.Anime{source}

	cand := models.Anime{
		ID:     51,
		Year:   2021,
		Type:   models.MediaTV,
		Rating: 8.5,
		Tags:   []string{"mecha", "space"},
		Genres: []models.Genre{{ID: 1}, {ID: 24}},
	}
	got := s.score(in, cand)
	if got.Reason != "Because you loved Steel Orbit" {
		t.Errorf("reason = %q, want because-you-loved", got.Reason)
	}
}

func TestReasonCollaborativeDominant(t *testing.T) {
	s := &scorer{cfg: DefaultConfig()}
	p := testProfile(nil, nil)
	in := emptyInputs(p)
	in.collab[7] = 0.9

	cand := models.Anime{ID: 7, Rating: 7}
	got := s.score(in, cand)
	if got.Reason != "Popular with viewers like you" {
		t.Errorf("reason = %q, want collaborative", got.Reason)
	}
}

func TestReasonFallback(t *testing.T) {
	s := &scorer{cfg: DefaultConfig()}
	p := testProfile(nil, nil)
	in := emptyInputs(p)

	cand := models.Anime{ID: 9}
	got := s.score(in, cand)
	if got.Reason != "Recommended for you" {
		t.Errorf("reason = %q, want generic fallback", got.Reason)
	}
}

func TestFusionWeightsNormalize(t *testing.T) {
	w := FusionWeights{Content: 2, Collaborative: 1, Embedding: 1}
	n := w.Normalize()
	if n.Content != 0.5 || n.Collaborative != 0.25 || n.Embedding != 0.25 {
		t.Errorf("Normalize() = %+v, want 0.5/0.25/0.25", n)
	}

	zero := FusionWeights{}.Normalize()
	sum := zero.Content + zero.Collaborative + zero.Embedding
	if sum < 0.999 || sum > 1.001 {
		t.Errorf("zero weights normalize to sum %v, want 1", sum)
	}
}
