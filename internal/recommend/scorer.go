// Animedex - Anime Tracking and Discovery Backend
// Copyright 2026 Animedex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/animedex/animedex

package recommend

import (
	"fmt"
	"math"
	"time"

	"github.com/animedex/animedex/internal/models"
)

// Signal names used in the per-candidate breakdown.
const (
	signalContent       = "content"
	signalCollaborative = "collaborative"
	signalEmbedding     = "embedding"
)

// scoreInputs carries everything the scorer needs for one request. All
// reference anime (top-rated, favorites, plan-to-watch, watching) are
// prefetched once per request; per-candidate scoring does no I/O.
type scoreInputs struct {
	profile *UserProfile

	// topRated holds up to Limits.TopRated anime the user rated at or
	// above Limits.TopRatedMinScore, best first.
	topRated []models.Anime

	favorites   []models.Anime
	planToWatch []models.Anime
	watching    []models.Anime

	// collab maps anime ID to the normalized (0-1) collaborative score.
	// Missing entries contribute zero.
	collab map[int]float64

	// embedding maps anime ID to the aggregated semantic score
	// sum(similarity x sourceRating/10) across the top-rated sources.
	embedding map[int]float64

	behavior BehaviorSignal
}

// scorer computes the fused ranking score for one candidate at a time.
// Candidates are scored independently; no candidate's score depends on
// another's.
type scorer struct {
	cfg *Config
}

// score fuses the three signals for one candidate and applies the
// contextual multipliers. Absent data degrades each term to zero; scoring
// itself never fails.
func (s *scorer) score(in *scoreInputs, cand models.Anime) RecommendationScore {
	candGenres := genreIDSet(cand)
	candTags := tagSet(cand.Tags)
	genreMatch := SetSimilarity(in.profile.FavoriteGenreSet, candGenres)

	content, contentDetail := s.contentScore(in, cand, candGenres, candTags, genreMatch)
	collab := in.collab[cand.ID]
	embed := in.embedding[cand.ID]

	fw := s.cfg.Fusion.Normalize()
	final := content*fw.Content + collab*fw.Collaborative + embed*fw.Embedding

	final *= s.recencyMultiplier(in.behavior, cand)
	final *= s.genrePopularityMultiplier(genreMatch, cand)
	final *= s.genreGateMultiplier(in.profile, genreMatch)
	final *= s.affinityMultiplier(in.profile, cand)

	return RecommendationScore{
		Anime:  cand,
		Score:  final,
		Reason: s.reason(in, cand, genreMatch, contentDetail, collab, embed),
		Signals: map[string]float64{
			signalContent:       content,
			signalCollaborative: collab,
			signalEmbedding:     embed,
		},
	}
}

// contentDetail carries the intermediate similarities the reason selector
// needs, so they are computed once.
type contentDetail struct {
	bestTopRated      models.Anime
	bestTopRatedSim   float64
	bestFavoriteSim   float64
	bestPlanSim       float64
	bestWatchingSim   float64
	genreContribution float64
}

// contentScore computes the content sub-score. Additive reference-set
// terms push it above 1; callers must not assume a closed range.
func (s *scorer) contentScore(in *scoreInputs, cand models.Anime, candGenres map[int]struct{}, candTags map[string]struct{}, genreMatch float64) (float64, contentDetail) {
	cw := s.cfg.Content
	detail := contentDetail{genreContribution: genreMatch}

	score := genreMatch * cw.Genre
	score += SetSimilarity(in.profile.FavoriteTags, candTags) * cw.Tag
	score += (cand.Rating / 10) * cw.Rating
	if cw.PopularityNorm > 0 {
		score += math.Min(float64(cand.Popularity)/cw.PopularityNorm, 1) * cw.Popularity
	}

	for _, tr := range in.topRated {
		sim := AnimeSimilarity(s.cfg.Similarity, cand, tr)
		score += sim * cw.TopRated
		if sim > detail.bestTopRatedSim {
			detail.bestTopRatedSim = sim
			detail.bestTopRated = tr
		}
	}

	if len(in.favorites) > 0 {
		detail.bestFavoriteSim = s.maxSimilarity(cand, in.favorites)
		score += detail.bestFavoriteSim * cw.Favorite
	}
	if len(in.planToWatch) > 0 {
		detail.bestPlanSim = s.maxSimilarity(cand, in.planToWatch)
		score += detail.bestPlanSim * cw.PlanToWatch
	}
	if len(in.watching) > 0 {
		detail.bestWatchingSim = s.maxSimilarity(cand, in.watching)
		score += detail.bestWatchingSim * cw.Watching
	}

	return score, detail
}

// maxSimilarity returns the candidate's best pairwise similarity to the
// reference set.
func (s *scorer) maxSimilarity(cand models.Anime, refs []models.Anime) float64 {
	best := 0.0
	for _, ref := range refs {
		if sim := AnimeSimilarity(s.cfg.Similarity, cand, ref); sim > best {
			best = sim
		}
	}
	return best
}

// recencyMultiplier biases toward or against recent releases depending on
// the user's completed-year trend.
func (s *scorer) recencyMultiplier(sig BehaviorSignal, cand models.Anime) float64 {
	m := s.cfg.Multipliers
	if cand.Year == 0 {
		return 1
	}
	age := time.Now().Year() - cand.Year

	if !sig.HasSignal {
		if age <= m.NoSignalYears {
			return m.NoSignalBoost
		}
		return 1
	}

	if sig.AvgYear >= m.RecentTrendYear {
		switch {
		case age <= m.RecentYears:
			return m.RecencyBoost
		case age > m.OldYears:
			return m.OldPenalty
		default:
			return 1
		}
	}

	if age <= m.RecentYears {
		return m.MildRecencyBoost
	}
	return 1
}

// genrePopularityMultiplier boosts popular titles within the user's
// favorite genres.
func (s *scorer) genrePopularityMultiplier(genreMatch float64, cand models.Anime) float64 {
	m := s.cfg.Multipliers
	if genreMatch < m.GenrePopularityOverlap || m.GenrePopularityNorm <= 0 {
		return 1
	}
	return 1 + math.Min(float64(cand.Popularity)/m.GenrePopularityNorm, 1)*m.GenrePopularityBoost
}

// genreGateMultiplier boosts genre-matched candidates and penalizes
// mismatches without excluding them, so serendipity survives. With higher
// overlap the multiplier is never lower, which keeps the gate monotonic.
func (s *scorer) genreGateMultiplier(p *UserProfile, genreMatch float64) float64 {
	if len(p.FavoriteGenreSet) == 0 {
		return 1
	}
	m := s.cfg.Multipliers
	if genreMatch > m.GenreGateThreshold {
		return 1 + genreMatch*m.GenreGateBoost
	}
	return m.GenreMismatchPenalty
}

// affinityMultiplier applies the declarative genre affinity rules: once
// an affinity is established by watch count, same-genre candidates are
// boosted, complementary pairings more so, and conflicting pairings are
// penalized unless the user already validated that exact title with a
// high rating.
func (s *scorer) affinityMultiplier(p *UserProfile, cand models.Anime) float64 {
	mult := 1.0
	for _, rule := range s.cfg.Affinity {
		if p.GenreWatchCounts[rule.Genre] < rule.MinWatched {
			continue
		}

		if cand.HasGenre(rule.Genre) {
			mult *= rule.Boost
			if rule.ComboGenre != 0 && cand.HasGenre(rule.ComboGenre) {
				mult *= rule.ComboBoost
			}
		}

		if rule.ConflictGenre != 0 && cand.HasGenre(rule.ConflictGenre) && !cand.HasGenre(rule.Genre) {
			if p.RatingByAnime[cand.ID] >= rule.EscapeRating && rule.EscapeRating > 0 {
				continue
			}
			mult *= rule.ConflictPenalty
		}
	}
	return mult
}

// reason picks the first applicable explanation in priority order:
// explicit genre match, similarity to a top-rated title, to favorites, to
// plan-to-watch, to currently-watching, then the dominant signal, then
// the generic fallback.
func (s *scorer) reason(in *scoreInputs, cand models.Anime, genreMatch float64, detail contentDetail, collab, embed float64) string {
	lim := s.cfg.Limits

	if len(in.profile.FavoriteGenreSet) > 0 && genreMatch > lim.ReasonGenreOverlap {
		return "Matches your favorite genres"
	}
	if detail.bestTopRatedSim > lim.ReasonSimilarity {
		return fmt.Sprintf("Because you loved %s", detail.bestTopRated.Title)
	}
	if detail.bestFavoriteSim > lim.ReasonSimilarity {
		return "Similar to your favorites"
	}
	if detail.bestPlanSim > lim.ReasonSimilarity {
		return "Similar to titles on your plan-to-watch list"
	}
	if detail.bestWatchingSim > lim.ReasonSimilarity {
		return "Similar to what you're watching"
	}

	if embed > 0 || collab > 0 {
		switch {
		case embed >= collab && embed > 0:
			return "Semantically similar to shows you rated highly"
		case collab > 0:
			return "Popular with viewers like you"
		}
	}
	if genreMatch > 0 || detail.bestTopRatedSim > 0 {
		return "Matches your taste profile"
	}
	return "Recommended for you"
}
