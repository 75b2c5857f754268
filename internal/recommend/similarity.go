// Animedex - Anime Tracking and Discovery Backend
// Copyright 2026 Animedex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/animedex/animedex

package recommend

import (
	"math"
	"strings"

	"github.com/animedex/animedex/internal/models"
)

// SetSimilarity returns the Jaccard index of two sets in [0, 1].
// Two empty sets have similarity 0, defined as "no similarity" rather
// than leaving the ratio undefined.
func SetSimilarity[T comparable](a, b map[T]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}

	intersection := 0
	for k := range a {
		if _, ok := b[k]; ok {
			intersection++
		}
	}

	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}

	return float64(intersection) / float64(union)
}

// AnimeSimilarity computes the weighted pairwise similarity of two anime
// from genre overlap, tag overlap, rating proximity, year proximity, and
// content-type match. Missing optional fields (rating, year) contribute
// zero rather than erroring. Output is approximately in [0, 1].
func AnimeSimilarity(w SimilarityWeights, x, y models.Anime) float64 {
	score := w.Genre * SetSimilarity(genreIDSet(x), genreIDSet(y))
	score += w.Tag * SetSimilarity(tagSet(x.Tags), tagSet(y.Tags))

	if x.Rating > 0 && y.Rating > 0 {
		score += w.Rating * math.Max(0, 1-math.Abs(x.Rating-y.Rating)/10)
	}

	if x.Year > 0 && y.Year > 0 {
		yearSim := 1 - math.Abs(float64(x.Year-y.Year))/float64(w.MaxYearDifference)
		score += w.Year * math.Max(0, yearSim)
	}

	if x.Type != "" && x.Type == y.Type {
		score += w.Type
	}

	return score
}

// genreIDSet returns the anime's genre IDs as a set.
func genreIDSet(a models.Anime) map[int]struct{} {
	set := make(map[int]struct{}, len(a.Genres))
	for _, g := range a.Genres {
		set[g.ID] = struct{}{}
	}
	return set
}

// tagSet returns lowercased tags as a set.
func tagSet(tags []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		set[strings.ToLower(t)] = struct{}{}
	}
	return set
}

// intSet converts a slice of IDs to a set.
func intSet(ids []int) map[int]struct{} {
	set := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
