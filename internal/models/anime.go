// Animedex - Anime Tracking and Discovery Backend
// Copyright 2026 Animedex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/animedex/animedex

package models

import "time"

// MediaType is the content type of an anime entry.
type MediaType string

// Known media types. The catalog may carry others; scoring only compares
// them for exact equality.
const (
	MediaTV      MediaType = "tv"
	MediaMovie   MediaType = "movie"
	MediaOVA     MediaType = "ova"
	MediaONA     MediaType = "ona"
	MediaSpecial MediaType = "special"
)

// Genre is a (id, name) genre association.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Anime is a catalog record. It is immutable from the recommendation
// engine's perspective; the storage collaborator owns its lifecycle.
type Anime struct {
	// ID is the unique catalog identifier.
	ID int `json:"id"`

	// Title is the primary display title.
	Title string `json:"title"`

	// Synopsis is the descriptive summary.
	Synopsis string `json:"synopsis,omitempty"`

	// Year is the release year. Zero means unknown.
	Year int `json:"year,omitempty"`

	// Type is the content type (tv, movie, ova, ...).
	Type MediaType `json:"type,omitempty"`

	// Episodes is the episode count. Zero means unknown or not yet aired.
	Episodes int `json:"episodes,omitempty"`

	// Rating is the average community rating on a 0-10 scale.
	// Zero means no rating is available.
	Rating float64 `json:"rating,omitempty"`

	// Popularity is the view/list-membership count.
	Popularity int `json:"popularity,omitempty"`

	// Tags is the free-form tag list (themes, demographics, studios).
	Tags []string `json:"tags,omitempty"`

	// Genres is the list of genre associations.
	Genres []Genre `json:"genres,omitempty"`
}

// GenreIDs returns the genre IDs of the anime.
func (a Anime) GenreIDs() []int {
	ids := make([]int, 0, len(a.Genres))
	for _, g := range a.Genres {
		ids = append(ids, g.ID)
	}
	return ids
}

// HasGenre reports whether the anime carries the given genre ID.
func (a Anime) HasGenre(genreID int) bool {
	for _, g := range a.Genres {
		if g.ID == genreID {
			return true
		}
	}
	return false
}

// WatchStatus classifies a watch-list entry.
type WatchStatus string

// Watch-list statuses.
const (
	StatusWatching    WatchStatus = "watching"
	StatusCompleted   WatchStatus = "completed"
	StatusPlanToWatch WatchStatus = "plan_to_watch"
	StatusOnHold      WatchStatus = "on_hold"
	StatusDropped     WatchStatus = "dropped"
)

// WatchListEntry is a user's relationship with one anime.
type WatchListEntry struct {
	AnimeID  int         `json:"anime_id"`
	Status   WatchStatus `json:"status"`
	Favorite bool        `json:"favorite,omitempty"`
}

// Rating is a user's explicit score for an anime on a 1-10 scale.
type Rating struct {
	AnimeID int `json:"anime_id"`
	Score   int `json:"score"`
}

// FeedbackKind classifies recommendation feedback.
type FeedbackKind string

// Feedback kinds. Dismiss and hide remove the anime from future
// recommendations; not_interested_genre is a softer signal recorded for
// profile tuning.
const (
	FeedbackDismiss            FeedbackKind = "dismiss"
	FeedbackHide               FeedbackKind = "hide"
	FeedbackNotInterestedGenre FeedbackKind = "not_interested_genre"
)

// Valid reports whether the kind is one of the known feedback kinds.
func (k FeedbackKind) Valid() bool {
	switch k {
	case FeedbackDismiss, FeedbackHide, FeedbackNotInterestedGenre:
		return true
	default:
		return false
	}
}

// Excludes reports whether feedback of this kind removes the anime from
// the user's candidate pool.
func (k FeedbackKind) Excludes() bool {
	return k == FeedbackDismiss || k == FeedbackHide
}

// Feedback is a user's recorded reaction to a recommendation, keyed by
// (user, anime) with upsert semantics.
type Feedback struct {
	UserID    int          `json:"user_id"`
	AnimeID   int          `json:"anime_id"`
	Kind      FeedbackKind `json:"kind"`
	Reason    string       `json:"reason,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

// Interaction is a best-effort telemetry event. Recording failures are
// never surfaced to recommendation callers.
type Interaction struct {
	UserID     int               `json:"user_id"`
	AnimeID    int               `json:"anime_id,omitempty"`
	Action     string            `json:"action"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	DurationMS int64             `json:"duration_ms,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
}
