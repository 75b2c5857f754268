// Animedex - Anime Tracking and Discovery Backend
// Copyright 2026 Animedex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/animedex/animedex

package feedback

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/animedex/animedex/internal/metrics"
	"github.com/animedex/animedex/internal/models"
)

// Key prefixes for BadgerDB storage.
const (
	feedbackKeyPrefix    = "feedback:"
	interactionKeyPrefix = "interaction:"
)

// defaultInteractionTTL bounds telemetry retention.
const defaultInteractionTTL = 90 * 24 * time.Hour

// Store is a BadgerDB-backed feedback and telemetry store.
type Store struct {
	db             *badger.DB
	interactionTTL time.Duration
	logger         zerolog.Logger
}

// Options configures the store.
type Options struct {
	// Path is the on-disk database directory. Ignored when InMemory.
	Path string

	// InMemory runs BadgerDB without persistence, for tests and
	// ephemeral deployments.
	InMemory bool

	// InteractionTTL overrides telemetry retention. Zero means the
	// 90-day default.
	InteractionTTL time.Duration
}

// Open opens or creates the store.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func Open(opts Options, logger zerolog.Logger) (*Store, error) {
	badgerOpts := badger.DefaultOptions(opts.Path).
		WithInMemory(opts.InMemory).
		WithLogger(nil)

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("open feedback store: %w", err)
	}

	ttl := opts.InteractionTTL
	if ttl <= 0 {
		ttl = defaultInteractionTTL
	}

	return &Store{
		db:             db,
		interactionTTL: ttl,
		logger:         logger.With().Str("component", "feedback").Logger(),
	}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Upsert stores a feedback record keyed by (user, anime), replacing any
// previous record for the pair.
func (s *Store) Upsert(ctx context.Context, fb models.Feedback) error {
	data, err := json.Marshal(fb)
	if err != nil {
		return fmt.Errorf("marshal feedback: %w", err)
	}

	key := feedbackKey(fb.UserID, fb.AnimeID)
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
	if err != nil {
		return fmt.Errorf("store feedback: %w", err)
	}

	metrics.FeedbackRecords.WithLabelValues(string(fb.Kind)).Inc()
	s.logger.Debug().
		Int("user_id", fb.UserID).
		Int("anime_id", fb.AnimeID).
		Str("kind", string(fb.Kind)).
		Msg("feedback stored")
	return nil
}

// DismissedIDs returns the anime IDs the user dismissed or hid. Softer
// feedback kinds do not exclude.
func (s *Store) DismissedIDs(ctx context.Context, userID int) (map[int]struct{}, error) {
	out := make(map[int]struct{})
	prefix := []byte(feedbackKeyPrefix + strconv.Itoa(userID) + ":")

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{Prefix: prefix})
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var fb models.Feedback
				if err := json.Unmarshal(val, &fb); err != nil {
					return fmt.Errorf("unmarshal feedback: %w", err)
				}
				if fb.Kind.Excludes() {
					out[fb.AnimeID] = struct{}{}
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan feedback: %w", err)
	}
	return out, nil
}

// Feedback returns all feedback records for the user, anime-ID ascending.
func (s *Store) Feedback(ctx context.Context, userID int) ([]models.Feedback, error) {
	var out []models.Feedback
	prefix := []byte(feedbackKeyPrefix + strconv.Itoa(userID) + ":")

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{Prefix: prefix})
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var fb models.Feedback
				if err := json.Unmarshal(val, &fb); err != nil {
					return fmt.Errorf("unmarshal feedback: %w", err)
				}
				out = append(out, fb)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan feedback: %w", err)
	}
	return out, nil
}

// Delete removes the feedback record for (user, anime). Deleting a
// missing record is not an error.
func (s *Store) Delete(ctx context.Context, userID, animeID int) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(feedbackKey(userID, animeID))
	})
	if err != nil {
		return fmt.Errorf("delete feedback: %w", err)
	}
	return nil
}

// RecordInteraction appends a telemetry event with the retention TTL.
func (s *Store) RecordInteraction(ctx context.Context, ix models.Interaction) error {
	data, err := json.Marshal(ix)
	if err != nil {
		return fmt.Errorf("marshal interaction: %w", err)
	}

	key := []byte(interactionKeyPrefix + strconv.Itoa(ix.UserID) + ":" + strconv.FormatInt(ix.Timestamp.UnixNano(), 10))
	err = s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(key, data).WithTTL(s.interactionTTL)
		return txn.SetEntry(entry)
	})
	if err != nil {
		return fmt.Errorf("store interaction: %w", err)
	}
	return nil
}

// Interactions returns the user's unexpired telemetry events, oldest
// first.
func (s *Store) Interactions(ctx context.Context, userID int) ([]models.Interaction, error) {
	var out []models.Interaction
	prefix := []byte(interactionKeyPrefix + strconv.Itoa(userID) + ":")

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{Prefix: prefix})
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var ix models.Interaction
				if err := json.Unmarshal(val, &ix); err != nil {
					return fmt.Errorf("unmarshal interaction: %w", err)
				}
				out = append(out, ix)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan interactions: %w", err)
	}
	return out, nil
}

// feedbackKey builds the (user, anime) key.
func feedbackKey(userID, animeID int) []byte {
	return []byte(feedbackKeyPrefix + strconv.Itoa(userID) + ":" + strconv.Itoa(animeID))
}
