// Animedex - Anime Tracking and Discovery Backend
// Copyright 2026 Animedex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/animedex/animedex

// Package recommend implements the hybrid recommendation engine.
//
// # Architecture
//
// A recommendation request flows one direction through four stages:
//
//	profile builder -> candidate pool builder -> multi-signal scorer -> diversity composer
//
// The scorer fuses three independent signals per candidate:
//
//   - Content: genre/tag/rating/popularity similarity against the user's
//     explicit or derived taste profile, plus pairwise similarity to the
//     user's top-rated, favorited, plan-to-watch and currently-watching anime
//   - Collaborative: predicted scores from the external collaborative
//     filtering service (behavior of similar users)
//   - Embedding: semantic similarity from the external embedding service,
//     aggregated across the user's top-rated anime
//
// Feedback (dismiss/hide) flows backward only as a cache-invalidation
// signal; it never mutates an in-flight computation.
//
// # Design Principles
//
//   - Deterministic: identical inputs produce identical ordered output;
//     every sort carries an explicit ID tie-break
//   - Degradable: an outage of either external provider reduces quality,
//     never availability; its signal contributes zero
//   - Tunable: fusion weights, quality gates, diversity ratios and genre
//     affinity rules live in Config, not in code
//   - Read-only: recommendation computation writes no state; feedback and
//     telemetry are independent write paths
//
// # Usage
//
//	cfg := recommend.DefaultConfig()
//	engine, err := recommend.NewEngine(cfg, deps, logger)
//
//	recs, err := engine.ForYou(ctx, userID, 20)
//
// # Thread Safety
//
// The engine is safe for concurrent use. Requests share no mutable state
// except the response cache, which is guarded by a mutex, and cache
// invalidation is idempotent and safe to run concurrently with in-flight
// requests for the same user.
package recommend
