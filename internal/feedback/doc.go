// Animedex - Anime Tracking and Discovery Backend
// Copyright 2026 Animedex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/animedex/animedex

/*
Package feedback persists recommendation feedback and interaction
telemetry in BadgerDB.

Feedback records are keyed by (user, anime) with upsert semantics:
resubmitting feedback for the same pair replaces the previous record.
Dismiss and hide feedback feeds the per-user exclusion set the
recommendation engine applies at candidate-selection time, so a dismissal
takes effect on the next request.

Interaction telemetry is append-only and TTL-bounded; records expire from
the store without explicit cleanup.

# Key Layout

	feedback:<user_id>:<anime_id>  -> JSON feedback record
	interaction:<user_id>:<nanos>  -> JSON interaction record (TTL)
*/
package feedback
