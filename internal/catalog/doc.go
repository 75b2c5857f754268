// Animedex - Anime Tracking and Discovery Backend
// Copyright 2026 Animedex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/animedex/animedex

/*
Package catalog provides the in-memory anime catalog and user-history
store backing the recommendation engine.

The store holds the full catalog and all user state under a read-write
mutex; reads dominate, and a catalog of realistic size (tens of
thousands of titles) scans in well under a millisecond. Candidate
queries apply exclusion sets, genre filters, and adaptive quality gates,
and always return a deterministic ordering: rating descending,
popularity descending, anime ID ascending.

Seed data loads from a JSON file at startup; user state mutates through
the watch-list and rating setters.
*/
package catalog
