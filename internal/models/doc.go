// Animedex - Anime Tracking and Discovery Backend
// Copyright 2026 Animedex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/animedex/animedex

// Package models defines the shared domain types: anime catalog records,
// watch-list entries, ratings, recommendation feedback, and the API
// response envelope. Types here carry no behavior beyond classification
// helpers; all scoring logic lives in internal/recommend.
package models
