// Animedex - Anime Tracking and Discovery Backend
// Copyright 2026 Animedex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/animedex/animedex

// Package logging provides centralized zerolog-based logging for Animedex.
//
// All components log through a single zerolog instance configured at
// startup, with JSON output for production and console output for
// development. Request-scoped correlation IDs are carried through
// context.Context so a recommendation request can be traced across the
// engine, providers, and HTTP layer.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	logging.Info().Str("component", "engine").Msg("starting")
//	logging.Ctx(ctx).Debug().Int("user_id", id).Msg("request processed")
//
// Always terminate log chains with .Msg() or .Send(); a chain without a
// terminator is never emitted.
package logging
