// Animedex - Anime Tracking and Discovery Backend
// Copyright 2026 Animedex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/animedex/animedex

/*
Package providers implements HTTP clients for the external signal
services the recommendation engine consumes: the collaborative-filtering
service and the embedding-similarity service.

Both clients are thin JSON-over-HTTP adapters behind the interfaces the
engine defines; circuit breaking, timeouts, and degradation policy live
in the engine layer, not here. When a service is not configured the Noop
variants stand in and always report unavailability, which the engine
treats as a zero-contribution signal.
*/
package providers
