// Animedex - Anime Tracking and Discovery Backend
// Copyright 2026 Animedex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/animedex/animedex

/*
Package api provides HTTP routing and handlers using the Chi router.

All responses use the models.APIResponse envelope. Recommendation
endpoints live under /api/v1/recommendations; operational endpoints
(/healthz, /metrics) sit at the root.

Handlers depend on the RecommendService interface rather than the
concrete engine, so tests exercise the full HTTP surface against a mock.
*/
package api
