// Animedex - Anime Tracking and Discovery Backend
// Copyright 2026 Animedex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/animedex/animedex

/*
Package metrics provides Prometheus metrics collection and export for observability.

Metrics are exposed at the /metrics endpoint in Prometheus text format.

# Available Metrics

HTTP Metrics:
  - api_requests_total: Total API requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: Request latency (histogram)
    Labels: method, endpoint

Recommendation Metrics:
  - recommendation_requests_total: Requests per operation (counter)
    Labels: operation (for_you, because_you_watched, hidden_gems,
    discovery, trending, trending_favorites)
  - recommendation_candidate_pool_size: Scored pool size (histogram)
  - recommendation_cache_hits_total / recommendation_cache_misses_total:
    Engine result cache efficiency (counters)

Provider Metrics:
  - provider_failures_total: Degraded external signal queries (counter)
    Labels: provider (collaborative, embedding)
  - circuit_breaker_state: Current breaker state (gauge)
    Labels: name
    Values: 0=closed, 1=half-open, 2=open

Feedback Metrics:
  - feedback_records_total: Stored feedback records (counter)
    Labels: kind
  - interactions_dropped_total: Telemetry writes lost to storage errors
    (counter)
*/
package metrics
