// Animedex - Anime Tracking and Discovery Backend
// Copyright 2026 Animedex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/animedex/animedex

package models

import "time"

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	// Status is "success" or "error".
	Status string `json:"status"`

	// Data is the response payload. Nil on error.
	Data interface{} `json:"data,omitempty"`

	// Metadata contains timing information.
	Metadata Metadata `json:"metadata"`

	// Error is present only when Status is "error".
	Error *APIError `json:"error,omitempty"`
}

// Metadata contains response timing information.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
}

// APIError is a machine-readable error with a human-readable message.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
