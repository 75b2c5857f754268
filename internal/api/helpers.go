// Animedex - Anime Tracking and Discovery Backend
// Copyright 2026 Animedex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/animedex/animedex

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/animedex/animedex/internal/logging"
	"github.com/animedex/animedex/internal/models"
	"github.com/animedex/animedex/internal/validation"
)

// respondJSON sends a JSON response with proper headers.
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondSuccess wraps a payload in the success envelope, recording the
// handler's elapsed time.
func respondSuccess(w http.ResponseWriter, data interface{}, started time.Time) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(started).Milliseconds(),
		},
	})
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, status int, code, message string, err error) {
	if err != nil {
		logging.Error().Str("code", code).Err(err).Msg("API error")
	}

	respondJSON(w, status, &models.APIResponse{
		Status:   "error",
		Metadata: models.Metadata{Timestamp: time.Now()},
		Error: &models.APIError{
			Code:    code,
			Message: message,
		},
	})
}

// validateRequest validates a struct, returning a models.APIError in the
// VALIDATION_ERROR format on failure.
func validateRequest(v interface{}) *models.APIError {
	verr := validation.ValidateStruct(v)
	if verr == nil {
		return nil
	}
	apiErr := verr.ToAPIError()
	return &models.APIError{Code: apiErr.Code, Message: apiErr.Message}
}

// limitParams bounds the requested result count.
type limitParams struct {
	Limit int `validate:"min=1,max=100"`
}

// parseLimit reads the limit query parameter. Absent means the default;
// a present but out-of-bounds or non-numeric value is a client error.
func parseLimit(r *http.Request, defaultLimit int) (int, *models.APIError) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return defaultLimit, nil
	}

	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &models.APIError{Code: "VALIDATION_ERROR", Message: "limit must be an integer"}
	}
	if apiErr := validateRequest(&limitParams{Limit: limit}); apiErr != nil {
		return 0, apiErr
	}
	return limit, nil
}

// pathInt parses a positive integer path parameter.
func pathInt(value string) (int, bool) {
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
