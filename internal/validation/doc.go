// Animedex - Anime Tracking and Discovery Backend
// Copyright 2026 Animedex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/animedex/animedex

/*
Package validation provides struct validation using go-playground/validator v10.

It exposes a thread-safe singleton validator instance and translates
field errors into the API's VALIDATION_ERROR response format.

Example usage:

	type FeedbackRequest struct {
	    AnimeID int    `validate:"required,min=1"`
	    Kind    string `validate:"required,oneof=dismiss hide not_interested_genre"`
	}

	if verr := validation.ValidateStruct(&req); verr != nil {
	    apiErr := verr.ToAPIError()
	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message)
	    return
	}
*/
package validation
