// Animedex - Anime Tracking and Discovery Backend
// Copyright 2026 Animedex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/animedex/animedex

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter builds the HTTP routing tree.
func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()

	// Global middleware stack, applied in order.
	r.Use(RequestID())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(Instrument())

	// Operational endpoints.
	r.Get("/healthz", handler.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/recommendations", func(r chi.Router) {
			r.Get("/trending", handler.Trending)
			r.Post("/feedback", handler.SubmitFeedback)
			r.Get("/config", handler.GetConfig)
			r.Put("/config", handler.UpdateConfig)

			r.Route("/user/{userID}", func(r chi.Router) {
				r.Get("/", handler.ForYou)
				r.Get("/because/{animeID}", handler.BecauseYouWatched)
				r.Get("/hidden-gems", handler.HiddenGems)
				r.Get("/discovery", handler.Discovery)
				r.Get("/trending", handler.TrendingForUser)
			})
		})

		r.Post("/interactions", handler.TrackInteraction)
	})

	return r
}
