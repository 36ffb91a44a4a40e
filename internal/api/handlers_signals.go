// Swipefeed - Local Discovery Feed Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipefeed

package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/swipefeed/internal/feed"
	"github.com/tomtom215/swipefeed/internal/metrics"
)

// RecordSwipe handles POST /api/v1/swipes.
func (h *Handler) RecordSwipe(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	var req SwipeRequest
	if !decodeAndValidate(rw, w, r, &req) {
		return
	}

	direction, err := feed.ParseDirection(req.Direction)
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}

	err = h.service.RecordSwipe(r.Context(), feed.SwipeRecord{
		UserID:    req.UserID,
		ListingID: req.ListingID,
		Direction: direction,
		Category:  req.Category,
		Tags:      req.Tags,
	})
	if err != nil {
		respondEngineError(rw, r, err)
		return
	}
	metrics.SwipesRecorded.WithLabelValues(string(direction)).Inc()
	rw.Created(map[string]string{
		"user_id":    req.UserID,
		"listing_id": req.ListingID,
		"direction":  string(direction),
	})
}

// RecordVibe handles POST /api/v1/vibes.
func (h *Handler) RecordVibe(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	var req VibeRequest
	if !decodeAndValidate(rw, w, r, &req) {
		return
	}

	if err := h.service.RecordVibe(r.Context(), req.UserID, req.Vibe); err != nil {
		respondEngineError(rw, r, err)
		return
	}
	metrics.VibesRecorded.Inc()
	rw.Created(map[string]string{"user_id": req.UserID, "vibe": req.Vibe})
}

// Upvote handles POST /api/v1/listings/{id}/upvotes. Repeated upvotes by the
// same user succeed and count once.
func (h *Handler) Upvote(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	listingID := strings.TrimSpace(chi.URLParam(r, "id"))
	if listingID == "" || len(listingID) > 128 {
		rw.BadRequest("listing id must be 1 to 128 characters")
		return
	}

	var req UpvoteRequest
	if !decodeAndValidate(rw, w, r, &req) {
		return
	}

	if err := h.service.RecordSignal(r.Context(), req.UserID, listingID); err != nil {
		respondEngineError(rw, r, err)
		return
	}
	metrics.SignalsRecorded.Inc()
	rw.Status(http.StatusAccepted, map[string]string{"user_id": req.UserID, "listing_id": listingID})
}
