// Swipefeed - Local Discovery Feed Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipefeed

package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/swipefeed/internal/feed"
	"github.com/tomtom215/swipefeed/internal/logging"
	"github.com/tomtom215/swipefeed/internal/metrics"
)

// TrendingResponse is the data of GET /api/v1/trending.
type TrendingResponse struct {
	City     string         `json:"city"`
	Metro    bool           `json:"metro"`
	Listings []feed.Listing `json:"listings"`
}

// Feed handles POST /api/v1/feed.
func (h *Handler) Feed(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	var req FeedRequest
	if !decodeAndValidate(rw, w, r, &req) {
		return
	}

	start := time.Now()
	page, err := h.service.Feed(r.Context(), req.toFeed())
	metrics.RecordFeedRequest("feed", classify(err), time.Since(start))
	if err != nil {
		respondEngineError(rw, r, err)
		return
	}
	metrics.RecordFeedPage(page.Total, len(page.Items))

	logging.Ctx(r.Context()).Debug().
		Str("user_id", req.UserID).
		Int("page", page.Page).
		Int("total", page.Total).
		Int("served", len(page.Items)).
		Msg("Feed page served")

	rw.SuccessWithPagination(page, &PaginationMeta{
		Total:    page.Total,
		Count:    len(page.Items),
		Page:     page.Page,
		PageSize: page.PageSize,
		HasMore:  page.HasMore,
	})
}

// Decide handles POST /api/v1/decide.
func (h *Handler) Decide(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	var req DecideRequest
	if !decodeAndValidate(rw, w, r, &req) {
		return
	}

	start := time.Now()
	result, err := h.service.Decide(r.Context(), feed.DecideRequest{
		FeedRequest: req.toFeed(),
		Vibe:        req.Vibe,
	})
	metrics.RecordFeedRequest("decide", classify(err), time.Since(start))
	if err != nil {
		respondEngineError(rw, r, err)
		return
	}
	rw.Success(result)
}

// Trending handles GET /api/v1/trending?city=&limit=. A missing limit uses
// the engine default; oversized limits are clamped by the engine.
func (h *Handler) Trending(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	query := r.URL.Query()

	city := strings.TrimSpace(query.Get("city"))
	if len(city) > 128 {
		rw.BadRequest("city must be at most 128 characters")
		return
	}

	limit := 0
	if raw := query.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			rw.BadRequest("limit must be a positive integer")
			return
		}
		limit = n
	}

	start := time.Now()
	listings, err := h.service.GetTrending(r.Context(), city, limit)
	metrics.RecordFeedRequest("trending", classify(err), time.Since(start))
	if err != nil {
		respondEngineError(rw, r, err)
		return
	}
	if listings == nil {
		listings = []feed.Listing{}
	}
	rw.Success(TrendingResponse{City: city, Metro: h.service.IsMetro(city), Listings: listings})
}

// Vocabulary handles GET /api/v1/vocabulary.
func (h *Handler) Vocabulary(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(h.service.Vocabulary())
}
