// Swipefeed - Local Discovery Feed Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipefeed

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/swipefeed/internal/feed"
	"github.com/tomtom215/swipefeed/internal/validation"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 64 << 10

// FeedRequest is the body of POST /api/v1/feed.
type FeedRequest struct {
	UserID          string   `json:"user_id" validate:"max=128"`
	UserLat         *float64 `json:"user_lat" validate:"omitempty,gte=-90,lte=90"`
	UserLon         *float64 `json:"user_lon" validate:"omitempty,gte=-180,lte=180"`
	RadiusKm        float64  `json:"radius_km" validate:"gte=0,lte=500"`
	Categories      []string `json:"categories" validate:"max=50,dive,max=64"`
	PriceTiers      []int    `json:"price_tiers" validate:"max=4,dive,gte=1,lte=4"`
	City            string   `json:"city" validate:"max=128"`
	ExcludeIDs      []string `json:"exclude_ids" validate:"max=5000,dive,max=128"`
	Page            int      `json:"page" validate:"gte=0,lte=10000"`
	PageSize        int      `json:"page_size" validate:"gte=0"`
	ShowNewThisWeek bool     `json:"show_new_this_week"`
	ShowOpenNow     bool     `json:"show_open_now"`
}

// toFeed converts the body to an engine request. Page sizes above the
// engine maximum are clamped by the engine, not rejected.
func (r *FeedRequest) toFeed() feed.FeedRequest {
	return feed.FeedRequest{
		UserID:          r.UserID,
		UserLat:         r.UserLat,
		UserLon:         r.UserLon,
		RadiusKm:        r.RadiusKm,
		Categories:      r.Categories,
		PriceTiers:      r.PriceTiers,
		City:            r.City,
		ExcludeIDs:      r.ExcludeIDs,
		Page:            r.Page,
		PageSize:        r.PageSize,
		ShowNewThisWeek: r.ShowNewThisWeek,
		ShowOpenNow:     r.ShowOpenNow,
	}
}

// DecideRequest is the body of POST /api/v1/decide.
type DecideRequest struct {
	FeedRequest
	Vibe string `json:"vibe" validate:"max=64"`
}

// SwipeRequest is the body of POST /api/v1/swipes.
type SwipeRequest struct {
	UserID    string   `json:"user_id" validate:"notblank,max=128"`
	ListingID string   `json:"listing_id" validate:"notblank,max=128"`
	Direction string   `json:"direction" validate:"notblank"`
	Category  string   `json:"category" validate:"max=64"`
	Tags      []string `json:"tags" validate:"max=50,dive,max=64"`
}

// VibeRequest is the body of POST /api/v1/vibes.
type VibeRequest struct {
	UserID string `json:"user_id" validate:"notblank,max=128"`
	Vibe   string `json:"vibe" validate:"notblank,max=64"`
}

// UpvoteRequest is the body of POST /api/v1/listings/{id}/upvotes.
type UpvoteRequest struct {
	UserID string `json:"user_id" validate:"notblank,max=128"`
}

// decodeAndValidate reads a JSON body into dst and validates it. On failure
// the error response has already been written and false is returned.
func decodeAndValidate(rw *ResponseWriter, w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := decodeJSON(w, r, dst); err != nil {
		rw.BadRequest(err.Error())
		return false
	}
	if verr := validation.ValidateStruct(dst); verr != nil {
		respondValidationError(rw, verr)
		return false
	}
	return true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	if r.Body == nil || r.Body == http.NoBody {
		return errors.New("request body is required")
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return fmt.Errorf("request body exceeds %d bytes", maxErr.Limit)
		case errors.Is(err, io.EOF):
			return errors.New("request body is required")
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}
