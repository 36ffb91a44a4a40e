// Swipefeed - Local Discovery Feed Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipefeed

package feed

import (
	"strings"
	"time"
)

// Listing is a place or event from the catalog.
//
// DistanceKm and RankScore are output annotations set by the engine; they are
// never persisted.
type Listing struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Category    string     `json:"category"`
	PriceTier   *int       `json:"price_tier,omitempty"`
	Lat         *float64   `json:"lat,omitempty"`
	Lon         *float64   `json:"lon,omitempty"`
	City        string     `json:"city"`
	CreatedAt   time.Time  `json:"created_at"`
	StartsAt    *time.Time `json:"starts_at,omitempty"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	IsFeatured  bool       `json:"is_featured"`
	IsPublished bool       `json:"is_published"`

	DistanceKm *float64 `json:"distance_km"`
	RankScore  int      `json:"rank_score"`
}

// IsEvent reports whether the listing has a scheduled start.
func (l *Listing) IsEvent() bool {
	return l.StartsAt != nil
}

// HasCoordinates reports whether both latitude and longitude are present.
func (l *Listing) HasCoordinates() bool {
	return l.Lat != nil && l.Lon != nil
}

// Direction is the swipe gesture outcome.
type Direction string

const (
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"
)

// Valid reports whether d is left or right.
func (d Direction) Valid() bool {
	return d == DirectionLeft || d == DirectionRight
}

// ParseDirection accepts "left"/"right" in any case.
func ParseDirection(s string) (Direction, error) {
	d := Direction(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", invalidf("direction must be left or right, got %q", s)
	}
	return d, nil
}

// SwipeRecord is one entry of the append-only swipe log.
type SwipeRecord struct {
	UserID    string    `json:"user_id"`
	ListingID string    `json:"listing_id"`
	Direction Direction `json:"direction"`
	Category  string    `json:"category"`
	Tags      []string  `json:"tags,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// VibeSelection is an explicit spin-wheel vibe choice.
type VibeSelection struct {
	UserID    string    `json:"user_id"`
	Vibe      string    `json:"vibe"`
	Timestamp time.Time `json:"timestamp"`
}

// Signal is a positive trending signal (an upvote) for a listing.
type Signal struct {
	ListingID string    `json:"listing_id"`
	UserID    string    `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
}

// FeedRequest describes one page of the feed.
//
// UserLat and UserLon are optional; without both, distance annotation and
// radius filtering are skipped. Zero RadiusKm and PageSize take the engine
// defaults.
type FeedRequest struct {
	UserID          string   `json:"user_id"`
	UserLat         *float64 `json:"user_lat,omitempty"`
	UserLon         *float64 `json:"user_lon,omitempty"`
	RadiusKm        float64  `json:"radius_km,omitempty"`
	Categories      []string `json:"categories,omitempty"`
	PriceTiers      []int    `json:"price_tiers,omitempty"`
	City            string   `json:"city,omitempty"`
	ExcludeIDs      []string `json:"exclude_ids,omitempty"`
	Page            int      `json:"page"`
	PageSize        int      `json:"page_size,omitempty"`
	ShowNewThisWeek bool     `json:"show_new_this_week,omitempty"`
	ShowOpenNow     bool     `json:"show_open_now,omitempty"`
}

// HasLocation reports whether the request carries a user position.
func (r *FeedRequest) HasLocation() bool {
	return r.UserLat != nil && r.UserLon != nil
}

// FeedPage is one slice of the ordered feed. Total counts every candidate
// that survived filtering and exclusion, before slicing.
type FeedPage struct {
	Items    []Listing `json:"items"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	PageSize int       `json:"page_size"`
	HasMore  bool      `json:"has_more"`
}

// TrendingCount is a listing's positive signal count within a city scope.
type TrendingCount struct {
	ListingID string `json:"listing_id"`
	Count     int    `json:"count"`
}

// DecideRequest asks the decision helper to pick one listing.
type DecideRequest struct {
	FeedRequest
	Vibe string `json:"vibe,omitempty"`
}

// Vocabulary describes the static tables a deployment ranks with.
type Vocabulary struct {
	CategoryTable string   `json:"category_table"`
	MetroTable    string   `json:"metro_table"`
	Categories    []string `json:"categories"`
	Vibes         []string `json:"vibes"`
}

// DecideResult is the decision helper's pick.
type DecideResult struct {
	Listing    Listing `json:"listing"`
	Weight     float64 `json:"weight"`
	Candidates int     `json:"candidates"`
}
