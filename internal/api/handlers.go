// Swipefeed - Local Discovery Feed Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipefeed

package api

import (
	"context"
	"time"

	"github.com/tomtom215/swipefeed/internal/feed"
)

// FeedService is the subset of *feed.Engine the handlers call.
type FeedService interface {
	Feed(ctx context.Context, req feed.FeedRequest) (*feed.FeedPage, error)
	Decide(ctx context.Context, req feed.DecideRequest) (*feed.DecideResult, error)
	GetTrending(ctx context.Context, city string, limit int) ([]feed.Listing, error)
	RecordSwipe(ctx context.Context, rec feed.SwipeRecord) error
	RecordVibe(ctx context.Context, userID, vibe string) error
	RecordSignal(ctx context.Context, userID, listingID string) error
	Vocabulary() feed.Vocabulary
	IsMetro(city string) bool
}

// ReadinessCheck is one dependency probed by /health/ready.
type ReadinessCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// BreakerStatus reports a circuit breaker for /health/ready.
type BreakerStatus interface {
	Name() string
	State() string
}

// Handler serves the feed API.
type Handler struct {
	service   FeedService
	checks    []ReadinessCheck
	breakers  []BreakerStatus
	startTime time.Time

	readyTimeout time.Duration
}

// NewHandler creates the API handlers for service.
func NewHandler(service FeedService, checks []ReadinessCheck, breakers []BreakerStatus) *Handler {
	return &Handler{
		service:      service,
		checks:       checks,
		breakers:     breakers,
		startTime:    time.Now(),
		readyTimeout: 2 * time.Second,
	}
}
