// Swipefeed - Local Discovery Feed Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipefeed

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// SnapshotRefresher rebuilds a cached trending count snapshot.
type SnapshotRefresher interface {
	Refresh(ctx context.Context) (int, error)
}

// TrendingRefreshService refreshes the trending snapshot on a fixed interval,
// starting immediately. Failed refreshes are logged and retried on the next
// tick; readers keep falling back to live counts meanwhile.
type TrendingRefreshService struct {
	snapshot SnapshotRefresher
	interval time.Duration
	timeout  time.Duration
	logger   zerolog.Logger
	name     string
}

// NewTrendingRefreshService creates the refresh loop. A non-positive interval
// uses one minute.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewTrendingRefreshService(snapshot SnapshotRefresher, interval time.Duration, logger zerolog.Logger) *TrendingRefreshService {
	if interval <= 0 {
		interval = time.Minute
	}
	return &TrendingRefreshService{
		snapshot: snapshot,
		interval: interval,
		timeout:  interval,
		logger:   logger.With().Str("supervised", "trending-refresh").Logger(),
		name:     "trending-refresh",
	}
}

// Serve implements suture.Service.
func (s *TrendingRefreshService) Serve(ctx context.Context) error {
	s.logger.Info().Dur("interval", s.interval).Msg("trending refresh starting")
	s.refresh(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("trending refresh shutting down")
			return ctx.Err()
		case <-ticker.C:
			s.refresh(ctx)
		}
	}
}

// refresh bounds one rebuild by the interval so a slow store cannot stack
// refreshes.
func (s *TrendingRefreshService) refresh(ctx context.Context) {
	refreshCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	n, err := s.snapshot.Refresh(refreshCtx)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Warn().Err(err).Msg("trending refresh failed")
		}
		return
	}
	s.logger.Debug().
		Int("listings", n).
		Dur("duration", time.Since(start)).
		Msg("trending snapshot refreshed")
}

// String implements fmt.Stringer for suture's logs.
func (s *TrendingRefreshService) String() string {
	return s.name
}
