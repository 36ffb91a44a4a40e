// Swipefeed - Local Discovery Feed Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipefeed

package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/swipefeed/internal/feed"
	"github.com/tomtom215/swipefeed/internal/metrics"
)

const snapshotKey = "trending:counts"

// TrendingSnapshot serves trending signal counts computed out of band. It
// implements feed.SignalCounter.
type TrendingSnapshot struct {
	live   feed.SignalCounter
	cache  *Cache
	window time.Duration
}

// NewTrendingSnapshot creates a snapshot over live. Each refresh counts the
// signals of the trailing window (0 = all time); a snapshot older than
// maxAge is ignored.
func NewTrendingSnapshot(live feed.SignalCounter, window, maxAge time.Duration) *TrendingSnapshot {
	return &TrendingSnapshot{
		live:   live,
		cache:  New(maxAge),
		window: window,
	}
}

// Refresh recomputes the snapshot from the live store and returns how many
// listings have at least one signal. A failed refresh keeps the previous
// snapshot until it ages out.
func (s *TrendingSnapshot) Refresh(ctx context.Context) (n int, err error) {
	defer func() { metrics.RecordSnapshotRefresh(n, err) }()

	var since time.Time
	if s.window > 0 {
		since = s.cache.now().Add(-s.window)
	}
	counts, err := s.live.CountSignals(ctx, since)
	if err != nil {
		return 0, fmt.Errorf("refresh trending snapshot: %w", err)
	}
	s.cache.Set(snapshotKey, counts)
	return len(counts), nil
}

// CountSignals returns the snapshot counts, or live counts for since when no
// fresh snapshot exists. The snapshot's own window applies on a hit.
func (s *TrendingSnapshot) CountSignals(ctx context.Context, since time.Time) (map[string]int, error) {
	if v, ok := s.cache.Get(snapshotKey); ok {
		if counts, ok := v.(map[string]int); ok {
			out := make(map[string]int, len(counts))
			for id, c := range counts {
				out[id] = c
			}
			metrics.TrendingSnapshotReads.WithLabelValues("snapshot").Inc()
			return out, nil
		}
	}
	metrics.TrendingSnapshotReads.WithLabelValues("live").Inc()
	return s.live.CountSignals(ctx, since)
}

// Close stops the backing cache's cleanup goroutine.
func (s *TrendingSnapshot) Close() {
	s.cache.Close()
}
