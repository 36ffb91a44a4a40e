// Swipefeed - Local Discovery Feed Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipefeed

/*
Package cache provides a thread-safe in-memory TTL cache and the trending
snapshot built on it.

# Trending Snapshot

Counting upvotes means scanning every signal key. With the snapshot enabled,
a supervised service calls Refresh on an interval and the engine reads the
cached counts instead of the live store:

	snap := cache.NewTrendingSnapshot(signals, 24*time.Hour, 2*time.Minute)
	engine, _ := feed.NewEngine(cfg, feed.Dependencies{
	    Signals:        signals,
	    TrendingCounts: snap,
	})

The snapshot is read-only to the engine. When it is missing or older than
its max age, reads fall through to the live store, so a stalled refresher
degrades to live counting rather than serving stale rankings forever.

# Thread Safety

Cache uses a sync.RWMutex; the snapshot hands out copies of its counts map,
so callers may mutate what they receive.
*/
package cache
