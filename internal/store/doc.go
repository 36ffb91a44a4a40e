// Swipefeed - Local Discovery Feed Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipefeed

/*
Package store provides the persistent collaborators of the feed engine.

  - Catalog: DuckDB-backed listing catalog. FetchPublishedListings scopes by
    city, raw category variants and price tier in SQL and never returns
    unpublished rows.
  - SwipeLog: BadgerDB append-only log of swipes and spin-wheel vibe
    selections, keyed by user so history reads are a single prefix scan.
  - SignalStore: BadgerDB upvote store, one key per (listing, user) so repeat
    upvotes count once.
  - Breaker: sony/gobreaker wrappers that fail fast while a store is down.

Key layout (BadgerDB):

	swipe:{user}:{unix_nanos}:{uuid}  -> feed.SwipeRecord (JSON)
	vibe:{user}:{unix_nanos}:{uuid}   -> feed.VibeSelection (JSON)
	signal:{listing}:{user}           -> feed.Signal (JSON)

User and listing ids are query-escaped inside keys so a ':' in an id cannot
bleed into another id's prefix. Timestamps are zero-padded, so prefix scans
return entries in append order.
*/
package store
