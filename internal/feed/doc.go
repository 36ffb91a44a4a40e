// Swipefeed - Local Discovery Feed Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipefeed

// Package feed ranks places and events for the swipe feed.
//
// A feed request runs as a pure pipeline over data fetched up front:
//
//  1. CategoryNormalizer and CityScopeResolver turn user-facing filters into
//     canonical categories and a set of cities.
//  2. The catalog, the user's swipe history and trending signal counts are
//     fetched concurrently under one deadline. Any failure fails the request.
//  3. Geo annotation and the radius filter, then the category, price,
//     new-this-week and open-now filters.
//  4. Exclusion removes everything the user swiped or was already served.
//  5. Affinity and trending scores are combined into RankScore.
//  6. SortComposer orders candidates under a strict total order and the
//     paginator slices the requested window.
//
// The package has no dependencies on other internal packages. Storage,
// transport and instrumentation live behind the Catalog, SwipeLog,
// SignalStore and SignalCounter interfaces.
//
// # Determinism
//
// Every step after the fetch is a pure function of its inputs. The only
// randomness is the weighted pick behind Decide, drawn from a seeded source
// owned by the Engine.
package feed
