// Swipefeed - Local Discovery Feed Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipefeed

package feed

import (
	"cmp"
	"slices"
)

// Compare orders listings for the feed:
//
//  1. featured before non-featured
//  2. higher RankScore first
//  3. nearer first; a nil distance sorts after any concrete distance
//  4. title ascending
//  5. id ascending
//
// The final id key makes this a strict total order over distinct ids, so the
// result never depends on input order.
func Compare(a, b *Listing) int {
	if a.IsFeatured != b.IsFeatured {
		if a.IsFeatured {
			return -1
		}
		return 1
	}
	if c := cmp.Compare(b.RankScore, a.RankScore); c != 0 {
		return c
	}
	if c := compareDistance(a.DistanceKm, b.DistanceKm); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Title, b.Title); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

func compareDistance(a, b *float64) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	default:
		return cmp.Compare(*a, *b)
	}
}

// SortListings orders listings in place by Compare.
func SortListings(listings []Listing) {
	slices.SortFunc(listings, func(a, b Listing) int {
		return Compare(&a, &b)
	})
}
