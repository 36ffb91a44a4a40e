// Swipefeed - Local Discovery Feed Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipefeed

package feed

import "sort"

// RankTrending orders listings by signal count descending, ties by listing id
// ascending. When scope is non-nil only listings in it are ranked. Listings
// without signals are left out. The full ranking is returned; callers cut
// their own top-N.
func RankTrending(counts map[string]int, scope map[string]struct{}) []TrendingCount {
	ranked := make([]TrendingCount, 0, len(counts))
	for id, c := range counts {
		if c <= 0 {
			continue
		}
		if scope != nil {
			if _, ok := scope[id]; !ok {
				continue
			}
		}
		ranked = append(ranked, TrendingCount{ListingID: id, Count: c})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].ListingID < ranked[j].ListingID
	})
	return ranked
}

// TrendingBonus gives the first topN ranked listings an inverse-rank bonus:
// topN for rank 1 down to 1 for rank topN.
func TrendingBonus(ranked []TrendingCount, topN int) map[string]int {
	n := topN
	if len(ranked) < n {
		n = len(ranked)
	}
	bonus := make(map[string]int, n)
	for i := 0; i < n; i++ {
		bonus[ranked[i].ListingID] = topN - i
	}
	return bonus
}

// ComposeScore combines affinity and trending bonus per the composition mode.
func ComposeScore(mode Composition, affinity, trendingBonus int) int {
	switch mode {
	case CompositionAffinity:
		return affinity
	case CompositionTrending:
		return trendingBonus
	default:
		return affinity + trendingBonus
	}
}

func listingScope(listings []Listing) map[string]struct{} {
	scope := make(map[string]struct{}, len(listings))
	for i := range listings {
		scope[listings[i].ID] = struct{}{}
	}
	return scope
}
