// Swipefeed - Local Discovery Feed Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipefeed

package feed

import "time"

// filterFunc reports whether a listing survives a filter.
type filterFunc func(l *Listing) bool

func applyFilter(listings []Listing, keep filterFunc) []Listing {
	out := listings[:0:0]
	for i := range listings {
		if keep(&listings[i]) {
			out = append(out, listings[i])
		}
	}
	return out
}

// FilterCategories keeps listings whose canonical category is in categories.
// Comparison ignores case and surrounding whitespace, matching the catalog
// query. An empty filter keeps everything.
func FilterCategories(listings []Listing, categories []string) []Listing {
	if len(categories) == 0 {
		return listings
	}
	allowed := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		allowed[categoryKey(c)] = struct{}{}
	}
	return applyFilter(listings, func(l *Listing) bool {
		_, ok := allowed[categoryKey(l.Category)]
		return ok
	})
}

// FilterPriceTiers keeps listings whose tier is in tiers. While the filter is
// active, listings without a tier are dropped.
func FilterPriceTiers(listings []Listing, tiers []int) []Listing {
	if len(tiers) == 0 {
		return listings
	}
	allowed := make(map[int]struct{}, len(tiers))
	for _, t := range tiers {
		allowed[t] = struct{}{}
	}
	return applyFilter(listings, func(l *Listing) bool {
		if l.PriceTier == nil {
			return false
		}
		_, ok := allowed[*l.PriceTier]
		return ok
	})
}

// FilterNewThisWeek keeps listings created within window before now.
func FilterNewThisWeek(listings []Listing, now time.Time, window time.Duration) []Listing {
	cutoff := now.Add(-window)
	return applyFilter(listings, func(l *Listing) bool {
		return !l.CreatedAt.Before(cutoff) && !l.CreatedAt.After(now)
	})
}

// FilterOpenNow keeps events in progress at now and every non-event listing.
// An event without an end time is assumed to last defaultDuration.
func FilterOpenNow(listings []Listing, now time.Time, defaultDuration time.Duration) []Listing {
	return applyFilter(listings, func(l *Listing) bool {
		return isOpenAt(l, now, defaultDuration)
	})
}

func isOpenAt(l *Listing, now time.Time, defaultDuration time.Duration) bool {
	if !l.IsEvent() {
		return true
	}
	end := l.StartsAt.Add(defaultDuration)
	if l.EndsAt != nil {
		end = *l.EndsAt
	}
	return !now.Before(*l.StartsAt) && !now.After(end)
}
