// Swipefeed - Local Discovery Feed Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipefeed

package feed

import (
	"sort"
	"strings"
)

// MetroTableVersion identifies the built-in metro table.
const MetroTableVersion = "2026.1"

var defaultMetros = map[string][]string{
	"Northern Virginia": {
		"Alexandria", "Annandale", "Arlington", "Ashburn", "Centreville", "Chantilly",
		"Fairfax", "Falls Church", "Herndon", "Leesburg", "Manassas", "McLean",
		"Reston", "Springfield", "Sterling", "Tysons", "Vienna", "Woodbridge",
		"Washington, DC",
	},
	"Bay Area": {
		"Berkeley", "Daly City", "Fremont", "Mountain View", "Oakland", "Palo Alto",
		"Redwood City", "San Francisco", "San Jose", "San Mateo", "Sunnyvale", "Walnut Creek",
	},
	"Greater Boston": {
		"Boston", "Brookline", "Cambridge", "Medford", "Newton", "Quincy", "Somerville", "Waltham",
	},
	"Twin Cities": {
		"Bloomington", "Edina", "Minneapolis", "Roseville", "Saint Paul", "St. Paul",
	},
}

var defaultMetroAliases = map[string]string{
	"nova":                   "Northern Virginia",
	"dmv":                    "Northern Virginia",
	"sf bay area":            "Bay Area",
	"san francisco bay area": "Bay Area",
	"boston area":            "Greater Boston",
	"minneapolis-saint paul": "Twin Cities",
}

// CityScopeResolver expands a metro display label into the cities it covers.
// A label that is not a metro resolves to itself.
type CityScopeResolver struct {
	metros map[string][]string // lowered label -> sorted cities
}

// NewCityScopeResolver builds a resolver from the built-in table plus extra
// metros. An extra metro with the same label as a built-in one adds cities to
// it. An extra metro labelled like a built-in alias replaces that alias.
func NewCityScopeResolver(extra map[string][]string) *CityScopeResolver {
	r := &CityScopeResolver{metros: make(map[string][]string)}
	for label, cities := range defaultMetros {
		r.add(label, cities)
	}
	operator := make(map[string]struct{}, len(extra))
	for label, cities := range extra {
		r.add(label, cities)
		operator[strings.ToLower(strings.TrimSpace(label))] = struct{}{}
	}
	for alias, label := range defaultMetroAliases {
		if _, taken := operator[alias]; taken {
			continue
		}
		if cities, ok := r.metros[strings.ToLower(label)]; ok {
			r.metros[alias] = cities
		}
	}
	return r
}

func (r *CityScopeResolver) add(label string, cities []string) {
	key := strings.ToLower(strings.TrimSpace(label))
	if key == "" {
		return
	}
	seen := make(map[string]struct{})
	merged := make([]string, 0, len(r.metros[key])+len(cities))
	for _, c := range append(append([]string(nil), r.metros[key]...), cities...) {
		c = strings.TrimSpace(c)
		if _, dup := seen[strings.ToLower(c)]; dup || c == "" {
			continue
		}
		seen[strings.ToLower(c)] = struct{}{}
		merged = append(merged, c)
	}
	sort.Strings(merged)
	r.metros[key] = merged
}

// Resolve returns the city scope for a display label. Metro labels match
// case-insensitively; anything else resolves to the singleton {displayCity}.
// An empty label resolves to nil, meaning no city scoping.
func (r *CityScopeResolver) Resolve(displayCity string) []string {
	trimmed := strings.TrimSpace(displayCity)
	if trimmed == "" {
		return nil
	}
	if cities, ok := r.metros[strings.ToLower(trimmed)]; ok {
		out := make([]string, len(cities))
		copy(out, cities)
		return out
	}
	return []string{displayCity}
}

// IsMetro reports whether the label names a metro grouping.
func (r *CityScopeResolver) IsMetro(label string) bool {
	_, ok := r.metros[strings.ToLower(strings.TrimSpace(label))]
	return ok
}
