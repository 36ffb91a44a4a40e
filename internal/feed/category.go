// Swipefeed - Local Discovery Feed Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipefeed

package feed

import (
	"slices"
	"sort"
	"strings"
)

// CategoryTableVersion identifies the built-in synonym table.
const CategoryTableVersion = "2026.1"

// defaultCategorySynonyms maps canonical category ids to the display
// variants seen in source data.
var defaultCategorySynonyms = map[string][]string{
	"food-drink":     {"Food & Drink", "Food and Drink", "Food", "Dining", "Restaurants", "Restaurant", "Cafes", "Cafe", "Coffee", "Bakeries"},
	"nightlife":      {"Nightlife", "Night Life", "Bars", "Bar", "Clubs", "Lounges"},
	"arts-culture":   {"Arts & Culture", "Arts and Culture", "Arts", "Art", "Museums", "Museum", "Galleries", "Theater", "Theatre"},
	"outdoors":       {"Outdoors", "Outdoors & Nature", "Nature", "Parks", "Park", "Hiking", "Outdoor Activities"},
	"music":          {"Music", "Live Music", "Concerts", "Concert"},
	"sports-fitness": {"Sports", "Fitness", "Sports & Fitness", "Sports and Recreation", "Recreation"},
	"shopping":       {"Shopping", "Shops", "Markets", "Market", "Retail"},
	"family":         {"Family", "Kids", "Kids & Family", "Family Friendly"},
	"wellness":       {"Wellness", "Health & Wellness", "Spa", "Yoga"},
	"entertainment":  {"Entertainment", "Games", "Comedy", "Movies", "Cinema"},
}

// CategoryNormalizer maps display variants to canonical category ids and back.
// Lookups are case-insensitive and ignore surrounding whitespace. Unknown
// input passes through unchanged. It is safe for concurrent use after
// construction.
type CategoryNormalizer struct {
	canonical map[string]string   // lowered variant or id -> canonical id
	variants  map[string][]string // canonical id -> sorted id + every distinct spelling
}

// NewCategoryNormalizer builds a normalizer from the built-in table plus extra
// synonyms. Extra entries may introduce new canonical ids; a variant already
// claimed by the built-in table keeps its built-in mapping.
func NewCategoryNormalizer(extra map[string][]string) *CategoryNormalizer {
	n := &CategoryNormalizer{
		canonical: make(map[string]string),
		variants:  make(map[string][]string),
	}
	n.load(defaultCategorySynonyms)
	n.load(extra)
	for id, vs := range n.variants {
		sort.Strings(vs)
		n.variants[id] = vs
	}
	return n
}

func (n *CategoryNormalizer) load(table map[string][]string) {
	ids := make([]string, 0, len(table))
	for id := range table {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if c, ok := n.canonical[categoryKey(id)]; ok && c != id {
			continue
		}
		n.claim(id, id)
		for _, v := range table[id] {
			n.claim(id, strings.TrimSpace(v))
		}
	}
}

func (n *CategoryNormalizer) claim(id, variant string) {
	if variant == "" {
		return
	}
	key := categoryKey(variant)
	if owner, taken := n.canonical[key]; taken && owner != id {
		return
	}
	n.canonical[key] = id
	if !slices.Contains(n.variants[id], variant) {
		n.variants[id] = append(n.variants[id], variant)
	}
}

func categoryKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Normalize returns the canonical id for raw, or raw unchanged when unknown.
// Normalize(Normalize(x)) == Normalize(x).
func (n *CategoryNormalizer) Normalize(raw string) string {
	if id, ok := n.canonical[categoryKey(raw)]; ok {
		return id
	}
	return raw
}

// Expand returns the canonical id together with all its known variants, for
// querying stores that hold raw values. An unknown value expands to itself.
func (n *CategoryNormalizer) Expand(canonical string) []string {
	id := n.Normalize(canonical)
	vs, ok := n.variants[id]
	if !ok {
		return []string{canonical}
	}
	out := make([]string, len(vs))
	copy(out, vs)
	return out
}

// NormalizeAll normalizes and de-duplicates a list, preserving first-seen order.
// Unknown values that differ only in case collapse to the first spelling.
// Blank entries are dropped.
func (n *CategoryNormalizer) NormalizeAll(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		if strings.TrimSpace(r) == "" {
			continue
		}
		c := n.Normalize(r)
		key := categoryKey(c)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}
	return out
}

// ExpandAll expands every canonical id, de-duplicated.
func (n *CategoryNormalizer) ExpandAll(canonical []string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, c := range canonical {
		for _, v := range n.Expand(c) {
			if _, dup := seen[v]; dup {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}

// Canonical returns the sorted list of canonical ids.
func (n *CategoryNormalizer) Canonical() []string {
	ids := make([]string, 0, len(n.variants))
	for id := range n.variants {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
