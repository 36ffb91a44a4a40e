// Swipefeed - Local Discovery Feed Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipefeed

package feed

import (
	"slices"
	"sort"
	"strings"
	"sync"
)

const (
	// BaseAffinity is every candidate's score before bonuses.
	BaseAffinity = 1

	// MaxRuleBonus caps the contribution of any single rule.
	MaxRuleBonus = 4
)

// AffinityProfile holds positive interaction counts for one user. Counts only
// grow as the swipe log grows. Rankings are cached on first use, so the count
// maps must not change once the profile is being scored.
type AffinityProfile struct {
	Categories map[string]int
	Tags       map[string]int
	Vibes      map[string]int

	mu        sync.Mutex
	topCatCache   map[int][]string
	topVibeCache map[int][]string
}

// NewAffinityProfile returns an empty profile.
func NewAffinityProfile() *AffinityProfile {
	return &AffinityProfile{
		Categories: make(map[string]int),
		Tags:       make(map[string]int),
		Vibes:      make(map[string]int),
	}
}

// BuildProfile folds a swipe log and vibe selections into a profile. Only
// right swipes count; categories are canonicalised with n.
func BuildProfile(swipes []SwipeRecord, vibes []VibeSelection, n *CategoryNormalizer) *AffinityProfile {
	p := NewAffinityProfile()
	for i := range swipes {
		s := &swipes[i]
		if s.Direction != DirectionRight {
			continue
		}
		if c := strings.TrimSpace(s.Category); c != "" {
			p.Categories[n.Normalize(c)]++
		}
		for _, tag := range s.Tags {
			if t := normalizeTag(tag); t != "" {
				p.Tags[t]++
			}
		}
	}
	for i := range vibes {
		if v := normalizeVibe(vibes[i].Vibe); v != "" {
			p.Vibes[v]++
		}
	}
	return p
}

// TopCategories returns up to n categories by count, ties broken by name.
func (p *AffinityProfile) TopCategories(n int) []string {
	return slices.Clone(p.topCategories(n))
}

// TopVibes returns up to n vibes by selection count, ties broken by name.
func (p *AffinityProfile) TopVibes(n int) []string {
	return slices.Clone(p.topVibes(n))
}

// topCategories is the shared, read-only ranking used per candidate.
func (p *AffinityProfile) topCategories(n int) []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return cachedTop(&p.topCatCache, p.Categories, n)
}

func (p *AffinityProfile) topVibes(n int) []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return cachedTop(&p.topVibeCache, p.Vibes, n)
}

func cachedTop(cache *map[int][]string, counts map[string]int, n int) []string {
	if keys, ok := (*cache)[n]; ok {
		return keys
	}
	if *cache == nil {
		*cache = make(map[int][]string)
	}
	keys := topKeys(counts, n)
	(*cache)[n] = keys
	return keys
}

// Empty reports whether the profile has no positive signal at all.
func (p *AffinityProfile) Empty() bool {
	return len(p.Categories) == 0 && len(p.Tags) == 0 && len(p.Vibes) == 0
}

func topKeys(counts map[string]int, n int) []string {
	keys := make([]string, 0, len(counts))
	for k, c := range counts {
		if c > 0 {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if n >= 0 && len(keys) > n {
		keys = keys[:n]
	}
	return keys
}

func normalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// AffinityRule contributes one additive bonus to a listing's affinity score.
// Implementations must be pure.
type AffinityRule interface {
	Name() string
	Bonus(l *Listing, p *AffinityProfile) int
}

// AffinityScorer sums BaseAffinity and the capped bonus of every rule.
// A zero bonus never removes a candidate; it only ranks it lower.
type AffinityScorer struct {
	rules []AffinityRule
}

// NewAffinityScorer creates a scorer from rules, applied in order.
func NewAffinityScorer(rules ...AffinityRule) *AffinityScorer {
	return &AffinityScorer{rules: rules}
}

// DefaultAffinityRules returns the category, tag and vibe rules.
func DefaultAffinityRules(topCategories int, vibes VibeMatcher) []AffinityRule {
	return []AffinityRule{
		CategoryRule{TopN: topCategories},
		TagRule{},
		VibeRule{Matcher: vibes, TopN: 2},
	}
}

// Score returns the integer affinity of l for profile p.
func (s *AffinityScorer) Score(l *Listing, p *AffinityProfile) int {
	score := BaseAffinity
	if p == nil {
		return score
	}
	for _, r := range s.rules {
		score += clampBonus(r.Bonus(l, p))
	}
	return score
}

// Rules returns the rule names in application order.
func (s *AffinityScorer) Rules() []string {
	names := make([]string, len(s.rules))
	for i, r := range s.rules {
		names[i] = r.Name()
	}
	return names
}

func clampBonus(b int) int {
	switch {
	case b < 0:
		return 0
	case b > MaxRuleBonus:
		return MaxRuleBonus
	default:
		return b
	}
}

// CategoryRule rewards listings in one of the user's TopN categories by the
// number of right swipes on that category.
type CategoryRule struct {
	TopN int
}

func (CategoryRule) Name() string { return "category" }

func (r CategoryRule) Bonus(l *Listing, p *AffinityProfile) int {
	for _, c := range p.topCategories(r.TopN) {
		if c == l.Category {
			return p.Categories[c]
		}
	}
	return 0
}

// TagRule counts listing tags the user has liked before.
type TagRule struct{}

func (TagRule) Name() string { return "tag" }

func (TagRule) Bonus(l *Listing, p *AffinityProfile) int {
	bonus := 0
	seen := make(map[string]struct{}, len(l.Tags))
	for _, tag := range l.Tags {
		t := normalizeTag(tag)
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		if p.Tags[t] > 0 {
			bonus++
		}
	}
	return bonus
}

// VibeRule rewards keyword matches for the user's TopN spin-wheel vibes.
type VibeRule struct {
	Matcher VibeMatcher
	TopN    int
}

func (VibeRule) Name() string { return "vibe" }

func (r VibeRule) Bonus(l *Listing, p *AffinityProfile) int {
	if r.Matcher == nil {
		return 0
	}
	bonus := 0
	for _, v := range p.topVibes(r.TopN) {
		bonus += r.Matcher.Match(l, v)
	}
	return bonus
}
