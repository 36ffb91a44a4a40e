// Swipefeed - Local Discovery Feed Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipefeed

package feed

import (
	"sort"
	"strings"
	"unicode"
)

// VibeMatcher scores how well a listing fits a vibe. Zero means no match.
type VibeMatcher interface {
	Match(l *Listing, vibe string) int
}

var defaultVibeKeywords = map[string][]string{
	"chill":       {"cafe", "coffee", "tea", "park", "garden", "lounge", "bookstore", "library", "picnic"},
	"adventurous": {"hike", "trail", "climb", "kayak", "zipline", "escape room", "bike", "rafting", "outdoors"},
	"romantic":    {"wine", "rooftop", "sunset", "candle", "jazz", "bistro", "dessert", "garden"},
	"social":      {"bar", "brewery", "trivia", "karaoke", "festival", "market", "party", "nightlife"},
	"cultural":    {"museum", "gallery", "theater", "theatre", "history", "exhibit", "arts-culture", "opera"},
	"foodie":      {"tasting", "chef", "food", "restaurant", "bakery", "brunch", "food-drink", "dumpling"},
	"active":      {"yoga", "fitness", "run", "climb", "dance", "sports-fitness", "swim", "gym"},
}

// KeywordVibeMatcher matches vibes by keyword presence in a listing's title,
// description, tags and canonical category. Keywords match whole words, or a
// run of whole words for multi-word keywords, and a trailing plural "s" is
// accepted. Each keyword counts once.
type KeywordVibeMatcher struct {
	keywords map[string][][]string
}

// NewKeywordVibeMatcher returns the built-in vibe keyword table.
func NewKeywordVibeMatcher() *KeywordVibeMatcher {
	m := &KeywordVibeMatcher{keywords: make(map[string][][]string, len(defaultVibeKeywords))}
	for vibe, words := range defaultVibeKeywords {
		for _, w := range words {
			m.keywords[vibe] = append(m.keywords[vibe], vibeTokens(w))
		}
	}
	return m
}

// Match counts the vibe's keywords found in l. Unknown vibes match nothing.
func (m *KeywordVibeMatcher) Match(l *Listing, vibe string) int {
	phrases, ok := m.keywords[normalizeVibe(vibe)]
	if !ok {
		return 0
	}

	fields := make([][]string, 0, 3+len(l.Tags))
	fields = append(fields, vibeTokens(l.Title), vibeTokens(l.Description), vibeTokens(l.Category))
	for _, t := range l.Tags {
		fields = append(fields, vibeTokens(t))
	}

	hits := 0
	for _, phrase := range phrases {
		for _, tokens := range fields {
			if containsPhrase(tokens, phrase) {
				hits++
				break
			}
		}
	}
	return hits
}

// Vibes returns the known vibe names, sorted.
func (m *KeywordVibeMatcher) Vibes() []string {
	names := make([]string, 0, len(m.keywords))
	for v := range m.keywords {
		names = append(names, v)
	}
	sort.Strings(names)
	return names
}

func normalizeVibe(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

// vibeTokens lower-cases s and splits it into words. Hyphens stay inside a
// word so canonical ids such as "arts-culture" survive as one token.
func vibeTokens(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-'
	})
}

func containsPhrase(tokens, phrase []string) bool {
	if len(phrase) == 0 {
		return false
	}
	for i := 0; i+len(phrase) <= len(tokens); i++ {
		match := true
		for j, w := range phrase {
			if t := tokens[i+j]; t != w && t != w+"s" {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
