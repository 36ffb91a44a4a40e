// Swipefeed - Local Discovery Feed Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipefeed

package feed

import (
	"context"
	"sort"
	"sync"
)

// ExclusionSet holds listing ids a session must not serve again.
type ExclusionSet map[string]struct{}

// Contains reports whether id is excluded.
func (s ExclusionSet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// IDs returns the excluded ids, sorted.
func (s ExclusionSet) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Extend returns a new set holding s and ids. s is not modified, so the
// result is always a superset of its input.
func Extend(s ExclusionSet, ids ...string) ExclusionSet {
	out := make(ExclusionSet, len(s)+len(ids))
	for id := range s {
		out[id] = struct{}{}
	}
	for _, id := range ids {
		if id != "" {
			out[id] = struct{}{}
		}
	}
	return out
}

// Apply removes excluded listings.
func Apply(listings []Listing, s ExclusionSet) []Listing {
	if len(s) == 0 {
		return listings
	}
	return applyFilter(listings, func(l *Listing) bool {
		return !s.Contains(l.ID)
	})
}

// SwipeHistory reads a user's swipe log.
type SwipeHistory interface {
	ListSwipes(ctx context.Context, userID string) ([]SwipeRecord, error)
}

// ExclusionTracker seeds exclusion sets from the swipe log.
type ExclusionTracker struct {
	history SwipeHistory
}

// NewExclusionTracker creates a tracker over history.
func NewExclusionTracker(history SwipeHistory) *ExclusionTracker {
	return &ExclusionTracker{history: history}
}

// Seed returns every listing id the user has swiped, in either direction.
func (t *ExclusionTracker) Seed(ctx context.Context, userID string) (ExclusionSet, error) {
	swipes, err := t.history.ListSwipes(ctx, userID)
	if err != nil {
		return nil, upstream(SourceSwipeHistory, err)
	}
	return seedFromSwipes(swipes), nil
}

func seedFromSwipes(swipes []SwipeRecord) ExclusionSet {
	ids := make([]string, len(swipes))
	for i := range swipes {
		ids[i] = swipes[i].ListingID
	}
	return Extend(nil, ids...)
}

// Session is a caller-owned paging cursor. It carries the running exclusion
// set (historical swipes plus everything served) and the number of pages
// delivered. The set only grows, through Extend.
type Session struct {
	UserID string

	mu       sync.Mutex
	excluded ExclusionSet
	pages    int
}

// NewSession starts a session from a seeded exclusion set.
func NewSession(userID string, seed ExclusionSet) *Session {
	return &Session{UserID: userID, excluded: Extend(seed)}
}

// Extend folds ids into the session's exclusion set.
func (s *Session) Extend(ids ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.excluded = Extend(s.excluded, ids...)
}

// Excluded returns a snapshot of the exclusion set.
func (s *Session) Excluded() ExclusionSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Extend(s.excluded)
}

// PagesServed returns how many pages the session has delivered.
func (s *Session) PagesServed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pages
}

func (s *Session) served(ids []string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.excluded = Extend(s.excluded, ids...)
	page := s.pages
	s.pages++
	return page
}
