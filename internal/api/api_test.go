// Swipefeed - Local Discovery Feed Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipefeed

package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/swipefeed/internal/feed"
)

// fakeService records calls and returns canned results.
type fakeService struct {
	mu sync.Mutex

	page     *feed.FeedPage
	decision *feed.DecideResult
	trending []feed.Listing
	err      error

	lastFeed   feed.FeedRequest
	lastDecide feed.DecideRequest
	lastCity   string
	lastLimit  int
	swipes     []feed.SwipeRecord
	vibes      []string
	upvotes    []string
}

func (f *fakeService) Feed(_ context.Context, req feed.FeedRequest) (*feed.FeedPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastFeed = req
	if f.err != nil {
		return nil, f.err
	}
	if f.page == nil {
		return &feed.FeedPage{Items: []feed.Listing{}, Page: req.Page, PageSize: 20}, nil
	}
	return f.page, nil
}

func (f *fakeService) Decide(_ context.Context, req feed.DecideRequest) (*feed.DecideResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastDecide = req
	if f.err != nil {
		return nil, f.err
	}
	return f.decision, nil
}

func (f *fakeService) GetTrending(_ context.Context, city string, limit int) ([]feed.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastCity, f.lastLimit = city, limit
	if f.err != nil {
		return nil, f.err
	}
	return f.trending, nil
}

func (f *fakeService) RecordSwipe(_ context.Context, rec feed.SwipeRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.swipes = append(f.swipes, rec)
	return nil
}

func (f *fakeService) RecordVibe(_ context.Context, userID, vibe string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.vibes = append(f.vibes, userID+":"+vibe)
	return nil
}

func (f *fakeService) RecordSignal(_ context.Context, userID, listingID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.upvotes = append(f.upvotes, userID+":"+listingID)
	return nil
}

func (f *fakeService) Vocabulary() feed.Vocabulary {
	return feed.Vocabulary{
		CategoryTable: feed.CategoryTableVersion,
		MetroTable:    feed.MetroTableVersion,
		Categories:    []string{"bars", "coffee"},
		Vibes:         []string{"chill"},
	}
}

func (f *fakeService) IsMetro(city string) bool {
	return city == "Northern Virginia"
}

type fakeBreaker struct {
	name, state string
}

func (b fakeBreaker) Name() string  { return b.name }
func (b fakeBreaker) State() string { return b.state }

// testEnvelope is APIResponse with the payload left raw.
type testEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
	Meta    *APIMeta        `json:"meta"`
}

func newTestServer(svc FeedService) http.Handler {
	cfg := DefaultChiMiddlewareConfig()
	cfg.RateLimitDisabled = true
	return NewRouter(NewHandler(svc, nil, nil), NewChiMiddleware(cfg)).Setup()
}

func doRequest(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, testEnvelope) {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env testEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("Failed to decode response %q: %v", rec.Body.String(), err)
	}
	return rec, env
}

func fptr(v float64) *float64 { return &v }
