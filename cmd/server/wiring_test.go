// Swipefeed - Local Discovery Feed Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipefeed

package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/swipefeed/internal/api"
	"github.com/tomtom215/swipefeed/internal/config"
	"github.com/tomtom215/swipefeed/internal/feed"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Feed: config.FeedConfig{
			DefaultRadiusKm:      15,
			DefaultPageSize:      20,
			MaxPageSize:          100,
			Composition:          "affinity_trending",
			TopCategories:        3,
			TrendingBonusTopN:    5,
			NewThisWeekWindow:    7 * 24 * time.Hour,
			DefaultEventDuration: 3 * time.Hour,
			UpstreamTimeout:      5 * time.Second,
			Seed:                 7,
			ExtraMetros:          map[string][]string{"treasure valley": {"Boise", "Meridian", "Nampa"}},
		},
		Trending: config.TrendingConfig{SnapshotEnabled: true, RefreshInterval: time.Minute},
		Catalog:  config.CatalogConfig{Path: ":memory:", MaxMemory: "256MB", Threads: 1},
		Store:    config.StoreConfig{InMemory: true},
		Breaker: config.BreakerConfig{
			MaxRequests:      1,
			Interval:         time.Minute,
			Timeout:          time.Second,
			FailureThreshold: 5,
		},
	}
}

func TestFeedConfig(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.Feed.Composition = "trending"
	cfg.Feed.TrendingWindow = 48 * time.Hour

	fc := feedConfig(&cfg.Feed)
	if fc.Composition != feed.CompositionTrending {
		t.Errorf("expected trending composition, got %q", fc.Composition)
	}
	if fc.TrendingWindow != 48*time.Hour || fc.Seed != 7 || fc.DefaultRadiusKm != 15 {
		t.Errorf("unexpected mapping %+v", *fc)
	}
	if fc.DefaultTrendingLimit != feed.DefaultConfig().DefaultTrendingLimit {
		t.Errorf("unmapped fields should keep engine defaults, got %d", fc.DefaultTrendingLimit)
	}
	if err := fc.Validate(); err != nil {
		t.Errorf("mapped config should validate: %v", err)
	}
}

func TestBuild_ServesImportedCatalog(t *testing.T) {
	dir := t.TempDir()
	importFile := filepath.Join(dir, "listings.json")
	listings := `[
		{"id":"l1","title":"Boise Brewing","category":"Bars","city":"Boise","created_at":"2026-01-01T00:00:00Z","is_published":true},
		{"id":"l2","title":"Nampa Night Market","category":"Markets","city":"Nampa","created_at":"2026-01-01T00:00:00Z","is_published":true},
		{"id":"l3","title":"Draft","category":"Bars","city":"Boise","created_at":"2026-01-01T00:00:00Z","is_published":false}
	]`
	if err := os.WriteFile(importFile, []byte(listings), 0o600); err != nil {
		t.Fatalf("write import file: %v", err)
	}

	cfg := testConfig(t)
	cfg.Catalog.ImportFile = importFile

	a, err := build(context.Background(), cfg)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	t.Cleanup(a.close)

	if a.snapshot == nil {
		t.Fatal("expected trending snapshot when enabled")
	}

	h := api.NewRouter(a.handler, nil).Setup()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/feed", strings.NewReader(`{"city":"Treasure Valley"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"l1"`) || !strings.Contains(body, `"l2"`) || strings.Contains(body, `"l3"`) {
		t.Errorf("expected published Treasure Valley listings only, got %s", body)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/health/ready", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("expected ready, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestBuild_MissingImportFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.Catalog.ImportFile = filepath.Join(t.TempDir(), "missing.json")

	if _, err := build(context.Background(), cfg); err == nil {
		t.Fatal("expected error for missing import file")
	}
}
