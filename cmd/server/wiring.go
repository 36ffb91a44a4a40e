// Swipefeed - Local Discovery Feed Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipefeed

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/swipefeed/internal/api"
	"github.com/tomtom215/swipefeed/internal/cache"
	"github.com/tomtom215/swipefeed/internal/config"
	"github.com/tomtom215/swipefeed/internal/feed"
	"github.com/tomtom215/swipefeed/internal/logging"
	"github.com/tomtom215/swipefeed/internal/store"
)

// app holds the wired components and the resources main must release.
type app struct {
	catalog  *store.Catalog
	kv       *badger.DB
	snapshot *cache.TrendingSnapshot
	engine   *feed.Engine
	handler  *api.Handler
}

// feedConfig maps the feed config section onto the engine's config.
func feedConfig(cfg *config.FeedConfig) *feed.Config {
	fc := feed.DefaultConfig()
	fc.DefaultRadiusKm = cfg.DefaultRadiusKm
	fc.DefaultPageSize = cfg.DefaultPageSize
	fc.MaxPageSize = cfg.MaxPageSize
	fc.Composition = feed.Composition(cfg.Composition)
	fc.TopCategories = cfg.TopCategories
	fc.TrendingBonusTopN = cfg.TrendingBonusTopN
	fc.TrendingWindow = cfg.TrendingWindow
	fc.NewThisWeekWindow = cfg.NewThisWeekWindow
	fc.DefaultEventDuration = cfg.DefaultEventDuration
	fc.UpstreamTimeout = cfg.UpstreamTimeout
	fc.Seed = cfg.Seed
	return fc
}

// snapshotMaxAge tolerates one missed refresh before readers fall back to
// live counts.
func snapshotMaxAge(interval time.Duration) time.Duration {
	return 2 * interval
}

// build opens the stores and wires the engine and API handler. On error,
// everything opened so far is closed.
func build(ctx context.Context, cfg *config.Config) (_ *app, err error) {
	a := &app{}
	defer func() {
		if err != nil {
			a.close()
		}
	}()

	a.catalog, err = store.OpenCatalog(ctx, &cfg.Catalog)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	if cfg.Catalog.ImportFile != "" {
		if err = importListings(ctx, a.catalog, cfg.Catalog.ImportFile); err != nil {
			return nil, err
		}
	}

	a.kv, err = store.OpenBadger(&cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("open swipe store: %w", err)
	}

	catalog := store.NewBreakerCatalog(a.catalog, &cfg.Breaker)
	swipes := store.NewBreakerSwipeLog(store.NewSwipeLog(a.kv), &cfg.Breaker)
	signals := store.NewBreakerSignals(store.NewSignalStore(a.kv), &cfg.Breaker)

	deps := feed.Dependencies{
		Catalog:    catalog,
		Swipes:     swipes,
		Signals:    signals,
		Categories: feed.NewCategoryNormalizer(cfg.Feed.ExtraCategorySynonyms),
		Cities:     feed.NewCityScopeResolver(cfg.Feed.ExtraMetros),
	}
	if cfg.Trending.SnapshotEnabled {
		a.snapshot = cache.NewTrendingSnapshot(signals, cfg.Feed.TrendingWindow, snapshotMaxAge(cfg.Trending.RefreshInterval))
		deps.TrendingCounts = a.snapshot
	}

	a.engine, err = feed.NewEngine(feedConfig(&cfg.Feed), deps, logging.Logger())
	if err != nil {
		return nil, fmt.Errorf("create feed engine: %w", err)
	}

	checks := []api.ReadinessCheck{
		{Name: "catalog", Check: a.catalog.Ping},
		{Name: "swipe_store", Check: func(context.Context) error {
			if a.kv.IsClosed() {
				return errors.New("badger is closed")
			}
			return nil
		}},
	}
	breakers := []api.BreakerStatus{catalog.Breaker(), swipes.Breaker(), signals.Breaker()}
	a.handler = api.NewHandler(a.engine, checks, breakers)

	return a, nil
}

func importListings(ctx context.Context, catalog *store.Catalog, path string) error {
	f, err := os.Open(path) //nolint:gosec // path comes from operator config
	if err != nil {
		return fmt.Errorf("open import file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			logging.Warn().Err(cerr).Str("file", path).Msg("Error closing import file")
		}
	}()

	n, err := catalog.Import(ctx, f)
	if err != nil {
		return fmt.Errorf("import listings from %s: %w", path, err)
	}
	logging.Info().Int("listings", n).Str("file", path).Msg("Catalog import complete")
	return nil
}

func (a *app) close() {
	if a.snapshot != nil {
		a.snapshot.Close()
	}
	if a.kv != nil {
		if err := a.kv.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing swipe store")
		}
	}
	if a.catalog != nil {
		if err := a.catalog.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing catalog")
		}
	}
}
