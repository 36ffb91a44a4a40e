// Swipefeed - Local Discovery Feed Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipefeed

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tomtom215/swipefeed/internal/logging"
)

// Composition modes for the sort composite score.
const (
	CompositionAffinityTrending = "affinity_trending"
	CompositionAffinity         = "affinity"
	CompositionTrending         = "trending"
)

// Validate checks that the configuration is usable, reporting every problem found.
func (c *Config) Validate() error {
	var errs []error
	errs = append(errs, c.validateServer()...)
	errs = append(errs, c.validateFeed()...)
	errs = append(errs, c.validateStorage()...)
	errs = append(errs, c.validateSecurity()...)

	if !logging.ValidLevel(c.Logging.Level) {
		errs = append(errs, fmt.Errorf("LOG_LEVEL %q is not a valid level", c.Logging.Level))
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format))
	}
	return errors.Join(errs...)
}

func (c *Config) validateServer() []error {
	var errs []error
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port))
	}
	if c.Server.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("HTTP_TIMEOUT must be positive"))
	}
	return errs
}

func (c *Config) validateFeed() []error {
	f := c.Feed
	var errs []error
	if f.DefaultRadiusKm <= 0 {
		errs = append(errs, fmt.Errorf("FEED_DEFAULT_RADIUS_KM must be positive, got %v", f.DefaultRadiusKm))
	}
	if f.DefaultPageSize < 1 || f.MaxPageSize < f.DefaultPageSize {
		errs = append(errs, fmt.Errorf("FEED_DEFAULT_PAGE_SIZE must be in [1, FEED_MAX_PAGE_SIZE], got %d (max %d)",
			f.DefaultPageSize, f.MaxPageSize))
	}
	switch f.Composition {
	case CompositionAffinityTrending, CompositionAffinity, CompositionTrending:
	default:
		errs = append(errs, fmt.Errorf("FEED_COMPOSITION must be one of %s, got %q",
			strings.Join([]string{CompositionAffinityTrending, CompositionAffinity, CompositionTrending}, ", "),
			f.Composition))
	}
	if f.TopCategories < 1 {
		errs = append(errs, fmt.Errorf("FEED_TOP_CATEGORIES must be at least 1"))
	}
	if f.TrendingBonusTopN < 0 {
		errs = append(errs, fmt.Errorf("FEED_TRENDING_BONUS_TOP_N must not be negative"))
	}
	if f.TrendingWindow < 0 {
		errs = append(errs, fmt.Errorf("FEED_TRENDING_WINDOW must not be negative"))
	}
	if f.UpstreamTimeout <= 0 {
		errs = append(errs, fmt.Errorf("FEED_UPSTREAM_TIMEOUT must be positive"))
	}
	for metro, cities := range f.ExtraMetros {
		if strings.TrimSpace(metro) == "" || len(cities) == 0 {
			errs = append(errs, fmt.Errorf("feed.extra_metros entry %q needs a label and at least one city", metro))
		}
	}
	if c.Trending.SnapshotEnabled && c.Trending.RefreshInterval <= 0 {
		errs = append(errs, fmt.Errorf("TRENDING_REFRESH_INTERVAL must be positive when the snapshot is enabled"))
	}
	return errs
}

func (c *Config) validateStorage() []error {
	var errs []error
	if c.Catalog.Path == "" {
		errs = append(errs, fmt.Errorf("CATALOG_PATH is required"))
	}
	if !c.Store.InMemory && c.Store.Path == "" {
		errs = append(errs, fmt.Errorf("STORE_PATH is required unless STORE_IN_MEMORY=true"))
	}
	if c.Breaker.FailureThreshold == 0 {
		errs = append(errs, fmt.Errorf("BREAKER_FAILURE_THRESHOLD must be at least 1"))
	}
	return errs
}

func (c *Config) validateSecurity() []error {
	var errs []error
	if !c.Security.RateLimitDisabled {
		if c.Security.RateLimitReqs < 1 {
			errs = append(errs, fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1"))
		}
		if c.Security.RateLimitWindow <= 0 {
			errs = append(errs, fmt.Errorf("RATE_LIMIT_WINDOW must be positive"))
		}
	}
	if c.IsProduction() {
		for _, origin := range c.Security.CORSOrigins {
			if origin == "*" {
				errs = append(errs, fmt.Errorf("CORS_ORIGINS must not contain * in production"))
				break
			}
		}
	}
	return errs
}
