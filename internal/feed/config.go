// Swipefeed - Local Discovery Feed Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipefeed

package feed

import (
	"errors"
	"fmt"
	"time"
)

// Composition selects how affinity and trending combine into RankScore.
// It is fixed per deployment so ordering stays predictable.
type Composition string

const (
	// CompositionAffinityTrending adds the trending inverse-rank bonus to affinity.
	CompositionAffinityTrending Composition = "affinity_trending"
	// CompositionAffinity ranks by affinity only.
	CompositionAffinity Composition = "affinity"
	// CompositionTrending ranks by the trending bonus only.
	CompositionTrending Composition = "trending"
)

// Config contains engine configuration.
type Config struct {
	DefaultRadiusKm float64
	DefaultPageSize int
	MaxPageSize     int

	Composition Composition

	// TopCategories is how many of the user's strongest categories earn a bonus.
	TopCategories int

	// TrendingBonusTopN listings get an inverse-rank bonus (TopN for #1 down to 1).
	TrendingBonusTopN int

	// TrendingWindow limits counted signals to the trailing window; 0 means unbounded.
	TrendingWindow time.Duration

	DefaultTrendingLimit int
	MaxTrendingLimit     int

	NewThisWeekWindow    time.Duration
	DefaultEventDuration time.Duration

	// UpstreamTimeout bounds the concurrent fetch phase of a request.
	UpstreamTimeout time.Duration

	// Seed feeds the decision helper's random source. Zero uses 42.
	Seed int64
}

// DefaultConfig returns the production defaults.
func DefaultConfig() *Config {
	return &Config{
		DefaultRadiusKm:      15,
		DefaultPageSize:      20,
		MaxPageSize:          100,
		Composition:          CompositionAffinityTrending,
		TopCategories:        3,
		TrendingBonusTopN:    5,
		DefaultTrendingLimit: 10,
		MaxTrendingLimit:     100,
		NewThisWeekWindow:    7 * 24 * time.Hour,
		DefaultEventDuration: 3 * time.Hour,
		UpstreamTimeout:      5 * time.Second,
		Seed:                 42,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	var errs []error
	if c.DefaultRadiusKm <= 0 {
		errs = append(errs, fmt.Errorf("default radius must be positive, got %v", c.DefaultRadiusKm))
	}
	if c.DefaultPageSize < 1 || c.MaxPageSize < c.DefaultPageSize {
		errs = append(errs, fmt.Errorf("page sizes must satisfy 1 <= default (%d) <= max (%d)", c.DefaultPageSize, c.MaxPageSize))
	}
	switch c.Composition {
	case CompositionAffinityTrending, CompositionAffinity, CompositionTrending:
	default:
		errs = append(errs, fmt.Errorf("unknown composition %q", c.Composition))
	}
	if c.TopCategories < 1 {
		errs = append(errs, errors.New("top categories must be at least 1"))
	}
	if c.TrendingBonusTopN < 0 {
		errs = append(errs, errors.New("trending bonus top-N must not be negative"))
	}
	if c.TrendingWindow < 0 {
		errs = append(errs, errors.New("trending window must not be negative"))
	}
	if c.DefaultTrendingLimit < 1 || c.MaxTrendingLimit < c.DefaultTrendingLimit {
		errs = append(errs, fmt.Errorf("trending limits must satisfy 1 <= default (%d) <= max (%d)", c.DefaultTrendingLimit, c.MaxTrendingLimit))
	}
	if c.UpstreamTimeout <= 0 {
		errs = append(errs, errors.New("upstream timeout must be positive"))
	}
	return errors.Join(errs...)
}
