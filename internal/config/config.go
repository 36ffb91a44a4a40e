// Swipefeed - Local Discovery Feed Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipefeed

package config

import "time"

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Feed     FeedConfig     `koanf:"feed"`
	Trending TrendingConfig `koanf:"trending"`
	Catalog  CatalogConfig  `koanf:"catalog"`
	Store    StoreConfig    `koanf:"store"`
	Breaker  BreakerConfig  `koanf:"breaker"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // development, staging, production
}

// FeedConfig holds ranking engine settings.
type FeedConfig struct {
	DefaultRadiusKm float64 `koanf:"default_radius_km"`
	DefaultPageSize int     `koanf:"default_page_size"`
	MaxPageSize     int     `koanf:"max_page_size"`

	// Composition is one of affinity_trending, affinity, trending.
	Composition       string `koanf:"composition"`
	TopCategories     int    `koanf:"top_categories"`
	TrendingBonusTopN int    `koanf:"trending_bonus_top_n"`

	// TrendingWindow bounds which signals count toward trending (0 = unbounded).
	TrendingWindow       time.Duration `koanf:"trending_window"`
	NewThisWeekWindow    time.Duration `koanf:"new_this_week_window"`
	DefaultEventDuration time.Duration `koanf:"default_event_duration"`
	UpstreamTimeout      time.Duration `koanf:"upstream_timeout"`
	Seed                 int64         `koanf:"seed"`

	ExtraMetros           map[string][]string `koanf:"extra_metros"`
	ExtraCategorySynonyms map[string][]string `koanf:"extra_category_synonyms"`
}

// TrendingConfig controls the out-of-band trending snapshot.
type TrendingConfig struct {
	SnapshotEnabled bool          `koanf:"snapshot_enabled"`
	RefreshInterval time.Duration `koanf:"refresh_interval"`
}

// CatalogConfig holds DuckDB catalog settings.
type CatalogConfig struct {
	Path      string `koanf:"path"` // ":memory:" for an ephemeral catalog
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"` // 0 = DuckDB default

	// ImportFile is a JSON array of listings upserted at startup.
	ImportFile string `koanf:"import_file"`
}

// StoreConfig holds BadgerDB settings for the swipe log and signals.
type StoreConfig struct {
	Path       string `koanf:"path"`
	InMemory   bool   `koanf:"in_memory"`
	SyncWrites bool   `koanf:"sync_writes"`
}

// BreakerConfig holds circuit breaker settings for upstream collaborators.
type BreakerConfig struct {
	MaxRequests      uint32        `koanf:"max_requests"`
	Interval         time.Duration `koanf:"interval"`
	Timeout          time.Duration `koanf:"timeout"`
	FailureThreshold uint32        `koanf:"failure_threshold"`
}

// SecurityConfig holds HTTP edge protection settings.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
