// Swipefeed - Local Discovery Feed Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipefeed

package store

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/goccy/go-json"

	"github.com/tomtom215/swipefeed/internal/config"
	"github.com/tomtom215/swipefeed/internal/feed"
	"github.com/tomtom215/swipefeed/internal/logging"
	"github.com/tomtom215/swipefeed/internal/metrics"
)

const listingsSchema = `
CREATE TABLE IF NOT EXISTS listings (
	id           VARCHAR PRIMARY KEY,
	title        VARCHAR NOT NULL,
	description  VARCHAR NOT NULL DEFAULT '',
	category     VARCHAR NOT NULL,
	price_tier   INTEGER,
	lat          DOUBLE,
	lon          DOUBLE,
	city         VARCHAR NOT NULL,
	created_at   TIMESTAMP NOT NULL,
	starts_at    TIMESTAMP,
	ends_at      TIMESTAMP,
	tags         VARCHAR NOT NULL DEFAULT '[]',
	is_featured  BOOLEAN NOT NULL DEFAULT false,
	is_published BOOLEAN NOT NULL DEFAULT false
)`

const listingColumns = `id, title, description, category, price_tier, lat, lon, city,
	created_at, starts_at, ends_at, tags, is_featured, is_published`

// Catalog is the DuckDB listing catalog.
type Catalog struct {
	conn *sql.DB
}

// OpenCatalog opens (or creates) the catalog database and its schema.
func OpenCatalog(ctx context.Context, cfg *config.CatalogConfig) (*Catalog, error) {
	numThreads := cfg.Threads
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
	}

	if cfg.Path != ":memory:" {
		if dir := filepath.Dir(cfg.Path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create catalog directory %s: %w", dir, err)
			}
		}
	}

	// Extensions are never needed; disabling autoload avoids network access at startup.
	connStr := fmt.Sprintf("%s?threads=%d&max_memory=%s&autoinstall_known_extensions=false&autoload_known_extensions=false",
		cfg.Path, numThreads, cfg.MaxMemory)

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}

	c := &Catalog{conn: conn}
	if err := c.initSchema(ctx); err != nil {
		closeQuietly(conn)
		return nil, err
	}

	logging.Info().Str("path", cfg.Path).Int("threads", numThreads).Msg("Catalog opened")
	return c, nil
}

func (c *Catalog) initSchema(ctx context.Context) error {
	if _, err := c.conn.ExecContext(ctx, listingsSchema); err != nil {
		return fmt.Errorf("failed to create listings table: %w", err)
	}
	return nil
}

// Ping checks the catalog connection.
func (c *Catalog) Ping(ctx context.Context) error {
	return c.conn.PingContext(ctx)
}

// Close closes the catalog.
func (c *Catalog) Close() error {
	return c.conn.Close()
}

// UpsertListing inserts or replaces a listing by id. Output annotations
// (distance, rank score) are not stored.
//
//nolint:gocritic // hugeParam: l passed by value for immutability
func (c *Catalog) UpsertListing(ctx context.Context, l feed.Listing) (err error) {
	start := time.Now()
	defer func() { metrics.RecordStoreOperation("catalog", "upsert", time.Since(start), err) }()

	tags, err := json.Marshal(nonNilTags(l.Tags))
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}

	_, err = c.conn.ExecContext(ctx, `INSERT OR REPLACE INTO listings (`+listingColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.Title, l.Description, l.Category,
		nullInt(l.PriceTier), nullFloat(l.Lat), nullFloat(l.Lon), l.City,
		l.CreatedAt.UTC(), nullTime(l.StartsAt), nullTime(l.EndsAt),
		string(tags), l.IsFeatured, l.IsPublished,
	)
	if err != nil {
		return fmt.Errorf("upsert listing %s: %w", l.ID, err)
	}
	return nil
}

// Import reads a JSON array of listings and upserts each. It returns the
// number of listings written.
func (c *Catalog) Import(ctx context.Context, r io.Reader) (int, error) {
	var listings []feed.Listing
	if err := json.NewDecoder(r).Decode(&listings); err != nil {
		return 0, fmt.Errorf("decode listings: %w", err)
	}
	for i := range listings {
		if err := c.UpsertListing(ctx, listings[i]); err != nil {
			return i, err
		}
	}
	return len(listings), nil
}

// FetchPublishedListings returns published listings whose city is in
// cityScope, whose raw category is one of categories and whose price tier
// is one of priceTiers. City and category match case-insensitively. An empty
// slice leaves that dimension unconstrained.
func (c *Catalog) FetchPublishedListings(ctx context.Context, cityScope, categories []string, priceTiers []int) (out []feed.Listing, err error) {
	start := time.Now()
	defer func() { metrics.RecordStoreOperation("catalog", "fetch_published", time.Since(start), err) }()

	query, args := buildListingQuery(cityScope, categories, priceTiers)
	rows, err := c.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query listings: %w", err)
	}
	defer closeQuietly(rows)

	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate listings: %w", err)
	}
	return out, nil
}

func buildListingQuery(cityScope, categories []string, priceTiers []int) (string, []interface{}) {
	var sb strings.Builder
	var args []interface{}

	sb.WriteString("SELECT " + listingColumns + " FROM listings WHERE is_published")

	if len(cityScope) > 0 {
		sb.WriteString(" AND lower(city) IN (" + placeholders(len(cityScope)) + ")")
		for _, city := range cityScope {
			args = append(args, strings.ToLower(city))
		}
	}
	if len(categories) > 0 {
		sb.WriteString(" AND lower(category) IN (" + placeholders(len(categories)) + ")")
		for _, cat := range categories {
			args = append(args, strings.ToLower(cat))
		}
	}
	if len(priceTiers) > 0 {
		sb.WriteString(" AND price_tier IN (" + placeholders(len(priceTiers)) + ")")
		for _, tier := range priceTiers {
			args = append(args, tier)
		}
	}
	sb.WriteString(" ORDER BY id")
	return sb.String(), args
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanListing(rows rowScanner) (feed.Listing, error) {
	var (
		l         feed.Listing
		priceTier sql.NullInt64
		lat, lon  sql.NullFloat64
		startsAt  sql.NullTime
		endsAt    sql.NullTime
		tagsJSON  string
	)
	err := rows.Scan(&l.ID, &l.Title, &l.Description, &l.Category, &priceTier, &lat, &lon, &l.City,
		&l.CreatedAt, &startsAt, &endsAt, &tagsJSON, &l.IsFeatured, &l.IsPublished)
	if err != nil {
		return l, fmt.Errorf("scan listing: %w", err)
	}

	if priceTier.Valid {
		tier := int(priceTier.Int64)
		l.PriceTier = &tier
	}
	if lat.Valid && lon.Valid {
		l.Lat, l.Lon = &lat.Float64, &lon.Float64
	}
	if startsAt.Valid {
		t := startsAt.Time.UTC()
		l.StartsAt = &t
	}
	if endsAt.Valid {
		t := endsAt.Time.UTC()
		l.EndsAt = &t
	}
	l.CreatedAt = l.CreatedAt.UTC()
	if err := json.Unmarshal([]byte(tagsJSON), &l.Tags); err != nil {
		return l, fmt.Errorf("decode tags for %s: %w", l.ID, err)
	}
	if len(l.Tags) == 0 {
		l.Tags = nil
	}
	return l, nil
}

func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullTime(v *time.Time) sql.NullTime {
	if v == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: v.UTC(), Valid: true}
}

// closeQuietly closes a resource in cleanup paths where the error is not actionable.
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}
