// Swipefeed - Local Discovery Feed Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipefeed

package store

import (
	"context"
	"testing"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/swipefeed/internal/config"
)

// testCatalogSemaphore serializes DuckDB tests; concurrent CGO connections
// from parallel tests can stall under CI resource pressure.
var testCatalogSemaphore = make(chan struct{}, 1)

func setupTestBadger(t *testing.T) *badger.DB {
	t.Helper()

	db, err := OpenBadger(&config.StoreConfig{InMemory: true})
	if err != nil {
		t.Fatalf("OpenBadger() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func setupTestCatalog(t *testing.T) *Catalog {
	t.Helper()

	testCatalogSemaphore <- struct{}{}
	t.Cleanup(func() { <-testCatalogSemaphore })

	c, err := OpenCatalog(context.Background(), &config.CatalogConfig{
		Path:      ":memory:",
		MaxMemory: "256MB",
		Threads:   1,
	})
	if err != nil {
		t.Fatalf("OpenCatalog() error = %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}
