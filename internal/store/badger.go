// Swipefeed - Local Discovery Feed Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipefeed

package store

import (
	"fmt"
	"net/url"
	"os"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/swipefeed/internal/config"
	"github.com/tomtom215/swipefeed/internal/logging"
)

// OpenBadger opens the BadgerDB instance shared by the swipe log and the
// signal store. InMemory ignores Path.
func OpenBadger(cfg *config.StoreConfig) (*badger.DB, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("create store directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
		opts.SyncWrites = cfg.SyncWrites
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	logging.Info().
		Str("path", cfg.Path).
		Bool("in_memory", cfg.InMemory).
		Bool("sync_writes", cfg.SyncWrites).
		Msg("Swipe store opened")
	return db, nil
}

// keyPart escapes an id for use between ':' separators.
func keyPart(id string) string {
	return url.QueryEscape(id)
}
