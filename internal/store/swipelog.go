// Swipefeed - Local Discovery Feed Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipefeed

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/swipefeed/internal/feed"
	"github.com/tomtom215/swipefeed/internal/metrics"
)

// Key prefixes for BadgerDB storage
const (
	swipeKeyPrefix = "swipe:"
	vibeKeyPrefix  = "vibe:"
)

// SwipeLog implements feed.SwipeLog on BadgerDB. Entries are only ever
// appended; nothing in this type updates or deletes a key.
type SwipeLog struct {
	db *badger.DB
}

// NewSwipeLog creates a swipe log over db.
func NewSwipeLog(db *badger.DB) *SwipeLog {
	return &SwipeLog{db: db}
}

func appendKey(prefix, userID string, ts time.Time) []byte {
	return []byte(fmt.Sprintf("%s%s:%020d:%s", prefix, keyPart(userID), ts.UnixNano(), uuid.NewString()))
}

// AppendSwipe appends a swipe record.
//
//nolint:gocritic // hugeParam: rec passed by value to match feed.SwipeLog
func (s *SwipeLog) AppendSwipe(ctx context.Context, rec feed.SwipeRecord) (err error) {
	start := time.Now()
	defer func() { metrics.RecordStoreOperation("swipes", "append_swipe", time.Since(start), err) }()

	if err := ctx.Err(); err != nil {
		return err
	}
	return s.put(appendKey(swipeKeyPrefix, rec.UserID, rec.Timestamp), rec)
}

// AppendVibe appends a vibe selection.
func (s *SwipeLog) AppendVibe(ctx context.Context, sel feed.VibeSelection) (err error) {
	start := time.Now()
	defer func() { metrics.RecordStoreOperation("swipes", "append_vibe", time.Since(start), err) }()

	if err := ctx.Err(); err != nil {
		return err
	}
	return s.put(appendKey(vibeKeyPrefix, sel.UserID, sel.Timestamp), sel)
}

func (s *SwipeLog) put(key []byte, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
}

// ListSwipes returns the user's swipes in append order.
func (s *SwipeLog) ListSwipes(ctx context.Context, userID string) (out []feed.SwipeRecord, err error) {
	start := time.Now()
	defer func() { metrics.RecordStoreOperation("swipes", "list_swipes", time.Since(start), err) }()

	err = scanPrefix(ctx, s.db, []byte(swipeKeyPrefix+keyPart(userID)+":"), func(val []byte) error {
		var rec feed.SwipeRecord
		if err := json.Unmarshal(val, &rec); err != nil {
			return fmt.Errorf("decode swipe: %w", err)
		}
		out = append(out, rec)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list swipes: %w", err)
	}
	return out, nil
}

// ListVibes returns the user's vibe selections in append order.
func (s *SwipeLog) ListVibes(ctx context.Context, userID string) (out []feed.VibeSelection, err error) {
	start := time.Now()
	defer func() { metrics.RecordStoreOperation("swipes", "list_vibes", time.Since(start), err) }()

	err = scanPrefix(ctx, s.db, []byte(vibeKeyPrefix+keyPart(userID)+":"), func(val []byte) error {
		var sel feed.VibeSelection
		if err := json.Unmarshal(val, &sel); err != nil {
			return fmt.Errorf("decode vibe: %w", err)
		}
		out = append(out, sel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list vibes: %w", err)
	}
	return out, nil
}

// scanPrefix calls fn with every value under prefix, checking ctx between
// items.
func scanPrefix(ctx context.Context, db *badger.DB, prefix []byte, fn func(val []byte) error) error {
	return db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := it.Item().Value(fn); err != nil {
				return err
			}
		}
		return nil
	})
}
