// Swipefeed - Local Discovery Feed Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipefeed

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/swipefeed/internal/feed"
	"github.com/tomtom215/swipefeed/internal/metrics"
)

const signalKeyPrefix = "signal:"

// SignalStore implements feed.SignalStore on BadgerDB.
type SignalStore struct {
	db *badger.DB
}

// NewSignalStore creates a signal store over db.
func NewSignalStore(db *badger.DB) *SignalStore {
	return &SignalStore{db: db}
}

// RecordSignal stores an upvote. A user's repeat upvote for the same listing
// keeps the first one.
func (s *SignalStore) RecordSignal(ctx context.Context, sig feed.Signal) (err error) {
	start := time.Now()
	defer func() { metrics.RecordStoreOperation("signals", "record", time.Since(start), err) }()

	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(sig)
	if err != nil {
		return fmt.Errorf("marshal signal: %w", err)
	}

	key := []byte(signalKeyPrefix + keyPart(sig.ListingID) + ":" + keyPart(sig.UserID))
	return s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if err == nil {
			return nil
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("get signal: %w", err)
		}
		return txn.Set(key, data)
	})
}

// CountSignals returns upvote counts per listing recorded at or after since.
// A zero since counts everything.
func (s *SignalStore) CountSignals(ctx context.Context, since time.Time) (counts map[string]int, err error) {
	start := time.Now()
	defer func() { metrics.RecordStoreOperation("signals", "count", time.Since(start), err) }()

	counts = make(map[string]int)
	err = scanPrefix(ctx, s.db, []byte(signalKeyPrefix), func(val []byte) error {
		var sig feed.Signal
		if err := json.Unmarshal(val, &sig); err != nil {
			return fmt.Errorf("decode signal: %w", err)
		}
		if !since.IsZero() && sig.Timestamp.Before(since) {
			return nil
		}
		counts[sig.ListingID]++
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("count signals: %w", err)
	}
	return counts, nil
}
