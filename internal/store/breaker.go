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

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/swipefeed/internal/config"
	"github.com/tomtom215/swipefeed/internal/feed"
	"github.com/tomtom215/swipefeed/internal/logging"
	"github.com/tomtom215/swipefeed/internal/metrics"
)

// Breaker guards one upstream store with a circuit breaker. While open,
// calls fail immediately with gobreaker.ErrOpenState, which the engine
// reports as that source being unavailable.
type Breaker struct {
	cb   *gobreaker.CircuitBreaker[interface{}]
	name string
}

// NewBreaker creates a circuit breaker named after the store it guards.
// It opens after FailureThreshold consecutive failures. A cancelled context
// is the caller giving up and never counts as a failure.
func NewBreaker(name string, cfg *config.BreakerConfig) *Breaker {
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	threshold := cfg.FailureThreshold
	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			trip := counts.ConsecutiveFailures >= threshold
			if trip {
				logging.Warn().
					Str("breaker", name).
					Uint32("consecutive_failures", counts.ConsecutiveFailures).
					Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return trip
		},

		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})

	return &Breaker{cb: cb, name: name}
}

// Name returns the guarded store's name.
func (b *Breaker) Name() string {
	return b.name
}

// State returns the breaker state as closed, half-open or open.
func (b *Breaker) State() string {
	return stateToString(b.cb.State())
}

func (b *Breaker) execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := b.cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
			logging.Warn().Str("breaker", b.name).Err(err).Msg("[CIRCUIT BREAKER] Request rejected")
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
		}
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	return result, nil
}

// castResult type-asserts a breaker result.
func castResult[T any](result interface{}, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	if result == nil {
		return zero, nil
	}
	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// BreakerCatalog wraps a feed.Catalog with a circuit breaker.
type BreakerCatalog struct {
	next    feed.Catalog
	breaker *Breaker
}

// NewBreakerCatalog guards next with a breaker named "catalog".
func NewBreakerCatalog(next feed.Catalog, cfg *config.BreakerConfig) *BreakerCatalog {
	return &BreakerCatalog{next: next, breaker: NewBreaker(feed.SourceCatalog, cfg)}
}

// FetchPublishedListings calls the wrapped catalog through the breaker.
func (c *BreakerCatalog) FetchPublishedListings(ctx context.Context, cityScope, categories []string, priceTiers []int) ([]feed.Listing, error) {
	return castResult[[]feed.Listing](c.breaker.execute(func() (interface{}, error) {
		return c.next.FetchPublishedListings(ctx, cityScope, categories, priceTiers)
	}))
}

// Breaker returns the guarding breaker.
func (c *BreakerCatalog) Breaker() *Breaker {
	return c.breaker
}

// BreakerSwipeLog wraps a feed.SwipeLog with a circuit breaker.
type BreakerSwipeLog struct {
	next    feed.SwipeLog
	breaker *Breaker
}

// NewBreakerSwipeLog guards next with a breaker named "swipe_history".
func NewBreakerSwipeLog(next feed.SwipeLog, cfg *config.BreakerConfig) *BreakerSwipeLog {
	return &BreakerSwipeLog{next: next, breaker: NewBreaker(feed.SourceSwipeHistory, cfg)}
}

func (s *BreakerSwipeLog) ListSwipes(ctx context.Context, userID string) ([]feed.SwipeRecord, error) {
	return castResult[[]feed.SwipeRecord](s.breaker.execute(func() (interface{}, error) {
		return s.next.ListSwipes(ctx, userID)
	}))
}

func (s *BreakerSwipeLog) ListVibes(ctx context.Context, userID string) ([]feed.VibeSelection, error) {
	return castResult[[]feed.VibeSelection](s.breaker.execute(func() (interface{}, error) {
		return s.next.ListVibes(ctx, userID)
	}))
}

//nolint:gocritic // hugeParam: rec passed by value to match feed.SwipeLog
func (s *BreakerSwipeLog) AppendSwipe(ctx context.Context, rec feed.SwipeRecord) error {
	_, err := s.breaker.execute(func() (interface{}, error) {
		return nil, s.next.AppendSwipe(ctx, rec)
	})
	return err
}

func (s *BreakerSwipeLog) AppendVibe(ctx context.Context, sel feed.VibeSelection) error {
	_, err := s.breaker.execute(func() (interface{}, error) {
		return nil, s.next.AppendVibe(ctx, sel)
	})
	return err
}

// Breaker returns the guarding breaker.
func (s *BreakerSwipeLog) Breaker() *Breaker {
	return s.breaker
}

// BreakerSignals wraps a feed.SignalStore with a circuit breaker.
type BreakerSignals struct {
	next    feed.SignalStore
	breaker *Breaker
}

// NewBreakerSignals guards next with a breaker named "trending_signals".
func NewBreakerSignals(next feed.SignalStore, cfg *config.BreakerConfig) *BreakerSignals {
	return &BreakerSignals{next: next, breaker: NewBreaker(feed.SourceTrendingSignals, cfg)}
}

func (s *BreakerSignals) CountSignals(ctx context.Context, since time.Time) (map[string]int, error) {
	return castResult[map[string]int](s.breaker.execute(func() (interface{}, error) {
		return s.next.CountSignals(ctx, since)
	}))
}

func (s *BreakerSignals) RecordSignal(ctx context.Context, sig feed.Signal) error {
	_, err := s.breaker.execute(func() (interface{}, error) {
		return nil, s.next.RecordSignal(ctx, sig)
	})
	return err
}

// Breaker returns the guarding breaker.
func (s *BreakerSignals) Breaker() *Breaker {
	return s.breaker
}
