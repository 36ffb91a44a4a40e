// Swipefeed - Local Discovery Feed Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipefeed

// Package metrics holds the Prometheus instrumentation for feed ranking,
// the swipe and signal stores, upstream circuit breakers and the HTTP API.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Feed Metrics
	FeedRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_requests_total",
			Help: "Total number of feed ranking requests",
		},
		[]string{"operation", "outcome"}, // outcome: "success", "upstream_error", "canceled", "error"
	)

	FeedRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "feed_request_duration_seconds",
			Help:    "Feed ranking duration in seconds, including upstream fetches",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"operation"},
	)

	FeedCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "feed_candidates",
			Help:    "Candidates remaining after filtering and exclusion, before pagination",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8), // 1 .. 16384
		},
	)

	FeedPageItems = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "feed_page_items",
			Help:    "Items returned per feed page",
			Buckets: []float64{0, 1, 5, 10, 20, 50, 100},
		},
	)

	// Interaction Metrics
	SwipesRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swipes_recorded_total",
			Help: "Total number of swipes appended to the swipe log",
		},
		[]string{"direction"},
	)

	VibesRecorded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vibe_selections_recorded_total",
			Help: "Total number of spin-wheel vibe selections recorded",
		},
	)

	SignalsRecorded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "trending_signals_recorded_total",
			Help: "Total number of positive trending signals (upvotes) recorded",
		},
	)

	// Store Metrics
	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_operation_duration_seconds",
			Help:    "Duration of catalog and swipe store operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"store", "operation"},
	)

	StoreOperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_operation_errors_total",
			Help: "Total number of failed catalog and swipe store operations",
		},
		[]string{"store", "operation"},
	)

	UpstreamErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_upstream_errors_total",
			Help: "Upstream failures that aborted a feed request",
		},
		[]string{"source"}, // "catalog", "swipe_history", "trending_signals"
	)

	// Trending Snapshot Metrics
	TrendingSnapshotRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trending_snapshot_refreshes_total",
			Help: "Total number of trending snapshot refresh attempts",
		},
		[]string{"result"},
	)

	TrendingSnapshotReads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trending_snapshot_reads_total",
			Help: "Trending count reads served from the snapshot or from live signals",
		},
		[]string{"source"}, // "snapshot", "live"
	)

	TrendingSnapshotListings = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "trending_snapshot_listings",
			Help: "Listings with at least one signal in the current trending snapshot",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)
)

// RecordFeedRequest records one ranking request and its outcome.
func RecordFeedRequest(operation, outcome string, duration time.Duration) {
	FeedRequestsTotal.WithLabelValues(operation, outcome).Inc()
	FeedRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordFeedPage records the candidate pool size and the served page size.
func RecordFeedPage(total, served int) {
	FeedCandidates.Observe(float64(total))
	FeedPageItems.Observe(float64(served))
}

// RecordStoreOperation records a store call and counts it as failed when err != nil.
func RecordStoreOperation(store, operation string, duration time.Duration, err error) {
	StoreOperationDuration.WithLabelValues(store, operation).Observe(duration.Seconds())
	if err != nil {
		StoreOperationErrors.WithLabelValues(store, operation).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordSnapshotRefresh records a trending snapshot refresh attempt.
func RecordSnapshotRefresh(listings int, err error) {
	if err != nil {
		TrendingSnapshotRefreshes.WithLabelValues("error").Inc()
		return
	}
	TrendingSnapshotRefreshes.WithLabelValues("success").Inc()
	TrendingSnapshotListings.Set(float64(listings))
}
