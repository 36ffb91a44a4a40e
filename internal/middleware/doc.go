// Swipefeed - Local Discovery Feed Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipefeed

/*
Package middleware provides HTTP middleware shared by the API router.

Key Components:

  - Request ID: UUID-based request tracking, propagated into the logging context
  - Prometheus Metrics: per-route request counts, latencies, and in-flight gauge

Both are written against http.HandlerFunc and adapted into chi middleware by the
api package:

	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chiMiddleware(middleware.PrometheusMetrics))

Handlers read the request ID with logging.RequestIDFromContext.

Metrics are labeled with the chi route pattern ("/api/v1/listings/{id}/upvotes")
rather than the raw path, so listing IDs never become label values.
*/
package middleware
