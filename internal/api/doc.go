// Swipefeed - Local Discovery Feed Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipefeed

/*
Package api exposes the feed engine over HTTP.

Routes (all JSON, all under a chi router):

	POST /api/v1/feed                      one ranked feed page
	POST /api/v1/decide                    decision helper pick
	GET  /api/v1/trending?city=&limit=     most upvoted listings in a city scope
	GET  /api/v1/vocabulary                canonical categories and vibes
	POST /api/v1/swipes                    append a swipe
	POST /api/v1/vibes                     append a spin-wheel vibe selection
	POST /api/v1/listings/{id}/upvotes     upvote a listing (idempotent per user)
	GET  /api/v1/health/live               liveness probe
	GET  /api/v1/health/ready              readiness probe (store pings, breaker states)
	GET  /metrics                          Prometheus exposition

Every response uses the APIResponse envelope:

	{"success": true, "data": {...}, "meta": {"request_id": "...", "timestamp": "..."}}
	{"success": false, "error": {"code": "UPSTREAM_UNAVAILABLE", "message": "..."}}

Engine errors map to status codes as follows:

  - feed.ErrInvalidRequest and body validation failures: 400
  - feed.ErrNoCandidates: 404
  - feed.ErrUpstreamUnavailable (failed, timed out, or breaker open): 503
  - anything else: 500

The middleware stack is request ID, real IP, panic recovery, security headers,
CORS, Prometheus metrics, and per-IP rate limiting (go-chi/httprate).
*/
package api
