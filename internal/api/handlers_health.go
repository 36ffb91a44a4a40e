// Swipefeed - Local Discovery Feed Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipefeed

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/swipefeed/internal/logging"
)

// HealthLive handles liveness probe requests (Kubernetes-style).
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles readiness probe requests. The service is ready when
// every dependency check passes; open breakers are reported but do not fail
// readiness, since they recover on their own.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.readyTimeout)
	defer cancel()

	ready := true
	checks := make(map[string]string, len(h.checks))
	for _, c := range h.checks {
		if err := c.Check(ctx); err != nil {
			ready = false
			checks[c.Name] = err.Error()
			logging.Ctx(r.Context()).Warn().Err(err).Str("check", c.Name).Msg("Readiness check failed")
			continue
		}
		checks[c.Name] = "ok"
	}

	breakers := make(map[string]string, len(h.breakers))
	for _, b := range h.breakers {
		breakers[b.Name()] = b.State()
	}

	statusCode := http.StatusOK
	if !ready {
		statusCode = http.StatusServiceUnavailable
	}
	NewResponseWriter(w, r).Status(statusCode, map[string]interface{}{
		"ready":    ready,
		"checks":   checks,
		"breakers": breakers,
		"uptime":   time.Since(h.startTime).Seconds(),
	})
}
