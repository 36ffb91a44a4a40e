// Swipefeed - Local Discovery Feed Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipefeed

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/swipefeed/internal/feed"
	"github.com/tomtom215/swipefeed/internal/logging"
	"github.com/tomtom215/swipefeed/internal/metrics"
	"github.com/tomtom215/swipefeed/internal/validation"
)

// Outcome labels for metrics.RecordFeedRequest.
const (
	outcomeOK           = "ok"
	outcomeInvalid      = "invalid"
	outcomeUpstream     = "upstream_unavailable"
	outcomeNoCandidates = "no_candidates"
	outcomeCanceled     = "canceled"
	outcomeError        = "error"
)

// statusClientClosedRequest is the non-standard status recorded when the
// client hangs up before the engine answers.
const statusClientClosedRequest = 499

// classify maps an engine error to its metrics outcome.
func classify(err error) string {
	switch {
	case err == nil:
		return outcomeOK
	case errors.Is(err, feed.ErrInvalidRequest):
		return outcomeInvalid
	case errors.Is(err, context.Canceled) && !errors.Is(err, feed.ErrUpstreamUnavailable):
		return outcomeCanceled
	case errors.Is(err, feed.ErrUpstreamUnavailable):
		return outcomeUpstream
	case errors.Is(err, feed.ErrNoCandidates):
		return outcomeNoCandidates
	default:
		return outcomeError
	}
}

// respondEngineError writes the response for an error returned by the feed
// engine. Upstream failures are counted per source.
func respondEngineError(rw *ResponseWriter, r *http.Request, err error) {
	switch classify(err) {
	case outcomeInvalid:
		rw.BadRequest(err.Error())
	case outcomeNoCandidates:
		rw.NotFound(ErrCodeNoCandidates, "No listings match the requested filters")
	case outcomeUpstream:
		source := "unknown"
		var ue *feed.UpstreamError
		if errors.As(err, &ue) {
			source = ue.Source
		}
		metrics.UpstreamErrors.WithLabelValues(source).Inc()
		logging.Ctx(r.Context()).Warn().Err(err).Str("source", source).Msg("Upstream unavailable")
		rw.ServiceUnavailable(ErrCodeUpstreamUnavailable, "A backing store is unavailable, please retry")
	case outcomeCanceled:
		logging.Ctx(r.Context()).Debug().Err(err).Msg("Client canceled request")
		rw.Error(statusClientClosedRequest, ErrCodeRequestCanceled, "Request canceled")
	default:
		logging.Ctx(r.Context()).Error().Err(err).Msg("Unhandled engine error")
		rw.InternalError("Internal server error")
	}
}

// respondValidationError writes a 400 with per-field details.
func respondValidationError(rw *ResponseWriter, verr *validation.RequestValidationError) {
	apiErr := verr.ToAPIError()
	rw.ValidationError(apiErr.Message, apiErr.Details)
}
