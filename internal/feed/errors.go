// Swipefeed - Local Discovery Feed Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipefeed

package feed

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrUpstreamUnavailable matches every UpstreamError.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrInvalidRequest marks caller errors (bad page index, missing user).
	ErrInvalidRequest = errors.New("invalid request")

	// ErrNoCandidates is returned by Decide when nothing is eligible.
	ErrNoCandidates = errors.New("no eligible candidates")
)

// Upstream sources named in UpstreamError.
const (
	SourceCatalog         = "catalog"
	SourceSwipeHistory    = "swipe_history"
	SourceTrendingSignals = "trending_signals"
)

// UpstreamError reports a failed or timed-out collaborator call. The whole
// request fails with it; no partial page is produced.
type UpstreamError struct {
	Source string
	Err    error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Source, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrUpstreamUnavailable) match any source.
func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstreamUnavailable
}

func upstream(source string, err error) error {
	if err == nil {
		return nil
	}
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return err
	}
	return &UpstreamError{Source: source, Err: err}
}

// callerErr returns ctx.Err() in place of err once the caller's own context
// is done. A client that hangs up is not an upstream outage.
func callerErr(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if cerr := ctx.Err(); cerr != nil {
		return cerr
	}
	return err
}

func invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}
