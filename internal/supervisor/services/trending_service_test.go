// Swipefeed - Local Discovery Feed Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipefeed

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"
)

type mockRefresher struct {
	calls       atomic.Int32
	err         error
	hadDeadline atomic.Bool
}

func (m *mockRefresher) Refresh(ctx context.Context) (int, error) {
	m.calls.Add(1)
	if _, ok := ctx.Deadline(); ok {
		m.hadDeadline.Store(true)
	}
	if m.err != nil {
		return 0, m.err
	}
	return 3, nil
}

func TestTrendingRefreshService_Interface(t *testing.T) {
	var _ suture.Service = (*TrendingRefreshService)(nil)
}

func TestTrendingRefreshService_DefaultInterval(t *testing.T) {
	t.Parallel()

	svc := NewTrendingRefreshService(&mockRefresher{}, 0, zerolog.Nop())
	if svc.interval != time.Minute {
		t.Errorf("expected default interval 1m, got %v", svc.interval)
	}
	if svc.String() != "trending-refresh" {
		t.Errorf("unexpected name %q", svc.String())
	}
}

func TestTrendingRefreshService_Serve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
	}{
		{"refreshes on start and every tick", nil},
		{"keeps running when refresh fails", errors.New("signal store down")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			refresher := &mockRefresher{err: tt.err}
			svc := NewTrendingRefreshService(refresher, 10*time.Millisecond, zerolog.Nop())

			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()

			err := svc.Serve(ctx)
			if !errors.Is(err, context.DeadlineExceeded) {
				t.Errorf("expected context.DeadlineExceeded, got %v", err)
			}
			if n := refresher.calls.Load(); n < 3 {
				t.Errorf("expected at least 3 refreshes, got %d", n)
			}
			if !refresher.hadDeadline.Load() {
				t.Error("expected each refresh to carry a deadline")
			}
		})
	}
}
