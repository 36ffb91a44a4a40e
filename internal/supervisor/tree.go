// Swipefeed - Local Discovery Feed Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipefeed

package supervisor

import (
	"context"
	"log/slog"
	"time"

	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"
)

// TreeConfig tunes restart behaviour for every layer. Zero fields take the
// values from DefaultTreeConfig.
type TreeConfig struct {
	FailureThreshold float64       // failures tolerated before backing off
	FailureDecay     float64       // seconds for the failure count to halve
	FailureBackoff   time.Duration // pause once the threshold is crossed
	ShutdownTimeout  time.Duration // per-service stop deadline
}

// DefaultTreeConfig returns suture's own defaults.
func DefaultTreeConfig() TreeConfig {
	return TreeConfig{
		FailureThreshold: 5,
		FailureDecay:     30,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	}
}

func (c TreeConfig) withDefaults() TreeConfig {
	d := DefaultTreeConfig()
	if c.FailureThreshold <= 0 {
		c.FailureThreshold = d.FailureThreshold
	}
	if c.FailureDecay <= 0 {
		c.FailureDecay = d.FailureDecay
	}
	if c.FailureBackoff <= 0 {
		c.FailureBackoff = d.FailureBackoff
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = d.ShutdownTimeout
	}
	return c
}

func (c TreeConfig) spec() suture.Spec {
	return suture.Spec{
		FailureThreshold: c.FailureThreshold,
		FailureDecay:     c.FailureDecay,
		FailureBackoff:   c.FailureBackoff,
		Timeout:          c.ShutdownTimeout,
	}
}

// SupervisorTree separates the trending refresh loop from the HTTP server so
// a refresh that keeps failing backs off on its own while feeds keep serving.
type SupervisorTree struct {
	root      *suture.Supervisor
	refresh   *suture.Supervisor
	httpLayer *suture.Supervisor
	config    TreeConfig
}

// NewSupervisorTree builds the tree. Restart events from every layer are
// logged through logger.
func NewSupervisorTree(logger *slog.Logger, cfg TreeConfig) *SupervisorTree {
	cfg = cfg.withDefaults()

	rootSpec := cfg.spec()
	// MustHook has a pointer receiver. Child layers inherit the hook on Add.
	rootSpec.EventHook = (&sutureslog.Handler{Logger: logger}).MustHook()

	t := &SupervisorTree{
		root:      suture.New("swipefeed", rootSpec),
		refresh:   suture.New("trending-refresh", cfg.spec()),
		httpLayer: suture.New("http", cfg.spec()),
		config:    cfg,
	}
	t.root.Add(t.refresh)
	t.root.Add(t.httpLayer)
	return t
}

// AddRefreshService supervises a trending snapshot refresher.
func (t *SupervisorTree) AddRefreshService(svc suture.Service) suture.ServiceToken {
	return t.refresh.Add(svc)
}

// AddHTTPService supervises the API listener.
func (t *SupervisorTree) AddHTTPService(svc suture.Service) suture.ServiceToken {
	return t.httpLayer.Add(svc)
}

// ServeBackground starts the tree. The channel yields the tree's exit error
// and is closed once it has stopped.
func (t *SupervisorTree) ServeBackground(ctx context.Context) <-chan error {
	done := t.root.ServeBackground(ctx)
	out := make(chan error, 1)
	go func() {
		out <- <-done
		close(out)
	}()
	return out
}

// UnstoppedServiceReport lists services that missed the shutdown timeout.
func (t *SupervisorTree) UnstoppedServiceReport() ([]suture.UnstoppedService, error) {
	return t.root.UnstoppedServiceReport()
}
