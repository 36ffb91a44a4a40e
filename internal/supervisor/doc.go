// Swipefeed - Local Discovery Feed Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipefeed

/*
Package supervisor runs the server's long-lived services under a suture v4 tree.

	"swipefeed"
	├── "trending-refresh"
	│   └── TrendingRefreshService (if trending.snapshot_enabled)
	└── "http"
	    └── HTTPServerService

The layers restart independently: a refresh loop that keeps failing backs off
without taking the HTTP server down, and the engine falls back to live signal
counts while the snapshot is stale.

Supervisor events are logged through sutureslog with a slog.Logger backed by
the zerolog global logger (logging.NewSlogLogger).

	tree := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{})
	tree.AddRefreshService(services.NewTrendingRefreshService(snapshot, time.Minute, logger))
	tree.AddHTTPService(services.NewHTTPServerService(server, 10*time.Second, logger))
	errCh := tree.ServeBackground(ctx)
*/
package supervisor
