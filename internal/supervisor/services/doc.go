// Swipefeed - Local Discovery Feed Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipefeed

// Package services adapts the server's long-running components to
// suture.Service: the HTTP server and the trending snapshot refresh loop.
// Each service returns ctx.Err() on shutdown and a wrapped error on failure,
// which suture answers with a restart.
package services
