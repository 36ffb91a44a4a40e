// Swipefeed - Local Discovery Feed Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipefeed

/*
Command server runs the Swipefeed ranking API.

# Startup

The server initializes components in this order:

 1. Configuration: defaults, optional config.yaml, environment (Koanf v2)
 2. Logging: zerolog global logger from the logging section
 3. Catalog: DuckDB listing store, optionally seeded from catalog.import_file
 4. Swipe log and signals: BadgerDB (on disk, or in memory for development)
 5. Circuit breakers around all three stores (sony/gobreaker)
 6. Trending snapshot (optional): TTL cache refreshed by a supervised service
 7. Feed engine with category and metro tables extended from config
 8. HTTP API on a chi router
 9. Supervisor tree (suture v4) running the HTTP server and refresh loop

# Configuration

Common environment variables:

	HTTP_PORT=8080
	CATALOG_PATH=/data/catalog.duckdb
	CATALOG_IMPORT_FILE=/data/listings.json
	STORE_PATH=/data/swipes
	STORE_IN_MEMORY=false
	FEED_COMPOSITION=affinity_trending   # affinity_trending, affinity, trending
	FEED_TRENDING_WINDOW=720h            # 0 counts all signals
	TRENDING_SNAPSHOT_ENABLED=true
	TRENDING_REFRESH_INTERVAL=1m
	LOG_LEVEL=info
	LOG_FORMAT=json

CONFIG_PATH points at a YAML file; extra metros and category synonyms are
easiest to set there:

	feed:
	  extra_metros:
	    bay area: ["San Francisco", "Oakland", "Berkeley"]
	  extra_category_synonyms:
	    food-drink: ["Brunch"]

# Signal Handling

SIGINT and SIGTERM cancel the supervisor tree. The HTTP server drains for
server.shutdown_timeout, then the stores are closed.
*/
package main
