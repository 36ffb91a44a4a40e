// Swipefeed - Local Discovery Feed Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipefeed

// Package config loads Swipefeed configuration with Koanf v2.
//
// Sources are layered with increasing priority:
//
//  1. Built-in defaults (defaultConfig)
//  2. Optional YAML file (CONFIG_PATH, ./config.yaml, /etc/swipefeed/config.yaml)
//  3. Environment variables, mapped explicitly in envTransformFunc
//
// Metro groupings and category synonyms can only be extended through the
// YAML file; they are versioned deployment data rather than per-host knobs.
//
// Example config.yaml:
//
//	feed:
//	  default_radius_km: 15
//	  composition: affinity_trending
//	  extra_metros:
//	    "Research Triangle": ["Raleigh", "Durham", "Chapel Hill", "Cary"]
//	  extra_category_synonyms:
//	    food-drink: ["Eateries"]
//	catalog:
//	  path: /data/catalog.duckdb
//	store:
//	  path: /data/swipes
package config
