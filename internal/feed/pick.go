// Swipefeed - Local Discovery Feed Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipefeed

package feed

import "math/rand"

// WeightedPick draws an index with probability proportional to its weight.
// Negative weights count as zero. When the total weight is not positive it
// falls back to a uniform draw. It returns -1 for an empty slice.
func WeightedPick(rng *rand.Rand, weights []float64) int {
	if len(weights) == 0 {
		return -1
	}

	total := 0.0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return rng.Intn(len(weights))
	}

	draw := rng.Float64() * total
	running := 0.0
	last := -1
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		running += w
		last = i
		if running > draw {
			return i
		}
	}
	// Float rounding can leave draw == total.
	return last
}
