// Swipefeed - Local Discovery Feed Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipefeed

package feed

import (
	"math/rand"
	"testing"
)

func TestWeightedPick_EqualWeightsAreUniform(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(42))
	weights := []float64{1, 1, 1, 1}
	const draws = 10000

	counts := make([]int, len(weights))
	for i := 0; i < draws; i++ {
		counts[WeightedPick(rng, weights)]++
	}
	for i, c := range counts {
		share := float64(c) / draws
		if share < 0.22 || share > 0.28 {
			t.Errorf("candidate %d picked %.3f of the time, want 0.25 ± 0.03", i, share)
		}
	}
}

func TestWeightedPick_Proportional(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(3))
	counts := make([]int, 2)
	for i := 0; i < 10000; i++ {
		counts[WeightedPick(rng, []float64{1, 3})]++
	}
	if share := float64(counts[1]) / 10000; share < 0.72 || share > 0.78 {
		t.Errorf("heavy candidate share = %.3f, want 0.75 ± 0.03", share)
	}
}

func TestWeightedPick_EdgeCases(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(1))

	if got := WeightedPick(rng, nil); got != -1 {
		t.Errorf("WeightedPick(nil) = %d, want -1", got)
	}

	for i := 0; i < 100; i++ {
		if got := WeightedPick(rng, []float64{0, 5, -2}); got != 1 {
			t.Fatalf("only positive weight must win, got %d", got)
		}
	}

	seen := make(map[int]bool)
	for i := 0; i < 200; i++ {
		seen[WeightedPick(rng, []float64{0, 0, -1})] = true
	}
	if len(seen) != 3 {
		t.Errorf("non-positive total should fall back to uniform, saw %v", seen)
	}
}

func TestWeightedPick_Reproducible(t *testing.T) {
	t.Parallel()

	weights := []float64{2, 1, 7, 0.5}
	a := rand.New(rand.NewSource(99))
	b := rand.New(rand.NewSource(99))
	for i := 0; i < 500; i++ {
		if x, y := WeightedPick(a, weights), WeightedPick(b, weights); x != y {
			t.Fatalf("draw %d differs under the same seed: %d vs %d", i, x, y)
		}
	}
}
