// Swipefeed - Local Discovery Feed Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipefeed

package feed

// Paginate returns the window [pageIndex*pageSize, pageIndex*pageSize+pageSize)
// of ordered along with len(ordered). Out-of-range pages yield an empty,
// non-nil slice.
func Paginate[T any](ordered []T, pageIndex, pageSize int) ([]T, int) {
	total := len(ordered)
	if pageIndex < 0 || pageSize <= 0 {
		return []T{}, total
	}
	start := pageIndex * pageSize
	if start >= total || start/pageSize != pageIndex {
		return []T{}, total
	}
	end := start + pageSize
	if end > total || end < start {
		end = total
	}
	page := make([]T, end-start)
	copy(page, ordered[start:end])
	return page, total
}
