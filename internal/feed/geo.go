// Swipefeed - Local Discovery Feed Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipefeed

package feed

import "math"

// earthRadiusKm is the mean Earth radius used by the haversine formula.
const earthRadiusKm = 6371.0

// DistanceKm returns the great-circle distance between two points in
// kilometers, rounded to one decimal.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return math.Round(earthRadiusKm*c*10) / 10
}

// Annotate returns copies of listings with DistanceKm set from the user's
// position. Listings without coordinates get a nil distance.
func Annotate(listings []Listing, userLat, userLon float64) []Listing {
	out := make([]Listing, len(listings))
	for i := range listings {
		out[i] = listings[i]
		out[i].DistanceKm = nil
		if listings[i].HasCoordinates() {
			d := DistanceKm(userLat, userLon, *listings[i].Lat, *listings[i].Lon)
			out[i].DistanceKm = &d
		}
	}
	return out
}

// FilterByRadius keeps listings whose distance is within radiusKm (inclusive).
// Listings with a nil distance are always kept.
func FilterByRadius(listings []Listing, radiusKm float64) []Listing {
	out := listings[:0:0]
	for i := range listings {
		if d := listings[i].DistanceKm; d != nil && *d > radiusKm {
			continue
		}
		out = append(out, listings[i])
	}
	return out
}
