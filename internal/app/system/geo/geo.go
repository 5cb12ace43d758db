// Package geo provides great-circle distance helpers.
//
// The authoritative proximity query runs in MongoDB ($nearSphere on the
// 2dsphere index); this package exists to annotate query results with
// their distance and to verify radius behavior in tests.
package geo

import (
	"math"

	"github.com/dalemusser/foodbridge/internal/domain/models"
)

// earthRadiusMeters is the mean Earth radius used by MongoDB for
// spherical distance calculations.
const earthRadiusMeters = 6371008.8

// DistanceMeters returns the haversine great-circle distance between two
// points in meters.
func DistanceMeters(a, b models.GeoPoint) float64 {
	lat1 := a.Lat() * math.Pi / 180
	lat2 := b.Lat() * math.Pi / 180
	dLat := lat2 - lat1
	dLng := (b.Lng() - a.Lng()) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(h))
}

// WithinRadius reports whether b lies within radiusMeters of a.
func WithinRadius(a, b models.GeoPoint, radiusMeters float64) bool {
	return DistanceMeters(a, b) <= radiusMeters
}
