// Package ranking orders venues by great-circle distance from a query point
// and reshapes them for clients.
package ranking

import (
	"math"

	"venue_booking/internal/domain"
)

// EarthRadiusKm is the mean Earth radius used by Distance.
const EarthRadiusKm = 6371.0

func radians(d float64) float64 { return d * math.Pi / 180 }

// Distance returns the Haversine distance between a and b in kilometres.
// Ranges are not validated.
func Distance(a, b domain.Coords) float64 {
	dLat := radians(b.Lat - a.Lat)
	dLon := radians(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(a.Lat))*math.Cos(radians(b.Lat))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * EarthRadiusKm * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}
