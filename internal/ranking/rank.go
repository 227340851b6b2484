package ranking

import (
	"sort"

	"venue_booking/internal/domain"
)

// Rank annotates each venue with its distance from origin and returns them
// nearest first. Venues without coordinates keep their relative order and go
// last. The input slice is not modified.
func Rank(origin domain.Coords, venues []domain.Venue) []domain.RankedVenue {
	out := make([]domain.RankedVenue, 0, len(venues))
	for _, v := range venues {
		rv := domain.RankedVenue{Venue: PublicVenue(v)}
		if c := v.Coords(); c != nil {
			d := Distance(origin, *c)
			rv.DistanceKm = &d
		}
		out = append(out, rv)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].DistanceKm, out[j].DistanceKm
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return *a < *b
		}
	})

	for i := range out {
		if out[i].DistanceKm == nil {
			out[i].Distance = DistanceUnavailable
			continue
		}
		out[i].Distance = FormatDistance(*out[i].DistanceKm)
	}
	return out
}
