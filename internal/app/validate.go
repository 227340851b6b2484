package app

import (
	"math"
	"regexp"
	"strings"
	"time"

	"venue_booking/internal/domain"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func validEmail(s string) bool { return emailRe.MatchString(s) }

// parseDate accepts RFC3339 timestamps and plain YYYY-MM-DD dates.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Time{}, domain.Invalid("Invalid date format")
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// validateCoords rejects points outside the WGS84 range. NaN compares false
// against every bound, so it is checked explicitly.
func validateCoords(lat, lon float64) error {
	if !finite(lat) || lat < -90 || lat > 90 {
		return domain.Invalid("latitude must be between -90 and 90")
	}
	if !finite(lon) || lon < -180 || lon > 180 {
		return domain.Invalid("longitude must be between -180 and 180")
	}
	return nil
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

func optional(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
