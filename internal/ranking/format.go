package ranking

import (
	"fmt"
	"math"
)

// DistanceUnavailable labels venues that have no usable coordinates.
const DistanceUnavailable = "Distance Unavailable"

// FormatDistance renders km for display:
//
//	km < 1       -> whole metres   ("350m")
//	1 <= km < 10 -> one decimal km ("4.2KM")
//	km >= 10     -> whole km       ("12KM")
//
// Every branch rounds half away from zero, so 1.0 renders "1.0KM" and 10.0
// renders "10KM". Rounding can carry a value across a branch edge
// (0.9996 -> "1000m", 9.96 -> "10.0KM"); the branch is chosen on the raw value.
func FormatDistance(km float64) string {
	switch {
	case km < 1:
		return fmt.Sprintf("%.0fm", math.Round(km*1000))
	case km < 10:
		return fmt.Sprintf("%.1fKM", math.Round(km*10)/10)
	default:
		return fmt.Sprintf("%.0fKM", math.Round(km))
	}
}
