package domain

import "time"

type VenueStatus int

const (
	VenuePending  VenueStatus = 1
	VenueApproved VenueStatus = 2
	VenueRejected VenueStatus = 3
)

func (s VenueStatus) Valid() bool {
	return s == VenuePending || s == VenueApproved || s == VenueRejected
}

type Coords struct{ Lat, Lon float64 }

type Venue struct {
	ID        int64         `json:"id"`
	OwnerID   int64         `json:"owner_id"`
	Name      string        `json:"name"`
	Address   *string       `json:"address"`
	About     *string       `json:"about"`
	Phone     *string       `json:"phone"`
	Capacity  *int          `json:"capacity"`
	Lat       *float64      `json:"latitude"`
	Lon       *float64      `json:"longitude"`
	Picture   *string       `json:"picture"` // stored path until rewritten for output
	Status    VenueStatus   `json:"status"`
	Owner     *OwnerSummary `json:"owner,omitempty"`
	Menu      []MenuItem    `json:"venue_food_menu"`
	CreatedAt time.Time     `json:"created_at"`
}

// Coords returns nil unless both latitude and longitude are set.
func (v Venue) Coords() *Coords {
	if v.Lat == nil || v.Lon == nil {
		return nil
	}
	return &Coords{Lat: *v.Lat, Lon: *v.Lon}
}

// OwnerSummary is the manager shown on public venue pages. It carries no
// email; contact goes through the venue phone.
type OwnerSummary struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Phone      *string `json:"phone"`
	ProfilePic *string `json:"profile_pic"`
}

type MenuItem struct {
	ID      int64   `json:"id"`
	VenueID int64   `json:"venue_id"`
	Name    string  `json:"name"`
	Price   float64 `json:"price"`
	Picture *string `json:"picture"`
}

// RankedVenue is a per-request copy of a venue annotated with its distance
// from the query point. Neither distance field is ever persisted.
type RankedVenue struct {
	Venue
	DistanceKm *float64 `json:"-"`
	Distance   string   `json:"distance"`
}

type VenueFilter struct {
	OwnerID *int64
	Status  *VenueStatus
}
