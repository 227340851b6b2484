package domain

import "time"

type Event struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	VenueID     *int64    `json:"venue_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Date        time.Time `json:"date"`
	Location    string    `json:"location"`
	CreatedAt   time.Time `json:"created_at"`
}

type Feedback struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	VenueID   int64     `json:"venue_id"`
	Text      string    `json:"feedback"`
	CreatedAt time.Time `json:"created_at"`
}

// HomeFeed is what a signed-in user sees on the landing screen.
type HomeFeed struct {
	Events []Event       `json:"events"`
	Venues []RankedVenue `json:"venues"`
}
