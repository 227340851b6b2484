package domain

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCancelled:
		return true
	}
	return false
}

type Booking struct {
	ID          int64         `json:"id"`
	VenueID     int64         `json:"venue_id"`
	UserID      int64         `json:"user_id"`
	BookingDate time.Time     `json:"booking_date"`
	StartTime   time.Time     `json:"start_time"`
	EndTime     time.Time     `json:"end_time"`
	Status      BookingStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
}

// BookingView is a booking joined with what the venue owner needs to see.
type BookingView struct {
	Booking
	VenueName    string          `json:"venue_name"`
	VenueOwnerID int64           `json:"venue_owner_id"`
	UserName     string          `json:"user_name"`
	UserEmail    string          `json:"user_email"`
	FoodOrder    []FoodOrderLine `json:"food_order"`
}

type FoodOrderLine struct {
	MenuItemID int64   `json:"food_menu_id"`
	Name       string  `json:"name,omitempty"`
	Price      float64 `json:"price,omitempty"`
	Quantity   int     `json:"quantity"`
}

type Notification struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	UserID    int64     `json:"user_id"`
	BookingID int64     `json:"booking_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}
