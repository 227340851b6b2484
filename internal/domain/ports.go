package domain

import (
	"context"
	"io"
)

type AccountRepository interface {
	CreateAccount(ctx context.Context, a Account) (Account, error)
	GetAccountByEmail(ctx context.Context, role Role, email string) (Account, error)
	GetAccountByID(ctx context.Context, role Role, id int64) (Account, error)
	UpdateAccount(ctx context.Context, a Account) (Account, error)
}

type VenueRepository interface {
	// Read paths
	ListVenues(ctx context.Context, f VenueFilter) ([]Venue, error)
	GetVenue(ctx context.Context, id int64) (Venue, error)
	ListMenuItems(ctx context.Context, venueID int64) ([]MenuItem, error)
	GetMenuItem(ctx context.Context, id int64) (MenuItem, error)

	// Write paths
	CreateVenue(ctx context.Context, v Venue) (Venue, error)
	UpdateVenue(ctx context.Context, v Venue) error
	DeleteVenue(ctx context.Context, id int64) error
	SetVenueStatus(ctx context.Context, id int64, s VenueStatus) error
	CreateMenuItem(ctx context.Context, it MenuItem) (MenuItem, error)
	UpdateMenuItem(ctx context.Context, it MenuItem) error
	DeleteMenuItem(ctx context.Context, id int64) error
}

type BookingRepository interface {
	CreateBooking(ctx context.Context, b Booking) (Booking, error)
	GetBooking(ctx context.Context, id int64) (BookingView, error)
	UpdateBooking(ctx context.Context, b Booking) error
	DeleteBooking(ctx context.Context, id int64) error
	SetBookingStatus(ctx context.Context, id int64, s BookingStatus) error
	ListBookingsByOwner(ctx context.Context, ownerID int64) ([]BookingView, error)
	AddFoodOrder(ctx context.Context, bookingID int64, lines []FoodOrderLine) error
}

type EventRepository interface {
	CreateEvent(ctx context.Context, e Event) (Event, error)
	GetEvent(ctx context.Context, id int64) (Event, error)
	UpdateEvent(ctx context.Context, e Event) error
	DeleteEvent(ctx context.Context, id int64) error
	ListEventsByUser(ctx context.Context, userID int64) ([]Event, error)
}

type FeedbackRepository interface {
	SaveFeedback(ctx context.Context, f Feedback) (Feedback, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// Geocoder turns coordinates into a display address and back.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, lat, lon float64) (string, error)
	Search(ctx context.Context, query string) (Coords, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

type TokenIssuer interface {
	Issue(p Principal) (string, error)
}

type PictureKind string

const (
	PictureVenue    PictureKind = "venues"
	PictureFoodItem PictureKind = "foodItems"
	PictureProfile  PictureKind = "profiles"
)

// PictureStore keeps uploaded images. Save returns the stored path, which is
// what gets persisted on the owning row. Delete of a missing picture is not
// an error.
type PictureStore interface {
	Save(ctx context.Context, kind PictureKind, name string, r io.Reader, size int64, contentType string) (string, error)
	Open(ctx context.Context, kind PictureKind, name string) (io.ReadCloser, error)
	Delete(ctx context.Context, kind PictureKind, name string) error
}

type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}
