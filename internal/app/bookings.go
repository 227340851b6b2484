package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"venue_booking/internal/domain"
)

type BookingInput struct {
	BookingDate string `json:"booking_date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Status      string `json:"status"`
}

// FoodOrderInput maps menu item ids (as JSON object keys) to quantities.
type FoodOrderInput struct {
	BookingID   int64          `json:"booking_id"`
	MenuItemIDs map[string]int `json:"menu_item_ids"`
}

const (
	NotifyBookingCreated  = "booking_created"
	NotifyBookingAccepted = "booking_accepted"
)

type BookingService struct {
	bookings domain.BookingRepository
	venues   domain.VenueRepository
	notifier domain.Notifier
	now      func() time.Time
}

func NewBookingService(b domain.BookingRepository, v domain.VenueRepository, n domain.Notifier) *BookingService {
	return &BookingService{bookings: b, venues: v, notifier: n, now: time.Now}
}

func (s *BookingService) parse(in BookingInput, defaultStatus domain.BookingStatus) (domain.Booking, error) {
	if blank(in.BookingDate) || blank(in.StartTime) || blank(in.EndTime) {
		return domain.Booking{}, domain.Invalid("All fields are required")
	}
	var (
		b   domain.Booking
		err error
	)
	if b.BookingDate, err = parseDate(in.BookingDate); err != nil {
		return domain.Booking{}, err
	}
	if b.StartTime, err = parseDate(in.StartTime); err != nil {
		return domain.Booking{}, err
	}
	if b.EndTime, err = parseDate(in.EndTime); err != nil {
		return domain.Booking{}, err
	}
	if !b.EndTime.After(b.StartTime) {
		return domain.Booking{}, domain.Invalid("End time must be after start time")
	}
	b.Status = defaultStatus
	if !blank(in.Status) {
		b.Status = domain.BookingStatus(in.Status)
	}
	if !b.Status.Valid() {
		return domain.Booking{}, domain.Invalid("Invalid status value")
	}
	return b, nil
}

// Create books a venue for the calling user and tells the venue owner.
func (s *BookingService) Create(ctx context.Context, p domain.Principal, venueID int64, in BookingInput) (domain.Booking, error) {
	if p.Role != domain.RoleUser {
		return domain.Booking{}, domain.Errorf(domain.ErrForbidden, "Only users can book venues")
	}
	if venueID <= 0 {
		return domain.Booking{}, domain.Invalid("Invalid venue or user ID")
	}
	b, err := s.parse(in, domain.BookingPending)
	if err != nil {
		return domain.Booking{}, err
	}
	v, err := s.venues.GetVenue(ctx, venueID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Booking{}, domain.Errorf(domain.ErrNotFound, "Venue not found")
	}
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service: load venue: %w", err)
	}

	b.VenueID, b.UserID = venueID, p.ID
	created, err := s.bookings.CreateBooking(ctx, b)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service: create booking: %w", err)
	}
	s.notify(ctx, NotifyBookingCreated, v.OwnerID, created.ID,
		"New booking request",
		fmt.Sprintf("%s has a new booking request for %s", v.Name, created.BookingDate.Format("2006-01-02")))
	return created, nil
}

func (s *BookingService) load(ctx context.Context, id int64) (domain.BookingView, error) {
	if id <= 0 {
		return domain.BookingView{}, domain.Invalid("Invalid booking ID")
	}
	b, err := s.bookings.GetBooking(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.BookingView{}, domain.Errorf(domain.ErrNotFound, "Booking not found")
	}
	if err != nil {
		return domain.BookingView{}, fmt.Errorf("service: load booking: %w", err)
	}
	return b, nil
}

// Get is allowed to the booking's user and the venue's owner.
func (s *BookingService) Get(ctx context.Context, p domain.Principal, id int64) (domain.BookingView, error) {
	b, err := s.load(ctx, id)
	if err != nil {
		return domain.BookingView{}, err
	}
	if !canSee(p, b) {
		return domain.BookingView{}, domain.Errorf(domain.ErrForbidden, "You are not authorized to view this booking")
	}
	return b, nil
}

func canSee(p domain.Principal, b domain.BookingView) bool {
	switch p.Role {
	case domain.RoleUser:
		return b.UserID == p.ID
	case domain.RoleManager:
		return b.VenueOwnerID == p.ID
	}
	return false
}

func (s *BookingService) mine(ctx context.Context, p domain.Principal, id int64) (domain.BookingView, error) {
	b, err := s.load(ctx, id)
	if err != nil {
		return domain.BookingView{}, err
	}
	if p.Role != domain.RoleUser || b.UserID != p.ID {
		return domain.BookingView{}, domain.Errorf(domain.ErrForbidden, "You are not authorized to modify this booking")
	}
	return b, nil
}

func (s *BookingService) Update(ctx context.Context, p domain.Principal, id int64, in BookingInput) (domain.BookingView, error) {
	cur, err := s.mine(ctx, p, id)
	if err != nil {
		return domain.BookingView{}, err
	}
	b, err := s.parse(in, cur.Status)
	if err != nil {
		return domain.BookingView{}, err
	}
	cur.BookingDate, cur.StartTime, cur.EndTime, cur.Status = b.BookingDate, b.StartTime, b.EndTime, b.Status
	if err := s.bookings.UpdateBooking(ctx, cur.Booking); err != nil {
		return domain.BookingView{}, fmt.Errorf("service: update booking: %w", err)
	}
	return cur, nil
}

func (s *BookingService) Delete(ctx context.Context, p domain.Principal, id int64) error {
	if _, err := s.mine(ctx, p, id); err != nil {
		return err
	}
	if err := s.bookings.DeleteBooking(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Errorf(domain.ErrNotFound, "Booking not found")
		}
		return fmt.Errorf("service: delete booking: %w", err)
	}
	return nil
}

// Accept confirms a booking on behalf of the venue owner and tells the user.
func (s *BookingService) Accept(ctx context.Context, p domain.Principal, id int64) (domain.BookingView, error) {
	b, err := s.load(ctx, id)
	if err != nil {
		return domain.BookingView{}, err
	}
	if p.Role != domain.RoleManager || b.VenueOwnerID != p.ID {
		return domain.BookingView{}, domain.Errorf(domain.ErrForbidden, "You are not authorized to accept this booking")
	}
	if err := s.bookings.SetBookingStatus(ctx, id, domain.BookingConfirmed); err != nil {
		return domain.BookingView{}, fmt.Errorf("service: accept booking: %w", err)
	}
	b.Status = domain.BookingConfirmed
	s.notify(ctx, NotifyBookingAccepted, b.UserID, b.ID,
		"Booking confirmed",
		fmt.Sprintf("Your booking at %s on %s was accepted", b.VenueName, b.BookingDate.Format("2006-01-02")))
	return b, nil
}

// Requests lists bookings across every venue the manager owns.
func (s *BookingService) Requests(ctx context.Context, p domain.Principal) ([]domain.BookingView, error) {
	if p.Role != domain.RoleManager {
		return nil, domain.Errorf(domain.ErrForbidden, "Only venue managers can view booking requests")
	}
	owner := p.ID
	vs, err := s.venues.ListVenues(ctx, domain.VenueFilter{OwnerID: &owner})
	if err != nil {
		return nil, fmt.Errorf("service: list owner venues: %w", err)
	}
	if len(vs) == 0 {
		return nil, domain.Errorf(domain.ErrNotFound, "No venues found for this user")
	}
	out, err := s.bookings.ListBookingsByOwner(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("service: list booking requests: %w", err)
	}
	return out, nil
}

// SaveFoodOrder adds menu items to the caller's booking. Items already on
// the booking have their quantity increased.
func (s *BookingService) SaveFoodOrder(ctx context.Context, p domain.Principal, in FoodOrderInput) error {
	if in.BookingID <= 0 || len(in.MenuItemIDs) == 0 {
		return domain.Invalid("booking_id and menu_item_ids are required")
	}
	b, err := s.bookings.GetBooking(ctx, in.BookingID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Errorf(domain.ErrNotFound, "Booking not found.")
	}
	if err != nil {
		return fmt.Errorf("service: load booking: %w", err)
	}
	if p.Role != domain.RoleUser || b.UserID != p.ID {
		return domain.Errorf(domain.ErrForbidden, "You are not authorized to order for this booking")
	}

	menu, err := s.venues.ListMenuItems(ctx, b.VenueID)
	if err != nil {
		return fmt.Errorf("service: list menu: %w", err)
	}
	onMenu := make(map[int64]bool, len(menu))
	for _, it := range menu {
		onMenu[it.ID] = true
	}

	lines := make([]domain.FoodOrderLine, 0, len(in.MenuItemIDs))
	for key, qty := range in.MenuItemIDs {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil || id <= 0 {
			return domain.Errorf(domain.ErrInvalid, "Invalid menu item ID %q", key)
		}
		if !onMenu[id] {
			return domain.Errorf(domain.ErrInvalid, "Menu item %d is not served at this venue", id)
		}
		if qty <= 0 {
			return domain.Errorf(domain.ErrInvalid, "Quantity for menu item %d must be positive", id)
		}
		lines = append(lines, domain.FoodOrderLine{MenuItemID: id, Quantity: qty})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].MenuItemID < lines[j].MenuItemID })

	if err := s.bookings.AddFoodOrder(ctx, b.ID, lines); err != nil {
		return fmt.Errorf("service: save food order: %w", err)
	}
	return nil
}

// notify is best effort: a delivery failure never fails the request.
func (s *BookingService) notify(ctx context.Context, kind string, to, bookingID int64, title, body string) {
	if s.notifier == nil {
		return
	}
	n := domain.Notification{
		ID:        uuid.NewString(),
		Kind:      kind,
		UserID:    to,
		BookingID: bookingID,
		Title:     title,
		Body:      body,
		CreatedAt: s.now().UTC(),
	}
	if err := s.notifier.Notify(ctx, n); err != nil {
		log.Warn().Err(err).Str("kind", kind).Int64("booking_id", bookingID).Msg("notification failed")
	}
}
