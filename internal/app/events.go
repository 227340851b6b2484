package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"venue_booking/internal/domain"
)

type EventInput struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Date        string  `json:"date"`
	Location    string  `json:"location"`
	VenueID     *int64  `json:"venue_id"`
}

type FeedbackInput struct {
	VenueID  int64  `json:"venue_id"`
	Feedback string `json:"feedback"`
}

type EventService struct {
	events    domain.EventRepository
	venues    domain.VenueRepository
	feedbacks domain.FeedbackRepository
}

func NewEventService(e domain.EventRepository, v domain.VenueRepository, f domain.FeedbackRepository) *EventService {
	return &EventService{events: e, venues: v, feedbacks: f}
}

func (s *EventService) build(ctx context.Context, in EventInput) (domain.Event, error) {
	if blank(in.Title) || blank(in.Date) || blank(in.Location) {
		return domain.Event{}, domain.Invalid("Title, date, and location are required")
	}
	date, err := parseDate(in.Date)
	if err != nil {
		return domain.Event{}, err
	}
	if in.VenueID != nil {
		if _, err := s.venues.GetVenue(ctx, *in.VenueID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.Event{}, domain.Errorf(domain.ErrNotFound, "Venue not found")
			}
			return domain.Event{}, fmt.Errorf("service: load venue: %w", err)
		}
	}
	return domain.Event{
		VenueID:     in.VenueID,
		Title:       strings.TrimSpace(in.Title),
		Description: optional(in.Description),
		Date:        date,
		Location:    strings.TrimSpace(in.Location),
	}, nil
}

func (s *EventService) Create(ctx context.Context, p domain.Principal, in EventInput) (domain.Event, error) {
	if p.Role != domain.RoleUser {
		return domain.Event{}, domain.Errorf(domain.ErrForbidden, "Only users can create events")
	}
	e, err := s.build(ctx, in)
	if err != nil {
		return domain.Event{}, err
	}
	e.UserID = p.ID
	created, err := s.events.CreateEvent(ctx, e)
	if err != nil {
		return domain.Event{}, fmt.Errorf("service: create event: %w", err)
	}
	return created, nil
}

func (s *EventService) Get(ctx context.Context, id int64) (domain.Event, error) {
	if id <= 0 {
		return domain.Event{}, domain.Invalid("Invalid event ID")
	}
	e, err := s.events.GetEvent(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Event{}, domain.Errorf(domain.ErrNotFound, "Event not found")
	}
	if err != nil {
		return domain.Event{}, fmt.Errorf("service: get event: %w", err)
	}
	return e, nil
}

func (s *EventService) mine(ctx context.Context, p domain.Principal, id int64) (domain.Event, error) {
	e, err := s.Get(ctx, id)
	if err != nil {
		return domain.Event{}, err
	}
	if p.Role != domain.RoleUser || e.UserID != p.ID {
		return domain.Event{}, domain.Errorf(domain.ErrForbidden, "You are not authorized to modify this event")
	}
	return e, nil
}

func (s *EventService) Update(ctx context.Context, p domain.Principal, id int64, in EventInput) (domain.Event, error) {
	if id <= 0 {
		return domain.Event{}, domain.Invalid("Invalid event ID")
	}
	next, err := s.build(ctx, in)
	if err != nil {
		return domain.Event{}, err
	}
	cur, err := s.mine(ctx, p, id)
	if err != nil {
		return domain.Event{}, err
	}
	next.ID, next.UserID, next.CreatedAt = cur.ID, cur.UserID, cur.CreatedAt
	if err := s.events.UpdateEvent(ctx, next); err != nil {
		return domain.Event{}, fmt.Errorf("service: update event: %w", err)
	}
	return next, nil
}

func (s *EventService) Delete(ctx context.Context, p domain.Principal, id int64) error {
	if _, err := s.mine(ctx, p, id); err != nil {
		return err
	}
	if err := s.events.DeleteEvent(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Errorf(domain.ErrNotFound, "Event not found")
		}
		return fmt.Errorf("service: delete event: %w", err)
	}
	return nil
}

func (s *EventService) ListByUser(ctx context.Context, userID int64) ([]domain.Event, error) {
	if userID <= 0 {
		return nil, domain.Invalid("Invalid user ID")
	}
	es, err := s.events.ListEventsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service: list events: %w", err)
	}
	if len(es) == 0 {
		return nil, domain.Errorf(domain.ErrNotFound, "No events found for this user")
	}
	return es, nil
}

// SaveFeedback records a user's comment about a venue.
func (s *EventService) SaveFeedback(ctx context.Context, p domain.Principal, in FeedbackInput) (domain.Feedback, error) {
	if p.Role != domain.RoleUser {
		return domain.Feedback{}, domain.Errorf(domain.ErrForbidden, "Only users can leave feedback")
	}
	if in.VenueID <= 0 || blank(in.Feedback) {
		return domain.Feedback{}, domain.Invalid("All fields are required")
	}
	if _, err := s.venues.GetVenue(ctx, in.VenueID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Feedback{}, domain.Errorf(domain.ErrNotFound, "Venue not found")
		}
		return domain.Feedback{}, fmt.Errorf("service: load venue: %w", err)
	}
	f, err := s.feedbacks.SaveFeedback(ctx, domain.Feedback{
		UserID:  p.ID,
		VenueID: in.VenueID,
		Text:    strings.TrimSpace(in.Feedback),
	})
	if err != nil {
		return domain.Feedback{}, fmt.Errorf("service: save feedback: %w", err)
	}
	return f, nil
}
