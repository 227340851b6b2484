package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"venue_booking/internal/domain"
	"venue_booking/internal/ranking"
)

type CreateVenueInput struct {
	Name     string
	About    *string
	Phone    *string
	Capacity *int
	Lat      *float64
	Lon      *float64
	Picture  *Upload
}

type UpdateVenueInput struct {
	Name     string  `json:"name"`
	Address  string  `json:"address"`
	Capacity *int    `json:"capacity"`
	About    *string `json:"about"`
}

type MenuItemInput struct {
	Name    *string
	Price   *float64
	Picture *Upload
}

// VenueService owns every venue and menu write. Each write drops the
// catalog and the per-venue cache entry.
type VenueService struct {
	venues domain.VenueRepository
	geo    domain.Geocoder
	pics   *PictureService
	cache  domain.Cache
}

func NewVenueService(v domain.VenueRepository, g domain.Geocoder, p *PictureService, c domain.Cache) *VenueService {
	return &VenueService{venues: v, geo: g, pics: p, cache: c}
}

func (s *VenueService) invalidate(ctx context.Context, venueID int64) {
	for _, k := range []string{catalogKey, venueKey(venueID)} {
		if err := s.cache.Del(ctx, k); err != nil {
			log.Warn().Err(err).Str("key", k).Msg("cache invalidation failed")
		}
	}
}

// owned loads a venue and checks that p manages it.
func (s *VenueService) owned(ctx context.Context, p domain.Principal, venueID int64) (domain.Venue, error) {
	if venueID <= 0 {
		return domain.Venue{}, domain.Invalid("Invalid venue ID")
	}
	v, err := s.venues.GetVenue(ctx, venueID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Venue{}, domain.Errorf(domain.ErrNotFound, "Venue not found")
	}
	if err != nil {
		return domain.Venue{}, fmt.Errorf("service: load venue: %w", err)
	}
	if p.Role != domain.RoleManager || v.OwnerID != p.ID {
		return domain.Venue{}, domain.Errorf(domain.ErrForbidden, "You are not the owner of this venue")
	}
	return v, nil
}

// CreateVenue registers a venue for review. The address is looked up from
// the coordinates when a geocoder is configured; a failed lookup leaves it empty.
func (s *VenueService) CreateVenue(ctx context.Context, p domain.Principal, in CreateVenueInput) (domain.Venue, error) {
	if p.Role != domain.RoleManager {
		return domain.Venue{}, domain.Errorf(domain.ErrForbidden, "Only venue managers can create venues")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" || in.Lat == nil || in.Lon == nil {
		return domain.Venue{}, domain.Invalid("Name, latitude and longitude are required")
	}
	if err := validateCoords(*in.Lat, *in.Lon); err != nil {
		return domain.Venue{}, err
	}
	if in.Capacity != nil && *in.Capacity <= 0 {
		return domain.Venue{}, domain.Invalid("Capacity must be a positive integer")
	}

	v := domain.Venue{
		OwnerID:  p.ID,
		Name:     name,
		About:    optional(in.About),
		Phone:    optional(in.Phone),
		Capacity: in.Capacity,
		Lat:      in.Lat,
		Lon:      in.Lon,
		Status:   domain.VenuePending,
	}
	if s.geo != nil {
		addr, err := s.geo.ReverseGeocode(ctx, *in.Lat, *in.Lon)
		if err != nil {
			log.Warn().Err(err).Float64("lat", *in.Lat).Float64("lon", *in.Lon).Msg("reverse geocoding failed")
		} else {
			v.Address = &addr
		}
	}

	var err error
	if v.Picture, err = s.pics.Save(ctx, domain.PictureVenue, in.Picture); err != nil {
		return domain.Venue{}, err
	}
	created, err := s.venues.CreateVenue(ctx, v)
	if err != nil {
		s.pics.Discard(ctx, domain.PictureVenue, v.Picture)
		return domain.Venue{}, fmt.Errorf("service: create venue: %w", err)
	}
	s.invalidate(ctx, created.ID)
	log.Info().Int64("venue_id", created.ID).Int64("owner_id", p.ID).Msg("venue created")
	return ranking.PublicVenue(created), nil
}

func (s *VenueService) UpdateVenue(ctx context.Context, p domain.Principal, id int64, in UpdateVenueInput) (domain.Venue, error) {
	if id <= 0 {
		return domain.Venue{}, domain.Invalid("Invalid venue ID")
	}
	if blank(in.Name) || blank(in.Address) || in.Capacity == nil {
		return domain.Venue{}, domain.Invalid("Name, address, and capacity are required")
	}
	if *in.Capacity <= 0 {
		return domain.Venue{}, domain.Invalid("Capacity must be a positive integer")
	}
	v, err := s.owned(ctx, p, id)
	if err != nil {
		return domain.Venue{}, err
	}

	addr := strings.TrimSpace(in.Address)
	v.Name = strings.TrimSpace(in.Name)
	v.Address = &addr
	v.Capacity = in.Capacity
	if in.About != nil {
		v.About = optional(in.About)
	}
	if err := s.venues.UpdateVenue(ctx, v); err != nil {
		return domain.Venue{}, fmt.Errorf("service: update venue: %w", err)
	}
	s.invalidate(ctx, id)
	return ranking.PublicVenue(v), nil
}

func (s *VenueService) DeleteVenue(ctx context.Context, p domain.Principal, id int64) error {
	if _, err := s.owned(ctx, p, id); err != nil {
		return err
	}
	if err := s.venues.DeleteVenue(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Errorf(domain.ErrNotFound, "Venue not found")
		}
		return fmt.Errorf("service: delete venue: %w", err)
	}
	s.invalidate(ctx, id)
	return nil
}

// ChangeStatus is the admin approval step.
func (s *VenueService) ChangeStatus(ctx context.Context, id int64, status domain.VenueStatus) (domain.Venue, error) {
	if id <= 0 {
		return domain.Venue{}, domain.Invalid("Invalid venue ID")
	}
	if !status.Valid() {
		return domain.Venue{}, domain.Invalid("Invalid status value")
	}
	v, err := s.venues.GetVenue(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Venue{}, domain.Errorf(domain.ErrNotFound, "Venue not found")
	}
	if err != nil {
		return domain.Venue{}, fmt.Errorf("service: load venue: %w", err)
	}
	if err := s.venues.SetVenueStatus(ctx, id, status); err != nil {
		return domain.Venue{}, fmt.Errorf("service: set venue status: %w", err)
	}
	s.invalidate(ctx, id)
	v.Status = status
	log.Info().Int64("venue_id", id).Int("status", int(status)).Msg("venue status changed")
	return ranking.PublicVenue(v), nil
}

func (s *VenueService) AddMenuItem(ctx context.Context, p domain.Principal, venueID int64, in MenuItemInput) (domain.MenuItem, error) {
	if in.Name == nil || blank(*in.Name) {
		return domain.MenuItem{}, domain.Invalid("Name and price are required")
	}
	if in.Price == nil || !finite(*in.Price) || *in.Price <= 0 {
		return domain.MenuItem{}, domain.Invalid("Price must be a positive number")
	}
	if _, err := s.owned(ctx, p, venueID); err != nil {
		return domain.MenuItem{}, err
	}

	it := domain.MenuItem{VenueID: venueID, Name: strings.TrimSpace(*in.Name), Price: *in.Price}
	var err error
	if it.Picture, err = s.pics.Save(ctx, domain.PictureFoodItem, in.Picture); err != nil {
		return domain.MenuItem{}, err
	}
	created, err := s.venues.CreateMenuItem(ctx, it)
	if err != nil {
		s.pics.Discard(ctx, domain.PictureFoodItem, it.Picture)
		return domain.MenuItem{}, fmt.Errorf("service: add menu item: %w", err)
	}
	s.invalidate(ctx, venueID)
	return ranking.PublicMenuItem(created), nil
}

// ownedItem loads a menu item and checks that p manages its venue.
func (s *VenueService) ownedItem(ctx context.Context, p domain.Principal, id int64) (domain.MenuItem, error) {
	if id <= 0 {
		return domain.MenuItem{}, domain.Invalid("Invalid food item ID")
	}
	it, err := s.venues.GetMenuItem(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.MenuItem{}, domain.Errorf(domain.ErrNotFound, "Food item not found")
	}
	if err != nil {
		return domain.MenuItem{}, fmt.Errorf("service: load menu item: %w", err)
	}
	if _, err := s.owned(ctx, p, it.VenueID); err != nil {
		return domain.MenuItem{}, err
	}
	return it, nil
}

// UpdateMenuItem applies whichever of name, price and picture are given.
func (s *VenueService) UpdateMenuItem(ctx context.Context, p domain.Principal, id int64, in MenuItemInput) (domain.MenuItem, error) {
	it, err := s.ownedItem(ctx, p, id)
	if err != nil {
		return domain.MenuItem{}, err
	}
	if in.Name != nil && !blank(*in.Name) {
		it.Name = strings.TrimSpace(*in.Name)
	}
	if in.Price != nil {
		if !finite(*in.Price) || *in.Price <= 0 {
			return domain.MenuItem{}, domain.Invalid("Price must be a positive number")
		}
		it.Price = *in.Price
	}
	var fresh *string
	if in.Picture != nil {
		if fresh, err = s.pics.Save(ctx, domain.PictureFoodItem, in.Picture); err != nil {
			return domain.MenuItem{}, err
		}
		it.Picture = fresh
	}
	if err := s.venues.UpdateMenuItem(ctx, it); err != nil {
		s.pics.Discard(ctx, domain.PictureFoodItem, fresh)
		return domain.MenuItem{}, fmt.Errorf("service: update menu item: %w", err)
	}
	s.invalidate(ctx, it.VenueID)
	return ranking.PublicMenuItem(it), nil
}

// DeleteMenuItem removes the item and returns what was deleted.
func (s *VenueService) DeleteMenuItem(ctx context.Context, p domain.Principal, id int64) (domain.MenuItem, error) {
	it, err := s.ownedItem(ctx, p, id)
	if err != nil {
		return domain.MenuItem{}, err
	}
	if err := s.venues.DeleteMenuItem(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.MenuItem{}, domain.Errorf(domain.ErrNotFound, "Food item not found")
		}
		return domain.MenuItem{}, fmt.Errorf("service: delete menu item: %w", err)
	}
	s.invalidate(ctx, it.VenueID)
	return ranking.PublicMenuItem(it), nil
}
