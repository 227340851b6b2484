package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"venue_booking/internal/adapters/observability"
	"venue_booking/internal/domain"
	"venue_booking/internal/ranking"
)

const catalogKey = "venues:catalog"

func venueKey(id int64) string { return fmt.Sprintf("venue:%d", id) }

// QueryService serves every read path. Cached values hold stored picture
// paths; rewriting happens on the way out so it is never cached twice.
type QueryService struct {
	venues   domain.VenueRepository
	events   domain.EventRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(v domain.VenueRepository, e domain.EventRepository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{venues: v, events: e, cache: c, cacheTTL: ttl}
}

// catalog returns every approved venue with its menu, read through the cache.
func (s *QueryService) catalog(ctx context.Context) ([]domain.Venue, error) {
	var vs []domain.Venue
	if ok, err := s.cache.Get(ctx, catalogKey, &vs); ok {
		return vs, nil
	} else if err != nil {
		log.Warn().Err(err).Str("key", catalogKey).Msg("cache get failed")
	}

	status := domain.VenueApproved
	vs, err := s.venues.ListVenues(ctx, domain.VenueFilter{Status: &status})
	if err != nil {
		return nil, fmt.Errorf("service: load catalog: %w", err)
	}
	if err := s.cache.Set(ctx, catalogKey, vs, int(s.cacheTTL.Seconds())); err != nil {
		log.Warn().Err(err).Str("key", catalogKey).Msg("cache set failed")
	}
	return vs, nil
}

// NearestVenues ranks the approved catalog by distance from lat/lon.
func (s *QueryService) NearestVenues(ctx context.Context, lat, lon float64) ([]domain.RankedVenue, error) {
	if err := validateCoords(lat, lon); err != nil {
		return nil, err
	}
	vs, err := s.catalog(ctx)
	if err != nil {
		return nil, err
	}
	out := ranking.Rank(domain.Coords{Lat: lat, Lon: lon}, vs)
	observeRanked("nearest", out)
	return out, nil
}

// HomeFeed loads the user's events and the ranked catalog concurrently.
func (s *QueryService) HomeFeed(ctx context.Context, userID int64, lat, lon float64) (domain.HomeFeed, error) {
	if err := validateCoords(lat, lon); err != nil {
		return domain.HomeFeed{}, err
	}

	var (
		events []domain.Event
		venues []domain.Venue
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		events, err = s.events.ListEventsByUser(gctx, userID)
		if err != nil {
			return fmt.Errorf("service: load events: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		venues, err = s.catalog(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.HomeFeed{}, err
	}

	if events == nil {
		events = []domain.Event{}
	}
	ranked := ranking.Rank(domain.Coords{Lat: lat, Lon: lon}, venues)
	observeRanked("home", ranked)
	return domain.HomeFeed{Events: events, Venues: ranked}, nil
}

func observeRanked(feed string, vs []domain.RankedVenue) {
	located := 0
	for _, v := range vs {
		if v.DistanceKm != nil {
			located++
		}
	}
	observability.ObserveRanked(feed, located, len(vs)-located)
}

// ListVenues returns the approved catalog, or every venue of one owner.
func (s *QueryService) ListVenues(ctx context.Context, ownerID *int64) ([]domain.Venue, error) {
	var (
		vs  []domain.Venue
		err error
	)
	if ownerID != nil {
		vs, err = s.venues.ListVenues(ctx, domain.VenueFilter{OwnerID: ownerID})
		if err != nil {
			return nil, fmt.Errorf("service: list owner venues: %w", err)
		}
	} else if vs, err = s.catalog(ctx); err != nil {
		return nil, err
	}
	return publicVenues(vs), nil
}

// PendingVenues lists venues awaiting review by an admin.
func (s *QueryService) PendingVenues(ctx context.Context) ([]domain.Venue, error) {
	status := domain.VenuePending
	vs, err := s.venues.ListVenues(ctx, domain.VenueFilter{Status: &status})
	if err != nil {
		return nil, fmt.Errorf("service: list pending venues: %w", err)
	}
	return publicVenues(vs), nil
}

func (s *QueryService) GetVenue(ctx context.Context, id int64) (domain.Venue, error) {
	if id <= 0 {
		return domain.Venue{}, domain.Invalid("Invalid venue ID")
	}
	key := venueKey(id)
	var v domain.Venue
	if ok, err := s.cache.Get(ctx, key, &v); ok {
		return ranking.PublicVenue(v), nil
	} else if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache get failed")
	}
	v, err := s.venues.GetVenue(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Venue{}, domain.Errorf(domain.ErrNotFound, "Venue not found")
	}
	if err != nil {
		return domain.Venue{}, fmt.Errorf("service: get venue: %w", err)
	}
	if err := s.cache.Set(ctx, key, v, int(s.cacheTTL.Seconds())); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache set failed")
	}
	return ranking.PublicVenue(v), nil
}

// Menu lists the food menu of a venue with public picture URLs.
func (s *QueryService) Menu(ctx context.Context, venueID int64) ([]domain.MenuItem, error) {
	if venueID <= 0 {
		return nil, domain.Invalid("Invalid venue ID")
	}
	items, err := s.venues.ListMenuItems(ctx, venueID)
	if err != nil {
		return nil, fmt.Errorf("service: list menu: %w", err)
	}
	out := make([]domain.MenuItem, 0, len(items))
	for _, it := range items {
		out = append(out, ranking.PublicMenuItem(it))
	}
	return out, nil
}

func publicVenues(vs []domain.Venue) []domain.Venue {
	out := make([]domain.Venue, 0, len(vs))
	for _, v := range vs {
		out = append(out, ranking.PublicVenue(v))
	}
	return out
}
