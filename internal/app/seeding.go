package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"venue_booking/internal/domain"
)

// SeedReport summarises one seeding run.
type SeedReport struct {
	Read     int            `json:"read"`
	Skipped  int            `json:"skipped"`
	Geocoded int            `json:"geocoded"`
	Inserted int            `json:"inserted"`
	Failed   int            `json:"failed"`
	Venues   []domain.Venue `json:"venues,omitempty"`
}

// SeedService loads venue records from loose JSON, completes missing
// coordinates or addresses through the geocoder, and stores them.
type SeedService struct {
	venues  domain.VenueRepository
	geo     domain.Geocoder
	cache   domain.Cache
	workers int64
}

func NewSeedService(v domain.VenueRepository, g domain.Geocoder, c domain.Cache, workers int) *SeedService {
	if workers < 1 {
		workers = 1
	}
	return &SeedService{venues: v, geo: g, cache: c, workers: int64(workers)}
}

// DecodeSeed reads a JSON array of records and maps each one.
func DecodeSeed(r io.Reader) ([]SeedVenue, int, error) {
	var raw []map[string]any
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, 0, fmt.Errorf("seed: decode: %w", err)
	}
	out := make([]SeedVenue, 0, len(raw))
	skipped := 0
	for i, rec := range raw {
		sv, ok := mapSeedVenue(rec)
		if !ok {
			log.Warn().Int("index", i).Msg("seed record without a name, skipped")
			skipped++
			continue
		}
		out = append(out, sv)
	}
	return out, skipped, nil
}

// Run geocodes every record with bounded concurrency and, unless dryRun is
// set, inserts the venues with their menus. Failed records are logged and
// counted; Run only fails when the context is cancelled.
func (s *SeedService) Run(ctx context.Context, recs []SeedVenue, defaultOwner int64, dryRun bool) (SeedReport, error) {
	rep := SeedReport{Read: len(recs)}
	sem := semaphore.NewWeighted(s.workers)

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	results := make([]*domain.Venue, len(recs))

	for i := range recs {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return rep, fmt.Errorf("seed: %w", err)
		}
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return rep, fmt.Errorf("seed: %w", err)
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer sem.Release(1)

			v, geocoded, err := s.seedOne(ctx, recs[i], defaultOwner, dryRun)

			mu.Lock()
			defer mu.Unlock()
			if geocoded {
				rep.Geocoded++
			}
			switch {
			case errors.Is(err, errNoOwner):
				log.Warn().Str("venue", recs[i].Venue.Name).Msg("seed record without an owner, skipped")
				rep.Skipped++
			case err != nil:
				log.Warn().Err(err).Str("venue", recs[i].Venue.Name).Msg("seed failed")
				rep.Failed++
			default:
				results[i] = &v
				if !dryRun {
					rep.Inserted++
				}
			}
		}(i)
	}
	wg.Wait()

	for _, v := range results {
		if v != nil {
			rep.Venues = append(rep.Venues, *v)
		}
	}
	if !dryRun && rep.Inserted > 0 {
		if err := s.cache.Del(ctx, catalogKey); err != nil {
			log.Warn().Err(err).Str("key", catalogKey).Msg("cache invalidation failed")
		}
	}
	return rep, nil
}

var errNoOwner = errors.New("no owner")

func (s *SeedService) seedOne(ctx context.Context, rec SeedVenue, defaultOwner int64, dryRun bool) (domain.Venue, bool, error) {
	v := rec.Venue
	if v.OwnerID == 0 {
		v.OwnerID = defaultOwner
	}
	if v.OwnerID <= 0 {
		return v, false, errNoOwner
	}
	v.Status = domain.VenueApproved
	if rec.Status != nil {
		v.Status = *rec.Status
	}

	geocoded := s.complete(ctx, &v)
	if dryRun {
		return v, geocoded, nil
	}

	menu := v.Menu
	created, err := s.venues.CreateVenue(ctx, v)
	if err != nil {
		return v, geocoded, fmt.Errorf("seed: create venue: %w", err)
	}
	created.Menu = make([]domain.MenuItem, 0, len(menu))
	for _, it := range menu {
		it.VenueID = created.ID
		saved, err := s.venues.CreateMenuItem(ctx, it)
		if err != nil {
			return created, geocoded, fmt.Errorf("seed: create menu item %q: %w", it.Name, err)
		}
		created.Menu = append(created.Menu, saved)
	}
	return created, geocoded, nil
}

// complete fills the coordinates from the address or the address from the
// coordinates. Lookup failures leave the venue as it was.
func (s *SeedService) complete(ctx context.Context, v *domain.Venue) bool {
	if s.geo == nil {
		return false
	}
	switch {
	case v.Coords() == nil && v.Address != nil:
		c, err := s.geo.Search(ctx, *v.Address)
		if err != nil {
			log.Warn().Err(err).Str("venue", v.Name).Msg("forward geocode failed")
			return false
		}
		v.Lat, v.Lon = &c.Lat, &c.Lon
		return true
	case v.Coords() != nil && v.Address == nil:
		addr, err := s.geo.ReverseGeocode(ctx, *v.Lat, *v.Lon)
		if err != nil {
			log.Warn().Err(err).Str("venue", v.Name).Msg("reverse geocode failed")
			return false
		}
		v.Address = &addr
		return true
	}
	return false
}
