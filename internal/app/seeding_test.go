package app_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"venue_booking/internal/app"
	"venue_booking/internal/app/apptest"
	"venue_booking/internal/domain"
)

const seedJSON = `[
  {
    "venue_name": "The Marquee",
    "location": {"lat": "33,68", "lng": 73.04},
    "photo": "marquee.jpg",
    "capacity": "300",
    "food_menu": [
      {"dish": "Biryani", "cost": 450},
      {"dish": "Free water", "cost": 0},
      {"name": "Kheer", "price": "120.5", "image": "kheer.png"}
    ]
  },
  {
    "name": "Garden Hall",
    "address": "Jinnah Avenue, Islamabad",
    "owner_id": 3,
    "status": "pending"
  },
  {
    "title": "Lonely Latitude",
    "lat": 10
  },
  {
    "description": "no name at all"
  }
]`

func TestDecodeSeed_MapsAliases(t *testing.T) {
	recs, skipped, err := app.DecodeSeed(strings.NewReader(seedJSON))
	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	require.Len(t, recs, 3)

	marquee := recs[0].Venue
	assert.Equal(t, "The Marquee", marquee.Name)
	assert.InDelta(t, 33.68, *marquee.Lat, 1e-9)
	assert.InDelta(t, 73.04, *marquee.Lon, 1e-9)
	assert.Equal(t, "marquee.jpg", *marquee.Picture)
	assert.Equal(t, 300, *marquee.Capacity)
	assert.Nil(t, recs[0].Status)
	require.Len(t, marquee.Menu, 2)
	assert.Equal(t, "Biryani", marquee.Menu[0].Name)
	assert.Equal(t, 120.5, marquee.Menu[1].Price)
	assert.Equal(t, "kheer.png", *marquee.Menu[1].Picture)

	garden := recs[1]
	assert.Equal(t, "Jinnah Avenue, Islamabad", *garden.Venue.Address)
	assert.Equal(t, int64(3), garden.Venue.OwnerID)
	require.NotNil(t, garden.Status)
	assert.Equal(t, domain.VenuePending, *garden.Status)

	lonely := recs[2].Venue
	assert.Nil(t, lonely.Lat)
	assert.Nil(t, lonely.Lon)
}

func TestDecodeSeed_RejectsNonArray(t *testing.T) {
	_, _, err := app.DecodeSeed(strings.NewReader(`{"name": "x"}`))
	assert.Error(t, err)
}

func TestSeedRun_GeocodesAndInserts(t *testing.T) {
	recs, _, err := app.DecodeSeed(strings.NewReader(seedJSON))
	require.NoError(t, err)

	m, cache := apptest.NewStore(), apptest.NewCache()
	require.NoError(t, cache.Set(context.Background(), "venues:catalog", []domain.Venue{}, 60))
	geo := &geoMock{}
	geo.On("ReverseGeocode", mock.Anything, mock.Anything).Return("Blue Area, Islamabad", nil)
	geo.On("Search", "Jinnah Avenue, Islamabad").Return(domain.Coords{Lat: 33.72, Lon: 73.07}, nil)
	// the lonely record has neither coordinates nor an address
	svc := app.NewSeedService(m, geo, cache, 2)

	rep, err := svc.Run(context.Background(), recs, 1, false)
	require.NoError(t, err)
	geo.AssertNumberOfCalls(t, "ReverseGeocode", 1)
	geo.AssertNumberOfCalls(t, "Search", 1)

	assert.Equal(t, 3, rep.Read)
	assert.Equal(t, 3, rep.Inserted)
	assert.Equal(t, 2, rep.Geocoded)
	assert.Zero(t, rep.Failed)
	assert.False(t, cache.Has("venues:catalog"))

	byName := map[string]domain.Venue{}
	for _, v := range m.Venues {
		byName[v.Name] = v
	}
	assert.Equal(t, domain.VenueApproved, byName["The Marquee"].Status)
	assert.Equal(t, int64(1), byName["The Marquee"].OwnerID)
	assert.Equal(t, "Blue Area, Islamabad", *byName["The Marquee"].Address)
	assert.Equal(t, domain.VenuePending, byName["Garden Hall"].Status)
	assert.Equal(t, 33.72, *byName["Garden Hall"].Lat)
	assert.Len(t, m.Items, 2)

	require.Len(t, rep.Venues, 3)
	assert.Len(t, rep.Venues[0].Menu, 2)
}

func TestSeedRun_DryRunWritesNothing(t *testing.T) {
	recs, _, err := app.DecodeSeed(strings.NewReader(seedJSON))
	require.NoError(t, err)

	m := apptest.NewStore()
	geo := &geoMock{}
	geo.On("ReverseGeocode", mock.Anything, mock.Anything).Return("", errors.New("rate limited"))
	geo.On("Search", mock.Anything).Return(domain.Coords{}, domain.ErrNotFound)
	svc := app.NewSeedService(m, geo, apptest.NewCache(), 4)

	rep, err := svc.Run(context.Background(), recs, 1, true)
	require.NoError(t, err)
	assert.Zero(t, rep.Inserted)
	assert.Zero(t, rep.Geocoded)
	assert.Len(t, rep.Venues, 3)
	assert.Empty(t, m.Venues)
}

func TestSeedRun_SkipsRecordsWithoutOwner(t *testing.T) {
	recs, _, err := app.DecodeSeed(strings.NewReader(seedJSON))
	require.NoError(t, err)

	m := apptest.NewStore()
	svc := app.NewSeedService(m, nil, app.NopCache{}, 1)

	rep, err := svc.Run(context.Background(), recs, 0, false)
	require.NoError(t, err)
	assert.Equal(t, 2, rep.Skipped)
	assert.Equal(t, 1, rep.Inserted)
	require.Len(t, m.Venues, 1)
}

func TestSeedRun_CancelledContext(t *testing.T) {
	recs, _, err := app.DecodeSeed(strings.NewReader(seedJSON))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = app.NewSeedService(apptest.NewStore(), nil, app.NopCache{}, 1).Run(ctx, recs, 1, false)
	assert.ErrorIs(t, err, context.Canceled)
}
