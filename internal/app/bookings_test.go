package app_test

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"venue_booking/internal/app"
	"venue_booking/internal/app/apptest"
	"venue_booking/internal/domain"
)

var evening = app.BookingInput{BookingDate: "2025-06-01", StartTime: "2025-06-01T18:00:00Z", EndTime: "2025-06-01T22:00:00Z"}

func bookingFixture(t *testing.T) (*apptest.Store, domain.Venue, domain.MenuItem) {
	t.Helper()
	m := apptest.NewStore()
	ctx := context.Background()
	v, err := m.CreateVenue(ctx, domain.Venue{OwnerID: manager.ID, Name: "The Marquee", Status: domain.VenueApproved})
	require.NoError(t, err)
	it, err := m.CreateMenuItem(ctx, domain.MenuItem{VenueID: v.ID, Name: "Biryani", Price: 450})
	require.NoError(t, err)
	return m, v, it
}

func TestCreateBooking_NotifiesOwner(t *testing.T) {
	m, v, _ := bookingFixture(t)
	n := &notifierMock{}
	n.On("Notify", mock.MatchedBy(func(msg domain.Notification) bool {
		return msg.Kind == app.NotifyBookingCreated && msg.UserID == manager.ID && msg.ID != ""
	})).Return(nil).Once()
	svc := app.NewBookingService(m, m, n)

	b, err := svc.Create(context.Background(), user, v.ID, evening)
	require.NoError(t, err)
	n.AssertExpectations(t)
	assert.Equal(t, domain.BookingPending, b.Status)
	assert.Equal(t, user.ID, b.UserID)
	assert.Equal(t, 18, b.StartTime.Hour())
}

func TestCreateBooking_NotifyFailureIsIgnored(t *testing.T) {
	m, v, _ := bookingFixture(t)
	n := &notifierMock{}
	n.On("Notify", mock.Anything).Return(errors.New("broker down"))
	svc := app.NewBookingService(m, m, n)

	_, err := svc.Create(context.Background(), user, v.ID, evening)
	assert.NoError(t, err)
}

func TestCreateBooking_Validation(t *testing.T) {
	m, v, _ := bookingFixture(t)
	svc := app.NewBookingService(m, m, nil)
	ctx := context.Background()

	tests := []struct {
		name string
		in   app.BookingInput
		want string
	}{
		{"missing", app.BookingInput{BookingDate: "2025-06-01"}, "All fields are required"},
		{"bad date", app.BookingInput{BookingDate: "01/06/2025", StartTime: "2025-06-01", EndTime: "2025-06-02"}, "Invalid date format"},
		{"end before start", app.BookingInput{BookingDate: "2025-06-01", StartTime: "2025-06-02", EndTime: "2025-06-01"}, "End time must be after start time"},
		{"bad status", app.BookingInput{BookingDate: "2025-06-01", StartTime: "2025-06-01", EndTime: "2025-06-02", Status: "maybe"}, "Invalid status value"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, user, v.ID, tt.in)
			assert.ErrorIs(t, err, domain.ErrInvalid)
			assert.EqualError(t, err, tt.want)
		})
	}

	_, err := svc.Create(ctx, user, 404, evening)
	assert.EqualError(t, err, "Venue not found")
	_, err = svc.Create(ctx, manager, v.ID, evening)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestBooking_AccessRules(t *testing.T) {
	m, v, _ := bookingFixture(t)
	svc := app.NewBookingService(m, m, nil)
	ctx := context.Background()
	b, err := svc.Create(ctx, user, v.ID, evening)
	require.NoError(t, err)
	stranger := domain.Principal{ID: 55, Role: domain.RoleUser}

	_, err = svc.Get(ctx, user, b.ID)
	assert.NoError(t, err)
	_, err = svc.Get(ctx, manager, b.ID)
	assert.NoError(t, err)
	_, err = svc.Get(ctx, other, b.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = svc.Get(ctx, user, 0)
	assert.EqualError(t, err, "Invalid booking ID")
	_, err = svc.Get(ctx, user, 999)
	assert.EqualError(t, err, "Booking not found")

	moved := app.BookingInput{BookingDate: "2025-06-02", StartTime: "2025-06-02T12:00:00Z", EndTime: "2025-06-02T16:00:00Z"}
	_, err = svc.Update(ctx, stranger, b.ID, moved)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = svc.Update(ctx, manager, b.ID, moved)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	up, err := svc.Update(ctx, user, b.ID, moved)
	require.NoError(t, err)
	assert.Equal(t, 2, up.BookingDate.Day())
	assert.Equal(t, domain.BookingPending, up.Status)

	assert.ErrorIs(t, svc.Delete(ctx, stranger, b.ID), domain.ErrForbidden)
	require.NoError(t, svc.Delete(ctx, user, b.ID))
	assert.Empty(t, m.Bookings)
}

func TestAcceptAndRequests(t *testing.T) {
	m, v, _ := bookingFixture(t)
	n := &notifierMock{}
	n.On("Notify", mock.Anything).Return(nil)
	svc := app.NewBookingService(m, m, n)
	ctx := context.Background()
	b, err := svc.Create(ctx, user, v.ID, evening)
	require.NoError(t, err)

	_, err = svc.Accept(ctx, other, b.ID)
	assert.EqualError(t, err, "You are not authorized to accept this booking")

	out, err := svc.Accept(ctx, manager, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingConfirmed, out.Status)
	n.AssertCalled(t, "Notify", mock.MatchedBy(func(msg domain.Notification) bool {
		return msg.Kind == app.NotifyBookingAccepted && msg.UserID == user.ID && msg.BookingID == b.ID
	}))

	reqs, err := svc.Requests(ctx, manager)
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	assert.Equal(t, domain.BookingConfirmed, reqs[0].Status)

	_, err = svc.Requests(ctx, other)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.EqualError(t, err, "No venues found for this user")
}

func TestSaveFoodOrder(t *testing.T) {
	m, v, it := bookingFixture(t)
	svc := app.NewBookingService(m, m, nil)
	ctx := context.Background()
	b, err := svc.Create(ctx, user, v.ID, evening)
	require.NoError(t, err)
	key := func(id int64) string { return strconv.FormatInt(id, 10) }

	order := app.FoodOrderInput{BookingID: b.ID, MenuItemIDs: map[string]int{key(it.ID): 2}}
	require.NoError(t, svc.SaveFoodOrder(ctx, user, order))
	require.NoError(t, svc.SaveFoodOrder(ctx, user, order))
	view, err := m.GetBooking(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, view.FoodOrder, 1)
	assert.Equal(t, 4, view.FoodOrder[0].Quantity)

	err = svc.SaveFoodOrder(ctx, user, app.FoodOrderInput{BookingID: 999, MenuItemIDs: order.MenuItemIDs})
	assert.EqualError(t, err, "Booking not found.")

	err = svc.SaveFoodOrder(ctx, domain.Principal{ID: 55, Role: domain.RoleUser}, order)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	err = svc.SaveFoodOrder(ctx, user, app.FoodOrderInput{BookingID: b.ID, MenuItemIDs: map[string]int{"12345": 1}})
	assert.ErrorIs(t, err, domain.ErrInvalid)

	err = svc.SaveFoodOrder(ctx, user, app.FoodOrderInput{BookingID: b.ID, MenuItemIDs: map[string]int{key(it.ID): 0}})
	assert.ErrorIs(t, err, domain.ErrInvalid)

	err = svc.SaveFoodOrder(ctx, user, app.FoodOrderInput{BookingID: b.ID})
	assert.ErrorIs(t, err, domain.ErrInvalid)
}
