package app_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"venue_booking/internal/app"
	"venue_booking/internal/app/apptest"
	"venue_booking/internal/domain"
)

func TestEvents_Lifecycle(t *testing.T) {
	m := apptest.NewStore()
	svc := app.NewEventService(m, m, m)
	ctx := context.Background()
	v, err := m.CreateVenue(ctx, domain.Venue{OwnerID: manager.ID, Name: "Hall"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, user, app.EventInput{Title: "Walima", Location: "F-7"})
	assert.EqualError(t, err, "Title, date, and location are required")
	_, err = svc.Create(ctx, user, app.EventInput{Title: "Walima", Date: "June 1st", Location: "F-7"})
	assert.EqualError(t, err, "Invalid date format")
	_, err = svc.Create(ctx, user, app.EventInput{Title: "Walima", Date: "2025-06-01", Location: "F-7", VenueID: ptr(int64(404))})
	assert.EqualError(t, err, "Venue not found")
	_, err = svc.Create(ctx, manager, app.EventInput{Title: "Walima", Date: "2025-06-01", Location: "F-7"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	e, err := svc.Create(ctx, user, app.EventInput{
		Title: " Walima ", Date: "2025-06-01", Location: "F-7", VenueID: &v.ID, Description: ptr(""),
	})
	require.NoError(t, err)
	assert.Equal(t, "Walima", e.Title)
	assert.Nil(t, e.Description)
	assert.Equal(t, user.ID, e.UserID)

	got, err := svc.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, e.ID, got.ID)
	_, err = svc.Get(ctx, 0)
	assert.EqualError(t, err, "Invalid event ID")
	_, err = svc.Get(ctx, 999)
	assert.EqualError(t, err, "Event not found")

	stranger := domain.Principal{ID: 55, Role: domain.RoleUser}
	_, err = svc.Update(ctx, stranger, e.ID, app.EventInput{Title: "Mine", Date: "2025-06-02", Location: "G-9"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	up, err := svc.Update(ctx, user, e.ID, app.EventInput{Title: "Baraat", Date: "2025-06-02T20:00:00Z", Location: "G-9"})
	require.NoError(t, err)
	assert.Equal(t, "Baraat", up.Title)
	assert.Nil(t, up.VenueID)
	assert.Equal(t, user.ID, m.Events[e.ID].UserID)

	list, err := svc.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	assert.ErrorIs(t, svc.Delete(ctx, stranger, e.ID), domain.ErrForbidden)
	require.NoError(t, svc.Delete(ctx, user, e.ID))

	_, err = svc.ListByUser(ctx, user.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.EqualError(t, err, "No events found for this user")
}

func TestSaveFeedback(t *testing.T) {
	m := apptest.NewStore()
	svc := app.NewEventService(m, m, m)
	ctx := context.Background()
	v, err := m.CreateVenue(ctx, domain.Venue{OwnerID: manager.ID, Name: "Hall"})
	require.NoError(t, err)

	_, err = svc.SaveFeedback(ctx, user, app.FeedbackInput{VenueID: v.ID, Feedback: "  "})
	assert.EqualError(t, err, "All fields are required")
	_, err = svc.SaveFeedback(ctx, user, app.FeedbackInput{VenueID: 404, Feedback: "Nice"})
	assert.EqualError(t, err, "Venue not found")
	_, err = svc.SaveFeedback(ctx, manager, app.FeedbackInput{VenueID: v.ID, Feedback: "Nice"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	f, err := svc.SaveFeedback(ctx, user, app.FeedbackInput{VenueID: v.ID, Feedback: " Great food "})
	require.NoError(t, err)
	assert.Equal(t, "Great food", f.Text)
	assert.Len(t, m.Feedback, 1)
}
