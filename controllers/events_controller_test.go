package controllers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/eventease/eventease-api/models"
)

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func TestBuildEventUpdateSingleField(t *testing.T) {
	now := time.Now()

	update, err := buildEventUpdate(eventUpdateInput{Location: strPtr("New Hall")}, now)
	require.NoError(t, err)

	assert.Equal(t, "New Hall", update["location"])
	assert.Equal(t, now, update["updatedAt"])
	// untouched fields stay out of the $set document entirely
	assert.NotContains(t, update, "title")
	assert.NotContains(t, update, "description")
	assert.NotContains(t, update, "ticketPrice")
	assert.NotContains(t, update, "dateTime")
	assert.NotContains(t, update, "category")
}

func TestBuildEventUpdateZeroPricePreserved(t *testing.T) {
	update, err := buildEventUpdate(eventUpdateInput{TicketPrice: floatPtr(0)}, time.Now())
	require.NoError(t, err)

	price, ok := update["ticketPrice"]
	require.True(t, ok, "explicit 0 must be written")
	assert.Equal(t, float64(0), price)
}

func TestBuildEventUpdateOmittedPriceUntouched(t *testing.T) {
	update, err := buildEventUpdate(eventUpdateInput{Title: strPtr("New Title")}, time.Now())
	require.NoError(t, err)
	assert.NotContains(t, update, "ticketPrice")
}

func TestBuildEventUpdateEmptyStringsIgnored(t *testing.T) {
	update, err := buildEventUpdate(eventUpdateInput{
		Title:    strPtr(""),
		Location: strPtr(""),
	}, time.Now())
	require.NoError(t, err)

	assert.NotContains(t, update, "title")
	assert.NotContains(t, update, "location")
	assert.Len(t, update, 1) // only updatedAt
}

func TestBuildEventUpdateDateTime(t *testing.T) {
	update, err := buildEventUpdate(eventUpdateInput{DateTime: strPtr("2026-09-15T19:00:00Z")}, time.Now())
	require.NoError(t, err)

	parsed, ok := update["dateTime"].(time.Time)
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, 9, 15, 19, 0, 0, 0, time.UTC), parsed)
}

func TestBuildEventUpdateBadDateTime(t *testing.T) {
	_, err := buildEventUpdate(eventUpdateInput{DateTime: strPtr("soon")}, time.Now())
	assert.Error(t, err)
}

func TestNotificationMessage(t *testing.T) {
	got := notificationMessage("Summer Gala", "Doors open at 7.")
	assert.Equal(t, `A message from the organizer of "Summer Gala": Doors open at 7.`, got)
}

func TestNotificationSubject(t *testing.T) {
	assert.Equal(t, "Update for event: Summer Gala", notificationSubject("Summer Gala"))
}

func TestOrganizerIDsDeduplicates(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()
	events := []models.Event{
		{Organizer: a},
		{Organizer: b},
		{Organizer: a},
		{Organizer: a},
	}

	ids := organizerIDs(events)
	assert.Equal(t, []primitive.ObjectID{a, b}, ids)
}

func TestOrganizerIDsEmpty(t *testing.T) {
	assert.Empty(t, organizerIDs(nil))
}
