package internal

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/derWhity/eventcal/internal/models"
)

func TestEventService_CreateValidates(t *testing.T) {
	env := newTestEnv(t)
	ctx := testCtx()

	_, err := env.events.Create(ctx, &models.Event{Title: "  ", StartTime: testNow})
	he := requireHTTPError(t, err, http.StatusBadRequest, ErrCodeRequiredFieldMissing)
	assert.Equal(t, map[string]string{"field": "title"}, he.Data())

	_, err = env.events.Create(ctx, &models.Event{Title: "Gig"})
	he = requireHTTPError(t, err, http.StatusBadRequest, ErrCodeRequiredFieldMissing)
	assert.Equal(t, map[string]string{"field": "startTime"}, he.Data())

	_, err = env.events.Create(ctx, &models.Event{Title: "Gig", StartTime: testNow, VenueID: 42})
	requireHTTPError(t, err, http.StatusNotFound, ErrCodeVenueNotFound)
}

func TestEventService_CreateWithVenueAndTags(t *testing.T) {
	env := newTestEnv(t)
	venueID := env.venue(t, "Blue Note")

	ev := env.event(t, models.Event{
		Title:     " Jazz Night ",
		StartTime: testNow,
		VenueID:   venueID,
		Tags:      []string{"jazz", "Live", "JAZZ"},
	})
	assert.Equal(t, "Jazz Night", ev.Title)
	require.NotNil(t, ev.Venue)
	assert.Equal(t, "Blue Note", ev.Venue.Title)
	assert.Equal(t, []string{"jazz", "Live"}, ev.Tags)
}

func TestEventService_Update(t *testing.T) {
	env := newTestEnv(t)
	ctx := testCtx()
	ev := env.event(t, models.Event{Title: "Gig", StartTime: testNow, Tags: []string{"rock"}})

	updated, err := env.events.Update(ctx, &models.Event{ID: ev.ID, Description: "loud"})
	require.NoError(t, err)
	assert.Equal(t, "Gig", updated.Title)
	assert.Equal(t, "loud", updated.Description)
	assert.True(t, testNow.Equal(updated.StartTime))
	// No tag list in the update keeps the tags
	assert.Equal(t, []string{"rock"}, updated.Tags)

	updated, err = env.events.Update(ctx, &models.Event{ID: ev.ID, Tags: []string{}})
	require.NoError(t, err)
	assert.Empty(t, updated.Tags)

	_, err = env.events.Update(ctx, &models.Event{ID: ev.ID + 1, Title: "x"})
	requireHTTPError(t, err, http.StatusNotFound, ErrCodeEventNotFound)
}

func TestEventService_DeleteAndSetTags(t *testing.T) {
	env := newTestEnv(t)
	ctx := testCtx()
	ev := env.event(t, models.Event{Title: "Gig", StartTime: testNow})

	tagged, err := env.events.SetTags(ctx, ev.ID, []string{"b", "a"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, tagged.Tags)

	require.NoError(t, env.events.Delete(ctx, ev.ID))
	requireHTTPError(t, env.events.Delete(ctx, ev.ID), http.StatusNotFound, ErrCodeEventNotFound)
	_, err = env.events.Get(ctx, ev.ID)
	requireHTTPError(t, err, http.StatusNotFound, ErrCodeEventNotFound)
	_, err = env.events.SetTags(ctx, ev.ID, []string{"a"})
	requireHTTPError(t, err, http.StatusNotFound, ErrCodeEventNotFound)
}

func TestEventService_Search(t *testing.T) {
	env := newTestEnv(t)
	ctx := testCtx()
	for i, title := range []string{"Jazz 1", "Jazz 2", "Jazz 3", "Jazz 4", "Rock"} {
		env.event(t, models.Event{Title: title, StartTime: testNow.AddDate(0, 0, i)})
	}

	// The configured default limit applies
	list, err := env.events.Search(ctx, SearchRequest{Query: "jazz"})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Jazz 4", list[0].Title)

	list, err = env.events.Search(ctx, SearchRequest{
		Query:         "JAZZ",
		SearchOptions: models.SearchOptions{Order: models.OrderName, Limit: 2},
	})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Jazz 1", list[0].Title)
	assert.Equal(t, "Jazz 2", list[1].Title)

	_, err = env.events.Search(ctx, SearchRequest{SearchOptions: models.SearchOptions{Limit: 11}})
	he := requireHTTPError(t, err, http.StatusBadRequest, ErrCodeIllegalValue)
	assert.Equal(t, map[string]string{"field": "limit"}, he.Data())
}
