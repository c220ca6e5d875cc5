package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/derWhity/eventcal/internal/models"
	"github.com/derWhity/eventcal/internal/repos"
	"github.com/derWhity/eventcal/internal/testdb"
)

func TestVenueRepo_CRUD(t *testing.T) {
	db := testdb.Open(t)
	r := New(db, testdb.Logger())
	ctx := context.Background()

	v := models.Venue{Title: "Blue Note", Address: "131 W 3rd St", URL: "https://bluenote.net"}
	require.NoError(t, r.Create(ctx, &v))
	assert.NotZero(t, v.ID)

	got, err := r.GetByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, "Blue Note", got.Title)
	assert.Equal(t, "131 W 3rd St", got.Address)
	assert.False(t, got.CreatedAt.IsZero())

	got.Title = "The Blue Note"
	require.NoError(t, r.Update(ctx, got))
	got, err = r.GetByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, "The Blue Note", got.Title)

	require.NoError(t, r.Delete(ctx, v.ID))
	_, err = r.GetByID(ctx, v.ID)
	assert.Equal(t, repos.ErrEntityNotExisting, err)
	assert.Equal(t, repos.ErrEntityNotExisting, r.Delete(ctx, v.ID))
	assert.Equal(t, repos.ErrEntityNotExisting, r.Update(ctx, &models.Venue{ID: v.ID, Title: "x"}))
}

func TestVenueRepo_DeleteDetachesEvents(t *testing.T) {
	db := testdb.Open(t)
	r := New(db, testdb.Logger())
	ctx := context.Background()

	v := models.Venue{Title: "Apollo"}
	require.NoError(t, r.Create(ctx, &v))
	_, err := db.Exec(`INSERT INTO Events(title, startTime, venueId) VALUES('Show', ?, ?)`, time.Now().UTC(), v.ID)
	require.NoError(t, err)

	require.NoError(t, r.Delete(ctx, v.ID))
	var orphans int
	require.NoError(t, db.Get(&orphans, `SELECT COUNT(*) FROM Events WHERE venueId IS NOT NULL`))
	assert.Zero(t, orphans)
	var events int
	require.NoError(t, db.Get(&events, `SELECT COUNT(*) FROM Events`))
	assert.Equal(t, 1, events)
}

func TestVenueRepo_GetByTitle(t *testing.T) {
	db := testdb.Open(t)
	r := New(db, testdb.Logger())
	ctx := context.Background()

	v := models.Venue{Title: "Apollo"}
	require.NoError(t, r.Create(ctx, &v))

	got, err := r.GetByTitle(ctx, "APOLLO")
	require.NoError(t, err)
	assert.Equal(t, v.ID, got.ID)

	_, err = r.GetByTitle(ctx, "Apollon")
	assert.Equal(t, repos.ErrEntityNotExisting, err)

	ue := models.Venue{Title: "Überseeheim"}
	require.NoError(t, r.Create(ctx, &ue))
	got, err = r.GetByTitle(ctx, "ÜBERSEEHEIM")
	require.NoError(t, err)
	assert.Equal(t, ue.ID, got.ID)
}

func TestVenueRepo_Find(t *testing.T) {
	db := testdb.Open(t)
	r := New(db, testdb.Logger())
	ctx := context.Background()

	for _, v := range []models.Venue{
		{Title: "cafe Oto", Address: "Ashwin Street"},
		{Title: "Apollo", Address: "Harlem"},
		{Title: "Blue Note", Address: "Greenwich Village"},
		{Title: "Jazz Cafe", Address: "Camden"},
	} {
		v := v
		require.NoError(t, r.Create(ctx, &v))
	}

	list, total, err := r.Find(ctx, "CAFE", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, uint(2), total)
	require.Len(t, list, 2)
	assert.Equal(t, "cafe Oto", list[0].Title)
	assert.Equal(t, "Jazz Cafe", list[1].Title)

	list, total, err = r.Find(ctx, "", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, uint(4), total)
	require.Len(t, list, 2)
	assert.Equal(t, "Blue Note", list[0].Title)
	assert.Equal(t, "cafe Oto", list[1].Title)

	list, total, err = r.Find(ctx, "harlem", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, uint(1), total)
	assert.Equal(t, "Apollo", list[0].Title)
}
