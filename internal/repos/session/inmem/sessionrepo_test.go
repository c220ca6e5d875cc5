package inmem

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/derWhity/eventcal/internal/repos"
)

func TestSessionRepo_Lifecycle(t *testing.T) {
	r := New()
	sess, err := r.CreateFor(7)
	require.NoError(t, err)
	assert.Len(t, sess.ID, 36)
	assert.Equal(t, uint(7), sess.UserID)

	got, err := r.GetByID(sess.ID, false)
	require.NoError(t, err)
	assert.Equal(t, *sess, *got)

	other, err := r.CreateFor(7)
	require.NoError(t, err)
	assert.NotEqual(t, sess.ID, other.ID)

	require.NoError(t, r.Delete(sess.ID))
	_, err = r.GetByID(sess.ID, false)
	assert.Equal(t, repos.ErrEntityNotExisting, err)
}

func TestSessionRepo_Expiry(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	r := New()
	r.now = func() time.Time { return now }

	sess, err := r.CreateFor(1)
	require.NoError(t, err)

	// Reading with extension pushes the expiry
	now = now.Add(50 * time.Minute)
	got, err := r.GetByID(sess.ID, true)
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Hour), got.ExpiresAt)

	// Reading without extension keeps it
	now = now.Add(59 * time.Minute)
	_, err = r.GetByID(sess.ID, false)
	require.NoError(t, err)

	now = now.Add(time.Minute)
	_, err = r.GetByID(sess.ID, false)
	assert.Equal(t, repos.ErrEntityNotExisting, err)
}

func TestSessionRepo_PurgesExpiredOnCreate(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	r := New()
	r.now = func() time.Time { return now }

	_, err := r.CreateFor(1)
	require.NoError(t, err)
	now = now.Add(2 * time.Hour)
	_, err = r.CreateFor(2)
	require.NoError(t, err)
	assert.Len(t, r.sessions, 1)
}
