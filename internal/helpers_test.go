package internal

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/derWhity/eventcal/internal/ctxhelper"
	"github.com/derWhity/eventcal/internal/models"
	eventrepo "github.com/derWhity/eventcal/internal/repos/event/sqlite"
	sessionrepo "github.com/derWhity/eventcal/internal/repos/session/inmem"
	userrepo "github.com/derWhity/eventcal/internal/repos/user/inmem"
	venuerepo "github.com/derWhity/eventcal/internal/repos/venue/sqlite"
	"github.com/derWhity/eventcal/internal/search"
	"github.com/derWhity/eventcal/internal/testdb"
)

var testNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	events   EventService
	venues   VenueService
	sessions SessionService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testdb.Open(t)
	logger := testdb.Logger()
	builder := search.Builder{
		Now:          func() time.Time { return testNow },
		DefaultLimit: 3,
		MaxLimit:     10,
	}
	evRepo := eventrepo.New(db, builder, logger)
	vRepo := venuerepo.New(db, logger)
	users := userrepo.New()
	admin := models.User{Name: "admin", FullName: "Administrator"}
	require.NoError(t, admin.SetPassword("changeme"))
	require.NoError(t, users.Create(&admin))
	return &testEnv{
		events:   NewEventService(evRepo, vRepo, logger),
		venues:   NewVenueService(vRepo, logger),
		sessions: NewSessionService(sessionrepo.New(), users, logger),
	}
}

func testCtx() context.Context {
	return ctxhelper.WithLogger(context.Background(), testdb.Logger())
}

func (e *testEnv) venue(t *testing.T, title string) uint {
	t.Helper()
	v, err := e.venues.Create(testCtx(), &models.Venue{Title: title})
	require.NoError(t, err)
	return v.ID
}

func (e *testEnv) event(t *testing.T, ev models.Event) *models.Event {
	t.Helper()
	ret, err := e.events.Create(testCtx(), &ev)
	require.NoError(t, err)
	return ret
}

func requireHTTPError(t *testing.T, err error, status int, code string) *HTTPError {
	t.Helper()
	require.Error(t, err)
	he, ok := err.(*HTTPError)
	require.True(t, ok, "expected *HTTPError, got %T: %v", err, err)
	require.Equal(t, status, he.Status())
	require.Equal(t, code, he.ErrorCode())
	return he
}
