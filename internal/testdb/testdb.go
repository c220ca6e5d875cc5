// Package testdb provides migrated in-memory SQLite databases for tests
package testdb

import (
	"io/ioutil"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/derWhity/eventcal/internal/database"
	"github.com/derWhity/eventcal/internal/migrate"
)

// Logger returns a logger that discards everything
func Logger() *logrus.Entry {
	l := logrus.New()
	l.Out = ioutil.Discard
	return logrus.NewEntry(l)
}

// Open creates a new in-memory database with all migrations applied. It is closed when the test ends
func Open(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open(database.DriverName, ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	// Every connection to :memory: would open its own, empty database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, migrate.ExecuteMigrationsOnDb(db, Logger()))
	return db
}
