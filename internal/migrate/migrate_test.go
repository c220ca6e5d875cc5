package migrate

import (
	"io/ioutil"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Entry {
	l := logrus.New()
	l.Out = ioutil.Discard
	return logrus.NewEntry(l)
}

func openDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestExecuteMigrationsOnDb_CreatesSchema(t *testing.T) {
	db := openDB(t)
	require.NoError(t, ExecuteMigrationsOnDb(db, quietLogger()))

	var tables []string
	require.NoError(t, db.Select(&tables, `SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name`))
	for _, name := range []string{"Events", "Migrations", "Taggings", "Tags", "Venues"} {
		assert.Contains(t, tables, name)
	}

	version, err := CurrentVersion(db)
	require.NoError(t, err)
	assert.Equal(t, migrations[len(migrations)-1].Version, version)
}

func TestExecuteMigrationsOnDb_Idempotent(t *testing.T) {
	db := openDB(t)
	require.NoError(t, ExecuteMigrationsOnDb(db, quietLogger()))
	require.NoError(t, ExecuteMigrationsOnDb(db, quietLogger()))

	var count int
	require.NoError(t, db.Get(&count, `SELECT COUNT(*) FROM Migrations`))
	assert.Equal(t, len(migrations), count)
}

func TestCurrentVersion_EmptyDatabase(t *testing.T) {
	db := openDB(t)
	_, err := db.Exec(`CREATE TABLE Migrations (version INTEGER NOT NULL PRIMARY KEY, success INTEGER NOT NULL)`)
	require.NoError(t, err)
	version, err := CurrentVersion(db)
	require.NoError(t, err)
	assert.Zero(t, version)
}

func TestTagNamesAreUniqueIgnoringCase(t *testing.T) {
	db := openDB(t)
	require.NoError(t, ExecuteMigrationsOnDb(db, quietLogger()))

	_, err := db.Exec(`INSERT INTO Tags(name) VALUES('Jazz')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO Tags(name) VALUES('jazz')`)
	assert.Error(t, err)
}
