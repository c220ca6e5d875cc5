package database_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/derWhity/eventcal/internal/database"
	"github.com/derWhity/eventcal/internal/migrate"
	"github.com/derWhity/eventcal/internal/testdb"
)

func TestOpen(t *testing.T) {
	fn := database.PathIn(t.TempDir())
	assert.Equal(t, database.FileName, filepath.Base(fn))

	db, err := database.Open(fn, testdb.Logger())
	require.NoError(t, err)
	version, err := migrate.CurrentVersion(db)
	require.NoError(t, err)
	assert.NotZero(t, version)
	require.NoError(t, db.Close())

	// Reopening an existing database works as well
	db, err = database.Open(fn, testdb.Logger())
	require.NoError(t, err)
	require.NoError(t, db.Close())
}

func TestLower(t *testing.T) {
	tests := []struct {
		in   interface{}
		want interface{}
	}{
		{"JAZZ Night", "jazz night"},
		{"ÜBER", "über"},
		{"Ökologie", "ökologie"},
		{"ÄPFEL", "äpfel"},
		{"U\u0308BER", "über"}, // decomposed umlaut
		{[]byte("ÖL"), "öl"},
		{nil, nil},
		{int64(42), int64(42)},
	}
	for _, test := range tests {
		assert.Equal(t, test.want, database.Lower(test.in), "%v", test.in)
	}
}

func TestLowerIsUsedBySQL(t *testing.T) {
	db := testdb.Open(t)
	var got string
	require.NoError(t, db.Get(&got, `SELECT LOWER('ÜBER Ökologie')`))
	assert.Equal(t, "über ökologie", got)

	var null *string
	require.NoError(t, db.Get(&null, `SELECT LOWER(NULL)`))
	assert.Nil(t, null)

	var matches bool
	require.NoError(t, db.Get(&matches, `SELECT LOWER('STRAßENFEST') LIKE ?`, "%straßen%"))
	assert.True(t, matches)
}

func TestOpen_FileUsesUnicodeLower(t *testing.T) {
	db, err := database.Open(database.PathIn(t.TempDir()), testdb.Logger())
	require.NoError(t, err)
	defer db.Close()
	var got string
	require.NoError(t, db.Get(&got, `SELECT LOWER('ÄRGER')`))
	assert.Equal(t, "ärger", got)
}
