// Package database opens the SQLite database holding events and venues
package database

import (
	"database/sql"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/unicode/norm"

	"github.com/derWhity/eventcal/internal/log"
	"github.com/derWhity/eventcal/internal/migrate"
)

// FileName is the name of the database file inside the data directory
const FileName = "eventcal.db"

// DriverName is the SQLite driver with Unicode aware case folding. SQLite's own LOWER() only knows ASCII
const DriverName = "sqlite3_eventcal"

func init() {
	sql.Register(DriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("lower", Lower, true)
		},
	})
}

// Lower replaces SQLite's LOWER() function. NULL and non-text values are passed through unchanged
func Lower(v interface{}) interface{} {
	switch s := v.(type) {
	case string:
		return strings.ToLower(norm.NFC.String(s))
	case []byte:
		return strings.ToLower(norm.NFC.String(string(s)))
	}
	return v
}

// PathIn returns the path of the database file inside the given data directory
func PathIn(dataDir string) string {
	return filepath.Join(dataDir, FileName)
}

// Open opens the database file and performs all pending migrations
func Open(fileName string, logger *logrus.Entry) (*sqlx.DB, error) {
	logger.WithField(log.FldFile, fileName).Debug("Opening database")
	db, err := sqlx.Open(DriverName, fileName+"?_foreign_keys=on")
	if err != nil {
		return nil, errors.Wrap(err, "Open: Failed to open database connection")
	}
	logger.Info("Performing database migrations...")
	if err := migrate.ExecuteMigrationsOnDb(db, logger); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "Open: Database migration has failed")
	}
	return db, nil
}
