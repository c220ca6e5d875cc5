// Package migrate handles SQL database migration for the event database
package migrate

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var migrations []dbMigration

type dbMigration struct {
	Version uint
	Queries []string
}

// applied checks if the migration has already been executed successfully
func (mig *dbMigration) applied(db *sqlx.DB) (bool, error) {
	var success bool
	err := db.Get(&success, `SELECT success FROM Migrations WHERE version = ?`, mig.Version)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return success, err
}

// Execute runs the current DB migration on the given database. All queries of a migration run inside one transaction
func (mig *dbMigration) Execute(db *sqlx.DB, logger *logrus.Entry) error {
	done, err := mig.applied(db)
	if err != nil {
		logger.WithError(err).Error("Failed to fetch version information")
		return err
	}
	if done {
		return nil
	}
	logger.Infof("Executing DB migration #%d", mig.Version)
	tx, err := db.Beginx()
	if err != nil {
		return errors.Wrap(err, "Execute: Failed to start transaction")
	}
	for i, query := range mig.Queries {
		logger.Debugf("Query %d of %d...", i+1, len(mig.Queries))
		if _, err := tx.Exec(query); err != nil {
			logger.WithError(err).Errorf("Query #%d failed", i+1)
			if rbErr := tx.Rollback(); rbErr != nil {
				logger.WithError(rbErr).Error("Rollback failed")
			}
			return errors.Wrapf(err, "Execute: Query #%d of migration #%d failed", i+1, mig.Version)
		}
	}
	if _, err := tx.Exec(`REPLACE INTO Migrations(version, success) VALUES(?, 1)`, mig.Version); err != nil {
		tx.Rollback()
		return errors.Wrap(err, "Execute: Failed to store migration status")
	}
	return tx.Commit()
}

// ExecuteMigrationsOnDb executes the database migrations on the given database instance
func ExecuteMigrationsOnDb(db *sqlx.DB, logger *logrus.Entry) error {
	// Create the migrations table if it does not exist, yet
	query := `CREATE TABLE IF NOT EXISTS Migrations (
                version   INTEGER NOT NULL,
                success   INTEGER NOT NULL DEFAULT 0,
                PRIMARY KEY(version)
            )`
	if _, err := db.Exec(query); err != nil {
		logger.WithError(err).Error("Failed to create migrations table")
		return err
	}
	for _, mig := range migrations {
		if err := mig.Execute(db, logger); err != nil {
			logger.WithError(err).Errorf("Failed to execute migration #%d", mig.Version)
			return err
		}
	}
	return nil
}

// CurrentVersion returns the highest migration version applied to the database
func CurrentVersion(db *sqlx.DB) (uint, error) {
	var version sql.NullInt64
	if err := db.Get(&version, `SELECT MAX(version) FROM Migrations WHERE success = 1`); err != nil {
		return 0, err
	}
	return uint(version.Int64), nil
}

func init() {
	migrations = []dbMigration{
		{
			Version: 1,
			Queries: []string{
				`CREATE TABLE "Venues" (
                    id INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT,
                    title VARCHAR(255) NOT NULL DEFAULT '',
                    address VARCHAR(512) NOT NULL DEFAULT '',
                    url VARCHAR(1024) NOT NULL DEFAULT '',
                    createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
                    updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
                );`,
				`CREATE TABLE "Events" (
                    id INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT,
                    title VARCHAR(255) NOT NULL DEFAULT '',
                    description TEXT NOT NULL DEFAULT '',
                    url VARCHAR(1024) NOT NULL DEFAULT '',
                    startTime DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
                    venueId INTEGER NULL REFERENCES Venues(id) ON DELETE SET NULL,
                    createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
                    updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
                );`,
				`CREATE TABLE "Tags" (
                    id INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT,
                    name VARCHAR(128) NOT NULL UNIQUE COLLATE NOCASE
                );`,
				`CREATE TABLE "Taggings" (
                    eventId INTEGER NOT NULL REFERENCES Events(id) ON DELETE CASCADE,
                    tagId INTEGER NOT NULL REFERENCES Tags(id) ON DELETE CASCADE,
                    PRIMARY KEY(eventId, tagId)
                );`,
				`CREATE INDEX idx_event_start ON Events (startTime DESC);`,
				`CREATE INDEX idx_event_venue ON Events (venueId ASC);`,
				`CREATE INDEX idx_venue_title ON Venues (title ASC);`,
				`CREATE INDEX idx_tagging_tag ON Taggings (tagId ASC);`,
			},
		},
	}
}
