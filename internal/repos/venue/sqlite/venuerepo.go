// Package sqlite provides a venue repository that stores its data inside a SQLite database
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/derWhity/eventcal/internal/log"
	"github.com/derWhity/eventcal/internal/models"
	"github.com/derWhity/eventcal/internal/repos"
)

const (
	venueFields = `title, address, url, createdAt, updatedAt`
	// Condition used by Find - $1 is the LIKE pattern
	venueSearch = `LOWER(title) LIKE $1 OR LOWER(address) LIKE $1`
)

// VenueRepo implements repos.VenueRepo on top of a SQLite database
type VenueRepo struct {
	db     *sqlx.DB
	logger *logrus.Entry
}

// New creates a new venue repository instance with the given database and logger
func New(db *sqlx.DB, logger *logrus.Entry) *VenueRepo {
	return &VenueRepo{
		db:     db,
		logger: logger,
	}
}

// Create creates a new venue
func (r *VenueRepo) Create(ctx context.Context, v *models.Venue) error {
	r.logger.WithField("title", v.Title).Debug("Adding new venue")
	query := fmt.Sprintf("INSERT INTO Venues(%s) VALUES(?, ?, ?, datetime('now'), datetime('now'))", venueFields)
	res, err := r.db.ExecContext(ctx, query, v.Title, v.Address, v.URL)
	if err != nil {
		return err
	}
	v.CreatedAt = time.Now().UTC().Truncate(time.Second)
	v.UpdatedAt = v.CreatedAt
	var id int64
	if id, err = res.LastInsertId(); err == nil {
		v.ID = uint(id)
	}
	return err
}

// Update updates the given venue
func (r *VenueRepo) Update(ctx context.Context, v *models.Venue) error {
	r.logger.WithField(log.FldVenue, v.ID).Debug("Updating venue")
	query := `UPDATE Venues SET title = ?, address = ?, url = ?, updatedAt = datetime('now') WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, v.Title, v.Address, v.URL, v.ID)
	if err != nil {
		return err
	}
	v.UpdatedAt = time.Now().UTC().Truncate(time.Second)
	var num int64
	if num, err = res.RowsAffected(); err == nil && num == 0 {
		return repos.ErrEntityNotExisting
	}
	return err
}

// Delete removes the venue - events at this venue lose their venue assignment
func (r *VenueRepo) Delete(ctx context.Context, id uint) error {
	r.logger.WithField(log.FldVenue, id).Debug("Deleting venue")
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "UPDATE Events SET venueId = NULL WHERE venueId = ?", id); err != nil {
		return repos.DoRollback(tx, err)
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM Venues WHERE id = ?", id)
	if err != nil {
		return repos.DoRollback(tx, err)
	}
	if num, err := res.RowsAffected(); err != nil || num == 0 {
		if err == nil {
			err = repos.ErrEntityNotExisting
		}
		return repos.DoRollback(tx, err)
	}
	return tx.Commit()
}

// GetByID returns the venue with the given ID
func (r *VenueRepo) GetByID(ctx context.Context, id uint) (*models.Venue, error) {
	r.logger.WithField(log.FldVenue, id).Debug("Loading venue")
	query := fmt.Sprintf("SELECT id, %s FROM Venues WHERE id = ?", venueFields)
	return r.getOne(ctx, query, id)
}

// GetByTitle returns the first venue having the given title (ignoring case)
func (r *VenueRepo) GetByTitle(ctx context.Context, title string) (*models.Venue, error) {
	query := fmt.Sprintf("SELECT id, %s FROM Venues WHERE LOWER(title) = LOWER(?) ORDER BY id LIMIT 1", venueFields)
	return r.getOne(ctx, query, title)
}

func (r *VenueRepo) getOne(ctx context.Context, query string, args ...interface{}) (*models.Venue, error) {
	var v models.Venue
	if err := r.db.GetContext(ctx, &v, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return nil, repos.ErrEntityNotExisting
		}
		return nil, err
	}
	return &v, nil
}

// Find searches for venues matching the given search string - supports pagination
// Returned is the requested page of the venues and the number of venues in the full result set
func (r *VenueRepo) Find(ctx context.Context, search string, offset uint, limit uint) ([]models.Venue, uint, error) {
	if limit == 0 {
		limit = models.DefaultSearchLimit
	}
	r.logger.WithFields(logrus.Fields{
		log.FldSearch: search,
		log.FldOffset: offset,
		log.FldLimit:  limit,
	}).Debug("Searching for venues")
	pattern := "%" + strings.ToLower(search) + "%"
	query := fmt.Sprintf(`SELECT id, %s FROM Venues WHERE %s
        ORDER BY LOWER(title), id
        LIMIT $2 OFFSET $3`, venueFields, venueSearch)
	ret := []models.Venue{}
	if err := r.db.SelectContext(ctx, &ret, query, pattern, limit, offset); err != nil {
		return nil, 0, err
	}
	// Query the full count
	var numRows uint
	if err := r.db.GetContext(ctx, &numRows, "SELECT COUNT(*) FROM Venues WHERE "+venueSearch, pattern); err != nil {
		return nil, 0, err
	}
	return ret, numRows, nil
}
