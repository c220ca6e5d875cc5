// Package sqlite provides an event repository that stores its data inside a SQLite database
package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/derWhity/eventcal/internal/log"
	"github.com/derWhity/eventcal/internal/models"
	"github.com/derWhity/eventcal/internal/repos"
	"github.com/derWhity/eventcal/internal/search"
)

const (
	tagsOfEventsQuery = `SELECT Taggings.eventId, Tags.name FROM Taggings
        JOIN Tags ON Tags.id = Taggings.tagId
        WHERE Taggings.eventId IN (?)
        ORDER BY LOWER(Tags.name)`
)

// EventRepo is an repository that stores its data inside a SQLite database
type EventRepo struct {
	db      *sqlx.DB
	builder search.Builder
	logger  *logrus.Entry
}

// New creates a new event repository instance. Searches are built by the given builder
func New(db *sqlx.DB, builder search.Builder, logger *logrus.Entry) *EventRepo {
	return &EventRepo{
		db:      db,
		builder: builder,
		logger:  logger,
	}
}

// dbTime converts a timestamp to the form stored in the database. Storing everything as UTC with second precision
// keeps the text representation SQLite compares in chronological order
func dbTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

// Create creates a new event
func (r *EventRepo) Create(ctx context.Context, ev *models.Event) error {
	r.logger.WithField("title", ev.Title).Debug("Adding new event")
	query := `INSERT INTO Events(title, description, url, startTime, venueId, createdAt, updatedAt)
        VALUES(?, ?, ?, ?, ?, datetime('now'), datetime('now'))`
	res, err := r.db.ExecContext(ctx, query,
		ev.Title, ev.Description, ev.URL, dbTime(ev.StartTime), repos.NullableID(ev.VenueID),
	)
	if err != nil {
		return err
	}
	ev.StartTime = dbTime(ev.StartTime)
	ev.CreatedAt = dbTime(time.Now())
	ev.UpdatedAt = ev.CreatedAt
	var id int64
	if id, err = res.LastInsertId(); err == nil {
		ev.ID = uint(id)
	}
	return err
}

// Update updates the given event
func (r *EventRepo) Update(ctx context.Context, ev *models.Event) error {
	r.logger.WithField(log.FldID, ev.ID).Debug("Updating event")
	query := `UPDATE Events SET title = ?, description = ?, url = ?, startTime = ?, venueId = ?,
        updatedAt = datetime('now') WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		ev.Title, ev.Description, ev.URL, dbTime(ev.StartTime), repos.NullableID(ev.VenueID), ev.ID,
	)
	if err != nil {
		return err
	}
	ev.UpdatedAt = dbTime(time.Now())
	var num int64
	if num, err = res.RowsAffected(); err == nil && num == 0 {
		return repos.ErrEntityNotExisting
	}
	return err
}

// Delete removes the given event together with its tag assignments
func (r *EventRepo) Delete(ctx context.Context, id uint) error {
	r.logger.WithField(log.FldID, id).Debug("Deleting event")
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "Delete: Failed to start transaction")
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM Taggings WHERE eventId = ?", id); err != nil {
		return repos.DoRollback(tx, err)
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM Events WHERE id = ?", id)
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

// GetByID returns the event with the given ID including venue and tags
func (r *EventRepo) GetByID(ctx context.Context, id uint) (*models.Event, error) {
	r.logger.WithField(log.FldID, id).Debug("Loading event")
	query, args := search.Base().Where("Events.id = ?", id).SQL()
	var ev models.Event
	if err := r.db.GetContext(ctx, &ev, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return nil, repos.ErrEntityNotExisting
		}
		return nil, err
	}
	events := []models.Event{ev}
	if err := r.attachRelations(ctx, events); err != nil {
		return nil, err
	}
	return &events[0], nil
}

// SetTags replaces the tags of the given event. Tags that do not exist yet are created
func (r *EventRepo) SetTags(ctx context.Context, eventID uint, tags []string) error {
	tags = models.NormalizeTags(tags)
	r.logger.WithFields(logrus.Fields{
		log.FldID:   eventID,
		log.FldTags: tags,
	}).Debug("Setting event tags")
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "SetTags: Failed to start transaction")
	}
	var num int
	if err := tx.GetContext(ctx, &num, "SELECT COUNT(*) FROM Events WHERE id = ?", eventID); err != nil {
		return repos.DoRollback(tx, err)
	}
	if num == 0 {
		return repos.DoRollback(tx, repos.ErrEntityNotExisting)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM Taggings WHERE eventId = ?", eventID); err != nil {
		return repos.DoRollback(tx, err)
	}
	for _, name := range tags {
		id, err := tagID(ctx, tx, name)
		if err != nil {
			return repos.DoRollback(tx, err)
		}
		if _, err := tx.ExecContext(ctx, "INSERT OR IGNORE INTO Taggings(eventId, tagId) VALUES(?, ?)",
			eventID, id,
		); err != nil {
			return repos.DoRollback(tx, err)
		}
	}
	return tx.Commit()
}

// tagID returns the ID of the tag with the given name, creating it if needed. Names are compared with the
// Unicode aware LOWER() of the database driver, the NOCASE collation only covers ASCII
func tagID(ctx context.Context, tx *sqlx.Tx, name string) (uint, error) {
	var id uint
	err := tx.GetContext(ctx, &id, "SELECT id FROM Tags WHERE LOWER(name) = LOWER(?) ORDER BY id LIMIT 1", name)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, errors.Wrapf(err, "SetTags: Failed to load tag '%s'", name)
	}
	res, err := tx.ExecContext(ctx, "INSERT INTO Tags(name) VALUES(?)", name)
	if err != nil {
		return 0, errors.Wrapf(err, "SetTags: Failed to create tag '%s'", name)
	}
	newID, err := res.LastInsertId()
	if err != nil {
		return 0, errors.Wrapf(err, "SetTags: Failed to get the ID of tag '%s'", name)
	}
	return uint(newID), nil
}

// Search returns the distinct events matching the search text and options. Validation errors of the options are
// returned before anything is sent to the database, database errors are returned unchanged
func (r *EventRepo) Search(ctx context.Context, query string, opts models.SearchOptions) ([]models.Event, error) {
	scope, err := r.builder.Build(query, opts)
	if err != nil {
		return nil, err
	}
	stmt, args := scope.SQL()
	r.logger.WithFields(logrus.Fields{
		log.FldSearch:  query,
		log.FldOrder:   opts.Order,
		log.FldLimit:   scope.MaxRows(),
		log.FldSkipOld: opts.SkipOld,
	}).Debug("Searching for events")
	ret := []models.Event{}
	if err := r.db.SelectContext(ctx, &ret, stmt, args...); err != nil {
		return nil, err
	}
	if err := r.attachRelations(ctx, ret); err != nil {
		return nil, err
	}
	r.logger.WithField(log.FldCount, len(ret)).Debug("Event search finished")
	return ret, nil
}

// attachRelations removes empty venues left by the outer join and loads the tags of all given events with a single
// query
func (r *EventRepo) attachRelations(ctx context.Context, events []models.Event) error {
	if len(events) == 0 {
		return nil
	}
	ids := make([]uint, 0, len(events))
	idx := make(map[uint]int, len(events))
	for i := range events {
		ev := &events[i]
		if ev.Venue != nil && ev.Venue.ID == 0 {
			ev.Venue = nil
		}
		ev.Tags = []string{}
		ids = append(ids, ev.ID)
		idx[ev.ID] = i
	}
	query, args, err := sqlx.In(tagsOfEventsQuery, ids)
	if err != nil {
		return errors.Wrap(err, "attachRelations: Failed to expand tag query")
	}
	var taggings []models.Tagging
	if err := r.db.SelectContext(ctx, &taggings, r.db.Rebind(query), args...); err != nil {
		return err
	}
	for _, t := range taggings {
		if i, ok := idx[t.EventID]; ok {
			events[i].Tags = append(events[i].Tags, t.TagName)
		}
	}
	return nil
}
