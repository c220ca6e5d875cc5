// Package repos contains the repository interfaces needed by the event services
// It exists to prevent circular dependencies between the services and the repo implementations
package repos

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/derWhity/eventcal/internal/models"
)

var (
	// ErrEntityNotExisting is returned by a repository when an entity that is read, updated or deleted does not exist
	ErrEntityNotExisting = fmt.Errorf("entity does not exist")
)

// EventRepo defines a repository that handles storing and searching events
type EventRepo interface {
	// Create creates a new event
	Create(ctx context.Context, ev *models.Event) error
	// Update updates the given event
	Update(ctx context.Context, ev *models.Event) error
	// Delete removes the given event together with its tag assignments
	Delete(ctx context.Context, id uint) error
	// GetByID returns the event with the given ID including venue and tags
	GetByID(ctx context.Context, id uint) (*models.Event, error)
	// SetTags replaces the tags of the given event. Tags that do not exist yet are created
	SetTags(ctx context.Context, eventID uint, tags []string) error
	// Search returns the distinct events matching the search text and options
	Search(ctx context.Context, query string, opts models.SearchOptions) ([]models.Event, error)
}

// VenueRepo defines a repository that handles storing and querying venues
type VenueRepo interface {
	// Create creates a new venue
	Create(ctx context.Context, v *models.Venue) error
	// Update updates the given venue
	Update(ctx context.Context, v *models.Venue) error
	// Delete removes the venue - events at this venue lose their venue assignment
	Delete(ctx context.Context, id uint) error
	// GetByID returns the venue with the given ID
	GetByID(ctx context.Context, id uint) (*models.Venue, error)
	// GetByTitle returns the first venue having the given title (ignoring case)
	GetByTitle(ctx context.Context, title string) (*models.Venue, error)
	// Find searches for venues matching the given search string - supports pagination
	Find(ctx context.Context, search string, offset uint, limit uint) ([]models.Venue, uint, error)
}

// UserRepo defines a repository that is able to store and authenticate users
type UserRepo interface {
	// Create creates a new user
	Create(u *models.User) error
	// GetByID returns the user with the given ID
	GetByID(id uint) (*models.User, error)
	// GetByCredentials returns the user which has the given username and password - this is used for login
	GetByCredentials(username string, password string) (*models.User, error)
}

// SessionRepo stores information about active API sessions
type SessionRepo interface {
	// CreateFor creates a new session for the given user ID
	CreateFor(userID uint) (*models.Session, error)
	// GetByID returns the session associated with the given session ID and extends its expiry if requested
	GetByID(sessionID string, extend bool) (*models.Session, error)
	// Delete removes a session from the session storage
	Delete(sessionID string) error
}

// -- Helpers for SQLX repos -------------------------------------------------------------------------------------------

// DoRollback rolls back a transaction and catches any error resulting from it while appending the original error
func DoRollback(tx *sqlx.Tx, originalError error) error {
	if err := tx.Rollback(); err != nil {
		return fmt.Errorf("doRollback: Transaction rollback failed: %v; Recent error: %v", err, originalError)
	}
	return originalError
}

// NullableID converts an ID into a value that is stored as NULL if the ID is 0
func NullableID(id uint) interface{} {
	if id == 0 {
		return nil
	}
	return int64(id)
}
