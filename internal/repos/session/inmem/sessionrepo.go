// Package inmem provides a session repository that holds the session data in-memory
package inmem

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/derWhity/eventcal/internal/models"
	"github.com/derWhity/eventcal/internal/repos"
)

const (
	// How long does a session last after the last update?
	expireMinutes = 60
)

// SessionRepo is a session repository that stores the session data in-memory
type SessionRepo struct {
	mu       sync.Mutex
	sessions map[string]models.Session
	lifetime time.Duration
	now      func() time.Time
}

// New creates a new session repository instance
func New() *SessionRepo {
	return &SessionRepo{
		sessions: make(map[string]models.Session),
		lifetime: expireMinutes * time.Minute,
		now:      time.Now,
	}
}

// CreateFor creates a new session for the given user ID
func (r *SessionRepo) CreateFor(userID uint) (*models.Session, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.purge()
	sess := models.Session{
		ID:        id.String(),
		UserID:    userID,
		ExpiresAt: r.now().Add(r.lifetime),
	}
	r.sessions[sess.ID] = sess
	return &sess, nil
}

// GetByID returns the session associated with the given session ID and extends its expiry if requested
func (r *SessionRepo) GetByID(sessionID string, extend bool) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sess, ok := r.sessions[sessionID]
	if !ok || sess.ExpiredAt(r.now()) {
		delete(r.sessions, sessionID)
		return nil, repos.ErrEntityNotExisting
	}
	if extend {
		sess.ExpiresAt = r.now().Add(r.lifetime)
		r.sessions[sessionID] = sess
	}
	return &sess, nil
}

// Delete removes a session from the session storage
func (r *SessionRepo) Delete(sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sessionID)
	return nil
}

// purge drops all expired sessions. The caller must hold the lock
func (r *SessionRepo) purge() {
	now := r.now()
	for id, sess := range r.sessions {
		if sess.ExpiredAt(now) {
			delete(r.sessions, id)
		}
	}
}
