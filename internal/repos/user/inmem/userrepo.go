// Package inmem provides a user repository that works from memory.
package inmem

import (
	"fmt"
	"strings"
	"sync"

	"github.com/derWhity/eventcal/internal/models"
	"github.com/derWhity/eventcal/internal/repos"
)

// UserRepo provides a simple in-memory user storage
type UserRepo struct {
	sync.RWMutex
	users map[uint]models.User
	// The maximum user ID currently in the storage
	maxUserID uint
}

// New creates a new user repository instance
func New() *UserRepo {
	return &UserRepo{
		users: make(map[uint]models.User),
	}
}

// Create creates a new user - a user ID of 0 assigns the next free ID
func (r *UserRepo) Create(u *models.User) error {
	r.Lock()
	defer r.Unlock()
	if u.ID == 0 {
		u.ID = r.maxUserID + 1
	} else if _, ok := r.users[u.ID]; ok {
		return fmt.Errorf("Create: A user with ID %d does already exist", u.ID)
	}
	u.Name = strings.ToLower(strings.TrimSpace(u.Name))
	for _, existing := range r.users {
		if existing.Name == u.Name {
			return fmt.Errorf("Create: User name '%s' is already taken", u.Name)
		}
	}
	if r.maxUserID < u.ID {
		r.maxUserID = u.ID
	}
	r.users[u.ID] = *u
	return nil
}

// GetByID returns the user with the given ID
func (r *UserRepo) GetByID(id uint) (*models.User, error) {
	r.RLock()
	defer r.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repos.ErrEntityNotExisting
	}
	return &u, nil
}

// GetByCredentials returns the user which has the given username and password - nil if there is no such user
func (r *UserRepo) GetByCredentials(username string, password string) (*models.User, error) {
	r.RLock()
	defer r.RUnlock()
	username = strings.ToLower(strings.TrimSpace(username))
	for _, u := range r.users {
		if u.Name == username && u.CheckPassword(password) == nil {
			ret := u
			return &ret, nil
		}
	}
	return nil, nil
}
