package models

import (
	"github.com/elithrar/simple-scrypt"
	"github.com/pkg/errors"
)

// User is an administrator allowed to manage events and venues
type User struct {
	// Internal user ID
	ID uint
	// The user name used to log-in
	Name string
	// The hashed password for authentication
	PasswordHash string
	// The full user name for display reasons
	FullName string
}

// SetPassword hashes the given password and stores the result in PasswordHash
func (u *User) SetPassword(pass string) error {
	hash, err := scrypt.GenerateFromPassword([]byte(pass), scrypt.DefaultParams)
	if err != nil {
		return errors.Wrap(err, "SetPassword: Error during password hashing")
	}
	// The hash is already string-encoded by scrypt
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword returns nil if the given password matches the stored hash
func (u *User) CheckPassword(pass string) error {
	return scrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(pass))
}
