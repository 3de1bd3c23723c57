package domain

import (
	"errors"
	"time"
)

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrAdminExists = errors.New("admin already exists")
var ErrAdminNotFound = errors.New("admin not found")

// Admin models the single administrator account. Exactly one record is
// expected; it is created by the setup-admin bootstrap and never deleted.
type Admin struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
