package domain

import (
	"errors"
	"time"
)

var ErrEmptyFile = errors.New("file is empty or invalid")
var ErrMissingColumns = errors.New("file must contain FirstName and Phone columns")
var ErrUploadInProgress = errors.New("another upload is already in progress")

// Customer is a single uploaded lead. Customers are created in bulk by an
// upload and only removed by the next upload's full replace (or by cascade
// when their agent is deleted); there is no per-customer mutation.
type Customer struct {
	ID            string    `json:"id"`
	FirstName     string    `json:"first_name"`
	Phone         string    `json:"phone"`
	Notes         string    `json:"notes"`
	AssignedAgent string    `json:"assigned_agent,omitempty"`
	UploadedAt    time.Time `json:"uploaded_at"`
}
