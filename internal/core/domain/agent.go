package domain

import (
	"errors"
	"time"
)

var ErrAgentExists = errors.New("agent with this email already exists")
var ErrAgentNotFound = errors.New("agent not found")
var ErrNoActiveAgents = errors.New("no active agents available")
var ErrMissingFields = errors.New("all fields are required")

// Agent is a sales representative who receives a share of uploaded leads.
// AssignedCustomers holds the IDs of owned customers in assignment order; it
// is rebuilt together with the customer set on every upload so both sides of
// the relationship stay consistent.
type Agent struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	Mobile            string    `json:"mobile"`
	PasswordHash      string    `json:"-"`
	Active            bool      `json:"active"`
	AssignedCustomers []string  `json:"-"`
	CreatedAt         time.Time `json:"created_at"`
}
