package ports

import (
	"context"

	"github.com/leadpilot/lead-distribution/internal/core/domain"
)

// UploadInput is the raw spreadsheet as received from the transport layer.
type UploadInput struct {
	Filename    string
	ContentType string
	Data        []byte
}

// AssignedRow is a parsed spreadsheet row bound to the agent that will own it.
type AssignedRow struct {
	FirstName string
	Phone     string
	Notes     string
	AgentID   string
}

// DistributionEntry is one agent's slice of the current distribution.
type DistributionEntry struct {
	AgentID        string            `json:"agentId"`
	AgentName      string            `json:"agentName"`
	Email          string            `json:"email"`
	Mobile         string            `json:"mobile"`
	CustomersCount int               `json:"customersCount"`
	Customers      []domain.Customer `json:"customers"`
}

// UploadResult is returned after a successful upload and distribution.
type UploadResult struct {
	Uploaded     int
	Distribution []DistributionEntry
}

// DistributionService parses uploads, assigns rows to agents round-robin, and
// projects the resulting assignment state.
type DistributionService interface {
	Upload(ctx context.Context, input UploadInput) (*UploadResult, error)
	Distribution(ctx context.Context) ([]DistributionEntry, error)
}

// DistributionStore executes the destructive phase of an upload atomically:
// delete every customer, insert the new batch in file order, and rewrite all
// agent assignment lists. A mid-operation failure leaves prior state intact.
type DistributionStore interface {
	ReplaceAll(ctx context.Context, rows []AssignedRow) ([]domain.Customer, error)
	// DeleteAgent removes the agent and its assigned customers in one
	// transaction. Returns domain.ErrAgentNotFound when the id is unknown.
	DeleteAgent(ctx context.Context, id string) error
}

// UploadLocker serializes uploads so two concurrent replace operations cannot
// interleave their delete/insert/update steps.
type UploadLocker interface {
	// Acquire fails with domain.ErrUploadInProgress when the lock is held.
	Acquire(ctx context.Context) error
	Release(ctx context.Context) error
}
