package ports

import (
	"context"
	"time"

	"github.com/leadpilot/lead-distribution/internal/core/domain"
)

// CreateAgentInput carries the data needed to register a new agent.
type CreateAgentInput struct {
	Name     string
	Email    string
	Mobile   string
	Password string
}

// AgentView is an agent with its assigned customers resolved and the password
// hash stripped. It is the only agent shape that leaves the service layer.
type AgentView struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Email     string            `json:"email"`
	Mobile    string            `json:"mobile"`
	Active    bool              `json:"active"`
	CreatedAt time.Time         `json:"created_at"`
	Customers []domain.Customer `json:"customers"`
}

// AgentService defines use-case operations for the agent roster.
type AgentService interface {
	Create(ctx context.Context, input CreateAgentInput) (*domain.Agent, error)
	List(ctx context.Context) ([]AgentView, error)
	// Delete removes the agent and cascade-deletes its assigned customers.
	Delete(ctx context.Context, id string) error
}
