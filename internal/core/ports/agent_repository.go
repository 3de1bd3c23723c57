package ports

import (
	"context"

	"github.com/leadpilot/lead-distribution/internal/core/domain"
)

// AgentRepository defines persistence operations for agents.
type AgentRepository interface {
	Create(ctx context.Context, agent *domain.Agent) (*domain.Agent, error)
	// List returns all agents in insertion order.
	List(ctx context.Context) ([]*domain.Agent, error)
	// FindActive returns up to limit agents flagged active, in insertion order.
	FindActive(ctx context.Context, limit int) ([]*domain.Agent, error)
}
