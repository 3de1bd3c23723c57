package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/leadpilot/lead-distribution/internal/api/metrics"
	"github.com/leadpilot/lead-distribution/internal/core/domain"
	"github.com/leadpilot/lead-distribution/internal/core/ports"
)

// AgentService implements roster management for sales agents.
type AgentService struct {
	agents    ports.AgentRepository
	customers ports.CustomerRepository
	store     ports.DistributionStore
	logger    zerolog.Logger
}

func NewAgentService(agents ports.AgentRepository, customers ports.CustomerRepository, store ports.DistributionStore, logger zerolog.Logger) *AgentService {
	return &AgentService{agents: agents, customers: customers, store: store, logger: logger}
}

// Create registers a new agent. All four fields are required after trimming;
// the password is hashed before storage and never leaves the service.
func (s *AgentService) Create(ctx context.Context, input ports.CreateAgentInput) (*domain.Agent, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	mobile := strings.TrimSpace(input.Mobile)
	if name == "" || email == "" || mobile == "" || input.Password == "" {
		return nil, domain.ErrMissingFields
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	agent := &domain.Agent{
		Name:              name,
		Email:             email,
		Mobile:            mobile,
		PasswordHash:      string(hash),
		Active:            true,
		AssignedCustomers: []string{},
		CreatedAt:         time.Now().UTC(),
	}

	created, err := s.agents.Create(ctx, agent)
	if err != nil {
		return nil, err
	}

	metrics.AgentsCreatedTotal.Inc()
	s.logger.Info().Str("agent_id", created.ID).Str("email", created.Email).Msg("agent created")
	return created, nil
}

// List returns all agents in insertion order with their assigned customers
// resolved to full records.
func (s *AgentService) List(ctx context.Context) ([]ports.AgentView, error) {
	agents, err := s.agents.List(ctx)
	if err != nil {
		return nil, err
	}
	return resolveAgents(ctx, s.customers, agents)
}

// Delete removes the agent and cascade-deletes its assigned customers, so no
// customer is left referencing a missing agent.
func (s *AgentService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteAgent(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("agent_id", id).Msg("agent deleted with assigned customers")
	return nil
}

// resolveAgents expands each agent's assignment list into customer records,
// preserving assignment order.
func resolveAgents(ctx context.Context, customers ports.CustomerRepository, agents []*domain.Agent) ([]ports.AgentView, error) {
	var ids []string
	for _, a := range agents {
		ids = append(ids, a.AssignedCustomers...)
	}

	byID, err := customers.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]ports.AgentView, 0, len(agents))
	for _, a := range agents {
		resolved := make([]domain.Customer, 0, len(a.AssignedCustomers))
		for _, id := range a.AssignedCustomers {
			if c, ok := byID[id]; ok {
				resolved = append(resolved, c)
			}
		}
		views = append(views, ports.AgentView{
			ID:        a.ID,
			Name:      a.Name,
			Email:     a.Email,
			Mobile:    a.Mobile,
			Active:    a.Active,
			CreatedAt: a.CreatedAt,
			Customers: resolved,
		})
	}
	return views, nil
}
