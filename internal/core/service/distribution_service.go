package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/leadpilot/lead-distribution/internal/api/metrics"
	"github.com/leadpilot/lead-distribution/internal/core/domain"
	"github.com/leadpilot/lead-distribution/internal/core/ports"
	"github.com/leadpilot/lead-distribution/internal/ingest"
)

const defaultMaxAgents = 5

// DistributionService implements the upload-and-distribute pipeline and the
// read-only distribution projection.
type DistributionService struct {
	agents    ports.AgentRepository
	customers ports.CustomerRepository
	store     ports.DistributionStore
	lock      ports.UploadLocker
	maxAgents int
	logger    zerolog.Logger
}

func NewDistributionService(
	agents ports.AgentRepository,
	customers ports.CustomerRepository,
	store ports.DistributionStore,
	lock ports.UploadLocker,
	maxAgents int,
	logger zerolog.Logger,
) *DistributionService {
	if maxAgents <= 0 {
		maxAgents = defaultMaxAgents
	}
	return &DistributionService{
		agents:    agents,
		customers: customers,
		store:     store,
		lock:      lock,
		maxAgents: maxAgents,
		logger:    logger,
	}
}

// Upload parses the spreadsheet, assigns each row to an active agent in
// round-robin order, and atomically replaces the whole customer set. Row i
// (0-based, file order) goes to agent i mod A among the selected agents, so
// every agent receives either floor(N/A) or ceil(N/A) customers.
//
// Validation happens before anything destructive; the replace itself runs
// inside one store transaction under an upload lock.
func (s *DistributionService) Upload(ctx context.Context, input ports.UploadInput) (*ports.UploadResult, error) {
	start := time.Now()

	rows, err := ingest.Parse(input.Filename, input.ContentType, input.Data)
	if err != nil {
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}
	if len(rows) == 0 {
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		return nil, domain.ErrEmptyFile
	}
	if !rows[0].Has("firstname") || !rows[0].Has("phone") {
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		return nil, domain.ErrMissingColumns
	}

	if err := s.lock.Acquire(ctx); err != nil {
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}
	defer func() {
		// Release even when the request context is already cancelled.
		if err := s.lock.Release(context.WithoutCancel(ctx)); err != nil {
			s.logger.Warn().Err(err).Msg("failed to release upload lock")
		}
	}()

	agents, err := s.agents.FindActive(ctx, s.maxAgents)
	if err != nil {
		metrics.UploadsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	if len(agents) == 0 {
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		return nil, domain.ErrNoActiveAgents
	}

	assigned := make([]ports.AssignedRow, 0, len(rows))
	for i, row := range rows {
		agent := agents[i%len(agents)]
		assigned = append(assigned, ports.AssignedRow{
			FirstName: row.Get("firstname"),
			Phone:     row.Get("phone"),
			Notes:     row.Get("notes"),
			AgentID:   agent.ID,
		})
	}

	customers, err := s.store.ReplaceAll(ctx, assigned)
	if err != nil {
		metrics.UploadsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("replace customers: %w", err)
	}

	// The replace is committed at this point. A failure reading the
	// distribution back must not be reported as a failed upload; the client
	// can refetch the projection.
	distribution, err := s.Distribution(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("distribution read after upload failed")
		distribution = nil
	}

	metrics.UploadsTotal.WithLabelValues("success").Inc()
	metrics.CustomersDistributedTotal.Add(float64(len(customers)))
	metrics.UploadDuration.Observe(time.Since(start).Seconds())

	s.logger.Info().
		Int("customers", len(customers)).
		Int("agents", len(agents)).
		Str("filename", input.Filename).
		Msg("upload distributed")

	return &ports.UploadResult{
		Uploaded:     len(customers),
		Distribution: distribution,
	}, nil
}

// Distribution returns the current assignment state across all agents. Pure
// read, no mutation.
func (s *DistributionService) Distribution(ctx context.Context) ([]ports.DistributionEntry, error) {
	agents, err := s.agents.List(ctx)
	if err != nil {
		return nil, err
	}

	views, err := resolveAgents(ctx, s.customers, agents)
	if err != nil {
		return nil, err
	}

	entries := make([]ports.DistributionEntry, 0, len(views))
	for _, v := range views {
		entries = append(entries, ports.DistributionEntry{
			AgentID:        v.ID,
			AgentName:      v.Name,
			Email:          v.Email,
			Mobile:         v.Mobile,
			CustomersCount: len(v.Customers),
			Customers:      v.Customers,
		})
	}
	return entries, nil
}
