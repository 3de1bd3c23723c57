package ports

import (
	"context"

	"github.com/leadpilot/lead-distribution/internal/core/domain"
)

// CustomerRepository defines read operations for customers. Writes go through
// DistributionStore so they stay inside the upload transaction.
type CustomerRepository interface {
	// FindByIDs resolves customer records for the given IDs. Unknown IDs are
	// silently skipped; the result is keyed by ID for caller-side ordering.
	FindByIDs(ctx context.Context, ids []string) (map[string]domain.Customer, error)
}
