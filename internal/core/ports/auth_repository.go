package ports

import (
	"context"

	"github.com/leadpilot/lead-distribution/internal/core/domain"
)

// AdminRepository defines the interface for administrator persistence.
type AdminRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.Admin, error)
	Create(ctx context.Context, admin *domain.Admin) (*domain.Admin, error)
	// Exists reports whether any administrator record is present.
	Exists(ctx context.Context) (bool, error)
}
