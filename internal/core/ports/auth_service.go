package ports

import (
	"context"

	"github.com/leadpilot/lead-distribution/internal/core/domain"
)

type AuthService interface {
	// Login verifies the administrator's credentials and returns a signed
	// bearer token alongside the admin record.
	Login(ctx context.Context, email, password string) (string, *domain.Admin, error)
	// Bootstrap creates the single administrator with the configured default
	// credentials. Fails with ErrAdminExists once one exists.
	Bootstrap(ctx context.Context) (*domain.Admin, error)
}
