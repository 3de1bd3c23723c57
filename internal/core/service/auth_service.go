package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/leadpilot/lead-distribution/internal/core/domain"
	"github.com/leadpilot/lead-distribution/internal/core/ports"
)

// BootstrapCredentials are the default administrator credentials used by the
// one-time setup operation. They come from configuration, not code.
type BootstrapCredentials struct {
	Email    string
	Password string
	Name     string
}

// AuthService implements administrator login and bootstrap.
type AuthService struct {
	repo      ports.AdminRepository
	jwtSecret string
	tokenTTL  time.Duration
	bootstrap BootstrapCredentials
}

func NewAuthService(repo ports.AdminRepository, jwtSecret string, tokenTTL time.Duration, bootstrap BootstrapCredentials) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{repo: repo, jwtSecret: jwtSecret, tokenTTL: tokenTTL, bootstrap: bootstrap}
}

// Login verifies the credentials and issues a signed bearer token. Unknown
// email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.Admin, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	admin, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if err == domain.ErrAdminNotFound {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.issueToken(admin)
	if err != nil {
		return "", nil, err
	}

	return token, admin, nil
}

// Bootstrap creates the single administrator record if and only if none
// exists yet. An operational convenience, not a security boundary.
func (s *AuthService) Bootstrap(ctx context.Context) (*domain.Admin, error) {
	exists, err := s.repo.Exists(ctx)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrAdminExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.bootstrap.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	admin := &domain.Admin{
		Email:        s.bootstrap.Email,
		Name:         s.bootstrap.Name,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}

	created, err := s.repo.Create(ctx, admin)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *AuthService) issueToken(admin *domain.Admin) (string, error) {
	claims := jwt.MapClaims{
		"id":    admin.ID,
		"email": admin.Email,
		"exp":   time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
