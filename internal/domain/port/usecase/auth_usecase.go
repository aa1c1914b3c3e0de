package usecase

import (
	"context"
	"time"

	"github.com/iqube-labs/iqube-api/internal/domain/entity"
	"github.com/iqube-labs/iqube-api/internal/domain/port/core"
)

// RegisterInput carries the fields of a new account
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// AuthResult is returned by register and login
type AuthResult struct {
	User      *entity.User
	Token     string
	ExpiresAt time.Time
}

// AuthUseCase defines account authentication operations
type AuthUseCase interface {
	// Register creates an account with a full credit allowance and signs it in
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)

	// Login authenticates by email and password. Unknown email, inactive
	// account and wrong password all fail with ErrAuthenticationFailed.
	Login(ctx context.Context, email, password string) (*AuthResult, error)

	// VerifyToken validates a bearer token and re-checks that its user is still active
	VerifyToken(ctx context.Context, token string) (*core.TokenClaims, *entity.User, error)
}
