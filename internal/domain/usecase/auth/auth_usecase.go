package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/iqube-labs/iqube-api/internal/domain/entity"
	errs "github.com/iqube-labs/iqube-api/internal/domain/error"
	coreport "github.com/iqube-labs/iqube-api/internal/domain/port/core"
	"github.com/iqube-labs/iqube-api/internal/domain/port/persistence"
	"github.com/iqube-labs/iqube-api/internal/domain/port/usecase"
)

// MinPasswordLength is the shortest accepted password
const MinPasswordLength = 6

// AuthUseCase registers and authenticates accounts
type AuthUseCase struct {
	userRepo     persistence.UserRepository
	hasher       coreport.PasswordHasher
	tokens       coreport.TokenService
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

var _ usecase.AuthUseCase = (*AuthUseCase)(nil)

// NewAuthUseCase creates a new AuthUseCase
func NewAuthUseCase(
	userRepo persistence.UserRepository,
	hasher coreport.PasswordHasher,
	tokens coreport.TokenService,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *AuthUseCase {
	return &AuthUseCase{
		userRepo:     userRepo,
		hasher:       hasher,
		tokens:       tokens,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Register creates an account with a full credit allowance and signs it in
func (a *AuthUseCase) Register(ctx context.Context, input usecase.RegisterInput) (*usecase.AuthResult, error) {
	email := entity.NormalizeEmail(input.Email)
	if err := entity.ValidateEmail(email); err != nil {
		return nil, errs.NewValidationError("email", "must be a valid email address")
	}
	if len(input.Password) < MinPasswordLength {
		return nil, errs.NewValidationError("password", "must be at least 6 characters")
	}

	taken, err := a.userRepo.EmailTaken(ctx, email, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, errs.ErrDuplicateUser
	}

	hash, err := a.hasher.Hash(input.Password)
	if err != nil {
		a.logger.Error("Failed to hash password", map[string]any{"error": err.Error()})
		return nil, errs.ErrInternalServer
	}

	user, err := entity.NewUser(email, hash, input.FirstName, input.LastName, a.timeProvider)
	if err != nil {
		return nil, err
	}

	// a concurrent registration surfaces here as ErrDuplicateUser
	if err := a.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	a.logger.Info("User registered", map[string]any{
		"user_id": user.ID,
		"email":   user.Email,
	})
	return a.issue(user)
}

// Login authenticates by email and password
func (a *AuthUseCase) Login(ctx context.Context, email, password string) (*usecase.AuthResult, error) {
	email = entity.NormalizeEmail(email)

	user, err := a.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, errs.ErrUserNotFound) {
			a.logger.Info("Login failed", map[string]any{"email": email, "reason": "unknown_email"})
			return nil, errs.ErrAuthenticationFailed
		}
		return nil, err
	}

	if !user.IsActive {
		a.logger.Info("Login failed", map[string]any{"email": email, "reason": "inactive"})
		return nil, errs.ErrAuthenticationFailed
	}

	if err := a.hasher.Compare(user.PasswordHash, password); err != nil {
		a.logger.Info("Login failed", map[string]any{"email": email, "reason": "password"})
		return nil, errs.ErrAuthenticationFailed
	}

	a.logger.Info("User logged in", map[string]any{"user_id": user.ID})
	return a.issue(user)
}

// VerifyToken validates a bearer token and reloads its user
func (a *AuthUseCase) VerifyToken(ctx context.Context, token string) (*coreport.TokenClaims, *entity.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, nil, errs.ErrInvalidToken
	}

	claims, err := a.tokens.Parse(token)
	if err != nil {
		return nil, nil, err
	}

	user, err := a.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, errs.ErrUserNotFound) {
			return nil, nil, errs.ErrUserInactive
		}
		return nil, nil, err
	}
	if !user.IsActive {
		return nil, nil, errs.ErrUserInactive
	}

	return claims, user, nil
}

func (a *AuthUseCase) issue(user *entity.User) (*usecase.AuthResult, error) {
	token, expiresAt, err := a.tokens.Issue(user.ID, user.Email)
	if err != nil {
		a.logger.Error("Failed to issue token", map[string]any{
			"user_id": user.ID,
			"error":   err.Error(),
		})
		return nil, errs.ErrInternalServer
	}

	return &usecase.AuthResult{
		User:      user,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}
