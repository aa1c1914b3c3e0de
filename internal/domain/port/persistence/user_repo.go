package persistence

import (
	"context"
	"time"

	"github.com/iqube-labs/iqube-api/internal/domain/entity"
)

// UserRepository defines methods to interact with account data
type UserRepository interface {
	// GetByID retrieves a user by ID, active or not
	//
	// Possible errors:
	// - ErrUserNotFound: If user with specified ID doesn't exist
	// - ErrDatabaseConnection: If database connection fails
	GetByID(ctx context.Context, id string) (*entity.User, error)

	// GetByIDForUpdate retrieves a user and locks the row until the surrounding
	// transaction ends. Must be called on a repository obtained from a UnitOfWork.
	//
	// Possible errors:
	// - ErrUserNotFound: If user with specified ID doesn't exist
	// - ErrDatabaseConnection: If database connection fails
	GetByIDForUpdate(ctx context.Context, id string) (*entity.User, error)

	// GetByEmail retrieves a user by normalized email
	//
	// Possible errors:
	// - ErrUserNotFound: If no user has this email
	// - ErrDatabaseConnection: If database connection fails
	GetByEmail(ctx context.Context, email string) (*entity.User, error)

	// EmailTaken reports whether another user than excludeID owns email
	EmailTaken(ctx context.Context, email, excludeID string) (bool, error)

	// Create inserts a new user and assigns its ID
	//
	// Possible errors:
	// - ErrDuplicateUser: If the email is already registered
	// - ErrDatabaseConnection: If database connection fails
	Create(ctx context.Context, user *entity.User) error

	// UpdateCredits writes daily_credits, last_credit_refresh and updated_at.
	// Callers must hold the row lock from GetByIDForUpdate.
	//
	// Possible errors:
	// - ErrUserNotFound: If user doesn't exist
	// - ErrDatabaseConnection: If database connection fails
	UpdateCredits(ctx context.Context, user *entity.User) error

	// UpdateProfile writes email, first and last name and updated_at
	//
	// Possible errors:
	// - ErrUserNotFound: If user doesn't exist
	// - ErrDuplicateUser: If the new email collides with another account
	// - ErrDatabaseConnection: If database connection fails
	UpdateProfile(ctx context.Context, user *entity.User) error

	// UpdatePassword replaces the password hash
	UpdatePassword(ctx context.Context, userID, passwordHash string, at time.Time) error

	// UpdateTimezone stores an IANA timezone name
	UpdateTimezone(ctx context.Context, userID, timezone string, at time.Time) error

	// Deactivate clears is_active
	Deactivate(ctx context.Context, userID string, at time.Time) error

	// FindRefreshCandidates lists active users refreshed at or before cutoff
	// and holding fewer than allowance credits
	FindRefreshCandidates(ctx context.Context, cutoff time.Time, allowance int) ([]*entity.User, error)

	// RefreshCredits resets a candidate to allowance if it still matches the sweep
	// predicate and still holds expectedCredits. Returns false when nothing changed.
	RefreshCredits(ctx context.Context, userID string, expectedCredits int, cutoff time.Time, allowance int, now time.Time) (bool, error)

	// RefreshStats aggregates the active population for the sweep
	RefreshStats(ctx context.Context, cutoff time.Time, allowance int) (*entity.RefreshStats, error)
}
