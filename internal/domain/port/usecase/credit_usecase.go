package usecase

import (
	"context"

	"github.com/iqube-labs/iqube-api/internal/domain/entity"
)

// CreditUseCase defines credit accounting operations
type CreditUseCase interface {
	// GetBalance returns the caller's allowance and next refresh time
	GetBalance(ctx context.Context, userID string) (*entity.CreditBalance, error)

	// Deduct removes n credits under a row lock and records a deduction.
	// Fails with ErrInsufficientCredits without touching the balance.
	Deduct(ctx context.Context, userID string, n int, description string) (*entity.CreditTransaction, error)

	// Adjust applies a signed admin adjustment clamped to the daily allowance
	Adjust(ctx context.Context, userID string, delta int, description string) (*entity.CreditTransaction, error)

	// RefreshSweep resets every eligible user. One user's failure never aborts the batch.
	RefreshSweep(ctx context.Context) (*entity.RefreshResult, error)

	// ManualRefresh lets a user refresh early when the threshold elapsed or credits ran out
	ManualRefresh(ctx context.Context, userID string) (*entity.CreditBalance, error)

	// ForceRefresh resets a user unconditionally
	ForceRefresh(ctx context.Context, userID string) (*entity.CreditBalance, error)

	// RefreshStats describes the population the sweep operates on
	RefreshStats(ctx context.Context) (*entity.RefreshStats, error)

	// History returns the newest ledger rows of a user
	History(ctx context.Context, userID string, limit int) ([]*entity.CreditTransaction, error)

	// UpdateTimezone stores the user's informational timezone
	UpdateTimezone(ctx context.Context, userID, timezone string) (*entity.User, error)
}
