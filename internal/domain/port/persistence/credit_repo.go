package persistence

import (
	"context"

	"github.com/iqube-labs/iqube-api/internal/domain/entity"
)

// CreditTransactionRepository appends to and reads the credit ledger.
// The ledger is append-only, so there is no update or delete.
type CreditTransactionRepository interface {
	// Create appends a ledger row and assigns its ID
	//
	// Possible errors:
	// - ErrConstraintViolation: If the referenced user does not exist
	// - ErrDatabaseConnection: If database connection fails
	Create(ctx context.Context, tx *entity.CreditTransaction) error

	// ListByUser returns the newest limit rows of a user's ledger
	ListByUser(ctx context.Context, userID string, limit int) ([]*entity.CreditTransaction, error)
}
