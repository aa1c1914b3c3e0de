package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	coreport "github.com/iqube-labs/iqube-api/internal/domain/port/core"
	"github.com/iqube-labs/iqube-api/internal/domain/port/persistence"
	"github.com/iqube-labs/iqube-api/internal/infrastructure/adapter/repository"
	"gorm.io/gorm"
)

// contextKey is private so no other package can read or replace the handle
type contextKey string

// Context keys
const txKey contextKey = "tx"

// errNoTransaction is returned by Commit and Rollback on a context that never went through Begin
var errNoTransaction = errors.New("no transaction found in context")

// UnitOfWork implements the unit of work pattern for database transactions.
// Isolation is the driver default; writers that need exclusivity take row locks.
type UnitOfWork struct {
	db           *gorm.DB
	logger       coreport.Logger
	timeProvider coreport.TimeProvider
}

// NewUnitOfWork creates a new UnitOfWork instance
func NewUnitOfWork(db *gorm.DB, logger coreport.Logger, timeProvider coreport.TimeProvider) persistence.UnitOfWork {
	return &UnitOfWork{
		db:           db,
		logger:       logger,
		timeProvider: timeProvider,
	}
}

// Begin starts a new database transaction
func (u *UnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	u.logger.Debug("Beginning database transaction", nil)

	// Open the transaction on the caller's context so cancellation aborts it
	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		u.logger.Error("Failed to begin transaction", map[string]any{"error": tx.Error})
		return ctx, fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	// Repositories built from the returned context join this transaction
	return context.WithValue(ctx, txKey, tx), nil
}

// Commit commits the current transaction
func (u *UnitOfWork) Commit(ctx context.Context) error {
	tx, ok := ctx.Value(txKey).(*gorm.DB)
	if !ok || tx == nil {
		return errNoTransaction
	}

	u.logger.Debug("Committing database transaction", nil)
	if err := tx.Commit().Error; err != nil {
		u.logger.Error("Failed to commit transaction", map[string]any{"error": err})
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Rollback rolls back the current transaction. Rolling back a finished transaction is a no-op.
func (u *UnitOfWork) Rollback(ctx context.Context) error {
	tx, ok := ctx.Value(txKey).(*gorm.DB)
	if !ok || tx == nil {
		return errNoTransaction
	}

	u.logger.Debug("Rolling back database transaction", nil)

	err := tx.Rollback().Error

	// Deferred rollbacks run after a successful commit too
	if err != nil && strings.Contains(err.Error(), "already been committed or rolled back") {
		u.logger.Debug("Transaction already finished", map[string]any{"error": err})
		return nil
	}
	// Anything else is a real failure
	if err != nil {
		u.logger.Error("Failed to rollback transaction", map[string]any{"error": err})
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	return nil
}

// GetUserRepository returns a user repository in the current transaction
func (u *UnitOfWork) GetUserRepository(ctx context.Context) persistence.UserRepository {
	return repository.NewUserRepository(u.getDbFromContext(ctx), u.timeProvider, u.logger)
}

// GetCreditTransactionRepository returns a ledger repository in the current transaction
func (u *UnitOfWork) GetCreditTransactionRepository(ctx context.Context) persistence.CreditTransactionRepository {
	return repository.NewCreditTransactionRepository(u.getDbFromContext(ctx), u.logger)
}

// GetTopicRepository returns a topic repository in the current transaction
func (u *UnitOfWork) GetTopicRepository(ctx context.Context) persistence.TopicRepository {
	return repository.NewTopicRepository(u.getDbFromContext(ctx), u.logger)
}

// GetQuestionRepository returns a question repository in the current transaction
func (u *UnitOfWork) GetQuestionRepository(ctx context.Context) persistence.QuestionRepository {
	return repository.NewQuestionRepository(u.getDbFromContext(ctx), u.logger)
}

// getDbFromContext returns the transaction in ctx, or the pool outside one
func (u *UnitOfWork) getDbFromContext(ctx context.Context) *gorm.DB {
	tx, ok := ctx.Value(txKey).(*gorm.DB)
	if ok && tx != nil {
		return tx
	}
	return u.db.WithContext(ctx)
}
