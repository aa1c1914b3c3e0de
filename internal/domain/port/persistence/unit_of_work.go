package persistence

import (
	"context"
)

// UnitOfWork defines an interface for coordinating transaction operations
// across multiple repositories to maintain data consistency
type UnitOfWork interface {
	// Begin starts a new transaction and returns a transactional context
	Begin(ctx context.Context) (context.Context, error)

	// Commit commits the transaction in the given context
	Commit(ctx context.Context) error

	// Rollback rolls back the transaction in the given context
	Rollback(ctx context.Context) error

	// GetUserRepository returns a user repository bound to the current transaction
	GetUserRepository(ctx context.Context) UserRepository

	// GetCreditTransactionRepository returns a ledger repository bound to the current transaction
	GetCreditTransactionRepository(ctx context.Context) CreditTransactionRepository

	// GetTopicRepository returns a topic repository bound to the current transaction
	GetTopicRepository(ctx context.Context) TopicRepository

	// GetQuestionRepository returns a question repository bound to the current transaction
	GetQuestionRepository(ctx context.Context) QuestionRepository
}

// RetryFunc runs operation, retrying it while it fails with a transient
// database error
type RetryFunc func(ctx context.Context, operation func() error) error
