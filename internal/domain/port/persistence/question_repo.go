package persistence

import (
	"context"

	"github.com/iqube-labs/iqube-api/internal/domain/entity"
)

// QuestionRepository defines methods to persist questions and users' banks
type QuestionRepository interface {
	// Create inserts a question and assigns its ID
	//
	// Possible errors:
	// - ErrConstraintViolation: If the topic does not exist
	// - ErrDatabaseConnection: If database connection fails
	Create(ctx context.Context, question *entity.Question) error

	// Exists reports whether a question with id exists
	Exists(ctx context.Context, id string) (bool, error)

	// LinkToUser records that a user saved a question
	//
	// Possible errors:
	// - ErrDuplicateSavedQuestion: If the (user, question) pair already exists
	// - ErrDatabaseConnection: If database connection fails
	LinkToUser(ctx context.Context, link *entity.UserQuestion) error

	// ListSaved returns one page of a user's bank, newest save first, and the total count
	ListSaved(ctx context.Context, userID string, offset, limit int) ([]*entity.SavedQuestion, int, error)

	// StatsForUser aggregates a user's bank by difficulty and topic
	StatsForUser(ctx context.Context, userID string) (*entity.QuestionStats, error)
}
