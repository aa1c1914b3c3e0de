package persistence

import (
	"context"

	"github.com/iqube-labs/iqube-api/internal/domain/entity"
)

// CommentRepository defines methods to interact with question comments
type CommentRepository interface {
	// Create inserts a comment and assigns its ID
	Create(ctx context.Context, comment *entity.Comment) error

	// GetByID returns a comment with its author fields
	//
	// Possible errors:
	// - ErrCommentNotFound: If the comment doesn't exist
	// - ErrDatabaseConnection: If database connection fails
	GetByID(ctx context.Context, id string) (*entity.Comment, error)

	// ListByQuestion returns a question's comments oldest first, with author fields
	ListByQuestion(ctx context.Context, questionID string) ([]*entity.Comment, error)

	// Update persists a new body and updated time
	Update(ctx context.Context, comment *entity.Comment) error

	// Delete removes a comment
	Delete(ctx context.Context, id string) error

	// CountByUser counts comments written by a user
	CountByUser(ctx context.Context, userID string) (int, error)
}
