package usecase

import (
	"context"
	"time"

	"github.com/iqube-labs/iqube-api/internal/domain/entity"
)

// SaveQuestionInput describes a generated question to persist
type SaveQuestionInput struct {
	QuestionText  string
	TopicName     string
	Options       []string
	CorrectAnswer *int
	Explanation   *string
	Difficulty    entity.Difficulty
	Type          entity.QuestionType
}

// SavedQuestionRef identifies a newly saved question
type SavedQuestionRef struct {
	ID        string
	CreatedAt time.Time
}

// SavedPage is one page of a user's bank
type SavedPage struct {
	Items      []*entity.SavedQuestion
	Pagination entity.Pagination
}

// QuestionUseCase defines question bank operations
type QuestionUseCase interface {
	// SaveQuestion resolves or creates the topic, inserts the question and links it to the user
	SaveQuestion(ctx context.Context, userID string, input SaveQuestionInput) (*SavedQuestionRef, error)

	// ListSaved returns one page of the user's bank, newest first
	ListSaved(ctx context.Context, userID string, page, limit int) (*SavedPage, error)

	// ListTopics returns every topic ordered by name
	ListTopics(ctx context.Context) ([]*entity.Topic, error)
}

// CommentUseCase defines comment operations. Ownership failures are reported
// as ErrCommentNotFound so callers cannot probe for other users' comments.
type CommentUseCase interface {
	ListComments(ctx context.Context, questionID string) ([]*entity.Comment, error)
	AddComment(ctx context.Context, questionID, userID, text string) (*entity.Comment, error)
	UpdateComment(ctx context.Context, questionID, commentID, userID, text string) (*entity.Comment, error)
	DeleteComment(ctx context.Context, questionID, commentID, userID string) error
}
