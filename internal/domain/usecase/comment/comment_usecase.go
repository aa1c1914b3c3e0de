package comment

import (
	"context"
	"errors"

	"github.com/iqube-labs/iqube-api/internal/domain/entity"
	errs "github.com/iqube-labs/iqube-api/internal/domain/error"
	coreport "github.com/iqube-labs/iqube-api/internal/domain/port/core"
	"github.com/iqube-labs/iqube-api/internal/domain/port/persistence"
	"github.com/iqube-labs/iqube-api/internal/domain/port/usecase"
)

// CommentUseCase manages comments on saved questions
type CommentUseCase struct {
	commentRepo  persistence.CommentRepository
	questionRepo persistence.QuestionRepository
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

var _ usecase.CommentUseCase = (*CommentUseCase)(nil)

// NewCommentUseCase creates a new CommentUseCase
func NewCommentUseCase(
	commentRepo persistence.CommentRepository,
	questionRepo persistence.QuestionRepository,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *CommentUseCase {
	return &CommentUseCase{
		commentRepo:  commentRepo,
		questionRepo: questionRepo,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// ListComments returns a question's comments oldest first
func (c *CommentUseCase) ListComments(ctx context.Context, questionID string) ([]*entity.Comment, error) {
	return c.commentRepo.ListByQuestion(ctx, questionID)
}

// AddComment writes a comment and returns it with its author fields
func (c *CommentUseCase) AddComment(ctx context.Context, questionID, userID, text string) (*entity.Comment, error) {
	comment, err := entity.NewComment(questionID, userID, text, c.timeProvider)
	if err != nil {
		return nil, err
	}

	exists, err := c.questionRepo.Exists(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errs.ErrQuestionNotFound
	}

	if err := c.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	c.logger.Info("Comment added", map[string]any{
		"comment_id":  comment.ID,
		"question_id": questionID,
		"user_id":     userID,
	})

	return c.commentRepo.GetByID(ctx, comment.ID)
}

// UpdateComment replaces the body of a comment owned by userID
func (c *CommentUseCase) UpdateComment(ctx context.Context, questionID, commentID, userID, text string) (*entity.Comment, error) {
	text, err := entity.ValidateCommentText(text)
	if err != nil {
		return nil, err
	}

	comment, err := c.owned(ctx, questionID, commentID, userID)
	if err != nil {
		return nil, err
	}

	comment.CommentText = text
	comment.UpdatedAt = c.timeProvider.Now()
	if err := c.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}

	return comment, nil
}

// DeleteComment removes a comment owned by userID
func (c *CommentUseCase) DeleteComment(ctx context.Context, questionID, commentID, userID string) error {
	if _, err := c.owned(ctx, questionID, commentID, userID); err != nil {
		return err
	}

	if err := c.commentRepo.Delete(ctx, commentID); err != nil {
		return err
	}

	c.logger.Info("Comment deleted", map[string]any{
		"comment_id":  commentID,
		"question_id": questionID,
		"user_id":     userID,
	})
	return nil
}

// owned loads a comment, reporting foreign or misplaced comments as missing
func (c *CommentUseCase) owned(ctx context.Context, questionID, commentID, userID string) (*entity.Comment, error) {
	comment, err := c.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, errs.ErrCommentNotFound) {
			return nil, errs.ErrCommentNotFound
		}
		return nil, err
	}

	if !comment.OwnedBy(questionID, userID) {
		return nil, errs.ErrCommentNotFound
	}
	return comment, nil
}
