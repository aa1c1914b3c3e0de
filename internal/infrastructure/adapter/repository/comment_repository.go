package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/iqube-labs/iqube-api/internal/domain/entity"
	errs "github.com/iqube-labs/iqube-api/internal/domain/error"
	coreport "github.com/iqube-labs/iqube-api/internal/domain/port/core"
	"github.com/iqube-labs/iqube-api/internal/infrastructure/adapter/model"
)

// CommentRepository implements persistence.CommentRepository using GORM
type CommentRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewCommentRepository creates a new CommentRepository instance
func NewCommentRepository(db *gorm.DB, logger coreport.Logger) *CommentRepository {
	return &CommentRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

func commentToEntity(m *model.QuestionComment) *entity.Comment {
	return &entity.Comment{
		ID:              m.ID,
		QuestionID:      m.QuestionID,
		UserID:          m.UserID,
		CommentText:     m.CommentText,
		CreatedAt:       m.CreatedAt.UTC(),
		UpdatedAt:       m.UpdatedAt.UTC(),
		AuthorFirstName: m.User.FirstName,
		AuthorLastName:  m.User.LastName,
		AuthorEmail:     m.User.Email,
	}
}

func (r *CommentRepository) handleDatabaseError(operation string, err error, commentID string) error {
	return translateError(r.logger, r.errorClassifier, operation, err,
		map[string]any{"comment_id": commentID},
		errorMapping{notFound: errs.ErrCommentNotFound})
}

// Create inserts a comment and reloads it with its author
func (r *CommentRepository) Create(ctx context.Context, comment *entity.Comment) error {
	m := model.QuestionComment{
		ID:          comment.ID,
		QuestionID:  comment.QuestionID,
		UserID:      comment.UserID,
		CommentText: comment.CommentText,
		CreatedAt:   comment.CreatedAt,
		UpdatedAt:   comment.UpdatedAt,
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&m).Error; err != nil {
		return r.handleDatabaseError("creating comment", err, comment.ID)
	}

	stored, err := r.GetByID(ctx, m.ID)
	if err != nil {
		return err
	}
	*comment = *stored

	r.logger.Info("Comment created", map[string]any{
		"comment_id":  comment.ID,
		"question_id": comment.QuestionID,
		"user_id":     comment.UserID,
	})
	return nil
}

// GetByID retrieves a comment with its author
func (r *CommentRepository) GetByID(ctx context.Context, id string) (*entity.Comment, error) {
	var m model.QuestionComment
	if err := r.db.WithContext(ctx).Preload("User").Where("id = ?", id).First(&m).Error; err != nil {
		return nil, r.handleDatabaseError("getting comment", err, id)
	}
	return commentToEntity(&m), nil
}

// ListByQuestion returns a question's comments oldest first
func (r *CommentRepository) ListByQuestion(ctx context.Context, questionID string) ([]*entity.Comment, error) {
	var models []model.QuestionComment
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("question_id = ?", questionID).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, translateError(r.logger, r.errorClassifier, "listing comments", err,
			map[string]any{"question_id": questionID}, errorMapping{})
	}

	comments := make([]*entity.Comment, 0, len(models))
	for i := range models {
		comments = append(comments, commentToEntity(&models[i]))
	}
	return comments, nil
}

// Update stores the new text and timestamp
func (r *CommentRepository) Update(ctx context.Context, comment *entity.Comment) error {
	result := r.db.WithContext(ctx).Model(&model.QuestionComment{}).
		Where("id = ?", comment.ID).
		Updates(map[string]interface{}{
			"comment_text": comment.CommentText,
			"updated_at":   comment.UpdatedAt,
		})
	if result.Error != nil {
		return r.handleDatabaseError("updating comment", result.Error, comment.ID)
	}
	if result.RowsAffected == 0 {
		return errs.ErrCommentNotFound
	}
	return nil
}

// Delete removes a comment
func (r *CommentRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.QuestionComment{})
	if result.Error != nil {
		return r.handleDatabaseError("deleting comment", result.Error, id)
	}
	if result.RowsAffected == 0 {
		return errs.ErrCommentNotFound
	}

	r.logger.Info("Comment deleted", map[string]any{"comment_id": id})
	return nil
}

// CountByUser counts the comments written by a user
func (r *CommentRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.QuestionComment{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return 0, translateError(r.logger, r.errorClassifier, "counting comments", err,
			map[string]any{"user_id": userID}, errorMapping{})
	}
	return int(count), nil
}
