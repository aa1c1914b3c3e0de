package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/iqube-labs/iqube-api/internal/domain/entity"
	errs "github.com/iqube-labs/iqube-api/internal/domain/error"
	coreport "github.com/iqube-labs/iqube-api/internal/domain/port/core"
	"github.com/iqube-labs/iqube-api/internal/infrastructure/adapter/model"
)

// QuestionRepository implements persistence.QuestionRepository using GORM
type QuestionRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewQuestionRepository creates a new QuestionRepository instance
func NewQuestionRepository(db *gorm.DB, logger coreport.Logger) *QuestionRepository {
	return &QuestionRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

func encodeOptions(options []string) (datatypes.JSON, error) {
	if options == nil {
		options = []string{}
	}
	raw, err := json.Marshal(options)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

func decodeOptions(raw datatypes.JSON) []string {
	options := []string{}
	if len(raw) == 0 {
		return options
	}
	if err := json.Unmarshal(raw, &options); err != nil {
		return []string{}
	}
	return options
}

// Create inserts a question and writes the generated ID back
func (r *QuestionRepository) Create(ctx context.Context, question *entity.Question) error {
	options, err := encodeOptions(question.Options)
	if err != nil {
		return fmt.Errorf("%w: encoding options: %v", errs.ErrInvalidQuestion, err)
	}

	m := model.Question{
		ID:            question.ID,
		TopicID:       question.TopicID,
		QuestionText:  question.QuestionText,
		Options:       options,
		CorrectAnswer: question.CorrectAnswer,
		Explanation:   question.Explanation,
		Difficulty:    string(question.Difficulty),
		QuestionType:  string(question.Type),
		CreatedAt:     question.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&m).Error; err != nil {
		return translateError(r.logger, r.errorClassifier, "creating question", err,
			map[string]any{"topic_id": question.TopicID}, errorMapping{})
	}
	question.ID = m.ID

	r.logger.Debug("Question created", map[string]any{
		"question_id": question.ID,
		"difficulty":  question.Difficulty,
	})
	return nil
}

// Exists reports whether a question with id is stored
func (r *QuestionRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Question{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, translateError(r.logger, r.errorClassifier, "checking question", err,
			map[string]any{"question_id": id}, errorMapping{})
	}
	return count > 0, nil
}

// LinkToUser saves a question into a user's bank. A repeated link fails with ErrDuplicateSavedQuestion.
func (r *QuestionRepository) LinkToUser(ctx context.Context, link *entity.UserQuestion) error {
	m := model.UserQuestion{
		ID:         link.ID,
		UserID:     link.UserID,
		QuestionID: link.QuestionID,
		SavedAt:    link.SavedAt,
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&m).Error; err != nil {
		return translateError(r.logger, r.errorClassifier, "linking question", err,
			map[string]any{"user_id": link.UserID, "question_id": link.QuestionID},
			errorMapping{duplicate: errs.ErrDuplicateSavedQuestion})
	}
	link.ID = m.ID
	return nil
}

type savedQuestionRow struct {
	ID            string
	TopicID       string
	QuestionText  string
	Options       datatypes.JSON
	CorrectAnswer *int
	Explanation   *string
	Difficulty    string
	QuestionType  string
	CreatedAt     time.Time
	TopicName     string
	SavedAt       time.Time
}

// ListSaved returns one page of a user's bank newest first and the total count
func (r *QuestionRepository) ListSaved(ctx context.Context, userID string, offset, limit int) ([]*entity.SavedQuestion, int, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.UserQuestion{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, translateError(r.logger, r.errorClassifier, "counting saved questions", err,
			map[string]any{"user_id": userID}, errorMapping{})
	}

	var rows []savedQuestionRow
	err := r.db.WithContext(ctx).
		Table("user_questions AS uq").
		Select(`q.id, q.topic_id, q.question_text, q.options, q.correct_answer, q.explanation,
			q.difficulty, q.question_type, q.created_at, t.name AS topic_name, uq.saved_at`).
		Joins("JOIN questions q ON q.id = uq.question_id").
		Joins("JOIN topics t ON t.id = q.topic_id").
		Where("uq.user_id = ?", userID).
		Order("uq.saved_at DESC").
		Offset(offset).
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, translateError(r.logger, r.errorClassifier, "listing saved questions", err,
			map[string]any{"user_id": userID}, errorMapping{})
	}

	items := make([]*entity.SavedQuestion, 0, len(rows))
	for _, row := range rows {
		items = append(items, &entity.SavedQuestion{
			Question: entity.Question{
				ID:            row.ID,
				TopicID:       row.TopicID,
				QuestionText:  row.QuestionText,
				Options:       decodeOptions(row.Options),
				CorrectAnswer: row.CorrectAnswer,
				Explanation:   row.Explanation,
				Difficulty:    entity.Difficulty(row.Difficulty),
				Type:          entity.QuestionType(row.QuestionType),
				CreatedAt:     row.CreatedAt.UTC(),
			},
			TopicName: row.TopicName,
			SavedAt:   row.SavedAt.UTC(),
		})
	}
	return items, int(total), nil
}

type groupCount struct {
	Label string
	Total int64
}

// StatsForUser counts a user's saved questions by difficulty and topic.
// TotalComments is left for the caller.
func (r *QuestionRepository) StatsForUser(ctx context.Context, userID string) (*entity.QuestionStats, error) {
	stats := &entity.QuestionStats{
		ByDifficulty: make(map[entity.Difficulty]int),
		ByTopic:      make(map[string]int),
	}

	var byDifficulty []groupCount
	err := r.db.WithContext(ctx).
		Table("user_questions AS uq").
		Select("q.difficulty AS label, COUNT(*) AS total").
		Joins("JOIN questions q ON q.id = uq.question_id").
		Where("uq.user_id = ?", userID).
		Group("q.difficulty").
		Scan(&byDifficulty).Error
	if err != nil {
		return nil, translateError(r.logger, r.errorClassifier, "counting by difficulty", err,
			map[string]any{"user_id": userID}, errorMapping{})
	}

	var byTopic []groupCount
	err = r.db.WithContext(ctx).
		Table("user_questions AS uq").
		Select("t.name AS label, COUNT(*) AS total").
		Joins("JOIN questions q ON q.id = uq.question_id").
		Joins("JOIN topics t ON t.id = q.topic_id").
		Where("uq.user_id = ?", userID).
		Group("t.name").
		Scan(&byTopic).Error
	if err != nil {
		return nil, translateError(r.logger, r.errorClassifier, "counting by topic", err,
			map[string]any{"user_id": userID}, errorMapping{})
	}

	for _, g := range byDifficulty {
		stats.ByDifficulty[entity.Difficulty(g.Label)] = int(g.Total)
		stats.TotalSaved += int(g.Total)
	}
	for _, g := range byTopic {
		stats.ByTopic[g.Label] = int(g.Total)
	}
	return stats, nil
}
