package question

import (
	"context"
	"errors"
	"strings"

	"github.com/iqube-labs/iqube-api/internal/domain/entity"
	errs "github.com/iqube-labs/iqube-api/internal/domain/error"
	coreport "github.com/iqube-labs/iqube-api/internal/domain/port/core"
	"github.com/iqube-labs/iqube-api/internal/domain/port/persistence"
	"github.com/iqube-labs/iqube-api/internal/domain/port/usecase"
)

// Pagination bounds of ListSaved
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// QuestionUseCase manages users' question banks
type QuestionUseCase struct {
	uow          persistence.UnitOfWork
	questionRepo persistence.QuestionRepository
	topicRepo    persistence.TopicRepository
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

var _ usecase.QuestionUseCase = (*QuestionUseCase)(nil)

// NewQuestionUseCase creates a new QuestionUseCase
func NewQuestionUseCase(
	uow persistence.UnitOfWork,
	questionRepo persistence.QuestionRepository,
	topicRepo persistence.TopicRepository,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *QuestionUseCase {
	return &QuestionUseCase{
		uow:          uow,
		questionRepo: questionRepo,
		topicRepo:    topicRepo,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// SaveQuestion resolves or creates the topic, inserts the question and links it to the user
func (q *QuestionUseCase) SaveQuestion(ctx context.Context, userID string, input usecase.SaveQuestionInput) (*usecase.SavedQuestionRef, error) {
	topicName := strings.TrimSpace(input.TopicName)
	if topicName == "" {
		return nil, errs.NewValidationError("topicName", "is required")
	}

	var saved *entity.Question
	err := q.withinTransaction(ctx, func(txCtx context.Context) error {
		topic, err := q.resolveTopic(txCtx, q.uow.GetTopicRepository(txCtx), topicName)
		if err != nil {
			return err
		}

		question, err := entity.NewQuestion(
			topic.ID,
			input.QuestionText,
			input.Options,
			input.CorrectAnswer,
			input.Explanation,
			input.Difficulty,
			input.Type,
			q.timeProvider,
		)
		if err != nil {
			return err
		}

		questions := q.uow.GetQuestionRepository(txCtx)
		if err := questions.Create(txCtx, question); err != nil {
			return err
		}

		if err := questions.LinkToUser(txCtx, &entity.UserQuestion{
			UserID:     userID,
			QuestionID: question.ID,
			SavedAt:    question.CreatedAt,
		}); err != nil {
			return err
		}

		saved = question
		return nil
	})
	if err != nil {
		return nil, err
	}

	q.logger.Info("Question saved", map[string]any{
		"user_id":     userID,
		"question_id": saved.ID,
		"topic":       topicName,
	})

	return &usecase.SavedQuestionRef{ID: saved.ID, CreatedAt: saved.CreatedAt}, nil
}

// resolveTopic finds a topic by exact name, creating it when missing
func (q *QuestionUseCase) resolveTopic(ctx context.Context, topics persistence.TopicRepository, name string) (*entity.Topic, error) {
	topic, err := topics.GetByName(ctx, name)
	if err == nil {
		return topic, nil
	}
	if !errors.Is(err, errs.ErrTopicNotFound) {
		return nil, err
	}

	topic = &entity.Topic{
		Name:        name,
		Description: entity.UserCreatedTopicDescription,
		CreatedAt:   q.timeProvider.Now(),
	}
	if err := topics.Create(ctx, topic); err != nil {
		return nil, err
	}

	q.logger.Debug("Topic created", map[string]any{"topic_id": topic.ID, "name": name})
	return topic, nil
}

// ListSaved returns one page of the user's bank, newest first
func (q *QuestionUseCase) ListSaved(ctx context.Context, userID string, page, limit int) (*usecase.SavedPage, error) {
	if page < 1 {
		return nil, errs.NewValidationError("page", "must be at least 1")
	}
	if limit == 0 {
		limit = DefaultPageSize
	}
	if limit < 1 || limit > MaxPageSize {
		return nil, errs.NewValidationError("limit", "must be between 1 and 100")
	}

	items, total, err := q.questionRepo.ListSaved(ctx, userID, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}

	return &usecase.SavedPage{
		Items:      items,
		Pagination: entity.NewPagination(page, limit, total),
	}, nil
}

// ListTopics returns every topic ordered by name
func (q *QuestionUseCase) ListTopics(ctx context.Context) ([]*entity.Topic, error) {
	return q.topicRepo.List(ctx)
}

// withinTransaction runs fn in a unit of work, rolling back on error or panic
func (q *QuestionUseCase) withinTransaction(ctx context.Context, fn func(txCtx context.Context) error) error {
	txCtx, err := q.uow.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = q.uow.Rollback(txCtx)
			panic(p)
		}
	}()

	if err := fn(txCtx); err != nil {
		if rbErr := q.uow.Rollback(txCtx); rbErr != nil {
			q.logger.Error("Failed to roll back question transaction", map[string]any{
				"error":          rbErr.Error(),
				"original_error": err.Error(),
			})
		}
		return err
	}

	return q.uow.Commit(txCtx)
}
