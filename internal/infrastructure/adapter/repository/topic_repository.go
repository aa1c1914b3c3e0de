package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/iqube-labs/iqube-api/internal/domain/entity"
	errs "github.com/iqube-labs/iqube-api/internal/domain/error"
	coreport "github.com/iqube-labs/iqube-api/internal/domain/port/core"
	"github.com/iqube-labs/iqube-api/internal/infrastructure/adapter/model"
)

// TopicRepository implements persistence.TopicRepository using GORM
type TopicRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewTopicRepository creates a new TopicRepository instance
func NewTopicRepository(db *gorm.DB, logger coreport.Logger) *TopicRepository {
	return &TopicRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

func topicToEntity(m *model.Topic) *entity.Topic {
	return &entity.Topic{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		CreatedAt:   m.CreatedAt.UTC(),
	}
}

// List returns every topic ordered by name
func (r *TopicRepository) List(ctx context.Context) ([]*entity.Topic, error) {
	var models []model.Topic
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&models).Error; err != nil {
		return nil, translateError(r.logger, r.errorClassifier, "listing topics", err, nil, errorMapping{})
	}

	topics := make([]*entity.Topic, 0, len(models))
	for i := range models {
		topics = append(topics, topicToEntity(&models[i]))
	}
	return topics, nil
}

// GetByName finds a topic by exact name
func (r *TopicRepository) GetByName(ctx context.Context, name string) (*entity.Topic, error) {
	var m model.Topic
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&m).Error; err != nil {
		return nil, translateError(r.logger, r.errorClassifier, "getting topic", err,
			map[string]any{"topic": name}, errorMapping{notFound: errs.ErrTopicNotFound})
	}
	return topicToEntity(&m), nil
}

// Create inserts a topic and writes the generated ID back
func (r *TopicRepository) Create(ctx context.Context, topic *entity.Topic) error {
	m := model.Topic{
		ID:          topic.ID,
		Name:        topic.Name,
		Description: topic.Description,
		CreatedAt:   topic.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return translateError(r.logger, r.errorClassifier, "creating topic", err,
			map[string]any{"topic": topic.Name}, errorMapping{duplicate: errs.ErrDuplicateTopic})
	}
	topic.ID = m.ID

	r.logger.Info("Topic created", map[string]any{"topic_id": topic.ID, "topic": topic.Name})
	return nil
}
