package persistence

import (
	"context"

	"github.com/iqube-labs/iqube-api/internal/domain/entity"
)

// TopicRepository defines methods to interact with topics
type TopicRepository interface {
	// List returns every topic ordered by name
	List(ctx context.Context) ([]*entity.Topic, error)

	// GetByName finds a topic by exact name
	//
	// Possible errors:
	// - ErrTopicNotFound: If no topic has this name
	// - ErrDatabaseConnection: If database connection fails
	GetByName(ctx context.Context, name string) (*entity.Topic, error)

	// Create inserts a topic and assigns its ID
	//
	// Possible errors:
	// - ErrDuplicateTopic: If the name is taken
	// - ErrDatabaseConnection: If database connection fails
	Create(ctx context.Context, topic *entity.Topic) error
}
