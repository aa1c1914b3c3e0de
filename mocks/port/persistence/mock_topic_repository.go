package persistence

import (
	"context"

	"github.com/iqube-labs/iqube-api/internal/domain/entity"

	"github.com/stretchr/testify/mock"
)

// MockTopicRepository is a mock implementation of the TopicRepository port
type MockTopicRepository struct {
	mock.Mock
}

// NewMockTopicRepository creates a mock and registers expectation assertions on cleanup
func NewMockTopicRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockTopicRepository {
	m := &MockTopicRepository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// List provides a mock function
func (_m *MockTopicRepository) List(ctx context.Context) ([]*entity.Topic, error) {
	ret := _m.Called(ctx)

	var r0 []*entity.Topic
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*entity.Topic)
	}

	return r0, ret.Error(1)
}

// GetByName provides a mock function
func (_m *MockTopicRepository) GetByName(ctx context.Context, name string) (*entity.Topic, error) {
	ret := _m.Called(ctx, name)

	var r0 *entity.Topic
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*entity.Topic)
	}

	return r0, ret.Error(1)
}

// Create provides a mock function
func (_m *MockTopicRepository) Create(ctx context.Context, topic *entity.Topic) error {
	ret := _m.Called(ctx, topic)

	return ret.Error(0)
}
