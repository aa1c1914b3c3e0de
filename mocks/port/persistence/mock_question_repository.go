package persistence

import (
	"context"

	"github.com/iqube-labs/iqube-api/internal/domain/entity"

	"github.com/stretchr/testify/mock"
)

// MockQuestionRepository is a mock implementation of the QuestionRepository port
type MockQuestionRepository struct {
	mock.Mock
}

// NewMockQuestionRepository creates a mock and registers expectation assertions on cleanup
func NewMockQuestionRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockQuestionRepository {
	m := &MockQuestionRepository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// Create provides a mock function
func (_m *MockQuestionRepository) Create(ctx context.Context, question *entity.Question) error {
	ret := _m.Called(ctx, question)

	return ret.Error(0)
}

// Exists provides a mock function
func (_m *MockQuestionRepository) Exists(ctx context.Context, id string) (bool, error) {
	ret := _m.Called(ctx, id)

	r0 := ret.Get(0).(bool)

	return r0, ret.Error(1)
}

// LinkToUser provides a mock function
func (_m *MockQuestionRepository) LinkToUser(ctx context.Context, link *entity.UserQuestion) error {
	ret := _m.Called(ctx, link)

	return ret.Error(0)
}

// ListSaved provides a mock function
func (_m *MockQuestionRepository) ListSaved(ctx context.Context, userID string, offset int, limit int) ([]*entity.SavedQuestion, int, error) {
	ret := _m.Called(ctx, userID, offset, limit)

	var r0 []*entity.SavedQuestion
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*entity.SavedQuestion)
	}

	r1 := ret.Get(1).(int)

	return r0, r1, ret.Error(2)
}

// StatsForUser provides a mock function
func (_m *MockQuestionRepository) StatsForUser(ctx context.Context, userID string) (*entity.QuestionStats, error) {
	ret := _m.Called(ctx, userID)

	var r0 *entity.QuestionStats
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*entity.QuestionStats)
	}

	return r0, ret.Error(1)
}
