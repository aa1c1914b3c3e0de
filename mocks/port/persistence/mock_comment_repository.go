package persistence

import (
	"context"

	"github.com/iqube-labs/iqube-api/internal/domain/entity"

	"github.com/stretchr/testify/mock"
)

// MockCommentRepository is a mock implementation of the CommentRepository port
type MockCommentRepository struct {
	mock.Mock
}

// NewMockCommentRepository creates a mock and registers expectation assertions on cleanup
func NewMockCommentRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockCommentRepository {
	m := &MockCommentRepository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// Create provides a mock function
func (_m *MockCommentRepository) Create(ctx context.Context, comment *entity.Comment) error {
	ret := _m.Called(ctx, comment)

	return ret.Error(0)
}

// GetByID provides a mock function
func (_m *MockCommentRepository) GetByID(ctx context.Context, id string) (*entity.Comment, error) {
	ret := _m.Called(ctx, id)

	var r0 *entity.Comment
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*entity.Comment)
	}

	return r0, ret.Error(1)
}

// ListByQuestion provides a mock function
func (_m *MockCommentRepository) ListByQuestion(ctx context.Context, questionID string) ([]*entity.Comment, error) {
	ret := _m.Called(ctx, questionID)

	var r0 []*entity.Comment
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*entity.Comment)
	}

	return r0, ret.Error(1)
}

// Update provides a mock function
func (_m *MockCommentRepository) Update(ctx context.Context, comment *entity.Comment) error {
	ret := _m.Called(ctx, comment)

	return ret.Error(0)
}

// Delete provides a mock function
func (_m *MockCommentRepository) Delete(ctx context.Context, id string) error {
	ret := _m.Called(ctx, id)

	return ret.Error(0)
}

// CountByUser provides a mock function
func (_m *MockCommentRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	ret := _m.Called(ctx, userID)

	r0 := ret.Get(0).(int)

	return r0, ret.Error(1)
}
