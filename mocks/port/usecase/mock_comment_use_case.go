package usecase

import (
	"context"

	"github.com/iqube-labs/iqube-api/internal/domain/entity"

	"github.com/stretchr/testify/mock"
)

// MockCommentUseCase is a mock implementation of the CommentUseCase port
type MockCommentUseCase struct {
	mock.Mock
}

// NewMockCommentUseCase creates a mock and registers expectation assertions on cleanup
func NewMockCommentUseCase(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockCommentUseCase {
	m := &MockCommentUseCase{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// ListComments provides a mock function
func (_m *MockCommentUseCase) ListComments(ctx context.Context, questionID string) ([]*entity.Comment, error) {
	ret := _m.Called(ctx, questionID)

	var r0 []*entity.Comment
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*entity.Comment)
	}

	return r0, ret.Error(1)
}

// AddComment provides a mock function
func (_m *MockCommentUseCase) AddComment(ctx context.Context, questionID string, userID string, text string) (*entity.Comment, error) {
	ret := _m.Called(ctx, questionID, userID, text)

	var r0 *entity.Comment
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*entity.Comment)
	}

	return r0, ret.Error(1)
}

// UpdateComment provides a mock function
func (_m *MockCommentUseCase) UpdateComment(ctx context.Context, questionID string, commentID string, userID string, text string) (*entity.Comment, error) {
	ret := _m.Called(ctx, questionID, commentID, userID, text)

	var r0 *entity.Comment
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*entity.Comment)
	}

	return r0, ret.Error(1)
}

// DeleteComment provides a mock function
func (_m *MockCommentUseCase) DeleteComment(ctx context.Context, questionID string, commentID string, userID string) error {
	ret := _m.Called(ctx, questionID, commentID, userID)

	return ret.Error(0)
}
