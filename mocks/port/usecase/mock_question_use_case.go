package usecase

import (
	"context"

	"github.com/iqube-labs/iqube-api/internal/domain/entity"
	domainusecase "github.com/iqube-labs/iqube-api/internal/domain/port/usecase"

	"github.com/stretchr/testify/mock"
)

// MockQuestionUseCase is a mock implementation of the QuestionUseCase port
type MockQuestionUseCase struct {
	mock.Mock
}

// NewMockQuestionUseCase creates a mock and registers expectation assertions on cleanup
func NewMockQuestionUseCase(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockQuestionUseCase {
	m := &MockQuestionUseCase{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// SaveQuestion provides a mock function
func (_m *MockQuestionUseCase) SaveQuestion(ctx context.Context, userID string, input domainusecase.SaveQuestionInput) (*domainusecase.SavedQuestionRef, error) {
	ret := _m.Called(ctx, userID, input)

	var r0 *domainusecase.SavedQuestionRef
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domainusecase.SavedQuestionRef)
	}

	return r0, ret.Error(1)
}

// ListSaved provides a mock function
func (_m *MockQuestionUseCase) ListSaved(ctx context.Context, userID string, page int, limit int) (*domainusecase.SavedPage, error) {
	ret := _m.Called(ctx, userID, page, limit)

	var r0 *domainusecase.SavedPage
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domainusecase.SavedPage)
	}

	return r0, ret.Error(1)
}

// ListTopics provides a mock function
func (_m *MockQuestionUseCase) ListTopics(ctx context.Context) ([]*entity.Topic, error) {
	ret := _m.Called(ctx)

	var r0 []*entity.Topic
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*entity.Topic)
	}

	return r0, ret.Error(1)
}
