package gateway

import (
	"context"

	"github.com/iqube-labs/iqube-api/internal/domain/entity"

	"github.com/stretchr/testify/mock"
)

// MockQuestionGenerator is a mock implementation of the QuestionGenerator port
type MockQuestionGenerator struct {
	mock.Mock
}

// NewMockQuestionGenerator creates a mock and registers expectation assertions on cleanup
func NewMockQuestionGenerator(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockQuestionGenerator {
	m := &MockQuestionGenerator{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// Generate provides a mock function
func (_m *MockQuestionGenerator) Generate(ctx context.Context, req entity.GenerationRequest) ([]entity.GeneratedQuestion, error) {
	ret := _m.Called(ctx, req)

	var r0 []entity.GeneratedQuestion
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]entity.GeneratedQuestion)
	}

	return r0, ret.Error(1)
}

// Regenerate provides a mock function
func (_m *MockQuestionGenerator) Regenerate(ctx context.Context, req entity.RegenerationRequest) (*entity.GeneratedQuestion, error) {
	ret := _m.Called(ctx, req)

	var r0 *entity.GeneratedQuestion
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*entity.GeneratedQuestion)
	}

	return r0, ret.Error(1)
}
