package usecase

import (
	"context"

	domainusecase "github.com/iqube-labs/iqube-api/internal/domain/port/usecase"

	"github.com/stretchr/testify/mock"
)

// MockGenerationUseCase is a mock implementation of the GenerationUseCase port
type MockGenerationUseCase struct {
	mock.Mock
}

// NewMockGenerationUseCase creates a mock and registers expectation assertions on cleanup
func NewMockGenerationUseCase(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockGenerationUseCase {
	m := &MockGenerationUseCase{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// Generate provides a mock function
func (_m *MockGenerationUseCase) Generate(ctx context.Context, userID string, input domainusecase.GenerationInput) (*domainusecase.GenerationResult, error) {
	ret := _m.Called(ctx, userID, input)

	var r0 *domainusecase.GenerationResult
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domainusecase.GenerationResult)
	}

	return r0, ret.Error(1)
}

// Regenerate provides a mock function
func (_m *MockGenerationUseCase) Regenerate(ctx context.Context, userID string, input domainusecase.RegenerationInput) (*domainusecase.GenerationResult, error) {
	ret := _m.Called(ctx, userID, input)

	var r0 *domainusecase.GenerationResult
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domainusecase.GenerationResult)
	}

	return r0, ret.Error(1)
}
