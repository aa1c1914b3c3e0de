package usecase

import (
	"context"

	"github.com/iqube-labs/iqube-api/internal/domain/entity"
	domainusecase "github.com/iqube-labs/iqube-api/internal/domain/port/usecase"

	"github.com/stretchr/testify/mock"
)

// MockUserUseCase is a mock implementation of the UserUseCase port
type MockUserUseCase struct {
	mock.Mock
}

// NewMockUserUseCase creates a mock and registers expectation assertions on cleanup
func NewMockUserUseCase(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockUserUseCase {
	m := &MockUserUseCase{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// GetProfile provides a mock function
func (_m *MockUserUseCase) GetProfile(ctx context.Context, userID string) (*domainusecase.Profile, error) {
	ret := _m.Called(ctx, userID)

	var r0 *domainusecase.Profile
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domainusecase.Profile)
	}

	return r0, ret.Error(1)
}

// UpdateProfile provides a mock function
func (_m *MockUserUseCase) UpdateProfile(ctx context.Context, userID string, update domainusecase.ProfileUpdate) (*entity.User, error) {
	ret := _m.Called(ctx, userID, update)

	var r0 *entity.User
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*entity.User)
	}

	return r0, ret.Error(1)
}

// ChangePassword provides a mock function
func (_m *MockUserUseCase) ChangePassword(ctx context.Context, userID string, currentPassword string, newPassword string) error {
	ret := _m.Called(ctx, userID, currentPassword, newPassword)

	return ret.Error(0)
}

// GetStats provides a mock function
func (_m *MockUserUseCase) GetStats(ctx context.Context, userID string) (*entity.QuestionStats, error) {
	ret := _m.Called(ctx, userID)

	var r0 *entity.QuestionStats
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*entity.QuestionStats)
	}

	return r0, ret.Error(1)
}

// DeactivateAccount provides a mock function
func (_m *MockUserUseCase) DeactivateAccount(ctx context.Context, userID string) error {
	ret := _m.Called(ctx, userID)

	return ret.Error(0)
}
