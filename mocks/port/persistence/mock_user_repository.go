package persistence

import (
	"context"
	"time"

	"github.com/iqube-labs/iqube-api/internal/domain/entity"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of the UserRepository port
type MockUserRepository struct {
	mock.Mock
}

// NewMockUserRepository creates a mock and registers expectation assertions on cleanup
func NewMockUserRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockUserRepository {
	m := &MockUserRepository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// GetByID provides a mock function
func (_m *MockUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	ret := _m.Called(ctx, id)

	var r0 *entity.User
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*entity.User)
	}

	return r0, ret.Error(1)
}

// GetByIDForUpdate provides a mock function
func (_m *MockUserRepository) GetByIDForUpdate(ctx context.Context, id string) (*entity.User, error) {
	ret := _m.Called(ctx, id)

	var r0 *entity.User
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*entity.User)
	}

	return r0, ret.Error(1)
}

// GetByEmail provides a mock function
func (_m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	ret := _m.Called(ctx, email)

	var r0 *entity.User
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*entity.User)
	}

	return r0, ret.Error(1)
}

// EmailTaken provides a mock function
func (_m *MockUserRepository) EmailTaken(ctx context.Context, email string, excludeID string) (bool, error) {
	ret := _m.Called(ctx, email, excludeID)

	r0 := ret.Get(0).(bool)

	return r0, ret.Error(1)
}

// Create provides a mock function
func (_m *MockUserRepository) Create(ctx context.Context, user *entity.User) error {
	ret := _m.Called(ctx, user)

	return ret.Error(0)
}

// UpdateCredits provides a mock function
func (_m *MockUserRepository) UpdateCredits(ctx context.Context, user *entity.User) error {
	ret := _m.Called(ctx, user)

	return ret.Error(0)
}

// UpdateProfile provides a mock function
func (_m *MockUserRepository) UpdateProfile(ctx context.Context, user *entity.User) error {
	ret := _m.Called(ctx, user)

	return ret.Error(0)
}

// UpdatePassword provides a mock function
func (_m *MockUserRepository) UpdatePassword(ctx context.Context, userID string, passwordHash string, at time.Time) error {
	ret := _m.Called(ctx, userID, passwordHash, at)

	return ret.Error(0)
}

// UpdateTimezone provides a mock function
func (_m *MockUserRepository) UpdateTimezone(ctx context.Context, userID string, timezone string, at time.Time) error {
	ret := _m.Called(ctx, userID, timezone, at)

	return ret.Error(0)
}

// Deactivate provides a mock function
func (_m *MockUserRepository) Deactivate(ctx context.Context, userID string, at time.Time) error {
	ret := _m.Called(ctx, userID, at)

	return ret.Error(0)
}

// FindRefreshCandidates provides a mock function
func (_m *MockUserRepository) FindRefreshCandidates(ctx context.Context, cutoff time.Time, allowance int) ([]*entity.User, error) {
	ret := _m.Called(ctx, cutoff, allowance)

	var r0 []*entity.User
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*entity.User)
	}

	return r0, ret.Error(1)
}

// RefreshCredits provides a mock function
func (_m *MockUserRepository) RefreshCredits(ctx context.Context, userID string, expectedCredits int, cutoff time.Time, allowance int, now time.Time) (bool, error) {
	ret := _m.Called(ctx, userID, expectedCredits, cutoff, allowance, now)

	r0 := ret.Get(0).(bool)

	return r0, ret.Error(1)
}

// RefreshStats provides a mock function
func (_m *MockUserRepository) RefreshStats(ctx context.Context, cutoff time.Time, allowance int) (*entity.RefreshStats, error) {
	ret := _m.Called(ctx, cutoff, allowance)

	var r0 *entity.RefreshStats
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*entity.RefreshStats)
	}

	return r0, ret.Error(1)
}
