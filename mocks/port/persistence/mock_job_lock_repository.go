package persistence

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockJobLockRepository is a mock implementation of the JobLockRepository port
type MockJobLockRepository struct {
	mock.Mock
}

// NewMockJobLockRepository creates a mock and registers expectation assertions on cleanup
func NewMockJobLockRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockJobLockRepository {
	m := &MockJobLockRepository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// AcquireLock provides a mock function
func (_m *MockJobLockRepository) AcquireLock(ctx context.Context, name string, duration time.Duration) error {
	ret := _m.Called(ctx, name, duration)

	return ret.Error(0)
}

// ReleaseLock provides a mock function
func (_m *MockJobLockRepository) ReleaseLock(ctx context.Context, name string) error {
	ret := _m.Called(ctx, name)

	return ret.Error(0)
}
