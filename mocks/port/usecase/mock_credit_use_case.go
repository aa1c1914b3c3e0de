package usecase

import (
	"context"

	"github.com/iqube-labs/iqube-api/internal/domain/entity"

	"github.com/stretchr/testify/mock"
)

// MockCreditUseCase is a mock implementation of the CreditUseCase port
type MockCreditUseCase struct {
	mock.Mock
}

// NewMockCreditUseCase creates a mock and registers expectation assertions on cleanup
func NewMockCreditUseCase(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockCreditUseCase {
	m := &MockCreditUseCase{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// GetBalance provides a mock function
func (_m *MockCreditUseCase) GetBalance(ctx context.Context, userID string) (*entity.CreditBalance, error) {
	ret := _m.Called(ctx, userID)

	var r0 *entity.CreditBalance
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*entity.CreditBalance)
	}

	return r0, ret.Error(1)
}

// Deduct provides a mock function
func (_m *MockCreditUseCase) Deduct(ctx context.Context, userID string, n int, description string) (*entity.CreditTransaction, error) {
	ret := _m.Called(ctx, userID, n, description)

	var r0 *entity.CreditTransaction
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*entity.CreditTransaction)
	}

	return r0, ret.Error(1)
}

// Adjust provides a mock function
func (_m *MockCreditUseCase) Adjust(ctx context.Context, userID string, delta int, description string) (*entity.CreditTransaction, error) {
	ret := _m.Called(ctx, userID, delta, description)

	var r0 *entity.CreditTransaction
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*entity.CreditTransaction)
	}

	return r0, ret.Error(1)
}

// RefreshSweep provides a mock function
func (_m *MockCreditUseCase) RefreshSweep(ctx context.Context) (*entity.RefreshResult, error) {
	ret := _m.Called(ctx)

	var r0 *entity.RefreshResult
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*entity.RefreshResult)
	}

	return r0, ret.Error(1)
}

// ManualRefresh provides a mock function
func (_m *MockCreditUseCase) ManualRefresh(ctx context.Context, userID string) (*entity.CreditBalance, error) {
	ret := _m.Called(ctx, userID)

	var r0 *entity.CreditBalance
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*entity.CreditBalance)
	}

	return r0, ret.Error(1)
}

// ForceRefresh provides a mock function
func (_m *MockCreditUseCase) ForceRefresh(ctx context.Context, userID string) (*entity.CreditBalance, error) {
	ret := _m.Called(ctx, userID)

	var r0 *entity.CreditBalance
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*entity.CreditBalance)
	}

	return r0, ret.Error(1)
}

// RefreshStats provides a mock function
func (_m *MockCreditUseCase) RefreshStats(ctx context.Context) (*entity.RefreshStats, error) {
	ret := _m.Called(ctx)

	var r0 *entity.RefreshStats
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*entity.RefreshStats)
	}

	return r0, ret.Error(1)
}

// History provides a mock function
func (_m *MockCreditUseCase) History(ctx context.Context, userID string, limit int) ([]*entity.CreditTransaction, error) {
	ret := _m.Called(ctx, userID, limit)

	var r0 []*entity.CreditTransaction
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*entity.CreditTransaction)
	}

	return r0, ret.Error(1)
}

// UpdateTimezone provides a mock function
func (_m *MockCreditUseCase) UpdateTimezone(ctx context.Context, userID string, timezone string) (*entity.User, error) {
	ret := _m.Called(ctx, userID, timezone)

	var r0 *entity.User
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*entity.User)
	}

	return r0, ret.Error(1)
}
