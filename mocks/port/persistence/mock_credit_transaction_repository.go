package persistence

import (
	"context"

	"github.com/iqube-labs/iqube-api/internal/domain/entity"

	"github.com/stretchr/testify/mock"
)

// MockCreditTransactionRepository is a mock implementation of the CreditTransactionRepository port
type MockCreditTransactionRepository struct {
	mock.Mock
}

// NewMockCreditTransactionRepository creates a mock and registers expectation assertions on cleanup
func NewMockCreditTransactionRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockCreditTransactionRepository {
	m := &MockCreditTransactionRepository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// Create provides a mock function
func (_m *MockCreditTransactionRepository) Create(ctx context.Context, tx *entity.CreditTransaction) error {
	ret := _m.Called(ctx, tx)

	return ret.Error(0)
}

// ListByUser provides a mock function
func (_m *MockCreditTransactionRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*entity.CreditTransaction, error) {
	ret := _m.Called(ctx, userID, limit)

	var r0 []*entity.CreditTransaction
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*entity.CreditTransaction)
	}

	return r0, ret.Error(1)
}
