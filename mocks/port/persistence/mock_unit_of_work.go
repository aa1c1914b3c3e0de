package persistence

import (
	"context"

	domainpersistence "github.com/iqube-labs/iqube-api/internal/domain/port/persistence"

	"github.com/stretchr/testify/mock"
)

// MockUnitOfWork is a mock implementation of the UnitOfWork port
type MockUnitOfWork struct {
	mock.Mock
}

// NewMockUnitOfWork creates a mock and registers expectation assertions on cleanup
func NewMockUnitOfWork(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockUnitOfWork {
	m := &MockUnitOfWork{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// Begin provides a mock function
func (_m *MockUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	ret := _m.Called(ctx)

	var r0 context.Context
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(context.Context)
	}

	return r0, ret.Error(1)
}

// Commit provides a mock function
func (_m *MockUnitOfWork) Commit(ctx context.Context) error {
	ret := _m.Called(ctx)

	return ret.Error(0)
}

// Rollback provides a mock function
func (_m *MockUnitOfWork) Rollback(ctx context.Context) error {
	ret := _m.Called(ctx)

	return ret.Error(0)
}

// GetUserRepository provides a mock function
func (_m *MockUnitOfWork) GetUserRepository(ctx context.Context) domainpersistence.UserRepository {
	ret := _m.Called(ctx)

	var r0 domainpersistence.UserRepository
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(domainpersistence.UserRepository)
	}

	return r0
}

// GetCreditTransactionRepository provides a mock function
func (_m *MockUnitOfWork) GetCreditTransactionRepository(ctx context.Context) domainpersistence.CreditTransactionRepository {
	ret := _m.Called(ctx)

	var r0 domainpersistence.CreditTransactionRepository
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(domainpersistence.CreditTransactionRepository)
	}

	return r0
}

// GetTopicRepository provides a mock function
func (_m *MockUnitOfWork) GetTopicRepository(ctx context.Context) domainpersistence.TopicRepository {
	ret := _m.Called(ctx)

	var r0 domainpersistence.TopicRepository
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(domainpersistence.TopicRepository)
	}

	return r0
}

// GetQuestionRepository provides a mock function
func (_m *MockUnitOfWork) GetQuestionRepository(ctx context.Context) domainpersistence.QuestionRepository {
	ret := _m.Called(ctx)

	var r0 domainpersistence.QuestionRepository
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(domainpersistence.QuestionRepository)
	}

	return r0
}
