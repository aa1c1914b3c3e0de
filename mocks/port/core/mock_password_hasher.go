package core

import (
	"github.com/stretchr/testify/mock"
)

// MockPasswordHasher is a mock implementation of the PasswordHasher port
type MockPasswordHasher struct {
	mock.Mock
}

// NewMockPasswordHasher creates a mock and registers expectation assertions on cleanup
func NewMockPasswordHasher(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockPasswordHasher {
	m := &MockPasswordHasher{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// Hash provides a mock function
func (_m *MockPasswordHasher) Hash(password string) (string, error) {
	ret := _m.Called(password)

	r0 := ret.Get(0).(string)

	return r0, ret.Error(1)
}

// Compare provides a mock function
func (_m *MockPasswordHasher) Compare(hash string, password string) error {
	ret := _m.Called(hash, password)

	return ret.Error(0)
}
