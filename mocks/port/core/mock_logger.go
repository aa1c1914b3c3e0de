package core

import (
	domaincore "github.com/iqube-labs/iqube-api/internal/domain/port/core"

	"github.com/stretchr/testify/mock"
)

// MockLogger is a mock implementation of the Logger port
type MockLogger struct {
	mock.Mock
}

// NewMockLogger creates a mock and registers expectation assertions on cleanup
func NewMockLogger(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockLogger {
	m := &MockLogger{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// SetLevel provides a mock function
func (_m *MockLogger) SetLevel(level domaincore.LogLevel) {
	_m.Called(level)
}

// GetLevel provides a mock function
func (_m *MockLogger) GetLevel() domaincore.LogLevel {
	ret := _m.Called()

	r0 := ret.Get(0).(domaincore.LogLevel)

	return r0
}

// Debug provides a mock function
func (_m *MockLogger) Debug(message string, fields map[string]any) {
	_m.Called(message, fields)
}

// Info provides a mock function
func (_m *MockLogger) Info(message string, fields map[string]any) {
	_m.Called(message, fields)
}

// Warn provides a mock function
func (_m *MockLogger) Warn(message string, fields map[string]any) {
	_m.Called(message, fields)
}

// Error provides a mock function
func (_m *MockLogger) Error(message string, fields map[string]any) {
	_m.Called(message, fields)
}

// Flush provides a mock function
func (_m *MockLogger) Flush() error {
	ret := _m.Called()

	return ret.Error(0)
}
