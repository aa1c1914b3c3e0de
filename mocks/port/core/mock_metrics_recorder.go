package core

import (
	"time"

	"github.com/stretchr/testify/mock"
)

// MockMetricsRecorder is a mock implementation of the MetricsRecorder port
type MockMetricsRecorder struct {
	mock.Mock
}

// NewMockMetricsRecorder creates a mock and registers expectation assertions on cleanup
func NewMockMetricsRecorder(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockMetricsRecorder {
	m := &MockMetricsRecorder{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// CreditsDeducted provides a mock function
func (_m *MockMetricsRecorder) CreditsDeducted(n int) {
	_m.Called(n)
}

// CreditsRefunded provides a mock function
func (_m *MockMetricsRecorder) CreditsRefunded(n int) {
	_m.Called(n)
}

// SweepFinished provides a mock function
func (_m *MockMetricsRecorder) SweepFinished(refreshed int, skipped int, failed int, elapsed time.Duration) {
	_m.Called(refreshed, skipped, failed, elapsed)
}
