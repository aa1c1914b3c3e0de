package core

import (
	"context"
	"time"

	domaincore "github.com/iqube-labs/iqube-api/internal/domain/port/core"

	"github.com/stretchr/testify/mock"
)

// MockTimeProvider is a mock implementation of the TimeProvider port
type MockTimeProvider struct {
	mock.Mock
}

// NewMockTimeProvider creates a mock and registers expectation assertions on cleanup
func NewMockTimeProvider(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockTimeProvider {
	m := &MockTimeProvider{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// Now provides a mock function
func (_m *MockTimeProvider) Now() time.Time {
	ret := _m.Called()

	r0 := ret.Get(0).(time.Time)

	return r0
}

// Since provides a mock function
func (_m *MockTimeProvider) Since(t time.Time) domaincore.Duration {
	ret := _m.Called(t)

	r0 := ret.Get(0).(domaincore.Duration)

	return r0
}

// Until provides a mock function
func (_m *MockTimeProvider) Until(t time.Time) domaincore.Duration {
	ret := _m.Called(t)

	r0 := ret.Get(0).(domaincore.Duration)

	return r0
}

// Sleep provides a mock function
func (_m *MockTimeProvider) Sleep(d domaincore.Duration) {
	_m.Called(d)
}

// WithTimeout provides a mock function
func (_m *MockTimeProvider) WithTimeout(ctx context.Context, timeout domaincore.Duration) (context.Context, context.CancelFunc) {
	ret := _m.Called(ctx, timeout)

	var r0 context.Context
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(context.Context)
	}

	var r1 context.CancelFunc
	if ret.Get(1) != nil {
		r1 = ret.Get(1).(context.CancelFunc)
	}

	return r0, r1
}
