package core

import (
	"time"

	domaincore "github.com/iqube-labs/iqube-api/internal/domain/port/core"

	"github.com/stretchr/testify/mock"
)

// MockTokenService is a mock implementation of the TokenService port
type MockTokenService struct {
	mock.Mock
}

// NewMockTokenService creates a mock and registers expectation assertions on cleanup
func NewMockTokenService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockTokenService {
	m := &MockTokenService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// Issue provides a mock function
func (_m *MockTokenService) Issue(userID string, email string) (string, time.Time, error) {
	ret := _m.Called(userID, email)

	r0 := ret.Get(0).(string)
	r1 := ret.Get(1).(time.Time)

	return r0, r1, ret.Error(2)
}

// Parse provides a mock function
func (_m *MockTokenService) Parse(token string) (*domaincore.TokenClaims, error) {
	ret := _m.Called(token)

	var r0 *domaincore.TokenClaims
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domaincore.TokenClaims)
	}

	return r0, ret.Error(1)
}
