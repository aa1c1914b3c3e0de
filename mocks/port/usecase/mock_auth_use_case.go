package usecase

import (
	"context"

	"github.com/iqube-labs/iqube-api/internal/domain/entity"
	domaincore "github.com/iqube-labs/iqube-api/internal/domain/port/core"
	domainusecase "github.com/iqube-labs/iqube-api/internal/domain/port/usecase"

	"github.com/stretchr/testify/mock"
)

// MockAuthUseCase is a mock implementation of the AuthUseCase port
type MockAuthUseCase struct {
	mock.Mock
}

// NewMockAuthUseCase creates a mock and registers expectation assertions on cleanup
func NewMockAuthUseCase(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockAuthUseCase {
	m := &MockAuthUseCase{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// Register provides a mock function
func (_m *MockAuthUseCase) Register(ctx context.Context, input domainusecase.RegisterInput) (*domainusecase.AuthResult, error) {
	ret := _m.Called(ctx, input)

	var r0 *domainusecase.AuthResult
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domainusecase.AuthResult)
	}

	return r0, ret.Error(1)
}

// Login provides a mock function
func (_m *MockAuthUseCase) Login(ctx context.Context, email string, password string) (*domainusecase.AuthResult, error) {
	ret := _m.Called(ctx, email, password)

	var r0 *domainusecase.AuthResult
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domainusecase.AuthResult)
	}

	return r0, ret.Error(1)
}

// VerifyToken provides a mock function
func (_m *MockAuthUseCase) VerifyToken(ctx context.Context, token string) (*domaincore.TokenClaims, *entity.User, error) {
	ret := _m.Called(ctx, token)

	var r0 *domaincore.TokenClaims
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domaincore.TokenClaims)
	}

	var r1 *entity.User
	if ret.Get(1) != nil {
		r1 = ret.Get(1).(*entity.User)
	}

	return r0, r1, ret.Error(2)
}
