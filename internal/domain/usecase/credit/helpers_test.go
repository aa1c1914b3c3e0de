package credit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/iqube-labs/iqube-api/internal/domain/entity"
	mockcore "github.com/iqube-labs/iqube-api/mocks/port/core"
	mockpersistence "github.com/iqube-labs/iqube-api/mocks/port/persistence"
)

var fixedTime = time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)

type txKey struct{}

type fixture struct {
	ctx    context.Context
	txCtx  context.Context
	uow    *mockpersistence.MockUnitOfWork
	users  *mockpersistence.MockUserRepository
	ledger *mockpersistence.MockCreditTransactionRepository
	locks  *mockpersistence.MockJobLockRepository
	clock  *mockcore.MockTimeProvider
	uc     *CreditUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctx := context.Background()
	f := &fixture{
		ctx:    ctx,
		txCtx:  context.WithValue(ctx, txKey{}, "tx"),
		uow:    mockpersistence.NewMockUnitOfWork(t),
		users:  mockpersistence.NewMockUserRepository(t),
		ledger: mockpersistence.NewMockCreditTransactionRepository(t),
		locks:  mockpersistence.NewMockJobLockRepository(t),
		clock:  mockcore.NewMockTimeProvider(t),
	}

	logger := mockcore.NewMockLogger(t)
	for _, level := range []string{"Debug", "Info", "Warn", "Error"} {
		logger.On(level, mock.Anything, mock.Anything).Maybe()
	}
	f.clock.On("Now").Return(fixedTime).Maybe()

	f.uc = NewCreditUseCase(f.uow, f.users, f.ledger, f.locks, f.clock, logger, DefaultConfig())
	return f
}

// expectTx wires one transaction that ends with commit or rollback
func (f *fixture) expectTx(commit bool) {
	f.uow.On("Begin", f.ctx).Return(f.txCtx, nil).Once()
	f.uow.On("GetUserRepository", f.txCtx).Return(f.users).Maybe()
	f.uow.On("GetCreditTransactionRepository", f.txCtx).Return(f.ledger).Maybe()
	if commit {
		f.uow.On("Commit", f.txCtx).Return(nil).Once()
	} else {
		f.uow.On("Rollback", f.txCtx).Return(nil).Once()
	}
}

func newUser(id string, credits int, lastRefresh time.Time) *entity.User {
	return &entity.User{
		ID:                id,
		Email:             id + "@example.com",
		DailyCredits:      credits,
		LastCreditRefresh: lastRefresh,
		Timezone:          "UTC",
		IsActive:          true,
		CreatedAt:         fixedTime.Add(-30 * 24 * time.Hour),
		UpdatedAt:         lastRefresh,
	}
}

func ledgerMatching(txType entity.CreditTransactionType, amount, balanceAfter int) any {
	return mock.MatchedBy(func(tx *entity.CreditTransaction) bool {
		return tx.Type == txType && tx.Amount == amount && tx.BalanceAfter == balanceAfter
	})
}
