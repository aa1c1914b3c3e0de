package credit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/iqube-labs/iqube-api/internal/domain/entity"
	errs "github.com/iqube-labs/iqube-api/internal/domain/error"
	mockcore "github.com/iqube-labs/iqube-api/mocks/port/core"
)

func TestCreditUseCase_RefreshSweep(t *testing.T) {
	cutoff := fixedTime.Add(-20 * time.Hour)

	t.Run("refreshes, skips and collects failures", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		recorder := mockcore.NewMockMetricsRecorder(t)
		f.uc.WithMetrics(recorder)

		stale := newUser("stale", 4, fixedTime.Add(-25*time.Hour))
		raced := newUser("raced", 0, fixedTime.Add(-21*time.Hour))
		broken := newUser("broken", 1, fixedTime.Add(-30*time.Hour))

		f.locks.On("AcquireLock", f.ctx, SweepLockName, 10*time.Minute).Return(nil).Once()
		f.locks.On("ReleaseLock", mock.Anything, SweepLockName).Return(nil).Once()
		f.users.On("FindRefreshCandidates", f.ctx, cutoff, 10).Return([]*entity.User{stale, raced, broken}, nil).Once()

		f.uow.On("Begin", f.ctx).Return(f.txCtx, nil).Times(3)
		f.uow.On("GetUserRepository", f.txCtx).Return(f.users)
		f.uow.On("GetCreditTransactionRepository", f.txCtx).Return(f.ledger)
		f.uow.On("Commit", f.txCtx).Return(nil).Twice()
		f.uow.On("Rollback", f.txCtx).Return(nil).Once()

		f.users.On("RefreshCredits", f.txCtx, "stale", 4, cutoff, 10, fixedTime).Return(true, nil).Once()
		f.ledger.On("Create", f.txCtx, mock.MatchedBy(func(tx *entity.CreditTransaction) bool {
			return tx.UserID == "stale" && tx.Type == entity.CreditRefresh && tx.Amount == 6 && tx.BalanceAfter == 10
		})).Return(nil).Once()
		f.users.On("RefreshCredits", f.txCtx, "raced", 0, cutoff, 10, fixedTime).Return(false, nil).Once()
		f.users.On("RefreshCredits", f.txCtx, "broken", 1, cutoff, 10, fixedTime).Return(false, errs.ErrDatabaseTimeout).Once()

		recorder.On("SweepFinished", 1, 1, 1, mock.AnythingOfType("time.Duration")).Once()

		// Act
		result, err := f.uc.RefreshSweep(f.ctx)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 3, result.Total)
		assert.Equal(t, 1, result.Refreshed)
		assert.Equal(t, 1, result.Errors)
		require.Len(t, result.ErrorDetails, 1)
		assert.Equal(t, "broken", result.ErrorDetails[0].UserID)
		assert.Equal(t, "broken@example.com", result.ErrorDetails[0].Email)
		assert.Equal(t, "Successfully refreshed 1 out of 3 users", result.Message)
	})

	t.Run("nothing to do", func(t *testing.T) {
		f := newFixture(t)
		f.locks.On("AcquireLock", f.ctx, SweepLockName, mock.Anything).Return(nil).Once()
		f.locks.On("ReleaseLock", mock.Anything, SweepLockName).Return(nil).Once()
		f.users.On("FindRefreshCandidates", f.ctx, cutoff, 10).Return([]*entity.User{}, nil).Once()

		result, err := f.uc.RefreshSweep(f.ctx)

		require.NoError(t, err)
		assert.Equal(t, 0, result.Total)
		assert.Equal(t, "No users needed refresh", result.Message)
	})

	t.Run("overlapping sweep is rejected", func(t *testing.T) {
		f := newFixture(t)
		f.locks.On("AcquireLock", f.ctx, SweepLockName, mock.Anything).Return(errs.ErrJobLocked).Once()

		_, err := f.uc.RefreshSweep(f.ctx)

		assert.ErrorIs(t, err, errs.ErrSweepInProgress)
		f.users.AssertNotCalled(t, "FindRefreshCandidates", mock.Anything, mock.Anything, mock.Anything)
		f.locks.AssertNotCalled(t, "ReleaseLock", mock.Anything, mock.Anything)
	})

	t.Run("candidate query failure aborts and releases the lock", func(t *testing.T) {
		f := newFixture(t)
		f.locks.On("AcquireLock", f.ctx, SweepLockName, mock.Anything).Return(nil).Once()
		f.locks.On("ReleaseLock", mock.Anything, SweepLockName).Return(nil).Once()
		f.users.On("FindRefreshCandidates", f.ctx, cutoff, 10).Return(nil, errs.ErrDatabaseConnection).Once()

		_, err := f.uc.RefreshSweep(f.ctx)

		assert.ErrorIs(t, err, errs.ErrDatabaseConnection)
	})

	t.Run("transient failures are retried", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		attempts := 0
		f.uc.WithRetry(func(ctx context.Context, op func() error) error {
			var err error
			for i := 0; i < 3; i++ {
				attempts++
				if err = op(); err == nil || !errors.Is(err, errs.ErrConcurrentModification) {
					return err
				}
			}
			return err
		})
		user := newUser("u1", 2, fixedTime.Add(-22*time.Hour))

		f.locks.On("AcquireLock", f.ctx, SweepLockName, mock.Anything).Return(nil).Once()
		f.locks.On("ReleaseLock", mock.Anything, SweepLockName).Return(nil).Once()
		f.users.On("FindRefreshCandidates", f.ctx, cutoff, 10).Return([]*entity.User{user}, nil).Once()
		f.uow.On("Begin", f.ctx).Return(f.txCtx, nil).Twice()
		f.uow.On("GetUserRepository", f.txCtx).Return(f.users)
		f.uow.On("GetCreditTransactionRepository", f.txCtx).Return(f.ledger)
		f.uow.On("Rollback", f.txCtx).Return(nil).Once()
		f.uow.On("Commit", f.txCtx).Return(nil).Once()
		f.users.On("RefreshCredits", f.txCtx, "u1", 2, cutoff, 10, fixedTime).Return(false, errs.ErrConcurrentModification).Once()
		f.users.On("RefreshCredits", f.txCtx, "u1", 2, cutoff, 10, fixedTime).Return(true, nil).Once()
		f.ledger.On("Create", f.txCtx, ledgerMatching(entity.CreditRefresh, 8, 10)).Return(nil).Once()

		// Act
		result, err := f.uc.RefreshSweep(f.ctx)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 1, result.Refreshed)
		assert.Equal(t, 0, result.Errors)
		assert.Equal(t, 2, attempts)
	})
}

func TestCreditUseCase_ManualRefresh(t *testing.T) {
	t.Run("allowed after the threshold", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.expectTx(true)
		f.users.On("GetByIDForUpdate", f.txCtx, "u1").Return(newUser("u1", 3, fixedTime.Add(-21*time.Hour)), nil).Once()
		f.users.On("UpdateCredits", f.txCtx, mock.MatchedBy(func(u *entity.User) bool {
			return u.DailyCredits == 10 && u.LastCreditRefresh.Equal(fixedTime)
		})).Return(nil).Once()
		f.ledger.On("Create", f.txCtx, mock.MatchedBy(func(tx *entity.CreditTransaction) bool {
			return tx.Amount == 7 && tx.BalanceAfter == 10 && tx.Description == "Daily credit refresh"
		})).Return(nil).Once()

		// Act
		balance, err := f.uc.ManualRefresh(f.ctx, "u1")

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 10, balance.Credits)
		assert.Equal(t, fixedTime.Add(20*time.Hour), balance.NextRefreshAt)
	})

	t.Run("allowed early when credits ran out", func(t *testing.T) {
		f := newFixture(t)
		f.expectTx(true)
		f.users.On("GetByIDForUpdate", f.txCtx, "u1").Return(newUser("u1", 0, fixedTime.Add(-2*time.Hour)), nil).Once()
		f.users.On("UpdateCredits", f.txCtx, mock.Anything).Return(nil).Once()
		f.ledger.On("Create", f.txCtx, ledgerMatching(entity.CreditRefresh, 10, 10)).Return(nil).Once()

		balance, err := f.uc.ManualRefresh(f.ctx, "u1")

		require.NoError(t, err)
		assert.Equal(t, 10, balance.Credits)
	})

	t.Run("refused inside the window", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		last := fixedTime.Add(-5 * time.Hour)
		f.expectTx(false)
		f.users.On("GetByIDForUpdate", f.txCtx, "u1").Return(newUser("u1", 3, last), nil).Once()

		// Act
		_, err := f.uc.ManualRefresh(f.ctx, "u1")

		// Assert
		assert.ErrorIs(t, err, errs.ErrRefreshNotAvailable)
		var notYet *errs.RefreshNotAvailableError
		require.ErrorAs(t, err, &notYet)
		assert.Equal(t, 19, notYet.HoursUntilRefresh)
		assert.Equal(t, last.Add(24*time.Hour), notYet.NextRefreshAvailable)
		f.users.AssertNotCalled(t, "UpdateCredits", mock.Anything, mock.Anything)
	})
}

func TestCreditUseCase_ForceRefresh(t *testing.T) {
	f := newFixture(t)
	f.expectTx(true)
	f.users.On("GetByIDForUpdate", f.txCtx, "u1").Return(newUser("u1", 9, fixedTime.Add(-time.Minute)), nil).Once()
	f.users.On("UpdateCredits", f.txCtx, mock.Anything).Return(nil).Once()
	f.ledger.On("Create", f.txCtx, mock.MatchedBy(func(tx *entity.CreditTransaction) bool {
		return tx.Amount == 1 && tx.Description == "Force refresh by admin"
	})).Return(nil).Once()

	balance, err := f.uc.ForceRefresh(f.ctx, "u1")

	require.NoError(t, err)
	assert.Equal(t, 10, balance.Credits)
}
