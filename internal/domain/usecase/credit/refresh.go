package credit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iqube-labs/iqube-api/internal/domain/entity"
	errs "github.com/iqube-labs/iqube-api/internal/domain/error"
)

// RefreshSweep resets every active user whose last refresh is at least
// RefreshThreshold old and who holds less than the allowance. Each user is
// refreshed in its own transaction by a conditional update, so a repeated
// sweep inside the threshold refreshes nobody. Per-user failures are
// collected in the result; only a failed candidate query aborts the sweep.
func (uc *CreditUseCase) RefreshSweep(ctx context.Context) (*entity.RefreshResult, error) {
	start := time.Now()

	if err := uc.jobLocks.AcquireLock(ctx, SweepLockName, uc.config.SweepLockTTL); err != nil {
		if errors.Is(err, errs.ErrJobLocked) {
			uc.logger.Warn("Credit refresh sweep already running", nil)
			return nil, errs.ErrSweepInProgress
		}
		return nil, err
	}
	defer func() {
		if err := uc.jobLocks.ReleaseLock(context.WithoutCancel(ctx), SweepLockName); err != nil {
			uc.logger.Error("Failed to release sweep lock", map[string]any{"error": err.Error()})
		}
	}()

	now := uc.timeProvider.Now()
	cutoff := now.Add(-uc.config.RefreshThreshold)

	candidates, err := uc.userRepo.FindRefreshCandidates(ctx, cutoff, uc.config.DailyAllowance)
	if err != nil {
		uc.logger.Error("Failed to find users needing refresh", map[string]any{"error": err.Error()})
		return nil, fmt.Errorf("finding refresh candidates: %w", err)
	}

	result := &entity.RefreshResult{Total: len(candidates)}
	if len(candidates) == 0 {
		result.Message = "No users needed refresh"
		uc.logger.Info("Credit refresh sweep found no users", nil)
		uc.metrics.SweepFinished(0, 0, 0, time.Since(start))
		return result, nil
	}

	uc.logger.Info("Credit refresh sweep started", map[string]any{"candidates": len(candidates)})

	skipped := 0
	for _, user := range candidates {
		refreshed, err := uc.refreshCandidate(ctx, user, cutoff, now)
		switch {
		case err != nil:
			result.Errors++
			result.ErrorDetails = append(result.ErrorDetails, entity.RefreshFailure{
				UserID: user.ID,
				Email:  user.Email,
				Error:  err.Error(),
			})
			uc.logger.Error("Failed to refresh user credits", map[string]any{
				"user_id": user.ID,
				"email":   user.Email,
				"error":   err.Error(),
			})
		case refreshed:
			result.Refreshed++
		default:
			skipped++
		}
	}

	result.Message = fmt.Sprintf("Successfully refreshed %d out of %d users", result.Refreshed, result.Total)
	uc.metrics.SweepFinished(result.Refreshed, skipped, result.Errors, time.Since(start))
	uc.logger.Info("Credit refresh sweep completed", map[string]any{
		"refreshed": result.Refreshed,
		"skipped":   skipped,
		"errors":    result.Errors,
		"total":     result.Total,
	})
	return result, nil
}

// refreshCandidate re-checks the sweep predicate in a conditional update and
// appends the ledger row only when the update matched
func (uc *CreditUseCase) refreshCandidate(ctx context.Context, user *entity.User, cutoff, now time.Time) (bool, error) {
	allowance := uc.config.DailyAllowance
	refreshed := false

	err := uc.retry(ctx, func() error {
		refreshed = false
		return uc.withinTransaction(ctx, func(txCtx context.Context) error {
			ok, err := uc.uow.GetUserRepository(txCtx).RefreshCredits(txCtx, user.ID, user.DailyCredits, cutoff, allowance, now)
			if err != nil || !ok {
				return err
			}

			ledger, err := entity.NewCreditTransaction(user.ID, entity.CreditRefresh, allowance-user.DailyCredits, allowance, sweepDescription, uc.timeProvider)
			if err != nil {
				return err
			}
			if err := uc.uow.GetCreditTransactionRepository(txCtx).Create(txCtx, ledger); err != nil {
				return err
			}

			refreshed = true
			return nil
		})
	})
	return refreshed, err
}

// ManualRefresh refreshes early when the threshold elapsed or the user ran out of credits
func (uc *CreditUseCase) ManualRefresh(ctx context.Context, userID string) (*entity.CreditBalance, error) {
	return uc.refreshUser(ctx, userID, manualDescription, func(user *entity.User, now time.Time) error {
		if user.HoursSinceRefresh(now) >= uc.config.RefreshThreshold.Hours() || user.DailyCredits == 0 {
			return nil
		}
		return errs.NewRefreshNotAvailableError(user.ID, user.LastCreditRefresh, now, uc.config.ManualRefreshWindow)
	})
}

// ForceRefresh resets a user unconditionally
func (uc *CreditUseCase) ForceRefresh(ctx context.Context, userID string) (*entity.CreditBalance, error) {
	return uc.refreshUser(ctx, userID, forceRefreshDescription, func(*entity.User, time.Time) error {
		return nil
	})
}

func (uc *CreditUseCase) refreshUser(
	ctx context.Context,
	userID string,
	description string,
	allowed func(user *entity.User, now time.Time) error,
) (*entity.CreditBalance, error) {
	if userID == "" {
		return nil, errs.ErrInvalidUserID
	}

	var balance *entity.CreditBalance
	err := uc.withinTransaction(ctx, func(txCtx context.Context) error {
		users := uc.uow.GetUserRepository(txCtx)

		user, err := users.GetByIDForUpdate(txCtx, userID)
		if err != nil {
			return err
		}
		if err := allowed(user, uc.timeProvider.Now()); err != nil {
			return err
		}

		restored := user.RefreshCredits(uc.config.DailyAllowance, uc.timeProvider)
		if err := users.UpdateCredits(txCtx, user); err != nil {
			return err
		}

		ledger, err := entity.NewCreditTransaction(user.ID, entity.CreditRefresh, restored, user.DailyCredits, description, uc.timeProvider)
		if err != nil {
			return err
		}
		if err := uc.uow.GetCreditTransactionRepository(txCtx).Create(txCtx, ledger); err != nil {
			return err
		}

		balance = uc.balanceOf(user)
		return nil
	})
	if err != nil {
		if !errors.Is(err, errs.ErrRefreshNotAvailable) {
			uc.logger.Error("Credit refresh failed", map[string]any{
				"user_id":     userID,
				"description": description,
				"error":       err.Error(),
			})
		}
		return nil, err
	}

	uc.logger.Info("Credits refreshed", map[string]any{
		"user_id":     userID,
		"description": description,
	})
	return balance, nil
}
