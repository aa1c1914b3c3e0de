package credit

import (
	"context"
	"errors"
	"strings"

	"github.com/iqube-labs/iqube-api/internal/domain/entity"
	errs "github.com/iqube-labs/iqube-api/internal/domain/error"
)

// Deduct removes n credits under a row lock and records a deduction.
// Concurrent deductions for one user serialize on the lock, so the balance never goes negative.
func (uc *CreditUseCase) Deduct(ctx context.Context, userID string, n int, description string) (*entity.CreditTransaction, error) {
	if userID == "" {
		return nil, errs.ErrInvalidUserID
	}
	if n <= 0 {
		return nil, errs.ErrInvalidCreditAmount
	}
	description = strings.TrimSpace(description)
	if description == "" {
		description = DefaultDescription
	}

	var ledger *entity.CreditTransaction
	err := uc.withinTransaction(ctx, func(txCtx context.Context) error {
		users := uc.uow.GetUserRepository(txCtx)

		user, err := users.GetByIDForUpdate(txCtx, userID)
		if err != nil {
			return err
		}
		if !user.IsActive {
			return errs.ErrUserNotFound
		}

		if err := user.DeductCredits(n, uc.timeProvider); err != nil {
			return err
		}
		if err := users.UpdateCredits(txCtx, user); err != nil {
			return err
		}

		ledger, err = entity.NewCreditTransaction(user.ID, entity.CreditDeduction, -n, user.DailyCredits, description, uc.timeProvider)
		if err != nil {
			return err
		}
		return uc.uow.GetCreditTransactionRepository(txCtx).Create(txCtx, ledger)
	})
	if err != nil {
		if errors.Is(err, errs.ErrInsufficientCredits) {
			uc.logger.Warn("Credit deduction refused", map[string]any{
				"user_id":  userID,
				"required": n,
			})
		} else {
			uc.logger.Error("Credit deduction failed", map[string]any{
				"user_id": userID,
				"amount":  n,
				"error":   err.Error(),
			})
		}
		return nil, err
	}

	uc.metrics.CreditsDeducted(n)
	uc.logger.Info("Credits deducted", map[string]any{
		"user_id":       userID,
		"amount":        n,
		"balance_after": ledger.BalanceAfter,
		"description":   description,
	})
	return ledger, nil
}

// Adjust applies a signed admin adjustment clamped to [0, DailyAllowance].
// The ledger row carries the delta actually applied.
func (uc *CreditUseCase) Adjust(ctx context.Context, userID string, delta int, description string) (*entity.CreditTransaction, error) {
	if userID == "" {
		return nil, errs.ErrInvalidUserID
	}
	if delta == 0 {
		return nil, errs.ErrInvalidCreditAmount
	}

	var ledger *entity.CreditTransaction
	err := uc.withinTransaction(ctx, func(txCtx context.Context) error {
		users := uc.uow.GetUserRepository(txCtx)

		user, err := users.GetByIDForUpdate(txCtx, userID)
		if err != nil {
			return err
		}

		applied := user.AdjustCredits(delta, uc.config.DailyAllowance, uc.timeProvider)
		if err := users.UpdateCredits(txCtx, user); err != nil {
			return err
		}

		ledger, err = entity.NewCreditTransaction(user.ID, entity.CreditAdminAdjustment, applied, user.DailyCredits, description, uc.timeProvider)
		if err != nil {
			return err
		}
		return uc.uow.GetCreditTransactionRepository(txCtx).Create(txCtx, ledger)
	})
	if err != nil {
		uc.logger.Error("Credit adjustment failed", map[string]any{
			"user_id": userID,
			"delta":   delta,
			"error":   err.Error(),
		})
		return nil, err
	}

	if ledger.Amount > 0 {
		uc.metrics.CreditsRefunded(ledger.Amount)
	}
	uc.logger.Info("Credits adjusted", map[string]any{
		"user_id":       userID,
		"requested":     delta,
		"applied":       ledger.Amount,
		"balance_after": ledger.BalanceAfter,
		"description":   description,
	})
	return ledger, nil
}
