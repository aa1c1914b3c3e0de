package credit

import (
	"context"
	"strings"
	"time"

	"github.com/iqube-labs/iqube-api/internal/domain/entity"
	errs "github.com/iqube-labs/iqube-api/internal/domain/error"
	coreport "github.com/iqube-labs/iqube-api/internal/domain/port/core"
	"github.com/iqube-labs/iqube-api/internal/domain/port/persistence"
)

// SweepLockName is the job lock held while a refresh sweep runs
const SweepLockName = "credit_refresh_sweep"

const (
	DefaultDescription      = "Question generation"
	sweepDescription        = "Automatic daily credit refresh"
	manualDescription       = "Daily credit refresh"
	forceRefreshDescription = "Force refresh by admin"
)

// Config holds the allowance rules
type Config struct {
	DailyAllowance      int
	RefreshThreshold    time.Duration
	ManualRefreshWindow time.Duration
	HistoryLimit        int
	MaxHistoryLimit     int
	SweepLockTTL        time.Duration
}

// DefaultConfig returns 10 credits refreshed after 20 hours
func DefaultConfig() Config {
	return Config{
		DailyAllowance:      entity.DefaultDailyCredits,
		RefreshThreshold:    20 * time.Hour,
		ManualRefreshWindow: 24 * time.Hour,
		HistoryLimit:        50,
		MaxHistoryLimit:     100,
		SweepLockTTL:        10 * time.Minute,
	}
}

// CreditUseCase implements credit accounting on top of the user and ledger repositories
type CreditUseCase struct {
	uow          persistence.UnitOfWork
	userRepo     persistence.UserRepository
	ledgerRepo   persistence.CreditTransactionRepository
	jobLocks     persistence.JobLockRepository
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
	config       Config
	retry        persistence.RetryFunc
	metrics      coreport.MetricsRecorder
}

// NewCreditUseCase creates a new CreditUseCase
func NewCreditUseCase(
	uow persistence.UnitOfWork,
	userRepo persistence.UserRepository,
	ledgerRepo persistence.CreditTransactionRepository,
	jobLocks persistence.JobLockRepository,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
	config Config,
) *CreditUseCase {
	return &CreditUseCase{
		uow:          uow,
		userRepo:     userRepo,
		ledgerRepo:   ledgerRepo,
		jobLocks:     jobLocks,
		timeProvider: timeProvider,
		logger:       logger,
		config:       config,
		retry:        runOnce,
		metrics:      noopMetrics{},
	}
}

// WithRetry retries per-user sweep steps on transient database errors
func (uc *CreditUseCase) WithRetry(retry persistence.RetryFunc) *CreditUseCase {
	if retry != nil {
		uc.retry = retry
	}
	return uc
}

// WithMetrics reports deductions, refunds and sweeps to recorder
func (uc *CreditUseCase) WithMetrics(recorder coreport.MetricsRecorder) *CreditUseCase {
	if recorder != nil {
		uc.metrics = recorder
	}
	return uc
}

// Config returns the allowance rules in effect
func (uc *CreditUseCase) Config() Config {
	return uc.config
}

// GetBalance returns the caller's allowance and next refresh time
func (uc *CreditUseCase) GetBalance(ctx context.Context, userID string) (*entity.CreditBalance, error) {
	if userID == "" {
		return nil, errs.ErrInvalidUserID
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return uc.balanceOf(user), nil
}

// History returns the newest ledger rows, limit defaulting to HistoryLimit and capped at MaxHistoryLimit
func (uc *CreditUseCase) History(ctx context.Context, userID string, limit int) ([]*entity.CreditTransaction, error) {
	if userID == "" {
		return nil, errs.ErrInvalidUserID
	}
	if limit <= 0 {
		limit = uc.config.HistoryLimit
	}
	if limit > uc.config.MaxHistoryLimit {
		limit = uc.config.MaxHistoryLimit
	}

	return uc.ledgerRepo.ListByUser(ctx, userID, limit)
}

// UpdateTimezone stores an IANA timezone name
func (uc *CreditUseCase) UpdateTimezone(ctx context.Context, userID, timezone string) (*entity.User, error) {
	timezone = strings.TrimSpace(timezone)
	if timezone == "" {
		return nil, errs.ErrInvalidTimezone
	}
	if _, err := time.LoadLocation(timezone); err != nil {
		return nil, errs.ErrInvalidTimezone
	}

	if err := uc.userRepo.UpdateTimezone(ctx, userID, timezone, uc.timeProvider.Now()); err != nil {
		uc.logger.Error("Failed to update timezone", map[string]any{
			"user_id": userID,
			"error":   err.Error(),
		})
		return nil, err
	}

	// Reload for the current balance
	return uc.userRepo.GetByID(ctx, userID)
}

// RefreshStats describes the population the sweep operates on
func (uc *CreditUseCase) RefreshStats(ctx context.Context) (*entity.RefreshStats, error) {
	cutoff := uc.timeProvider.Now().Add(-uc.config.RefreshThreshold)
	return uc.userRepo.RefreshStats(ctx, cutoff, uc.config.DailyAllowance)
}

func (uc *CreditUseCase) balanceOf(user *entity.User) *entity.CreditBalance {
	return &entity.CreditBalance{
		Credits:       user.DailyCredits,
		LastRefresh:   user.LastCreditRefresh,
		Timezone:      user.Timezone,
		NextRefreshAt: user.LastCreditRefresh.Add(uc.config.RefreshThreshold),
	}
}

// withinTransaction runs fn in a unit of work, rolling back on error or panic
func (uc *CreditUseCase) withinTransaction(ctx context.Context, fn func(txCtx context.Context) error) error {
	txCtx, err := uc.uow.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = uc.uow.Rollback(txCtx)
			panic(p)
		}
	}()

	if err := fn(txCtx); err != nil {
		if rbErr := uc.uow.Rollback(txCtx); rbErr != nil {
			uc.logger.Error("Failed to roll back credit transaction", map[string]any{
				"error":          rbErr.Error(),
				"original_error": err.Error(),
			})
		}
		return err
	}

	return uc.uow.Commit(txCtx)
}

func runOnce(_ context.Context, operation func() error) error {
	return operation()
}

type noopMetrics struct{}

func (noopMetrics) CreditsDeducted(int)                         {}
func (noopMetrics) CreditsRefunded(int)                         {}
func (noopMetrics) SweepFinished(int, int, int, time.Duration) {}
