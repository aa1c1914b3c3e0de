package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	errs "github.com/iqube-labs/iqube-api/internal/domain/error"
	coreport "github.com/iqube-labs/iqube-api/internal/domain/port/core"
	"github.com/iqube-labs/iqube-api/internal/infrastructure/adapter/model"
)

// JobLockRepository implements named, expiring locks for background jobs.
// Acquisition is "delete expired row, then insert", so the primary key on
// job_locks.name arbitrates between processes on every dialect.
type JobLockRepository struct {
	db              *gorm.DB
	timeProvider    coreport.TimeProvider
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
	owner           string
}

// NewJobLockRepository creates a repository whose locks are tagged with a per-process owner id
func NewJobLockRepository(db *gorm.DB, timeProvider coreport.TimeProvider, logger coreport.Logger) *JobLockRepository {
	return &JobLockRepository{
		db:              db,
		timeProvider:    timeProvider,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
		owner:           uuid.NewString(),
	}
}

// AcquireLock takes the named lock for duration or fails with ErrJobLocked
func (r *JobLockRepository) AcquireLock(ctx context.Context, name string, duration time.Duration) error {
	r.logger.Debug("Attempting to acquire job lock", map[string]any{
		"job":      name,
		"duration": duration.String(),
	})

	now := r.timeProvider.Now()
	expiresAt := now.Add(duration)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("name = ? AND expires_at <= ?", name, now).Delete(&model.JobLock{}).Error; err != nil {
			return err
		}
		return tx.Create(&model.JobLock{
			Name:      name,
			Owner:     r.owner,
			LockedAt:  now,
			ExpiresAt: expiresAt,
		}).Error
	})
	if err != nil {
		if r.errorClassifier.IsDuplicateKeyError(err) {
			r.logger.Warn("Job is already locked", map[string]any{"job": name})
			return errs.ErrJobLocked
		}
		if isContextError(err) {
			return fmt.Errorf("lock acquisition timeout: %w", err)
		}
		r.logger.Error("Database error acquiring job lock", map[string]any{
			"job":   name,
			"error": err.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
	}

	r.logger.Info("Job lock acquired", map[string]any{
		"job":        name,
		"locked_at":  now,
		"expires_at": expiresAt,
	})
	return nil
}

// ReleaseLock drops the named lock if this process holds it. A lock that
// already expired and was taken over is left alone.
func (r *JobLockRepository) ReleaseLock(ctx context.Context, name string) error {
	result := r.db.WithContext(ctx).Where("name = ? AND owner = ?", name, r.owner).Delete(&model.JobLock{})
	if result.Error != nil {
		if isContextError(result.Error) {
			r.logger.Warn("Context timeout when releasing job lock, lock will expire automatically", map[string]any{
				"job":   name,
				"error": result.Error.Error(),
			})
			return nil
		}
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	if result.RowsAffected > 0 {
		r.logger.Info("Job lock released", map[string]any{"job": name})
	}
	return nil
}
