package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/iqube-labs/iqube-api/internal/domain/entity"
	errs "github.com/iqube-labs/iqube-api/internal/domain/error"
	coreport "github.com/iqube-labs/iqube-api/internal/domain/port/core"
	"github.com/iqube-labs/iqube-api/internal/infrastructure/adapter/model"
)

// UserRepository implements persistence.UserRepository using GORM
type UserRepository struct {
	db              *gorm.DB
	timeProvider    coreport.TimeProvider
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewUserRepository creates a new UserRepository instance
func NewUserRepository(db *gorm.DB, timeProvider coreport.TimeProvider, logger coreport.Logger) *UserRepository {
	return &UserRepository{
		db:              db,
		timeProvider:    timeProvider,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

func userToEntity(m *model.User) *entity.User {
	return &entity.User{
		ID:                m.ID,
		Email:             m.Email,
		PasswordHash:      m.PasswordHash,
		FirstName:         m.FirstName,
		LastName:          m.LastName,
		DailyCredits:      m.DailyCredits,
		LastCreditRefresh: m.LastCreditRefresh.UTC(),
		Timezone:          m.Timezone,
		IsActive:          m.IsActive,
		CreatedAt:         m.CreatedAt.UTC(),
		UpdatedAt:         m.UpdatedAt.UTC(),
	}
}

func (r *UserRepository) handleDatabaseError(operation string, err error, userID string) error {
	return translateError(r.logger, r.errorClassifier, operation, err,
		map[string]any{"user_id": userID},
		errorMapping{notFound: errs.ErrUserNotFound, duplicate: errs.ErrDuplicateUser})
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.logger.Debug("Getting user by ID", map[string]any{"user_id": id})

	var m model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, r.handleDatabaseError("getting user", err, id)
	}
	return userToEntity(&m), nil
}

// GetByIDForUpdate retrieves a user with a row lock held until the transaction ends
func (r *UserRepository) GetByIDForUpdate(ctx context.Context, id string) (*entity.User, error) {
	r.logger.Debug("Locking user row", map[string]any{"user_id": id})

	var m model.User
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&m).Error
	if err != nil {
		return nil, r.handleDatabaseError("locking user", err, id)
	}
	return userToEntity(&m), nil
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	email = entity.NormalizeEmail(email)

	var m model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&m).Error; err != nil {
		return nil, translateError(r.logger, r.errorClassifier, "getting user by email", err,
			map[string]any{"email": email}, errorMapping{notFound: errs.ErrUserNotFound})
	}
	return userToEntity(&m), nil
}

// EmailTaken reports whether a user other than excludeID owns email
func (r *UserRepository) EmailTaken(ctx context.Context, email, excludeID string) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&model.User{}).Where("email = ?", entity.NormalizeEmail(email))
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, r.handleDatabaseError("checking email", err, excludeID)
	}
	return count > 0, nil
}

// Create inserts a user and writes the generated ID back to the entity
func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	r.logger.Debug("Creating new user", map[string]any{"email": user.Email})

	m := model.User{
		ID:                user.ID,
		Email:             user.Email,
		PasswordHash:      user.PasswordHash,
		FirstName:         user.FirstName,
		LastName:          user.LastName,
		DailyCredits:      user.DailyCredits,
		LastCreditRefresh: user.LastCreditRefresh,
		Timezone:          user.Timezone,
		IsActive:          user.IsActive,
		CreatedAt:         user.CreatedAt,
		UpdatedAt:         user.UpdatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return r.handleDatabaseError("creating user", err, user.ID)
	}
	user.ID = m.ID

	r.logger.Info("User created successfully", map[string]any{
		"user_id": user.ID,
		"credits": user.DailyCredits,
	})
	return nil
}

// UpdateCredits writes the credit columns of user. Callers hold the row lock.
func (r *UserRepository) UpdateCredits(ctx context.Context, user *entity.User) error {
	r.logger.Debug("Updating user credits", map[string]any{
		"user_id": user.ID,
		"credits": user.DailyCredits,
	})

	return r.updateColumns(ctx, "updating user credits", user.ID, map[string]interface{}{
		"daily_credits":       user.DailyCredits,
		"last_credit_refresh": user.LastCreditRefresh,
		"updated_at":          user.UpdatedAt,
	})
}

// UpdateProfile writes email and names of user
func (r *UserRepository) UpdateProfile(ctx context.Context, user *entity.User) error {
	return r.updateColumns(ctx, "updating user profile", user.ID, map[string]interface{}{
		"email":      user.Email,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
		"updated_at": user.UpdatedAt,
	})
}

// UpdatePassword replaces the stored password hash
func (r *UserRepository) UpdatePassword(ctx context.Context, userID, passwordHash string, at time.Time) error {
	return r.updateColumns(ctx, "updating user password", userID, map[string]interface{}{
		"password_hash": passwordHash,
		"updated_at":    at,
	})
}

// UpdateTimezone stores the user's timezone
func (r *UserRepository) UpdateTimezone(ctx context.Context, userID, timezone string, at time.Time) error {
	return r.updateColumns(ctx, "updating user timezone", userID, map[string]interface{}{
		"timezone":   timezone,
		"updated_at": at,
	})
}

// Deactivate soft-deletes the account
func (r *UserRepository) Deactivate(ctx context.Context, userID string, at time.Time) error {
	if err := r.updateColumns(ctx, "deactivating user", userID, map[string]interface{}{
		"is_active":  false,
		"updated_at": at,
	}); err != nil {
		return err
	}

	r.logger.Info("User deactivated", map[string]any{"user_id": userID})
	return nil
}

// updateColumns touches only the given columns so concurrent writers of
// other columns are not overwritten
func (r *UserRepository) updateColumns(ctx context.Context, operation, userID string, columns map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Updates(columns)
	if result.Error != nil {
		return r.handleDatabaseError(operation, result.Error, userID)
	}
	if result.RowsAffected == 0 {
		r.logger.Warn("User not found during update", map[string]any{"user_id": userID})
		return errs.ErrUserNotFound
	}
	return nil
}

// FindRefreshCandidates lists active users due for a refresh, oldest refresh first
func (r *UserRepository) FindRefreshCandidates(ctx context.Context, cutoff time.Time, allowance int) ([]*entity.User, error) {
	var models []model.User
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND last_credit_refresh <= ? AND daily_credits < ?", true, cutoff, allowance).
		Order("last_credit_refresh ASC").
		Find(&models).Error
	if err != nil {
		return nil, r.handleDatabaseError("finding refresh candidates", err, "")
	}

	users := make([]*entity.User, 0, len(models))
	for i := range models {
		users = append(users, userToEntity(&models[i]))
	}

	r.logger.Debug("Refresh candidates loaded", map[string]any{
		"count":  len(users),
		"cutoff": cutoff,
	})
	return users, nil
}

// RefreshCredits is a conditional update: the row is reset only while it still
// satisfies the sweep predicate and still holds expectedCredits
func (r *UserRepository) RefreshCredits(ctx context.Context, userID string, expectedCredits int, cutoff time.Time, allowance int, now time.Time) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ? AND is_active = ? AND last_credit_refresh <= ? AND daily_credits < ? AND daily_credits = ?",
			userID, true, cutoff, allowance, expectedCredits).
		Updates(map[string]interface{}{
			"daily_credits":       allowance,
			"last_credit_refresh": now,
			"updated_at":          now,
		})
	if result.Error != nil {
		return false, r.handleDatabaseError("refreshing credits", result.Error, userID)
	}
	return result.RowsAffected > 0, nil
}

type refreshStatsRow struct {
	Total   int64
	Needing *int64
	Zero    *int64
	Average *float64
}

// RefreshStats aggregates the active population for the sweep
func (r *UserRepository) RefreshStats(ctx context.Context, cutoff time.Time, allowance int) (*entity.RefreshStats, error) {
	var row refreshStatsRow
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Select(`COUNT(*) AS total,
			SUM(CASE WHEN last_credit_refresh <= ? AND daily_credits < ? THEN 1 ELSE 0 END) AS needing,
			SUM(CASE WHEN daily_credits = 0 THEN 1 ELSE 0 END) AS zero,
			AVG(daily_credits) AS average`, cutoff, allowance).
		Where("is_active = ?", true).
		Scan(&row).Error
	if err != nil {
		return nil, r.handleDatabaseError("computing refresh stats", err, "")
	}

	stats := &entity.RefreshStats{TotalActiveUsers: int(row.Total)}
	if row.Needing != nil {
		stats.UsersNeedingRefresh = int(*row.Needing)
	}
	if row.Zero != nil {
		stats.UsersWithZeroCredits = int(*row.Zero)
	}
	if row.Average != nil {
		stats.AverageCredits = *row.Average
	}
	return stats, nil
}
