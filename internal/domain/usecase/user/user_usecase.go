package user

import (
	"context"
	"strings"

	"github.com/iqube-labs/iqube-api/internal/domain/entity"
	errs "github.com/iqube-labs/iqube-api/internal/domain/error"
	coreport "github.com/iqube-labs/iqube-api/internal/domain/port/core"
	"github.com/iqube-labs/iqube-api/internal/domain/port/persistence"
	"github.com/iqube-labs/iqube-api/internal/domain/port/usecase"
)

// MinPasswordLength is the shortest accepted password
const MinPasswordLength = 6

// UserUseCase handles profile operations of the signed-in user
type UserUseCase struct {
	userRepo     persistence.UserRepository
	questionRepo persistence.QuestionRepository
	commentRepo  persistence.CommentRepository
	hasher       coreport.PasswordHasher
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

var _ usecase.UserUseCase = (*UserUseCase)(nil)

// NewUserUseCase creates a new UserUseCase
func NewUserUseCase(
	userRepo persistence.UserRepository,
	questionRepo persistence.QuestionRepository,
	commentRepo persistence.CommentRepository,
	hasher coreport.PasswordHasher,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *UserUseCase {
	return &UserUseCase{
		userRepo:     userRepo,
		questionRepo: questionRepo,
		commentRepo:  commentRepo,
		hasher:       hasher,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// GetProfile returns the caller's account and the size of their bank
func (u *UserUseCase) GetProfile(ctx context.Context, userID string) (*usecase.Profile, error) {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats, err := u.questionRepo.StatsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &usecase.Profile{
		User:        user,
		SavedCount:  stats.TotalSaved,
		MemberSince: user.CreatedAt,
	}, nil
}

// UpdateProfile changes name or email
func (u *UserUseCase) UpdateProfile(ctx context.Context, userID string, update usecase.ProfileUpdate) (*entity.User, error) {
	if update.FirstName == nil && update.LastName == nil && update.Email == nil {
		return nil, errs.ErrNoFieldsToUpdate
	}

	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.Email != nil {
		email := entity.NormalizeEmail(*update.Email)
		if err := entity.ValidateEmail(email); err != nil {
			return nil, errs.NewValidationError("email", "must be a valid email address")
		}
		if email != user.Email {
			taken, err := u.userRepo.EmailTaken(ctx, email, userID)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, errs.ErrDuplicateUser
			}
			user.Email = email
		}
	}
	if update.FirstName != nil {
		user.FirstName = strings.TrimSpace(*update.FirstName)
	}
	if update.LastName != nil {
		user.LastName = strings.TrimSpace(*update.LastName)
	}
	user.UpdatedAt = u.timeProvider.Now()

	if err := u.userRepo.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}

	u.logger.Info("Profile updated", map[string]any{"user_id": userID})
	return u.userRepo.GetByID(ctx, userID)
}

// ChangePassword replaces the password after verifying the current one
func (u *UserUseCase) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if len(newPassword) < MinPasswordLength {
		return errs.NewValidationError("newPassword", "must be at least 6 characters")
	}

	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := u.hasher.Compare(user.PasswordHash, currentPassword); err != nil {
		return errs.ErrInvalidPassword
	}

	hash, err := u.hasher.Hash(newPassword)
	if err != nil {
		u.logger.Error("Failed to hash password", map[string]any{"user_id": userID, "error": err.Error()})
		return errs.ErrInternalServer
	}

	if err := u.userRepo.UpdatePassword(ctx, userID, hash, u.timeProvider.Now()); err != nil {
		return err
	}

	u.logger.Info("Password changed", map[string]any{"user_id": userID})
	return nil
}

// GetStats aggregates the caller's saved questions and comments
func (u *UserUseCase) GetStats(ctx context.Context, userID string) (*entity.QuestionStats, error) {
	stats, err := u.questionRepo.StatsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	comments, err := u.commentRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats.TotalComments = comments

	return stats, nil
}

// DeactivateAccount soft-deletes the caller's account
func (u *UserUseCase) DeactivateAccount(ctx context.Context, userID string) error {
	if err := u.userRepo.Deactivate(ctx, userID, u.timeProvider.Now()); err != nil {
		return err
	}

	u.logger.Info("Account deactivated", map[string]any{"user_id": userID})
	return nil
}
