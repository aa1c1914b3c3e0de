package usecase

import (
	"context"
	"time"

	"github.com/iqube-labs/iqube-api/internal/domain/entity"
)

// ProfileUpdate holds optional profile changes; nil fields are left untouched
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
	Email     *string
}

// Profile is a user with bank statistics
type Profile struct {
	User        *entity.User
	SavedCount  int
	MemberSince time.Time
}

// UserUseCase defines profile operations for the signed-in user
type UserUseCase interface {
	// GetProfile returns the caller's account and the size of their bank
	GetProfile(ctx context.Context, userID string) (*Profile, error)

	// UpdateProfile changes name or email; ErrDuplicateUser on an email conflict
	UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (*entity.User, error)

	// ChangePassword replaces the password after verifying the current one
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error

	// GetStats aggregates the caller's saved questions and comments
	GetStats(ctx context.Context, userID string) (*entity.QuestionStats, error)

	// DeactivateAccount soft-deletes the caller's account
	DeactivateAccount(ctx context.Context, userID string) error
}
