package user

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
	"github.com/iqube-labs/iqube-api/internal/domain/port/usecase"
	mockcore "github.com/iqube-labs/iqube-api/mocks/port/core"
	mockpersistence "github.com/iqube-labs/iqube-api/mocks/port/persistence"
)

var fixedTime = time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	ctx       context.Context
	users     *mockpersistence.MockUserRepository
	questions *mockpersistence.MockQuestionRepository
	comments  *mockpersistence.MockCommentRepository
	hasher    *mockcore.MockPasswordHasher
	uc        *UserUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	clock := mockcore.NewMockTimeProvider(t)
	clock.On("Now").Return(fixedTime).Maybe()
	logger := mockcore.NewMockLogger(t)
	for _, level := range []string{"Debug", "Info", "Warn", "Error"} {
		logger.On(level, mock.Anything, mock.Anything).Maybe()
	}

	f := &fixture{
		ctx:       context.Background(),
		users:     mockpersistence.NewMockUserRepository(t),
		questions: mockpersistence.NewMockQuestionRepository(t),
		comments:  mockpersistence.NewMockCommentRepository(t),
		hasher:    mockcore.NewMockPasswordHasher(t),
	}
	f.uc = NewUserUseCase(f.users, f.questions, f.comments, f.hasher, clock, logger)
	return f
}

func storedUser() *entity.User {
	created := fixedTime.Add(-72 * time.Hour)
	return &entity.User{
		ID:           "u1",
		Email:        "ada@example.com",
		PasswordHash: "old-hash",
		FirstName:    "Ada",
		LastName:     "Lovelace",
		DailyCredits: 7,
		IsActive:     true,
		CreatedAt:    created,
		UpdatedAt:    created,
	}
}

func ptr(s string) *string { return &s }

func TestUserUseCase_GetProfile(t *testing.T) {
	// Arrange
	f := newFixture(t)
	f.users.On("GetByID", f.ctx, "u1").Return(storedUser(), nil).Once()
	f.questions.On("StatsForUser", f.ctx, "u1").Return(&entity.QuestionStats{TotalSaved: 4}, nil).Once()

	// Act
	profile, err := f.uc.GetProfile(f.ctx, "u1")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 4, profile.SavedCount)
	assert.Equal(t, fixedTime.Add(-72*time.Hour), profile.MemberSince)
	assert.Equal(t, "Ada", profile.User.FirstName)
}

func TestUserUseCase_UpdateProfile(t *testing.T) {
	t.Run("changes name and email", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.users.On("GetByID", f.ctx, "u1").Return(storedUser(), nil).Once()
		f.users.On("EmailTaken", f.ctx, "grace@example.com", "u1").Return(false, nil).Once()
		f.users.On("UpdateProfile", f.ctx, mock.MatchedBy(func(u *entity.User) bool {
			return u.Email == "grace@example.com" && u.FirstName == "Grace" && u.LastName == "Lovelace" && u.UpdatedAt.Equal(fixedTime)
		})).Return(nil).Once()
		reloaded := storedUser()
		reloaded.Email = "grace@example.com"
		reloaded.DailyCredits = 2
		f.users.On("GetByID", f.ctx, "u1").Return(reloaded, nil).Once()

		// Act
		user, err := f.uc.UpdateProfile(f.ctx, "u1", usecase.ProfileUpdate{
			FirstName: ptr(" Grace "),
			Email:     ptr("Grace@Example.com"),
		})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "grace@example.com", user.Email)
		assert.Equal(t, 2, user.DailyCredits, "credits come from the stored row")
	})

	t.Run("email owned by someone else", func(t *testing.T) {
		f := newFixture(t)
		f.users.On("GetByID", f.ctx, "u1").Return(storedUser(), nil).Once()
		f.users.On("EmailTaken", f.ctx, "grace@example.com", "u1").Return(true, nil).Once()

		_, err := f.uc.UpdateProfile(f.ctx, "u1", usecase.ProfileUpdate{Email: ptr("grace@example.com")})

		assert.ErrorIs(t, err, errs.ErrDuplicateUser)
	})

	t.Run("unchanged email skips the uniqueness check", func(t *testing.T) {
		f := newFixture(t)
		f.users.On("GetByID", f.ctx, "u1").Return(storedUser(), nil).Twice()
		f.users.On("UpdateProfile", f.ctx, mock.Anything).Return(nil).Once()

		_, err := f.uc.UpdateProfile(f.ctx, "u1", usecase.ProfileUpdate{Email: ptr("ADA@example.com")})

		require.NoError(t, err)
		f.users.AssertNotCalled(t, "EmailTaken", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("nothing to update", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.uc.UpdateProfile(f.ctx, "u1", usecase.ProfileUpdate{})

		assert.ErrorIs(t, err, errs.ErrNoFieldsToUpdate)
	})

	t.Run("invalid email", func(t *testing.T) {
		f := newFixture(t)
		f.users.On("GetByID", f.ctx, "u1").Return(storedUser(), nil).Once()

		_, err := f.uc.UpdateProfile(f.ctx, "u1", usecase.ProfileUpdate{Email: ptr("nope")})

		assert.True(t, errs.IsValidationError(err))
	})
}

func TestUserUseCase_ChangePassword(t *testing.T) {
	t.Run("replaces the hash", func(t *testing.T) {
		f := newFixture(t)
		f.users.On("GetByID", f.ctx, "u1").Return(storedUser(), nil).Once()
		f.hasher.On("Compare", "old-hash", "current").Return(nil).Once()
		f.hasher.On("Hash", "newsecret").Return("new-hash", nil).Once()
		f.users.On("UpdatePassword", f.ctx, "u1", "new-hash", fixedTime).Return(nil).Once()

		err := f.uc.ChangePassword(f.ctx, "u1", "current", "newsecret")

		assert.NoError(t, err)
	})

	t.Run("wrong current password", func(t *testing.T) {
		f := newFixture(t)
		f.users.On("GetByID", f.ctx, "u1").Return(storedUser(), nil).Once()
		f.hasher.On("Compare", "old-hash", "guess").Return(errors.New("mismatch")).Once()

		err := f.uc.ChangePassword(f.ctx, "u1", "guess", "newsecret")

		assert.ErrorIs(t, err, errs.ErrInvalidPassword)
	})

	t.Run("new password too short", func(t *testing.T) {
		f := newFixture(t)

		err := f.uc.ChangePassword(f.ctx, "u1", "current", "123")

		assert.True(t, errs.IsValidationError(err))
	})
}

func TestUserUseCase_GetStats(t *testing.T) {
	t.Run("merges comment count", func(t *testing.T) {
		f := newFixture(t)
		f.questions.On("StatsForUser", f.ctx, "u1").Return(&entity.QuestionStats{
			TotalSaved:   3,
			ByDifficulty: map[entity.Difficulty]int{entity.DifficultyEasy: 2, entity.DifficultyHard: 1},
			ByTopic:      map[string]int{"Physics": 3},
		}, nil).Once()
		f.comments.On("CountByUser", f.ctx, "u1").Return(5, nil).Once()

		stats, err := f.uc.GetStats(f.ctx, "u1")

		require.NoError(t, err)
		assert.Equal(t, 3, stats.TotalSaved)
		assert.Equal(t, 5, stats.TotalComments)
		assert.Equal(t, 2, stats.ByDifficulty[entity.DifficultyEasy])
	})

	t.Run("comment count failure", func(t *testing.T) {
		f := newFixture(t)
		f.questions.On("StatsForUser", f.ctx, "u1").Return(&entity.QuestionStats{}, nil).Once()
		f.comments.On("CountByUser", f.ctx, "u1").Return(0, errs.ErrDatabaseTimeout).Once()

		_, err := f.uc.GetStats(f.ctx, "u1")

		assert.ErrorIs(t, err, errs.ErrDatabaseTimeout)
	})
}

func TestUserUseCase_DeactivateAccount(t *testing.T) {
	t.Run("flips the active flag", func(t *testing.T) {
		f := newFixture(t)
		f.users.On("Deactivate", f.ctx, "u1", fixedTime).Return(nil).Once()

		assert.NoError(t, f.uc.DeactivateAccount(f.ctx, "u1"))
	})

	t.Run("unknown user", func(t *testing.T) {
		f := newFixture(t)
		f.users.On("Deactivate", f.ctx, "u1", fixedTime).Return(errs.ErrUserNotFound).Once()

		assert.ErrorIs(t, f.uc.DeactivateAccount(f.ctx, "u1"), errs.ErrUserNotFound)
	})
}
