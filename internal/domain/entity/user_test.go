package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/iqube-labs/iqube-api/internal/domain/error"
	coremocks "github.com/iqube-labs/iqube-api/mocks/port/core"
)

var fixedTime = time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)

func newClock(t *testing.T, now time.Time) *coremocks.MockTimeProvider {
	mockTime := coremocks.NewMockTimeProvider(t)
	mockTime.On("Now").Return(now).Maybe()
	return mockTime
}

func TestNewUser(t *testing.T) {
	mockTime := newClock(t, fixedTime)

	t.Run("Valid user creation", func(t *testing.T) {
		user, err := NewUser("  Jane@Example.COM ", "hash", " Jane ", "Doe", mockTime)

		require.NoError(t, err)
		assert.Equal(t, "jane@example.com", user.Email)
		assert.Equal(t, "Jane Doe", user.FullName())
		assert.Equal(t, DefaultDailyCredits, user.DailyCredits)
		assert.Equal(t, DefaultTimezone, user.Timezone)
		assert.True(t, user.IsActive)
		assert.Equal(t, fixedTime, user.LastCreditRefresh)
		assert.Equal(t, fixedTime, user.CreatedAt)
	})

	t.Run("Invalid email", func(t *testing.T) {
		for _, email := range []string{"", "   ", "not-an-email", "a@"} {
			t.Run(email, func(t *testing.T) {
				user, err := NewUser(email, "hash", "Jane", "Doe", mockTime)

				assert.ErrorIs(t, err, errs.ErrInvalidEmail)
				assert.Nil(t, user)
			})
		}
	})

	t.Run("Missing password hash", func(t *testing.T) {
		user, err := NewUser("jane@example.com", "", "Jane", "Doe", mockTime)

		assert.ErrorIs(t, err, errs.ErrInvalidPassword)
		assert.Nil(t, user)
	})
}

func TestUserDeductCredits(t *testing.T) {
	mockTime := newClock(t, fixedTime)

	t.Run("Deducts within balance", func(t *testing.T) {
		user := &User{ID: "u1", DailyCredits: 3}

		require.NoError(t, user.DeductCredits(3, mockTime))

		assert.Equal(t, 0, user.DailyCredits)
		assert.Equal(t, fixedTime, user.UpdatedAt)
	})

	t.Run("Refuses to overdraw", func(t *testing.T) {
		user := &User{ID: "u1", DailyCredits: 2}

		err := user.DeductCredits(3, mockTime)

		var insufficient *errs.InsufficientCreditsError
		require.ErrorAs(t, err, &insufficient)
		assert.Equal(t, 3, insufficient.Required)
		assert.Equal(t, 2, insufficient.Available)
		assert.Equal(t, 2, user.DailyCredits)
	})

	t.Run("Rejects non-positive amounts", func(t *testing.T) {
		user := &User{ID: "u1", DailyCredits: 2}

		assert.ErrorIs(t, user.DeductCredits(0, mockTime), errs.ErrInvalidCreditAmount)
		assert.ErrorIs(t, user.DeductCredits(-1, mockTime), errs.ErrInvalidCreditAmount)
	})
}

func TestUserAdjustCredits(t *testing.T) {
	mockTime := newClock(t, fixedTime)

	tests := []struct {
		name        string
		start       int
		delta       int
		wantCredits int
		wantApplied int
	}{
		{name: "refund", start: 4, delta: 3, wantCredits: 7, wantApplied: 3},
		{name: "clamped at ceiling", start: 9, delta: 3, wantCredits: 10, wantApplied: 1},
		{name: "clamped at zero", start: 2, delta: -5, wantCredits: 0, wantApplied: -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := &User{DailyCredits: tt.start}

			applied := user.AdjustCredits(tt.delta, DefaultDailyCredits, mockTime)

			assert.Equal(t, tt.wantApplied, applied)
			assert.Equal(t, tt.wantCredits, user.DailyCredits)
		})
	}
}

func TestUserRefresh(t *testing.T) {
	mockTime := newClock(t, fixedTime)
	threshold := 20 * time.Hour

	t.Run("RefreshCredits restores the allowance", func(t *testing.T) {
		user := &User{DailyCredits: 3, LastCreditRefresh: fixedTime.Add(-21 * time.Hour)}

		restored := user.RefreshCredits(DefaultDailyCredits, mockTime)

		assert.Equal(t, 7, restored)
		assert.Equal(t, DefaultDailyCredits, user.DailyCredits)
		assert.Equal(t, fixedTime, user.LastCreditRefresh)
	})

	t.Run("EligibleForRefresh", func(t *testing.T) {
		tests := []struct {
			name string
			user User
			want bool
		}{
			{name: "threshold elapsed", user: User{IsActive: true, DailyCredits: 5, LastCreditRefresh: fixedTime.Add(-20 * time.Hour)}, want: true},
			{name: "too recent", user: User{IsActive: true, DailyCredits: 0, LastCreditRefresh: fixedTime.Add(-19 * time.Hour)}},
			{name: "already full", user: User{IsActive: true, DailyCredits: 10, LastCreditRefresh: fixedTime.Add(-48 * time.Hour)}},
			{name: "inactive", user: User{IsActive: false, DailyCredits: 0, LastCreditRefresh: fixedTime.Add(-48 * time.Hour)}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				assert.Equal(t, tt.want, tt.user.EligibleForRefresh(fixedTime, threshold, DefaultDailyCredits))
			})
		}
	})

	t.Run("HoursSinceRefresh", func(t *testing.T) {
		user := &User{LastCreditRefresh: fixedTime.Add(-90 * time.Minute)}

		assert.InDelta(t, 1.5, user.HoursSinceRefresh(fixedTime), 0.0001)
	})
}
