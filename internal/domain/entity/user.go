package entity

import (
	"net/mail"
	"strings"
	"time"

	errs "github.com/iqube-labs/iqube-api/internal/domain/error"
	coreport "github.com/iqube-labs/iqube-api/internal/domain/port/core"
)

const (
	// DefaultDailyCredits is the allowance a user is refreshed to once per rolling day
	DefaultDailyCredits = 10
	// DefaultTimezone is assigned on registration
	DefaultTimezone = "UTC"
)

// User represents an account holder with a daily credit allowance
type User struct {
	ID                string
	Email             string // lower-cased and trimmed
	PasswordHash      string
	FirstName         string
	LastName          string
	DailyCredits      int
	LastCreditRefresh time.Time
	Timezone          string // informational only, refresh arithmetic ignores it
	IsActive          bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NormalizeEmail folds an email address to its canonical stored form
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks the address is syntactically valid
func ValidateEmail(email string) error {
	if email == "" {
		return errs.ErrInvalidEmail
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return errs.ErrInvalidEmail
	}
	return nil
}

// NewUser creates an active user with a full credit allowance
func NewUser(email, passwordHash, firstName, lastName string, timeProvider coreport.TimeProvider) (*User, error) {
	email = NormalizeEmail(email)
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if passwordHash == "" {
		return nil, errs.ErrInvalidPassword
	}

	now := timeProvider.Now()
	return &User{
		Email:             email,
		PasswordHash:      passwordHash,
		FirstName:         strings.TrimSpace(firstName),
		LastName:          strings.TrimSpace(lastName),
		DailyCredits:      DefaultDailyCredits,
		LastCreditRefresh: now,
		Timezone:          DefaultTimezone,
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

// FullName joins first and last name
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// CanAfford reports whether the user holds at least n credits
func (u *User) CanAfford(n int) bool {
	return n >= 0 && u.DailyCredits >= n
}

// DeductCredits removes n credits, refusing to go below zero
func (u *User) DeductCredits(n int, timeProvider coreport.TimeProvider) error {
	if n <= 0 {
		return errs.ErrInvalidCreditAmount
	}
	if !u.CanAfford(n) {
		return errs.NewInsufficientCreditsError(u.ID, n, u.DailyCredits)
	}

	u.DailyCredits -= n
	u.UpdatedAt = timeProvider.Now()
	return nil
}

// AdjustCredits applies a signed delta clamped to [0, ceiling] and returns the applied delta
func (u *User) AdjustCredits(delta, ceiling int, timeProvider coreport.TimeProvider) int {
	before := u.DailyCredits
	after := before + delta
	if after < 0 {
		after = 0
	}
	if after > ceiling {
		after = ceiling
	}

	u.DailyCredits = after
	u.UpdatedAt = timeProvider.Now()
	return after - before
}

// RefreshCredits resets the allowance and stamps the refresh time, returning the credits restored
func (u *User) RefreshCredits(allowance int, timeProvider coreport.TimeProvider) int {
	now := timeProvider.Now()
	restored := allowance - u.DailyCredits

	u.DailyCredits = allowance
	u.LastCreditRefresh = now
	u.UpdatedAt = now
	return restored
}

// HoursSinceRefresh returns the fractional hours elapsed since the last refresh
func (u *User) HoursSinceRefresh(now time.Time) float64 {
	return now.Sub(u.LastCreditRefresh).Hours()
}

// EligibleForRefresh applies the sweep predicate: active, threshold elapsed, below allowance
func (u *User) EligibleForRefresh(now time.Time, threshold time.Duration, allowance int) bool {
	return u.IsActive &&
		u.DailyCredits < allowance &&
		!now.Before(u.LastCreditRefresh.Add(threshold))
}
