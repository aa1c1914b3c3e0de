package core

import (
	"context"
	"time"
)

// Duration is a domain-specific wrapper around time.Duration
type Duration time.Duration

// Common duration constants
const (
	Millisecond Duration = Duration(time.Millisecond)
	Second               = Duration(time.Second)
	Minute               = Duration(time.Minute)
	Hour                 = Duration(time.Hour)
)

// Hours builds a Duration of n hours
func Hours(n int) Duration {
	return Duration(n) * Hour
}

// Std converts domain Duration to time.Duration
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Hours returns the duration as fractional hours
func (d Duration) Hours() float64 {
	return time.Duration(d).Hours()
}

// TimeProvider abstracts the clock so credit windows can be tested deterministically
type TimeProvider interface {
	// Now returns the current time in UTC
	Now() time.Time
	Since(t time.Time) Duration
	Until(t time.Time) Duration
	Sleep(d Duration)
	WithTimeout(ctx context.Context, timeout Duration) (context.Context, context.CancelFunc)
}
