package core

import "time"

// MetricsRecorder receives business counters from the use cases
type MetricsRecorder interface {
	CreditsDeducted(n int)
	CreditsRefunded(n int)
	SweepFinished(refreshed, skipped, failed int, elapsed time.Duration)
}
