package metrics

import (
	"time"

	"github.com/iqube-labs/iqube-api/internal/domain/port/core"
)

// Recorder feeds use case counters into the prometheus collectors
type Recorder struct{}

var _ core.MetricsRecorder = Recorder{}

// NewRecorder returns a recorder backed by the package collectors
func NewRecorder() Recorder {
	return Recorder{}
}

func (Recorder) CreditsDeducted(n int) {
	if n > 0 {
		CreditsDeductedTotal.Add(float64(n))
	}
}

func (Recorder) CreditsRefunded(n int) {
	if n > 0 {
		CreditsRefundedTotal.Add(float64(n))
	}
}

func (Recorder) SweepFinished(refreshed, skipped, failed int, elapsed time.Duration) {
	CreditSweepUsersTotal.WithLabelValues("refreshed").Add(float64(refreshed))
	CreditSweepUsersTotal.WithLabelValues("skipped").Add(float64(skipped))
	CreditSweepUsersTotal.WithLabelValues("failed").Add(float64(failed))
	CreditSweepDuration.Observe(elapsed.Seconds())
}
