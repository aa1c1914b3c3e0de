package orchestrator

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iqube-labs/iqube-api/internal/domain/entity"
)

// Form holds what the user asked for
type Form struct {
	TopicName   string
	Context     string
	EasyCount   int
	MediumCount int
	HardCount   int
}

// Total is the number of questions requested
func (f Form) Total() int {
	return f.EasyCount + f.MediumCount + f.HardCount
}

// CanGenerate is true when counts are non-negative and 1 <= total <= balance
func (f Form) CanGenerate(balance int) bool {
	if f.EasyCount < 0 || f.MediumCount < 0 || f.HardCount < 0 {
		return false
	}
	total := f.Total()
	return total >= 1 && total <= balance
}

func (f Form) request(now time.Time) entity.GenerationRequest {
	return entity.GenerationRequest{
		CorrelationID: uuid.NewString(),
		TopicName:     strings.TrimSpace(f.TopicName),
		Context:       strings.TrimSpace(f.Context),
		EasyCount:     f.EasyCount,
		MediumCount:   f.MediumCount,
		HardCount:     f.HardCount,
		RequestedAt:   now,
	}
}
