package gateway

import (
	"context"

	"github.com/iqube-labs/iqube-api/internal/domain/entity"
)

// QuestionGenerator produces quiz questions through an external service
type QuestionGenerator interface {
	// Generate sends one batch request and returns the normalized questions
	//
	// Possible errors:
	// - WebhookError: transport failure or non-2xx reply
	// - ErrMalformedWebhookResponse: the reply matches no known envelope
	Generate(ctx context.Context, req entity.GenerationRequest) ([]entity.GeneratedQuestion, error)

	// Regenerate asks for a single replacement question
	Regenerate(ctx context.Context, req entity.RegenerationRequest) (*entity.GeneratedQuestion, error)
}
