package usecase

import (
	"context"

	"github.com/iqube-labs/iqube-api/internal/domain/entity"
)

// GenerationInput is a signed-in batch generation request
type GenerationInput struct {
	TopicName   string
	Context     string
	EasyCount   int
	MediumCount int
	HardCount   int
}

// RegenerationInput asks for a replacement of one question
type RegenerationInput struct {
	TopicName string
	Context   string
	Original  entity.GeneratedQuestion
}

// GenerationResult carries generated questions and the balance left after charging
type GenerationResult struct {
	Questions        []entity.GeneratedQuestion
	CreditsRemaining int
}

// GenerationUseCase charges credits and forwards requests to the question generator
type GenerationUseCase interface {
	// Generate deducts the requested total before calling the generator and
	// refunds it when the generator fails
	Generate(ctx context.Context, userID string, input GenerationInput) (*GenerationResult, error)

	// Regenerate charges one credit for a single replacement question
	Regenerate(ctx context.Context, userID string, input RegenerationInput) (*GenerationResult, error)
}
