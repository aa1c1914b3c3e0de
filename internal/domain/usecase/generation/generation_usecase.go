package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/iqube-labs/iqube-api/internal/domain/entity"
	errs "github.com/iqube-labs/iqube-api/internal/domain/error"
	coreport "github.com/iqube-labs/iqube-api/internal/domain/port/core"
	"github.com/iqube-labs/iqube-api/internal/domain/port/gateway"
	"github.com/iqube-labs/iqube-api/internal/domain/port/usecase"
)

// Ledger descriptions
const (
	GenerateDescription   = "Question generation"
	RegenerateDescription = "Question regeneration"
	RefundDescription     = "Refund: generation failed"
)

// GenerationUseCase charges credits and forwards requests to the question generator
type GenerationUseCase struct {
	credits      usecase.CreditUseCase
	generator    gateway.QuestionGenerator
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

var _ usecase.GenerationUseCase = (*GenerationUseCase)(nil)

// NewGenerationUseCase creates a new GenerationUseCase
func NewGenerationUseCase(
	credits usecase.CreditUseCase,
	generator gateway.QuestionGenerator,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *GenerationUseCase {
	return &GenerationUseCase{
		credits:      credits,
		generator:    generator,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Generate deducts the requested total, calls the generator and refunds on failure
func (g *GenerationUseCase) Generate(ctx context.Context, userID string, input usecase.GenerationInput) (*usecase.GenerationResult, error) {
	req := entity.GenerationRequest{
		CorrelationID: uuid.NewString(),
		TopicName:     strings.TrimSpace(input.TopicName),
		Context:       strings.TrimSpace(input.Context),
		EasyCount:     input.EasyCount,
		MediumCount:   input.MediumCount,
		HardCount:     input.HardCount,
		RequestedAt:   g.timeProvider.Now(),
	}
	if req.TopicName == "" {
		return nil, errs.NewValidationError("topicName", "is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	total := req.Total()
	charge, err := g.credits.Deduct(ctx, userID, total, GenerateDescription)
	if err != nil {
		return nil, err
	}

	questions, err := g.generator.Generate(ctx, req)
	if err == nil && len(questions) == 0 {
		err = fmt.Errorf("%w: no questions in reply", errs.ErrMalformedWebhookResponse)
	}
	if err != nil {
		return nil, g.fail(ctx, userID, total, req.CorrelationID, err)
	}

	entity.SortByDifficulty(questions)

	g.logger.Info("Questions generated", map[string]any{
		"user_id":        userID,
		"correlation_id": req.CorrelationID,
		"requested":      total,
		"received":       len(questions),
	})

	return &usecase.GenerationResult{
		Questions:        questions,
		CreditsRemaining: charge.BalanceAfter,
	}, nil
}

// Regenerate charges one credit for a single replacement question
func (g *GenerationUseCase) Regenerate(ctx context.Context, userID string, input usecase.RegenerationInput) (*usecase.GenerationResult, error) {
	if strings.TrimSpace(input.Original.ID) == "" {
		return nil, errs.NewValidationError("question.id", "is required")
	}

	req := entity.RegenerationRequest{
		CorrelationID: uuid.NewString(),
		QuestionID:    input.Original.ID,
		TopicName:     strings.TrimSpace(input.TopicName),
		Context:       strings.TrimSpace(input.Context),
		Original:      input.Original,
		RequestedAt:   g.timeProvider.Now(),
	}

	charge, err := g.credits.Deduct(ctx, userID, 1, RegenerateDescription)
	if err != nil {
		return nil, err
	}

	question, err := g.generator.Regenerate(ctx, req)
	if err == nil && question == nil {
		err = fmt.Errorf("%w: no question in reply", errs.ErrMalformedWebhookResponse)
	}
	if err != nil {
		return nil, g.fail(ctx, userID, 1, req.CorrelationID, err)
	}

	g.logger.Info("Question regenerated", map[string]any{
		"user_id":        userID,
		"correlation_id": req.CorrelationID,
		"replaced_id":    input.Original.ID,
		"new_id":         question.ID,
	})

	return &usecase.GenerationResult{
		Questions:        []entity.GeneratedQuestion{*question},
		CreditsRemaining: charge.BalanceAfter,
	}, nil
}

// fail refunds a charge after a generator failure and returns ErrGenerationFailed
func (g *GenerationUseCase) fail(ctx context.Context, userID string, charged int, correlationID string, cause error) error {
	fields := map[string]any{
		"user_id":        userID,
		"correlation_id": correlationID,
		"charged":        charged,
		"error":          cause.Error(),
	}
	var webhookErr *errs.WebhookError
	if errors.As(cause, &webhookErr) {
		fields["status_code"] = webhookErr.StatusCode
	}
	g.logger.Error("Question generator failed", fields)

	// the caller may have gone away; the refund must still land
	if _, err := g.credits.Adjust(context.WithoutCancel(ctx), userID, charged, RefundDescription); err != nil {
		g.logger.Error("Failed to refund credits", map[string]any{
			"user_id":        userID,
			"correlation_id": correlationID,
			"amount":         charged,
			"error":          err.Error(),
		})
	}

	if errors.Is(cause, errs.ErrGenerationFailed) {
		return cause
	}
	return fmt.Errorf("%w: %w", errs.ErrGenerationFailed, cause)
}
