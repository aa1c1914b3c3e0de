package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/iqube-labs/iqube-api/internal/domain/entity"
	errs "github.com/iqube-labs/iqube-api/internal/domain/error"
	coreport "github.com/iqube-labs/iqube-api/internal/domain/port/core"
	"github.com/iqube-labs/iqube-api/internal/domain/port/gateway"
)

// RegenerationCost is charged per replaced question
const RegenerationCost = 1

// ErrBusy is returned when a generation is already running
var ErrBusy = errors.New("a generation is already running")

// Observer is told about progress. Calls happen without the orchestrator lock held.
type Observer interface {
	PhaseChanged(phase Phase)
	QuestionAdded(q entity.GeneratedQuestion, loaded, expected int)
	QuestionReplaced(oldID string, q entity.GeneratedQuestion)
}

// NopObserver ignores every event
type NopObserver struct{}

func (NopObserver) PhaseChanged(Phase) {}
func (NopObserver) QuestionAdded(entity.GeneratedQuestion, int, int) {}
func (NopObserver) QuestionReplaced(string, entity.GeneratedQuestion) {}

// Orchestrator drives one generation session
type Orchestrator struct {
	generator    gateway.QuestionGenerator
	wallet       Wallet
	observer     Observer
	logger       coreport.Logger
	timeProvider coreport.TimeProvider

	mu           sync.Mutex
	phase        Phase
	form         Form
	questions    []entity.GeneratedQuestion
	regenerating map[string]struct{}
	lastError    string
}

// New creates an idle orchestrator. A nil observer is replaced by NopObserver.
func New(
	generator gateway.QuestionGenerator,
	wallet Wallet,
	observer Observer,
	logger coreport.Logger,
	timeProvider coreport.TimeProvider,
) *Orchestrator {
	if observer == nil {
		observer = NopObserver{}
	}
	return &Orchestrator{
		generator:    generator,
		wallet:       wallet,
		observer:     observer,
		logger:       logger,
		timeProvider: timeProvider,
		phase:        PhaseIdle,
		regenerating: make(map[string]struct{}),
	}
}

// Generate runs one batch: a single generator call, then progressive reveal
// of the sorted questions, then the wallet charge.
func (o *Orchestrator) Generate(ctx context.Context, form Form) ([]entity.GeneratedQuestion, error) {
	o.mu.Lock()
	if o.phase.Busy() {
		o.mu.Unlock()
		return nil, ErrBusy
	}
	if !form.CanGenerate(o.wallet.Balance()) {
		o.mu.Unlock()
		total := form.Total()
		if total < 1 || form.EasyCount < 0 || form.MediumCount < 0 || form.HardCount < 0 {
			return nil, errs.ErrInvalidQuestionCount
		}
		return nil, errs.NewInsufficientCreditsError("", total, o.wallet.Balance())
	}
	if err := o.moveLocked(PhaseSubmitting); err != nil {
		o.mu.Unlock()
		return nil, err
	}
	o.form = form
	o.questions = nil
	o.lastError = ""
	o.mu.Unlock()
	o.observer.PhaseChanged(PhaseSubmitting)

	req := form.request(o.timeProvider.Now())
	questions, err := o.generator.Generate(ctx, req)
	if err == nil && len(questions) == 0 {
		err = fmt.Errorf("%w: no questions returned", errs.ErrMalformedWebhookResponse)
	}
	if err != nil {
		o.fail(err)
		return nil, err
	}

	entity.SortByDifficulty(questions)
	expected := len(questions)

	o.advance(PhaseInitial)
	o.append(questions[0], expected)

	if expected > 1 {
		o.advance(PhaseBackground)
		for _, q := range questions[1:] {
			if ctx.Err() != nil {
				o.fail(ctx.Err())
				return nil, ctx.Err()
			}
			o.append(q, expected)
		}
	}

	if !o.wallet.Deduct(form.Total()) {
		o.logger.Warn("Wallet could not be charged after generation", map[string]any{
			"requested": form.Total(),
			"balance":   o.wallet.Balance(),
		})
	}
	o.advance(PhaseComplete)

	o.logger.Info("Generation complete", map[string]any{
		"correlation_id": req.CorrelationID,
		"questions":      expected,
		"balance":        o.wallet.Balance(),
	})
	return o.Questions(), nil
}

// Regenerate replaces one question of the current set. The same id cannot be
// regenerated twice at once; different ids may run concurrently.
func (o *Orchestrator) Regenerate(ctx context.Context, questionID string) (*entity.GeneratedQuestion, error) {
	o.mu.Lock()
	idx := o.indexLocked(questionID)
	if idx < 0 {
		o.mu.Unlock()
		return nil, errs.ErrQuestionNotFound
	}
	if _, running := o.regenerating[questionID]; running {
		o.mu.Unlock()
		return nil, errs.ErrRegenerationInProgress
	}
	if balance := o.wallet.Balance(); balance < RegenerationCost {
		o.mu.Unlock()
		return nil, errs.NewInsufficientCreditsError("", RegenerationCost, balance)
	}
	o.regenerating[questionID] = struct{}{}
	original := o.questions[idx]
	form := o.form
	o.mu.Unlock()

	req := entity.RegenerationRequest{
		CorrelationID: uuid.NewString(),
		QuestionID:    questionID,
		TopicName:     form.TopicName,
		Context:       form.Context,
		Original:      original,
		RequestedAt:   o.timeProvider.Now(),
	}
	fresh, err := o.generator.Regenerate(ctx, req)

	o.mu.Lock()
	delete(o.regenerating, questionID)
	if err != nil {
		o.mu.Unlock()
		o.logger.Warn("Regeneration failed", map[string]any{
			"question_id": questionID,
			"error":       err.Error(),
		})
		return nil, err
	}
	// the set may have been replaced while we waited
	idx = o.indexLocked(questionID)
	if idx < 0 {
		o.mu.Unlock()
		o.logger.Info("Regenerated question discarded", map[string]any{"question_id": questionID})
		return fresh, nil
	}
	o.questions[idx] = *fresh
	o.mu.Unlock()

	if !o.wallet.Deduct(RegenerationCost) {
		o.logger.Warn("Wallet refused regeneration charge", map[string]any{
			"question_id": questionID,
			"balance":     o.wallet.Balance(),
		})
	}
	o.observer.QuestionReplaced(questionID, *fresh)
	return fresh, nil
}

// IsRegenerating reports whether id has a regeneration in flight
func (o *Orchestrator) IsRegenerating(id string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, ok := o.regenerating[id]
	return ok
}

// Phase returns the current phase
func (o *Orchestrator) Phase() Phase {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.phase
}

// Questions returns a copy of the visible questions
func (o *Orchestrator) Questions() []entity.GeneratedQuestion {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]entity.GeneratedQuestion, len(o.questions))
	copy(out, o.questions)
	return out
}

// LastError is the user-facing message of the last failed run
func (o *Orchestrator) LastError() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastError
}

// Balance is the wallet balance
func (o *Orchestrator) Balance() int {
	return o.wallet.Balance()
}

// Reset returns to idle and clears the questions. It fails while a run is active.
func (o *Orchestrator) Reset() error {
	o.mu.Lock()
	if o.phase == PhaseIdle {
		o.mu.Unlock()
		return nil
	}
	if err := o.moveLocked(PhaseIdle); err != nil {
		o.mu.Unlock()
		return err
	}
	o.questions = nil
	o.regenerating = make(map[string]struct{})
	o.lastError = ""
	o.form = Form{}
	o.mu.Unlock()

	o.observer.PhaseChanged(PhaseIdle)
	return nil
}

func (o *Orchestrator) moveLocked(next Phase) error {
	if !o.phase.CanTransition(next) {
		return &TransitionError{From: o.phase, To: next}
	}
	o.phase = next
	return nil
}

func (o *Orchestrator) advance(next Phase) {
	o.mu.Lock()
	err := o.moveLocked(next)
	o.mu.Unlock()
	if err != nil {
		o.logger.Error("Unexpected phase change", map[string]any{"error": err.Error()})
		return
	}
	o.observer.PhaseChanged(next)
}

func (o *Orchestrator) append(q entity.GeneratedQuestion, expected int) {
	o.mu.Lock()
	o.questions = append(o.questions, q)
	loaded := len(o.questions)
	o.mu.Unlock()
	o.observer.QuestionAdded(q, loaded, expected)
}

func (o *Orchestrator) fail(err error) {
	o.mu.Lock()
	o.lastError = userMessage(err)
	o.questions = nil
	moveErr := o.moveLocked(PhaseError)
	o.mu.Unlock()

	o.logger.Error("Generation failed", map[string]any{"error": err.Error()})
	if moveErr == nil {
		o.observer.PhaseChanged(PhaseError)
	}
}

func (o *Orchestrator) indexLocked(id string) int {
	for i, q := range o.questions {
		if q.ID == id {
			return i
		}
	}
	return -1
}

func userMessage(err error) string {
	var webhookErr *errs.WebhookError
	switch {
	case errors.As(err, &webhookErr) && webhookErr.StatusCode > 0:
		return fmt.Sprintf("The question generator answered with status %d. Please try again.", webhookErr.StatusCode)
	case errors.As(err, &webhookErr):
		return "Could not reach the question generator. Check your connection and try again."
	case errors.Is(err, errs.ErrMalformedWebhookResponse):
		return "The question generator sent an unexpected reply. Please try again."
	case errors.Is(err, errs.ErrInsufficientCredits):
		return "Not enough credits for this request."
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "Generation was cancelled."
	default:
		return "Failed to generate questions. Please try again."
	}
}
