package orchestrator

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/iqube-labs/iqube-api/internal/domain/entity"
	errs "github.com/iqube-labs/iqube-api/internal/domain/error"
	"github.com/iqube-labs/iqube-api/internal/infrastructure/adapter/logger"
	timeadapter "github.com/iqube-labs/iqube-api/internal/infrastructure/adapter/time"
	mockgateway "github.com/iqube-labs/iqube-api/mocks/port/gateway"
)

var fixedNow = time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)

type recordingObserver struct {
	mu       sync.Mutex
	phases   []Phase
	loaded   []int
	replaced []string
}

func (r *recordingObserver) PhaseChanged(p Phase) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.phases = append(r.phases, p)
}

func (r *recordingObserver) QuestionAdded(_ entity.GeneratedQuestion, loaded, _ int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loaded = append(r.loaded, loaded)
}

func (r *recordingObserver) QuestionReplaced(oldID string, _ entity.GeneratedQuestion) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.replaced = append(r.replaced, oldID)
}

type fixture struct {
	generator *mockgateway.MockQuestionGenerator
	wallet    *DemoWallet
	observer  *recordingObserver
	orch      *Orchestrator
}

func newFixture(t *testing.T) *fixture {
	f := &fixture{
		generator: mockgateway.NewMockQuestionGenerator(t),
		wallet:    NewDemoWallet(),
		observer:  &recordingObserver{},
	}
	f.orch = New(f.generator, f.wallet, f.observer, logger.NewNoopLogger(), timeadapter.NewFixedTimeProvider(fixedNow))
	return f
}

func question(id string, d entity.Difficulty) entity.GeneratedQuestion {
	return entity.GeneratedQuestion{ID: id, Question: "Q " + id, Difficulty: d, Options: []string{"a", "b"}}
}

func TestForm_CanGenerate(t *testing.T) {
	tests := []struct {
		name    string
		form    Form
		balance int
		want    bool
	}{
		{"within balance", Form{EasyCount: 2, HardCount: 1}, 10, true},
		{"exactly balance", Form{MediumCount: 4}, 4, true},
		{"over balance", Form{MediumCount: 5}, 4, false},
		{"nothing requested", Form{}, 10, false},
		{"negative count", Form{EasyCount: 3, HardCount: -1}, 10, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.form.CanGenerate(tt.balance))
		})
	}
}

func TestOrchestrator_Generate(t *testing.T) {
	t.Run("reveals sorted questions and charges the wallet", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		form := Form{TopicName: "  Go  ", EasyCount: 2, MediumCount: 1, HardCount: 1}
		f.generator.On("Generate", mock.Anything, mock.MatchedBy(func(req entity.GenerationRequest) bool {
			return req.TopicName == "Go" && req.Total() == 4 && req.CorrelationID != "" && req.RequestedAt.Equal(fixedNow)
		})).Return([]entity.GeneratedQuestion{
			question("q0", entity.DifficultyHard),
			question("q1", entity.DifficultyEasy),
			question("q2", entity.DifficultyMedium),
			question("q3", entity.DifficultyEasy),
		}, nil).Once()

		// Act
		got, err := f.orch.Generate(context.Background(), form)

		// Assert
		require.NoError(t, err)
		ids := make([]string, 0, len(got))
		for _, q := range got {
			ids = append(ids, q.ID)
		}
		assert.Equal(t, []string{"q1", "q3", "q2", "q0"}, ids)
		assert.Equal(t, 6, f.wallet.Balance())
		assert.Equal(t, PhaseComplete, f.orch.Phase())
		assert.Equal(t, []Phase{PhaseSubmitting, PhaseInitial, PhaseBackground, PhaseComplete}, f.observer.phases)
		assert.Equal(t, []int{1, 2, 3, 4}, f.observer.loaded)
	})

	t.Run("single question skips background", func(t *testing.T) {
		f := newFixture(t)
		f.generator.On("Generate", mock.Anything, mock.Anything).
			Return([]entity.GeneratedQuestion{question("q0", entity.DifficultyEasy)}, nil).Once()

		_, err := f.orch.Generate(context.Background(), Form{TopicName: "Go", EasyCount: 1})

		require.NoError(t, err)
		assert.Equal(t, []Phase{PhaseSubmitting, PhaseInitial, PhaseComplete}, f.observer.phases)
	})

	t.Run("refuses when the wallet is short", func(t *testing.T) {
		f := newFixture(t)
		f.wallet.Set(2)

		_, err := f.orch.Generate(context.Background(), Form{TopicName: "Go", MediumCount: 3})

		var creditsErr *errs.InsufficientCreditsError
		require.ErrorAs(t, err, &creditsErr)
		assert.Equal(t, 3, creditsErr.Required)
		assert.Equal(t, 2, creditsErr.Available)
		assert.Equal(t, PhaseIdle, f.orch.Phase())
		f.generator.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
	})

	t.Run("refuses an empty request", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.orch.Generate(context.Background(), Form{TopicName: "Go"})

		assert.ErrorIs(t, err, errs.ErrInvalidQuestionCount)
	})

	t.Run("non 2xx ends in error without charging", func(t *testing.T) {
		f := newFixture(t)
		f.generator.On("Generate", mock.Anything, mock.Anything).
			Return(nil, errs.NewWebhookError("generate", http.StatusInternalServerError, errors.New("boom"))).Once()

		_, err := f.orch.Generate(context.Background(), Form{TopicName: "Go", EasyCount: 2})

		require.Error(t, err)
		assert.Equal(t, PhaseError, f.orch.Phase())
		assert.Equal(t, "The question generator answered with status 500. Please try again.", f.orch.LastError())
		assert.Equal(t, DemoCredits, f.wallet.Balance())
		assert.Empty(t, f.orch.Questions())
	})

	t.Run("empty reply is an error", func(t *testing.T) {
		f := newFixture(t)
		f.generator.On("Generate", mock.Anything, mock.Anything).Return([]entity.GeneratedQuestion{}, nil).Once()

		_, err := f.orch.Generate(context.Background(), Form{TopicName: "Go", EasyCount: 2})

		assert.ErrorIs(t, err, errs.ErrMalformedWebhookResponse)
		assert.Equal(t, PhaseError, f.orch.Phase())
	})

	t.Run("can run again after an error", func(t *testing.T) {
		f := newFixture(t)
		f.generator.On("Generate", mock.Anything, mock.Anything).
			Return(nil, errs.NewWebhookError("generate", 0, errors.New("dial tcp"))).Once()
		f.generator.On("Generate", mock.Anything, mock.Anything).
			Return([]entity.GeneratedQuestion{question("q0", entity.DifficultyEasy)}, nil).Once()

		_, err := f.orch.Generate(context.Background(), Form{TopicName: "Go", EasyCount: 1})
		require.Error(t, err)
		assert.Contains(t, f.orch.LastError(), "Could not reach")

		_, err = f.orch.Generate(context.Background(), Form{TopicName: "Go", EasyCount: 1})
		require.NoError(t, err)
		assert.Empty(t, f.orch.LastError())
		assert.Equal(t, 9, f.wallet.Balance())
	})
}

func TestOrchestrator_Regenerate(t *testing.T) {
	setup := func(t *testing.T) *fixture {
		f := newFixture(t)
		f.generator.On("Generate", mock.Anything, mock.Anything).Return([]entity.GeneratedQuestion{
			question("q0", entity.DifficultyEasy),
			question("q1", entity.DifficultyHard),
		}, nil).Once()
		_, err := f.orch.Generate(context.Background(), Form{TopicName: "Go", Context: "channels", EasyCount: 1, HardCount: 1})
		require.NoError(t, err)
		return f
	}

	t.Run("replaces the card", func(t *testing.T) {
		f := setup(t)
		fresh := question("webhook-9-0", entity.DifficultyHard)
		f.generator.On("Regenerate", mock.Anything, mock.MatchedBy(func(req entity.RegenerationRequest) bool {
			return req.QuestionID == "q1" && req.Original.ID == "q1" && req.TopicName == "Go" && req.Context == "channels"
		})).Return(&fresh, nil).Once()

		got, err := f.orch.Regenerate(context.Background(), "q1")

		require.NoError(t, err)
		assert.Equal(t, "webhook-9-0", got.ID)
		qs := f.orch.Questions()
		assert.Equal(t, "q0", qs[0].ID)
		assert.Equal(t, "webhook-9-0", qs[1].ID)
		assert.Equal(t, []string{"q1"}, f.observer.replaced)
		assert.Equal(t, 7, f.wallet.Balance())
		assert.False(t, f.orch.IsRegenerating("q1"))
	})

	t.Run("rejects a duplicate while in flight", func(t *testing.T) {
		f := setup(t)
		release := make(chan struct{})
		started := make(chan struct{})
		fresh := question("webhook-9-0", entity.DifficultyHard)
		f.generator.On("Regenerate", mock.Anything, mock.Anything).
			Run(func(mock.Arguments) {
				close(started)
				<-release
			}).
			Return(&fresh, nil).Once()

		done := make(chan error, 1)
		go func() {
			_, err := f.orch.Regenerate(context.Background(), "q1")
			done <- err
		}()
		<-started

		assert.True(t, f.orch.IsRegenerating("q1"))
		_, err := f.orch.Regenerate(context.Background(), "q1")
		assert.ErrorIs(t, err, errs.ErrRegenerationInProgress)

		close(release)
		require.NoError(t, <-done)
		assert.False(t, f.orch.IsRegenerating("q1"))
	})

	t.Run("different ids run together", func(t *testing.T) {
		f := setup(t)
		var wg sync.WaitGroup
		both := make(chan struct{})
		var arrived sync.WaitGroup
		arrived.Add(2)
		go func() {
			arrived.Wait()
			close(both)
		}()

		for _, id := range []string{"q0", "q1"} {
			id := id
			fresh := question("new-"+id, entity.DifficultyMedium)
			f.generator.On("Regenerate", mock.Anything, mock.MatchedBy(func(req entity.RegenerationRequest) bool {
				return req.QuestionID == id
			})).Run(func(mock.Arguments) {
				arrived.Done()
				<-both
			}).Return(&fresh, nil).Once()
		}

		for _, id := range []string{"q0", "q1"} {
			wg.Add(1)
			go func(id string) {
				defer wg.Done()
				_, err := f.orch.Regenerate(context.Background(), id)
				assert.NoError(t, err)
			}(id)
		}
		wg.Wait()

		qs := f.orch.Questions()
		assert.Equal(t, "new-q0", qs[0].ID)
		assert.Equal(t, "new-q1", qs[1].ID)
	})

	t.Run("failure keeps the original", func(t *testing.T) {
		f := setup(t)
		f.generator.On("Regenerate", mock.Anything, mock.Anything).
			Return(nil, errs.NewWebhookError("regenerate", http.StatusBadGateway, errors.New("bad gateway"))).Once()

		_, err := f.orch.Regenerate(context.Background(), "q0")

		require.Error(t, err)
		assert.Equal(t, "q0", f.orch.Questions()[0].ID)
		assert.Equal(t, 8, f.wallet.Balance())
		assert.False(t, f.orch.IsRegenerating("q0"))
	})

	t.Run("reset while in flight drops the card without charging", func(t *testing.T) {
		// Arrange
		f := setup(t)
		release := make(chan struct{})
		started := make(chan struct{})
		fresh := question("webhook-9-0", entity.DifficultyHard)
		f.generator.On("Regenerate", mock.Anything, mock.Anything).
			Run(func(mock.Arguments) {
				close(started)
				<-release
			}).
			Return(&fresh, nil).Once()

		done := make(chan error, 1)
		go func() {
			_, err := f.orch.Regenerate(context.Background(), "q1")
			done <- err
		}()
		<-started

		// Act
		require.NoError(t, f.orch.Reset())
		assert.False(t, f.orch.IsRegenerating("q1"))
		close(release)

		// Assert
		require.NoError(t, <-done)
		assert.Empty(t, f.orch.Questions())
		assert.Empty(t, f.observer.replaced)
		assert.Equal(t, 8, f.wallet.Balance())
	})

	t.Run("refused charge keeps the replacement", func(t *testing.T) {
		f := setup(t)
		fresh := question("webhook-9-0", entity.DifficultyHard)
		f.generator.On("Regenerate", mock.Anything, mock.Anything).
			Run(func(mock.Arguments) { f.wallet.Set(0) }).
			Return(&fresh, nil).Once()

		_, err := f.orch.Regenerate(context.Background(), "q1")

		require.NoError(t, err)
		assert.Equal(t, "webhook-9-0", f.orch.Questions()[1].ID)
		assert.Equal(t, 0, f.wallet.Balance())
		assert.Equal(t, []string{"q1"}, f.observer.replaced)
	})

	t.Run("unknown id", func(t *testing.T) {
		f := setup(t)

		_, err := f.orch.Regenerate(context.Background(), "nope")

		assert.ErrorIs(t, err, errs.ErrQuestionNotFound)
	})

	t.Run("needs a credit", func(t *testing.T) {
		f := setup(t)
		f.wallet.Set(0)

		_, err := f.orch.Regenerate(context.Background(), "q0")

		assert.ErrorIs(t, err, errs.ErrInsufficientCredits)
	})
}

func TestOrchestrator_Reset(t *testing.T) {
	f := newFixture(t)
	f.generator.On("Generate", mock.Anything, mock.Anything).
		Return([]entity.GeneratedQuestion{question("q0", entity.DifficultyEasy)}, nil).Once()
	_, err := f.orch.Generate(context.Background(), Form{TopicName: "Go", EasyCount: 1})
	require.NoError(t, err)

	require.NoError(t, f.orch.Reset())

	assert.Equal(t, PhaseIdle, f.orch.Phase())
	assert.Empty(t, f.orch.Questions())
	assert.NoError(t, f.orch.Reset())
}

func TestPhase(t *testing.T) {
	assert.True(t, PhaseIdle.CanTransition(PhaseSubmitting))
	assert.False(t, PhaseIdle.CanTransition(PhaseComplete))
	assert.False(t, PhaseSubmitting.CanTransition(PhaseIdle))
	assert.True(t, PhaseBackground.Busy())
	assert.False(t, PhaseComplete.Busy())
	assert.Equal(t, "Loading additional questions in background...", PhaseBackground.ProgressText())
}

func TestWallets(t *testing.T) {
	t.Run("demo wallet", func(t *testing.T) {
		w := NewDemoWallet()
		assert.Equal(t, 10, w.Balance())
		assert.True(t, w.Deduct(4))
		assert.False(t, w.Deduct(7))
		assert.Equal(t, 6, w.Balance())
		w.Set(-3)
		assert.Equal(t, 0, w.Balance())
		w.Reset()
		assert.Equal(t, 10, w.Balance())
	})

	t.Run("account wallet follows the server", func(t *testing.T) {
		w := NewAccountWallet(5)
		assert.True(t, w.Deduct(5))
		assert.Equal(t, 5, w.Balance())
		w.Sync(0)
		assert.Equal(t, 0, w.Balance())
	})
}
