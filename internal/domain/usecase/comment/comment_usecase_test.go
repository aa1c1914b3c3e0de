package comment

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/iqube-labs/iqube-api/internal/domain/entity"
	errs "github.com/iqube-labs/iqube-api/internal/domain/error"
	mockcore "github.com/iqube-labs/iqube-api/mocks/port/core"
	mockpersistence "github.com/iqube-labs/iqube-api/mocks/port/persistence"
)

var fixedTime = time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	ctx       context.Context
	comments  *mockpersistence.MockCommentRepository
	questions *mockpersistence.MockQuestionRepository
	uc        *CommentUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	clock := mockcore.NewMockTimeProvider(t)
	clock.On("Now").Return(fixedTime).Maybe()
	logger := mockcore.NewMockLogger(t)
	for _, level := range []string{"Debug", "Info", "Warn", "Error"} {
		logger.On(level, mock.Anything, mock.Anything).Maybe()
	}

	f := &fixture{
		ctx:       context.Background(),
		comments:  mockpersistence.NewMockCommentRepository(t),
		questions: mockpersistence.NewMockQuestionRepository(t),
	}
	f.uc = NewCommentUseCase(f.comments, f.questions, clock, logger)
	return f
}

func storedComment() *entity.Comment {
	return &entity.Comment{
		ID:              "c1",
		QuestionID:      "q1",
		UserID:          "u1",
		CommentText:     "first",
		CreatedAt:       fixedTime.Add(-time.Hour),
		UpdatedAt:       fixedTime.Add(-time.Hour),
		AuthorFirstName: "Ada",
		AuthorEmail:     "ada@example.com",
	}
}

func TestCommentUseCase_AddComment(t *testing.T) {
	t.Run("returns the comment with its author", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.questions.On("Exists", f.ctx, "q1").Return(true, nil).Once()
		f.comments.On("Create", f.ctx, mock.MatchedBy(func(c *entity.Comment) bool {
			return c.QuestionID == "q1" && c.UserID == "u1" && c.CommentText == "nice one"
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*entity.Comment).ID = "c1"
		}).Return(nil).Once()
		f.comments.On("GetByID", f.ctx, "c1").Return(storedComment(), nil).Once()

		// Act
		comment, err := f.uc.AddComment(f.ctx, "q1", "u1", "  nice one ")

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "Ada", comment.AuthorFirstName)
	})

	t.Run("missing question", func(t *testing.T) {
		f := newFixture(t)
		f.questions.On("Exists", f.ctx, "q404").Return(false, nil).Once()

		_, err := f.uc.AddComment(f.ctx, "q404", "u1", "hello")

		assert.ErrorIs(t, err, errs.ErrQuestionNotFound)
	})

	t.Run("text bounds", func(t *testing.T) {
		f := newFixture(t)

		_, empty := f.uc.AddComment(f.ctx, "q1", "u1", "   ")
		_, long := f.uc.AddComment(f.ctx, "q1", "u1", strings.Repeat("x", entity.MaxCommentLength+1))

		assert.ErrorIs(t, empty, errs.ErrInvalidComment)
		assert.ErrorIs(t, long, errs.ErrInvalidComment)
	})
}

func TestCommentUseCase_UpdateComment(t *testing.T) {
	t.Run("owner edits", func(t *testing.T) {
		f := newFixture(t)
		f.comments.On("GetByID", f.ctx, "c1").Return(storedComment(), nil).Once()
		f.comments.On("Update", f.ctx, mock.MatchedBy(func(c *entity.Comment) bool {
			return c.CommentText == "edited" && c.UpdatedAt.Equal(fixedTime)
		})).Return(nil).Once()

		comment, err := f.uc.UpdateComment(f.ctx, "q1", "c1", "u1", "edited")

		require.NoError(t, err)
		assert.Equal(t, "edited", comment.CommentText)
	})

	t.Run("failures are indistinguishable", func(t *testing.T) {
		cases := map[string]struct {
			questionID string
			userID     string
			lookupErr  error
		}{
			"missing comment": {"q1", "u1", errs.ErrCommentNotFound},
			"other user":      {"q1", "u2", nil},
			"other question":  {"q2", "u1", nil},
		}

		for name, tc := range cases {
			t.Run(name, func(t *testing.T) {
				f := newFixture(t)
				if tc.lookupErr != nil {
					f.comments.On("GetByID", f.ctx, "c1").Return(nil, tc.lookupErr).Once()
				} else {
					f.comments.On("GetByID", f.ctx, "c1").Return(storedComment(), nil).Once()
				}

				_, err := f.uc.UpdateComment(f.ctx, tc.questionID, "c1", tc.userID, "edited")

				assert.Equal(t, errs.ErrCommentNotFound, err)
			})
		}
	})
}

func TestCommentUseCase_DeleteComment(t *testing.T) {
	t.Run("owner deletes", func(t *testing.T) {
		f := newFixture(t)
		f.comments.On("GetByID", f.ctx, "c1").Return(storedComment(), nil).Once()
		f.comments.On("Delete", f.ctx, "c1").Return(nil).Once()

		assert.NoError(t, f.uc.DeleteComment(f.ctx, "q1", "c1", "u1"))
	})

	t.Run("foreign comment is kept", func(t *testing.T) {
		f := newFixture(t)
		f.comments.On("GetByID", f.ctx, "c1").Return(storedComment(), nil).Once()

		err := f.uc.DeleteComment(f.ctx, "q1", "c1", "intruder")

		assert.ErrorIs(t, err, errs.ErrCommentNotFound)
		f.comments.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestCommentUseCase_ListComments(t *testing.T) {
	f := newFixture(t)
	comments := []*entity.Comment{storedComment()}
	f.comments.On("ListByQuestion", f.ctx, "q1").Return(comments, nil).Once()

	got, err := f.uc.ListComments(f.ctx, "q1")

	require.NoError(t, err)
	assert.Equal(t, comments, got)
}
