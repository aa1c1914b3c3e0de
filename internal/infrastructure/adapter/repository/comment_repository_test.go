package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iqube-labs/iqube-api/internal/domain/entity"
	errs "github.com/iqube-labs/iqube-api/internal/domain/error"
	"github.com/iqube-labs/iqube-api/internal/infrastructure/adapter/logger"
	"github.com/iqube-labs/iqube-api/internal/infrastructure/adapter/repository"
)

func TestCommentRepository(t *testing.T) {
	ctx := context.Background()

	// Arrange
	tdb := setupTestDB(t)
	repo := repository.NewCommentRepository(tdb.DB(), logger.NewNoopLogger())
	author := tdb.CreateTestUser(t, "author@example.com", 10, epoch)
	question := createQuestion(t, tdb, "Philosophy & Ethics", "What is virtue?", entity.DifficultyMedium)

	first, err := entity.NewComment(question.ID, author.ID, "  first thought  ", tdb.Clock)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, first))

	tdb.Clock.Advance(time.Minute)
	second, err := entity.NewComment(question.ID, author.ID, "second thought", tdb.Clock)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, second))

	t.Run("create returns the stored comment with author fields", func(t *testing.T) {
		assert.NotEmpty(t, first.ID)
		assert.Equal(t, "first thought", first.CommentText)
		assert.Equal(t, "Test", first.AuthorFirstName)
		assert.Equal(t, "author@example.com", first.AuthorEmail)
	})

	t.Run("list is oldest first", func(t *testing.T) {
		comments, err := repo.ListByQuestion(ctx, question.ID)

		require.NoError(t, err)
		require.Len(t, comments, 2)
		assert.Equal(t, first.ID, comments[0].ID)
		assert.Equal(t, second.ID, comments[1].ID)
	})

	t.Run("update changes text and timestamp", func(t *testing.T) {
		tdb.Clock.Advance(time.Hour)
		second.CommentText = "revised"
		second.UpdatedAt = tdb.Clock.Now()

		require.NoError(t, repo.Update(ctx, second))
		reloaded, err := repo.GetByID(ctx, second.ID)

		require.NoError(t, err)
		assert.Equal(t, "revised", reloaded.CommentText)
		assert.True(t, reloaded.UpdatedAt.After(reloaded.CreatedAt))
	})

	t.Run("count by user", func(t *testing.T) {
		count, err := repo.CountByUser(ctx, author.ID)

		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("delete then get is not found", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, first.ID))

		_, err := repo.GetByID(ctx, first.ID)
		assert.ErrorIs(t, err, errs.ErrCommentNotFound)

		err = repo.Delete(ctx, first.ID)
		assert.ErrorIs(t, err, errs.ErrCommentNotFound)
	})

	t.Run("update of a missing comment", func(t *testing.T) {
		err := repo.Update(ctx, &entity.Comment{ID: "missing", CommentText: "x", UpdatedAt: epoch})

		assert.ErrorIs(t, err, errs.ErrCommentNotFound)
	})
}
