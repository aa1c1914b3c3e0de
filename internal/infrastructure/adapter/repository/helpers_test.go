package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iqube-labs/iqube-api/internal/domain/entity"
	"github.com/iqube-labs/iqube-api/internal/infrastructure/adapter/database"
	"github.com/iqube-labs/iqube-api/internal/infrastructure/adapter/logger"
	"github.com/iqube-labs/iqube-api/internal/infrastructure/adapter/repository"
)

var epoch = database.TestEpoch

func setupTestDB(t *testing.T) *database.TestDBManager {
	t.Helper()
	return database.NewTestDBManager(t, logger.NewNoopLogger())
}

// createQuestion stores a question under a seeded topic
func createQuestion(t *testing.T, tdb *database.TestDBManager, topicName, text string, difficulty entity.Difficulty) *entity.Question {
	t.Helper()

	topic := tdb.GetTestTopic(t, topicName)
	answer := 1
	question, err := entity.NewQuestion(topic.ID, text, []string{"A", "B", "C"}, &answer, nil,
		difficulty, entity.QuestionTypeMCQ, tdb.Clock)
	require.NoError(t, err)

	repo := repository.NewQuestionRepository(tdb.DB(), logger.NewNoopLogger())
	require.NoError(t, repo.Create(context.Background(), question))
	return question
}

// saveForUser links a question to a user at savedAt
func saveForUser(t *testing.T, tdb *database.TestDBManager, userID, questionID string, savedAt time.Time) {
	t.Helper()

	repo := repository.NewQuestionRepository(tdb.DB(), logger.NewNoopLogger())
	require.NoError(t, repo.LinkToUser(context.Background(), &entity.UserQuestion{
		UserID:     userID,
		QuestionID: questionID,
		SavedAt:    savedAt,
	}))
}
