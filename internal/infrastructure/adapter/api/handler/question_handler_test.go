package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/iqube-labs/iqube-api/internal/domain/entity"
	errs "github.com/iqube-labs/iqube-api/internal/domain/error"
	"github.com/iqube-labs/iqube-api/internal/domain/port/usecase"
	"github.com/iqube-labs/iqube-api/internal/infrastructure/adapter/api/dto"
	mockusecase "github.com/iqube-labs/iqube-api/mocks/port/usecase"
)

func TestQuestionHandler_Save(t *testing.T) {
	t.Run("saves a multiple choice question", func(t *testing.T) {
		// Arrange
		questions := mockusecase.NewMockQuestionUseCase(t)
		router := newTestRouter(true)
		router.POST("/api/questions/save", NewQuestionHandler(questions).Save)

		answer := 1
		questions.On("SaveQuestion", mock.Anything, testUserID, mock.MatchedBy(func(in usecase.SaveQuestionInput) bool {
			return in.TopicName == "Go" &&
				in.Difficulty == entity.DifficultyHard &&
				in.Type == entity.QuestionTypeMCQ &&
				in.CorrectAnswer != nil && *in.CorrectAnswer == answer &&
				len(in.Options) == 4
		})).Return(&usecase.SavedQuestionRef{ID: "q1", CreatedAt: fixedNow}, nil).Once()

		// Act
		w := doJSON(router, http.MethodPost, "/api/questions/save", map[string]any{
			"questionText":  "Which keyword starts a goroutine?",
			"topicName":     "Go",
			"options":       []string{"defer", "go", "chan", "select"},
			"correctAnswer": answer,
			"difficulty":    "HARD",
			"questionType":  "mcq",
		})

		// Assert
		require.Equal(t, http.StatusCreated, w.Code)
		var body dto.SaveQuestionResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "Question saved successfully", body.Message)
		assert.Equal(t, "q1", body.QuestionID)
	})

	t.Run("leaves defaults to the domain", func(t *testing.T) {
		questions := mockusecase.NewMockQuestionUseCase(t)
		router := newTestRouter(true)
		router.POST("/api/questions/save", NewQuestionHandler(questions).Save)
		questions.On("SaveQuestion", mock.Anything, testUserID, mock.MatchedBy(func(in usecase.SaveQuestionInput) bool {
			return in.Difficulty == "" && in.Type == ""
		})).Return(&usecase.SavedQuestionRef{ID: "q2", CreatedAt: fixedNow}, nil).Once()

		w := doJSON(router, http.MethodPost, "/api/questions/save", map[string]any{
			"questionText": "Explain channels", "topicName": "Go",
		})

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("rejects an unknown difficulty", func(t *testing.T) {
		questions := mockusecase.NewMockQuestionUseCase(t)
		router := newTestRouter(true)
		router.POST("/api/questions/save", NewQuestionHandler(questions).Save)

		w := doJSON(router, http.MethodPost, "/api/questions/save", map[string]any{
			"questionText": "Explain channels", "topicName": "Go", "difficulty": "extreme",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeError(w)
		require.Len(t, body.Details, 1)
		assert.Equal(t, errs.FieldError{Field: "difficulty", Message: "must be easy, medium or hard"}, body.Details[0])
	})

	t.Run("out of range answer", func(t *testing.T) {
		questions := mockusecase.NewMockQuestionUseCase(t)
		router := newTestRouter(true)
		router.POST("/api/questions/save", NewQuestionHandler(questions).Save)
		questions.On("SaveQuestion", mock.Anything, testUserID, mock.Anything).
			Return(nil, errs.ErrInvalidCorrectAnswer).Once()

		w := doJSON(router, http.MethodPost, "/api/questions/save", map[string]any{
			"questionText": "Pick one", "topicName": "Go", "options": []string{"a", "b"}, "correctAnswer": 1,
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestQuestionHandler_ListSaved(t *testing.T) {
	t.Run("returns a page", func(t *testing.T) {
		questions := mockusecase.NewMockQuestionUseCase(t)
		router := newTestRouter(true)
		router.GET("/api/questions/saved", NewQuestionHandler(questions).ListSaved)

		saved := &entity.SavedQuestion{
			Question: entity.Question{
				ID:           "q1",
				QuestionText: "What is a slice?",
				Difficulty:   entity.DifficultyEasy,
				Type:         entity.QuestionTypeText,
				CreatedAt:    fixedNow,
			},
			TopicName: "Go",
			SavedAt:   fixedNow,
		}
		questions.On("ListSaved", mock.Anything, testUserID, 2, 1).Return(&usecase.SavedPage{
			Items:      []*entity.SavedQuestion{saved},
			Pagination: entity.NewPagination(2, 1, 3),
		}, nil).Once()

		w := doJSON(router, http.MethodGet, "/api/questions/saved?page=2&limit=1", nil)

		require.Equal(t, http.StatusOK, w.Code)
		var body dto.SavedQuestionsResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Len(t, body.Questions, 1)
		assert.Equal(t, "Go", body.Questions[0].TopicName)
		assert.Equal(t, "easy", body.Questions[0].Difficulty)
		assert.Equal(t, entity.Pagination{Page: 2, Limit: 1, Total: 3, Pages: 3}, body.Pagination)
	})

	t.Run("defaults page and limit", func(t *testing.T) {
		questions := mockusecase.NewMockQuestionUseCase(t)
		router := newTestRouter(true)
		router.GET("/api/questions/saved", NewQuestionHandler(questions).ListSaved)
		questions.On("ListSaved", mock.Anything, testUserID, 1, 0).
			Return(&usecase.SavedPage{Pagination: entity.NewPagination(1, 20, 0)}, nil).Once()

		w := doJSON(router, http.MethodGet, "/api/questions/saved", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"questions":[]`)
	})

	t.Run("bad page", func(t *testing.T) {
		questions := mockusecase.NewMockQuestionUseCase(t)
		router := newTestRouter(true)
		router.GET("/api/questions/saved", NewQuestionHandler(questions).ListSaved)

		w := doJSON(router, http.MethodGet, "/api/questions/saved?page=abc", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestQuestionHandler_ListTopics(t *testing.T) {
	questions := mockusecase.NewMockQuestionUseCase(t)
	router := newTestRouter(false)
	router.GET("/api/questions/topics", NewQuestionHandler(questions).ListTopics)
	questions.On("ListTopics", mock.Anything).Return([]*entity.Topic{
		{ID: "t1", Name: "Algebra", Description: "Equations", CreatedAt: fixedNow},
		{ID: "t2", Name: "Go", Description: entity.UserCreatedTopicDescription, CreatedAt: fixedNow},
	}, nil).Once()

	w := doJSON(router, http.MethodGet, "/api/questions/topics", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var body dto.TopicsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Topics, 2)
	assert.Equal(t, "Algebra", body.Topics[0].Name)
}

func TestQuestionHandler_LegacyGenerate(t *testing.T) {
	t.Run("not implemented", func(t *testing.T) {
		router := newTestRouter(false)
		router.POST("/api/questions/generate", NewQuestionHandler(mockusecase.NewMockQuestionUseCase(t)).LegacyGenerate)

		w := doJSON(router, http.MethodPost, "/api/questions/generate", map[string]any{"topicName": "Go", "count": 3})

		assert.Equal(t, http.StatusNotImplemented, w.Code)
		assert.Equal(t, "NOT_IMPLEMENTED", decodeError(w).Code)
	})

	t.Run("validates first", func(t *testing.T) {
		router := newTestRouter(false)
		router.POST("/api/questions/generate", NewQuestionHandler(mockusecase.NewMockQuestionUseCase(t)).LegacyGenerate)

		w := doJSON(router, http.MethodPost, "/api/questions/generate", map[string]any{"count": 30})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Len(t, decodeError(w).Details, 2)
	})
}
