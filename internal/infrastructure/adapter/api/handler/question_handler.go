package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iqube-labs/iqube-api/internal/domain/entity"
	errs "github.com/iqube-labs/iqube-api/internal/domain/error"
	"github.com/iqube-labs/iqube-api/internal/domain/port/usecase"
	"github.com/iqube-labs/iqube-api/internal/infrastructure/adapter/api/dto"
	"github.com/iqube-labs/iqube-api/internal/infrastructure/adapter/api/middleware"
)

// QuestionHandler handles the question bank and topics
type QuestionHandler struct {
	questions usecase.QuestionUseCase
}

// NewQuestionHandler creates a new question handler instance
func NewQuestionHandler(questions usecase.QuestionUseCase) *QuestionHandler {
	return &QuestionHandler{questions: questions}
}

// Save handles POST /api/questions/save
func (h *QuestionHandler) Save(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var req dto.SaveQuestionRequest
	if !bindJSON(c, &req) {
		return
	}

	// empty values fall through to the entity defaults
	difficulty, _ := entity.ParseDifficulty(req.Difficulty)
	questionType, _ := entity.ParseQuestionType(req.QuestionType)

	ref, err := h.questions.SaveQuestion(c.Request.Context(), userID, usecase.SaveQuestionInput{
		QuestionText:  req.QuestionText,
		TopicName:     req.TopicName,
		Options:       req.Options,
		CorrectAnswer: req.CorrectAnswer,
		Explanation:   req.Explanation,
		Difficulty:    difficulty,
		Type:          questionType,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, dto.SaveQuestionResponse{
		Message:    "Question saved successfully",
		QuestionID: ref.ID,
		CreatedAt:  ref.CreatedAt,
	})
}

// ListSaved handles GET /api/questions/saved?page=&limit=
func (h *QuestionHandler) ListSaved(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	page, err := queryInt(c, "page", 1)
	if err != nil {
		_ = c.Error(err)
		return
	}
	limit, err := queryInt(c, "limit", 0)
	if err != nil {
		_ = c.Error(err)
		return
	}

	result, err := h.questions.ListSaved(c.Request.Context(), userID, page, limit)
	if err != nil {
		_ = c.Error(err)
		return
	}

	questions := make([]dto.SavedQuestionResponse, 0, len(result.Items))
	for _, item := range result.Items {
		questions = append(questions, dto.NewSavedQuestionResponse(item))
	}

	c.JSON(http.StatusOK, dto.SavedQuestionsResponse{
		Questions:  questions,
		Pagination: result.Pagination,
	})
}

// ListTopics handles GET /api/questions/topics
func (h *QuestionHandler) ListTopics(c *gin.Context) {
	topics, err := h.questions.ListTopics(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	resp := dto.TopicsResponse{Topics: make([]dto.TopicResponse, 0, len(topics))}
	for _, t := range topics {
		resp.Topics = append(resp.Topics, dto.TopicResponse{
			ID:          t.ID,
			Name:        t.Name,
			Description: t.Description,
			CreatedAt:   t.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, resp)
}

// LegacyGenerate handles the retired POST /api/questions/generate. The body is
// still validated so clients see field errors before the 501.
func (h *QuestionHandler) LegacyGenerate(c *gin.Context) {
	var req dto.LegacyGenerateRequest
	if !bindJSON(c, &req) {
		return
	}
	_ = c.Error(errs.ErrNotImplemented)
}
