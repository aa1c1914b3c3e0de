package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iqube-labs/iqube-api/internal/domain/port/usecase"
	"github.com/iqube-labs/iqube-api/internal/infrastructure/adapter/api/dto"
	"github.com/iqube-labs/iqube-api/internal/infrastructure/adapter/api/middleware"
)

// GenerationHandler handles server-side question generation
type GenerationHandler struct {
	generation usecase.GenerationUseCase
}

// NewGenerationHandler creates a new generation handler instance
func NewGenerationHandler(generation usecase.GenerationUseCase) *GenerationHandler {
	return &GenerationHandler{generation: generation}
}

// Generate handles POST /api/generations
func (h *GenerationHandler) Generate(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var req dto.GenerateRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.generation.Generate(c.Request.Context(), userID, usecase.GenerationInput{
		TopicName:   req.TopicName,
		Context:     req.Context,
		EasyCount:   req.EasyCount,
		MediumCount: req.MediumCount,
		HardCount:   req.HardCount,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.GenerationResponse{
		Message:          "Questions generated successfully",
		Questions:        result.Questions,
		Count:            len(result.Questions),
		CreditsRemaining: result.CreditsRemaining,
	})
}

// Regenerate handles POST /api/generations/regenerate
func (h *GenerationHandler) Regenerate(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var req dto.RegenerateRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.generation.Regenerate(c.Request.Context(), userID, usecase.RegenerationInput{
		TopicName: req.TopicName,
		Context:   req.Context,
		Original:  req.Question,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.GenerationResponse{
		Message:          "Question regenerated successfully",
		Questions:        result.Questions,
		Count:            len(result.Questions),
		CreditsRemaining: result.CreditsRemaining,
	})
}
