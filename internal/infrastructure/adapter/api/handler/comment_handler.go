package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iqube-labs/iqube-api/internal/domain/port/usecase"
	"github.com/iqube-labs/iqube-api/internal/infrastructure/adapter/api/dto"
	"github.com/iqube-labs/iqube-api/internal/infrastructure/adapter/api/middleware"
)

// CommentHandler handles comments on questions
type CommentHandler struct {
	comments usecase.CommentUseCase
}

// NewCommentHandler creates a new comment handler instance
func NewCommentHandler(comments usecase.CommentUseCase) *CommentHandler {
	return &CommentHandler{comments: comments}
}

// List handles GET /api/questions/:id/comments
func (h *CommentHandler) List(c *gin.Context) {
	comments, err := h.comments.ListComments(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	resp := dto.CommentsResponse{Comments: make([]dto.CommentResponse, 0, len(comments))}
	for _, comment := range comments {
		resp.Comments = append(resp.Comments, dto.NewCommentResponse(comment))
	}
	resp.Total = len(resp.Comments)

	c.JSON(http.StatusOK, resp)
}

// Add handles POST /api/questions/:id/comments
func (h *CommentHandler) Add(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var req dto.CommentRequest
	if !bindJSON(c, &req) {
		return
	}

	comment, err := h.comments.AddComment(c.Request.Context(), c.Param("id"), userID, req.CommentText)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, dto.CommentEnvelope{
		Message: "Comment added successfully",
		Comment: dto.NewCommentResponse(comment),
	})
}

// Update handles PUT /api/questions/:id/comments/:commentId
func (h *CommentHandler) Update(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var req dto.CommentRequest
	if !bindJSON(c, &req) {
		return
	}

	comment, err := h.comments.UpdateComment(c.Request.Context(), c.Param("id"), c.Param("commentId"), userID, req.CommentText)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.CommentEnvelope{
		Message: "Comment updated successfully",
		Comment: dto.NewCommentResponse(comment),
	})
}

// Delete handles DELETE /api/questions/:id/comments/:commentId
func (h *CommentHandler) Delete(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	if err := h.comments.DeleteComment(c.Request.Context(), c.Param("id"), c.Param("commentId"), userID); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Comment deleted successfully"})
}
