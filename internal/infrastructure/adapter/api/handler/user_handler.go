package handler

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/iqube-labs/iqube-api/internal/domain/entity"
	"github.com/iqube-labs/iqube-api/internal/domain/port/usecase"
	"github.com/iqube-labs/iqube-api/internal/infrastructure/adapter/api/dto"
	"github.com/iqube-labs/iqube-api/internal/infrastructure/adapter/api/middleware"
)

// UserHandler handles profile requests of the signed-in user
type UserHandler struct {
	users usecase.UserUseCase
}

// NewUserHandler creates a new user handler instance
func NewUserHandler(users usecase.UserUseCase) *UserHandler {
	return &UserHandler{users: users}
}

// GetProfile handles GET /api/users/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	profile, err := h.users.GetProfile(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	user := dto.NewUserResponse(profile.User)
	user.SavedQuestionsCount = &profile.SavedCount
	c.JSON(http.StatusOK, dto.ProfileResponse{User: user})
}

// UpdateProfile handles PUT /api/users/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var req dto.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	updated, err := h.users.UpdateProfile(c.Request.Context(), userID, usecase.ProfileUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	user := dto.NewUserResponse(updated)
	user.UpdatedAt = &updated.UpdatedAt
	c.JSON(http.StatusOK, dto.ProfileResponse{
		Message: "Profile updated successfully",
		User:    user,
	})
}

// ChangePassword handles PUT /api/users/password
func (h *UserHandler) ChangePassword(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var req dto.ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.users.ChangePassword(c.Request.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Password changed successfully"})
}

// GetStats handles GET /api/users/stats
func (h *UserHandler) GetStats(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	stats, err := h.users.GetStats(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, newStatsResponse(stats))
}

// DeactivateAccount handles DELETE /api/users/account
func (h *UserHandler) DeactivateAccount(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	if err := h.users.DeactivateAccount(c.Request.Context(), userID); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Account deactivated successfully"})
}

func newStatsResponse(stats *entity.QuestionStats) dto.StatsResponse {
	byDifficulty := make([]dto.CountByKey, 0, len(stats.ByDifficulty))
	for _, d := range entity.Difficulties() {
		if n := stats.ByDifficulty[d]; n > 0 {
			byDifficulty = append(byDifficulty, dto.CountByKey{Key: string(d), Count: n})
		}
	}

	byTopic := make([]dto.CountByKey, 0, len(stats.ByTopic))
	for name, n := range stats.ByTopic {
		byTopic = append(byTopic, dto.CountByKey{Key: name, Count: n})
	}
	sort.Slice(byTopic, func(i, j int) bool {
		if byTopic[i].Count != byTopic[j].Count {
			return byTopic[i].Count > byTopic[j].Count
		}
		return byTopic[i].Key < byTopic[j].Key
	})

	return dto.StatsResponse{
		Stats: dto.StatsSummary{
			TotalSavedQuestions: stats.TotalSaved,
			TopicsExplored:      len(stats.ByTopic),
			TotalComments:       stats.TotalComments,
		},
		QuestionsByDifficulty: byDifficulty,
		QuestionsByTopic:      byTopic,
	}
}
