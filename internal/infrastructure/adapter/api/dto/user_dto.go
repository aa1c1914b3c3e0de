package dto

import (
	"time"

	"github.com/iqube-labs/iqube-api/internal/domain/entity"
)

// RegisterRequest is the body of POST /api/auth/register
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	FirstName string `json:"firstName" binding:"required,min=1,max=50"`
	LastName  string `json:"lastName" binding:"required,min=1,max=50"`
}

// LoginRequest is the body of POST /api/auth/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserResponse is the public view of an account
type UserResponse struct {
	ID                  string     `json:"id"`
	Email               string     `json:"email"`
	FirstName           string     `json:"firstName"`
	LastName            string     `json:"lastName"`
	DailyCredits        int        `json:"dailyCredits"`
	LastCreditRefresh   time.Time  `json:"lastCreditRefresh"`
	Timezone            string     `json:"timezone"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           *time.Time `json:"updatedAt,omitempty"`
	SavedQuestionsCount *int       `json:"savedQuestionsCount,omitempty"`
}

// NewUserResponse converts a user entity
func NewUserResponse(u *entity.User) UserResponse {
	return UserResponse{
		ID:                u.ID,
		Email:             u.Email,
		FirstName:         u.FirstName,
		LastName:          u.LastName,
		DailyCredits:      u.DailyCredits,
		LastCreditRefresh: u.LastCreditRefresh,
		Timezone:          u.Timezone,
		CreatedAt:         u.CreatedAt,
	}
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	Message   string       `json:"message"`
	User      UserResponse `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

// MeResponse is returned by GET /api/auth/me
type MeResponse struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

// ProfileResponse wraps the caller's profile
type ProfileResponse struct {
	Message string       `json:"message,omitempty"`
	User    UserResponse `json:"user"`
}

// UpdateProfileRequest holds optional profile changes
type UpdateProfileRequest struct {
	FirstName *string `json:"firstName" binding:"omitempty,min=1,max=50"`
	LastName  *string `json:"lastName" binding:"omitempty,min=1,max=50"`
	Email     *string `json:"email" binding:"omitempty,email"`
}

// ChangePasswordRequest is the body of PUT /api/users/password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}

// CountByKey is one group of a statistics breakdown
type CountByKey struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// StatsSummary holds totals of a user's activity
type StatsSummary struct {
	TotalSavedQuestions int `json:"totalSavedQuestions"`
	TopicsExplored      int `json:"topicsExplored"`
	TotalComments       int `json:"totalComments"`
}

// StatsResponse is returned by GET /api/users/stats
type StatsResponse struct {
	Stats                 StatsSummary `json:"stats"`
	QuestionsByDifficulty []CountByKey `json:"questionsByDifficulty"`
	QuestionsByTopic      []CountByKey `json:"questionsByTopic"`
}
