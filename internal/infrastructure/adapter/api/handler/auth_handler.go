package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iqube-labs/iqube-api/internal/domain/port/usecase"
	"github.com/iqube-labs/iqube-api/internal/infrastructure/adapter/api/dto"
	"github.com/iqube-labs/iqube-api/internal/infrastructure/adapter/api/middleware"
)

// AuthHandler handles registration and login
type AuthHandler struct {
	auth usecase.AuthUseCase
}

// NewAuthHandler creates a new auth handler instance
func NewAuthHandler(auth usecase.AuthUseCase) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.auth.Register(c.Request.Context(), usecase.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, dto.AuthResponse{
		Message:   "User registered successfully",
		User:      dto.NewUserResponse(result.User),
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
	})
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.AuthResponse{
		Message:   "Login successful",
		User:      dto.NewUserResponse(result.User),
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
	})
}

// Me handles GET /api/auth/me. The full profile lives at /api/users/profile.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	c.JSON(http.StatusOK, dto.MeResponse{
		Message: "Token is valid",
		UserID:  userID,
	})
}
