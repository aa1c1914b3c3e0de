package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/iqube-labs/iqube-api/internal/domain/entity"
	errs "github.com/iqube-labs/iqube-api/internal/domain/error"
	"github.com/iqube-labs/iqube-api/internal/domain/port/usecase"
)

const (
	userIDKey = "userID"
	userKey   = "user"
)

// Auth requires a valid bearer token and an active user
func Auth(auth usecase.AuthUseCase) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			_ = c.Error(errs.ErrInvalidToken)
			c.Abort()
			return
		}

		_, user, err := auth.VerifyToken(c.Request.Context(), token)
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}

		SetUser(c, user)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// UserID returns the authenticated user's id
func UserID(c *gin.Context) (string, bool) {
	id := c.GetString(userIDKey)
	return id, id != ""
}

// CurrentUser returns the authenticated user as loaded by Auth
func CurrentUser(c *gin.Context) (*entity.User, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*entity.User)
	return user, ok
}

// SetUser marks a request as authenticated
func SetUser(c *gin.Context, user *entity.User) {
	c.Set(userIDKey, user.ID)
	c.Set(userKey, user)
}
