package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/iqube-labs/iqube-api/internal/domain/entity"
	errs "github.com/iqube-labs/iqube-api/internal/domain/error"
	"github.com/iqube-labs/iqube-api/internal/domain/port/core"
	"github.com/iqube-labs/iqube-api/internal/infrastructure/adapter/logger"
	timeadapter "github.com/iqube-labs/iqube-api/internal/infrastructure/adapter/time"
	mockusecase "github.com/iqube-labs/iqube-api/mocks/port/usecase"
)

func newAuthRouter(auth *mockusecase.MockAuthUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ErrorHandler(logger.NewNoopLogger(), timeadapter.NewFixedTimeProvider(fixedNow), true))
	router.GET("/private", Auth(auth), func(c *gin.Context) {
		userID, _ := UserID(c)
		user, _ := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"userId": userID, "email": user.Email})
	})
	return router
}

func TestAuth(t *testing.T) {
	t.Run("accepts a valid bearer token", func(t *testing.T) {
		auth := mockusecase.NewMockAuthUseCase(t)
		user := &entity.User{ID: "u1", Email: "jane@example.com", IsActive: true}
		auth.On("VerifyToken", mock.Anything, "abc").
			Return(&core.TokenClaims{UserID: "u1"}, user, nil).Once()

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		req.Header.Set("Authorization", "Bearer abc")
		newAuthRouter(auth).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"userId":"u1","email":"jane@example.com"}`, w.Body.String())
	})

	t.Run("rejects a missing header", func(t *testing.T) {
		auth := mockusecase.NewMockAuthUseCase(t)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		newAuthRouter(auth).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		auth.AssertNotCalled(t, "VerifyToken", mock.Anything, mock.Anything)
	})

	t.Run("rejects a non bearer scheme", func(t *testing.T) {
		auth := mockusecase.NewMockAuthUseCase(t)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		req.Header.Set("Authorization", "Basic Zm9vOmJhcg==")
		newAuthRouter(auth).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejects inactive users", func(t *testing.T) {
		auth := mockusecase.NewMockAuthUseCase(t)
		auth.On("VerifyToken", mock.Anything, "abc").Return(nil, nil, errs.ErrUserInactive).Once()

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		req.Header.Set("Authorization", "bearer abc")
		newAuthRouter(auth).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "User not found or inactive")
	})
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"  bearer   abc  ", "abc", true},
		{"Bearer", "", false},
		{"Bearer   ", "", false},
		{"Token abc", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			token, ok := bearerToken(tt.header)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.token, token)
		})
	}
}
