package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/iqube-labs/iqube-api/internal/domain/error"
	"github.com/iqube-labs/iqube-api/internal/infrastructure/adapter/api/dto"
	"github.com/iqube-labs/iqube-api/internal/infrastructure/adapter/logger"
	timeadapter "github.com/iqube-labs/iqube-api/internal/infrastructure/adapter/time"
)

var fixedNow = time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)

func newErrorRouter(production bool, h gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ErrorHandler(logger.NewNoopLogger(), timeadapter.NewFixedTimeProvider(fixedNow), production))
	router.GET("/test", h)
	return router
}

func serve(router *gin.Engine) (*httptest.ResponseRecorder, dto.ErrorResponse) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	router.ServeHTTP(w, req)

	var body dto.ErrorResponse
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", errs.NewValidationError("email", "is required"), http.StatusBadRequest},
		{"insufficient credits", errs.NewInsufficientCreditsError("u1", 5, 2), http.StatusBadRequest},
		{"constraint", errs.ErrConstraintViolation, http.StatusBadRequest},
		{"auth failed", errs.ErrAuthenticationFailed, http.StatusUnauthorized},
		{"invalid token", errs.ErrInvalidToken, http.StatusUnauthorized},
		{"token expired", errs.ErrTokenExpired, http.StatusUnauthorized},
		{"inactive", errs.ErrUserInactive, http.StatusUnauthorized},
		{"wrong password", errs.ErrInvalidPassword, http.StatusUnauthorized},
		{"question missing", errs.ErrQuestionNotFound, http.StatusNotFound},
		{"comment missing", errs.ErrCommentNotFound, http.StatusNotFound},
		{"duplicate user", errs.ErrDuplicateUser, http.StatusConflict},
		{"sweep running", errs.ErrSweepInProgress, http.StatusLocked},
		{"refresh too early", errs.ErrRefreshNotAvailable, http.StatusTooManyRequests},
		{"rate limited", errs.ErrRateLimited, http.StatusTooManyRequests},
		{"not implemented", errs.ErrNotImplemented, http.StatusNotImplemented},
		{"generation", errs.NewWebhookError("generate", 500, errors.New("boom")), http.StatusBadGateway},
		{"db down", fmt.Errorf("load user: %w", errs.ErrDatabaseConnection), http.StatusServiceUnavailable},
		{"db timeout", errs.ErrDatabaseTimeout, http.StatusGatewayTimeout},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}

func TestErrorHandler(t *testing.T) {
	t.Run("renders validation details", func(t *testing.T) {
		router := newErrorRouter(true, func(c *gin.Context) {
			_ = c.Error(errs.NewValidationError("email", "must be a valid email"))
		})

		w, body := serve(router)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Validation Error", body.Error)
		assert.Equal(t, "VALIDATION_ERROR", body.Code)
		require.Len(t, body.Details, 1)
		assert.Equal(t, "email", body.Details[0].Field)
		assert.True(t, body.Timestamp.Equal(fixedNow))
	})

	t.Run("renders credit amounts", func(t *testing.T) {
		router := newErrorRouter(true, func(c *gin.Context) {
			_ = c.Error(errs.NewInsufficientCreditsError("u1", 5, 2))
		})

		w, body := serve(router)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "You have 2 credits but need 5", body.Message)
		require.NotNil(t, body.CurrentCredits)
		require.NotNil(t, body.RequiredCredits)
		assert.Equal(t, 2, *body.CurrentCredits)
		assert.Equal(t, 5, *body.RequiredCredits)
	})

	t.Run("renders next refresh", func(t *testing.T) {
		last := fixedNow.Add(-2 * time.Hour)
		router := newErrorRouter(true, func(c *gin.Context) {
			_ = c.Error(errs.NewRefreshNotAvailableError("u1", last, fixedNow, 20*time.Hour))
		})

		w, body := serve(router)

		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		require.NotNil(t, body.HoursUntilRefresh)
		assert.Equal(t, 18, *body.HoursUntilRefresh)
		require.NotNil(t, body.NextRefreshAvailable)
		assert.True(t, body.NextRefreshAvailable.Equal(last.Add(20*time.Hour)))
	})

	t.Run("hides internal detail in production", func(t *testing.T) {
		router := newErrorRouter(true, func(c *gin.Context) {
			_ = c.Error(errors.New("pq: relation does not exist"))
		})

		w, body := serve(router)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Empty(t, body.Detail)
	})

	t.Run("exposes internal detail in development", func(t *testing.T) {
		router := newErrorRouter(false, func(c *gin.Context) {
			_ = c.Error(errors.New("pq: relation does not exist"))
		})

		_, body := serve(router)

		assert.Equal(t, "pq: relation does not exist", body.Detail)
	})

	t.Run("recovers panics", func(t *testing.T) {
		router := newErrorRouter(false, func(c *gin.Context) {
			panic("nil map")
		})

		w, body := serve(router)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "INTERNAL_ERROR", body.Code)
		assert.Contains(t, body.Detail, "nil map")
	})

	t.Run("leaves written responses alone", func(t *testing.T) {
		router := newErrorRouter(true, func(c *gin.Context) {
			c.JSON(http.StatusAccepted, gin.H{"ok": true})
			_ = c.Error(errors.New("late"))
		})

		w, _ := serve(router)

		assert.Equal(t, http.StatusAccepted, w.Code)
		assert.JSONEq(t, `{"ok":true}`, w.Body.String())
	})

	t.Run("database unavailable code", func(t *testing.T) {
		router := newErrorRouter(true, func(c *gin.Context) {
			_ = c.Error(errs.ErrDatabaseConnection)
		})

		w, body := serve(router)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "DATABASE_UNAVAILABLE", body.Code)
	})
}
