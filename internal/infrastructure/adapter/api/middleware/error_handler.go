package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	errs "github.com/iqube-labs/iqube-api/internal/domain/error"
	coreport "github.com/iqube-labs/iqube-api/internal/domain/port/core"
	"github.com/iqube-labs/iqube-api/internal/infrastructure/adapter/api/dto"
)

var codeNames = map[int]string{
	errs.CodeValidation:           "VALIDATION_ERROR",
	errs.CodeInsufficientCredits:  "INSUFFICIENT_CREDITS",
	errs.CodeInvalidCreditAmount:  "INVALID_AMOUNT",
	errs.CodeInvalidUserID:        "INVALID_USER_ID",
	errs.CodeConstraintViolation:  "CONSTRAINT_VIOLATION",
	errs.CodeAuthenticationFailed: "AUTHENTICATION_FAILED",
	errs.CodeInvalidToken:         "INVALID_TOKEN",
	errs.CodeTokenExpired:         "TOKEN_EXPIRED",
	errs.CodeInvalidPassword:      "INVALID_PASSWORD",
	errs.CodeUserNotFound:         "USER_NOT_FOUND",
	errs.CodeQuestionNotFound:     "QUESTION_NOT_FOUND",
	errs.CodeCommentNotFound:      "COMMENT_NOT_FOUND",
	errs.CodeNotFound:             "NOT_FOUND",
	errs.CodeDuplicateUser:        "DUPLICATE_USER",
	errs.CodeDuplicateSaved:       "ALREADY_SAVED",
	errs.CodeConcurrentModified:   "CONCURRENT_MODIFICATION",
	errs.CodeSweepInProgress:      "SWEEP_IN_PROGRESS",
	errs.CodeRefreshNotAvailable:  "REFRESH_NOT_AVAILABLE",
	errs.CodeRateLimited:          "RATE_LIMITED",
	errs.CodeInternalServer:       "INTERNAL_ERROR",
	errs.CodeNotImplemented:       "NOT_IMPLEMENTED",
	errs.CodeGenerationFailed:     "GENERATION_FAILED",
	errs.CodeDatabaseUnavailable:  "DATABASE_UNAVAILABLE",
	errs.CodeDatabaseTimeout:      "DATABASE_TIMEOUT",
}

// ErrorHandler recovers panics and renders the last error a handler attached
// with c.Error. Internal details are only exposed outside production.
func ErrorHandler(logger coreport.Logger, timeProvider coreport.TimeProvider, production bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("Panic recovered in API request", map[string]any{
					"error":      fmt.Sprint(rec),
					"path":       c.Request.URL.Path,
					"method":     c.Request.Method,
					"client_ip":  c.ClientIP(),
					"request_id": c.GetHeader("X-Request-ID"),
					"user_agent": c.Request.UserAgent(),
				})

				resp := dto.ErrorResponse{
					Error:     "Internal Server Error",
					Message:   "Internal Server Error",
					Code:      codeNames[errs.CodeInternalServer],
					ErrorCode: errs.CodeInternalServer,
					Timestamp: timeProvider.Now(),
				}
				if !production {
					resp.Detail = fmt.Sprintf("%v\n%s", rec, debug.Stack())
				}
				c.AbortWithStatusJSON(http.StatusInternalServerError, resp)
			}
		}()

		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status, resp := Render(err, production)
		resp.Timestamp = timeProvider.Now()

		fields := map[string]any{
			"status": status,
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
			"error":  err.Error(),
		}
		if lf, ok := err.(interface{ LogFields() map[string]any }); ok {
			for k, v := range lf.LogFields() {
				fields[k] = v
			}
		}
		if status >= http.StatusInternalServerError {
			logger.Error("Request failed", fields)
		} else {
			logger.Debug("Request rejected", fields)
		}

		c.AbortWithStatusJSON(status, resp)
	}
}

// StatusFor maps a domain error to an HTTP status
func StatusFor(err error) int {
	switch {
	case errs.IsBadRequestError(err),
		errors.Is(err, errs.ErrInsufficientCredits),
		errors.Is(err, errs.ErrConstraintViolation):
		return http.StatusBadRequest
	case errs.IsAuthError(err):
		return http.StatusUnauthorized
	case errs.IsNotFoundError(err):
		return http.StatusNotFound
	case errs.IsConflictError(err):
		return http.StatusConflict
	case errors.Is(err, errs.ErrSweepInProgress), errors.Is(err, errs.ErrJobLocked):
		return http.StatusLocked
	case errors.Is(err, errs.ErrRefreshNotAvailable), errors.Is(err, errs.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, errs.ErrNotImplemented):
		return http.StatusNotImplemented
	case errors.Is(err, errs.ErrGenerationFailed), errors.Is(err, errs.ErrMalformedWebhookResponse):
		return http.StatusBadGateway
	case errors.Is(err, errs.ErrDatabaseConnection):
		return http.StatusServiceUnavailable
	case errors.Is(err, errs.ErrDatabaseTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// Render builds the status and body for err
func Render(err error, production bool) (int, dto.ErrorResponse) {
	status := StatusFor(err)
	code := errs.ErrorCode(err)
	title, message := describe(err)

	resp := dto.ErrorResponse{
		Error:     title,
		Message:   message,
		Code:      codeNames[code],
		ErrorCode: code,
	}

	var validationErr *errs.ValidationError
	if errors.As(err, &validationErr) {
		resp.Details = validationErr.Fields
	}

	var creditsErr *errs.InsufficientCreditsError
	if errors.As(err, &creditsErr) {
		resp.CurrentCredits = &creditsErr.Available
		resp.RequiredCredits = &creditsErr.Required
	}

	var refreshErr *errs.RefreshNotAvailableError
	if errors.As(err, &refreshErr) {
		resp.NextRefreshAvailable = &refreshErr.NextRefreshAvailable
		resp.HoursUntilRefresh = &refreshErr.HoursUntilRefresh
	}

	if status == http.StatusInternalServerError && !production {
		resp.Detail = err.Error()
	}

	return status, resp
}

func describe(err error) (title, message string) {
	var creditsErr *errs.InsufficientCreditsError

	switch {
	case errs.IsValidationError(err):
		return "Validation Error", "Invalid request data"
	case errors.As(err, &creditsErr):
		return "Insufficient credits", fmt.Sprintf("You have %d credits but need %d", creditsErr.Available, creditsErr.Required)
	case errors.Is(err, errs.ErrInsufficientCredits):
		return "Insufficient credits", "Not enough credits for this request"
	case errs.IsBadRequestError(err):
		return "Invalid request", err.Error()
	case errors.Is(err, errs.ErrConstraintViolation):
		return "Invalid reference", "Invalid reference to related resource"
	case errors.Is(err, errs.ErrAuthenticationFailed):
		return "Authentication failed", "Invalid email or password"
	case errors.Is(err, errs.ErrTokenExpired):
		return "Access denied", "Token expired"
	case errors.Is(err, errs.ErrUserInactive):
		return "Access denied", "User not found or inactive"
	case errors.Is(err, errs.ErrInvalidToken):
		return "Access denied", "Invalid token"
	case errors.Is(err, errs.ErrInvalidPassword):
		return "Invalid password", "Current password is incorrect"
	case errors.Is(err, errs.ErrUserNotFound):
		return "User not found", "User not found or inactive"
	case errors.Is(err, errs.ErrQuestionNotFound):
		return "Question not found", "The requested question does not exist"
	case errors.Is(err, errs.ErrCommentNotFound):
		return "Comment not found", "Comment not found or you do not have permission to modify it"
	case errs.IsNotFoundError(err):
		return "Not found", err.Error()
	case errors.Is(err, errs.ErrDuplicateUser):
		return "User already exists", "A user with this email already exists"
	case errors.Is(err, errs.ErrDuplicateSavedQuestion):
		return "Question already saved", "This question is already in your saved questions"
	case errs.IsConflictError(err):
		return "Conflict", "The resource was modified by another request. Please try again."
	case errors.Is(err, errs.ErrSweepInProgress), errors.Is(err, errs.ErrJobLocked):
		return "Refresh in progress", "A credit refresh is already running"
	case errors.Is(err, errs.ErrRefreshNotAvailable):
		return "Refresh not available", "Credits can only be refreshed once per day"
	case errors.Is(err, errs.ErrRateLimited):
		return "Too many requests", "Too many requests from this IP, please try again later."
	case errors.Is(err, errs.ErrNotImplemented):
		return "Not implemented", "This endpoint requires integration with an AI service for question generation. Use POST /api/generations instead."
	case errors.Is(err, errs.ErrGenerationFailed), errors.Is(err, errs.ErrMalformedWebhookResponse):
		return "Generation failed", "The question generator did not respond. Your credits were refunded."
	case errors.Is(err, errs.ErrDatabaseConnection):
		return "Database unavailable", "Database connection lost"
	case errors.Is(err, errs.ErrDatabaseTimeout):
		return "Database timeout", "The database did not answer in time"
	default:
		return "Internal Server Error", "Internal Server Error"
	}
}
