package error

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Error codes for standardized API responses
const (
	// 4xxx - Client errors
	CodeValidation           = 4000
	CodeInsufficientCredits  = 4001
	CodeInvalidCreditAmount  = 4002
	CodeInvalidUserID        = 4003
	CodeConstraintViolation  = 4005
	CodeAuthenticationFailed = 4010
	CodeInvalidToken         = 4011
	CodeTokenExpired         = 4012
	CodeInvalidPassword      = 4013
	CodeUserNotFound         = 4040
	CodeQuestionNotFound     = 4041
	CodeCommentNotFound      = 4042
	CodeNotFound             = 4044
	CodeDuplicateUser        = 4090
	CodeDuplicateSaved       = 4091
	CodeConcurrentModified   = 4092
	CodeSweepInProgress      = 4230
	CodeRefreshNotAvailable  = 4290
	CodeRateLimited          = 4291

	// 5xxx - Server errors
	CodeInternalServer      = 5000
	CodeNotImplemented      = 5010
	CodeGenerationFailed    = 5020
	CodeDatabaseUnavailable = 5030
	CodeDatabaseTimeout     = 5040
)

// Base error types
var (
	// ErrInvalidRequest is returned when the request format is invalid
	ErrInvalidRequest = errors.New("invalid request")

	// ErrInvalidEmail is returned for a malformed email address
	ErrInvalidEmail = errors.New("invalid email address")

	// ErrInvalidUserID is returned when a user id is empty
	ErrInvalidUserID = errors.New("user ID cannot be empty")

	// ErrInvalidCreditAmount is returned when a credit change is zero or negative
	ErrInvalidCreditAmount = errors.New("credit amount must be positive")

	// ErrNegativeCredits is returned when an operation would leave a negative balance
	ErrNegativeCredits = errors.New("credits cannot be negative")

	// ErrInsufficientCredits is returned when a user cannot afford a deduction
	ErrInsufficientCredits = errors.New("insufficient credits")

	// ErrInvalidTransactionType is returned for an unknown ledger type
	ErrInvalidTransactionType = errors.New("invalid credit transaction type")

	// ErrInvalidQuestion is returned when question text is empty
	ErrInvalidQuestion = errors.New("question text is required")

	// ErrInvalidDifficulty is returned for difficulties outside easy/medium/hard
	ErrInvalidDifficulty = errors.New("difficulty must be easy, medium or hard")

	// ErrInvalidCorrectAnswer is returned when the answer index does not address an option
	ErrInvalidCorrectAnswer = errors.New("correct answer index out of range")

	// ErrInvalidQuestionCount is returned when a generation batch size is out of bounds
	ErrInvalidQuestionCount = errors.New("question counts must be non-negative and total between 1 and 10")

	// ErrInvalidComment is returned when a comment body is empty or too long
	ErrInvalidComment = errors.New("comment must be between 1 and 2000 characters")

	// ErrInvalidTimezone is returned when a timezone name cannot be loaded
	ErrInvalidTimezone = errors.New("invalid timezone")

	// ErrNoFieldsToUpdate is returned when a profile update carries nothing
	ErrNoFieldsToUpdate = errors.New("no valid fields to update")

	// ErrAuthenticationFailed is returned for every failed login, whatever the cause
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrInvalidToken is returned for a malformed or badly signed token
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired is returned when a token is past its expiry
	ErrTokenExpired = errors.New("token expired")

	// ErrUserInactive is returned when a token's user no longer exists or was deactivated
	ErrUserInactive = errors.New("user not found or inactive")

	// ErrInvalidPassword is returned when the current password does not match
	ErrInvalidPassword = errors.New("invalid password")

	// ErrUserNotFound is returned when the requested user doesn't exist
	ErrUserNotFound = errors.New("user not found")

	// ErrQuestionNotFound is returned when the requested question doesn't exist
	ErrQuestionNotFound = errors.New("question not found")

	// ErrCommentNotFound covers missing comments and comments the caller does not own
	ErrCommentNotFound = errors.New("comment not found")

	// ErrTopicNotFound is returned when a topic lookup misses
	ErrTopicNotFound = errors.New("topic not found")

	// ErrNotFound is returned when a generic resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrDuplicateUser is returned when trying to create a user that already exists
	ErrDuplicateUser = errors.New("user already exists")

	// ErrDuplicateSavedQuestion is returned when a user saves the same question twice
	ErrDuplicateSavedQuestion = errors.New("question already saved by user")

	// ErrDuplicateTopic is returned when a topic name is taken
	ErrDuplicateTopic = errors.New("topic already exists")

	// ErrConcurrentModification is returned when a row changed under a conditional update
	ErrConcurrentModification = errors.New("concurrent modification detected")

	// ErrConstraintViolation is returned when a database constraint is violated
	ErrConstraintViolation = errors.New("database constraint violation")

	// ErrJobLocked is returned when a named job lock is held by another process
	ErrJobLocked = errors.New("job is locked by another process")

	// ErrSweepInProgress is returned when a refresh sweep is already running
	ErrSweepInProgress = errors.New("credit refresh sweep already in progress")

	// ErrRefreshNotAvailable is returned when a manual refresh is requested too early
	ErrRefreshNotAvailable = errors.New("credit refresh not available yet")

	// ErrRateLimited is returned when a client exceeded its request budget
	ErrRateLimited = errors.New("too many requests")

	// ErrNotImplemented is returned by intentionally disabled endpoints
	ErrNotImplemented = errors.New("not implemented")

	// ErrGenerationFailed is returned when the question generator did not deliver
	ErrGenerationFailed = errors.New("question generation failed")

	// ErrMalformedWebhookResponse is returned when the generator reply matches no known envelope
	ErrMalformedWebhookResponse = errors.New("malformed webhook response")

	// ErrRegenerationInProgress is returned when a question is already being regenerated
	ErrRegenerationInProgress = errors.New("question is already being regenerated")

	// ErrInternalServer is returned for unexpected server-side errors
	ErrInternalServer = errors.New("internal server error")

	// ErrDatabaseConnection is returned when there's a problem connecting to the database
	ErrDatabaseConnection = errors.New("database connection error")

	// ErrDatabaseTimeout is returned when a database call exceeded its deadline
	ErrDatabaseTimeout = errors.New("database timeout")
)

// ErrorCode returns standardized error codes for known errors
func ErrorCode(err error) int {
	switch {
	case IsValidationError(err):
		return CodeValidation
	case errors.Is(err, ErrInsufficientCredits):
		return CodeInsufficientCredits
	case errors.Is(err, ErrInvalidCreditAmount):
		return CodeInvalidCreditAmount
	case errors.Is(err, ErrInvalidUserID):
		return CodeInvalidUserID
	case errors.Is(err, ErrConstraintViolation):
		return CodeConstraintViolation
	case errors.Is(err, ErrAuthenticationFailed):
		return CodeAuthenticationFailed
	case errors.Is(err, ErrInvalidToken), errors.Is(err, ErrUserInactive):
		return CodeInvalidToken
	case errors.Is(err, ErrTokenExpired):
		return CodeTokenExpired
	case errors.Is(err, ErrInvalidPassword):
		return CodeInvalidPassword
	case errors.Is(err, ErrUserNotFound):
		return CodeUserNotFound
	case errors.Is(err, ErrQuestionNotFound):
		return CodeQuestionNotFound
	case errors.Is(err, ErrCommentNotFound):
		return CodeCommentNotFound
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrTopicNotFound):
		return CodeNotFound
	case errors.Is(err, ErrDuplicateUser):
		return CodeDuplicateUser
	case errors.Is(err, ErrDuplicateSavedQuestion), errors.Is(err, ErrDuplicateTopic):
		return CodeDuplicateSaved
	case errors.Is(err, ErrConcurrentModification):
		return CodeConcurrentModified
	case errors.Is(err, ErrSweepInProgress), errors.Is(err, ErrJobLocked):
		return CodeSweepInProgress
	case errors.Is(err, ErrRefreshNotAvailable):
		return CodeRefreshNotAvailable
	case errors.Is(err, ErrRateLimited):
		return CodeRateLimited
	case errors.Is(err, ErrNotImplemented):
		return CodeNotImplemented
	case errors.Is(err, ErrGenerationFailed), errors.Is(err, ErrMalformedWebhookResponse):
		return CodeGenerationFailed
	case errors.Is(err, ErrDatabaseTimeout):
		return CodeDatabaseTimeout
	case errors.Is(err, ErrDatabaseConnection):
		return CodeDatabaseUnavailable
	default:
		return CodeInternalServer
	}
}

// FieldError describes one invalid request field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects per-field problems of a request
type ValidationError struct {
	Fields []FieldError
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation error"
	}
	return fmt.Sprintf("validation error: %s %s", e.Fields[0].Field, e.Fields[0].Message)
}

// Is checks if the target error is ErrInvalidRequest
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidRequest
}

// LogFields returns a map of fields for structured logging
func (e *ValidationError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "validation_error",
		"fields":     e.Fields,
		"error_code": CodeValidation,
	}
}

// NewValidationError creates a validation error for a single field
func NewValidationError(field, message string) error {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// InsufficientCreditsError provides detailed error information for a refused deduction
type InsufficientCreditsError struct {
	UserID    string
	Required  int
	Available int
}

// Error implements the error interface
func (e *InsufficientCreditsError) Error() string {
	return fmt.Sprintf("insufficient credits for user %s: required %d, available %d",
		e.UserID, e.Required, e.Available)
}

// Is checks if the target error is an ErrInsufficientCredits
func (e *InsufficientCreditsError) Is(target error) bool {
	return target == ErrInsufficientCredits
}

// LogFields returns a map of fields for structured logging
func (e *InsufficientCreditsError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "insufficient_credits",
		"user_id":    e.UserID,
		"required":   e.Required,
		"available":  e.Available,
		"error_code": CodeInsufficientCredits,
	}
}

// NewInsufficientCreditsError creates a new detailed insufficient credits error
func NewInsufficientCreditsError(userID string, required, available int) error {
	return &InsufficientCreditsError{
		UserID:    userID,
		Required:  required,
		Available: available,
	}
}

// RefreshNotAvailableError reports when the next manual refresh opens
type RefreshNotAvailableError struct {
	UserID               string
	NextRefreshAvailable time.Time
	HoursUntilRefresh    int
}

// Error implements the error interface
func (e *RefreshNotAvailableError) Error() string {
	return fmt.Sprintf("credit refresh for user %s not available for %d more hours",
		e.UserID, e.HoursUntilRefresh)
}

// Is checks if the target error is an ErrRefreshNotAvailable
func (e *RefreshNotAvailableError) Is(target error) bool {
	return target == ErrRefreshNotAvailable
}

// LogFields returns a map of fields for structured logging
func (e *RefreshNotAvailableError) LogFields() map[string]any {
	return map[string]any{
		"error_type":             "refresh_not_available",
		"user_id":                e.UserID,
		"next_refresh_available": e.NextRefreshAvailable,
		"hours_until_refresh":    e.HoursUntilRefresh,
		"error_code":             CodeRefreshNotAvailable,
	}
}

// NewRefreshNotAvailableError computes the wait from the last refresh and the refresh window
func NewRefreshNotAvailableError(userID string, lastRefresh, now time.Time, window time.Duration) error {
	next := lastRefresh.Add(window)
	hours := int(math.Ceil(next.Sub(now).Hours()))
	if hours < 0 {
		hours = 0
	}
	return &RefreshNotAvailableError{
		UserID:               userID,
		NextRefreshAvailable: next,
		HoursUntilRefresh:    hours,
	}
}

// WebhookError describes a failed call to the question generator
type WebhookError struct {
	StatusCode int
	Operation  string
	Err        error
}

// Error implements the error interface
func (e *WebhookError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("webhook %s failed with status %d: %v", e.Operation, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("webhook %s failed: %v", e.Operation, e.Err)
}

// Unwrap returns the underlying error
func (e *WebhookError) Unwrap() error {
	return e.Err
}

// Is checks if the target error is ErrGenerationFailed
func (e *WebhookError) Is(target error) bool {
	return target == ErrGenerationFailed
}

// LogFields returns a map of fields for structured logging
func (e *WebhookError) LogFields() map[string]any {
	fields := map[string]any{
		"error_type":  "webhook_error",
		"status_code": e.StatusCode,
		"operation":   e.Operation,
		"error_code":  CodeGenerationFailed,
	}
	if e.Err != nil {
		fields["error"] = e.Err.Error()
	}
	return fields
}

// NewWebhookError wraps a generator failure
func NewWebhookError(operation string, statusCode int, err error) error {
	return &WebhookError{
		StatusCode: statusCode,
		Operation:  operation,
		Err:        err,
	}
}

// IsValidationError checks if the error is a request validation error
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsInsufficientCreditsError checks if the error is related to insufficient credits
func IsInsufficientCreditsError(err error) bool {
	return errors.Is(err, ErrInsufficientCredits)
}

// IsUserNotFoundError checks if the error is a user not found error
func IsUserNotFoundError(err error) bool {
	return errors.Is(err, ErrUserNotFound)
}

// IsNotFoundError checks if the error is any "not found" type of error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrQuestionNotFound) ||
		errors.Is(err, ErrCommentNotFound) ||
		errors.Is(err, ErrTopicNotFound)
}

// IsAuthError checks if the error should be reported as 401
func IsAuthError(err error) bool {
	return errors.Is(err, ErrAuthenticationFailed) ||
		errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, ErrTokenExpired) ||
		errors.Is(err, ErrUserInactive) ||
		errors.Is(err, ErrInvalidPassword)
}

// IsConflictError checks if the error should be reported as 409
func IsConflictError(err error) bool {
	return errors.Is(err, ErrDuplicateUser) ||
		errors.Is(err, ErrDuplicateSavedQuestion) ||
		errors.Is(err, ErrDuplicateTopic) ||
		errors.Is(err, ErrConcurrentModification)
}

// IsDatabaseError checks if the error is a connectivity or timeout failure
func IsDatabaseError(err error) bool {
	return errors.Is(err, ErrDatabaseConnection) || errors.Is(err, ErrDatabaseTimeout)
}

// IsBadRequestError checks if the error was caused by invalid client input
func IsBadRequestError(err error) bool {
	if IsValidationError(err) {
		return true
	}
	for _, target := range []error{
		ErrInvalidRequest,
		ErrInvalidEmail,
		ErrInvalidUserID,
		ErrInvalidCreditAmount,
		ErrInvalidQuestion,
		ErrInvalidDifficulty,
		ErrInvalidCorrectAnswer,
		ErrInvalidQuestionCount,
		ErrInvalidComment,
		ErrInvalidTimezone,
		ErrNoFieldsToUpdate,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
