package dto

import (
	"time"

	errs "github.com/iqube-labs/iqube-api/internal/domain/error"
)

// ErrorResponse represents a standardized error response for the API
type ErrorResponse struct {
	Error     string            `json:"error"`
	Message   string            `json:"message"`
	Code      string            `json:"code"`
	ErrorCode int               `json:"errorCode"`
	Details   []errs.FieldError `json:"details,omitempty"`

	// insufficient credits
	CurrentCredits  *int `json:"currentCredits,omitempty"`
	RequiredCredits *int `json:"requiredCredits,omitempty"`

	// refresh not available
	NextRefreshAvailable *time.Time `json:"nextRefreshAvailable,omitempty"`
	HoursUntilRefresh    *int       `json:"hoursUntilRefresh,omitempty"`

	// only outside production
	Detail string `json:"detail,omitempty"`

	Timestamp time.Time `json:"timestamp"`
}

// MessageResponse is a body carrying only a message
type MessageResponse struct {
	Message string `json:"message"`
}
