package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	errs "github.com/iqube-labs/iqube-api/internal/domain/error"
	coreport "github.com/iqube-labs/iqube-api/internal/domain/port/core"
)

// ErrorType represents the type of database error that occurred
type ErrorType string

const (
	DuplicateKeyError ErrorType = "duplicate_key"
	TransientError    ErrorType = "transient"
	LockError         ErrorType = "lock"
	ConnectionError   ErrorType = "connection"
	ConstraintError   ErrorType = "constraint"
)

// ErrorClassifier classifies driver errors from postgres, mysql and sqlite by message
type ErrorClassifier struct{}

// NewErrorClassifier creates a new ErrorClassifier
func NewErrorClassifier() *ErrorClassifier {
	return &ErrorClassifier{}
}

// Classify returns the type of error
func (c *ErrorClassifier) Classify(err error) ErrorType {
	switch {
	case err == nil:
		return ""
	case c.IsDuplicateKeyError(err):
		return DuplicateKeyError
	case c.IsLockError(err):
		return LockError
	case c.IsTransientError(err):
		return TransientError
	case c.IsConnectionError(err):
		return ConnectionError
	case c.IsConstraintError(err):
		return ConstraintError
	}
	return ""
}

func containsAny(err error, needles ...string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, n := range needles {
		if strings.Contains(msg, n) {
			return true
		}
	}
	return false
}

// IsDuplicateKeyError checks if the error is a unique violation
func (c *ErrorClassifier) IsDuplicateKeyError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return containsAny(err, "duplicate key", "UNIQUE constraint", "Duplicate entry", "SQLSTATE 23505")
}

// IsTransientError checks if an error is transient and can be retried
func (c *ErrorClassifier) IsTransientError(err error) bool {
	return containsAny(err, "connection reset", "connection refused", "timeout", "EOF",
		"server closed", "broken pipe", "database is locked")
}

// IsLockError checks if the error is due to locking
func (c *ErrorClassifier) IsLockError(err error) bool {
	return containsAny(err, "deadlock", "lock wait timeout", "could not serialize access",
		"serialization failure", "database table is locked")
}

// IsConnectionError checks if the error is related to database connectivity
func (c *ErrorClassifier) IsConnectionError(err error) bool {
	return containsAny(err, "connection", "dial", "network") || c.IsTransientError(err)
}

// IsConstraintError checks if the error is related to constraint violations
func (c *ErrorClassifier) IsConstraintError(err error) bool {
	return containsAny(err, "constraint", "violates", "foreign key", "not null") ||
		c.IsDuplicateKeyError(err)
}

// isContextError checks if an error is related to context timeout or cancellation
func isContextError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	return containsAny(err, "context deadline exceeded", "context canceled")
}

// errorMapping picks the domain errors a repository reports for a failed query
type errorMapping struct {
	notFound  error
	duplicate error
}

// translateError logs a failed operation and maps it to a domain error
func translateError(logger coreport.Logger, classifier *ErrorClassifier, operation string, err error, fields map[string]any, mapping errorMapping) error {
	logFields := map[string]any{"operation": operation, "error": err.Error()}
	for k, v := range fields {
		logFields[k] = v
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound) && mapping.notFound != nil:
		logger.Debug("Record not found", logFields)
		return mapping.notFound
	case classifier.IsDuplicateKeyError(err) && mapping.duplicate != nil:
		logger.Warn("Duplicate record", logFields)
		return mapping.duplicate
	case isContextError(err):
		logger.Warn("Database operation timed out", logFields)
		return fmt.Errorf("%w: %s", errs.ErrDatabaseTimeout, err.Error())
	case classifier.IsLockError(err):
		logger.Warn("Row is locked by another transaction", logFields)
		return errs.ErrConcurrentModification
	case classifier.IsConnectionError(err):
		logger.Error(fmt.Sprintf("Database error when %s", operation), logFields)
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
	case classifier.IsConstraintError(err):
		logger.Warn("Constraint violation", logFields)
		return fmt.Errorf("%w: %s", errs.ErrConstraintViolation, err.Error())
	}

	logger.Error(fmt.Sprintf("Database error when %s", operation), logFields)
	return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
}
