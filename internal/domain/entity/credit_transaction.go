package entity

import (
	"time"

	errs "github.com/iqube-labs/iqube-api/internal/domain/error"
	coreport "github.com/iqube-labs/iqube-api/internal/domain/port/core"
)

// CreditTransactionType classifies a ledger row
type CreditTransactionType string

const (
	CreditDeduction       CreditTransactionType = "deduction"
	CreditRefresh         CreditTransactionType = "refresh"
	CreditAdminAdjustment CreditTransactionType = "admin_adjustment"
)

// IsValid reports whether t is a known ledger type
func (t CreditTransactionType) IsValid() bool {
	switch t {
	case CreditDeduction, CreditRefresh, CreditAdminAdjustment:
		return true
	default:
		return false
	}
}

// CreditTransaction is an immutable audit row of a credit change
type CreditTransaction struct {
	ID           string
	UserID       string
	Type         CreditTransactionType
	Amount       int // signed
	BalanceAfter int
	Description  string
	CreatedAt    time.Time
}

// NewCreditTransaction records a change that left the user at balanceAfter
func NewCreditTransaction(
	userID string,
	txType CreditTransactionType,
	amount int,
	balanceAfter int,
	description string,
	timeProvider coreport.TimeProvider,
) (*CreditTransaction, error) {
	if userID == "" {
		return nil, errs.ErrInvalidUserID
	}
	if !txType.IsValid() {
		return nil, errs.ErrInvalidTransactionType
	}
	if balanceAfter < 0 {
		return nil, errs.ErrNegativeCredits
	}

	return &CreditTransaction{
		UserID:       userID,
		Type:         txType,
		Amount:       amount,
		BalanceAfter: balanceAfter,
		Description:  description,
		CreatedAt:    timeProvider.Now(),
	}, nil
}

// CreditBalance is the caller-facing view of a user's allowance
type CreditBalance struct {
	Credits       int
	LastRefresh   time.Time
	Timezone      string
	NextRefreshAt time.Time
}

// RefreshResult summarises one sweep
type RefreshResult struct {
	Refreshed    int
	Total        int
	Errors       int
	Message      string
	ErrorDetails []RefreshFailure
}

// RefreshFailure is one user the sweep could not refresh
type RefreshFailure struct {
	UserID string
	Email  string
	Error  string
}

// RefreshStats describes the population the sweep operates on
type RefreshStats struct {
	TotalActiveUsers     int
	UsersNeedingRefresh  int
	UsersWithZeroCredits int
	AverageCredits       float64
}
