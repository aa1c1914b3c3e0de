package dto

import (
	"time"

	"github.com/iqube-labs/iqube-api/internal/domain/entity"
)

// CreditsResponse is returned by GET /api/users/credits
type CreditsResponse struct {
	Credits       int       `json:"credits"`
	LastRefresh   time.Time `json:"lastRefresh"`
	Timezone      string    `json:"timezone"`
	NextRefreshAt time.Time `json:"nextRefreshAt"`
}

// RefreshResponse is returned after a manual refresh
type RefreshResponse struct {
	Message     string    `json:"message"`
	Credits     int       `json:"credits"`
	LastRefresh time.Time `json:"lastRefresh"`
	RefreshedAt time.Time `json:"refreshedAt"`
}

// TransactionResponse is one ledger row
type TransactionResponse struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	Amount       int       `json:"amount"`
	BalanceAfter int       `json:"balanceAfter"`
	Description  string    `json:"description"`
	CreatedAt    time.Time `json:"createdAt"`
}

// NewTransactionResponse converts a ledger entity
func NewTransactionResponse(tx *entity.CreditTransaction) TransactionResponse {
	return TransactionResponse{
		ID:           tx.ID,
		Type:         string(tx.Type),
		Amount:       tx.Amount,
		BalanceAfter: tx.BalanceAfter,
		Description:  tx.Description,
		CreatedAt:    tx.CreatedAt,
	}
}

// HistoryResponse is returned by GET /api/users/credits/history
type HistoryResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Total        int                   `json:"total"`
}

// DeductRequest is the body of POST /api/users/credits/deduct
type DeductRequest struct {
	Amount      int    `json:"amount" binding:"required,min=1,max=10"`
	Description string `json:"description" binding:"max=255"`
}

// DeductResponse reports a successful deduction
type DeductResponse struct {
	Message          string `json:"message"`
	CreditsDeducted  int    `json:"creditsDeducted"`
	RemainingCredits int    `json:"remainingCredits"`
	Description      string `json:"description"`
}

// TimezoneRequest is the body of PUT /api/users/timezone
type TimezoneRequest struct {
	Timezone string `json:"timezone" binding:"required"`
}

// TimezoneResponse confirms a timezone change
type TimezoneResponse struct {
	Message  string `json:"message"`
	Timezone string `json:"timezone"`
}
