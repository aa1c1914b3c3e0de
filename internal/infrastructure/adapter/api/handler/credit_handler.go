package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	coreport "github.com/iqube-labs/iqube-api/internal/domain/port/core"
	"github.com/iqube-labs/iqube-api/internal/domain/port/usecase"
	"github.com/iqube-labs/iqube-api/internal/infrastructure/adapter/api/dto"
	"github.com/iqube-labs/iqube-api/internal/infrastructure/adapter/api/middleware"
)

// CreditHandler handles the signed-in user's credit balance and ledger
type CreditHandler struct {
	credits      usecase.CreditUseCase
	timeProvider coreport.TimeProvider
}

// NewCreditHandler creates a new credit handler instance
func NewCreditHandler(credits usecase.CreditUseCase, timeProvider coreport.TimeProvider) *CreditHandler {
	return &CreditHandler{
		credits:      credits,
		timeProvider: timeProvider,
	}
}

// GetCredits handles GET /api/users/credits
func (h *CreditHandler) GetCredits(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	balance, err := h.credits.GetBalance(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.CreditsResponse{
		Credits:       balance.Credits,
		LastRefresh:   balance.LastRefresh,
		Timezone:      balance.Timezone,
		NextRefreshAt: balance.NextRefreshAt,
	})
}

// RefreshCredits handles POST /api/users/credits/refresh
func (h *CreditHandler) RefreshCredits(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	balance, err := h.credits.ManualRefresh(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.RefreshResponse{
		Message:     "Credits refreshed successfully",
		Credits:     balance.Credits,
		LastRefresh: balance.LastRefresh,
		RefreshedAt: h.timeProvider.Now(),
	})
}

// History handles GET /api/users/credits/history
func (h *CreditHandler) History(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	limit, err := queryInt(c, "limit", 0)
	if err != nil {
		_ = c.Error(err)
		return
	}

	rows, err := h.credits.History(c.Request.Context(), userID, limit)
	if err != nil {
		_ = c.Error(err)
		return
	}

	transactions := make([]dto.TransactionResponse, 0, len(rows))
	for _, row := range rows {
		transactions = append(transactions, dto.NewTransactionResponse(row))
	}

	c.JSON(http.StatusOK, dto.HistoryResponse{
		Transactions: transactions,
		Total:        len(transactions),
	})
}

// Deduct handles POST /api/users/credits/deduct
func (h *CreditHandler) Deduct(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var req dto.DeductRequest
	if !bindJSON(c, &req) {
		return
	}

	tx, err := h.credits.Deduct(c.Request.Context(), userID, req.Amount, req.Description)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.DeductResponse{
		Message:          "Credits deducted successfully",
		CreditsDeducted:  req.Amount,
		RemainingCredits: tx.BalanceAfter,
		Description:      tx.Description,
	})
}

// UpdateTimezone handles PUT /api/users/timezone
func (h *CreditHandler) UpdateTimezone(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var req dto.TimezoneRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.credits.UpdateTimezone(c.Request.Context(), userID, req.Timezone)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.TimezoneResponse{
		Message:  "Timezone updated successfully",
		Timezone: user.Timezone,
	})
}
