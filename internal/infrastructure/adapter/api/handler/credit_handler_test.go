package handler

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/iqube-labs/iqube-api/internal/domain/entity"
	errs "github.com/iqube-labs/iqube-api/internal/domain/error"
	"github.com/iqube-labs/iqube-api/internal/infrastructure/adapter/api/dto"
	timeadapter "github.com/iqube-labs/iqube-api/internal/infrastructure/adapter/time"
	mockusecase "github.com/iqube-labs/iqube-api/mocks/port/usecase"
)

func newCreditRouter(t *testing.T) (*mockusecase.MockCreditUseCase, *CreditHandler) {
	credits := mockusecase.NewMockCreditUseCase(t)
	return credits, NewCreditHandler(credits, timeadapter.NewFixedTimeProvider(fixedNow))
}

func TestCreditHandler_GetCredits(t *testing.T) {
	credits, h := newCreditRouter(t)
	router := newTestRouter(true)
	router.GET("/api/users/credits", h.GetCredits)

	last := fixedNow.Add(-3 * time.Hour)
	credits.On("GetBalance", mock.Anything, testUserID).Return(&entity.CreditBalance{
		Credits:       7,
		LastRefresh:   last,
		Timezone:      "UTC",
		NextRefreshAt: last.Add(20 * time.Hour),
	}, nil).Once()

	w := doJSON(router, http.MethodGet, "/api/users/credits", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var body dto.CreditsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 7, body.Credits)
	assert.True(t, body.NextRefreshAt.Equal(last.Add(20*time.Hour)))
}

func TestCreditHandler_RefreshCredits(t *testing.T) {
	t.Run("refreshes", func(t *testing.T) {
		credits, h := newCreditRouter(t)
		router := newTestRouter(true)
		router.POST("/api/users/credits/refresh", h.RefreshCredits)
		credits.On("ManualRefresh", mock.Anything, testUserID).
			Return(&entity.CreditBalance{Credits: 10, LastRefresh: fixedNow}, nil).Once()

		w := doJSON(router, http.MethodPost, "/api/users/credits/refresh", nil)

		require.Equal(t, http.StatusOK, w.Code)
		var body dto.RefreshResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "Credits refreshed successfully", body.Message)
		assert.Equal(t, 10, body.Credits)
		assert.True(t, body.RefreshedAt.Equal(fixedNow))
	})

	t.Run("too early", func(t *testing.T) {
		credits, h := newCreditRouter(t)
		router := newTestRouter(true)
		router.POST("/api/users/credits/refresh", h.RefreshCredits)
		last := fixedNow.Add(-5 * time.Hour)
		credits.On("ManualRefresh", mock.Anything, testUserID).
			Return(nil, errs.NewRefreshNotAvailableError(testUserID, last, fixedNow, 24*time.Hour)).Once()

		w := doJSON(router, http.MethodPost, "/api/users/credits/refresh", nil)

		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		body := decodeError(w)
		require.NotNil(t, body.HoursUntilRefresh)
		assert.Equal(t, 19, *body.HoursUntilRefresh)
	})
}

func TestCreditHandler_History(t *testing.T) {
	t.Run("lists the ledger", func(t *testing.T) {
		credits, h := newCreditRouter(t)
		router := newTestRouter(true)
		router.GET("/api/users/credits/history", h.History)
		credits.On("History", mock.Anything, testUserID, 5).Return([]*entity.CreditTransaction{
			{ID: "t2", Type: entity.CreditDeduction, Amount: -3, BalanceAfter: 7, CreatedAt: fixedNow},
			{ID: "t1", Type: entity.CreditRefresh, Amount: 10, BalanceAfter: 10, CreatedAt: fixedNow.Add(-time.Hour)},
		}, nil).Once()

		w := doJSON(router, http.MethodGet, "/api/users/credits/history?limit=5", nil)

		require.Equal(t, http.StatusOK, w.Code)
		var body dto.HistoryResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, 2, body.Total)
		assert.Equal(t, "t2", body.Transactions[0].ID)
	})

	t.Run("rejects a non numeric limit", func(t *testing.T) {
		_, h := newCreditRouter(t)
		router := newTestRouter(true)
		router.GET("/api/users/credits/history", h.History)

		w := doJSON(router, http.MethodGet, "/api/users/credits/history?limit=ten", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "limit", decodeError(w).Details[0].Field)
	})
}

func TestCreditHandler_Deduct(t *testing.T) {
	t.Run("deducts", func(t *testing.T) {
		credits, h := newCreditRouter(t)
		router := newTestRouter(true)
		router.POST("/api/users/credits/deduct", h.Deduct)
		credits.On("Deduct", mock.Anything, testUserID, 3, "Question generation").
			Return(&entity.CreditTransaction{Amount: -3, BalanceAfter: 7, Description: "Question generation"}, nil).Once()

		w := doJSON(router, http.MethodPost, "/api/users/credits/deduct", map[string]any{
			"amount": 3, "description": "Question generation",
		})

		require.Equal(t, http.StatusOK, w.Code)
		var body dto.DeductResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, 3, body.CreditsDeducted)
		assert.Equal(t, 7, body.RemainingCredits)
	})

	t.Run("insufficient credits", func(t *testing.T) {
		credits, h := newCreditRouter(t)
		router := newTestRouter(true)
		router.POST("/api/users/credits/deduct", h.Deduct)
		credits.On("Deduct", mock.Anything, testUserID, 5, "").
			Return(nil, errs.NewInsufficientCreditsError(testUserID, 5, 2)).Once()

		w := doJSON(router, http.MethodPost, "/api/users/credits/deduct", map[string]any{"amount": 5})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeError(w)
		assert.Equal(t, "Insufficient credits", body.Error)
		require.NotNil(t, body.CurrentCredits)
		assert.Equal(t, 2, *body.CurrentCredits)
	})

	t.Run("amount out of range", func(t *testing.T) {
		credits, h := newCreditRouter(t)
		router := newTestRouter(true)
		router.POST("/api/users/credits/deduct", h.Deduct)

		w := doJSON(router, http.MethodPost, "/api/users/credits/deduct", map[string]any{"amount": 11})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "must be at most 10", decodeError(w).Details[0].Message)
		credits.AssertNotCalled(t, "Deduct", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestCreditHandler_UpdateTimezone(t *testing.T) {
	credits, h := newCreditRouter(t)
	router := newTestRouter(true)
	router.PUT("/api/users/timezone", h.UpdateTimezone)
	credits.On("UpdateTimezone", mock.Anything, testUserID, "Europe/Berlin").
		Return(&entity.User{ID: testUserID, Timezone: "Europe/Berlin"}, nil).Once()

	w := doJSON(router, http.MethodPut, "/api/users/timezone", map[string]string{"timezone": "Europe/Berlin"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"timezone":"Europe/Berlin"`)
}
