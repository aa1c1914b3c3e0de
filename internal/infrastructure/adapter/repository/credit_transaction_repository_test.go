package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iqube-labs/iqube-api/internal/domain/entity"
	"github.com/iqube-labs/iqube-api/internal/infrastructure/adapter/logger"
	"github.com/iqube-labs/iqube-api/internal/infrastructure/adapter/repository"
)

func TestCreditTransactionRepository(t *testing.T) {
	// Arrange
	ctx := context.Background()
	tdb := setupTestDB(t)
	repo := repository.NewCreditTransactionRepository(tdb.DB(), logger.NewNoopLogger())
	user := tdb.CreateTestUser(t, "ledger@example.com", 10, epoch)

	rows := []struct {
		txType  entity.CreditTransactionType
		amount  int
		balance int
	}{
		{entity.CreditDeduction, -3, 7},
		{entity.CreditDeduction, -7, 0},
		{entity.CreditRefresh, 10, 10},
	}
	for _, r := range rows {
		tx, err := entity.NewCreditTransaction(user.ID, r.txType, r.amount, r.balance, string(r.txType), tdb.Clock)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, tx))
		assert.NotEmpty(t, tx.ID)
		tdb.Clock.Advance(time.Minute)
	}

	t.Run("newest first", func(t *testing.T) {
		history, err := repo.ListByUser(ctx, user.ID, 50)

		require.NoError(t, err)
		require.Len(t, history, 3)
		assert.Equal(t, entity.CreditRefresh, history[0].Type)
		assert.Equal(t, 10, history[0].Amount)
		assert.Equal(t, -3, history[2].Amount)
		assert.Equal(t, 7, history[2].BalanceAfter)
	})

	t.Run("limit", func(t *testing.T) {
		history, err := repo.ListByUser(ctx, user.ID, 2)

		require.NoError(t, err)
		assert.Len(t, history, 2)
	})

	t.Run("unknown user has an empty ledger", func(t *testing.T) {
		history, err := repo.ListByUser(ctx, "nobody", 50)

		require.NoError(t, err)
		assert.Empty(t, history)
	})
}
