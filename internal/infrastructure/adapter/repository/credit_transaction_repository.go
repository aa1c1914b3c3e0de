package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/iqube-labs/iqube-api/internal/domain/entity"
	errs "github.com/iqube-labs/iqube-api/internal/domain/error"
	coreport "github.com/iqube-labs/iqube-api/internal/domain/port/core"
	"github.com/iqube-labs/iqube-api/internal/infrastructure/adapter/model"
)

// CreditTransactionRepository is the append-only credit ledger. It exposes no update or delete.
type CreditTransactionRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewCreditTransactionRepository creates a new CreditTransactionRepository instance
func NewCreditTransactionRepository(db *gorm.DB, logger coreport.Logger) *CreditTransactionRepository {
	return &CreditTransactionRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

func creditTransactionToEntity(m *model.CreditTransaction) *entity.CreditTransaction {
	return &entity.CreditTransaction{
		ID:           m.ID,
		UserID:       m.UserID,
		Type:         entity.CreditTransactionType(m.Type),
		Amount:       m.Amount,
		BalanceAfter: m.BalanceAfter,
		Description:  m.Description,
		CreatedAt:    m.CreatedAt.UTC(),
	}
}

// Create appends a ledger row
func (r *CreditTransactionRepository) Create(ctx context.Context, tx *entity.CreditTransaction) error {
	m := model.CreditTransaction{
		ID:           tx.ID,
		UserID:       tx.UserID,
		Type:         string(tx.Type),
		Amount:       tx.Amount,
		BalanceAfter: tx.BalanceAfter,
		Description:  tx.Description,
		CreatedAt:    tx.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&m).Error; err != nil {
		return translateError(r.logger, r.errorClassifier, "recording credit transaction", err,
			map[string]any{"user_id": tx.UserID, "type": tx.Type}, errorMapping{})
	}
	tx.ID = m.ID

	r.logger.Debug("Credit transaction recorded", map[string]any{
		"user_id":       tx.UserID,
		"type":          tx.Type,
		"amount":        tx.Amount,
		"balance_after": tx.BalanceAfter,
	})
	return nil
}

// ListByUser returns the newest rows first
func (r *CreditTransactionRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*entity.CreditTransaction, error) {
	var models []model.CreditTransaction
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, translateError(r.logger, r.errorClassifier, "listing credit history", err,
			map[string]any{"user_id": userID}, errorMapping{notFound: errs.ErrUserNotFound})
	}

	txs := make([]*entity.CreditTransaction, 0, len(models))
	for i := range models {
		txs = append(txs, creditTransactionToEntity(&models[i]))
	}
	return txs, nil
}
