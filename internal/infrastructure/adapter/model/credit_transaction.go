package model

import (
	"time"

	"gorm.io/gorm"
)

// CreditTransaction is an append-only ledger row
type CreditTransaction struct {
	ID           string    `gorm:"primaryKey;type:varchar(36)"`
	UserID       string    `gorm:"type:varchar(36);not null;index"`
	Type         string    `gorm:"size:30;not null"`
	Amount       int       `gorm:"not null"`
	BalanceAfter int       `gorm:"not null"`
	Description  string    `gorm:"size:255"`
	CreatedAt    time.Time `gorm:"not null;index"`

	User User `gorm:"foreignKey:UserID;references:ID"`
}

// TableName specifies the table name for CreditTransaction
func (CreditTransaction) TableName() string {
	return "credit_transactions"
}

// BeforeCreate assigns the primary key
func (t *CreditTransaction) BeforeCreate(*gorm.DB) error {
	ensureID(&t.ID)
	return nil
}
