package model

import (
	"time"

	"gorm.io/gorm"
)

// User represents the database model for accounts
type User struct {
	ID                string    `gorm:"primaryKey;type:varchar(36)"`
	Email             string    `gorm:"uniqueIndex;not null;size:255"`
	PasswordHash      string    `gorm:"not null;size:255"`
	FirstName         string    `gorm:"size:100"`
	LastName          string    `gorm:"size:100"`
	DailyCredits      int       `gorm:"not null;default:10"`
	LastCreditRefresh time.Time `gorm:"not null;index"`
	Timezone          string    `gorm:"size:50;not null;default:'UTC'"`
	IsActive          bool      `gorm:"not null;default:true;index"`
	CreatedAt         time.Time `gorm:"not null"`
	UpdatedAt         time.Time `gorm:"not null"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns the primary key
func (u *User) BeforeCreate(*gorm.DB) error {
	ensureID(&u.ID)
	return nil
}
