package model

import (
	"time"

	"gorm.io/gorm"
)

// QuestionComment is a note left by a user on a question
type QuestionComment struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)"`
	QuestionID  string    `gorm:"type:varchar(36);not null;index"`
	UserID      string    `gorm:"type:varchar(36);not null;index"`
	CommentText string    `gorm:"type:text;not null"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`

	Question Question `gorm:"foreignKey:QuestionID;references:ID"`
	User     User     `gorm:"foreignKey:UserID;references:ID"`
}

// TableName specifies the table name for QuestionComment
func (QuestionComment) TableName() string {
	return "question_comments"
}

// BeforeCreate assigns the primary key
func (c *QuestionComment) BeforeCreate(*gorm.DB) error {
	ensureID(&c.ID)
	return nil
}
