package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Topic groups questions by subject
type Topic struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)"`
	Name        string    `gorm:"uniqueIndex;not null;size:100"`
	Description string    `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"not null"`
}

// TableName specifies the table name for Topic
func (Topic) TableName() string {
	return "topics"
}

// BeforeCreate assigns the primary key
func (t *Topic) BeforeCreate(*gorm.DB) error {
	ensureID(&t.ID)
	return nil
}

// Question represents a persisted quiz question. Options is a JSON array of strings.
type Question struct {
	ID            string         `gorm:"primaryKey;type:varchar(36)"`
	TopicID       string         `gorm:"type:varchar(36);not null;index"`
	QuestionText  string         `gorm:"type:text;not null"`
	Options       datatypes.JSON `gorm:"column:options"`
	CorrectAnswer *int
	Explanation   *string   `gorm:"type:text"`
	Difficulty    string    `gorm:"size:10;not null;default:'medium'"`
	QuestionType  string    `gorm:"size:10;not null;default:'text'"`
	CreatedAt     time.Time `gorm:"not null"`

	Topic Topic `gorm:"foreignKey:TopicID;references:ID"`
}

// TableName specifies the table name for Question
func (Question) TableName() string {
	return "questions"
}

// BeforeCreate assigns the primary key
func (q *Question) BeforeCreate(*gorm.DB) error {
	ensureID(&q.ID)
	return nil
}

// UserQuestion links a user to a saved question; each pair is unique
type UserQuestion struct {
	ID         string    `gorm:"primaryKey;type:varchar(36)"`
	UserID     string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_user_questions_pair"`
	QuestionID string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_user_questions_pair"`
	SavedAt    time.Time `gorm:"not null;index"`

	User     User     `gorm:"foreignKey:UserID;references:ID"`
	Question Question `gorm:"foreignKey:QuestionID;references:ID"`
}

// TableName specifies the table name for UserQuestion
func (UserQuestion) TableName() string {
	return "user_questions"
}

// BeforeCreate assigns the primary key
func (uq *UserQuestion) BeforeCreate(*gorm.DB) error {
	ensureID(&uq.ID)
	return nil
}
