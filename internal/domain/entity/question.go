package entity

import (
	"strings"
	"time"

	errs "github.com/iqube-labs/iqube-api/internal/domain/error"
	coreport "github.com/iqube-labs/iqube-api/internal/domain/port/core"
)

// QuestionType distinguishes free-text questions from multiple choice
type QuestionType string

const (
	QuestionTypeText QuestionType = "text"
	QuestionTypeMCQ  QuestionType = "mcq"
)

// ParseQuestionType folds case; ok is false for unknown values
func ParseQuestionType(s string) (QuestionType, bool) {
	t := QuestionType(strings.ToLower(strings.TrimSpace(s)))
	switch t {
	case QuestionTypeText, QuestionTypeMCQ:
		return t, true
	default:
		return t, false
	}
}

// Topic groups questions by subject
type Topic struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
}

// UserCreatedTopicDescription is stored on topics created lazily while saving
const UserCreatedTopicDescription = "User-created topic"

// Question is a persisted quiz question
type Question struct {
	ID            string
	TopicID       string
	QuestionText  string
	Options       []string
	CorrectAnswer *int // 0-based index into Options
	Explanation   *string
	Difficulty    Difficulty
	Type          QuestionType
	CreatedAt     time.Time
}

// NewQuestion validates and builds a question bound to a topic
func NewQuestion(
	topicID string,
	text string,
	options []string,
	correctAnswer *int,
	explanation *string,
	difficulty Difficulty,
	questionType QuestionType,
	timeProvider coreport.TimeProvider,
) (*Question, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errs.ErrInvalidQuestion
	}
	if difficulty == "" {
		difficulty = DifficultyMedium
	}
	if !difficulty.IsValid() {
		return nil, errs.ErrInvalidDifficulty
	}
	if questionType == "" {
		questionType = QuestionTypeText
	}
	if correctAnswer != nil && (*correctAnswer < 0 || (len(options) > 0 && *correctAnswer >= len(options))) {
		return nil, errs.ErrInvalidCorrectAnswer
	}

	return &Question{
		TopicID:       topicID,
		QuestionText:  text,
		Options:       options,
		CorrectAnswer: correctAnswer,
		Explanation:   explanation,
		Difficulty:    difficulty,
		Type:          questionType,
		CreatedAt:     timeProvider.Now(),
	}, nil
}

// SavedQuestion is a question in a user's bank, joined with its topic
type SavedQuestion struct {
	Question
	TopicName string
	SavedAt   time.Time
}

// UserQuestion links a user to a saved question
type UserQuestion struct {
	ID         string
	UserID     string
	QuestionID string
	SavedAt    time.Time
}

// Pagination describes a page of results
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// NewPagination computes the page count for total items
func NewPagination(page, limit, total int) Pagination {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}

// QuestionStats aggregates a user's saved questions
type QuestionStats struct {
	TotalSaved    int
	TotalComments int
	ByDifficulty  map[Difficulty]int
	ByTopic       map[string]int
}
