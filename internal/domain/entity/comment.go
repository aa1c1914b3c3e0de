package entity

import (
	"strings"
	"time"
	"unicode/utf8"

	errs "github.com/iqube-labs/iqube-api/internal/domain/error"
	coreport "github.com/iqube-labs/iqube-api/internal/domain/port/core"
)

// MaxCommentLength bounds a comment body in characters
const MaxCommentLength = 2000

// Comment is a note left by a user on a question
type Comment struct {
	ID          string
	QuestionID  string
	UserID      string
	CommentText string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Author fields are populated on reads
	AuthorFirstName string
	AuthorLastName  string
	AuthorEmail     string
}

// ValidateCommentText trims and bounds a comment body
func ValidateCommentText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" || utf8.RuneCountInString(text) > MaxCommentLength {
		return "", errs.ErrInvalidComment
	}
	return text, nil
}

// NewComment builds a comment owned by userID
func NewComment(questionID, userID, text string, timeProvider coreport.TimeProvider) (*Comment, error) {
	text, err := ValidateCommentText(text)
	if err != nil {
		return nil, err
	}

	now := timeProvider.Now()
	return &Comment{
		QuestionID:  questionID,
		UserID:      userID,
		CommentText: text,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// OwnedBy reports whether the comment belongs to both the question and the user
func (c *Comment) OwnedBy(questionID, userID string) bool {
	return c.QuestionID == questionID && c.UserID == userID
}
