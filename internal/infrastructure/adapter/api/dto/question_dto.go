package dto

import (
	"time"

	"github.com/iqube-labs/iqube-api/internal/domain/entity"
)

// SaveQuestionRequest is the body of POST /api/questions/save
type SaveQuestionRequest struct {
	QuestionText  string   `json:"questionText" binding:"required"`
	TopicName     string   `json:"topicName" binding:"required"`
	Options       []string `json:"options"`
	CorrectAnswer *int     `json:"correctAnswer" binding:"omitempty,min=0"`
	Explanation   *string  `json:"explanation"`
	Difficulty    string   `json:"difficulty" binding:"omitempty,difficulty"`
	QuestionType  string   `json:"questionType" binding:"omitempty,oneof=text mcq"`
}

// SaveQuestionResponse identifies a saved question
type SaveQuestionResponse struct {
	Message    string    `json:"message"`
	QuestionID string    `json:"questionId"`
	CreatedAt  time.Time `json:"createdAt"`
}

// SavedQuestionResponse is one question of a user's bank
type SavedQuestionResponse struct {
	ID            string    `json:"id"`
	QuestionText  string    `json:"questionText"`
	Options       []string  `json:"options"`
	CorrectAnswer *int      `json:"correctAnswer"`
	Explanation   *string   `json:"explanation"`
	Difficulty    string    `json:"difficulty"`
	QuestionType  string    `json:"questionType"`
	TopicName     string    `json:"topicName"`
	CreatedAt     time.Time `json:"createdAt"`
	SavedAt       time.Time `json:"savedAt"`
}

// NewSavedQuestionResponse converts a saved question
func NewSavedQuestionResponse(q *entity.SavedQuestion) SavedQuestionResponse {
	return SavedQuestionResponse{
		ID:            q.ID,
		QuestionText:  q.QuestionText,
		Options:       q.Options,
		CorrectAnswer: q.CorrectAnswer,
		Explanation:   q.Explanation,
		Difficulty:    string(q.Difficulty),
		QuestionType:  string(q.Type),
		TopicName:     q.TopicName,
		CreatedAt:     q.CreatedAt,
		SavedAt:       q.SavedAt,
	}
}

// SavedQuestionsResponse is one page of a user's bank
type SavedQuestionsResponse struct {
	Questions  []SavedQuestionResponse `json:"questions"`
	Pagination entity.Pagination       `json:"pagination"`
}

// TopicResponse is one topic
type TopicResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// TopicsResponse lists topics
type TopicsResponse struct {
	Topics []TopicResponse `json:"topics"`
}

// CommentRequest is the body of comment create and update
type CommentRequest struct {
	CommentText string `json:"commentText" binding:"required,max=2000"`
}

// CommentAuthor identifies who wrote a comment
type CommentAuthor struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email,omitempty"`
}

// CommentResponse is one comment
type CommentResponse struct {
	ID          string        `json:"id"`
	QuestionID  string        `json:"questionId"`
	CommentText string        `json:"commentText"`
	Author      CommentAuthor `json:"author"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// NewCommentResponse converts a comment
func NewCommentResponse(c *entity.Comment) CommentResponse {
	return CommentResponse{
		ID:          c.ID,
		QuestionID:  c.QuestionID,
		CommentText: c.CommentText,
		Author: CommentAuthor{
			ID:        c.UserID,
			FirstName: c.AuthorFirstName,
			LastName:  c.AuthorLastName,
			Email:     c.AuthorEmail,
		},
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// CommentEnvelope wraps a single comment with a message
type CommentEnvelope struct {
	Message string          `json:"message"`
	Comment CommentResponse `json:"comment"`
}

// CommentsResponse lists a question's comments
type CommentsResponse struct {
	Comments []CommentResponse `json:"comments"`
	Total    int               `json:"total"`
}
