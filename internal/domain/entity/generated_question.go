package entity

import (
	"fmt"
	"time"

	errs "github.com/iqube-labs/iqube-api/internal/domain/error"
)

// MaxQuestionsPerRequest caps a single generation batch
const MaxQuestionsPerRequest = 10

// QuestionMetadata carries the descriptive fields the generator attaches to a question
type QuestionMetadata struct {
	SubTopics    string `json:"subTopics,omitempty"`
	Author       string `json:"author,omitempty"`
	Topic        string `json:"topic,omitempty"`
	Score        string `json:"score,omitempty"`
	QuestionType string `json:"questionType,omitempty"`
}

// GeneratedQuestion is the canonical record produced from a webhook item
type GeneratedQuestion struct {
	ID            string           `json:"id"`
	Question      string           `json:"question"`
	Options       []string         `json:"options"`
	CorrectAnswer int              `json:"correctAnswer"`
	Explanation   string           `json:"explanation"`
	Difficulty    Difficulty       `json:"difficulty"`
	Metadata      QuestionMetadata `json:"metadata"`
}

// GeneratedQuestionID builds the id assigned to the index-th question of a batch received at t
func GeneratedQuestionID(t time.Time, index int) string {
	return fmt.Sprintf("webhook-%d-%d", t.UnixMilli(), index)
}

// GenerationRequest is a batch request forwarded to the question generator
type GenerationRequest struct {
	CorrelationID string
	TopicName     string
	Context       string
	EasyCount     int
	MediumCount   int
	HardCount     int
	RequestedAt   time.Time
}

// Total is the number of questions requested
func (r GenerationRequest) Total() int {
	return r.EasyCount + r.MediumCount + r.HardCount
}

// Validate checks counts are non-negative and the total is within bounds
func (r GenerationRequest) Validate() error {
	if r.EasyCount < 0 || r.MediumCount < 0 || r.HardCount < 0 {
		return errs.ErrInvalidQuestionCount
	}
	total := r.Total()
	if total < 1 || total > MaxQuestionsPerRequest {
		return errs.ErrInvalidQuestionCount
	}
	return nil
}

// RegenerationRequest asks the generator to replace one question
type RegenerationRequest struct {
	CorrelationID string
	QuestionID    string
	TopicName     string
	Context       string
	Original      GeneratedQuestion
	RequestedAt   time.Time
}

// CountsFor returns easy/medium/hard counts of a single question of difficulty d
func CountsFor(d Difficulty) (easy, medium, hard int) {
	switch d {
	case DifficultyEasy:
		return 1, 0, 0
	case DifficultyHard:
		return 0, 0, 1
	default:
		return 0, 1, 0
	}
}
