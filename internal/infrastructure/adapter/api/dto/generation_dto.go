package dto

import "github.com/iqube-labs/iqube-api/internal/domain/entity"

// GenerateRequest is the body of POST /api/generations
type GenerateRequest struct {
	TopicName   string `json:"topicName" binding:"required,max=200"`
	Context     string `json:"context" binding:"max=5000"`
	EasyCount   int    `json:"easyCount" binding:"min=0,max=10"`
	MediumCount int    `json:"mediumCount" binding:"min=0,max=10"`
	HardCount   int    `json:"hardCount" binding:"min=0,max=10"`
}

// RegenerateRequest is the body of POST /api/generations/regenerate
type RegenerateRequest struct {
	TopicName string                   `json:"topicName" binding:"required,max=200"`
	Context   string                   `json:"context" binding:"max=5000"`
	Question  entity.GeneratedQuestion `json:"question"`
}

// GenerationResponse carries generated questions and the balance left
type GenerationResponse struct {
	Message          string                     `json:"message"`
	Questions        []entity.GeneratedQuestion `json:"questions"`
	Count            int                        `json:"count"`
	CreditsRemaining int                        `json:"creditsRemaining"`
}

// LegacyGenerateRequest is the body of the retired POST /api/questions/generate
type LegacyGenerateRequest struct {
	TopicName    string `json:"topicName" binding:"required"`
	Count        int    `json:"count" binding:"omitempty,min=1,max=10"`
	Difficulty   string `json:"difficulty" binding:"omitempty,difficulty"`
	QuestionType string `json:"questionType" binding:"omitempty,oneof=text mcq"`
}
