package webhook

import (
	"time"

	"github.com/iqube-labs/iqube-api/internal/domain/entity"
)

const (
	operationGenerate   = "generate"
	operationRegenerate = "regenerate_question"

	regenerationTypeIndividual = "individual"
)

type generateFormData struct {
	TopicName      string `json:"topicName"`
	Context        string `json:"context"`
	EasyCount      int    `json:"easyCount"`
	MediumCount    int    `json:"mediumCount"`
	HardCount      int    `json:"hardCount"`
	TotalQuestions int    `json:"totalQuestions"`
}

type payloadMetadata struct {
	Source           string `json:"source"`
	UserAgent        string `json:"userAgent"`
	RegenerationType string `json:"regenerationType,omitempty"`
}

type generatePayload struct {
	WebhookID string           `json:"webhookId"`
	Timestamp string           `json:"timestamp"`
	FormData  generateFormData `json:"formData"`
	Metadata  payloadMetadata  `json:"metadata"`
}

type regenerateFormData struct {
	Context             string                   `json:"context"`
	TopicName           string                   `json:"topicName"`
	Difficulty          entity.Difficulty        `json:"difficulty"`
	TotalQuestions      int                      `json:"totalQuestions"`
	EasyCount           int                      `json:"easyCount"`
	MediumCount         int                      `json:"mediumCount"`
	HardCount           int                      `json:"hardCount"`
	OriginalQuestion    map[string]string        `json:"originalQuestion"`
	OriginalQuestionMCQ entity.GeneratedQuestion `json:"originalQuestionMCQ"`
}

type regeneratePayload struct {
	ServiceID  string             `json:"serviceId"`
	Timestamp  string             `json:"timestamp"`
	Operation  string             `json:"operation"`
	QuestionID string             `json:"questionId"`
	FormData   regenerateFormData `json:"formData"`
	Metadata   payloadMetadata    `json:"metadata"`
}

func timestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

func (c *Client) buildGeneratePayload(req entity.GenerationRequest) generatePayload {
	return generatePayload{
		WebhookID: c.config.WebhookID,
		Timestamp: timestamp(req.RequestedAt),
		FormData: generateFormData{
			TopicName:      req.TopicName,
			Context:        req.Context,
			EasyCount:      req.EasyCount,
			MediumCount:    req.MediumCount,
			HardCount:      req.HardCount,
			TotalQuestions: req.Total(),
		},
		Metadata: payloadMetadata{
			Source:    c.config.Source,
			UserAgent: c.config.UserAgent,
		},
	}
}

func (c *Client) buildRegeneratePayload(req entity.RegenerationRequest) regeneratePayload {
	difficulty := entity.NormalizeDifficulty(string(req.Original.Difficulty))
	easy, medium, hard := entity.CountsFor(difficulty)

	return regeneratePayload{
		ServiceID:  c.config.ServiceID,
		Timestamp:  timestamp(req.RequestedAt),
		Operation:  operationRegenerate,
		QuestionID: req.QuestionID,
		FormData: regenerateFormData{
			Context:             req.Context,
			TopicName:           req.TopicName,
			Difficulty:          difficulty,
			TotalQuestions:      1,
			EasyCount:           easy,
			MediumCount:         medium,
			HardCount:           hard,
			OriginalQuestion:    ToWebhookFormat(req.Original),
			OriginalQuestionMCQ: req.Original,
		},
		Metadata: payloadMetadata{
			Source:           c.config.Source,
			UserAgent:        c.config.UserAgent,
			RegenerationType: regenerationTypeIndividual,
		},
	}
}
