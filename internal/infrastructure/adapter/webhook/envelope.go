package webhook

import (
	"bytes"
	"encoding/json"
	"fmt"

	errs "github.com/iqube-labs/iqube-api/internal/domain/error"
)

// RawQuestion is one question item exactly as the generator emits it
type RawQuestion map[string]any

// Envelope is the generator reply: either a bare array of items or an
// object wrapping them under "questions"
type Envelope struct {
	Questions []RawQuestion
	Wrapped   bool
}

// ParseEnvelope decodes a reply body into its items
func ParseEnvelope(body []byte) (*Envelope, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty body", errs.ErrMalformedWebhookResponse)
	}

	switch trimmed[0] {
	case '[':
		var items []RawQuestion
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("%w: %v", errs.ErrMalformedWebhookResponse, err)
		}
		return &Envelope{Questions: items}, nil

	case '{':
		var wrapper struct {
			Questions *[]RawQuestion `json:"questions"`
		}
		if err := json.Unmarshal(trimmed, &wrapper); err != nil {
			return nil, fmt.Errorf("%w: %v", errs.ErrMalformedWebhookResponse, err)
		}
		if wrapper.Questions == nil {
			return nil, fmt.Errorf("%w: object without questions", errs.ErrMalformedWebhookResponse)
		}
		return &Envelope{Questions: *wrapper.Questions, Wrapped: true}, nil
	}

	return nil, fmt.Errorf("%w: unexpected %q", errs.ErrMalformedWebhookResponse, trimmed[0])
}
