package apiclient

import (
	"context"
	"fmt"

	"github.com/iqube-labs/iqube-api/internal/domain/entity"
	errs "github.com/iqube-labs/iqube-api/internal/domain/error"
	"github.com/iqube-labs/iqube-api/internal/domain/port/gateway"
	"github.com/iqube-labs/iqube-api/internal/infrastructure/adapter/api/dto"
)

// ServerGenerator generates through the API so credits are charged server-side.
// OnBalance, when set, receives the balance reported after every call.
type ServerGenerator struct {
	client    *Client
	OnBalance func(credits int)
}

var _ gateway.QuestionGenerator = (*ServerGenerator)(nil)

// NewServerGenerator wraps an authenticated client
func NewServerGenerator(client *Client, onBalance func(int)) *ServerGenerator {
	return &ServerGenerator{client: client, OnBalance: onBalance}
}

func (g *ServerGenerator) Generate(ctx context.Context, req entity.GenerationRequest) ([]entity.GeneratedQuestion, error) {
	resp, err := g.client.Generate(ctx, dto.GenerateRequest{
		TopicName:   req.TopicName,
		Context:     req.Context,
		EasyCount:   req.EasyCount,
		MediumCount: req.MediumCount,
		HardCount:   req.HardCount,
	})
	if err != nil {
		return nil, err
	}
	g.report(resp.CreditsRemaining)
	return resp.Questions, nil
}

func (g *ServerGenerator) Regenerate(ctx context.Context, req entity.RegenerationRequest) (*entity.GeneratedQuestion, error) {
	resp, err := g.client.Regenerate(ctx, dto.RegenerateRequest{
		TopicName: req.TopicName,
		Context:   req.Context,
		Question:  req.Original,
	})
	if err != nil {
		return nil, err
	}
	g.report(resp.CreditsRemaining)
	if len(resp.Questions) == 0 {
		return nil, fmt.Errorf("%w: no question in regeneration reply", errs.ErrMalformedWebhookResponse)
	}
	q := resp.Questions[0]
	return &q, nil
}

func (g *ServerGenerator) report(credits int) {
	if g.OnBalance != nil {
		g.OnBalance(credits)
	}
}
