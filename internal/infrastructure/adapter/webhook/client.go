package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/iqube-labs/iqube-api/internal/domain/entity"
	errs "github.com/iqube-labs/iqube-api/internal/domain/error"
	coreport "github.com/iqube-labs/iqube-api/internal/domain/port/core"
	"github.com/iqube-labs/iqube-api/internal/domain/port/gateway"
	"github.com/iqube-labs/iqube-api/internal/infrastructure/adapter/metrics"
	"github.com/iqube-labs/iqube-api/internal/infrastructure/config"
)

const (
	DefaultSource    = "iQube Question Generator"
	DefaultUserAgent = "iqube-api/1.0"

	maxResponseBytes = 4 << 20
	maxErrorSnippet  = 256
)

// Config points the client at the generator endpoints
type Config struct {
	URL           string
	RegenerateURL string
	WebhookID     string
	ServiceID     string
	Source        string
	UserAgent     string
	Timeout       time.Duration // zero keeps the transport default
}

// FromAppConfig maps the webhook section of the application config
func FromAppConfig(conf *config.Config) Config {
	return Config{
		URL:           conf.Webhook.URL,
		RegenerateURL: conf.Webhook.RegenerateURL,
		WebhookID:     conf.Webhook.WebhookID,
		ServiceID:     conf.Webhook.ServiceID,
		Source:        conf.Webhook.Source,
		Timeout:       conf.Webhook.Timeout,
	}
}

// Client calls the external question generator over HTTP
type Client struct {
	config       Config
	httpClient   *http.Client
	logger       coreport.Logger
	timeProvider coreport.TimeProvider
}

var _ gateway.QuestionGenerator = (*Client)(nil)

// NewClient creates a generator client. Regenerations go to URL when no RegenerateURL is set.
func NewClient(cfg Config, logger coreport.Logger, timeProvider coreport.TimeProvider) *Client {
	if cfg.Source == "" {
		cfg.Source = DefaultSource
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.RegenerateURL == "" {
		cfg.RegenerateURL = cfg.URL
	}

	return &Client{
		config:       cfg,
		httpClient:   &http.Client{Timeout: cfg.Timeout},
		logger:       logger,
		timeProvider: timeProvider,
	}
}

// Generate sends one batch request. It never retries.
func (c *Client) Generate(ctx context.Context, req entity.GenerationRequest) ([]entity.GeneratedQuestion, error) {
	if req.RequestedAt.IsZero() {
		req.RequestedAt = c.timeProvider.Now()
	}

	c.logger.Info("Requesting question generation", map[string]any{
		"correlation_id": req.CorrelationID,
		"topic":          req.TopicName,
		"easy":           req.EasyCount,
		"medium":         req.MediumCount,
		"hard":           req.HardCount,
	})

	envelope, err := c.post(ctx, operationGenerate, c.config.URL, req.CorrelationID, c.buildGeneratePayload(req))
	if err != nil {
		return nil, err
	}

	questions := Normalize(envelope.Questions, c.timeProvider.Now())
	for _, q := range questions {
		metrics.QuestionsGeneratedTotal.WithLabelValues(string(q.Difficulty)).Inc()
	}

	c.logger.Info("Question generation completed", map[string]any{
		"correlation_id": req.CorrelationID,
		"requested":      req.Total(),
		"received":       len(questions),
	})
	return questions, nil
}

// Regenerate asks for a single replacement of req.Original
func (c *Client) Regenerate(ctx context.Context, req entity.RegenerationRequest) (*entity.GeneratedQuestion, error) {
	if req.RequestedAt.IsZero() {
		req.RequestedAt = c.timeProvider.Now()
	}

	c.logger.Info("Requesting question regeneration", map[string]any{
		"correlation_id": req.CorrelationID,
		"question_id":    req.QuestionID,
	})

	envelope, err := c.post(ctx, operationRegenerate, c.config.RegenerateURL, req.CorrelationID, c.buildRegeneratePayload(req))
	if err != nil {
		return nil, err
	}
	if len(envelope.Questions) == 0 {
		return nil, fmt.Errorf("%w: no question in regeneration reply", errs.ErrMalformedWebhookResponse)
	}

	q := NormalizeItem(envelope.Questions[0], c.timeProvider.Now(), 0)
	metrics.QuestionsGeneratedTotal.WithLabelValues(string(q.Difficulty)).Inc()
	return &q, nil
}

func (c *Client) post(ctx context.Context, operation, url, correlationID string, payload any) (envelope *Envelope, err error) {
	start := time.Now()
	defer func() {
		metrics.ObserveWebhook(operation, time.Since(start), err)
	}()

	if url == "" {
		return nil, errs.NewWebhookError(operation, 0, errors.New("webhook url is not configured"))
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errs.NewWebhookError(operation, 0, fmt.Errorf("encoding payload: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, errs.NewWebhookError(operation, 0, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.config.UserAgent)
	if correlationID != "" {
		httpReq.Header.Set("X-Correlation-ID", correlationID)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Error("Webhook request failed", map[string]any{
			"operation":      operation,
			"correlation_id": correlationID,
			"error":          err,
		})
		return nil, errs.NewWebhookError(operation, 0, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, errs.NewWebhookError(operation, resp.StatusCode, fmt.Errorf("reading reply: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		webhookErr := errs.NewWebhookError(operation, resp.StatusCode, errors.New(snippet(respBody)))
		c.logger.Error("Webhook returned an error status", map[string]any{
			"operation":      operation,
			"correlation_id": correlationID,
			"status":         resp.StatusCode,
		})
		return nil, webhookErr
	}

	envelope, err = ParseEnvelope(respBody)
	if err != nil {
		c.logger.Warn("Webhook reply could not be parsed", map[string]any{
			"operation":      operation,
			"correlation_id": correlationID,
			"error":          err,
		})
		return nil, err
	}
	return envelope, nil
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if s == "" {
		return "empty reply"
	}
	if len(s) > maxErrorSnippet {
		return s[:maxErrorSnippet] + "..."
	}
	return s
}
