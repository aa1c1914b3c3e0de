// Package apiclient talks to the iQube REST API on behalf of the terminal client.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	errs "github.com/iqube-labs/iqube-api/internal/domain/error"
	"github.com/iqube-labs/iqube-api/internal/infrastructure/adapter/api/dto"
)

const maxResponseBytes = 4 << 20

// APIError is a non-2xx reply decoded from the error body
type APIError struct {
	StatusCode int
	Body       dto.ErrorResponse
}

func (e *APIError) Error() string {
	if e.Body.Message != "" {
		return fmt.Sprintf("%d %s: %s", e.StatusCode, e.Body.Error, e.Body.Message)
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// Is matches domain errors by their numeric code, so callers can test
// errors.Is(err, errs.ErrInsufficientCredits) on a remote failure.
func (e *APIError) Is(target error) bool {
	code := errs.ErrorCode(target)
	return code != errs.CodeInternalServer && code == e.Body.ErrorCode
}

// Client is a small JSON client for the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// New creates a client for baseURL. A zero timeout keeps the transport default.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// SetToken authenticates further requests
func (c *Client) SetToken(token string) {
	c.token = token
}

// Token returns the bearer token in use
func (c *Client) Token() string {
	return c.token
}

// Login signs in and keeps the returned token
func (c *Client) Login(ctx context.Context, email, password string) (*dto.AuthResponse, error) {
	var resp dto.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", dto.LoginRequest{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	c.token = resp.Token
	return &resp, nil
}

// Register creates an account and keeps the returned token
func (c *Client) Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error) {
	var resp dto.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", req, &resp); err != nil {
		return nil, err
	}
	c.token = resp.Token
	return &resp, nil
}

// Credits reads the caller's balance
func (c *Client) Credits(ctx context.Context) (*dto.CreditsResponse, error) {
	var resp dto.CreditsResponse
	if err := c.do(ctx, http.MethodGet, "/api/users/credits", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RefreshCredits asks for a manual refresh
func (c *Client) RefreshCredits(ctx context.Context) (*dto.RefreshResponse, error) {
	var resp dto.RefreshResponse
	if err := c.do(ctx, http.MethodPost, "/api/users/credits/refresh", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// History lists the newest ledger rows
func (c *Client) History(ctx context.Context, limit int) (*dto.HistoryResponse, error) {
	path := "/api/users/credits/history"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var resp dto.HistoryResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Generate runs server-side generation
func (c *Client) Generate(ctx context.Context, req dto.GenerateRequest) (*dto.GenerationResponse, error) {
	var resp dto.GenerationResponse
	if err := c.do(ctx, http.MethodPost, "/api/generations", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Regenerate replaces one question server-side
func (c *Client) Regenerate(ctx context.Context, req dto.RegenerateRequest) (*dto.GenerationResponse, error) {
	var resp dto.GenerationResponse
	if err := c.do(ctx, http.MethodPost, "/api/generations/regenerate", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SaveQuestion stores a question in the caller's bank
func (c *Client) SaveQuestion(ctx context.Context, req dto.SaveQuestionRequest) (*dto.SaveQuestionResponse, error) {
	var resp dto.SaveQuestionResponse
	if err := c.do(ctx, http.MethodPost, "/api/questions/save", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListSaved reads one page of the caller's bank
func (c *Client) ListSaved(ctx context.Context, page, limit int) (*dto.SavedQuestionsResponse, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var resp dto.SavedQuestionsResponse
	if err := c.do(ctx, http.MethodGet, "/api/questions/saved?"+q.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Topics lists every topic
func (c *Client) Topics(ctx context.Context) (*dto.TopicsResponse, error) {
	var resp dto.TopicsResponse
	if err := c.do(ctx, http.MethodGet, "/api/questions/topics", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("reading reply: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		_ = json.Unmarshal(data, &apiErr.Body)
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding reply: %w", err)
	}
	return nil
}
