// Package composio implements the delivery collaborator port against
// a Composio-style action execution API: one POST per action, with a
// `successful` boolean in the response envelope.
package composio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/attache-ai/attache/internal/delivery"
)

const (
	defaultBaseURL = "https://backend.composio.dev/api/v3"

	actionSendEmail   = "GMAIL_SEND_EMAIL"
	actionCreateEvent = "GOOGLECALENDAR_CREATE_EVENT"
)

// ClientOption configures the client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// Client executes delivery actions over HTTP.
type Client struct {
	apiKey     string
	userID     string
	baseURL    string
	httpClient *http.Client
}

var _ delivery.Collaborator = (*Client)(nil)

// NewClient creates a delivery client. userID identifies the connected
// account the actions run as.
func NewClient(apiKey, userID string, opts ...ClientOption) *Client {
	c := &Client{
		apiKey:     apiKey,
		userID:     userID,
		baseURL:    defaultBaseURL,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type executeRequest struct {
	UserID    string `json:"user_id"`
	Arguments any    `json:"arguments"`
}

type executeResponse struct {
	Successful bool            `json:"successful"`
	Error      string          `json:"error,omitempty"`
	Data       json.RawMessage `json:"data,omitempty"`
}

func (c *Client) SendEmail(ctx context.Context, params delivery.EmailParams) (delivery.Result, error) {
	return c.execute(ctx, actionSendEmail, params)
}

func (c *Client) CreateEvent(ctx context.Context, params delivery.EventParams) (delivery.Result, error) {
	return c.execute(ctx, actionCreateEvent, params)
}

func (c *Client) execute(ctx context.Context, action string, arguments any) (delivery.Result, error) {
	body, err := json.Marshal(executeRequest{UserID: c.userID, Arguments: arguments})
	if err != nil {
		return delivery.Result{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/actions/%s/execute", c.baseURL, action)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return delivery.Result{}, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return delivery.Result{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return delivery.Result{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return delivery.Result{
			Successful: false,
			Detail:     fmt.Sprintf("action %s returned status %d: %s", action, resp.StatusCode, string(respBody)),
		}, nil
	}

	var result executeResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return delivery.Result{}, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return delivery.Result{Successful: result.Successful, Detail: result.Error}, nil
}
