// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the Gemini client.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeAuth
	ErrTypeConnection
	ErrTypeTimeout
	ErrTypeRateLimited
	ErrTypeService
	ErrTypeInvalidResponse
)

// Sentinel errors for easy checking.
var (
	ErrMissingAPIKey = &ClientError{Type: ErrTypeAuth, Message: "API key is not configured"}
	ErrTimeout       = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
	ErrRateLimited   = &ClientError{Type: ErrTypeRateLimited, Message: "rate limit exceeded"}
	ErrEmptyReply    = &ClientError{Type: ErrTypeInvalidResponse, Message: "model returned no candidates"}
)

// IsAuth checks if an error is an authentication or API key error.
func IsAuth(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeAuth
	}
	return false
}

// IsConnection checks if an error indicates the API was unreachable.
func IsConnection(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeConnection
	}
	return false
}

// IsTimeout checks if an error is a timeout error.
func IsTimeout(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeTimeout
	}
	return errors.Is(err, ErrTimeout)
}

// IsRateLimited checks if an error is a rate limit error.
func IsRateLimited(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeRateLimited
	}
	return errors.Is(err, ErrRateLimited)
}

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the Gemini client.
type ClientConfig struct {
	// BaseURL is the API base URL (default: the hosted Gemini endpoint).
	// Overridable for tests and proxies.
	BaseURL string

	// APIKey authenticates requests. Required.
	APIKey string

	// Model to use if none specified (default: "gemini-2.5-flash")
	Model string

	// Timeout per HTTP attempt (default: 60s)
	Timeout time.Duration

	// MaxRetries for transient failures (default: 3)
	MaxRetries int

	// RetryDelay between retries (default: 1s)
	RetryDelay time.Duration
}

// DefaultConfig returns the default client configuration.
// The API key must still be filled in by the caller.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:    "https://generativelanguage.googleapis.com",
		Model:      "gemini-2.5-flash",
		Timeout:    60 * time.Second,
		MaxRetries: 3,
		RetryDelay: 1 * time.Second,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client handles communication with the generateContent API.
//
// The Client is thread-safe for concurrent use.
//
// Example:
//
//	client, err := genai.NewClient(&genai.ClientConfig{APIKey: key})
//	if err != nil {
//	    return err
//	}
//	resp, err := client.Generate(ctx, "", req)
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
}

// NewClient creates a new Gemini client.
// Returns ErrMissingAPIKey if config has no API key.
func NewClient(config *ClientConfig) (*Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	if config.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	// Fill in defaults for any zero values
	if config.BaseURL == "" {
		config.BaseURL = "https://generativelanguage.googleapis.com"
	}
	if config.Model == "" {
		config.Model = "gemini-2.5-flash"
	}
	if config.Timeout == 0 {
		config.Timeout = 60 * time.Second
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = 3
	}
	if config.RetryDelay == 0 {
		config.RetryDelay = 1 * time.Second
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}, nil
}

// =============================================================================
// GENERATION
// =============================================================================

// Generate sends a generateContent request and returns the complete
// response. Transient failures (429 and 5xx) are retried up to
// MaxRetries times with a fixed delay.
func (c *Client) Generate(ctx context.Context, model string, reqBody *GenerateRequest) (*GenerateResponse, error) {
	if model == "" {
		model = c.config.Model
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
	}

	url := c.config.BaseURL + "/v1beta/models/" + model + ":generateContent"

	var lastErr error
	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(c.config.RetryDelay):
			case <-ctx.Done():
				if errors.Is(ctx.Err(), context.DeadlineExceeded) {
					return nil, ErrTimeout
				}
				// Deliberate cancellation is not a timeout.
				return nil, ctx.Err()
			}
		}

		resp, retryable, err := c.doGenerate(ctx, url, body)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}
	}

	return nil, lastErr
}

// doGenerate performs a single HTTP attempt. The second return value
// reports whether the failure is transient and worth retrying.
func (c *Client) doGenerate(ctx context.Context, url string, body []byte) (*GenerateResponse, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, false, &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, false, ErrTimeout
		}
		if errors.Is(err, context.Canceled) {
			return nil, false, ctx.Err()
		}
		return nil, true, &ClientError{Type: ErrTypeConnection, Message: "failed to reach API", Cause: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to decode below

	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, false, &ClientError{
			Type:    ErrTypeAuth,
			Message: "API key rejected: " + apiMessage(resp),
		}

	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, true, ErrRateLimited

	case resp.StatusCode >= 500:
		return nil, true, &ClientError{
			Type:    ErrTypeService,
			Message: "service error: " + apiMessage(resp),
		}

	default:
		return nil, false, &ClientError{
			Type:    ErrTypeInvalidResponse,
			Message: "request failed: " + apiMessage(resp),
		}
	}

	var result GenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, false, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}
	if len(result.Candidates) == 0 {
		return nil, false, ErrEmptyReply
	}

	return &result, false, nil
}

// apiMessage extracts the error message from an API error body,
// falling back to the HTTP status line.
func apiMessage(resp *http.Response) string {
	var apiErr apiError
	if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error.Message != "" {
		return apiErr.Error.Message
	}
	return resp.Status
}

// =============================================================================
// UTILITY METHODS
// =============================================================================

// GetConfig returns the client configuration.
func (c *Client) GetConfig() *ClientConfig {
	return c.config
}

// DefaultModel returns the model used when a request names none.
func (c *Client) DefaultModel() string {
	return c.config.Model
}
