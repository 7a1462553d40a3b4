package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"promptcheck/internal/application/dto"
)

const (
	// userAgent is the User-Agent header value sent with all API requests.
	userAgent = "promptcheck-client/1.0"

	// contentTypeJSON is the Content-Type header value for JSON requests.
	contentTypeJSON = "application/json"

	// API endpoint paths.
	pathHealth         = "/health"
	pathCheck          = "/check"
	pathSettingsSearch = "/settings/search"
)

// APIError is returned for non-2xx responses. Code and Message come from
// the server's error envelope when it sent one.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("API request failed: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("API request failed: %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Message)
}

// Client provides methods for interacting with the PromptCheck API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new API client with the given configuration.
// Returns an error if the configuration is nil or invalid.
func NewClient(config *Config) (*Client, error) {
	return NewClientWithHTTPClient(config, nil)
}

// NewClientWithHTTPClient creates a new API client with the given configuration and HTTP client.
// If httpClient is nil, a default HTTP client with the configured timeout will be used.
func NewClientWithHTTPClient(config *Config, httpClient *http.Client) (*Client, error) {
	if config == nil {
		return nil, errors.New("config cannot be nil")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}

	return &Client{
		baseURL:    strings.TrimRight(config.APIURL, "/"),
		httpClient: httpClient,
	}, nil
}

// doRequest performs an HTTP request with the given parameters and decodes the response.
// If body is non-nil, it will be JSON-encoded and sent with Content-Type: application/json.
// If result is non-nil, the response body will be JSON-decoded into it.
func (c *Client) doRequest(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", contentTypeJSON)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var envelope dto.ErrorResponse
		if json.NewDecoder(resp.Body).Decode(&envelope) == nil {
			apiErr.Code = envelope.Error
			apiErr.Message = envelope.Message
		}
		return apiErr
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// Health performs a health check against the API server.
func (c *Client) Health(ctx context.Context) (*dto.HealthResponse, error) {
	var result dto.HealthResponse
	if err := c.doRequest(ctx, http.MethodGet, pathHealth, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Check asks the server to scan a prompt for bracket imbalances.
func (c *Client) Check(ctx context.Context, req dto.CheckPromptRequest) (*dto.CheckPromptResponse, error) {
	var result dto.CheckPromptResponse
	if err := c.doRequest(ctx, http.MethodPost, pathCheck, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SearchSettings filters the server's settings catalog, or the sections
// carried by req.
func (c *Client) SearchSettings(
	ctx context.Context,
	req dto.SettingsSearchRequest,
) (*dto.SettingsSearchResponse, error) {
	var result dto.SettingsSearchResponse
	if err := c.doRequest(ctx, http.MethodPost, pathSettingsSearch, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
