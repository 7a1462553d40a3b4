package client_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"promptcheck/internal/application/dto"
	"promptcheck/internal/client"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *client.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := client.NewClient(&client.Config{APIURL: server.URL + "/", Timeout: 5 * time.Second})
	require.NoError(t, err)
	return c
}

func TestNewClient_Config(t *testing.T) {
	t.Parallel()

	_, err := client.NewClient(nil)
	assert.Error(t, err)

	_, err = client.NewClient(&client.Config{APIURL: "localhost:8080", Timeout: time.Second})
	assert.ErrorContains(t, err, "scheme")

	_, err = client.NewClient(&client.Config{APIURL: "http://localhost", Timeout: 0})
	assert.ErrorContains(t, err, "timeout must be positive")

	c, err := client.NewClientWithHTTPClient(&client.Config{APIURL: "https://x", Timeout: time.Second}, http.DefaultClient)
	require.NoError(t, err)
	assert.NotNil(t, c)
}

func TestClient_Health(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/health", r.URL.Path)
		assert.Equal(t, "promptcheck-client/1.0", r.Header.Get("User-Agent"))
		_ = json.NewEncoder(w).Encode(dto.HealthResponse{Status: "healthy", Version: "1.2.3"})
	})

	health, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "1.2.3", health.Version)
}

func TestClient_Check(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/check", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req dto.CheckPromptRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "(a", req.Text)
		assert.Equal(t, "skip", req.EscapePolicy)

		_ = json.NewEncoder(w).Encode(dto.CheckPromptResponse{
			HasErrors: true,
			Messages:  []string{"( ... ) - Detected 1 more opening than closing round brackets."},
		})
	})

	resp, err := c.Check(context.Background(), dto.CheckPromptRequest{Text: "(a", EscapePolicy: "skip"})
	require.NoError(t, err)
	assert.True(t, resp.HasErrors)
	assert.Len(t, resp.Messages, 1)
}

func TestClient_SearchSettings(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/settings/search", r.URL.Path)
		_ = json.NewEncoder(w).Encode(dto.SettingsSearchResponse{Query: "vae", ShowAllSections: true})
	})

	resp, err := c.SearchSettings(context.Background(), dto.SettingsSearchRequest{Query: "VAE"})
	require.NoError(t, err)
	assert.True(t, resp.ShowAllSections)
}

func TestClient_APIError(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusRequestEntityTooLarge)
		_ = json.NewEncoder(w).Encode(dto.NewErrorResponse(dto.ErrorCodeTextTooLong, "prompt too long", nil))
	})

	_, err := c.Check(context.Background(), dto.CheckPromptRequest{Text: "x"})
	require.Error(t, err)

	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusRequestEntityTooLarge, apiErr.StatusCode)
	assert.Equal(t, "TEXT_TOO_LONG", apiErr.Code)
	assert.Contains(t, err.Error(), "prompt too long")
}

func TestClient_DecodeError(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	})

	_, err := c.Health(context.Background())
	assert.ErrorContains(t, err, "failed to decode response")
}

func TestLoadConfig(t *testing.T) {
	t.Setenv(client.EnvAPIURL, "https://checker.example")
	t.Setenv(client.EnvTimeout, "5s")

	cfg, err := client.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "https://checker.example", cfg.APIURL)
	assert.Equal(t, 5*time.Second, cfg.Timeout)

	t.Setenv(client.EnvTimeout, "-1s")
	_, err = client.LoadConfig()
	assert.Error(t, err)

	t.Setenv(client.EnvTimeout, "")
	_, err = client.LoadConfig()
	assert.Error(t, err)
}

func TestWriteEnvelope(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, client.WriteSuccess(&buf, map[string]string{"k": "v"}))

	var resp client.Response
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Nil(t, resp.Error)

	buf.Reset()
	require.NoError(t, client.WriteError(&buf, "CODE", "msg", nil))
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "CODE", resp.Error.Code)
}
