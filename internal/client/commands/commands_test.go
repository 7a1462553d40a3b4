package commands_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"promptcheck/internal/application/dto"
	"promptcheck/internal/client"
	"promptcheck/internal/client/commands"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCmd(t *testing.T, stdin string, args ...string) client.Response {
	t.Helper()

	var stdout bytes.Buffer
	rootCmd := commands.NewRootCmd()
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stdout)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)

	require.NoError(t, rootCmd.Execute())

	var response client.Response
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &response), "output should be valid JSON: %s", stdout.String())
	return response
}

func TestNewRootCmd(t *testing.T) {
	t.Parallel()

	cmd := commands.NewRootCmd()
	assert.Equal(t, "promptcheck-client", cmd.Use)

	names := make([]string, 0)
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.Subset(t, names, []string{"health", "check", "settings"})
	assert.NotNil(t, cmd.PersistentFlags().Lookup("api-url"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("timeout"))
}

func TestHealthCmd_Success(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		_ = json.NewEncoder(w).Encode(dto.HealthResponse{Status: "healthy", Version: "1.0.0"})
	}))
	defer server.Close()

	response := runCmd(t, "", "health", "--api-url", server.URL)
	assert.True(t, response.Success)
	assert.Nil(t, response.Error)
	assert.NotZero(t, response.Timestamp)
}

func TestHealthCmd_Errors(t *testing.T) {
	t.Parallel()

	t.Run("invalid api url", func(t *testing.T) {
		response := runCmd(t, "", "health", "--api-url", "ftp://x")
		require.NotNil(t, response.Error)
		assert.Equal(t, "INVALID_CONFIG", response.Error.Code)
	})

	t.Run("server error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		response := runCmd(t, "", "health", "--api-url", server.URL)
		require.NotNil(t, response.Error)
		assert.Equal(t, "SERVER_ERROR", response.Error.Code)
	})

	t.Run("connection refused", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		url := server.URL
		server.Close()

		response := runCmd(t, "", "health", "--api-url", url)
		require.NotNil(t, response.Error)
		assert.Equal(t, "CONNECTION_ERROR", response.Error.Code)
	})
}

func TestCheckCmd(t *testing.T) {
	t.Parallel()

	var got []dto.CheckPromptRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req dto.CheckPromptRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		got = append(got, req)
		_ = json.NewEncoder(w).Encode(dto.CheckPromptResponse{FieldID: req.FieldID, HasErrors: true})
	}))
	defer server.Close()

	response := runCmd(t, "", "check", "--api-url", server.URL, "--field", "txt2img_prompt", "--escape-policy", "skip", "(a", "b")
	assert.True(t, response.Success)

	response = runCmd(t, "[from stdin\n", "check", "--api-url", server.URL)
	assert.True(t, response.Success)

	require.Len(t, got, 2)
	assert.Equal(t, dto.CheckPromptRequest{FieldID: "txt2img_prompt", Text: "(a b", EscapePolicy: "skip"}, got[0])
	assert.Equal(t, "[from stdin", got[1].Text)
}

func TestCheckCmd_APIErrorCode(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(dto.NewErrorResponse(dto.ErrorCodeInvalidPolicy, "unknown escape policy", nil))
	}))
	defer server.Close()

	response := runCmd(t, "", "check", "--api-url", server.URL, "--escape-policy", "bogus", "x")
	require.NotNil(t, response.Error)
	assert.Equal(t, "INVALID_ESCAPE_POLICY", response.Error.Code)
}

func TestSettingsSearchCmd(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/settings/search", r.URL.Path)
		var req dto.SettingsSearchRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "live preview", req.Query)
		_ = json.NewEncoder(w).Encode(dto.SettingsSearchResponse{Query: req.Query, ShowAllSections: true})
	}))
	defer server.Close()

	response := runCmd(t, "", "settings", "search", "--api-url", server.URL, "live", "preview")
	assert.True(t, response.Success)
}
