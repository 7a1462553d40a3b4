package commands

import (
	"errors"
	"net/http"
	"strings"

	"promptcheck/internal/client"

	"github.com/spf13/cobra"
)

// Error codes for command failures.
const (
	errCodeInvalidConfig   = "INVALID_CONFIG"
	errCodeClientError     = "CLIENT_ERROR"
	errCodeConnectionError = "CONNECTION_ERROR"
	errCodeTimeoutError    = "TIMEOUT_ERROR"
	errCodeServerError     = "SERVER_ERROR"
	errCodeAPIError        = "API_ERROR"
	errCodeInvalidArgument = "INVALID_ARGUMENT"
	errCodeNotFound        = "NOT_FOUND"
)

// defaultClientConfig returns the environment configuration, or the
// built-in defaults when the environment is invalid.
func defaultClientConfig() client.Config {
	cfg, err := client.LoadConfig()
	if err != nil {
		return client.DefaultConfig()
	}
	return *cfg
}

// newClientFromFlags builds a client from the global flags. On failure it
// writes the error envelope and returns nil.
func newClientFromFlags(cmd *cobra.Command) *client.Client {
	apiURL, _ := cmd.Flags().GetString(flagAPIURL)
	timeout, _ := cmd.Flags().GetDuration(flagTimeout)

	cfg := &client.Config{APIURL: apiURL, Timeout: timeout}
	if err := cfg.Validate(); err != nil {
		_ = client.WriteError(cmd.OutOrStdout(), errCodeInvalidConfig, err.Error(), nil)
		return nil
	}

	c, err := client.NewClient(cfg)
	if err != nil {
		_ = client.WriteError(cmd.OutOrStdout(), errCodeClientError, err.Error(), nil)
		return nil
	}
	return c
}

// determineErrorCode classifies a request failure.
func determineErrorCode(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == http.StatusNotFound:
			return errCodeNotFound
		case apiErr.StatusCode >= http.StatusInternalServerError:
			return errCodeServerError
		case apiErr.Code != "":
			return apiErr.Code
		default:
			return errCodeAPIError
		}
	}

	errStr := err.Error()
	if strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "no such host") {
		return errCodeConnectionError
	}
	if strings.Contains(errStr, "timeout") || strings.Contains(errStr, "deadline") {
		return errCodeTimeoutError
	}
	return errCodeAPIError
}
