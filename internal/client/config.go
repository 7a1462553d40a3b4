package client

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Default configuration values.
const (
	// DefaultAPIURL is the default API server URL.
	DefaultAPIURL = "http://localhost:8080"

	// DefaultTimeout is the default HTTP client timeout.
	DefaultTimeout = 30 * time.Second

	// EnvAPIURL is the environment variable name for the API URL.
	EnvAPIURL = "PROMPTCHECK_CLIENT_API_URL"

	// EnvTimeout is the environment variable name for the timeout duration.
	EnvTimeout = "PROMPTCHECK_CLIENT_TIMEOUT"
)

// Supported URL schemes.
const (
	schemeHTTP  = "http://"
	schemeHTTPS = "https://"
)

// Config holds the client configuration for connecting to the PromptCheck API server.
type Config struct {
	// APIURL is the base URL of the API server (e.g., "http://localhost:8080").
	APIURL string

	// Timeout is the maximum duration for HTTP requests.
	Timeout time.Duration
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		APIURL:  DefaultAPIURL,
		Timeout: DefaultTimeout,
	}
}

// LoadConfig loads configuration from environment variables, falling back to defaults.
//
// Environment variables:
//   - PROMPTCHECK_CLIENT_API_URL: API server URL
//   - PROMPTCHECK_CLIENT_TIMEOUT: request timeout as a duration string
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	if apiURL := os.Getenv(EnvAPIURL); apiURL != "" {
		cfg.APIURL = apiURL
	}

	if timeoutStr, ok := os.LookupEnv(EnvTimeout); ok {
		if timeoutStr == "" {
			return nil, fmt.Errorf("environment variable %s is set but empty: timeout cannot be empty", EnvTimeout)
		}

		timeout, err := time.ParseDuration(timeoutStr)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout duration in %s: %w", EnvTimeout, err)
		}

		if timeout <= 0 {
			return nil, fmt.Errorf("invalid timeout value in %s: timeout must be positive, got %v", EnvTimeout, timeout)
		}

		cfg.Timeout = timeout
	}

	return &cfg, nil
}

// Validate validates the configuration and returns an error if any field is invalid.
func (c Config) Validate() error {
	if c.APIURL == "" {
		return errors.New("invalid configuration: API URL cannot be empty")
	}

	if !strings.HasPrefix(c.APIURL, schemeHTTP) && !strings.HasPrefix(c.APIURL, schemeHTTPS) {
		return fmt.Errorf("invalid configuration: API URL must have http:// or https:// scheme, got %q", c.APIURL)
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("invalid configuration: timeout must be positive, got %v", c.Timeout)
	}

	return nil
}
