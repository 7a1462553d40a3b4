// Package main provides the entry point for the standalone PromptCheck CLI client.
//
// Usage:
//
//	promptcheck-client health
//	promptcheck-client check "(masterpiece:1.2), [detailed"
//	echo "{{prompt}" | promptcheck-client check --escape-policy skip
//	promptcheck-client settings search "live preview"
//
// Global flags:
//
//	--api-url    API server URL (default: http://localhost:8080)
//	--timeout    Request timeout duration (default: 30s)
//
// All output is JSON-formatted.
package main

import (
	"os"

	"promptcheck/internal/client/commands"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
