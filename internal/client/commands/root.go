// Package commands provides the cobra commands of the PromptCheck client.
package commands

import (
	"github.com/spf13/cobra"
)

const (
	// clientVersion is the current version of the CLI client.
	clientVersion = "1.0.0"
)

// Flag names for persistent global flags.
const (
	flagAPIURL  = "api-url"
	flagTimeout = "timeout"
)

// NewRootCmd creates the root command of the PromptCheck client.
//
// Subcommands:
//   - health: Check API server health status
//   - check: Check prompt text for unbalanced brackets
//   - settings: Search the settings catalog
func NewRootCmd() *cobra.Command {
	cfg := defaultClientConfig()

	cmd := &cobra.Command{
		Use:          "promptcheck-client",
		Short:        "CLI client for the PromptCheck API",
		Version:      clientVersion,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String(flagAPIURL, cfg.APIURL, "API server URL")
	cmd.PersistentFlags().Duration(flagTimeout, cfg.Timeout, "Request timeout")

	cmd.AddCommand(NewHealthCmd())
	cmd.AddCommand(NewCheckCmd())
	cmd.AddCommand(NewSettingsCmd())

	return cmd
}
