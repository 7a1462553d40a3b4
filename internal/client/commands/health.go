package commands

import (
	"context"

	"promptcheck/internal/client"

	"github.com/spf13/cobra"
)

// NewHealthCmd creates the health check command. Failures are reported in
// the JSON envelope and the command returns nil.
func NewHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check API server health",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := newClientFromFlags(cmd)
			if c == nil {
				return nil
			}

			timeout, _ := cmd.Flags().GetDuration(flagTimeout)
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			health, err := c.Health(ctx)
			if err != nil {
				_ = client.WriteError(cmd.OutOrStdout(), determineErrorCode(err), err.Error(), nil)
				return nil
			}

			return client.WriteSuccess(cmd.OutOrStdout(), health)
		},
	}
}
