package commands

import (
	"context"
	"strings"

	"promptcheck/internal/application/dto"
	"promptcheck/internal/client"

	"github.com/spf13/cobra"
)

// NewSettingsCmd creates the settings command group.
func NewSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Search the settings panel",
	}
	cmd.AddCommand(newSettingsSearchCmd())
	return cmd
}

func newSettingsSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search [query...]",
		Short: "List the settings matching a query",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newClientFromFlags(cmd)
			if c == nil {
				return nil
			}

			timeout, _ := cmd.Flags().GetDuration(flagTimeout)
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			result, err := c.SearchSettings(ctx, dto.SettingsSearchRequest{Query: strings.Join(args, " ")})
			if err != nil {
				_ = client.WriteError(cmd.OutOrStdout(), determineErrorCode(err), err.Error(), nil)
				return nil
			}

			return client.WriteSuccess(cmd.OutOrStdout(), result)
		},
	}
}
