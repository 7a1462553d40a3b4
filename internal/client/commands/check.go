package commands

import (
	"context"
	"io"
	"strings"

	"promptcheck/internal/application/dto"
	"promptcheck/internal/client"

	"github.com/spf13/cobra"
)

const (
	flagField        = "field"
	flagEscapePolicy = "escape-policy"
)

// NewCheckCmd creates the check command. The prompt is the joined
// arguments, or stdin when none are given.
func NewCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [text...]",
		Short: "Check a prompt for unbalanced brackets",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := promptText(cmd, args)
			if err != nil {
				_ = client.WriteError(cmd.OutOrStdout(), errCodeInvalidArgument, err.Error(), nil)
				return nil
			}

			c := newClientFromFlags(cmd)
			if c == nil {
				return nil
			}

			fieldID, _ := cmd.Flags().GetString(flagField)
			policy, _ := cmd.Flags().GetString(flagEscapePolicy)

			timeout, _ := cmd.Flags().GetDuration(flagTimeout)
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			result, err := c.Check(ctx, dto.CheckPromptRequest{
				FieldID:      fieldID,
				Text:         text,
				EscapePolicy: policy,
			})
			if err != nil {
				_ = client.WriteError(cmd.OutOrStdout(), determineErrorCode(err), err.Error(), nil)
				return nil
			}

			return client.WriteSuccess(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().String(flagField, "", "Field id reported with the result")
	cmd.Flags().String(flagEscapePolicy, "", "Escape policy override (aware or skip)")

	return cmd
}

func promptText(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(string(data), "\n"), nil
}
