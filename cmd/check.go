package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"promptcheck/internal/adapter/outbound/sink"
	"promptcheck/internal/application/common/slogger"
	"promptcheck/internal/application/dto"
	"promptcheck/internal/application/service"

	"github.com/spf13/cobra"
)

// errUnbalanced makes the process exit non-zero without printing an error.
var errUnbalanced = errors.New("unbalanced brackets found")

type checkOptions struct {
	fieldID      string
	escapePolicy string
	output       string
	failOnError  bool
}

// newCheckCmd creates the one-shot check command.
func newCheckCmd() *cobra.Command {
	opts := &checkOptions{}

	cmd := &cobra.Command{
		Use:   "check [text...]",
		Short: "Check prompt text for unbalanced brackets",
		Long: `Check prompt text for unbalanced brackets.

The text is the joined arguments, or standard input when no arguments are
given. With --fail-on-error the command exits with status 1 when any
imbalance is found.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.fieldID, "field", "", "Field id reported with the result")
	cmd.Flags().StringVar(&opts.escapePolicy, "escape-policy", "", "Escape policy override (aware or skip)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", string(sink.FormatText), "Output format (json, yaml, text)")
	cmd.Flags().BoolVar(&opts.failOnError, "fail-on-error", false, "Exit with status 1 when brackets are unbalanced")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string, opts *checkOptions) error {
	format, err := sink.ParseFormat(opts.output)
	if err != nil {
		return err
	}

	cfg, err := GetConfig()
	if err != nil {
		return err
	}

	text, err := readPrompt(cmd.InOrStdin(), args)
	if err != nil {
		return fmt.Errorf("failed to read prompt: %w", err)
	}

	checker := service.NewPromptCheckService(promptCheckConfig(cfg), nil, slogger.Logger())
	result, err := checker.CheckPrompt(cmd.Context(), dto.CheckPromptRequest{
		FieldID:      opts.fieldID,
		Text:         text,
		EscapePolicy: opts.escapePolicy,
	})
	if err != nil {
		return err
	}

	if err := sink.Write(cmd.OutOrStdout(), format, result); err != nil {
		return err
	}

	if opts.failOnError && result.HasErrors {
		return errUnbalanced
	}
	return nil
}

func readPrompt(r io.Reader, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(string(data), "\n"), nil
}
