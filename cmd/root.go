// Package cmd provides the promptcheck command-line interface.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"promptcheck/internal/application/common/logging"
	"promptcheck/internal/application/common/slogger"
	"promptcheck/internal/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "PROMPTCHECK"

//nolint:gochecknoglobals // Standard Cobra CLI state.
var (
	cfgFile string
	cfg     *config.Config
	cfgErr  error
)

// rootCmd represents the base command when called without any subcommands
//
//nolint:gochecknoglobals // Standard Cobra CLI pattern.
var rootCmd = &cobra.Command{
	Use:   "promptcheck",
	Short: "Bracket balance checker for generation prompts",
	Long: `PromptCheck scans prompt text for unbalanced round, square and curly
brackets, the way the prompt editor flags them while typing.

It runs as:
- a one-shot checker (promptcheck check)
- an HTTP API (promptcheck api)
- a NATS worker that checks edits after they settle (promptcheck worker)`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errUnbalanced) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func init() { //nolint:gochecknoinits // Standard Cobra CLI pattern for command registration
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./configs/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "json", "Log format (json, text)")

	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newAPICmd())
	rootCmd.AddCommand(newWorkerCmd())
	rootCmd.AddCommand(newVersionCmd())
}

func initConfig() {
	v := newViper(cfgFile)

	if err := v.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level")); err != nil {
		fmt.Fprintf(os.Stderr, "Error binding log-level flag: %v\n", err)
	}
	if err := v.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format")); err != nil {
		fmt.Fprintf(os.Stderr, "Error binding log-format flag: %v\n", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
		}
		// Config file not found; use defaults and environment
	}

	cfg, cfgErr = config.New(v)
	if cfgErr != nil {
		return
	}

	if err := setupLogger(cfg.Log); err != nil {
		fmt.Fprintf(os.Stderr, "Error configuring logger: %v\n", err)
	}
}

// newViper returns a viper instance with defaults, the config file search
// path and PROMPTCHECK_ environment overrides.
func newViper(file string) *viper.Viper {
	v := viper.New()
	config.SetDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// setupLogger installs the global structured logger. Logs go to stderr so
// command output on stdout stays machine readable.
func setupLogger(logCfg config.LogConfig) error {
	logger, err := logging.NewApplicationLogger(logging.Config{
		Level:  strings.ToUpper(logCfg.Level),
		Format: logCfg.Format,
		Output: "stderr",
	})
	if err != nil {
		return err
	}
	slogger.SetGlobalLogger(logger)
	return nil
}

// GetConfig returns the loaded configuration, loading it on first use.
func GetConfig() (*config.Config, error) {
	if cfg == nil && cfgErr == nil {
		initConfig()
	}
	return cfg, cfgErr
}
