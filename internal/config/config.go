package config

import (
	"errors"
	"fmt"
	"time"

	"promptcheck/internal/domain/valueobject"

	"github.com/spf13/viper"
)

// Config holds the complete application configuration.
type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Worker   WorkerConfig   `mapstructure:"worker"`
	NATS     NATSConfig     `mapstructure:"nats"`
	Scanner  ScannerConfig  `mapstructure:"scanner"`
	Settings SettingsConfig `mapstructure:"settings"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Log      LogConfig      `mapstructure:"log"`
}

// APIConfig holds API server configuration.
type APIConfig struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	EnableLogging   *bool         `mapstructure:"enable_logging"`
}

// WorkerConfig holds edit worker configuration.
type WorkerConfig struct {
	QueueGroup    string        `mapstructure:"queue_group"`
	EditSubject   string        `mapstructure:"edit_subject"`
	ResultSubject string        `mapstructure:"result_subject"`
	DebounceDelay time.Duration `mapstructure:"debounce_delay"`
}

// NATSConfig holds NATS configuration.
type NATSConfig struct {
	URL           string        `mapstructure:"url"`
	MaxReconnects int           `mapstructure:"max_reconnects"`
	ReconnectWait time.Duration `mapstructure:"reconnect_wait"`
}

// ScannerConfig holds bracket scanner configuration.
type ScannerConfig struct {
	EscapePolicy  string `mapstructure:"escape_policy"`
	MaxTextLength int    `mapstructure:"max_text_length"`
	RequireField  bool   `mapstructure:"require_field"`
}

// Policy returns the parsed escape policy.
func (s ScannerConfig) Policy() (valueobject.EscapePolicy, error) {
	return valueobject.NewEscapePolicy(s.EscapePolicy)
}

// SettingsConfig holds the settings search catalog.
type SettingsConfig struct {
	ExcludedSections []string               `mapstructure:"excluded_sections"`
	Sections         []SettingsSectionEntry `mapstructure:"sections"`
}

// SettingsSectionEntry is one configured settings section.
type SettingsSectionEntry struct {
	ID       string              `mapstructure:"id"`
	Title    string              `mapstructure:"title"`
	Category string              `mapstructure:"category"`
	Entries  []SettingsItemEntry `mapstructure:"entries"`
}

// SettingsItemEntry is one configured setting row.
type SettingsItemEntry struct {
	ID   string `mapstructure:"id"`
	Text string `mapstructure:"text"`
}

// MetricsConfig holds OpenTelemetry metrics configuration.
type MetricsConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	ServiceName string `mapstructure:"service_name"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Default values shared by SetDefaults and validation messages.
const (
	DefaultAPIPort         = "8080"
	DefaultAPIHost         = "0.0.0.0"
	DefaultEditSubject     = "promptcheck.edits"
	DefaultResultSubject   = "promptcheck.results"
	DefaultQueueGroup      = "promptcheck-workers"
	DefaultDebounceDelay   = 400 * time.Millisecond
	DefaultMaxTextLength   = 64 * 1024
	DefaultNATSURL         = "nats://localhost:4222"
	DefaultMetricsService  = "promptcheck"
	defaultReadTimeout     = "10s"
	defaultWriteTimeout    = "10s"
	defaultShutdownTimeout = "15s"
)

// SetDefaults registers every default value on v.
func SetDefaults(v *viper.Viper) {
	// API defaults
	v.SetDefault("api.port", DefaultAPIPort)
	v.SetDefault("api.host", DefaultAPIHost)
	v.SetDefault("api.read_timeout", defaultReadTimeout)
	v.SetDefault("api.write_timeout", defaultWriteTimeout)
	v.SetDefault("api.shutdown_timeout", defaultShutdownTimeout)

	// Worker defaults
	v.SetDefault("worker.queue_group", DefaultQueueGroup)
	v.SetDefault("worker.edit_subject", DefaultEditSubject)
	v.SetDefault("worker.result_subject", DefaultResultSubject)
	v.SetDefault("worker.debounce_delay", DefaultDebounceDelay.String())

	// NATS defaults
	v.SetDefault("nats.url", DefaultNATSURL)
	v.SetDefault("nats.max_reconnects", 5)
	v.SetDefault("nats.reconnect_wait", "2s")

	// Scanner defaults
	v.SetDefault("scanner.escape_policy", string(valueobject.DefaultEscapePolicy))
	v.SetDefault("scanner.max_text_length", DefaultMaxTextLength)
	v.SetDefault("scanner.require_field", false)

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.service_name", DefaultMetricsService)

	// Logging defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// New creates a new Config instance from Viper.
func New(v *viper.Viper) (*Config, error) {
	var config Config

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, err := c.Scanner.Policy(); err != nil {
		return fmt.Errorf("scanner.escape_policy: %w", err)
	}

	if c.Scanner.MaxTextLength < 0 {
		return errors.New("scanner.max_text_length cannot be negative")
	}

	if c.Worker.DebounceDelay < 0 {
		return errors.New("worker.debounce_delay cannot be negative")
	}

	if c.Worker.EditSubject == "" {
		return errors.New("worker.edit_subject is required")
	}

	if c.NATS.MaxReconnects < 0 {
		return errors.New("nats.max_reconnects cannot be negative")
	}

	for i, section := range c.Settings.Sections {
		if section.ID == "" {
			return fmt.Errorf("settings.sections[%d].id is required", i)
		}
	}

	return nil
}

// LoggingEnabled reports whether request logging middleware is on.
func (a APIConfig) LoggingEnabled() bool {
	return a.EnableLogging == nil || *a.EnableLogging
}

// Address returns host:port for the API listener.
func (a APIConfig) Address() string {
	return a.Host + ":" + a.Port
}
