package config

import (
	"testing"
	"time"

	"promptcheck/internal/domain/errors/domain"
	"promptcheck/internal/domain/valueobject"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDefaultViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	return v
}

func TestNew_Defaults(t *testing.T) {
	cfg, err := New(newDefaultViper())
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.API.Address())
	assert.Equal(t, 10*time.Second, cfg.API.ReadTimeout)
	assert.True(t, cfg.API.LoggingEnabled())
	assert.Equal(t, DefaultDebounceDelay, cfg.Worker.DebounceDelay)
	assert.Equal(t, DefaultEditSubject, cfg.Worker.EditSubject)
	assert.Equal(t, DefaultMaxTextLength, cfg.Scanner.MaxTextLength)

	policy, err := cfg.Scanner.Policy()
	require.NoError(t, err)
	assert.Equal(t, valueobject.EscapeAware, policy)
}

func TestNew_Overrides(t *testing.T) {
	v := newDefaultViper()
	v.Set("scanner.escape_policy", "skip")
	v.Set("worker.debounce_delay", "250ms")
	v.Set("api.enable_logging", false)

	cfg, err := New(v)
	require.NoError(t, err)

	policy, err := cfg.Scanner.Policy()
	require.NoError(t, err)
	assert.Equal(t, valueobject.EscapeSkip, policy)
	assert.Equal(t, 250*time.Millisecond, cfg.Worker.DebounceDelay)
	assert.False(t, cfg.API.LoggingEnabled())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(v *viper.Viper)
		wantErr string
	}{
		{
			name:    "unknown escape policy",
			mutate:  func(v *viper.Viper) { v.Set("scanner.escape_policy", "maybe") },
			wantErr: "scanner.escape_policy",
		},
		{
			name:    "negative text limit",
			mutate:  func(v *viper.Viper) { v.Set("scanner.max_text_length", -1) },
			wantErr: "scanner.max_text_length",
		},
		{
			name:    "negative debounce",
			mutate:  func(v *viper.Viper) { v.Set("worker.debounce_delay", "-1s") },
			wantErr: "worker.debounce_delay",
		},
		{
			name:    "empty edit subject",
			mutate:  func(v *viper.Viper) { v.Set("worker.edit_subject", "") },
			wantErr: "worker.edit_subject",
		},
		{
			name: "settings section without id",
			mutate: func(v *viper.Viper) {
				v.Set("settings.sections", []map[string]interface{}{{"title": "Saving"}})
			},
			wantErr: "settings.sections[0].id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newDefaultViper()
			tt.mutate(v)

			_, err := New(v)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_PolicyErrorIsWrapped(t *testing.T) {
	cfg := &Config{Scanner: ScannerConfig{EscapePolicy: "nope"}, Worker: WorkerConfig{EditSubject: "x"}}
	assert.ErrorIs(t, cfg.Validate(), domain.ErrInvalidEscapePolicy)
}
