package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"promptcheck/internal/application/dto"
	"promptcheck/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	subjects []string
	payloads [][]byte
	err      error
}

func (r *recordingPublisher) Publish(subject string, data []byte) error {
	if r.err != nil {
		return r.err
	}
	r.subjects = append(r.subjects, subject)
	r.payloads = append(r.payloads, data)
	return nil
}

func TestResultPublisher_Publish(t *testing.T) {
	rec := &recordingPublisher{}
	pub, err := NewResultPublisher(rec, "promptcheck.results.")
	require.NoError(t, err)

	result := &dto.CheckPromptResponse{
		FieldID:   "txt2img_prompt",
		HasErrors: true,
		Messages:  []string{"Incorrect order of round brackets."},
		Tooltip:   "Incorrect order of round brackets.",
	}
	require.NoError(t, pub.Publish(context.Background(), result))

	require.Equal(t, []string{"promptcheck.results.txt2img_prompt"}, rec.subjects)
	var decoded dto.CheckPromptResponse
	require.NoError(t, json.Unmarshal(rec.payloads[0], &decoded))
	assert.Equal(t, result.Tooltip, decoded.Tooltip)
	assert.True(t, decoded.HasErrors)
}

func TestResultPublisher_SubjectSanitizesField(t *testing.T) {
	pub, err := NewResultPublisher(&recordingPublisher{}, "results")
	require.NoError(t, err)

	assert.Equal(t, "results.a_b_c_", pub.Subject("a.b*c>"))
	assert.Equal(t, "results._", pub.Subject(""))
}

func TestResultPublisher_Errors(t *testing.T) {
	_, err := NewResultPublisher(nil, "x")
	assert.Error(t, err)
	_, err = NewResultPublisher(&recordingPublisher{}, " . ")
	assert.Error(t, err)

	pub, err := NewResultPublisher(&recordingPublisher{err: errors.New("disconnected")}, "x")
	require.NoError(t, err)
	assert.ErrorContains(t, pub.Publish(context.Background(), &dto.CheckPromptResponse{FieldID: "f"}), "disconnected")
	assert.Error(t, pub.Publish(context.Background(), nil))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, pub.Publish(ctx, &dto.CheckPromptResponse{}), context.Canceled)
}

func TestValidateNATSConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.NATSConfig
		wantErr bool
	}{
		{name: "valid", cfg: config.NATSConfig{URL: "nats://localhost:4222", MaxReconnects: 5}},
		{name: "tls scheme", cfg: config.NATSConfig{URL: "tls://nats.example:4222"}},
		{name: "empty url", cfg: config.NATSConfig{}, wantErr: true},
		{name: "http scheme", cfg: config.NATSConfig{URL: "http://localhost"}, wantErr: true},
		{name: "negative reconnects", cfg: config.NATSConfig{URL: "nats://x", MaxReconnects: -1}, wantErr: true},
		{name: "negative wait", cfg: config.NATSConfig{URL: "nats://x", ReconnectWait: -1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNATSConfig(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConnection_NilConnIsDisconnected(t *testing.T) {
	c := &Connection{}
	assert.Equal(t, "nats", c.Name())
	assert.False(t, c.IsConnected())
	assert.NoError(t, c.Close())
}
