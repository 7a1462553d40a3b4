package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"promptcheck/internal/application/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleResult() *dto.CheckPromptResponse {
	return &dto.CheckPromptResponse{
		FieldID:      "txt2img_prompt",
		EscapePolicy: "aware",
		HasErrors:    true,
		Messages: []string{
			"Incorrect order of round brackets.",
			"( ... ) - Detected 1 more opening than closing round brackets.",
		},
		Tooltip: "Incorrect order of round brackets.\n( ... ) - Detected 1 more opening than closing round brackets.",
	}
}

func TestWriterSink_JSONLines(t *testing.T) {
	var buf bytes.Buffer
	s, err := NewWriterSink(&buf, FormatJSON)
	require.NoError(t, err)

	require.NoError(t, s.Publish(context.Background(), sampleResult()))
	require.NoError(t, s.Publish(context.Background(), &dto.CheckPromptResponse{FieldID: "other"}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var first dto.CheckPromptResponse
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "txt2img_prompt", first.FieldID)
	assert.True(t, first.HasErrors)
}

func TestWriterSink_YAML(t *testing.T) {
	var buf bytes.Buffer
	s, err := NewWriterSink(&buf, FormatYAML)
	require.NoError(t, err)
	require.NoError(t, s.Publish(context.Background(), sampleResult()))

	var decoded map[string]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "txt2img_prompt", decoded["field_id"])
	assert.Equal(t, true, decoded["has_errors"])
	assert.Len(t, decoded["messages"], 2)
}

func TestWriterSink_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatText, sampleResult()))
	assert.Equal(t,
		"txt2img_prompt:\nIncorrect order of round brackets.\n( ... ) - Detected 1 more opening than closing round brackets.\n",
		buf.String())

	buf.Reset()
	require.NoError(t, Write(&buf, FormatText, &dto.CheckPromptResponse{}))
	assert.Equal(t, "ok\n", buf.String())
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	f, err = ParseFormat("yaml")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	_, err = ParseFormat("xml")
	assert.Error(t, err)
}

func TestWriterSink_Errors(t *testing.T) {
	_, err := NewWriterSink(nil, FormatJSON)
	assert.Error(t, err)
	_, err = NewWriterSink(&bytes.Buffer{}, Format("csv"))
	assert.Error(t, err)

	s, err := NewWriterSink(&bytes.Buffer{}, "")
	require.NoError(t, err)
	assert.Error(t, s.Publish(context.Background(), nil))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Publish(ctx, sampleResult()), context.Canceled)
}
