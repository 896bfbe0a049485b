package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter(t *testing.T) {
	buffer := &bytes.Buffer{}
	logger := NewWithWriter(buffer, "bpmnflow", "warn", false)
	logger.Info().Msg("skipped")
	logger.Warn().Int("task", 1000).Msg("kept")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buffer.Bytes(), &entry))
	assert.Equal(t, "bpmnflow", entry["app"])
	assert.Equal(t, "kept", entry["message"])
	assert.EqualValues(t, 1000, entry["task"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("verbose"))
}
