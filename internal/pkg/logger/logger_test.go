package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNewWithWriter_JSONOutsideDev(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "production", "info")
	log.Info("booking created", "booking_id", "b-1")
	log.Debug("hidden")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "booking created", entry["msg"])
	assert.Equal(t, "b-1", entry["booking_id"])
}

func TestNewWithWriter_TextInDev(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "dev", "debug")
	log.Debug("listing search", "limit", 20)

	assert.Contains(t, buf.String(), "listing search")
	assert.False(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
}
