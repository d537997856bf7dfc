package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_WritesServiceAndFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("loan-approval", "info", &buf)

	log.Info("request approved", map[string]interface{}{"customer_id": "AB-1234-XYZ"})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "loan-approval", entry["service"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "request approved", entry["message"])
	assert.Equal(t, "AB-1234-XYZ", entry["customer_id"])
}

func TestLogger_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("loan-approval", "warn", &buf)

	log.Debug("hidden", nil)
	log.Info("hidden", nil)
	log.Warn("shown", nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 1)
	assert.Contains(t, lines[0], "shown")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel("warning"))
	assert.Equal(t, zerolog.ErrorLevel, ParseLevel(" error "))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("nonsense"))
}
