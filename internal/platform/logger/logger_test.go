package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, slog.LevelInfo, "json").Info("deposit made", "sovereign_id", "abc", "request_id", "")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "deposit made", line["msg"])
	assert.Equal(t, "abc", line["sovereign_id"])
	assert.NotContains(t, line, "request_id", "empty attributes are dropped")
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{3}Z$`, line["time"])
}

func TestLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelWarn, "text")
	log.Info("hidden")
	assert.Zero(t, buf.Len())

	log.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestFormatRFC3339Millis(t *testing.T) {
	ts := time.Date(2025, 6, 1, 12, 30, 45, 123_456_789, time.FixedZone("CEST", 2*3600))
	assert.Equal(t, "2025-06-01T10:30:45.123Z", formatRFC3339Millis(ts))
}
