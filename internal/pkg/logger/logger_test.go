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
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "", want: slog.LevelInfo},
		{in: "DEBUG", want: slog.LevelDebug},
		{in: "warning", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "trace", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := newLogger("stars_bot", &Config{Encoding: "json", Level: "warn"}, &buf)
	require.NoError(t, err)

	log.Info("skipped")
	log.Warn("order rejected", "order_id", "42_1")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "order rejected", record["msg"])
	assert.Equal(t, "stars_bot", record["app"])
	assert.Equal(t, "42_1", record["order_id"])
}

func TestNewLoggerConsoleDefaults(t *testing.T) {
	var buf bytes.Buffer
	log, err := newLogger("stars_bot", nil, &buf)
	require.NoError(t, err)

	log.Debug("hidden")
	log.Info("visible")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=visible")
	assert.Contains(t, buf.String(), "app=stars_bot")
}

func TestNewLoggerUnknownEncoding(t *testing.T) {
	_, err := newLogger("stars_bot", &Config{Encoding: "xml"}, &bytes.Buffer{})
	assert.Error(t, err)

	assert.Panics(t, func() { New("stars_bot", &Config{Level: "trace"}) })
}
