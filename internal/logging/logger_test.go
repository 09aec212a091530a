package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/astro-conditions/internal/config"
)

func TestNewProdWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, &config.AppConfig{AppEnv: "prod", LogLevel: slog.LevelInfo}, "astro-conditions")

	l.Debug("hidden")
	l.Info("hello", "location", "28.7636,-17.8947")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "hello", rec["msg"])
	assert.Equal(t, "astro-conditions", rec["app"])
	assert.Equal(t, "prod", rec["env"])
	assert.Equal(t, "28.7636,-17.8947", rec["location"])
}

func TestNewDevRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, &config.AppConfig{AppEnv: "dev", LogLevel: slog.LevelWarn}, "astro-conditions")

	l.Info("quiet")
	assert.Zero(t, buf.Len())

	l.Warn("loud")
	assert.Contains(t, buf.String(), "loud")
}
