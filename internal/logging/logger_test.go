package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tableside/concierge/internal/config"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "client.log")

	logger, err := New(config.LogConfig{Level: "info", Format: "json", File: path})
	require.NoError(t, err)

	logger.Info("scan resolved")
	logger.Debug("hidden at info level")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "scan resolved")
	assert.NotContains(t, string(data), "hidden at info level")
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(config.LogConfig{Level: "loud"})
	assert.Error(t, err)
}

func TestVerboseAndOrNop(t *testing.T) {
	cfg := Verbose(config.LogConfig{Level: "warn"})
	assert.Equal(t, "debug", cfg.Level)
	assert.NotNil(t, OrNop(nil))
}
