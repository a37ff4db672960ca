package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONCIERGE_CREDENTIALS_PATH", "/tmp/concierge-test/credentials.json")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:5555/api/v1", cfg.Client.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.Client.Timeout)
	assert.Equal(t, DecoderNaive, cfg.Client.ScanDecoder)
	assert.Equal(t, ":5555", cfg.Server.Addr)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.AI.Enabled())
	assert.Nil(t, cfg.AI.Temperature)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CONCIERGE_API_BASE_URL", "https://api.example.com/api/v1/")
	t.Setenv("CONCIERGE_HTTP_TIMEOUT", "3s")
	t.Setenv("CONCIERGE_SCAN_DECODER", "Query")
	t.Setenv("CONCIERGE_CREDENTIALS_PATH", "/tmp/creds.json")
	t.Setenv("PORT", "127.0.0.1:9000")
	t.Setenv("ARK_TEMPERATURE", "0.4")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com/api/v1", cfg.Client.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Client.Timeout)
	assert.Equal(t, DecoderQuery, cfg.Client.ScanDecoder)
	assert.Equal(t, "/tmp/creds.json", cfg.Client.CredentialsPath)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	require.NotNil(t, cfg.AI.Temperature)
	assert.InDelta(t, 0.4, *cfg.AI.Temperature, 1e-9)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("CONCIERGE_CREDENTIALS_PATH", "/tmp/creds.json")

	t.Run("decoder", func(t *testing.T) {
		t.Setenv("CONCIERGE_SCAN_DECODER", "base64")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("port with spaces", func(t *testing.T) {
		t.Setenv("PORT", "80 80")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("timeout", func(t *testing.T) {
		t.Setenv("CONCIERGE_HTTP_TIMEOUT", "soon")
		_, err := Load()
		assert.Error(t, err)
	})
}

func TestAIConfigEnabled(t *testing.T) {
	assert.False(t, AIConfig{APIKey: "k"}.Enabled())
	assert.True(t, AIConfig{APIKey: "k", Model: "m"}.Enabled())
	assert.True(t, AIConfig{AccessKey: "a", SecretKey: "s", Model: "m"}.Enabled())
	assert.False(t, AIConfig{AccessKey: "a", Model: "m"}.Enabled())
}
