package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "streamer.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	yaml := `
server:
  host: 0.0.0.0
  port: 9000
feed:
  base_url: https://feed.example.com
  api_key: test-key
broadcast:
  interval: 2s
  fetch_timeout: 500ms
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "https://feed.example.com", cfg.Feed.BaseURL)
	assert.Equal(t, "test-key", cfg.Feed.APIKey)
	assert.Equal(t, 2*time.Second, cfg.Broadcast.Interval)
	assert.Equal(t, 500*time.Millisecond, cfg.Broadcast.FetchTimeout)
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	t.Setenv("TEST_FEED_API_KEY", "secret123")

	yaml := `
feed:
  base_url: https://feed.example.com
  api_key: ${TEST_FEED_API_KEY}
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "secret123", cfg.Feed.APIKey)
}

func TestLoadWithDefaults(t *testing.T) {
	path := writeTempFile(t, "feed:\n  api_key: k\n")

	cfg, err := LoadWithDefaults(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultHost, cfg.Server.Host)
	assert.Equal(t, DefaultPort, cfg.Server.Port)
	assert.Equal(t, DefaultFeedURL, cfg.Feed.BaseURL)
	assert.Equal(t, DefaultInterval, cfg.Broadcast.Interval)
	assert.Equal(t, DefaultFetchTimeout, cfg.Broadcast.FetchTimeout)
	assert.Equal(t, DefaultConcurrency, cfg.Broadcast.Concurrency)
	assert.Equal(t, DefaultMetricsPort, cfg.Metrics.Port)
	assert.Equal(t, DefaultMetricsPath, cfg.Metrics.Path)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*StreamerConfig)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *StreamerConfig) {},
		},
		{
			name:    "negative port",
			mutate:  func(c *StreamerConfig) { c.Server.Port = -1 },
			wantErr: "server.port",
		},
		{
			name:    "zero send buffer",
			mutate:  func(c *StreamerConfig) { c.Server.SendBufferSize = -1 },
			wantErr: "send_buffer_size",
		},
		{
			name:    "empty feed url",
			mutate:  func(c *StreamerConfig) { c.Feed.BaseURL = "" },
			wantErr: "feed.base_url",
		},
		{
			name:    "fetch timeout exceeds interval",
			mutate:  func(c *StreamerConfig) { c.Broadcast.FetchTimeout = 10 * time.Second },
			wantErr: "fetch_timeout",
		},
		{
			name:    "zero concurrency",
			mutate:  func(c *StreamerConfig) { c.Broadcast.Concurrency = -1 },
			wantErr: "concurrency",
		},
		{
			name:    "metrics port out of range",
			mutate:  func(c *StreamerConfig) { c.Metrics.Port = 70000 },
			wantErr: "metrics.port",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
