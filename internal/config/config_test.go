package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.ListenAddress)
	assert.Equal(t, "/user/me", cfg.Upstream.ProfilePath)
	assert.Equal(t, "/card/{id}", cfg.Upstream.CardPath)
	assert.Equal(t, int64(2<<20), cfg.Avatar.MaxBytes)
	assert.Equal(t, 4*time.Hour, cfg.Cleanup.OlderThan)
	assert.False(t, cfg.Redis.Enabled)
	assert.Empty(t, cfg.Avatar.AllowedHosts)
	assert.False(t, cfg.Avatar.AllowPrivate)
}

func TestLoadAvatarAllowlist(t *testing.T) {
	path := writeConfig(t, `
avatar:
  allowed_hosts: ["cdn.example.com", "*.images.example.org"]
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"cdn.example.com", "*.images.example.org"}, cfg.Avatar.AllowedHosts)

	t.Setenv("NAMECARD_AVATAR_ALLOWED_HOSTS", "a.example.com,b.example.com")
	t.Setenv("NAMECARD_AVATAR_ALLOW_PRIVATE", "true")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.example.com", "b.example.com"}, cfg.Avatar.AllowedHosts)
	assert.True(t, cfg.Avatar.AllowPrivate)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
server:
  listen_address: ":9090"
  mode: debug
upstream:
  base_url: "https://api.example.com"
  timeout: 2s
redis:
  enabled: true
  addr: "redis:6379"
  ttl: 1m
logging:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.ListenAddress)
	assert.Equal(t, "debug", cfg.Server.Mode)
	assert.Equal(t, "https://api.example.com", cfg.Upstream.BaseURL)
	assert.Equal(t, 2*time.Second, cfg.Upstream.Timeout)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, time.Minute, cfg.Redis.TTL)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("NAMECARD_SERVER_LISTEN_ADDRESS", ":7070")
	t.Setenv("NAMECARD_KAFKA_ENABLED", "true")
	t.Setenv("NAMECARD_KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("NAMECARD_AVATAR_TIMEOUT", "750ms")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Server.ListenAddress)
	assert.True(t, cfg.Kafka.Enabled)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 750*time.Millisecond, cfg.Avatar.Timeout)
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Run("bad log level", func(t *testing.T) {
		path := writeConfig(t, "logging:\n  level: loud\n")
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("bad upstream url", func(t *testing.T) {
		path := writeConfig(t, "upstream:\n  base_url: \"not a url\"\n")
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("kafka without brokers", func(t *testing.T) {
		path := writeConfig(t, "kafka:\n  enabled: true\n")
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("bad avatar host", func(t *testing.T) {
		path := writeConfig(t, "avatar:\n  allowed_hosts: [\"http://cdn.example.com/\"]\n")
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}
