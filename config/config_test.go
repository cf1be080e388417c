package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Utkal9/Social-Media-like-LinkedIn-sub001/config"
)

func TestDefaults(t *testing.T) {
	cfg, err := config.LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "presence-hub", cfg.Service.Name)
	assert.Equal(t, ":8089", cfg.HTTP.Addr)
	assert.True(t, cfg.AMQP.Enabled)
	assert.Equal(t, 256, cfg.Hub.MailboxSize)
	assert.Equal(t, 500*time.Millisecond, cfg.Hub.SendTimeout)
	assert.Equal(t, 45*time.Second, cfg.Call.RingTimeout)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestConfigFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  addr: ":9100"
call:
  ring_timeout: 20s
amqp:
  enabled: false
`), 0o600))

	cfg, err := config.LoadConfig(path, nil)
	require.NoError(t, err)

	assert.Equal(t, ":9100", cfg.HTTP.Addr)
	assert.Equal(t, 20*time.Second, cfg.Call.RingTimeout)
	assert.False(t, cfg.AMQP.Enabled)
	// Untouched keys keep their defaults.
	assert.Equal(t, 256, cfg.Hub.MailboxSize)
}

func TestEnvironmentOverridesDefaults(t *testing.T) {
	t.Setenv("PRESENCE_HUB_HTTP_ADDR", ":9200")
	t.Setenv("PRESENCE_HUB_LOG_LEVEL", "debug")

	cfg, err := config.LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, ":9200", cfg.HTTP.Addr)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestInvalidValuesAreRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
hub:
  mailbox_size: 0
`), 0o600))

	_, err := config.LoadConfig(path, nil)
	assert.Error(t, err)
}

func TestMissingConfigFileFails(t *testing.T) {
	_, err := config.LoadConfig("/does/not/exist.yaml", nil)
	assert.Error(t, err)
}
