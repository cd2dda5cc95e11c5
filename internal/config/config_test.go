package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("Defaults without a file", func(t *testing.T) {
		// When: the config file does not exist
		conf, err := Load(filepath.Join(t.TempDir(), "config.yml"))

		// Then: every field falls back to its default
		require.NoError(t, err)
		assert.Equal(t, "info", conf.LogLevel)
		assert.Equal(t, "9090", conf.HTTPPort)
		assert.Equal(t, "5000", conf.SocketPort)
		assert.Equal(t, "http://localhost:5173", conf.ClientURL)
		assert.Equal(t, 15*time.Second, conf.Game.TurnTimeout)
		assert.Equal(t, 256, conf.Game.EventBuffer)
		assert.False(t, conf.Redis.Enabled)
		assert.Equal(t, "localhost:6379", conf.Redis.GetRedisAddr())
	})

	t.Run("Reads the file and lets the environment override it", func(t *testing.T) {
		// Given: a config file and one overriding variable
		path := filepath.Join(t.TempDir(), "config.yml")
		content := `
log-level: debug
socket-port: "7000"
client-url: "*"
game:
  turn-timeout: 30s
redis:
  enabled: true
  host: redis
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
		t.Setenv("SOCKET_PORT", "7100")

		// When: it is loaded
		conf, err := Load(path)

		// Then: file values apply and the variable wins
		require.NoError(t, err)
		assert.Equal(t, "debug", conf.LogLevel)
		assert.Equal(t, "7100", conf.SocketPort)
		assert.Equal(t, "*", conf.ClientURL)
		assert.Equal(t, 30*time.Second, conf.Game.TurnTimeout)
		assert.True(t, conf.Redis.Enabled)
		assert.Equal(t, "redis:6379", conf.Redis.GetRedisAddr())
	})

	t.Run("Malformed file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yml")
		require.NoError(t, os.WriteFile(path, []byte("game: [not, a, map"), 0o600))

		_, err := Load(path)

		require.Error(t, err)
		assert.Panics(t, func() { MustLoad(path) })
	})
}
