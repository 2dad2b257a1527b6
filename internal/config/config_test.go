package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	t.Run("Reads the config file", func(t *testing.T) {
		// Given: a config file with every section
		path := writeConfig(t, `
log-level: debug
game-id: living-room
board:
  width: 9
  height: 8
redis:
  enabled: true
  host: cache
  port: "6380"
`)

		// When: loading it
		conf, err := Load(path)

		// Then: every value is read
		require.NoError(t, err)
		assert.Equal(t, "debug", conf.LogLevel)
		assert.Equal(t, "living-room", conf.GameID)
		assert.Equal(t, Board{Width: 9, Height: 8}, conf.Board)
		assert.True(t, conf.Redis.Enabled)
		assert.Equal(t, "cache:6380", conf.Redis.GetRedisAddr())
	})

	t.Run("Fills defaults for missing keys", func(t *testing.T) {
		path := writeConfig(t, "log-level: warn\n")

		conf, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, "warn", conf.LogLevel)
		assert.Equal(t, "local", conf.GameID)
		assert.Equal(t, Board{Width: 7, Height: 6}, conf.Board)
		assert.False(t, conf.Redis.Enabled)
		assert.Equal(t, "localhost:6379", conf.Redis.GetRedisAddr())
	})

	t.Run("Environment overrides the file", func(t *testing.T) {
		path := writeConfig(t, "board:\n  width: 9\n")
		t.Setenv("BOARD_WIDTH", "5")

		conf, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, 5, conf.Board.Width)
	})

	t.Run("Missing file falls back to the environment", func(t *testing.T) {
		t.Setenv("GAME_ID", "from-env")

		conf, err := Load(filepath.Join(t.TempDir(), "absent.yml"))

		require.NoError(t, err)
		assert.Equal(t, "from-env", conf.GameID)
		assert.Equal(t, Board{Width: 7, Height: 6}, conf.Board)
	})

	t.Run("Broken file", func(t *testing.T) {
		path := writeConfig(t, "board: [\n")

		_, err := Load(path)

		require.Error(t, err)
	})
}

func TestMustLoad(t *testing.T) {
	path := writeConfig(t, "board: [\n")

	assert.Panics(t, func() {
		MustLoad(path)
	})
}
