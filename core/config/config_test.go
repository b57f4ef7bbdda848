package config_test

import (
	"testing"

	"scribey-companion/core/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8089", cfg.Server.Port)
	assert.Equal(t, "Scribey.lua", cfg.Wow.AddonFile)
	assert.Equal(t, "ScribeyDB", cfg.Wow.TableName)
	assert.Equal(t, "https://app.scribey.gg", cfg.Upload.ServerURL)
	assert.Equal(t, 30, cfg.Upload.TimeoutSeconds)
	assert.True(t, cfg.Journal.Enabled)
	assert.Equal(t, "scribey-queue.db", cfg.Journal.Path)
	assert.False(t, cfg.Archive.Enabled)
	assert.Equal(t, "scribey-archive", cfg.Archive.Bucket)
	assert.Equal(t, "scribey-settings.yaml", cfg.Settings.Path)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("SERVER_PORT", "9100")
	t.Setenv("WOW_INSTALL_PATH", "/games/wow")
	t.Setenv("UPLOAD_SERVER_URL", "http://localhost:3000")

	cfg, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Server.Port)
	assert.Equal(t, "/games/wow", cfg.Wow.InstallPath)
	assert.Equal(t, "http://localhost:3000", cfg.Upload.ServerURL)
}
