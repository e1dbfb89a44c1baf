package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "192.168.1.1", cfg.Router.Host)
	assert.Equal(t, 22, cfg.Router.Port)
	assert.Equal(t, "InternetGatewayDevice.TimeRestriction", cfg.Paths.Root)
	assert.Equal(t, "TIME_RESTRICT", cfg.Paths.Chain)
	assert.Equal(t, "/tmp/.timerestrict.rule", cfg.Paths.ShadowFile)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_PartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "netparental.json")
	data := `{"router": {"host": "10.0.0.1", "legacy_ciphers": true}, "log": {"level": "debug"}}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1", cfg.Router.Host)
	assert.True(t, cfg.Router.LegacyCiphers)
	assert.Equal(t, 22, cfg.Router.Port)
	assert.Equal(t, 10, cfg.Router.TimeoutSeconds)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "TIME_RESTRICT", cfg.Paths.Chain)
}

func TestLoad_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}
