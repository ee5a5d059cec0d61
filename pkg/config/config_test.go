package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileYieldsEmptyConfig(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, &AppConfig{}, cfg)
}

func TestLoad_ParsesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
theme: nature
mode: month
month: "072024"
resolution: 1920x1080
output_dir: /tmp/walls
threads: 8
user_agent: custom-agent/2.0
quiet: true
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "nature", cfg.Theme)
	assert.Equal(t, "month", cfg.Mode)
	assert.Equal(t, "072024", cfg.Month)
	assert.Equal(t, "1920x1080", cfg.Resolution)
	assert.Equal(t, "/tmp/walls", cfg.OutputDir)
	assert.Equal(t, 8, cfg.Threads)
	assert.Equal(t, "custom-agent/2.0", cfg.UserAgent)
	assert.True(t, cfg.Quiet)
}

func TestLoad_RejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("theme: [unclosed"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}
