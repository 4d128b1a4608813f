package config

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dicklesworthstone/bandwidthmon/internal/chart"
	"github.com/Dicklesworthstone/bandwidthmon/internal/model"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, DefaultHeight, cfg.Height)
	assert.Equal(t, DefaultHistory, cfg.History)
	assert.Equal(t, time.Second, cfg.Interval)
	assert.Equal(t, model.Both, cfg.Direction())
	assert.Equal(t, chart.ModeGradient, cfg.Mode())
	assert.NoError(t, cfg.Validate())
}

func TestFromFlags(t *testing.T) {
	cfg, err := FromFlags([]string{
		"-i", "wl*", "-H", "15", "-W", "80", "-t", "0.5", "-history", "60",
		"-d", "-s", "-mode", "block",
	}, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, "wl*", cfg.Interface)
	assert.Equal(t, 15, cfg.Height)
	assert.Equal(t, 80, cfg.Width)
	assert.Equal(t, 500*time.Millisecond, cfg.Interval)
	assert.Equal(t, 60, cfg.History)
	assert.Equal(t, model.DownloadOnly, cfg.Direction())
	assert.True(t, cfg.Summary)
	assert.Equal(t, chart.ModeBlock, cfg.Mode())
	require.NoError(t, cfg.Validate())

	t.Run("long names and durations", func(t *testing.T) {
		cfg, err := FromFlags([]string{"-iface", "eth0", "-interval", "250ms", "-upload", "-list"}, io.Discard)
		require.NoError(t, err)
		assert.Equal(t, "eth0", cfg.Interface)
		assert.Equal(t, 250*time.Millisecond, cfg.Interval)
		assert.Equal(t, model.UploadOnly, cfg.Direction())
		assert.True(t, cfg.List)
	})

	t.Run("json implies static", func(t *testing.T) {
		cfg, err := FromFlags([]string{"-json"}, io.Discard)
		require.NoError(t, err)
		assert.True(t, cfg.Static)
	})

	t.Run("bad interval", func(t *testing.T) {
		_, err := FromFlags([]string{"-t", "soon"}, io.Discard)
		assert.Error(t, err)
	})
}

func TestFromFlags_Env(t *testing.T) {
	t.Setenv("BANDWIDTHMON_IFACE", "eth1")
	t.Setenv("BANDWIDTHMON_INTERVAL", "2")
	t.Setenv("BANDWIDTHMON_HEIGHT", "20")
	t.Setenv("BANDWIDTHMON_LOG_LEVEL", "debug")

	cfg, err := FromFlags(nil, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "eth1", cfg.Interface)
	assert.Equal(t, 2*time.Second, cfg.Interval)
	assert.Equal(t, 20, cfg.Height)
	assert.Equal(t, "debug", cfg.LogLevel)

	cfg, err = FromFlags([]string{"-H", "5"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Height, "flags win over the environment")

	t.Setenv("BANDWIDTHMON_HISTORY", "many")
	_, err = FromFlags(nil, io.Discard)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

// inDir runs the rest of the test from dir.
func inDir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestFromFlags_DotEnv(t *testing.T) {
	t.Run("missing file is ignored", func(t *testing.T) {
		inDir(t, t.TempDir())
		_, err := FromFlags(nil, io.Discard)
		assert.NoError(t, err)
	})

	t.Run("values are loaded", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("BANDWIDTHMON_HEIGHT=7\n"), 0o600))
		inDir(t, dir)
		// register the restore, then clear it so the file is not shadowed
		t.Setenv("BANDWIDTHMON_HEIGHT", "")
		require.NoError(t, os.Unsetenv("BANDWIDTHMON_HEIGHT"))

		cfg, err := FromFlags(nil, io.Discard)
		require.NoError(t, err)
		assert.Equal(t, 7, cfg.Height)
	})

	t.Run("malformed file is an error", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("BAD-KEY=1\n"), 0o600))
		inDir(t, dir)

		_, err := FromFlags(nil, io.Discard)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidConfig)
		assert.Contains(t, err.Error(), ".env")
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*Config)
	}{
		{"zero height", func(c *Config) { c.Height = 0 }},
		{"negative width", func(c *Config) { c.Width = -1 }},
		{"tiny interval", func(c *Config) { c.Interval = time.Millisecond }},
		{"zero history", func(c *Config) { c.History = 0 }},
		{"negative max failures", func(c *Config) { c.MaxFailures = -1 }},
		{"both directions", func(c *Config) { c.Download, c.Upload = true, true }},
		{"unknown mode", func(c *Config) { c.ChartMode = "braille" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mod(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig))
		})
	}
}
