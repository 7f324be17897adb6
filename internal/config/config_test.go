package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(envMap(map[string]string{EnvConfigDir: "/tmp/codeview"}), filepath.Join(t.TempDir(), ".env"))
	require.NoError(t, err)

	assert.Equal(t, "/tmp/codeview", cfg.Dir)
	assert.Equal(t, ShellChrome, cfg.Shell)
	assert.Equal(t, "", cfg.ChromePath)
	assert.Equal(t, 100*time.Millisecond, cfg.FillInterval)
	assert.Equal(t, 50, cfg.FillAttempts)
	assert.False(t, cfg.Debug)
	assert.Equal(t, filepath.Join("/tmp/codeview", "chrome"), cfg.ChromeProfileDir())
}

func TestLoadDefaultDirUnderUserConfig(t *testing.T) {
	base, err := os.UserConfigDir()
	if err != nil {
		t.Skipf("no user config dir: %v", err)
	}

	cfg, err := load(envMap(nil), filepath.Join(t.TempDir(), ".env"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "codeview"), cfg.Dir)
}

func TestLoadFromEnvironment(t *testing.T) {
	cfg, err := load(envMap(map[string]string{
		EnvConfigDir:    "/data/cv",
		EnvShell:        "SYSTEM",
		EnvChromePath:   "/usr/bin/chromium",
		EnvFillInterval: "250ms",
		EnvFillAttempts: "8",
		EnvDebug:        "true",
	}), filepath.Join(t.TempDir(), ".env"))
	require.NoError(t, err)

	assert.Equal(t, "/data/cv", cfg.Dir)
	assert.Equal(t, ShellSystem, cfg.Shell)
	assert.Equal(t, "/usr/bin/chromium", cfg.ChromePath)
	assert.Equal(t, 250*time.Millisecond, cfg.FillInterval)
	assert.Equal(t, 8, cfg.FillAttempts)
	assert.True(t, cfg.Debug)
}

func TestLoadFromDotenv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("CODEVIEW_CONFIG_DIR=/from/file\nCODEVIEW_SHELL=system\nCODEVIEW_FILL_ATTEMPTS=3\n"), 0600))

	cfg, err := load(envMap(map[string]string{EnvFillAttempts: "9"}), path)
	require.NoError(t, err)

	assert.Equal(t, "/from/file", cfg.Dir)
	assert.Equal(t, ShellSystem, cfg.Shell)
	// The environment wins over the file
	assert.Equal(t, 9, cfg.FillAttempts)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{EnvShell, "safari"},
		{EnvFillInterval, "soon"},
		{EnvFillInterval, "-1s"},
		{EnvFillAttempts, "0"},
		{EnvFillAttempts, "many"},
		{EnvDebug, "maybe"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			_, err := load(envMap(map[string]string{
				EnvConfigDir: "/tmp/codeview",
				tt.key:       tt.value,
			}), filepath.Join(t.TempDir(), ".env"))
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}
