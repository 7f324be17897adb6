// Package config reads codeview settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/samber/lo"
)

const (
	// ShellChrome drives a Chrome window over the DevTools protocol
	ShellChrome = "chrome"
	// ShellSystem opens the endpoint in the default browser
	ShellSystem = "system"

	// DefaultDotenvFile is read from the working directory when present
	DefaultDotenvFile = ".env"

	appDirName = "codeview"
)

const (
	EnvConfigDir    = "CODEVIEW_CONFIG_DIR"
	EnvShell        = "CODEVIEW_SHELL"
	EnvChromePath   = "CODEVIEW_CHROME_PATH"
	EnvFillInterval = "CODEVIEW_FILL_INTERVAL"
	EnvFillAttempts = "CODEVIEW_FILL_ATTEMPTS"
	EnvDebug        = "CODEVIEW_DEBUG"
)

var shells = []string{ShellChrome, ShellSystem}

// Config holds the resolved settings.
type Config struct {
	// Dir holds preferences.json and the Chrome profile
	Dir string
	// Shell is one of ShellChrome or ShellSystem
	Shell string
	// ChromePath overrides Chrome discovery when set
	ChromePath string
	// FillInterval and FillAttempts bound password auto-fill polling
	FillInterval time.Duration
	FillAttempts int
	Debug        bool
}

// ChromeProfileDir is the user-data directory for the Chrome shell.
func (c *Config) ChromeProfileDir() string {
	return filepath.Join(c.Dir, "chrome")
}

// Load resolves settings from the process environment, falling back to ./.env.
func Load() (*Config, error) {
	return load(os.LookupEnv, DefaultDotenvFile)
}

func load(lookup func(string) (string, bool), dotenvPath string) (*Config, error) {
	fileValues, err := godotenv.Read(dotenvPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read %s: %w", dotenvPath, err)
		}
		fileValues = map[string]string{}
	}
	get := func(key string) string {
		if v, ok := lookup(key); ok {
			return strings.TrimSpace(v)
		}
		return strings.TrimSpace(fileValues[key])
	}

	cfg := &Config{
		Dir:          get(EnvConfigDir),
		Shell:        lo.CoalesceOrEmpty(strings.ToLower(get(EnvShell)), ShellChrome),
		ChromePath:   get(EnvChromePath),
		FillInterval: 100 * time.Millisecond,
		FillAttempts: 50,
	}

	if cfg.Dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to locate config directory: %w", err)
		}
		cfg.Dir = filepath.Join(base, appDirName)
	}

	if !lo.Contains(shells, cfg.Shell) {
		return nil, fmt.Errorf("invalid %s %q: use one of %s", EnvShell, cfg.Shell, strings.Join(shells, ", "))
	}

	if v := get(EnvFillInterval); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid %s %q: expected a positive duration such as 100ms", EnvFillInterval, v)
		}
		cfg.FillInterval = d
	}

	if v := get(EnvFillAttempts); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid %s %q: expected a positive integer", EnvFillAttempts, v)
		}
		cfg.FillAttempts = n
	}

	if v := get(EnvDebug); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", EnvDebug, v, err)
		}
		cfg.Debug = debug
	}

	return cfg, nil
}
