// Package config resolves the runtime configuration shared by all commands.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/vitatrack/vitatrack/internal/constants"
)

// EnvConfigDir names the variable that overrides the config directory.
const EnvConfigDir = "VITATRACK_CONFIG_DIR"

type Config struct {
	ServerURL string
	ConfigDir string
	Timeout   time.Duration
	Debug     bool
}

// New normalizes the raw flag values.
func New(serverURL, configDir string, timeout time.Duration, debug bool) (Config, error) {
	dir, err := ExpandHome(configDir)
	if err != nil {
		return Config{}, err
	}
	origin, err := ResolveServerURL(serverURL)
	if err != nil {
		return Config{}, err
	}
	if timeout <= 0 {
		timeout = constants.DefaultRequestTimeout
	}
	return Config{ServerURL: origin, ConfigDir: dir, Timeout: timeout, Debug: debug}, nil
}

// UploadDir is where the development server keeps uploaded images.
func (c Config) UploadDir() string {
	return filepath.Join(c.ConfigDir, "uploads")
}

// LoadEnv loads .env from the working directory and then from the config
// directory. Variables already set in the environment are never overridden.
// It returns the files that were loaded.
func LoadEnv() []string {
	candidates := []string{".env"}

	dir := os.Getenv(EnvConfigDir)
	if dir == "" {
		dir = constants.DefaultConfigDir
	}
	if expanded, err := ExpandHome(dir); err == nil {
		candidates = append(candidates, filepath.Join(expanded, ".env"))
	}

	var loaded []string
	for _, path := range candidates {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err == nil {
			loaded = append(loaded, path)
		}
	}
	return loaded
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// ResolveServerURL returns the scheme and host of raw. A missing scheme
// defaults to http.
func ResolveServerURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = constants.DefaultServerURL
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid server URL %q: %w", raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("invalid server URL %q: must be http(s)://host[:port]", raw)
	}
	return u.Scheme + "://" + u.Host, nil
}
