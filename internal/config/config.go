package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"canvass/internal/dialog"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and bind address configuration.
type Paths struct {
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
	APIBind string `toml:"api_bind"`
}

// Telephony contains connection settings for the outbound call provider.
type Telephony struct {
	AccountSID     string `toml:"account_sid"`
	AuthToken      string `toml:"auth_token"`
	BaseURL        string `toml:"base_url"`
	FromNumber     string `toml:"from_number"`
	PublicURL      string `toml:"public_url"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Survey contains dialogue behavior settings.
type Survey struct {
	// MaxRetries caps consecutive invalid answers per question before the
	// call is abandoned. Zero retries forever.
	MaxRetries int `toml:"max_retries"`
	// SessionTTLMinutes evicts sessions idle longer than this. Zero keeps
	// abandoned sessions forever.
	SessionTTLMinutes int            `toml:"session_ttl_minutes"`
	Prompts           dialog.Prompts `toml:"prompts"`
}

// Storage contains feedback persistence settings.
type Storage struct {
	ArchiveEnabled bool   `toml:"archive_enabled"`
	ArchivePath    string `toml:"archive_path"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for Canvass.
//
// Configuration sections by subsystem:
//   - Paths: data/log directories and API bind address
//   - Telephony: provider credentials, callback base URL, caller ID
//   - Survey: retry cap, session TTL, prompt overrides
//   - Storage: optional SQLite feedback archive
//   - Logging: log format and level
type Config struct {
	Paths     Paths     `toml:"paths"`
	Telephony Telephony `toml:"telephony"`
	Survey    Survey    `toml:"survey"`
	Storage   Storage   `toml:"storage"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/canvass/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("canvass.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for daemon operation.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// DialogOptions returns the state machine options derived from configuration.
func (c *Config) DialogOptions() dialog.Options {
	return dialog.Options{
		Prompts:    c.Survey.Prompts,
		MaxRetries: c.Survey.MaxRetries,
	}
}

// ArchivePath returns the feedback archive location, defaulting into the
// data directory when not set explicitly.
func (c *Config) ArchivePath() string {
	if strings.TrimSpace(c.Storage.ArchivePath) != "" {
		return c.Storage.ArchivePath
	}
	return filepath.Join(c.Paths.DataDir, "feedback.db")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
