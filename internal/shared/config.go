package shared

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Session   SessionConfig   `toml:"session"`
	Database  DatabaseConfig  `toml:"database"`
	Downloads DownloadsConfig `toml:"downloads"`
}

// ServerConfig describes the remote music library backend.
type ServerConfig struct {
	BaseURL           string `toml:"base_url"`
	TimeoutSeconds    int    `toml:"timeout_seconds"`
	RequestsPerSecond int    `toml:"requests_per_second"`
}

// SessionConfig controls where the bearer token is persisted between runs.
type SessionConfig struct {
	TokenPath string `toml:"token_path"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// DownloadsConfig controls where downloaded media files are written.
type DownloadsConfig struct {
	Dir string `toml:"dir"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	config.applyEnv()
	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	config.applyEnv()
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s: %w", path, err)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadDotenv loads a .env file from the working directory if present.
// Missing files are not an error; env values override TOML on next load.
func LoadDotenv() {
	_ = godotenv.Load()
}

// applyEnv overlays environment variables onto the loaded configuration.
// Recognized variables: MUSELIB_BASE_URL, MUSELIB_TOKEN_PATH, MUSELIB_DB_PATH,
// MUSELIB_DOWNLOADS_DIR, MUSELIB_TIMEOUT_SECONDS.
func (c *Config) applyEnv() {
	if v := os.Getenv("MUSELIB_BASE_URL"); v != "" {
		c.Server.BaseURL = v
	}
	if v := os.Getenv("MUSELIB_TOKEN_PATH"); v != "" {
		c.Session.TokenPath = v
	}
	if v := os.Getenv("MUSELIB_DB_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("MUSELIB_DOWNLOADS_DIR"); v != "" {
		c.Downloads.Dir = v
	}
	if v := os.Getenv("MUSELIB_TIMEOUT_SECONDS"); v != "" {
		if seconds, err := strconv.Atoi(v); err == nil {
			c.Server.TimeoutSeconds = seconds
		}
	}
}

// TokenPath resolves the session token file location, defaulting to
// ~/.muselib/token when unset.
func (c *Config) TokenPath() (string, error) {
	if c.Session.TokenPath != "" {
		return c.Session.TokenPath, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(homeDir, ".muselib", "token"), nil
}
