package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/nickwells/xdg.mod/xdg"
	"gopkg.in/yaml.v3"
)

// FileName is the config file kept at the root of the data directory.
const FileName = "coincontrol.yaml"

// Environment variables read by Resolve and ApplyEnv.
const (
	EnvDir      = "COINCONTROL_DIR"
	EnvLogLevel = "COINCONTROL_LOG_LEVEL"
)

// Config represents coincontrol.yaml.
type Config struct {
	Display DisplayConfig `yaml:"display"`
	Log     LogConfig     `yaml:"log"`
	Git     GitConfig     `yaml:"git"`
	Import  ImportConfig  `yaml:"import"`
}

// DisplayConfig controls how amounts are shown.
type DisplayConfig struct {
	Currency string `yaml:"currency"`
}

// LogConfig controls diagnostic output.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// GitConfig controls history of the data directory.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// ImportConfig controls bank export imports.
type ImportConfig struct {
	DefaultFormat string `yaml:"default_format"`
}

// Load reads a coincontrol.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// LoadDir reads the config in dir, falling back to defaults when the data
// directory has none yet.
func LoadDir(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new data directory.
func Default() *Config {
	return &Config{
		Display: DisplayConfig{
			Currency: "$",
		},
		Log: LogConfig{
			Level: "info",
		},
		Git: GitConfig{
			AutoCommit:  false,
			AuthorName:  "CoinControl",
			AuthorEmail: "coincontrol@localhost",
		},
		Import: ImportConfig{
			DefaultFormat: "chase",
		},
	}
}

// ApplyEnv overrides config values from the environment.
func (c *Config) ApplyEnv() {
	if lvl := os.Getenv(EnvLogLevel); lvl != "" {
		c.Log.Level = lvl
	}
}

// LoadEnv loads a .env file from the working directory when one exists.
func LoadEnv() {
	_ = godotenv.Load()
}

// Resolve picks the data directory: an explicit flag value wins, then
// COINCONTROL_DIR, then coincontrol under the XDG config home.
func Resolve(flagDir string) (string, error) {
	dir := flagDir
	if dir == "" {
		dir = os.Getenv(EnvDir)
	}
	if dir == "" {
		dir = DefaultDir()
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}
	return abs, nil
}

// DefaultDir returns the data directory used when nothing else is set.
func DefaultDir() string {
	return filepath.Join(xdg.ConfigHome(), "coincontrol")
}
