package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".vncfetch"

// Environment variables that override file values.
const (
	EnvBaseURL   = "VNCFETCH_BASE_URL"
	EnvProxy     = "VNCFETCH_PROXY"
	EnvOutputDir = "VNCFETCH_OUTPUT_DIR"
)

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the .vncfetch configuration file.
// Zero values mean "not set" and leave the current value alone.
type File struct {
	BaseURL          string        `yaml:"base_url,omitempty"`
	Timeout          time.Duration `yaml:"timeout,omitempty"`
	UserAgent        string        `yaml:"user_agent,omitempty"`
	Proxy            string        `yaml:"proxy,omitempty"`
	OutputDir        string        `yaml:"output_dir,omitempty"`
	ImageDir         string        `yaml:"image_dir,omitempty"`
	SkipFailedImages *bool         `yaml:"skip_failed_images,omitempty"`
	LogFile          string        `yaml:"log_file,omitempty"`
	History          *bool         `yaml:"history,omitempty"`
}

// LoadConfigFile loads a YAML configuration file.
// If the file does not exist, it returns ErrConfigNotFound.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .vncfetch in the current directory
// 3. Look for config.yaml in the XDG config directory
// 4. Look for .vncfetch in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	candidates := make([]string, 0, 3)
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	candidates = append(candidates, filepath.Join(XDGConfigDir(), "config.yaml"))
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}

	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}

// Apply copies every value set in the file onto c.
func (cf *File) Apply(c *Config) {
	if cf.BaseURL != "" {
		c.BaseURL = cf.BaseURL
	}
	if cf.Timeout != 0 {
		c.Timeout = cf.Timeout
	}
	if cf.UserAgent != "" {
		c.UserAgent = cf.UserAgent
	}
	if cf.Proxy != "" {
		c.ProxyAddress = cf.Proxy
	}
	if cf.OutputDir != "" {
		c.OutputDir = cf.OutputDir
	}
	if cf.ImageDir != "" {
		c.ImageDir = cf.ImageDir
	}
	if cf.SkipFailedImages != nil {
		c.SkipFailedImages = *cf.SkipFailedImages
	}
	if cf.LogFile != "" {
		c.LogFile = cf.LogFile
	}
	if cf.History != nil {
		c.History = *cf.History
	}
}

// LoadDotEnv loads a .env file from dir into the process environment.
// Variables that are already set win. A missing file is not an error.
func LoadDotEnv(dir string) error {
	path := filepath.Join(dir, ".env")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides c with the VNCFETCH_* variables found through lookup.
// Pass os.LookupEnv in production.
func ApplyEnv(c *Config, lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvBaseURL); ok && v != "" {
		c.BaseURL = v
	}
	if v, ok := lookup(EnvProxy); ok && v != "" {
		c.ProxyAddress = v
	}
	if v, ok := lookup(EnvOutputDir); ok && v != "" {
		c.OutputDir = v
	}
}

// Load builds a Config from defaults, the configuration file and the
// environment. If configPath is set and missing, ErrConfigNotFound is
// returned; otherwise an absent file is silently skipped.
func Load(configPath string) (*Config, error) {
	cfg := NewConfig()
	cfg.ConfigFilePath = configPath

	if cwd, err := os.Getwd(); err == nil {
		if err := LoadDotEnv(cwd); err != nil {
			return nil, err
		}
	}

	path := FindConfigFile(configPath)
	switch {
	case path != "":
		cf, err := LoadConfigFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
		cf.Apply(cfg)
		cfg.ConfigFilePath = path
	case configPath != "":
		return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
	}

	ApplyEnv(cfg, os.LookupEnv)
	return cfg, nil
}
