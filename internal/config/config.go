package config

import (
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/go-playground/validator/v10"

	"github.com/nao1215/vncfetch/internal/version"
)

// Default configuration values.
const (
	// DefaultBaseURL is the VNC resolver deployment the tool talks to.
	// The search and screenshot endpoints live under /api/v1.
	DefaultBaseURL = "https://computernewb.com/vncresolver-next"

	// DefaultTimeout bounds each HTTP request. A full search for a large
	// country can take a while to render server side.
	DefaultTimeout = 60 * time.Second

	// DefaultOutputDir is where reports are written.
	DefaultOutputDir = "."

	// DefaultImageDir is the directory, relative to the report, that holds
	// downloaded screenshots.
	DefaultImageDir = "images"

	// DefaultSpinnerInterval is the delay between two spinner frames.
	DefaultSpinnerInterval = 100 * time.Millisecond

	// DefaultMaxBodySize caps how much of a response body is read.
	// Screenshots are a few hundred KB; full searches can be several MB.
	DefaultMaxBodySize = 32 * 1024 * 1024 // 32MB

	// AppName is the application name used for XDG directory paths.
	AppName = "vncfetch"
)

// DefaultUserAgent identifies vncfetch in HTTP requests as
// "vncfetch/<version> (+<project URL>)".
func DefaultUserAgent() string {
	return AppName + "/" + version.Version() + " (+https://github.com/nao1215/vncfetch)"
}

// Config holds all configuration options for vncfetch.
// It is populated from defaults, the config file, the environment and
// CLI flags, in that order, and passed down explicitly.
type Config struct {
	// BaseURL is the root of the resolver API, without a trailing slash.
	BaseURL string `validate:"required,url"`

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration `validate:"gt=0"`

	// UserAgent is sent with every request.
	UserAgent string `validate:"required"`

	// ProxyAddress is an optional SOCKS5 proxy in "host:port" form.
	// When empty, requests go out directly.
	ProxyAddress string `validate:"omitempty,hostname_port"`

	// OutputDir is the directory reports are written to.
	OutputDir string `validate:"required"`

	// ImageDir is the screenshot directory name, relative to OutputDir.
	// It must be a plain relative path so that the HTML report can link to it.
	ImageDir string `validate:"required"`

	// SkipFailedImages makes a failed screenshot download fall back to the
	// remote link with a warning instead of aborting the export.
	SkipFailedImages bool

	// MaxBodySize is the maximum response body size in bytes.
	MaxBodySize int64 `validate:"gt=0"`

	// SpinnerInterval is the delay between two spinner frames.
	SpinnerInterval time.Duration `validate:"gt=0"`

	// Verbose enables debug logging.
	Verbose bool

	// LogFile, when set, receives a copy of every log line through a
	// rotating file writer.
	LogFile string

	// History enables the run journal in the XDG data directory.
	History bool

	// DBDir is the directory of the run journal database.
	DBDir string

	// ConfigFilePath is the path to the configuration file.
	// If empty, the usual locations are searched.
	ConfigFilePath string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		BaseURL:         DefaultBaseURL,
		Timeout:         DefaultTimeout,
		UserAgent:       DefaultUserAgent(),
		OutputDir:       DefaultOutputDir,
		ImageDir:        DefaultImageDir,
		MaxBodySize:     DefaultMaxBodySize,
		SpinnerInterval: DefaultSpinnerInterval,
		History:         true,
		DBDir:           XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for vncfetch.
// On Linux: ~/.local/share/vncfetch
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for vncfetch.
// On Linux: ~/.config/vncfetch
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// fieldErrors maps a Config field name to the sentinel reported for it.
var fieldErrors = map[string]error{
	"BaseURL":         ErrInvalidBaseURL,
	"Timeout":         ErrInvalidTimeout,
	"UserAgent":       ErrInvalidUserAgent,
	"ProxyAddress":    ErrInvalidProxy,
	"OutputDir":       ErrInvalidOutputDir,
	"ImageDir":        ErrInvalidImageDir,
	"MaxBodySize":     ErrInvalidMaxBodySize,
	"SpinnerInterval": ErrInvalidSpinnerInterval,
}

// Validate checks the configuration and returns the sentinel error of the
// first invalid field.
func (c *Config) Validate() error {
	validate := validator.New()
	err := validate.Struct(c)
	if err == nil {
		return c.validatePaths()
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	for _, fe := range verrs {
		if sentinel, ok := fieldErrors[fe.StructField()]; ok {
			return sentinel
		}
	}
	return err
}

// validatePaths rejects an image directory that escapes the output directory.
func (c *Config) validatePaths() error {
	if filepath.IsAbs(c.ImageDir) {
		return ErrInvalidImageDir
	}
	clean := filepath.Clean(c.ImageDir)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return ErrInvalidImageDir
	}
	return nil
}
