package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	DefaultListen        = "127.0.0.1:8080"
	DefaultTitle         = "Admin Dashboard: Add Events"
	DefaultTimezone      = "UTC"
	DefaultLogLevel      = "info"
	DefaultTableMaxWidth = 40
	DefaultCapturePath   = "./cache/preview.png"
)

// BasicAuthConfig holds HTTP Basic Auth credentials for the dashboard and API.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// CaptureConfig controls dashboard screenshots taken via headless Chromium.
type CaptureConfig struct {
	// OutputPath is where the PNG is written and served from /preview.png.
	OutputPath string `yaml:"output_path" json:"output_path"`
	Width      int    `yaml:"width" json:"width"`
	Height     int    `yaml:"height" json:"height"`
	// TimeoutSeconds bounds a single capture run.
	TimeoutSeconds int `yaml:"timeout_seconds" json:"timeout_seconds"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the dashboard and API.
	Listen string `yaml:"listen" json:"listen"`

	// Title is the heading shown above the form.
	Title string `yaml:"title" json:"title"`

	// Timezone is the IANA zone in which entered dates and times are
	// interpreted for the iCalendar export (e.g. "Asia/Seoul").
	Timezone string `yaml:"timezone" json:"timezone"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" json:"log_level"`

	// StatusCron is a cron-style schedule ("*/15 * * * *") for the periodic
	// status log line. Empty disables it.
	StatusCron string `yaml:"status_cron" json:"status_cron"`

	// TableMaxWidth caps the display width of a cell in /events.txt.
	TableMaxWidth int `yaml:"table_max_width" json:"table_max_width"`

	Capture CaptureConfig `yaml:"capture" json:"capture"`

	// BasicAuth, if non-nil, enables HTTP Basic Authentication on all endpoints
	// except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:        DefaultListen,
		Title:         DefaultTitle,
		Timezone:      DefaultTimezone,
		LogLevel:      DefaultLogLevel,
		StatusCron:    "",
		TableMaxWidth: DefaultTableMaxWidth,
		Capture: CaptureConfig{
			OutputPath:     DefaultCapturePath,
			Width:          1280,
			Height:         960,
			TimeoutSeconds: 30,
		},
		BasicAuth: nil,
	}
}

// Normalize fills in missing/zero values so partially-filled configs still
// behave correctly.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = DefaultListen
	}
	if c.Title == "" {
		c.Title = DefaultTitle
	}
	if c.Timezone == "" {
		c.Timezone = DefaultTimezone
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		c.LogLevel = DefaultLogLevel
	}
	if c.TableMaxWidth <= 0 {
		c.TableMaxWidth = DefaultTableMaxWidth
	}
	if c.Capture.OutputPath == "" {
		c.Capture.OutputPath = DefaultCapturePath
	}
	if c.Capture.Width <= 0 {
		c.Capture.Width = 1280
	}
	if c.Capture.Height <= 0 {
		c.Capture.Height = 960
	}
	if c.Capture.TimeoutSeconds <= 0 {
		c.Capture.TimeoutSeconds = 30
	}
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist, a default config is written with 0600
//     perms (creating the parent directory) and returned.
//   - Otherwise the YAML is unmarshaled and normalized.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Caller decides whether an unsaved default is acceptable.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes cfg to path atomically (temp file + rename) with 0600
// permissions, creating the parent directory with 0700 if needed.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".eventadmin-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}

// BasicAuthEnabled reports whether both a username and password are set.
func (c *Config) BasicAuthEnabled() bool {
	return c.BasicAuth != nil && c.BasicAuth.Username != "" && c.BasicAuth.Password != ""
}

// Save is a convenience method that delegates to the package-level Save.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
